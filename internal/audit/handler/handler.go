package handler

import (
	"context"

	"github.com/fekuna/omnipos-stock-service/internal/apperr"
	"github.com/fekuna/omnipos-stock-service/internal/audit"
	"github.com/fekuna/omnipos-stock-service/internal/audit/dto"
	"github.com/fekuna/omnipos-stock-service/internal/logger"
	"github.com/fekuna/omnipos-stock-service/internal/model"
	"github.com/fekuna/omnipos-stock-service/internal/transport/grpcjson"
	"google.golang.org/grpc"
)

const ServiceName = "omnipos.stock.v1.AuditService"

type AuditHandler struct {
	uc     audit.UseCase
	logger logger.ZapLogger
}

func NewAuditHandler(uc audit.UseCase, log logger.ZapLogger) *AuditHandler {
	return &AuditHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *AuditHandler) Register(s grpc.ServiceRegistrar) {
	s.RegisterService(grpcjson.ServiceDesc(ServiceName,
		grpcjson.UnaryMethod(ServiceName, "CreateAudit", h.CreateAudit),
		grpcjson.UnaryMethod(ServiceName, "UpdateAudit", h.UpdateAudit),
		grpcjson.UnaryMethod(ServiceName, "ResolveAudit", h.ResolveAudit),
		grpcjson.UnaryMethod(ServiceName, "DeleteAudit", h.DeleteAudit),
		grpcjson.UnaryMethod(ServiceName, "GetAudit", h.GetAudit),
		grpcjson.UnaryMethod(ServiceName, "ListAudits", h.ListAudits),
	), h)
}

type CreateAuditRequest struct {
	ItemID        string `json:"item_id"`
	VariationID   string `json:"variation_id"`
	LocationID    string `json:"location_id"`
	ActualStock   int    `json:"actual_stock"`
	RecordedStock *int   `json:"recorded_stock,omitempty"`
}

func (h *AuditHandler) CreateAudit(ctx context.Context, req *CreateAuditRequest) (*model.InventoryAudit, error) {
	a, err := h.uc.CreateAudit(ctx, &dto.CreateAuditInput{
		ItemID:        req.ItemID,
		VariationID:   req.VariationID,
		LocationID:    req.LocationID,
		ActualStock:   req.ActualStock,
		RecordedStock: req.RecordedStock,
	})
	if err != nil {
		return nil, apperr.ToGRPC(err)
	}
	return a, nil
}

type UpdateAuditRequest struct {
	ID          string `json:"id"`
	ActualStock int    `json:"actual_stock"`
}

func (h *AuditHandler) UpdateAudit(ctx context.Context, req *UpdateAuditRequest) (*model.InventoryAudit, error) {
	a, err := h.uc.UpdateAudit(ctx, &dto.UpdateAuditInput{ID: req.ID, ActualStock: req.ActualStock})
	if err != nil {
		return nil, apperr.ToGRPC(err)
	}
	return a, nil
}

type AuditIDRequest struct {
	ID string `json:"id"`
}

func (h *AuditHandler) ResolveAudit(ctx context.Context, req *AuditIDRequest) (*model.InventoryAudit, error) {
	a, err := h.uc.ResolveAudit(ctx, req.ID)
	if err != nil {
		return nil, apperr.ToGRPC(err)
	}
	return a, nil
}

type Empty struct{}

func (h *AuditHandler) DeleteAudit(ctx context.Context, req *AuditIDRequest) (*Empty, error) {
	if err := h.uc.DeleteAudit(ctx, req.ID); err != nil {
		return nil, apperr.ToGRPC(err)
	}
	return &Empty{}, nil
}

func (h *AuditHandler) GetAudit(ctx context.Context, req *AuditIDRequest) (*model.InventoryAudit, error) {
	a, err := h.uc.GetAudit(ctx, req.ID)
	if err != nil {
		return nil, apperr.ToGRPC(err)
	}
	return a, nil
}

type ListAuditsRequest struct {
	Status      string `json:"status"`
	VariationID string `json:"variation_id"`
	LocationID  string `json:"location_id"`
	Page        int    `json:"page"`
	PageSize    int    `json:"page_size"`
}

type ListAuditsResponse struct {
	Audits []model.InventoryAudit `json:"audits"`
	Total  int                    `json:"total"`
}

func (h *AuditHandler) ListAudits(ctx context.Context, req *ListAuditsRequest) (*ListAuditsResponse, error) {
	audits, count, err := h.uc.ListAudits(ctx, &dto.AuditFilters{
		Status:      req.Status,
		VariationID: req.VariationID,
		LocationID:  req.LocationID,
		Page:        req.Page,
		PageSize:    req.PageSize,
	})
	if err != nil {
		return nil, apperr.ToGRPC(err)
	}
	return &ListAuditsResponse{Audits: audits, Total: count}, nil
}
