package handler

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-stock-service/internal/apperr"
	"github.com/fekuna/omnipos-stock-service/internal/logger"
	"github.com/fekuna/omnipos-stock-service/internal/model"
	"github.com/fekuna/omnipos-stock-service/internal/transfer"
	"github.com/fekuna/omnipos-stock-service/internal/transfer/dto"
	"github.com/fekuna/omnipos-stock-service/internal/transport/grpcjson"
	"google.golang.org/grpc"
)

const ServiceName = "omnipos.stock.v1.TransferService"

type TransferHandler struct {
	uc     transfer.UseCase
	logger logger.ZapLogger
}

func NewTransferHandler(uc transfer.UseCase, log logger.ZapLogger) *TransferHandler {
	return &TransferHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *TransferHandler) Register(s grpc.ServiceRegistrar) {
	s.RegisterService(grpcjson.ServiceDesc(ServiceName,
		grpcjson.UnaryMethod(ServiceName, "CreateTransfer", h.CreateTransfer),
		grpcjson.UnaryMethod(ServiceName, "UpdateTransfer", h.UpdateTransfer),
		grpcjson.UnaryMethod(ServiceName, "TransitionTransfer", h.TransitionTransfer),
		grpcjson.UnaryMethod(ServiceName, "CompleteTransfer", h.CompleteTransfer),
		grpcjson.UnaryMethod(ServiceName, "GetTransfer", h.GetTransfer),
		grpcjson.UnaryMethod(ServiceName, "ListTransfers", h.ListTransfers),
	), h)
}

type CreateTransferRequest struct {
	ItemID         string     `json:"item_id"`
	VariationID    string     `json:"variation_id"`
	FromLocationID string     `json:"from_location_id"`
	ToLocationID   string     `json:"to_location_id"`
	Quantity       int        `json:"quantity"`
	Notes          string     `json:"notes"`
	TransferDate   *time.Time `json:"transfer_date,omitempty"`
}

func (h *TransferHandler) CreateTransfer(ctx context.Context, req *CreateTransferRequest) (*model.InventoryTransfer, error) {
	t, err := h.uc.CreateTransfer(ctx, &dto.CreateTransferInput{
		ItemID:         req.ItemID,
		VariationID:    req.VariationID,
		FromLocationID: req.FromLocationID,
		ToLocationID:   req.ToLocationID,
		Quantity:       req.Quantity,
		Notes:          req.Notes,
		TransferDate:   req.TransferDate,
	})
	if err != nil {
		return nil, apperr.ToGRPC(err)
	}
	return t, nil
}

type UpdateTransferRequest struct {
	ID             string     `json:"id"`
	ItemID         *string    `json:"item_id,omitempty"`
	VariationID    *string    `json:"variation_id,omitempty"`
	FromLocationID *string    `json:"from_location_id,omitempty"`
	ToLocationID   *string    `json:"to_location_id,omitempty"`
	Quantity       *int       `json:"quantity,omitempty"`
	Notes          *string    `json:"notes,omitempty"`
	TransferDate   *time.Time `json:"transfer_date,omitempty"`
}

func (h *TransferHandler) UpdateTransfer(ctx context.Context, req *UpdateTransferRequest) (*model.InventoryTransfer, error) {
	t, err := h.uc.UpdateTransfer(ctx, &dto.UpdateTransferInput{
		ID:             req.ID,
		ItemID:         req.ItemID,
		VariationID:    req.VariationID,
		FromLocationID: req.FromLocationID,
		ToLocationID:   req.ToLocationID,
		Quantity:       req.Quantity,
		Notes:          req.Notes,
		TransferDate:   req.TransferDate,
	})
	if err != nil {
		return nil, apperr.ToGRPC(err)
	}
	return t, nil
}

type TransitionTransferRequest struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func (h *TransferHandler) TransitionTransfer(ctx context.Context, req *TransitionTransferRequest) (*model.InventoryTransfer, error) {
	t, err := h.uc.TransitionTransfer(ctx, &dto.TransitionTransferInput{
		ID:     req.ID,
		Status: model.TransferStatus(req.Status),
	})
	if err != nil {
		return nil, apperr.ToGRPC(err)
	}
	return t, nil
}

type TransferIDRequest struct {
	ID string `json:"id"`
}

func (h *TransferHandler) CompleteTransfer(ctx context.Context, req *TransferIDRequest) (*model.InventoryTransfer, error) {
	t, err := h.uc.CompleteTransfer(ctx, req.ID)
	if err != nil {
		return nil, apperr.ToGRPC(err)
	}
	return t, nil
}

func (h *TransferHandler) GetTransfer(ctx context.Context, req *TransferIDRequest) (*model.InventoryTransfer, error) {
	t, err := h.uc.GetTransfer(ctx, req.ID)
	if err != nil {
		return nil, apperr.ToGRPC(err)
	}
	return t, nil
}

type ListTransfersRequest struct {
	Status      string `json:"status"`
	VariationID string `json:"variation_id"`
	LocationID  string `json:"location_id"`
	Page        int    `json:"page"`
	PageSize    int    `json:"page_size"`
}

type ListTransfersResponse struct {
	Transfers []model.InventoryTransfer `json:"transfers"`
	Total     int                       `json:"total"`
}

func (h *TransferHandler) ListTransfers(ctx context.Context, req *ListTransfersRequest) (*ListTransfersResponse, error) {
	transfers, count, err := h.uc.ListTransfers(ctx, &dto.TransferFilters{
		Status:      req.Status,
		VariationID: req.VariationID,
		LocationID:  req.LocationID,
		Page:        req.Page,
		PageSize:    req.PageSize,
	})
	if err != nil {
		return nil, apperr.ToGRPC(err)
	}
	return &ListTransfersResponse{Transfers: transfers, Total: count}, nil
}
