package handler

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-stock-service/internal/apperr"
	"github.com/fekuna/omnipos-stock-service/internal/catalog"
	"github.com/fekuna/omnipos-stock-service/internal/inventory"
	"github.com/fekuna/omnipos-stock-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-stock-service/internal/logger"
	"github.com/fekuna/omnipos-stock-service/internal/model"
	"github.com/fekuna/omnipos-stock-service/internal/transport/grpcjson"
	"google.golang.org/grpc"
)

const ServiceName = "omnipos.stock.v1.StockService"

type InventoryHandler struct {
	uc      inventory.UseCase
	catalog catalog.UseCase
	logger  logger.ZapLogger
}

func NewInventoryHandler(uc inventory.UseCase, catalog catalog.UseCase, log logger.ZapLogger) *InventoryHandler {
	return &InventoryHandler{
		uc:      uc,
		catalog: catalog,
		logger:  log,
	}
}

func (h *InventoryHandler) Register(s grpc.ServiceRegistrar) {
	s.RegisterService(grpcjson.ServiceDesc(ServiceName,
		grpcjson.UnaryMethod(ServiceName, "ApplyAdjustment", h.ApplyAdjustment),
		grpcjson.UnaryMethod(ServiceName, "DeductAcrossLocations", h.DeductAcrossLocations),
		grpcjson.UnaryMethod(ServiceName, "GetStockLevel", h.GetStockLevel),
		grpcjson.UnaryMethod(ServiceName, "ListStockLevels", h.ListStockLevels),
		grpcjson.UnaryMethod(ServiceName, "ListLowStock", h.ListLowStock),
		grpcjson.UnaryMethod(ServiceName, "ListAdjustments", h.ListAdjustments),
		grpcjson.UnaryMethod(ServiceName, "VerifyLedger", h.VerifyLedger),
		grpcjson.UnaryMethod(ServiceName, "ListLocations", h.ListLocations),
	), h)
}

type ApplyAdjustmentRequest struct {
	VariationID  string `json:"variation_id"`
	LocationID   string `json:"location_id"`
	ChangeAmount int    `json:"change_amount"`
	Reason       string `json:"reason"`
	ReferenceID  string `json:"reference_id"`
}

type AdjustmentResponse struct {
	Adjustment *model.InventoryAdjustment `json:"adjustment"`
	NewStock   int                        `json:"new_stock"`
}

// ApplyAdjustment is the manual adjustment entry point; it never allows the
// row to go negative.
func (h *InventoryHandler) ApplyAdjustment(ctx context.Context, req *ApplyAdjustmentRequest) (*AdjustmentResponse, error) {
	adj, err := h.uc.ApplyAdjustment(ctx, &dto.ApplyAdjustmentInput{
		VariationID:  req.VariationID,
		LocationID:   req.LocationID,
		ChangeAmount: req.ChangeAmount,
		Reason:       req.Reason,
		Source:       model.AdjustmentSourceManual,
		ReferenceID:  req.ReferenceID,
	})
	if err != nil {
		return nil, apperr.ToGRPC(err)
	}
	return &AdjustmentResponse{Adjustment: adj, NewStock: adj.StockAfter}, nil
}

type DeductAcrossLocationsRequest struct {
	VariationID string `json:"variation_id"`
	Quantity    int    `json:"quantity"`
	Reason      string `json:"reason"`
	ReferenceID string `json:"reference_id"`
}

type AdjustmentsResponse struct {
	Adjustments []model.InventoryAdjustment `json:"adjustments"`
	Total       int                         `json:"total"`
}

func (h *InventoryHandler) DeductAcrossLocations(ctx context.Context, req *DeductAcrossLocationsRequest) (*AdjustmentsResponse, error) {
	adjs, err := h.uc.DeductAcrossLocations(ctx, &dto.DeductAcrossLocationsInput{
		VariationID: req.VariationID,
		Quantity:    req.Quantity,
		Reason:      req.Reason,
		Source:      model.AdjustmentSourceSale,
		ReferenceID: req.ReferenceID,
	})
	if err != nil {
		return nil, apperr.ToGRPC(err)
	}
	return &AdjustmentsResponse{Adjustments: adjs, Total: len(adjs)}, nil
}

type StockLevelRequest struct {
	VariationID string `json:"variation_id"`
	LocationID  string `json:"location_id"`
}

func (h *InventoryHandler) GetStockLevel(ctx context.Context, req *StockLevelRequest) (*model.StockLevel, error) {
	level, err := h.uc.GetStockLevel(ctx, req.VariationID, req.LocationID)
	if err != nil {
		return nil, apperr.ToGRPC(err)
	}
	return level, nil
}

type ListStockLevelsRequest struct {
	VariationID string `json:"variation_id"`
	LocationID  string `json:"location_id"`
	Page        int    `json:"page"`
	PageSize    int    `json:"page_size"`
}

type StockLevelsResponse struct {
	Items []model.StockLevel `json:"items"`
	Total int                `json:"total"`
}

func (h *InventoryHandler) ListStockLevels(ctx context.Context, req *ListStockLevelsRequest) (*StockLevelsResponse, error) {
	items, count, err := h.uc.ListStockLevels(ctx, &dto.StockFilters{
		VariationID: req.VariationID,
		LocationID:  req.LocationID,
		Page:        req.Page,
		PageSize:    req.PageSize,
	})
	if err != nil {
		return nil, apperr.ToGRPC(err)
	}
	return &StockLevelsResponse{Items: items, Total: count}, nil
}

type ListLowStockRequest struct {
	Threshold  int    `json:"threshold"`
	LocationID string `json:"location_id"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
}

func (h *InventoryHandler) ListLowStock(ctx context.Context, req *ListLowStockRequest) (*StockLevelsResponse, error) {
	items, count, err := h.uc.ListLowStock(ctx, req.Threshold, req.LocationID, req.Page, req.PageSize)
	if err != nil {
		return nil, apperr.ToGRPC(err)
	}
	return &StockLevelsResponse{Items: items, Total: count}, nil
}

type ListAdjustmentsRequest struct {
	ItemID      string     `json:"item_id"`
	VariationID string     `json:"variation_id"`
	LocationID  string     `json:"location_id"`
	Source      string     `json:"source"`
	ReferenceID string     `json:"reference_id"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Page        int        `json:"page"`
	PageSize    int        `json:"page_size"`
}

func (h *InventoryHandler) ListAdjustments(ctx context.Context, req *ListAdjustmentsRequest) (*AdjustmentsResponse, error) {
	adjs, count, err := h.uc.ListAdjustments(ctx, &dto.AdjustmentFilters{
		ItemID:      req.ItemID,
		VariationID: req.VariationID,
		LocationID:  req.LocationID,
		Source:      req.Source,
		ReferenceID: req.ReferenceID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Page:        req.Page,
		PageSize:    req.PageSize,
	})
	if err != nil {
		return nil, apperr.ToGRPC(err)
	}
	return &AdjustmentsResponse{Adjustments: adjs, Total: count}, nil
}

func (h *InventoryHandler) VerifyLedger(ctx context.Context, req *StockLevelRequest) (*model.LedgerReport, error) {
	report, err := h.uc.VerifyLedger(ctx, req.VariationID, req.LocationID)
	if err != nil {
		return nil, apperr.ToGRPC(err)
	}
	return report, nil
}

type ListLocationsRequest struct {
	ActiveOnly bool `json:"active_only"`
}

type LocationsResponse struct {
	Locations []model.Location `json:"locations"`
	Total     int              `json:"total"`
}

// ListLocations lets clients pick a location to stock, count or sell from.
func (h *InventoryHandler) ListLocations(ctx context.Context, req *ListLocationsRequest) (*LocationsResponse, error) {
	locs, err := h.catalog.ListLocations(ctx, req.ActiveOnly)
	if err != nil {
		return nil, apperr.ToGRPC(err)
	}
	return &LocationsResponse{Locations: locs, Total: len(locs)}, nil
}
