package handler

import (
	"context"

	"github.com/fekuna/omnipos-stock-service/internal/apperr"
	"github.com/fekuna/omnipos-stock-service/internal/bundle"
	"github.com/fekuna/omnipos-stock-service/internal/bundle/dto"
	"github.com/fekuna/omnipos-stock-service/internal/logger"
	"github.com/fekuna/omnipos-stock-service/internal/model"
	"github.com/fekuna/omnipos-stock-service/internal/transport/grpcjson"
	"google.golang.org/grpc"
)

const ServiceName = "omnipos.stock.v1.BundleService"

type BundleHandler struct {
	uc     bundle.UseCase
	logger logger.ZapLogger
}

func NewBundleHandler(uc bundle.UseCase, log logger.ZapLogger) *BundleHandler {
	return &BundleHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *BundleHandler) Register(s grpc.ServiceRegistrar) {
	s.RegisterService(grpcjson.ServiceDesc(ServiceName,
		grpcjson.UnaryMethod(ServiceName, "AddComponent", h.AddComponent),
		grpcjson.UnaryMethod(ServiceName, "RemoveComponent", h.RemoveComponent),
		grpcjson.UnaryMethod(ServiceName, "ListComponents", h.ListComponents),
		grpcjson.UnaryMethod(ServiceName, "AvailableStock", h.AvailableStock),
		grpcjson.UnaryMethod(ServiceName, "DeductBundleStock", h.DeductBundleStock),
	), h)
}

type AddComponentRequest struct {
	BundleItemID         string `json:"bundle_item_id"`
	ComponentVariationID string `json:"component_variation_id"`
	Quantity             int    `json:"quantity"`
	DisplayOrder         int    `json:"display_order"`
	IsHighlight          bool   `json:"is_highlight"`
}

func (h *BundleHandler) AddComponent(ctx context.Context, req *AddComponentRequest) (*model.BundleComponent, error) {
	c, err := h.uc.AddComponent(ctx, &dto.AddComponentInput{
		BundleItemID:         req.BundleItemID,
		ComponentVariationID: req.ComponentVariationID,
		Quantity:             req.Quantity,
		DisplayOrder:         req.DisplayOrder,
		IsHighlight:          req.IsHighlight,
	})
	if err != nil {
		return nil, apperr.ToGRPC(err)
	}
	return c, nil
}

type ComponentRequest struct {
	BundleItemID         string `json:"bundle_item_id"`
	ComponentVariationID string `json:"component_variation_id"`
}

type Empty struct{}

func (h *BundleHandler) RemoveComponent(ctx context.Context, req *ComponentRequest) (*Empty, error) {
	if err := h.uc.RemoveComponent(ctx, req.BundleItemID, req.ComponentVariationID); err != nil {
		return nil, apperr.ToGRPC(err)
	}
	return &Empty{}, nil
}

type BundleRequest struct {
	BundleItemID string `json:"bundle_item_id"`
}

type ListComponentsResponse struct {
	Components []model.BundleComponent `json:"components"`
}

func (h *BundleHandler) ListComponents(ctx context.Context, req *BundleRequest) (*ListComponentsResponse, error) {
	components, err := h.uc.ListComponents(ctx, req.BundleItemID)
	if err != nil {
		return nil, apperr.ToGRPC(err)
	}
	return &ListComponentsResponse{Components: components}, nil
}

type AvailableStockRequest struct {
	BundleItemID string `json:"bundle_item_id"`
	// Empty returns availability for every stocked location.
	LocationID string `json:"location_id"`
}

type AvailableStockResponse struct {
	Available  *int           `json:"available,omitempty"`
	ByLocation map[string]int `json:"by_location,omitempty"`
}

func (h *BundleHandler) AvailableStock(ctx context.Context, req *AvailableStockRequest) (*AvailableStockResponse, error) {
	if req.LocationID == "" {
		byLocation, err := h.uc.AvailableStockByLocation(ctx, req.BundleItemID)
		if err != nil {
			return nil, apperr.ToGRPC(err)
		}
		return &AvailableStockResponse{ByLocation: byLocation}, nil
	}

	n, err := h.uc.AvailableStock(ctx, req.BundleItemID, req.LocationID)
	if err != nil {
		return nil, apperr.ToGRPC(err)
	}
	return &AvailableStockResponse{Available: &n}, nil
}

type DeductBundleStockRequest struct {
	BundleVariationID string `json:"bundle_variation_id"`
	Quantity          int    `json:"quantity"`
	LocationID        string `json:"location_id"`
	OrderID           string `json:"order_id"`
}

type DeductBundleStockResponse struct {
	Adjustments []model.InventoryAdjustment `json:"adjustments"`
}

func (h *BundleHandler) DeductBundleStock(ctx context.Context, req *DeductBundleStockRequest) (*DeductBundleStockResponse, error) {
	adjs, err := h.uc.DeductBundleStock(ctx, &dto.DeductBundleInput{
		BundleVariationID: req.BundleVariationID,
		Quantity:          req.Quantity,
		LocationID:        req.LocationID,
		OrderID:           req.OrderID,
	})
	if err != nil {
		return nil, apperr.ToGRPC(err)
	}
	return &DeductBundleStockResponse{Adjustments: adjs}, nil
}
