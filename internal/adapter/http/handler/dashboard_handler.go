package handler

import (
	"strconv"

	"asset-marketplace/internal/adapter/http/dto"
	"asset-marketplace/internal/core/ports"
	"asset-marketplace/pkg/apperror"
	"asset-marketplace/pkg/response"

	"github.com/gin-gonic/gin"
)

// DashboardHandler handles JWT-authenticated account views.
type DashboardHandler struct {
	marketSvc ports.MarketplaceService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(marketSvc ports.MarketplaceService) *DashboardHandler {
	return &DashboardHandler{marketSvc: marketSvc}
}

// MyListings handles GET /api/v1/me/listings.
func (h *DashboardHandler) MyListings(c *gin.Context) {
	address, ok := callerAddress(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	items, err := h.marketSvc.ListingsBySeller(c.Request.Context(), address)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := make([]dto.ListingResponse, 0, len(items))
	for i := range items {
		resp = append(resp, dto.NewListingResponse(&items[i]))
	}
	response.OK(c, resp)
}

// MyProceeds handles GET /api/v1/me/proceeds.
func (h *DashboardHandler) MyProceeds(c *gin.Context) {
	address, ok := callerAddress(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	balance, err := h.marketSvc.GetProceeds(c.Request.Context(), address)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ProceedsResponse{
		Address: address,
		Balance: balance,
	})
}

// RecentEvents handles GET /api/v1/events.
func (h *DashboardHandler) RecentEvents(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	events, err := h.marketSvc.RecentEvents(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		resp = append(resp, dto.NewEventResponse(&events[i]))
	}
	response.OK(c, resp)
}
