package handler

import (
	"strconv"

	"asset-marketplace/internal/adapter/http/dto"
	"asset-marketplace/internal/adapter/http/middleware"
	"asset-marketplace/internal/core/domain"
	"asset-marketplace/internal/core/ports"
	"asset-marketplace/pkg/apperror"
	"asset-marketplace/pkg/response"

	"github.com/gin-gonic/gin"
)

// MarketHandler handles listing, purchase, and proceeds endpoints.
type MarketHandler struct {
	marketSvc ports.MarketplaceService
}

// NewMarketHandler creates a new MarketHandler.
func NewMarketHandler(marketSvc ports.MarketplaceService) *MarketHandler {
	return &MarketHandler{marketSvc: marketSvc}
}

// callerAddress returns the authenticated principal's address from the
// request context.
func callerAddress(c *gin.Context) (string, bool) {
	addr, ok := c.Get(middleware.CtxAddress)
	if !ok {
		return "", false
	}
	s, ok := addr.(string)
	return s, ok
}

// pathToken extracts the (nft, token_id) pair from the route params.
func pathToken(c *gin.Context) (string, uint64, error) {
	nft := c.Param("nft")
	tokenID, err := strconv.ParseUint(c.Param("token_id"), 10, 64)
	if err != nil {
		return "", 0, apperror.Validation("token_id must be an unsigned integer")
	}
	if !domain.IsValidAddress(domain.NormalizeAddress(nft)) {
		return "", 0, apperror.Validation("nft must be a 0x-prefixed 40-hex-digit address")
	}
	return nft, tokenID, nil
}

// ListItem handles POST /api/v1/listings.
func (h *MarketHandler) ListItem(c *gin.Context) {
	seller, ok := callerAddress(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidAccessKey())
		return
	}

	var req dto.ListItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	listing, err := h.marketSvc.ListItem(c.Request.Context(), ports.ListItemRequest{
		Seller:     seller,
		NFTAddress: req.NFTAddress,
		TokenID:    req.TokenID,
		Price:      req.Price,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.NewListingResponse(listing))
}

// UpdatePrice handles PUT /api/v1/listings/:nft/:token_id.
func (h *MarketHandler) UpdatePrice(c *gin.Context) {
	seller, ok := callerAddress(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidAccessKey())
		return
	}

	nft, tokenID, err := pathToken(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.UpdatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	listing, err := h.marketSvc.UpdateListing(c.Request.Context(), ports.UpdateListingRequest{
		Seller:     seller,
		NFTAddress: nft,
		TokenID:    tokenID,
		NewPrice:   req.NewPrice,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewListingResponse(listing))
}

// CancelListing handles DELETE /api/v1/listings/:nft/:token_id.
func (h *MarketHandler) CancelListing(c *gin.Context) {
	seller, ok := callerAddress(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidAccessKey())
		return
	}

	nft, tokenID, err := pathToken(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.marketSvc.CancelListing(c.Request.Context(), ports.CancelListingRequest{
		Seller:     seller,
		NFTAddress: nft,
		TokenID:    tokenID,
	}); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"canceled": true})
}

// BuyItem handles POST /api/v1/listings/:nft/:token_id/buy.
func (h *MarketHandler) BuyItem(c *gin.Context) {
	buyer, ok := callerAddress(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidAccessKey())
		return
	}

	nft, tokenID, err := pathToken(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.BuyItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	purchase, err := h.marketSvc.BuyItem(c.Request.Context(), ports.BuyItemRequest{
		Buyer:      buyer,
		NFTAddress: nft,
		TokenID:    tokenID,
		Payment:    req.Payment,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewPurchaseResponse(purchase))
}

// WithdrawProceeds handles POST /api/v1/withdrawals.
func (h *MarketHandler) WithdrawProceeds(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidAccessKey())
		return
	}

	amount, err := h.marketSvc.WithdrawProceeds(c.Request.Context(), caller)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.WithdrawResponse{
		Address: domain.NormalizeAddress(caller),
		Amount:  amount,
	})
}

// GetListing handles GET /api/v1/listings/:nft/:token_id.
func (h *MarketHandler) GetListing(c *gin.Context) {
	nft, tokenID, err := pathToken(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	listing, err := h.marketSvc.GetListing(c.Request.Context(), nft, tokenID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if listing == nil {
		response.Error(c, apperror.ErrNotListed(domain.NormalizeAddress(nft), tokenID))
		return
	}

	response.OK(c, dto.NewListingResponse(listing))
}

// BrowseListings handles GET /api/v1/listings.
func (h *MarketHandler) BrowseListings(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	params := ports.ListingPageParams{
		Page:     page,
		PageSize: pageSize,
	}
	if nft := c.Query("nft"); nft != "" {
		if !domain.IsValidAddress(domain.NormalizeAddress(nft)) {
			response.Error(c, apperror.Validation("nft must be a 0x-prefixed 40-hex-digit address"))
			return
		}
		normalized := domain.NormalizeAddress(nft)
		params.NFTAddress = &normalized
	}

	items, total, err := h.marketSvc.BrowseListings(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewListingListResponse(items, total, params.Page, params.PageSize))
}

// GetProceeds handles GET /api/v1/proceeds/:address.
func (h *MarketHandler) GetProceeds(c *gin.Context) {
	address := c.Param("address")
	if !domain.IsValidAddress(domain.NormalizeAddress(address)) {
		response.Error(c, apperror.Validation("address must be a 0x-prefixed 40-hex-digit address"))
		return
	}

	balance, err := h.marketSvc.GetProceeds(c.Request.Context(), address)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ProceedsResponse{
		Address: domain.NormalizeAddress(address),
		Balance: balance,
	})
}
