package dto

import (
	"time"

	"asset-marketplace/internal/core/domain"
	"asset-marketplace/internal/core/ports"
)

// RegisterRequest is the request body for account registration.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50,safe_id"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// LoginRequest is the request body for account login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterResponse is the response body for successful registration.
type RegisterResponse struct {
	AccountID string `json:"account_id"`
	Address   string `json:"address"`
	AccessKey string `json:"access_key"`
	SecretKey string `json:"secret_key"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}

// ListItemRequest is the request body for creating a listing.
type ListItemRequest struct {
	NFTAddress string `json:"nft_address" binding:"required,asset_addr"`
	TokenID    uint64 `json:"token_id"`
	Price      int64  `json:"price" binding:"required,gt=0"`
}

// UpdatePriceRequest is the request body for a listing price change.
type UpdatePriceRequest struct {
	NewPrice int64 `json:"new_price" binding:"required,gt=0"`
}

// BuyItemRequest is the request body for a purchase. Payment is the
// amount attached by the buyer; it must meet the listed price.
type BuyItemRequest struct {
	Payment int64 `json:"payment" binding:"required,gt=0"`
}

// ListingResponse is the response body for a single listing.
type ListingResponse struct {
	NFTAddress string `json:"nft_address"`
	TokenID    uint64 `json:"token_id"`
	Seller     string `json:"seller"`
	Price      int64  `json:"price"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

// NewListingResponse maps a domain listing to its API shape.
func NewListingResponse(l *domain.Listing) ListingResponse {
	return ListingResponse{
		NFTAddress: l.NFTAddress,
		TokenID:    l.TokenID,
		Seller:     l.Seller,
		Price:      l.Price,
		CreatedAt:  l.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  l.UpdatedAt.Format(time.RFC3339),
	}
}

// PurchaseResponse is the response body for a settled purchase.
type PurchaseResponse struct {
	NFTAddress string `json:"nft_address"`
	TokenID    uint64 `json:"token_id"`
	Buyer      string `json:"buyer"`
	Seller     string `json:"seller"`
	Price      int64  `json:"price"`
	Payment    int64  `json:"payment"`
}

// NewPurchaseResponse maps a settled purchase to its API shape.
func NewPurchaseResponse(p *ports.Purchase) PurchaseResponse {
	return PurchaseResponse{
		NFTAddress: p.NFTAddress,
		TokenID:    p.TokenID,
		Buyer:      p.Buyer,
		Seller:     p.Seller,
		Price:      p.Price,
		Payment:    p.Payment,
	}
}

// ProceedsResponse is the response for a proceeds balance query.
type ProceedsResponse struct {
	Address string `json:"address"`
	Balance int64  `json:"balance"`
}

// WithdrawResponse is the response for a successful withdrawal.
type WithdrawResponse struct {
	Address string `json:"address"`
	Amount  int64  `json:"amount"`
}

// ListingListResponse wraps a paginated listing page.
type ListingListResponse struct {
	Items      []ListingResponse `json:"items"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

// NewListingListResponse maps a listing page to its API shape.
func NewListingListResponse(items []domain.Listing, total int64, page, pageSize int) ListingListResponse {
	resp := ListingListResponse{
		Items:    make([]ListingResponse, 0, len(items)),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
	for i := range items {
		resp.Items = append(resp.Items, NewListingResponse(&items[i]))
	}
	if pageSize > 0 {
		resp.TotalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return resp
}

// EventResponse is the API shape of a marketplace event.
type EventResponse struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	NFTAddress string `json:"nft_address,omitempty"`
	TokenID    uint64 `json:"token_id,omitempty"`
	Seller     string `json:"seller,omitempty"`
	Buyer      string `json:"buyer,omitempty"`
	Price      int64  `json:"price,omitempty"`
	CreatedAt  string `json:"created_at"`
}

// NewEventResponse maps a domain event to its API shape.
func NewEventResponse(e *domain.Event) EventResponse {
	return EventResponse{
		ID:         e.ID.String(),
		Type:       string(e.Type),
		NFTAddress: e.NFTAddress,
		TokenID:    e.TokenID,
		Seller:     e.Seller,
		Buyer:      e.Buyer,
		Price:      e.Price,
		CreatedAt:  e.CreatedAt.Format(time.RFC3339),
	}
}
