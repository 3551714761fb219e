package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType identifies a marketplace event.
type EventType string

const (
	EventItemListed        EventType = "ITEM_LISTED"
	EventItemCanceled      EventType = "ITEM_CANCELED"
	EventItemBought        EventType = "ITEM_BOUGHT"
	EventProceedsWithdrawn EventType = "PROCEEDS_WITHDRAWN"
)

// Event is an append-only record of a marketplace state change,
// persisted with the operation and broadcast to observers.
//
// ITEM_LISTED carries seller+price (also emitted on price update),
// ITEM_CANCELED carries seller, ITEM_BOUGHT carries buyer+price,
// PROCEEDS_WITHDRAWN carries seller+amount in Price.
type Event struct {
	ID         uuid.UUID `json:"id"`
	Type       EventType `json:"type"`
	NFTAddress string    `json:"nft_address,omitempty"`
	TokenID    uint64    `json:"token_id,omitempty"`
	Seller     string    `json:"seller,omitempty"`
	Buyer      string    `json:"buyer,omitempty"`
	Price      int64     `json:"price,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewListedEvent records a new listing or a price update.
func NewListedEvent(seller, nftAddress string, tokenID uint64, price int64) *Event {
	return &Event{
		ID:         uuid.New(),
		Type:       EventItemListed,
		NFTAddress: nftAddress,
		TokenID:    tokenID,
		Seller:     seller,
		Price:      price,
		CreatedAt:  time.Now().UTC(),
	}
}

// NewCanceledEvent records a listing removal by its seller.
func NewCanceledEvent(seller, nftAddress string, tokenID uint64) *Event {
	return &Event{
		ID:         uuid.New(),
		Type:       EventItemCanceled,
		NFTAddress: nftAddress,
		TokenID:    tokenID,
		Seller:     seller,
		CreatedAt:  time.Now().UTC(),
	}
}

// NewBoughtEvent records a settled purchase at the listed price.
func NewBoughtEvent(buyer, nftAddress string, tokenID uint64, price int64) *Event {
	return &Event{
		ID:         uuid.New(),
		Type:       EventItemBought,
		NFTAddress: nftAddress,
		TokenID:    tokenID,
		Buyer:      buyer,
		Price:      price,
		CreatedAt:  time.Now().UTC(),
	}
}

// NewWithdrawnEvent records a proceeds payout.
func NewWithdrawnEvent(seller string, amount int64) *Event {
	return &Event{
		ID:        uuid.New(),
		Type:      EventProceedsWithdrawn,
		Seller:    seller,
		Price:     amount,
		CreatedAt: time.Now().UTC(),
	}
}
