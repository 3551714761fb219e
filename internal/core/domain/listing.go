package domain

import "time"

// Listing is an active offer to sell one token at a fixed price.
// At most one listing exists per (nft_address, token_id); cancel and buy
// remove the row entirely, so a stored listing always has Price > 0.
type Listing struct {
	NFTAddress string    `json:"nft_address"`
	TokenID    uint64    `json:"token_id"`
	Seller     string    `json:"seller"`
	Price      int64     `json:"price"` // Smallest currency unit
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Key returns the composite listing key used for caching and logging.
func (l *Listing) Key() string {
	return ListingKey(l.NFTAddress, l.TokenID)
}
