package ports

import (
	"context"
	"time"

	"asset-marketplace/internal/core/domain"

	"github.com/google/uuid"
)

// AssetRegistry is the external authority for token ownership and
// transfer execution. The ledger never caches ownership truth beyond a
// single operation.
type AssetRegistry interface {
	// OwnerOf returns the current owner address. Fails if the token
	// does not exist.
	OwnerOf(ctx context.Context, nftAddress string, tokenID uint64) (string, error)
	// IsApproved reports whether operator may transfer the token on the
	// owner's behalf.
	IsApproved(ctx context.Context, nftAddress string, tokenID uint64, operator string) (bool, error)
	// Transfer moves the token from `from` to `to`. Fails if `from` is
	// no longer the owner or the marketplace lost approval.
	Transfer(ctx context.Context, nftAddress string, tokenID uint64, from, to string) error
}

// PaymentRail pushes withdrawn proceeds out to a principal. Inbound
// payments arrive as the payment amount on a buy call; the ledger never
// pulls funds.
type PaymentRail interface {
	Payout(ctx context.Context, to string, amount int64) error
}

// EventPublisher fans committed marketplace events out to live
// observers (UI, indexers). Best-effort, never blocks an operation.
type EventPublisher interface {
	Publish(event *domain.Event)
}

// ListingCache is a read cache for single-listing lookups,
// invalidated by every mutation of the key.
type ListingCache interface {
	Get(ctx context.Context, nftAddress string, tokenID uint64) (*domain.Listing, error)
	Set(ctx context.Context, listing *domain.Listing, ttl time.Duration) error
	Invalidate(ctx context.Context, nftAddress string, tokenID uint64) error
}

// EncryptionService handles AES-256-GCM encryption/decryption.
type EncryptionService interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// SignatureService handles HMAC-SHA256 signing and verification.
type SignatureService interface {
	Sign(secretKey string, payload string) string
	Verify(secretKey string, payload string, signature string) bool
	BuildCanonicalString(method, path string, timestamp int64, nonce string, body string) string
}

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles JWT token operations for dashboard access.
type TokenService interface {
	Generate(accountID uuid.UUID, address string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	AccountID uuid.UUID
	Address   string
}

// NonceStore manages nonce uniqueness for replay attack prevention.
type NonceStore interface {
	// CheckAndSet atomically checks if nonce exists, sets it if not.
	// Returns true if nonce is new (valid), false if already used.
	CheckAndSet(ctx context.Context, accountID string, nonce string, ttl time.Duration) (bool, error)
}

// --- Service Ports (Business Logic) ---

// MarketplaceService is the asset listing and escrow ledger.
type MarketplaceService interface {
	ListItem(ctx context.Context, req ListItemRequest) (*domain.Listing, error)
	UpdateListing(ctx context.Context, req UpdateListingRequest) (*domain.Listing, error)
	CancelListing(ctx context.Context, req CancelListingRequest) error
	BuyItem(ctx context.Context, req BuyItemRequest) (*Purchase, error)
	// WithdrawProceeds pays out the caller's full balance and returns
	// the amount withdrawn.
	WithdrawProceeds(ctx context.Context, caller string) (int64, error)
	// GetListing returns nil when no listing exists for the key.
	GetListing(ctx context.Context, nftAddress string, tokenID uint64) (*domain.Listing, error)
	GetProceeds(ctx context.Context, address string) (int64, error)
	BrowseListings(ctx context.Context, params ListingPageParams) ([]domain.Listing, int64, error)
	ListingsBySeller(ctx context.Context, seller string) ([]domain.Listing, error)
	RecentEvents(ctx context.Context, limit int) ([]domain.Event, error)
}

// ListItemRequest holds validated input for creating a listing.
type ListItemRequest struct {
	Seller     string
	NFTAddress string
	TokenID    uint64
	Price      int64
}

// UpdateListingRequest holds validated input for a price change.
type UpdateListingRequest struct {
	Seller     string
	NFTAddress string
	TokenID    uint64
	NewPrice   int64
}

// CancelListingRequest holds validated input for delisting.
type CancelListingRequest struct {
	Seller     string
	NFTAddress string
	TokenID    uint64
}

// BuyItemRequest holds validated input for a purchase.
type BuyItemRequest struct {
	Buyer      string
	NFTAddress string
	TokenID    uint64
	Payment    int64
}

// Purchase is the settled outcome of a buy. Price is what the seller
// was credited; Payment is what the buyer attached (never less than
// Price, excess is not refunded).
type Purchase struct {
	NFTAddress string `json:"nft_address"`
	TokenID    uint64 `json:"token_id"`
	Buyer      string `json:"buyer"`
	Seller     string `json:"seller"`
	Price      int64  `json:"price"`
	Payment    int64  `json:"payment"`
}

// AuthService defines account registration and login.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error)
	Login(ctx context.Context, username, password string) (string, time.Time, error) // token, expiry, error
}

// RegisterRequest holds input for account registration.
type RegisterRequest struct {
	Username string
	Password string
}

// RegisterResponse holds the registration result shown once.
type RegisterResponse struct {
	AccountID uuid.UUID
	Address   string
	AccessKey string
	SecretKey string // Plaintext, shown only at registration
}
