package ports

import (
	"context"

	"asset-marketplace/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ListingRepository defines persistence for the listings map.
// Methods accepting pgx.Tx run inside the per-operation transaction and
// rely on row locks taken by GetForUpdate.
type ListingRepository interface {
	Get(ctx context.Context, nftAddress string, tokenID uint64) (*domain.Listing, error)
	GetForUpdate(ctx context.Context, tx pgx.Tx, nftAddress string, tokenID uint64) (*domain.Listing, error)
	Insert(ctx context.Context, tx pgx.Tx, listing *domain.Listing) error
	UpdatePrice(ctx context.Context, tx pgx.Tx, nftAddress string, tokenID uint64, price int64) error
	Delete(ctx context.Context, tx pgx.Tx, nftAddress string, tokenID uint64) error
	// Browse queries
	ListActive(ctx context.Context, params ListingPageParams) ([]domain.Listing, int64, error)
	ListBySeller(ctx context.Context, seller string) ([]domain.Listing, error)
}

// ListingPageParams holds filter + pagination for browsing listings.
type ListingPageParams struct {
	NFTAddress *string
	Page       int
	PageSize   int
}

// ProceedsRepository defines persistence for the proceeds ledger.
// Balances only move inside a transaction: Credit during buy,
// SetBalance(0) during withdraw after GetBalanceForUpdate locked the row.
type ProceedsRepository interface {
	GetBalance(ctx context.Context, address string) (int64, error)
	GetBalanceForUpdate(ctx context.Context, tx pgx.Tx, address string) (int64, error)
	Credit(ctx context.Context, tx pgx.Tx, address string, amount int64) error
	SetBalance(ctx context.Context, tx pgx.Tx, address string, balance int64) error
}

// EventRepository appends marketplace events inside the same
// transaction as the state change they record.
type EventRepository interface {
	Insert(ctx context.Context, tx pgx.Tx, event *domain.Event) error
	ListRecent(ctx context.Context, limit int) ([]domain.Event, error)
}

// AccountRepository defines persistence operations for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetByAddress(ctx context.Context, address string) (*domain.Account, error)
	GetByAccessKey(ctx context.Context, accessKey string) (*domain.Account, error)
	GetByUsername(ctx context.Context, username string) (*domain.Account, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
