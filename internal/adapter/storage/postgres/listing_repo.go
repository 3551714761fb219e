package postgres

import (
	"context"
	"errors"
	"fmt"

	"asset-marketplace/internal/core/domain"
	"asset-marketplace/internal/core/ports"

	"github.com/jackc/pgx/v5"
)

// ListingRepo implements ports.ListingRepository.
type ListingRepo struct {
	pool Pool
}

// NewListingRepo creates a new ListingRepo.
func NewListingRepo(pool Pool) *ListingRepo {
	return &ListingRepo{pool: pool}
}

const listingColumns = `nft_address, token_id, seller, price, created_at, updated_at`

// Get fetches a listing by its (nft_address, token_id) key without locking.
func (r *ListingRepo) Get(ctx context.Context, nftAddress string, tokenID uint64) (*domain.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE nft_address = $1 AND token_id = $2`

	l := &domain.Listing{}
	err := r.pool.QueryRow(ctx, query, nftAddress, tokenID).Scan(
		&l.NFTAddress, &l.TokenID, &l.Seller, &l.Price, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get listing: %w", err)
	}
	return l, nil
}

// GetForUpdate fetches a listing with a pessimistic row lock.
// This MUST be called within a transaction.
func (r *ListingRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, nftAddress string, tokenID uint64) (*domain.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE nft_address = $1 AND token_id = $2 FOR UPDATE`

	l := &domain.Listing{}
	err := tx.QueryRow(ctx, query, nftAddress, tokenID).Scan(
		&l.NFTAddress, &l.TokenID, &l.Seller, &l.Price, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get listing for update: %w", err)
	}
	return l, nil
}

// Insert creates a listing row within a transaction. The primary key on
// (nft_address, token_id) backs the single-listing-per-token rule.
func (r *ListingRepo) Insert(ctx context.Context, tx pgx.Tx, listing *domain.Listing) error {
	query := `INSERT INTO listings (nft_address, token_id, seller, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := tx.Exec(ctx, query,
		listing.NFTAddress, listing.TokenID, listing.Seller,
		listing.Price, listing.CreatedAt, listing.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert listing: %w", err)
	}
	return nil
}

// UpdatePrice replaces a listing's price within a transaction.
func (r *ListingRepo) UpdatePrice(ctx context.Context, tx pgx.Tx, nftAddress string, tokenID uint64, price int64) error {
	query := `UPDATE listings SET price = $1, updated_at = NOW() WHERE nft_address = $2 AND token_id = $3`

	tag, err := tx.Exec(ctx, query, price, nftAddress, tokenID)
	if err != nil {
		return fmt.Errorf("update listing price: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("listing not found: %s", domain.ListingKey(nftAddress, tokenID))
	}
	return nil
}

// Delete removes a listing row within a transaction.
func (r *ListingRepo) Delete(ctx context.Context, tx pgx.Tx, nftAddress string, tokenID uint64) error {
	query := `DELETE FROM listings WHERE nft_address = $1 AND token_id = $2`

	tag, err := tx.Exec(ctx, query, nftAddress, tokenID)
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("listing not found: %s", domain.ListingKey(nftAddress, tokenID))
	}
	return nil
}

// ListActive returns a page of listings plus the total row count,
// optionally filtered by collection address.
func (r *ListingRepo) ListActive(ctx context.Context, params ports.ListingPageParams) ([]domain.Listing, int64, error) {
	countQuery := `SELECT COUNT(*) FROM listings`
	dataQuery := `SELECT ` + listingColumns + ` FROM listings`

	var args []any
	if params.NFTAddress != nil {
		countQuery += ` WHERE nft_address = $1`
		dataQuery += ` WHERE nft_address = $1`
		args = append(args, *params.NFTAddress)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count listings: %w", err)
	}

	offset := (params.Page - 1) * params.PageSize
	dataQuery += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query listings: %w", err)
	}
	defer rows.Close()

	listings, err := scanListings(rows)
	if err != nil {
		return nil, 0, err
	}
	return listings, total, nil
}

// ListBySeller returns all active listings owned by one seller.
func (r *ListingRepo) ListBySeller(ctx context.Context, seller string) ([]domain.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE seller = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, seller)
	if err != nil {
		return nil, fmt.Errorf("query listings by seller: %w", err)
	}
	defer rows.Close()

	return scanListings(rows)
}

func scanListings(rows pgx.Rows) ([]domain.Listing, error) {
	var listings []domain.Listing
	for rows.Next() {
		var l domain.Listing
		if err := rows.Scan(&l.NFTAddress, &l.TokenID, &l.Seller, &l.Price, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate listings: %w", err)
	}
	return listings, nil
}
