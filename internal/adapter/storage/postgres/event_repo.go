package postgres

import (
	"context"
	"fmt"

	"asset-marketplace/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// EventRepo implements ports.EventRepository as an append-only log.
type EventRepo struct {
	pool Pool
}

// NewEventRepo creates a new EventRepo.
func NewEventRepo(pool Pool) *EventRepo {
	return &EventRepo{pool: pool}
}

// Insert appends an event within the transaction of the operation that
// produced it.
func (r *EventRepo) Insert(ctx context.Context, tx pgx.Tx, event *domain.Event) error {
	query := `INSERT INTO events (id, event_type, nft_address, token_id, seller, buyer, price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := tx.Exec(ctx, query,
		event.ID, event.Type, event.NFTAddress, event.TokenID,
		event.Seller, event.Buyer, event.Price, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// ListRecent returns up to limit events, newest first.
func (r *EventRepo) ListRecent(ctx context.Context, limit int) ([]domain.Event, error) {
	query := `SELECT id, event_type, nft_address, token_id, seller, buyer, price, created_at
		FROM events ORDER BY created_at DESC LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func scanEvents(rows pgx.Rows) ([]domain.Event, error) {
	var events []domain.Event
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.Type, &e.NFTAddress, &e.TokenID, &e.Seller, &e.Buyer, &e.Price, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}
