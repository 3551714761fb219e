package integration

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"asset-marketplace/internal/core/domain"
	"asset-marketplace/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// --- In-Memory Listing Repo ---

type inMemoryListingRepo struct {
	mu       sync.RWMutex
	listings map[string]*domain.Listing
}

func newInMemoryListingRepo() *inMemoryListingRepo {
	return &inMemoryListingRepo{listings: make(map[string]*domain.Listing)}
}

func (r *inMemoryListingRepo) Get(ctx context.Context, nftAddress string, tokenID uint64) (*domain.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.listings[domain.ListingKey(nftAddress, tokenID)]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (r *inMemoryListingRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, nftAddress string, tokenID uint64) (*domain.Listing, error) {
	return r.Get(ctx, nftAddress, tokenID)
}

func (r *inMemoryListingRepo) Insert(ctx context.Context, tx pgx.Tx, listing *domain.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := domain.ListingKey(listing.NFTAddress, listing.TokenID)
	if _, ok := r.listings[key]; ok {
		return fmt.Errorf("duplicate key: %s", key)
	}
	cp := *listing
	r.listings[key] = &cp
	return nil
}

func (r *inMemoryListingRepo) UpdatePrice(ctx context.Context, tx pgx.Tx, nftAddress string, tokenID uint64, price int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listings[domain.ListingKey(nftAddress, tokenID)]
	if !ok {
		return fmt.Errorf("listing not found: %s", domain.ListingKey(nftAddress, tokenID))
	}
	l.Price = price
	return nil
}

// Delete is an atomic check-and-remove, mirroring the RowsAffected
// guard of the SQL implementation.
func (r *inMemoryListingRepo) Delete(ctx context.Context, tx pgx.Tx, nftAddress string, tokenID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := domain.ListingKey(nftAddress, tokenID)
	if _, ok := r.listings[key]; !ok {
		return fmt.Errorf("listing not found: %s", key)
	}
	delete(r.listings, key)
	return nil
}

func (r *inMemoryListingRepo) ListActive(ctx context.Context, params ports.ListingPageParams) ([]domain.Listing, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Listing
	for _, l := range r.listings {
		if params.NFTAddress != nil && l.NFTAddress != *params.NFTAddress {
			continue
		}
		result = append(result, *l)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	total := int64(len(result))

	start := (params.Page - 1) * params.PageSize
	if start >= len(result) {
		return []domain.Listing{}, total, nil
	}
	end := start + params.PageSize
	if end > len(result) {
		end = len(result)
	}
	return result[start:end], total, nil
}

func (r *inMemoryListingRepo) ListBySeller(ctx context.Context, seller string) ([]domain.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Listing
	for _, l := range r.listings {
		if l.Seller == seller {
			result = append(result, *l)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// --- In-Memory Proceeds Repo ---

type inMemoryProceedsRepo struct {
	mu       sync.RWMutex
	balances map[string]int64
}

func newInMemoryProceedsRepo() *inMemoryProceedsRepo {
	return &inMemoryProceedsRepo{balances: make(map[string]int64)}
}

func (r *inMemoryProceedsRepo) GetBalance(ctx context.Context, address string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.balances[address], nil
}

func (r *inMemoryProceedsRepo) GetBalanceForUpdate(ctx context.Context, tx pgx.Tx, address string) (int64, error) {
	return r.GetBalance(ctx, address)
}

func (r *inMemoryProceedsRepo) Credit(ctx context.Context, tx pgx.Tx, address string, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.balances[address] += amount
	return nil
}

func (r *inMemoryProceedsRepo) SetBalance(ctx context.Context, tx pgx.Tx, address string, balance int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.balances[address]; !ok {
		return fmt.Errorf("proceeds row not found: %s", address)
	}
	r.balances[address] = balance
	return nil
}

// --- In-Memory Event Repo ---

type inMemoryEventRepo struct {
	mu     sync.RWMutex
	events []domain.Event
}

func newInMemoryEventRepo() *inMemoryEventRepo {
	return &inMemoryEventRepo{}
}

func (r *inMemoryEventRepo) Insert(ctx context.Context, tx pgx.Tx, event *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *event)
	return nil
}

func (r *inMemoryEventRepo) ListRecent(ctx context.Context, limit int) ([]domain.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.Event, 0, limit)
	for i := len(r.events) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, r.events[i])
	}
	return result, nil
}

// --- In-Memory Account Repo ---

type inMemoryAccountRepo struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]*domain.Account
}

func newInMemoryAccountRepo() *inMemoryAccountRepo {
	return &inMemoryAccountRepo{accounts: make(map[uuid.UUID]*domain.Account)}
}

func (r *inMemoryAccountRepo) Create(ctx context.Context, a *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.accounts {
		if existing.Username == a.Username {
			return fmt.Errorf("username already exists")
		}
	}
	r.accounts[a.ID] = a
	return nil
}

func (r *inMemoryAccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, nil
	}
	return a, nil
}

func (r *inMemoryAccountRepo) GetByAddress(ctx context.Context, address string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.accounts {
		if a.Address == address {
			return a, nil
		}
	}
	return nil, nil
}

func (r *inMemoryAccountRepo) GetByAccessKey(ctx context.Context, accessKey string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.accounts {
		if a.AccessKey == accessKey {
			return a, nil
		}
	}
	return nil, nil
}

func (r *inMemoryAccountRepo) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.accounts {
		if a.Username == username {
			return a, nil
		}
	}
	return nil, nil
}

// --- In-Memory Transactor (no-op tx) ---

type inMemoryTransactor struct{}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return &noopTx{}, nil
}

// noopTx is a no-op pgx.Tx implementation for in-memory testing.
type noopTx struct{}

func (t *noopTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *noopTx) Commit(ctx context.Context) error          { return nil }
func (t *noopTx) Rollback(ctx context.Context) error        { return nil }
func (t *noopTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *noopTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *noopTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *noopTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *noopTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *noopTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *noopTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *noopTx) Conn() *pgx.Conn { return nil }
