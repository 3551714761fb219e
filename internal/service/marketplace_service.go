package service

import (
	"context"
	"fmt"
	"time"

	"asset-marketplace/internal/core/domain"
	"asset-marketplace/internal/core/ports"
	"asset-marketplace/internal/metrics"
	"asset-marketplace/pkg/apperror"

	"github.com/rs/zerolog"
)

const listingCacheTTL = 5 * time.Minute

// MarketplaceServiceImpl implements ports.MarketplaceService.
//
// Every mutating operation runs inside a single database transaction
// with the touched listing/proceeds rows locked, and orders its effects
// so that the local state change invalidating a second entry (listing
// deleted, balance zeroed) is applied before any external registry or
// payout call. If the external call fails the transaction rolls back,
// so the ledger never commits a credited-but-untransferred purchase or
// a zeroed-but-unpaid withdrawal.
type MarketplaceServiceImpl struct {
	listings   ports.ListingRepository
	proceeds   ports.ProceedsRepository
	events     ports.EventRepository
	registry   ports.AssetRegistry
	rail       ports.PaymentRail
	publisher  ports.EventPublisher
	cache      ports.ListingCache
	transactor ports.DBTransactor
	operator   string // marketplace address registered with the asset registry
	log        zerolog.Logger
}

// NewMarketplaceService creates a new MarketplaceServiceImpl.
// publisher and cache may be nil (event feed / caching disabled).
func NewMarketplaceService(
	listings ports.ListingRepository,
	proceeds ports.ProceedsRepository,
	events ports.EventRepository,
	registry ports.AssetRegistry,
	rail ports.PaymentRail,
	publisher ports.EventPublisher,
	cache ports.ListingCache,
	transactor ports.DBTransactor,
	operator string,
	log zerolog.Logger,
) *MarketplaceServiceImpl {
	return &MarketplaceServiceImpl{
		listings:   listings,
		proceeds:   proceeds,
		events:     events,
		registry:   registry,
		rail:       rail,
		publisher:  publisher,
		cache:      cache,
		transactor: transactor,
		operator:   domain.NormalizeAddress(operator),
		log:        log,
	}
}

// ListItem creates a listing after verifying with the asset registry
// that the caller owns the token and the marketplace may transfer it.
func (s *MarketplaceServiceImpl) ListItem(ctx context.Context, req ports.ListItemRequest) (listing *domain.Listing, err error) {
	defer func() { metrics.ObserveOperation("list_item", err) }()

	if req.Price <= 0 {
		return nil, apperror.ErrPriceMustBeAboveZero()
	}

	seller := domain.NormalizeAddress(req.Seller)
	nft := domain.NormalizeAddress(req.NFTAddress)

	// Ownership and approval facts come from the registry at call time,
	// never from a local cache.
	owner, err := s.registry.OwnerOf(ctx, nft, req.TokenID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("query owner: %w", err))
	}
	if domain.NormalizeAddress(owner) != seller {
		return nil, apperror.ErrNotOwner()
	}

	approved, err := s.registry.IsApproved(ctx, nft, req.TokenID, s.operator)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("query approval: %w", err))
	}
	if !approved {
		return nil, apperror.ErrNotApprovedForMarketplace()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	existing, err := s.listings.GetForUpdate(ctx, dbTx, nft, req.TokenID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check listing: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrAlreadyListed(nft, req.TokenID)
	}

	now := time.Now().UTC()
	listing = &domain.Listing{
		NFTAddress: nft,
		TokenID:    req.TokenID,
		Seller:     seller,
		Price:      req.Price,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err = s.listings.Insert(ctx, dbTx, listing); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("insert listing: %w", err))
	}

	event := domain.NewListedEvent(seller, nft, req.TokenID, req.Price)
	if err = s.events.Insert(ctx, dbTx, event); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("record event: %w", err))
	}

	if err = dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.afterCommit(ctx, event)

	s.log.Info().
		Str("seller", seller).
		Str("nft", nft).
		Uint64("token_id", req.TokenID).
		Int64("price", req.Price).
		Msg("item listed")

	return listing, nil
}

// UpdateListing replaces the price of an existing listing. Only the
// listing's seller may update it. Emits the listed event shape with the
// new price, which is how observers learn of price changes.
func (s *MarketplaceServiceImpl) UpdateListing(ctx context.Context, req ports.UpdateListingRequest) (listing *domain.Listing, err error) {
	defer func() { metrics.ObserveOperation("update_listing", err) }()

	seller := domain.NormalizeAddress(req.Seller)
	nft := domain.NormalizeAddress(req.NFTAddress)

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	listing, err = s.listings.GetForUpdate(ctx, dbTx, nft, req.TokenID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get listing: %w", err))
	}
	if listing == nil {
		return nil, apperror.ErrNotListed(nft, req.TokenID)
	}
	if listing.Seller != seller {
		return nil, apperror.ErrNotOwner()
	}
	if req.NewPrice <= 0 {
		return nil, apperror.ErrPriceMustBeAboveZero()
	}

	if err = s.listings.UpdatePrice(ctx, dbTx, nft, req.TokenID, req.NewPrice); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update price: %w", err))
	}

	event := domain.NewListedEvent(seller, nft, req.TokenID, req.NewPrice)
	if err = s.events.Insert(ctx, dbTx, event); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("record event: %w", err))
	}

	if err = dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.afterCommit(ctx, event)

	listing.Price = req.NewPrice
	listing.UpdatedAt = time.Now().UTC()

	s.log.Info().
		Str("seller", seller).
		Str("nft", nft).
		Uint64("token_id", req.TokenID).
		Int64("new_price", req.NewPrice).
		Msg("listing price updated")

	return listing, nil
}

// CancelListing deletes a listing. Only the listing's seller may cancel.
func (s *MarketplaceServiceImpl) CancelListing(ctx context.Context, req ports.CancelListingRequest) (err error) {
	defer func() { metrics.ObserveOperation("cancel_listing", err) }()

	seller := domain.NormalizeAddress(req.Seller)
	nft := domain.NormalizeAddress(req.NFTAddress)

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	listing, err := s.listings.GetForUpdate(ctx, dbTx, nft, req.TokenID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("get listing: %w", err))
	}
	if listing == nil {
		return apperror.ErrNotListed(nft, req.TokenID)
	}
	if listing.Seller != seller {
		return apperror.ErrNotOwner()
	}

	if err = s.listings.Delete(ctx, dbTx, nft, req.TokenID); err != nil {
		return apperror.InternalError(fmt.Errorf("delete listing: %w", err))
	}

	event := domain.NewCanceledEvent(seller, nft, req.TokenID)
	if err = s.events.Insert(ctx, dbTx, event); err != nil {
		return apperror.InternalError(fmt.Errorf("record event: %w", err))
	}

	if err = dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.afterCommit(ctx, event)

	s.log.Info().
		Str("seller", seller).
		Str("nft", nft).
		Uint64("token_id", req.TokenID).
		Msg("listing canceled")

	return nil
}

// BuyItem settles a purchase: the listing row is deleted and the seller
// credited before the registry transfer runs, so a re-entrant buy on the
// same key fails with NotListed instead of double-selling. The seller is
// credited the listed price exactly; any overpayment is kept by the
// marketplace, never refunded.
func (s *MarketplaceServiceImpl) BuyItem(ctx context.Context, req ports.BuyItemRequest) (purchase *ports.Purchase, err error) {
	defer func() { metrics.ObserveOperation("buy_item", err) }()

	buyer := domain.NormalizeAddress(req.Buyer)
	nft := domain.NormalizeAddress(req.NFTAddress)

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	listing, err := s.listings.GetForUpdate(ctx, dbTx, nft, req.TokenID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get listing: %w", err))
	}
	if listing == nil {
		return nil, apperror.ErrNotListed(nft, req.TokenID)
	}
	if req.Payment < listing.Price {
		return nil, apperror.ErrPriceNotMet(nft, req.TokenID, listing.Price)
	}

	// Effects before interaction: remove the listing and credit the
	// seller, then call out to the registry. The transfer failing (or
	// the process dying mid-flight) rolls everything back.
	if err = s.listings.Delete(ctx, dbTx, nft, req.TokenID); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("delete listing: %w", err))
	}
	if err = s.proceeds.Credit(ctx, dbTx, listing.Seller, listing.Price); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("credit proceeds: %w", err))
	}

	event := domain.NewBoughtEvent(buyer, nft, req.TokenID, listing.Price)
	if err = s.events.Insert(ctx, dbTx, event); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("record event: %w", err))
	}

	if err = s.registry.Transfer(ctx, nft, req.TokenID, listing.Seller, buyer); err != nil {
		return nil, apperror.ErrTransferFailed(fmt.Errorf("registry transfer: %w", err))
	}

	if err = dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.afterCommit(ctx, event)

	s.log.Info().
		Str("buyer", buyer).
		Str("seller", listing.Seller).
		Str("nft", nft).
		Uint64("token_id", req.TokenID).
		Int64("price", listing.Price).
		Int64("payment", req.Payment).
		Msg("item bought")

	return &ports.Purchase{
		NFTAddress: nft,
		TokenID:    req.TokenID,
		Buyer:      buyer,
		Seller:     listing.Seller,
		Price:      listing.Price,
		Payment:    req.Payment,
	}, nil
}

// WithdrawProceeds pays out the caller's full balance. The balance is
// zeroed before the payout call so a re-entrant withdraw sees zero and
// fails with NoProceeds; a payout failure rolls the zeroing back, so
// funds are never lost.
func (s *MarketplaceServiceImpl) WithdrawProceeds(ctx context.Context, caller string) (amount int64, err error) {
	defer func() { metrics.ObserveOperation("withdraw_proceeds", err) }()

	addr := domain.NormalizeAddress(caller)

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	amount, err = s.proceeds.GetBalanceForUpdate(ctx, dbTx, addr)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("get balance: %w", err))
	}
	if amount <= 0 {
		return 0, apperror.ErrNoProceeds()
	}

	if err = s.proceeds.SetBalance(ctx, dbTx, addr, 0); err != nil {
		return 0, apperror.InternalError(fmt.Errorf("zero balance: %w", err))
	}

	event := domain.NewWithdrawnEvent(addr, amount)
	if err = s.events.Insert(ctx, dbTx, event); err != nil {
		return 0, apperror.InternalError(fmt.Errorf("record event: %w", err))
	}

	if err = s.rail.Payout(ctx, addr, amount); err != nil {
		return 0, apperror.ErrTransferFailed(fmt.Errorf("payout: %w", err))
	}

	if err = dbTx.Commit(ctx); err != nil {
		return 0, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.afterCommit(ctx, event)
	metrics.ProceedsWithdrawnTotal.Add(float64(amount))

	s.log.Info().
		Str("address", addr).
		Int64("amount", amount).
		Msg("proceeds withdrawn")

	return amount, nil
}

// GetListing returns the active listing for the key, or nil when the
// token is not listed. Reads go through the cache when one is wired.
func (s *MarketplaceServiceImpl) GetListing(ctx context.Context, nftAddress string, tokenID uint64) (*domain.Listing, error) {
	nft := domain.NormalizeAddress(nftAddress)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, nft, tokenID)
		if err != nil {
			s.log.Warn().Err(err).Str("key", domain.ListingKey(nft, tokenID)).Msg("listing cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	listing, err := s.listings.Get(ctx, nft, tokenID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get listing: %w", err))
	}
	if listing == nil {
		return nil, nil
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, listing, listingCacheTTL); err != nil {
			s.log.Warn().Err(err).Str("key", listing.Key()).Msg("listing cache write failed")
		}
	}

	return listing, nil
}

// GetProceeds returns the accumulated, unwithdrawn balance for an
// address. Addresses that never sold anything report zero.
func (s *MarketplaceServiceImpl) GetProceeds(ctx context.Context, address string) (int64, error) {
	balance, err := s.proceeds.GetBalance(ctx, domain.NormalizeAddress(address))
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("get proceeds: %w", err))
	}
	return balance, nil
}

// BrowseListings returns a page of active listings.
func (s *MarketplaceServiceImpl) BrowseListings(ctx context.Context, params ports.ListingPageParams) ([]domain.Listing, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 20
	}
	items, total, err := s.listings.ListActive(ctx, params)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("browse listings: %w", err))
	}
	return items, total, nil
}

// ListingsBySeller returns all active listings of one seller.
func (s *MarketplaceServiceImpl) ListingsBySeller(ctx context.Context, seller string) ([]domain.Listing, error) {
	items, err := s.listings.ListBySeller(ctx, domain.NormalizeAddress(seller))
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("listings by seller: %w", err))
	}
	return items, nil
}

// RecentEvents returns the newest marketplace events, capped at 100.
func (s *MarketplaceServiceImpl) RecentEvents(ctx context.Context, limit int) ([]domain.Event, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}
	items, err := s.events.ListRecent(ctx, limit)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("recent events: %w", err))
	}
	return items, nil
}

// afterCommit invalidates the affected cache key and broadcasts the
// event. Both are best-effort; the operation already committed.
func (s *MarketplaceServiceImpl) afterCommit(ctx context.Context, event *domain.Event) {
	if s.cache != nil && event.NFTAddress != "" {
		if err := s.cache.Invalidate(ctx, event.NFTAddress, event.TokenID); err != nil {
			s.log.Warn().Err(err).Str("key", domain.ListingKey(event.NFTAddress, event.TokenID)).Msg("listing cache invalidation failed")
		}
	}
	if s.publisher != nil {
		s.publisher.Publish(event)
	}
}
