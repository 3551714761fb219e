package integration

import (
	"context"
	"fmt"
	"sync"

	"asset-marketplace/internal/core/domain"
)

// fakeRegistry is an in-process stand-in for the asset registry
// service: it tracks token ownership and operator approvals, and can be
// told to reject transfers.
type fakeRegistry struct {
	mu            sync.Mutex
	owners        map[string]string
	approvals     map[string]bool
	failTransfers bool
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{
		owners:    make(map[string]string),
		approvals: make(map[string]bool),
	}
}

func (r *fakeRegistry) setOwner(nftAddress string, tokenID uint64, owner string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.owners[domain.ListingKey(nftAddress, tokenID)] = domain.NormalizeAddress(owner)
}

func (r *fakeRegistry) setApproved(nftAddress string, tokenID uint64, operator string, approved bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.approvals[domain.ListingKey(nftAddress, tokenID)+"|"+domain.NormalizeAddress(operator)] = approved
}

func (r *fakeRegistry) setFailTransfers(fail bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failTransfers = fail
}

func (r *fakeRegistry) ownerOf(nftAddress string, tokenID uint64) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.owners[domain.ListingKey(nftAddress, tokenID)]
}

func (r *fakeRegistry) OwnerOf(ctx context.Context, nftAddress string, tokenID uint64) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	owner, ok := r.owners[domain.ListingKey(nftAddress, tokenID)]
	if !ok {
		return "", fmt.Errorf("unknown token: %s", domain.ListingKey(nftAddress, tokenID))
	}
	return owner, nil
}

func (r *fakeRegistry) IsApproved(ctx context.Context, nftAddress string, tokenID uint64, operator string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.approvals[domain.ListingKey(nftAddress, tokenID)+"|"+domain.NormalizeAddress(operator)], nil
}

func (r *fakeRegistry) Transfer(ctx context.Context, nftAddress string, tokenID uint64, from, to string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failTransfers {
		return fmt.Errorf("transfer rejected")
	}
	key := domain.ListingKey(nftAddress, tokenID)
	if r.owners[key] != domain.NormalizeAddress(from) {
		return fmt.Errorf("sender no longer owns token: %s", key)
	}
	r.owners[key] = domain.NormalizeAddress(to)
	return nil
}

// fakeRail records payouts instead of moving money.
type fakeRail struct {
	mu          sync.Mutex
	payouts     map[string]int64
	failPayouts bool
}

func newFakeRail() *fakeRail {
	return &fakeRail{payouts: make(map[string]int64)}
}

func (r *fakeRail) setFailPayouts(fail bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failPayouts = fail
}

func (r *fakeRail) paidTo(address string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.payouts[domain.NormalizeAddress(address)]
}

func (r *fakeRail) Payout(ctx context.Context, to string, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failPayouts {
		return fmt.Errorf("payout rejected")
	}
	r.payouts[domain.NormalizeAddress(to)] += amount
	return nil
}
