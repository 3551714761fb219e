package domain

import (
	"fmt"
	"strings"
)

// Addresses are lowercase 0x-prefixed hex strings, 20 bytes (40 hex chars).
const addressHexLen = 40

// NormalizeAddress lowercases an address for storage and comparison.
func NormalizeAddress(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

// IsValidAddress reports whether addr is a well-formed principal address.
func IsValidAddress(addr string) bool {
	addr = NormalizeAddress(addr)
	if !strings.HasPrefix(addr, "0x") || len(addr) != addressHexLen+2 {
		return false
	}
	for _, r := range addr[2:] {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}

// ListingKey builds the composite cache/log key for a listing.
func ListingKey(nftAddress string, tokenID uint64) string {
	return fmt.Sprintf("%s:%d", NormalizeAddress(nftAddress), tokenID)
}
