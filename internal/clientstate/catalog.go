package clientstate

import (
	"context"
	"fmt"
	"sync"

	model "hidden-market/internal/models"
)

// Backend is the read side of the store the session caches draw from
type Backend interface {
	ListListings(ctx context.Context) ([]model.Listing, error)
	BidsByListing(ctx context.Context, listingID string) ([]model.Bid, error)
	BidsByBidder(ctx context.Context, bidderID string) ([]model.Bid, error)
	MessagesBetween(ctx context.Context, userA, userB string) ([]model.Message, error)
	MessagesFor(ctx context.Context, userID string) ([]model.Message, error)
}

// Catalog is the session's full copy of all listings plus the set of
// listings the user has bid on. Refresh replaces both wholesale; when two
// refreshes overlap, whichever response lands last wins.
type Catalog struct {
	backend Backend

	mu       sync.RWMutex
	listings []model.Listing
	bidIDs   map[string]struct{}
	loaded   bool
}

// NewCatalog creates an empty catalog
func NewCatalog(backend Backend) *Catalog {
	return &Catalog{backend: backend, bidIDs: make(map[string]struct{})}
}

// Refresh re-reads every listing (newest first) and the user's bid set
func (c *Catalog) Refresh(ctx context.Context, userID string) error {
	listings, err := c.backend.ListListings(ctx)
	if err != nil {
		return fmt.Errorf("catalog: refresh listings: %w", err)
	}

	bidIDs := make(map[string]struct{})
	if userID != "" {
		bids, err := c.backend.BidsByBidder(ctx, userID)
		if err != nil {
			return fmt.Errorf("catalog: refresh bids of %s: %w", userID, err)
		}
		for _, b := range bids {
			bidIDs[b.ListingID] = struct{}{}
		}
	}

	c.mu.Lock()
	c.listings = listings
	c.bidIDs = bidIDs
	c.loaded = true
	c.mu.Unlock()
	return nil
}

// Listings returns a copy of the cached listings in store order
func (c *Catalog) Listings() []model.Listing {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]model.Listing(nil), c.listings...)
}

// Get looks up one cached listing
func (c *Catalog) Get(id string) (model.Listing, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, l := range c.listings {
		if l.ID == id {
			return l, true
		}
	}
	return model.Listing{}, false
}

// BidListingIDs returns a copy of the ids of listings the user has bid on
func (c *Catalog) BidListingIDs() map[string]struct{} {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]struct{}, len(c.bidIDs))
	for id := range c.bidIDs {
		out[id] = struct{}{}
	}
	return out
}

// HasBidOn reports whether the user had bid on listingID at the last refresh
func (c *Catalog) HasBidOn(listingID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.bidIDs[listingID]
	return ok
}

// Loaded reports whether at least one refresh has completed
func (c *Catalog) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Reset drops everything, as on logout
func (c *Catalog) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listings = nil
	c.bidIDs = make(map[string]struct{})
	c.loaded = false
}
