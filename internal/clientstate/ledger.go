package clientstate

import (
	"context"
	"fmt"
	"sync"

	model "hidden-market/internal/models"
)

// Ledger holds the bid log of the listing whose detail is open, newest first
type Ledger struct {
	backend Backend

	mu        sync.RWMutex
	listingID string
	bids      []model.Bid
}

// NewLedger creates an empty ledger view
func NewLedger(backend Backend) *Ledger {
	return &Ledger{backend: backend}
}

// Refresh loads the bids of listingID, replacing whatever was shown
func (l *Ledger) Refresh(ctx context.Context, listingID string) error {
	bids, err := l.backend.BidsByListing(ctx, listingID)
	if err != nil {
		return fmt.Errorf("ledger: refresh %s: %w", listingID, err)
	}
	l.mu.Lock()
	l.listingID = listingID
	l.bids = bids
	l.mu.Unlock()
	return nil
}

// Bids returns the shown bids and the listing they belong to
func (l *Ledger) Bids() (string, []model.Bid) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.listingID, append([]model.Bid(nil), l.bids...)
}

// Reset clears the ledger
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.listingID = ""
	l.bids = nil
}
