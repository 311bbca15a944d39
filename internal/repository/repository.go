package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"hidden-market/internal/marketerrors"
	model "hidden-market/internal/models"
)

//go:generate mockgen -destination=mock_repository.go -package=repository hidden-market/internal/repository MarketStore

// MarketStore defines the backend collaborator the marketplace reads from and writes to
type MarketStore interface {
	ListListings(ctx context.Context) ([]model.Listing, error)
	GetListing(ctx context.Context, id string) (model.Listing, error)
	InsertListing(ctx context.Context, listing model.Listing) (model.Listing, error)
	UpdateListing(ctx context.Context, id string, patch model.ListingPatch) (model.Listing, error)
	DeleteListing(ctx context.Context, id string) error

	BidsByListing(ctx context.Context, listingID string) ([]model.Bid, error)
	BidsByBidder(ctx context.Context, bidderID string) ([]model.Bid, error)
	HighestBid(ctx context.Context, listingID string) (model.Bid, error)
	InsertBid(ctx context.Context, bid model.Bid) (model.Bid, error)
	PlaceBidIfPrice(ctx context.Context, bid model.Bid, expectedPrice int64) (model.Bid, model.Listing, error)
	BuyNowIfActive(ctx context.Context, bid model.Bid) (model.Bid, model.Listing, error)
	DeleteBidsByListing(ctx context.Context, listingID string) error

	MessagesBetween(ctx context.Context, userA, userB string) ([]model.Message, error)
	MessagesFor(ctx context.Context, userID string) ([]model.Message, error)
	InsertMessage(ctx context.Context, msg model.Message) (model.Message, error)
}

// MemoryRepo is a concurrency-safe in-memory implementation of MarketStore
type MemoryRepo struct {
	mu       sync.RWMutex
	listings map[string]model.Listing // key: listingID -> value: listing
	bids     map[string][]model.Bid   // key: listingID -> value: bids in insertion order
	messages []model.Message
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		listings: make(map[string]model.Listing),
		bids:     make(map[string][]model.Bid),
	}
}

// ListListings returns every listing, newest first
func (r *MemoryRepo) ListListings(_ context.Context) ([]model.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Listing, 0, len(r.listings))
	for _, l := range r.listings {
		out = append(out, l)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// GetListing returns a single listing
func (r *MemoryRepo) GetListing(_ context.Context, id string) (model.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.listings[id]
	if !ok {
		return model.Listing{}, fmt.Errorf("get listing %s: %w", id, marketerrors.ErrListingNotFound)
	}
	return l, nil
}

// InsertListing stores a new listing
func (r *MemoryRepo) InsertListing(_ context.Context, listing model.Listing) (model.Listing, error) {
	if listing.ID == "" {
		return model.Listing{}, fmt.Errorf("insert listing: %w - missing id", marketerrors.ErrInvalidListing)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.listings[listing.ID] = listing
	return listing, nil
}

// UpdateListing applies a partial patch to a listing
func (r *MemoryRepo) UpdateListing(_ context.Context, id string, patch model.ListingPatch) (model.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.listings[id]
	if !ok {
		return model.Listing{}, fmt.Errorf("update listing %s: %w", id, marketerrors.ErrListingNotFound)
	}
	l = ApplyPatch(l, patch)
	r.listings[id] = l
	return l, nil
}

// DeleteListing removes a listing. Bids are left to DeleteBidsByListing.
func (r *MemoryRepo) DeleteListing(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.listings[id]; !ok {
		return fmt.Errorf("delete listing %s: %w", id, marketerrors.ErrListingNotFound)
	}
	delete(r.listings, id)
	return nil
}

// BidsByListing returns all bids for a listing, newest first
func (r *MemoryRepo) BidsByListing(_ context.Context, listingID string) ([]model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return newestFirst(r.bids[listingID]), nil
}

// BidsByBidder returns every bid a user has placed, newest first
func (r *MemoryRepo) BidsByBidder(_ context.Context, bidderID string) ([]model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []model.Bid
	for _, bids := range r.bids {
		for _, b := range bids {
			if b.BidderID == bidderID {
				out = append(out, b)
			}
		}
	}
	return newestFirst(out), nil
}

// HighestBid returns the highest bid for a listing
func (r *MemoryRepo) HighestBid(_ context.Context, listingID string) (model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bids := r.bids[listingID]
	if len(bids) == 0 {
		return model.Bid{}, fmt.Errorf("get highest bid for listing %s: %w", listingID, marketerrors.ErrNoBids)
	}

	winning := bids[0]
	for _, b := range bids[1:] {
		if b.Amount > winning.Amount || (b.Amount == winning.Amount && b.CreatedAt.Before(winning.CreatedAt)) {
			winning = b
		}
	}
	return winning, nil
}

// InsertBid appends a bid without touching the listing price
func (r *MemoryRepo) InsertBid(_ context.Context, bid model.Bid) (model.Bid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.listings[bid.ListingID]; !ok {
		return model.Bid{}, fmt.Errorf("record bid for listing %s: %w", bid.ListingID, marketerrors.ErrListingNotFound)
	}
	r.bids[bid.ListingID] = append(r.bids[bid.ListingID], bid)
	return bid, nil
}

// PlaceBidIfPrice records the bid and raises the listing price in one step,
// but only while the stored price still equals expectedPrice.
func (r *MemoryRepo) PlaceBidIfPrice(_ context.Context, bid model.Bid, expectedPrice int64) (model.Bid, model.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.listings[bid.ListingID]
	if !ok {
		return model.Bid{}, model.Listing{}, fmt.Errorf("place bid on listing %s: %w", bid.ListingID, marketerrors.ErrListingNotFound)
	}
	if l.Status != model.StatusActive {
		return model.Bid{}, model.Listing{}, fmt.Errorf("place bid on listing %s: %w", bid.ListingID, marketerrors.ErrListingClosed)
	}
	if l.CurrentPrice != expectedPrice {
		return model.Bid{}, model.Listing{}, fmt.Errorf("place bid on listing %s: expected price %d, found %d: %w",
			bid.ListingID, expectedPrice, l.CurrentPrice, marketerrors.ErrStalePrice)
	}

	r.bids[bid.ListingID] = append(r.bids[bid.ListingID], bid)
	l.CurrentPrice = bid.Amount
	r.listings[l.ID] = l
	return bid, l, nil
}

// BuyNowIfActive sells the listing at its buy-now price to bid.BidderID and
// records the bid, but only while the listing is still active. The bid
// amount is taken from the stored buy-now price.
func (r *MemoryRepo) BuyNowIfActive(_ context.Context, bid model.Bid) (model.Bid, model.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.listings[bid.ListingID]
	if !ok {
		return model.Bid{}, model.Listing{}, fmt.Errorf("buy now listing %s: %w", bid.ListingID, marketerrors.ErrListingNotFound)
	}
	if l.Status != model.StatusActive {
		return model.Bid{}, model.Listing{}, fmt.Errorf("buy now listing %s: %w", bid.ListingID, marketerrors.ErrListingClosed)
	}
	if l.BuyNowPrice == nil {
		return model.Bid{}, model.Listing{}, fmt.Errorf("buy now listing %s: %w", bid.ListingID, marketerrors.ErrBuyNowUnavailable)
	}

	bid.Amount = *l.BuyNowPrice
	r.bids[bid.ListingID] = append(r.bids[bid.ListingID], bid)
	l.CurrentPrice = bid.Amount
	l.Status = model.StatusSold
	r.listings[l.ID] = l
	return bid, l, nil
}

// DeleteBidsByListing removes every bid of a listing
func (r *MemoryRepo) DeleteBidsByListing(_ context.Context, listingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bids, listingID)
	return nil
}

// MessagesBetween returns the conversation between two users, oldest first
func (r *MemoryRepo) MessagesBetween(_ context.Context, userA, userB string) ([]model.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []model.Message
	for _, m := range r.messages {
		if (m.SenderID == userA && m.ReceiverID == userB) || (m.SenderID == userB && m.ReceiverID == userA) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// MessagesFor returns every message a user sent or received
func (r *MemoryRepo) MessagesFor(_ context.Context, userID string) ([]model.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []model.Message
	for _, m := range r.messages {
		if m.SenderID == userID || m.ReceiverID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

// InsertMessage appends a chat message
func (r *MemoryRepo) InsertMessage(_ context.Context, msg model.Message) (model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
	return msg, nil
}

// ApplyPatch returns l with every non-nil patch field applied
func ApplyPatch(l model.Listing, patch model.ListingPatch) model.Listing {
	if patch.CurrentPrice != nil {
		l.CurrentPrice = *patch.CurrentPrice
	}
	if patch.EndTime != nil {
		l.EndTime = *patch.EndTime
	}
	if patch.Status != nil {
		l.Status = *patch.Status
	}
	return l
}

func newestFirst(bids []model.Bid) []model.Bid {
	out := append([]model.Bid(nil), bids...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}
