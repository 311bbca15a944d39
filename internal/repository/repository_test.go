package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"hidden-market/internal/marketerrors"
	model "hidden-market/internal/models"

	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// Helper to create a new Listing
func newListing(id, sellerID string, price int64, createdAt time.Time) model.Listing {
	return model.Listing{
		ID:           id,
		Title:        fmt.Sprintf("%s title", id),
		Description:  fmt.Sprintf("%s description", id),
		CurrentPrice: price,
		StartPrice:   price,
		BidUnit:      1000,
		EndTime:      createdAt.Add(24 * time.Hour),
		SellerID:     sellerID,
		Category:     "digital",
		Status:       model.StatusActive,
		CreatedAt:    createdAt,
	}
}

// Helper to create a new Bid
func newBid(id, listingID, bidderID string, amount int64, createdAt time.Time) model.Bid {
	return model.Bid{ID: id, ListingID: listingID, BidderID: bidderID, Amount: amount, CreatedAt: createdAt}
}

// stores runs fn against every MarketStore implementation
func stores(t *testing.T, fn func(t *testing.T, store MarketStore)) {
	t.Run("memory", func(t *testing.T) {
		t.Parallel()
		fn(t, NewMemoryRepo())
	})
	t.Run("sqlite", func(t *testing.T) {
		t.Parallel()
		repo, err := OpenSQLite(filepath.Join(t.TempDir(), "market.db"))
		require.NoError(t, err)
		t.Cleanup(func() { repo.Close() })
		fn(t, repo)
	})
}

func seed(t *testing.T, store MarketStore, listings ...model.Listing) {
	t.Helper()
	for _, l := range listings {
		_, err := store.InsertListing(context.Background(), l)
		require.NoError(t, err)
	}
}

func ids(listings []model.Listing) []string {
	out := make([]string, 0, len(listings))
	for _, l := range listings {
		out = append(out, l.ID)
	}
	return out
}

func TestStore_Listings(t *testing.T) {
	t.Parallel()

	stores(t, func(t *testing.T, store MarketStore) {
		ctx := context.Background()
		buyNow := int64(50000)
		withBuyNow := newListing("l3", "seller2", 30000, base.Add(time.Minute))
		withBuyNow.BuyNowPrice = &buyNow
		seed(t, store,
			newListing("l1", "seller1", 10000, base),
			newListing("l2", "seller1", 20000, base.Add(2*time.Minute)),
			withBuyNow,
			newListing("l0", "seller2", 5000, base), // same creation time as l1
		)

		t.Run("newest_first_ties_by_id", func(t *testing.T) {
			all, err := store.ListListings(ctx)
			require.NoError(t, err)
			require.Equal(t, []string{"l2", "l3", "l0", "l1"}, ids(all))
		})

		t.Run("get_round_trips_fields", func(t *testing.T) {
			got, err := store.GetListing(ctx, "l3")
			require.NoError(t, err)
			require.Equal(t, withBuyNow, got)
		})

		t.Run("get_missing", func(t *testing.T) {
			_, err := store.GetListing(ctx, "nope")
			require.ErrorIs(t, err, marketerrors.ErrListingNotFound)
		})

		t.Run("insert_requires_id", func(t *testing.T) {
			_, err := store.InsertListing(ctx, newListing("", "seller1", 100, base))
			require.ErrorIs(t, err, marketerrors.ErrInvalidListing)
		})

		t.Run("patch_only_touches_set_fields", func(t *testing.T) {
			sold := model.StatusSold
			end := base.Add(48 * time.Hour)
			got, err := store.UpdateListing(ctx, "l1", model.ListingPatch{Status: &sold, EndTime: &end})
			require.NoError(t, err)
			require.Equal(t, model.StatusSold, got.Status)
			require.True(t, end.Equal(got.EndTime))
			require.Equal(t, int64(10000), got.CurrentPrice)

			stored, err := store.GetListing(ctx, "l1")
			require.NoError(t, err)
			require.Equal(t, got, stored)
		})

		t.Run("update_missing", func(t *testing.T) {
			price := int64(1)
			_, err := store.UpdateListing(ctx, "nope", model.ListingPatch{CurrentPrice: &price})
			require.ErrorIs(t, err, marketerrors.ErrListingNotFound)
		})

		t.Run("delete", func(t *testing.T) {
			require.NoError(t, store.DeleteListing(ctx, "l0"))
			require.ErrorIs(t, store.DeleteListing(ctx, "l0"), marketerrors.ErrListingNotFound)
			_, err := store.GetListing(ctx, "l0")
			require.ErrorIs(t, err, marketerrors.ErrListingNotFound)
		})
	})
}

func TestStore_Bids(t *testing.T) {
	t.Parallel()

	stores(t, func(t *testing.T, store MarketStore) {
		ctx := context.Background()
		seed(t, store, newListing("l1", "seller", 10000, base), newListing("l2", "seller", 10000, base))

		for _, b := range []model.Bid{
			newBid("b1", "l1", "alice", 11000, base.Add(time.Minute)),
			newBid("b2", "l1", "bob", 12000, base.Add(2*time.Minute)),
			newBid("b3", "l1", "carol", 12000, base.Add(3*time.Minute)),
			newBid("b4", "l2", "alice", 15000, base.Add(4*time.Minute)),
		} {
			_, err := store.InsertBid(ctx, b)
			require.NoError(t, err)
		}

		t.Run("by_listing_newest_first", func(t *testing.T) {
			bids, err := store.BidsByListing(ctx, "l1")
			require.NoError(t, err)
			require.Len(t, bids, 3)
			require.Equal(t, "b3", bids[0].ID)
			require.Equal(t, "b1", bids[2].ID)
		})

		t.Run("unknown_listing_has_no_bids", func(t *testing.T) {
			bids, err := store.BidsByListing(ctx, "nope")
			require.NoError(t, err)
			require.Empty(t, bids)
		})

		t.Run("by_bidder", func(t *testing.T) {
			bids, err := store.BidsByBidder(ctx, "alice")
			require.NoError(t, err)
			require.Len(t, bids, 2)
			require.Equal(t, "b4", bids[0].ID)
		})

		t.Run("highest_prefers_earliest_on_tie", func(t *testing.T) {
			winning, err := store.HighestBid(ctx, "l1")
			require.NoError(t, err)
			require.Equal(t, "b2", winning.ID)
		})

		t.Run("insert_on_missing_listing", func(t *testing.T) {
			_, err := store.InsertBid(ctx, newBid("bx", "nope", "alice", 1, base))
			require.ErrorIs(t, err, marketerrors.ErrListingNotFound)
		})

		t.Run("delete_by_listing", func(t *testing.T) {
			require.NoError(t, store.DeleteBidsByListing(ctx, "l2"))
			_, err := store.HighestBid(ctx, "l2")
			require.ErrorIs(t, err, marketerrors.ErrNoBids)
		})
	})
}

func TestStore_PlaceBidIfPrice(t *testing.T) {
	t.Parallel()

	stores(t, func(t *testing.T, store MarketStore) {
		ctx := context.Background()
		seed(t, store, newListing("l1", "seller", 10000, base))

		bid, listing, err := store.PlaceBidIfPrice(ctx, newBid("b1", "l1", "alice", 11000, base), 10000)
		require.NoError(t, err)
		require.Equal(t, "b1", bid.ID)
		require.Equal(t, int64(11000), listing.CurrentPrice)

		// a second bidder who still saw 10000 loses instead of lowering the price
		_, _, err = store.PlaceBidIfPrice(ctx, newBid("b2", "l1", "bob", 10500, base), 10000)
		require.ErrorIs(t, err, marketerrors.ErrStalePrice)

		stored, err := store.GetListing(ctx, "l1")
		require.NoError(t, err)
		require.Equal(t, int64(11000), stored.CurrentPrice)
		bids, err := store.BidsByListing(ctx, "l1")
		require.NoError(t, err)
		require.Len(t, bids, 1)

		sold := model.StatusSold
		_, err = store.UpdateListing(ctx, "l1", model.ListingPatch{Status: &sold})
		require.NoError(t, err)
		_, _, err = store.PlaceBidIfPrice(ctx, newBid("b3", "l1", "bob", 20000, base), 11000)
		require.ErrorIs(t, err, marketerrors.ErrListingClosed)

		_, _, err = store.PlaceBidIfPrice(ctx, newBid("b4", "nope", "bob", 20000, base), 0)
		require.ErrorIs(t, err, marketerrors.ErrListingNotFound)
	})
}

func TestStore_BuyNowIfActive(t *testing.T) {
	t.Parallel()

	stores(t, func(t *testing.T, store MarketStore) {
		ctx := context.Background()
		buyNow := int64(50000)
		l := newListing("l1", "seller", 10000, base)
		l.BuyNowPrice = &buyNow
		seed(t, store, l, newListing("l2", "seller", 10000, base))

		bid, sold, err := store.BuyNowIfActive(ctx, newBid("b1", "l1", "alice", 1, base))
		require.NoError(t, err)
		require.Equal(t, buyNow, bid.Amount, "the stored buy-now price is charged")
		require.Equal(t, model.StatusSold, sold.Status)
		require.Equal(t, buyNow, sold.CurrentPrice)

		// a second buyer who still saw the listing active gets nothing
		_, _, err = store.BuyNowIfActive(ctx, newBid("b2", "l1", "bob", buyNow, base))
		require.ErrorIs(t, err, marketerrors.ErrListingClosed)

		bids, err := store.BidsByListing(ctx, "l1")
		require.NoError(t, err)
		require.Len(t, bids, 1)
		require.Equal(t, "alice", bids[0].BidderID)

		stored, err := store.GetListing(ctx, "l1")
		require.NoError(t, err)
		require.Equal(t, sold, stored)

		_, _, err = store.BuyNowIfActive(ctx, newBid("b3", "l2", "bob", 1, base))
		require.ErrorIs(t, err, marketerrors.ErrBuyNowUnavailable)
		_, _, err = store.BuyNowIfActive(ctx, newBid("b4", "nope", "bob", 1, base))
		require.ErrorIs(t, err, marketerrors.ErrListingNotFound)
	})
}

func TestMemoryRepo_ConcurrentBuyNow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewMemoryRepo()
	buyNow := int64(50000)
	l := newListing("l1", "seller", 10000, base)
	l.BuyNowPrice = &buyNow
	seed(t, repo, l)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 20; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			b := newBid(fmt.Sprintf("bid-%d", i), "l1", fmt.Sprintf("user-%d", i), buyNow, base)
			if _, _, err := repo.BuyNowIfActive(ctx, b); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, wins)
	bids, err := repo.BidsByListing(ctx, "l1")
	require.NoError(t, err)
	require.Len(t, bids, 1)
}

func TestStore_Messages(t *testing.T) {
	t.Parallel()

	stores(t, func(t *testing.T, store MarketStore) {
		ctx := context.Background()
		for i, m := range []model.Message{
			{ID: "m1", SenderID: "alice", ReceiverID: "bob", Content: "hi"},
			{ID: "m2", SenderID: "bob", ReceiverID: "alice", Content: "hello"},
			{ID: "m3", SenderID: "carol", ReceiverID: "alice", Content: "still selling?"},
			{ID: "m4", SenderID: "carol", ReceiverID: "bob", Content: "hey"},
		} {
			m.CreatedAt = base.Add(time.Duration(i) * time.Second)
			_, err := store.InsertMessage(ctx, m)
			require.NoError(t, err)
		}

		conv, err := store.MessagesBetween(ctx, "bob", "alice")
		require.NoError(t, err)
		require.Len(t, conv, 2)
		require.Equal(t, "m1", conv[0].ID, "conversation is oldest first")

		mine, err := store.MessagesFor(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, mine, 3)
	})
}

func TestMemoryRepo_ConcurrentPlaceBid(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewMemoryRepo()
	seed(t, repo, newListing("l1", "seller", 10000, base))

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	concurrentCount := 50

	// everyone read the same price; exactly one conditional write can win
	for i := 0; i < concurrentCount; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			b := newBid(fmt.Sprintf("bid-%d", i), "l1", fmt.Sprintf("user-%d", i), int64(11000+i), base)
			if _, _, err := repo.PlaceBidIfPrice(ctx, b, 10000); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			} else {
				require.ErrorIs(t, err, marketerrors.ErrStalePrice)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, wins)
	bids, err := repo.BidsByListing(ctx, "l1")
	require.NoError(t, err)
	require.Len(t, bids, 1)

	l, err := repo.GetListing(ctx, "l1")
	require.NoError(t, err)
	require.Equal(t, bids[0].Amount, l.CurrentPrice)
}

func TestApplyPatch(t *testing.T) {
	t.Parallel()

	l := newListing("l1", "seller", 10000, base)
	require.Equal(t, l, ApplyPatch(l, model.ListingPatch{}))

	price := int64(99000)
	got := ApplyPatch(l, model.ListingPatch{CurrentPrice: &price})
	require.Equal(t, price, got.CurrentPrice)
	require.Equal(t, int64(10000), l.CurrentPrice, "input is not modified")
}
