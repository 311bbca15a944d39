package perftests

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"hidden-market/internal/clientstate"
	market "hidden-market/internal/marketService"
	model "hidden-market/internal/models"
	"hidden-market/internal/objectstore"
	"hidden-market/internal/repository"
)

func benchListing(id string, created time.Time) model.Listing {
	return model.Listing{
		ID:           id,
		Title:        "Benchmark listing " + id,
		Description:  "benchmark item",
		CurrentPrice: 10000,
		StartPrice:   10000,
		BidUnit:      1000,
		EndTime:      created.Add(24 * time.Hour),
		SellerID:     "seller",
		Category:     string(clientstate.CategoryDigital),
		Status:       model.StatusActive,
		CreatedAt:    created,
	}
}

func newBenchService(b *testing.B, repo repository.MarketStore) *market.MarketService {
	b.Helper()
	bucket, err := objectstore.NewDirBucket(b.TempDir(), "/objects")
	if err != nil {
		b.Fatalf("bucket: %v", err)
	}
	return market.NewMarketService(repo, bucket)
}

func newBenchClient(repo repository.MarketStore, userID string) *clientstate.Client {
	return clientstate.NewClient(repo, model.Session{SessionID: "s_" + userID, UserID: userID})
}

// Benchmark 1: PlaceBid - Isolated Listings (Low Contention - Micro Benchmark)
func Benchmark_PlaceBid_Isolated(b *testing.B) {
	ctx := context.Background()
	repo := repository.NewMemoryRepo()
	svc := newBenchService(b, repo)
	client := newBenchClient(repo, "bidder")

	now := time.Now()
	for i := 0; i < b.N; i++ {
		if _, err := repo.InsertListing(ctx, benchListing(fmt.Sprintf("listing_%d", i), now)); err != nil {
			b.Fatalf("insert listing: %v", err)
		}
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		amount := int64(11000 + rand.Intn(1000))
		if _, err := svc.PlaceBid(ctx, client, fmt.Sprintf("listing_%d", i), amount); err != nil {
			b.Fatalf("failed to place bid: %v", err)
		}
	}
}

// Benchmark 2: PlaceBid - Shared Listing (High Contention). Losers of the
// conditional write fail with a stale price instead of overwriting.
func Benchmark_PlaceBid_ConcurrentSharedListing(b *testing.B) {
	ctx := context.Background()
	repo := repository.NewMemoryRepo()
	svc := newBenchService(b, repo)

	if _, err := repo.InsertListing(ctx, benchListing("shared", time.Now())); err != nil {
		b.Fatalf("insert listing: %v", err)
	}

	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
		client := newBenchClient(repo, fmt.Sprintf("user_parallel_%d", rnd.Int()))
		for pb.Next() {
			l, err := repo.GetListing(ctx, "shared")
			if err != nil {
				b.Errorf("get listing: %v", err)
				return
			}
			_, _ = svc.PlaceBid(ctx, client, "shared", l.CurrentPrice+int64(rnd.Intn(5)+1)*1000)
		}
	})
}

// Benchmark 3: Compose - the listing grid over a large catalog
func Benchmark_Compose_Market(b *testing.B) {
	now := time.Now()
	listings := make([]model.Listing, 5000)
	bidIDs := make(map[string]struct{})
	for i := range listings {
		listings[i] = benchListing(fmt.Sprintf("listing_%d", i), now.Add(-time.Duration(i)*time.Second))
		listings[i].CurrentPrice = int64(rand.Intn(1_000_000))
		if i%7 == 0 {
			bidIDs[listings[i].ID] = struct{}{}
		}
	}

	queries := []clientstate.ViewQuery{
		{Tab: clientstate.TabMarket, Category: clientstate.CategoryAll, Sort: clientstate.SortNewest},
		{Tab: clientstate.TabMarket, Category: clientstate.CategoryDigital, Search: "listing_4", Sort: clientstate.SortPriceAsc},
		{Tab: clientstate.TabMyBuying, Sort: clientstate.SortClosing},
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = clientstate.Compose(queries[i%len(queries)], listings, bidIDs, "seller")
	}
}

// Benchmark 4: Catalog.Refresh - wholesale reload from the store
func Benchmark_Catalog_Refresh(b *testing.B) {
	ctx := context.Background()
	repo := repository.NewMemoryRepo()
	now := time.Now()
	for i := 0; i < 1000; i++ {
		if _, err := repo.InsertListing(ctx, benchListing(fmt.Sprintf("listing_%d", i), now.Add(time.Duration(i)*time.Millisecond))); err != nil {
			b.Fatalf("insert listing: %v", err)
		}
	}
	catalog := clientstate.NewCatalog(repo)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if err := catalog.Refresh(ctx, "bidder"); err != nil {
			b.Fatalf("refresh: %v", err)
		}
	}
}
