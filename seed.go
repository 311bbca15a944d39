package main

import (
	"context"
	"fmt"
	"time"

	model "hidden-market/internal/models"
	"hidden-market/internal/repository"
	"hidden-market/utils"
)

func price(v int64) *int64 { return &v }

// prepopulateListings adds sample listings so a fresh market is not empty
func prepopulateListings(ctx context.Context, store repository.MarketStore, now time.Time) error {
	listings := []model.Listing{
		{Title: "아이패드 프로 11 (3세대)", Description: "생활기스 조금 있습니다.", StartPrice: 450000,
			BuyNowPrice: price(700000), BidUnit: 10000, Category: "digital", SellerID: "User_1024", EndTime: now.Add(26 * time.Hour)},
		{Title: "원목 1인 책상", Description: "직접 가져가셔야 합니다.", StartPrice: 30000,
			BidUnit: 1000, Category: "furniture", SellerID: "User_2048", EndTime: now.Add(40 * time.Minute)},
		{Title: "빈티지 데님 자켓", Description: "M 사이즈", StartPrice: 25000,
			BuyNowPrice: price(50000), BidUnit: 1000, Category: "fashion", SellerID: "User_4096", EndTime: now.Add(5 * time.Hour)},
		{Title: "건담 MG 한정판", Description: "미개봉", StartPrice: 80000,
			BidUnit: 5000, Category: "hobby", SellerID: "User_1024", EndTime: now.Add(3 * 24 * time.Hour)},
	}

	for i, l := range listings {
		l.ID = utils.GenerateID()
		l.CurrentPrice = l.StartPrice
		l.Status = model.StatusActive
		l.ImageURL = "https://source.unsplash.com/random/400x300/?" + l.Category
		// stagger creation so newest-first order is stable
		l.CreatedAt = now.Add(time.Duration(i-len(listings)) * time.Minute)
		if _, err := store.InsertListing(ctx, l); err != nil {
			return fmt.Errorf("seed listing %q: %w", l.Title, err)
		}
	}

	utils.Info("Sample listings inserted", map[string]any{"count": len(listings)})
	return nil
}
