package repository

import (
	"context"
	"time"

	model "hidden-market/internal/models"
	"hidden-market/utils"
)

// EventPublisher is the write side of the change feed
type EventPublisher interface {
	Publish(ctx context.Context, ev model.ChangeEvent) error
}

// Publishing wraps a MarketStore and emits a change event after every
// successful write. A failed publish is logged and does not fail the write.
type Publishing struct {
	MarketStore
	feed EventPublisher
	now  func() time.Time
}

// NewPublishing decorates store so its writes show up on feed
func NewPublishing(store MarketStore, feed EventPublisher) *Publishing {
	return &Publishing{MarketStore: store, feed: feed, now: time.Now}
}

func (p *Publishing) emit(ctx context.Context, ev model.ChangeEvent) {
	ev.At = p.now().UTC()
	if err := p.feed.Publish(ctx, ev); err != nil {
		utils.Error("repository: failed to publish change", map[string]any{
			"kind":  ev.Kind,
			"op":    ev.Op,
			"error": err.Error(),
		})
	}
}

// InsertListing stores the listing and announces it
func (p *Publishing) InsertListing(ctx context.Context, listing model.Listing) (model.Listing, error) {
	l, err := p.MarketStore.InsertListing(ctx, listing)
	if err != nil {
		return l, err
	}
	p.emit(ctx, model.ChangeEvent{Kind: model.KindListings, Op: model.OpInsert, Listing: &l})
	return l, nil
}

// UpdateListing patches the listing and announces the new record
func (p *Publishing) UpdateListing(ctx context.Context, id string, patch model.ListingPatch) (model.Listing, error) {
	l, err := p.MarketStore.UpdateListing(ctx, id, patch)
	if err != nil {
		return l, err
	}
	p.emit(ctx, model.ChangeEvent{Kind: model.KindListings, Op: model.OpUpdate, Listing: &l})
	return l, nil
}

// DeleteListing removes the listing and announces its identity
func (p *Publishing) DeleteListing(ctx context.Context, id string) error {
	if err := p.MarketStore.DeleteListing(ctx, id); err != nil {
		return err
	}
	p.emit(ctx, model.ChangeEvent{Kind: model.KindListings, Op: model.OpDelete, OldID: id})
	return nil
}

// InsertBid records the bid and announces it
func (p *Publishing) InsertBid(ctx context.Context, bid model.Bid) (model.Bid, error) {
	b, err := p.MarketStore.InsertBid(ctx, bid)
	if err != nil {
		return b, err
	}
	p.emit(ctx, model.ChangeEvent{Kind: model.KindBids, Op: model.OpInsert, Bid: &b})
	return b, nil
}

// PlaceBidIfPrice announces both the bid and the repriced listing
func (p *Publishing) PlaceBidIfPrice(ctx context.Context, bid model.Bid, expectedPrice int64) (model.Bid, model.Listing, error) {
	b, l, err := p.MarketStore.PlaceBidIfPrice(ctx, bid, expectedPrice)
	if err != nil {
		return b, l, err
	}
	p.emit(ctx, model.ChangeEvent{Kind: model.KindBids, Op: model.OpInsert, Bid: &b})
	p.emit(ctx, model.ChangeEvent{Kind: model.KindListings, Op: model.OpUpdate, Listing: &l})
	return b, l, nil
}

// BuyNowIfActive announces the buy-now bid and the sold listing
func (p *Publishing) BuyNowIfActive(ctx context.Context, bid model.Bid) (model.Bid, model.Listing, error) {
	b, l, err := p.MarketStore.BuyNowIfActive(ctx, bid)
	if err != nil {
		return b, l, err
	}
	p.emit(ctx, model.ChangeEvent{Kind: model.KindBids, Op: model.OpInsert, Bid: &b})
	p.emit(ctx, model.ChangeEvent{Kind: model.KindListings, Op: model.OpUpdate, Listing: &l})
	return b, l, nil
}

// InsertMessage stores the message and announces it
func (p *Publishing) InsertMessage(ctx context.Context, msg model.Message) (model.Message, error) {
	m, err := p.MarketStore.InsertMessage(ctx, msg)
	if err != nil {
		return m, err
	}
	p.emit(ctx, model.ChangeEvent{Kind: model.KindMessages, Op: model.OpInsert, Message: &m})
	return m, nil
}
