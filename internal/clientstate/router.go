package clientstate

import (
	"context"

	model "hidden-market/internal/models"
	"hidden-market/utils"
)

// Observer is told about every event after the router has applied it
type Observer func(ev model.ChangeEvent)

// EventRouter applies change-feed events to one Client. Events are handled
// one at a time in delivery order; a handler finishes, refreshes included,
// before the next event is read.
type EventRouter struct {
	client    *Client
	observers []Observer
}

// NewEventRouter creates a router for client
func NewEventRouter(client *Client, observers ...Observer) *EventRouter {
	return &EventRouter{client: client, observers: observers}
}

// Run handles events until ctx ends or the channel closes
func (r *EventRouter) Run(ctx context.Context, events <-chan model.ChangeEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				utils.Warn("router: change feed closed, live updates stopped", r.client.logFields(nil))
				return
			}
			r.Handle(ctx, ev)
		}
	}
}

// Handle applies a single event
func (r *EventRouter) Handle(ctx context.Context, ev model.ChangeEvent) {
	utils.Debug("router: event", r.client.logFields(map[string]any{"kind": ev.Kind, "op": ev.Op}))

	switch ev.Kind {
	case model.KindListings:
		r.onListing(ctx, ev)
	case model.KindBids:
		r.onBid(ctx, ev)
	case model.KindMessages:
		r.onMessage(ctx, ev)
	default:
		utils.Warn("router: ignoring unknown event kind", r.client.logFields(map[string]any{"kind": ev.Kind}))
		return
	}

	for _, obs := range r.observers {
		obs(ev)
	}
}

// onListing reloads the whole catalog for any listing write
func (r *EventRouter) onListing(ctx context.Context, ev model.ChangeEvent) {
	c := r.client
	if err := c.RefreshCatalog(ctx); err != nil {
		c.warn("router: catalog refresh failed", err, map[string]any{"op": ev.Op})
	}

	if ev.Listing != nil && ev.Listing.ID != "" && ev.Listing.ID == c.DetailID() {
		c.ReplaceDetail(*ev.Listing)
	}
}

func (r *EventRouter) onBid(ctx context.Context, ev model.ChangeEvent) {
	if ev.Op != model.OpInsert || ev.Bid == nil {
		return
	}
	c := r.client
	bid := *ev.Bid

	if bid.ListingID == c.DetailID() {
		if err := c.Ledger.Refresh(ctx, bid.ListingID); err != nil {
			c.warn("router: ledger refresh failed", err, map[string]any{"listing_id": bid.ListingID})
		}
	}

	if c.Catalog.HasBidOn(bid.ListingID) && bid.BidderID != c.UserID() {
		c.Notifications.Push(bidCompetitionNotice(bid.Amount))
	}

	// picks up the price change the bid caused
	if err := c.RefreshCatalog(ctx); err != nil {
		c.warn("router: catalog refresh failed", err, map[string]any{"listing_id": bid.ListingID})
	}
}

func (r *EventRouter) onMessage(ctx context.Context, ev model.ChangeEvent) {
	if ev.Op != model.OpInsert || ev.Message == nil {
		return
	}
	c := r.client
	msg := *ev.Message
	user := c.UserID()

	if msg.SenderID != user && msg.ReceiverID != user {
		return
	}

	if err := c.Chat.RefreshPartners(ctx, user); err != nil {
		c.warn("router: chat partner refresh failed", err, nil)
	}

	active := c.Chat.Active()
	if active != "" && (msg.SenderID == active || msg.ReceiverID == active) {
		c.Chat.Append(msg)
	}

	if msg.ReceiverID == user && msg.SenderID != active {
		c.Notifications.Push(newMessageNotice(msg.SenderID))
	}
}
