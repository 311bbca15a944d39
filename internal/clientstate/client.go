package clientstate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"hidden-market/internal/marketerrors"
	model "hidden-market/internal/models"
	"hidden-market/utils"
)

// Subscriber opens the change feed
type Subscriber interface {
	Subscribe(ctx context.Context) (<-chan model.ChangeEvent, error)
}

// Stats are the counters shown on the profile panel
type Stats struct {
	Selling int `json:"selling"`
	Bidding int `json:"bidding"`
	Likes   int `json:"likes"`
}

// Client is the application state of one signed-in tab. Every session
// component hangs off it; nothing is shared between tabs.
type Client struct {
	Catalog       *Catalog
	Ledger        *Ledger
	Chat          *Chat
	Notifications *Notifications

	now func() time.Time

	mu       sync.RWMutex
	session  model.Session
	detail   *model.Listing
	likes    map[string]struct{}
	welcomed bool

	cancel context.CancelFunc
	done   chan struct{}
}

// Option configures a Client
type Option func(*Client)

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// NewClient creates the state container for session
func NewClient(backend Backend, session model.Session, opts ...Option) *Client {
	c := &Client{
		Catalog:       NewCatalog(backend),
		Ledger:        NewLedger(backend),
		Chat:          NewChat(backend),
		Notifications: &Notifications{},
		now:           time.Now,
		session:       session,
		likes:         make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Now returns the client's clock reading
func (c *Client) Now() time.Time { return c.now() }

// Session returns the signed-in identity
func (c *Client) Session() model.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// UserID returns the signed-in user's identity
func (c *Client) UserID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session.UserID
}

// SetProfile changes the identity and avatar after a profile edit
func (c *Client) SetProfile(userID, avatarURL string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.UserID = userID
	if avatarURL != "" {
		c.session.AvatarURL = avatarURL
	}
}

// RefreshCatalog reloads the catalog for the current user. The first refresh
// that finds the user's bids while no alert is queued greets them once.
func (c *Client) RefreshCatalog(ctx context.Context) error {
	if err := c.Catalog.Refresh(ctx, c.UserID()); err != nil {
		return err
	}

	if len(c.Catalog.BidListingIDs()) == 0 || c.Notifications.Len() > 0 {
		return nil
	}
	c.mu.Lock()
	greet := !c.welcomed
	c.welcomed = true
	c.mu.Unlock()
	if greet {
		c.Notifications.Push(welcomeNotice)
	}
	return nil
}

// OpenDetail shows listing id and loads its bid log
func (c *Client) OpenDetail(ctx context.Context, id string) (model.Listing, error) {
	l, ok := c.Catalog.Get(id)
	if !ok {
		if err := c.RefreshCatalog(ctx); err != nil {
			return model.Listing{}, err
		}
		if l, ok = c.Catalog.Get(id); !ok {
			return model.Listing{}, fmt.Errorf("open listing %s: %w", id, marketerrors.ErrListingNotFound)
		}
	}

	c.ReplaceDetail(l)
	if err := c.Ledger.Refresh(ctx, id); err != nil {
		return l, err
	}
	return l, nil
}

// Detail returns the open listing, if any
func (c *Client) Detail() (model.Listing, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.detail == nil {
		return model.Listing{}, false
	}
	return *c.detail, true
}

// DetailID returns the identity of the open listing, or ""
func (c *Client) DetailID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.detail == nil {
		return ""
	}
	return c.detail.ID
}

// ReplaceDetail swaps in a newer copy of the open listing
func (c *Client) ReplaceDetail(l model.Listing) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.detail = &l
}

// CloseDetail closes the listing detail
func (c *Client) CloseDetail() {
	c.mu.Lock()
	c.detail = nil
	c.mu.Unlock()
	c.Ledger.Reset()
}

// View composes the listing grid from the current catalog
func (c *Client) View(q ViewQuery) []model.Listing {
	return Compose(q, c.Catalog.Listings(), c.Catalog.BidListingIDs(), c.UserID())
}

// ToggleLike flips the like mark of a listing and reports the new state
func (c *Client) ToggleLike(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.likes[id]; ok {
		delete(c.likes, id)
		return false
	}
	c.likes[id] = struct{}{}
	return true
}

// Liked reports whether the user liked listing id
func (c *Client) Liked(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.likes[id]
	return ok
}

// Stats counts own listings, bid-on listings and likes
func (c *Client) Stats() Stats {
	user := c.UserID()
	s := Stats{Bidding: len(c.Catalog.BidListingIDs())}
	for _, l := range c.Catalog.Listings() {
		if l.SellerID == user {
			s.Selling++
		}
	}
	c.mu.RLock()
	s.Likes = len(c.likes)
	c.mu.RUnlock()
	return s
}

// Start subscribes to the feed and runs the event router until Stop, ctx
// cancellation, or the feed closing. A dropped feed is not re-subscribed.
func (c *Client) Start(ctx context.Context, sub Subscriber, observers ...Observer) error {
	c.mu.Lock()
	if c.cancel != nil {
		c.mu.Unlock()
		return errors.New("clientstate: client already started")
	}
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})
	done := c.done
	c.mu.Unlock()

	events, err := sub.Subscribe(ctx)
	if err != nil {
		cancel()
		close(done)
		return fmt.Errorf("clientstate: subscribe: %w", err)
	}

	router := NewEventRouter(c, observers...)
	go func() {
		defer close(done)
		router.Run(ctx, events)
	}()
	return nil
}

// Stop releases the feed subscription and waits for the router to exit
func (c *Client) Stop() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel = nil
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Reset drops all session state, as on logout
func (c *Client) Reset() {
	c.Stop()
	c.Catalog.Reset()
	c.Ledger.Reset()
	c.Chat.Reset()
	c.Notifications.Clear()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.detail = nil
	c.likes = make(map[string]struct{})
	c.welcomed = false
}

func (c *Client) logFields(extra map[string]any) map[string]any {
	fields := map[string]any{"user_id": c.UserID()}
	for k, v := range extra {
		fields[k] = v
	}
	return fields
}

func (c *Client) warn(message string, err error, extra map[string]any) {
	fields := c.logFields(extra)
	fields["error"] = err.Error()
	utils.Warn(message, fields)
}
