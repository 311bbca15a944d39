package market

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"hidden-market/internal/clientstate"
	"hidden-market/internal/marketerrors"
	"hidden-market/internal/models"
	"hidden-market/internal/objectstore"
	"hidden-market/internal/repository"
	"hidden-market/utils"
)

const (
	defaultBidUnit  = 1000
	extendBy        = time.Hour
	placeholderBase = "https://source.unsplash.com/random/400x300/?"
)

// UserError carries the alert text the page shows for a failed action
type UserError struct {
	Message string
	Err     error
}

func (e *UserError) Error() string { return e.Message + ": " + e.Err.Error() }

func (e *UserError) Unwrap() error { return e.Err }

func userError(message string, err error) error {
	return &UserError{Message: message, Err: err}
}

// AlertMessage returns the user-facing text of err, if it has one
func AlertMessage(err error) (string, bool) {
	var ue *UserError
	if errors.As(err, &ue) {
		return ue.Message, true
	}
	return "", false
}

// Upload is a file received from the page
type Upload struct {
	Filename string
	Body     io.Reader
}

// NewListing is the seller's input for a new auction
type NewListing struct {
	Title       string
	Description string
	StartPrice  int64
	BidUnit     int64
	BuyNowPrice *int64
	Category    clientstate.Category
	EndTime     time.Time
	Image       *Upload
}

// CloseOutcome tells whether an early close found a winning bid
type CloseOutcome struct {
	Listing    models.Listing `json:"listing"`
	HadWinner  bool           `json:"had_winner"`
	WinningBid *models.Bid    `json:"winning_bid,omitempty"`
}

// MarketService implements the listing lifecycle actions of a session
type MarketService struct {
	repo   repository.MarketStore
	bucket objectstore.Bucket
	now    func() time.Time
}

// NewMarketService creates a new MarketService instance
func NewMarketService(repo repository.MarketStore, bucket objectstore.Bucket) *MarketService {
	return &MarketService{
		repo:   repo,
		bucket: bucket,
		now:    time.Now,
	}
}

// Store exposes the backing store, which also serves the session caches
func (s *MarketService) Store() repository.MarketStore {
	return s.repo
}

// refreshAfter reloads the session catalog after a write. Failures are
// logged only; the write itself already succeeded.
func (s *MarketService) refreshAfter(ctx context.Context, c *clientstate.Client, action string) {
	if err := c.RefreshCatalog(ctx); err != nil {
		utils.Warn("service: catalog refresh failed", map[string]any{
			"action":  action,
			"user_id": c.UserID(),
			"error":   err.Error(),
		})
	}
}

// localListing prefers the copy the session is looking at, the way the page
// validates against what it shows
func (s *MarketService) localListing(ctx context.Context, c *clientstate.Client, id string) (models.Listing, error) {
	if l, ok := c.Detail(); ok && l.ID == id {
		return l, nil
	}
	if l, ok := c.Catalog.Get(id); ok {
		return l, nil
	}
	l, err := s.repo.GetListing(ctx, id)
	if err != nil {
		return models.Listing{}, fmt.Errorf("service: failed to load listing %s: %w", id, err)
	}
	return l, nil
}

func (s *MarketService) ownedListing(ctx context.Context, c *clientstate.Client, id string) (models.Listing, error) {
	l, err := s.localListing(ctx, c, id)
	if err != nil {
		return models.Listing{}, err
	}
	if l.SellerID != c.UserID() {
		return models.Listing{}, fmt.Errorf("service: listing %s: %w", id, marketerrors.ErrNotOwner)
	}
	return l, nil
}

func (s *MarketService) upload(ctx context.Context, prefix string, up *Upload) (string, error) {
	name := objectstore.ObjectName(prefix, s.now().UnixMilli(), up.Filename)
	url, err := s.bucket.Upload(ctx, name, up.Body)
	if err != nil {
		return "", fmt.Errorf("service: failed to upload %s: %w", name, err)
	}
	return url, nil
}

// CreateListing validates and stores a new active listing owned by the user
func (s *MarketService) CreateListing(ctx context.Context, c *clientstate.Client, in NewListing) (models.Listing, error) {
	if err := s.validateListing(&in); err != nil {
		return models.Listing{}, err
	}

	imageURL := placeholderBase + string(in.Category)
	if in.Image != nil {
		url, err := s.upload(ctx, "", in.Image)
		if err != nil {
			return models.Listing{}, err
		}
		imageURL = url
	}

	listing := models.Listing{
		ID:           utils.GenerateID(),
		Title:        in.Title,
		Description:  in.Description,
		CurrentPrice: in.StartPrice,
		StartPrice:   in.StartPrice,
		BuyNowPrice:  in.BuyNowPrice,
		BidUnit:      in.BidUnit,
		EndTime:      in.EndTime.UTC(),
		SellerID:     c.UserID(),
		ImageURL:     imageURL,
		Category:     string(in.Category),
		Status:       models.StatusActive,
		CreatedAt:    s.now().UTC(),
	}

	stored, err := s.repo.InsertListing(ctx, listing)
	if err != nil {
		return models.Listing{}, fmt.Errorf("service: failed to insert listing %q: %w", in.Title, err)
	}

	s.refreshAfter(ctx, c, "create_listing")
	return stored, nil
}

// validateListing checks required fields and fills defaults
func (s *MarketService) validateListing(in *NewListing) error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" || in.StartPrice <= 0 || in.EndTime.IsZero() {
		return userError("필수 정보를 모두 입력해주세요.",
			fmt.Errorf("service: %w - missing title, start price or end time", marketerrors.ErrInvalidListing))
	}
	if in.BidUnit <= 0 {
		in.BidUnit = defaultBidUnit
	}
	if in.Category == "" {
		in.Category = clientstate.CategoryDigital
	}
	if in.Category == clientstate.CategoryAll {
		return fmt.Errorf("service: %w - category all is a filter only", marketerrors.ErrInvalidListing)
	}
	if _, err := clientstate.ParseCategory(string(in.Category)); err != nil {
		return fmt.Errorf("service: %w - %v", marketerrors.ErrInvalidListing, err)
	}
	if in.BuyNowPrice != nil && *in.BuyNowPrice <= 0 {
		return fmt.Errorf("service: %w - non-positive buy-now price", marketerrors.ErrInvalidListing)
	}
	return nil
}

// PlaceBid checks the amount against the price the session last saw and
// commits the bid and the new price in one conditional write. A bid that
// lost a race against another bidder fails with ErrStalePrice.
func (s *MarketService) PlaceBid(ctx context.Context, c *clientstate.Client, listingID string, amount int64) (models.Bid, error) {
	if listingID == "" {
		return models.Bid{}, fmt.Errorf("service: %w - missing listing id", marketerrors.ErrInvalidBid)
	}

	listing, err := s.localListing(ctx, c, listingID)
	if err != nil {
		return models.Bid{}, err
	}
	if err := s.validateBid(listing, amount); err != nil {
		return models.Bid{}, err
	}

	bid := models.Bid{
		ID:        utils.GenerateID(),
		ListingID: listingID,
		BidderID:  c.UserID(),
		Amount:    amount,
		CreatedAt: s.now().UTC(),
	}

	stored, updated, err := s.repo.PlaceBidIfPrice(ctx, bid, listing.CurrentPrice)
	if errors.Is(err, marketerrors.ErrStalePrice) {
		s.refreshAfter(ctx, c, "place_bid")
		return models.Bid{}, userError("다른 입찰이 먼저 반영되었습니다. 현재가를 확인해주세요.",
			fmt.Errorf("service: failed to record bid for listing %s by user %s: %w", listingID, bid.BidderID, err))
	}
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to record bid for listing %s by user %s: %w", listingID, bid.BidderID, err)
	}

	if c.DetailID() == listingID {
		c.ReplaceDetail(updated)
		if err := c.Ledger.Refresh(ctx, listingID); err != nil {
			utils.Warn("service: ledger refresh failed", map[string]any{"listing_id": listingID, "error": err.Error()})
		}
	}
	s.refreshAfter(ctx, c, "place_bid")
	return stored, nil
}

// validateBid checks the bid against the local copy of the listing
func (s *MarketService) validateBid(l models.Listing, amount int64) error {
	if l.Status != models.StatusActive || !s.now().Before(l.EndTime) {
		return userError("이미 마감된 경매입니다.",
			fmt.Errorf("service: %w - listing %s", marketerrors.ErrListingClosed, l.ID))
	}
	if amount <= l.CurrentPrice {
		return userError(fmt.Sprintf("현재가(%s원)보다 높게 입찰해주세요.", clientstate.FormatWon(l.CurrentPrice)),
			fmt.Errorf("service: %w - current price is %d", marketerrors.ErrBidTooLow, l.CurrentPrice))
	}
	return nil
}

// BuyNow sells the listing to the user at its buy-now price and records a
// bid at that price. The store only sells a listing that is still active,
// so of two buyers looking at the same listing exactly one succeeds.
func (s *MarketService) BuyNow(ctx context.Context, c *clientstate.Client, listingID string) (models.Listing, error) {
	listing, err := s.localListing(ctx, c, listingID)
	if err != nil {
		return models.Listing{}, err
	}
	if listing.BuyNowPrice == nil || listing.Status != models.StatusActive {
		return models.Listing{}, fmt.Errorf("service: listing %s: %w", listingID, marketerrors.ErrBuyNowUnavailable)
	}

	_, updated, err := s.repo.BuyNowIfActive(ctx, models.Bid{
		ID:        utils.GenerateID(),
		ListingID: listingID,
		BidderID:  c.UserID(),
		Amount:    *listing.BuyNowPrice,
		CreatedAt: s.now().UTC(),
	})
	if errors.Is(err, marketerrors.ErrListingClosed) {
		s.refreshAfter(ctx, c, "buy_now")
		return models.Listing{}, userError("이미 마감된 경매입니다.",
			fmt.Errorf("service: failed to buy listing %s: %w", listingID, err))
	}
	if err != nil {
		return models.Listing{}, fmt.Errorf("service: failed to buy listing %s: %w", listingID, err)
	}

	c.Notifications.Push(clientstate.PurchaseNotice(listing.Title))
	c.CloseDetail()
	s.refreshAfter(ctx, c, "buy_now")
	return updated, nil
}

// CloseEarly ends the seller's auction now. The listing is marked sold
// whether or not anyone bid; the outcome reports which case it was.
func (s *MarketService) CloseEarly(ctx context.Context, c *clientstate.Client, listingID string) (CloseOutcome, error) {
	if _, err := s.ownedListing(ctx, c, listingID); err != nil {
		return CloseOutcome{}, err
	}

	var outcome CloseOutcome
	winning, err := s.repo.HighestBid(ctx, listingID)
	switch {
	case err == nil:
		outcome.HadWinner = true
		outcome.WinningBid = &winning
	case !errors.Is(err, marketerrors.ErrNoBids):
		return CloseOutcome{}, fmt.Errorf("service: failed to check winning bid: %w", err)
	}

	// TODO: leave listings without bids active (or mark them unsold) once the
	// store has a status for it; today both cases end as sold.
	sold := models.StatusSold
	updated, err := s.repo.UpdateListing(ctx, listingID, models.ListingPatch{Status: &sold})
	if err != nil {
		return CloseOutcome{}, fmt.Errorf("service: failed to close listing %s: %w", listingID, err)
	}
	outcome.Listing = updated

	c.CloseDetail()
	s.refreshAfter(ctx, c, "close_early")
	return outcome, nil
}

// ExtendEndTime pushes the seller's deadline back by one hour
func (s *MarketService) ExtendEndTime(ctx context.Context, c *clientstate.Client, listingID string) (models.Listing, error) {
	listing, err := s.ownedListing(ctx, c, listingID)
	if err != nil {
		return models.Listing{}, err
	}
	if listing.Status != models.StatusActive {
		return models.Listing{}, userError("이미 마감된 경매입니다.",
			fmt.Errorf("service: extend listing %s: %w", listingID, marketerrors.ErrListingClosed))
	}

	end := listing.EndTime.Add(extendBy)
	updated, err := s.repo.UpdateListing(ctx, listingID, models.ListingPatch{EndTime: &end})
	if err != nil {
		return models.Listing{}, userError("연장 실패", fmt.Errorf("service: failed to extend listing %s: %w", listingID, err))
	}

	if c.DetailID() == listingID {
		c.ReplaceDetail(updated)
	}
	s.refreshAfter(ctx, c, "extend")
	return updated, nil
}

// DeleteListing cancels the seller's listing together with its bids
func (s *MarketService) DeleteListing(ctx context.Context, c *clientstate.Client, listingID string) error {
	if _, err := s.ownedListing(ctx, c, listingID); err != nil {
		return err
	}

	if err := s.repo.DeleteBidsByListing(ctx, listingID); err != nil {
		return fmt.Errorf("service: failed to delete bids of listing %s: %w", listingID, err)
	}
	if err := s.repo.DeleteListing(ctx, listingID); err != nil {
		return fmt.Errorf("service: failed to delete listing %s: %w", listingID, err)
	}

	c.CloseDetail()
	s.refreshAfter(ctx, c, "delete_listing")
	return nil
}

// SaveProfile renames the user and optionally uploads a new avatar
func (s *MarketService) SaveProfile(ctx context.Context, c *clientstate.Client, name string, avatar *Upload) (models.Session, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Session{}, userError("닉네임을 입력해주세요.", fmt.Errorf("service: %w", marketerrors.ErrEmptyName))
	}

	var avatarURL string
	if avatar != nil {
		url, err := s.upload(ctx, "profile_", avatar)
		if err != nil {
			return models.Session{}, userError("프로필 저장 실패: "+err.Error(), err)
		}
		avatarURL = url
	}

	c.SetProfile(name, avatarURL)
	return c.Session(), nil
}

// OpenChat makes partnerID the active conversation
func (s *MarketService) OpenChat(ctx context.Context, c *clientstate.Client, partnerID string) ([]models.Message, error) {
	if partnerID == c.UserID() {
		return nil, userError("본인과는 대화할 수 없습니다.", fmt.Errorf("service: %w", marketerrors.ErrSelfChat))
	}
	if err := c.Chat.Open(ctx, c.UserID(), partnerID); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	// chatting with a seller leaves the listing detail
	c.CloseDetail()
	return c.Chat.Messages(), nil
}

// SendMessage posts content to the active conversation. The message shows up
// in the conversation through the change feed.
func (s *MarketService) SendMessage(ctx context.Context, c *clientstate.Client, content string) (models.Message, error) {
	if strings.TrimSpace(content) == "" {
		return models.Message{}, fmt.Errorf("service: %w", marketerrors.ErrEmptyMessage)
	}
	partner := c.Chat.Active()
	if partner == "" {
		return models.Message{}, fmt.Errorf("service: %w", marketerrors.ErrNoActiveChat)
	}

	msg, err := s.repo.InsertMessage(ctx, models.Message{
		ID:         utils.GenerateID(),
		SenderID:   c.UserID(),
		ReceiverID: partner,
		Content:    content,
		CreatedAt:  s.now().UTC(),
	})
	if err != nil {
		return models.Message{}, fmt.Errorf("service: failed to send message to %s: %w", partner, err)
	}
	return msg, nil
}
