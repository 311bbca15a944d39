package helpers

import (
	"time"

	"hidden-market/internal/clientstate"
	model "hidden-market/internal/models"
)

// Request/Response DTOs
type PlaceBidRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

type CreateListingRequest struct {
	Title       string `form:"title" binding:"required"`
	Description string `form:"description"`
	StartPrice  int64  `form:"start_price" binding:"required,gt=0"`
	BidUnit     int64  `form:"bid_unit"`
	BuyNowPrice *int64 `form:"buy_now_price"`
	Category    string `form:"category"`
	EndTime     string `form:"end_time" binding:"required"`
}

type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

type ListingQuery struct {
	Tab      string `form:"tab"`
	Category string `form:"category"`
	Search   string `form:"q"`
	Sort     string `form:"sort"`
}

type ListingResponse struct {
	model.Listing
	PriceText string                `json:"price_text"`
	Badge     string                `json:"badge"`
	Countdown clientstate.Countdown `json:"countdown"`
	Liked     bool                  `json:"liked"`
}

type BidLogEntry struct {
	model.Bid
	AmountText string `json:"amount_text"`
	Ago        string `json:"ago"`
}

type DetailResponse struct {
	Listing    ListingResponse `json:"listing"`
	Bids       []BidLogEntry   `json:"bids"`
	IsOwner    bool            `json:"is_owner"`
	CanBuyNow  bool            `json:"can_buy_now"`
	CanBid     bool            `json:"can_bid"`
	MinNextBid int64           `json:"min_next_bid"`
}

type SessionResponse struct {
	Token   string        `json:"token,omitempty"`
	Session model.Session `json:"session"`
}

type ChatResponse struct {
	Partner  string          `json:"partner"`
	Messages []model.Message `json:"messages"`
}

// endTimeLayouts are accepted for CreateListingRequest.EndTime; the second is
// what a datetime-local input submits
var endTimeLayouts = []string{time.RFC3339, "2006-01-02T15:04"}

// ParseEndTime parses an end time in RFC 3339 or datetime-local form
func ParseEndTime(s string, loc *time.Location) (time.Time, bool) {
	for _, layout := range endTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NewListingResponse decorates a listing with its display state at now
func NewListingResponse(l model.Listing, liked bool, now time.Time) ListingResponse {
	return ListingResponse{
		Listing:   l,
		PriceText: clientstate.FormatWon(l.CurrentPrice) + "원",
		Badge:     clientstate.StatusBadge(l),
		Countdown: clientstate.DeriveCountdown(l.EndTime, l.Status, now),
		Liked:     liked,
	}
}

// NewDetailResponse builds the detail view of the listing a user opened
func NewDetailResponse(l model.Listing, bids []model.Bid, userID string, liked bool, now time.Time) DetailResponse {
	entries := make([]BidLogEntry, 0, len(bids))
	for _, b := range bids {
		entries = append(entries, BidLogEntry{
			Bid:        b,
			AmountText: clientstate.FormatWon(b.Amount) + "원",
			Ago:        clientstate.TimeAgo(b.CreatedAt, now),
		})
	}

	active := l.Status == model.StatusActive
	return DetailResponse{
		Listing:    NewListingResponse(l, liked, now),
		Bids:       entries,
		IsOwner:    l.SellerID == userID,
		CanBuyNow:  l.BuyNowPrice != nil && active,
		CanBid:     l.SellerID != userID && active && now.Before(l.EndTime),
		MinNextBid: l.CurrentPrice + l.BidUnit,
	}
}
