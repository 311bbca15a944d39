package models

import "time"

// ListingStatus is the lifecycle state of a listing
type ListingStatus string

const (
	StatusActive ListingStatus = "active"
	StatusSold   ListingStatus = "sold"
)

// Session is the identity bound to one browser tab
type Session struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Listing represents an item put up for auction
type Listing struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	CurrentPrice int64         `json:"current_price"`
	StartPrice   int64         `json:"start_price"`
	BuyNowPrice  *int64        `json:"buy_now_price"`
	BidUnit      int64         `json:"bid_unit"`
	EndTime      time.Time     `json:"end_time"`
	SellerID     string        `json:"seller_id"`
	ImageURL     string        `json:"image_url"`
	Category     string        `json:"category"`
	Status       ListingStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
}

// ListingPatch is a partial update; nil fields are left untouched
type ListingPatch struct {
	CurrentPrice *int64         `json:"current_price,omitempty"`
	EndTime      *time.Time     `json:"end_time,omitempty"`
	Status       *ListingStatus `json:"status,omitempty"`
}

// Bid represents a user's offer on a listing
type Bid struct {
	ID        string    `json:"id"`
	ListingID string    `json:"listing_id"`
	BidderID  string    `json:"bidder_id"`
	Amount    int64     `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// Message is one chat line between two users
type Message struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// ChangeKind names the record collection a change event belongs to
type ChangeKind string

const (
	KindListings ChangeKind = "listings"
	KindBids     ChangeKind = "bids"
	KindMessages ChangeKind = "messages"
)

// ChangeOp is the write that produced a change event
type ChangeOp string

const (
	OpInsert ChangeOp = "INSERT"
	OpUpdate ChangeOp = "UPDATE"
	OpDelete ChangeOp = "DELETE"
)

// ChangeEvent carries the new record of one write. Delete events carry
// only the identity of the removed record in OldID.
type ChangeEvent struct {
	Kind    ChangeKind `json:"kind"`
	Op      ChangeOp   `json:"op"`
	OldID   string     `json:"old_id,omitempty"`
	Listing *Listing   `json:"listing,omitempty"`
	Bid     *Bid       `json:"bid,omitempty"`
	Message *Message   `json:"message,omitempty"`
	At      time.Time  `json:"at"`
}
