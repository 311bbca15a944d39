package marketerrors

import "errors"

// Repository-level errors
var (
	ErrListingNotFound = errors.New("listing not found")
	ErrNoBids          = errors.New("no bids found for listing")
	ErrStalePrice      = errors.New("listing price changed since it was read")
)

// business logic errors
var (
	ErrInvalidListing    = errors.New("invalid listing")
	ErrInvalidBid        = errors.New("invalid bid")
	ErrBidTooLow         = errors.New("bid amount too low")
	ErrListingClosed     = errors.New("listing is no longer accepting bids")
	ErrBuyNowUnavailable = errors.New("buy-now is not available for listing")
	ErrNotOwner          = errors.New("only the seller can do this")
	ErrInvalidFilter     = errors.New("invalid listing filter")
)

// session and chat errors
var (
	ErrUnauthenticated = errors.New("no active session")
	ErrEmptyName       = errors.New("display name is empty")
	ErrSelfChat        = errors.New("cannot chat with yourself")
	ErrNoActiveChat    = errors.New("no conversation is open")
	ErrEmptyMessage    = errors.New("message content is empty")
)
