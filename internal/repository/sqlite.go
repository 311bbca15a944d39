package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hidden-market/internal/marketerrors"
	model "hidden-market/internal/models"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS listings (
	id            TEXT PRIMARY KEY,
	title         TEXT NOT NULL,
	description   TEXT NOT NULL DEFAULT '',
	current_price INTEGER NOT NULL,
	start_price   INTEGER NOT NULL,
	buy_now_price INTEGER,
	bid_unit      INTEGER NOT NULL,
	end_time      INTEGER NOT NULL,
	seller_id     TEXT NOT NULL,
	image_url     TEXT NOT NULL DEFAULT '',
	category      TEXT NOT NULL,
	status        TEXT NOT NULL,
	created_at    INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS bids (
	id         TEXT PRIMARY KEY,
	listing_id TEXT NOT NULL,
	bidder_id  TEXT NOT NULL,
	amount     INTEGER NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_bids_listing ON bids(listing_id);
CREATE INDEX IF NOT EXISTS idx_bids_bidder ON bids(bidder_id);
CREATE TABLE IF NOT EXISTS messages (
	id          TEXT PRIMARY KEY,
	sender_id   TEXT NOT NULL,
	receiver_id TEXT NOT NULL,
	content     TEXT NOT NULL,
	created_at  INTEGER NOT NULL
);
`

const listingColumns = `id, title, description, current_price, start_price, buy_now_price, bid_unit,
	end_time, seller_id, image_url, category, status, created_at`

// SQLiteRepo is a MarketStore persisted in a SQLite database file
type SQLiteRepo struct {
	db *sql.DB
}

// OpenSQLite opens (and migrates) the database at path. Use ":memory:" for a
// throwaway store.
func OpenSQLite(path string) (*SQLiteRepo, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// one connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate sqlite %s: %w", path, err)
	}
	return &SQLiteRepo{db: db}, nil
}

// Close releases the database handle
func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanListing(row rowScanner) (model.Listing, error) {
	var (
		l                model.Listing
		buyNow           sql.NullInt64
		endTime, created int64
		status           string
	)
	err := row.Scan(&l.ID, &l.Title, &l.Description, &l.CurrentPrice, &l.StartPrice, &buyNow, &l.BidUnit,
		&endTime, &l.SellerID, &l.ImageURL, &l.Category, &status, &created)
	if err != nil {
		return model.Listing{}, err
	}
	if buyNow.Valid {
		v := buyNow.Int64
		l.BuyNowPrice = &v
	}
	l.EndTime = time.Unix(0, endTime).UTC()
	l.CreatedAt = time.Unix(0, created).UTC()
	l.Status = model.ListingStatus(status)
	return l, nil
}

func scanBid(row rowScanner) (model.Bid, error) {
	var (
		b       model.Bid
		created int64
	)
	if err := row.Scan(&b.ID, &b.ListingID, &b.BidderID, &b.Amount, &created); err != nil {
		return model.Bid{}, err
	}
	b.CreatedAt = time.Unix(0, created).UTC()
	return b, nil
}

func scanMessage(row rowScanner) (model.Message, error) {
	var (
		m       model.Message
		created int64
	)
	if err := row.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &created); err != nil {
		return model.Message{}, err
	}
	m.CreatedAt = time.Unix(0, created).UTC()
	return m, nil
}

// ListListings returns every listing, newest first
func (r *SQLiteRepo) ListListings(ctx context.Context) ([]model.Listing, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+listingColumns+` FROM listings ORDER BY created_at DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	defer rows.Close()

	var out []model.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("list listings: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// GetListing returns a single listing
func (r *SQLiteRepo) GetListing(ctx context.Context, id string) (model.Listing, error) {
	l, err := scanListing(r.db.QueryRowContext(ctx, `SELECT `+listingColumns+` FROM listings WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Listing{}, fmt.Errorf("get listing %s: %w", id, marketerrors.ErrListingNotFound)
	}
	if err != nil {
		return model.Listing{}, fmt.Errorf("get listing %s: %w", id, err)
	}
	return l, nil
}

// InsertListing stores a new listing
func (r *SQLiteRepo) InsertListing(ctx context.Context, l model.Listing) (model.Listing, error) {
	if l.ID == "" {
		return model.Listing{}, fmt.Errorf("insert listing: %w - missing id", marketerrors.ErrInvalidListing)
	}
	var buyNow sql.NullInt64
	if l.BuyNowPrice != nil {
		buyNow = sql.NullInt64{Int64: *l.BuyNowPrice, Valid: true}
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO listings (`+listingColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.Title, l.Description, l.CurrentPrice, l.StartPrice, buyNow, l.BidUnit,
		l.EndTime.UnixNano(), l.SellerID, l.ImageURL, l.Category, string(l.Status), l.CreatedAt.UnixNano())
	if err != nil {
		return model.Listing{}, fmt.Errorf("insert listing %s: %w", l.ID, err)
	}
	return l, nil
}

// UpdateListing applies a partial patch to a listing
func (r *SQLiteRepo) UpdateListing(ctx context.Context, id string, patch model.ListingPatch) (model.Listing, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Listing{}, fmt.Errorf("update listing %s: %w", id, err)
	}
	defer tx.Rollback()

	l, err := scanListing(tx.QueryRowContext(ctx, `SELECT `+listingColumns+` FROM listings WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Listing{}, fmt.Errorf("update listing %s: %w", id, marketerrors.ErrListingNotFound)
	}
	if err != nil {
		return model.Listing{}, fmt.Errorf("update listing %s: %w", id, err)
	}

	l = ApplyPatch(l, patch)
	_, err = tx.ExecContext(ctx, `UPDATE listings SET current_price = ?, end_time = ?, status = ? WHERE id = ?`,
		l.CurrentPrice, l.EndTime.UnixNano(), string(l.Status), id)
	if err != nil {
		return model.Listing{}, fmt.Errorf("update listing %s: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return model.Listing{}, fmt.Errorf("update listing %s: %w", id, err)
	}
	return l, nil
}

// DeleteListing removes a listing. Bids are left to DeleteBidsByListing.
func (r *SQLiteRepo) DeleteListing(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM listings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete listing %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete listing %s: %w", id, marketerrors.ErrListingNotFound)
	}
	return nil
}

func (r *SQLiteRepo) queryBids(ctx context.Context, query string, args ...any) ([]model.Bid, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Bid
	for rows.Next() {
		b, err := scanBid(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// BidsByListing returns all bids for a listing, newest first
func (r *SQLiteRepo) BidsByListing(ctx context.Context, listingID string) ([]model.Bid, error) {
	bids, err := r.queryBids(ctx, `SELECT id, listing_id, bidder_id, amount, created_at FROM bids
		WHERE listing_id = ? ORDER BY created_at DESC`, listingID)
	if err != nil {
		return nil, fmt.Errorf("get bids for listing %s: %w", listingID, err)
	}
	return bids, nil
}

// BidsByBidder returns every bid a user has placed, newest first
func (r *SQLiteRepo) BidsByBidder(ctx context.Context, bidderID string) ([]model.Bid, error) {
	bids, err := r.queryBids(ctx, `SELECT id, listing_id, bidder_id, amount, created_at FROM bids
		WHERE bidder_id = ? ORDER BY created_at DESC`, bidderID)
	if err != nil {
		return nil, fmt.Errorf("get bids by bidder %s: %w", bidderID, err)
	}
	return bids, nil
}

// HighestBid returns the highest bid for a listing
func (r *SQLiteRepo) HighestBid(ctx context.Context, listingID string) (model.Bid, error) {
	b, err := scanBid(r.db.QueryRowContext(ctx, `SELECT id, listing_id, bidder_id, amount, created_at FROM bids
		WHERE listing_id = ? ORDER BY amount DESC, created_at ASC LIMIT 1`, listingID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Bid{}, fmt.Errorf("get highest bid for listing %s: %w", listingID, marketerrors.ErrNoBids)
	}
	if err != nil {
		return model.Bid{}, fmt.Errorf("get highest bid for listing %s: %w", listingID, err)
	}
	return b, nil
}

// InsertBid appends a bid without touching the listing price
func (r *SQLiteRepo) InsertBid(ctx context.Context, bid model.Bid) (model.Bid, error) {
	if _, err := r.GetListing(ctx, bid.ListingID); err != nil {
		return model.Bid{}, fmt.Errorf("record bid: %w", err)
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO bids (id, listing_id, bidder_id, amount, created_at) VALUES (?, ?, ?, ?, ?)`,
		bid.ID, bid.ListingID, bid.BidderID, bid.Amount, bid.CreatedAt.UnixNano())
	if err != nil {
		return model.Bid{}, fmt.Errorf("record bid for listing %s: %w", bid.ListingID, err)
	}
	return bid, nil
}

// PlaceBidIfPrice records the bid and raises the listing price in one
// transaction, but only while the stored price still equals expectedPrice.
func (r *SQLiteRepo) PlaceBidIfPrice(ctx context.Context, bid model.Bid, expectedPrice int64) (model.Bid, model.Listing, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Bid{}, model.Listing{}, fmt.Errorf("place bid on listing %s: %w", bid.ListingID, err)
	}
	defer tx.Rollback()

	l, err := scanListing(tx.QueryRowContext(ctx, `SELECT `+listingColumns+` FROM listings WHERE id = ?`, bid.ListingID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Bid{}, model.Listing{}, fmt.Errorf("place bid on listing %s: %w", bid.ListingID, marketerrors.ErrListingNotFound)
	}
	if err != nil {
		return model.Bid{}, model.Listing{}, fmt.Errorf("place bid on listing %s: %w", bid.ListingID, err)
	}
	if l.Status != model.StatusActive {
		return model.Bid{}, model.Listing{}, fmt.Errorf("place bid on listing %s: %w", bid.ListingID, marketerrors.ErrListingClosed)
	}
	if l.CurrentPrice != expectedPrice {
		return model.Bid{}, model.Listing{}, fmt.Errorf("place bid on listing %s: expected price %d, found %d: %w",
			bid.ListingID, expectedPrice, l.CurrentPrice, marketerrors.ErrStalePrice)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE listings SET current_price = ? WHERE id = ?`, bid.Amount, l.ID); err != nil {
		return model.Bid{}, model.Listing{}, fmt.Errorf("place bid on listing %s: %w", bid.ListingID, err)
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO bids (id, listing_id, bidder_id, amount, created_at) VALUES (?, ?, ?, ?, ?)`,
		bid.ID, bid.ListingID, bid.BidderID, bid.Amount, bid.CreatedAt.UnixNano())
	if err != nil {
		return model.Bid{}, model.Listing{}, fmt.Errorf("place bid on listing %s: %w", bid.ListingID, err)
	}
	if err := tx.Commit(); err != nil {
		return model.Bid{}, model.Listing{}, fmt.Errorf("place bid on listing %s: %w", bid.ListingID, err)
	}

	l.CurrentPrice = bid.Amount
	return bid, l, nil
}

// BuyNowIfActive marks the listing sold at its buy-now price and records the
// bid in one transaction. The update only matches an active listing, so a
// second buyer finds it closed.
func (r *SQLiteRepo) BuyNowIfActive(ctx context.Context, bid model.Bid) (model.Bid, model.Listing, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Bid{}, model.Listing{}, fmt.Errorf("buy now listing %s: %w", bid.ListingID, err)
	}
	defer tx.Rollback()

	l, err := scanListing(tx.QueryRowContext(ctx, `SELECT `+listingColumns+` FROM listings WHERE id = ?`, bid.ListingID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Bid{}, model.Listing{}, fmt.Errorf("buy now listing %s: %w", bid.ListingID, marketerrors.ErrListingNotFound)
	}
	if err != nil {
		return model.Bid{}, model.Listing{}, fmt.Errorf("buy now listing %s: %w", bid.ListingID, err)
	}
	if l.Status != model.StatusActive {
		return model.Bid{}, model.Listing{}, fmt.Errorf("buy now listing %s: %w", bid.ListingID, marketerrors.ErrListingClosed)
	}
	if l.BuyNowPrice == nil {
		return model.Bid{}, model.Listing{}, fmt.Errorf("buy now listing %s: %w", bid.ListingID, marketerrors.ErrBuyNowUnavailable)
	}
	bid.Amount = *l.BuyNowPrice

	res, err := tx.ExecContext(ctx, `UPDATE listings SET status = ?, current_price = ? WHERE id = ? AND status = ?`,
		string(model.StatusSold), bid.Amount, l.ID, string(model.StatusActive))
	if err != nil {
		return model.Bid{}, model.Listing{}, fmt.Errorf("buy now listing %s: %w", bid.ListingID, err)
	}
	if n, err := res.RowsAffected(); err != nil || n != 1 {
		return model.Bid{}, model.Listing{}, fmt.Errorf("buy now listing %s: %w", bid.ListingID, marketerrors.ErrListingClosed)
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO bids (id, listing_id, bidder_id, amount, created_at) VALUES (?, ?, ?, ?, ?)`,
		bid.ID, bid.ListingID, bid.BidderID, bid.Amount, bid.CreatedAt.UnixNano())
	if err != nil {
		return model.Bid{}, model.Listing{}, fmt.Errorf("buy now listing %s: %w", bid.ListingID, err)
	}
	if err := tx.Commit(); err != nil {
		return model.Bid{}, model.Listing{}, fmt.Errorf("buy now listing %s: %w", bid.ListingID, err)
	}

	l.CurrentPrice = bid.Amount
	l.Status = model.StatusSold
	return bid, l, nil
}

// DeleteBidsByListing removes every bid of a listing
func (r *SQLiteRepo) DeleteBidsByListing(ctx context.Context, listingID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM bids WHERE listing_id = ?`, listingID); err != nil {
		return fmt.Errorf("delete bids for listing %s: %w", listingID, err)
	}
	return nil
}

func (r *SQLiteRepo) queryMessages(ctx context.Context, query string, args ...any) ([]model.Message, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// MessagesBetween returns the conversation between two users, oldest first
func (r *SQLiteRepo) MessagesBetween(ctx context.Context, userA, userB string) ([]model.Message, error) {
	msgs, err := r.queryMessages(ctx, `SELECT id, sender_id, receiver_id, content, created_at FROM messages
		WHERE (sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)
		ORDER BY created_at ASC`, userA, userB, userB, userA)
	if err != nil {
		return nil, fmt.Errorf("get messages between %s and %s: %w", userA, userB, err)
	}
	return msgs, nil
}

// MessagesFor returns every message a user sent or received
func (r *SQLiteRepo) MessagesFor(ctx context.Context, userID string) ([]model.Message, error) {
	msgs, err := r.queryMessages(ctx, `SELECT id, sender_id, receiver_id, content, created_at FROM messages
		WHERE sender_id = ? OR receiver_id = ? ORDER BY created_at ASC`, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("get messages for %s: %w", userID, err)
	}
	return msgs, nil
}

// InsertMessage appends a chat message
func (r *SQLiteRepo) InsertMessage(ctx context.Context, msg model.Message) (model.Message, error) {
	_, err := r.db.ExecContext(ctx, `INSERT INTO messages (id, sender_id, receiver_id, content, created_at) VALUES (?, ?, ?, ?, ?)`,
		msg.ID, msg.SenderID, msg.ReceiverID, msg.Content, msg.CreatedAt.UnixNano())
	if err != nil {
		return model.Message{}, fmt.Errorf("insert message: %w", err)
	}
	return msg, nil
}
