package clientstate

import (
	"context"
	"fmt"
	"time"

	model "hidden-market/internal/models"
)

const (
	LabelSold   = "판매 완료"
	LabelClosed = "마감됨"

	urgentWithin = time.Hour
)

// Countdown is the presentational state of a listing's deadline
type Countdown struct {
	Label  string `json:"label"`
	Urgent bool   `json:"urgent"`
	// Terminal is set once the label can no longer change
	Terminal bool `json:"terminal"`
}

// DeriveCountdown computes the remaining-time label at now. It never changes
// listing status; expiry only affects the label.
func DeriveCountdown(end time.Time, status model.ListingStatus, now time.Time) Countdown {
	if status == model.StatusSold {
		return Countdown{Label: LabelSold, Terminal: true}
	}

	remaining := end.Sub(now)
	if remaining <= 0 {
		return Countdown{Label: LabelClosed, Terminal: true}
	}

	total := int64(remaining / time.Second)
	days := total / 86400
	hours := (total / 3600) % 24
	mins := (total / 60) % 60
	secs := total % 60

	c := Countdown{Urgent: remaining < urgentWithin}
	if days > 0 {
		c.Label = fmt.Sprintf("%d일 %d시간", days, hours)
	} else {
		c.Label = fmt.Sprintf("%d:%02d:%02d", hours, mins, secs)
	}
	return c
}

// WatchCountdown emits the countdown immediately and then on every tick of
// every, stopping after a terminal label or when ctx ends.
func WatchCountdown(ctx context.Context, end time.Time, status model.ListingStatus, every time.Duration, now func() time.Time) <-chan Countdown {
	out := make(chan Countdown, 1)
	go func() {
		defer close(out)
		ticker := time.NewTicker(every)
		defer ticker.Stop()

		for {
			c := DeriveCountdown(end, status, now())
			select {
			case out <- c:
			case <-ctx.Done():
				return
			}
			if c.Terminal {
				return
			}
			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// StatusBadge is the short state label shown on a listing card
func StatusBadge(l model.Listing) string {
	switch {
	case l.Status == model.StatusSold:
		return "거래완료"
	case l.CurrentPrice > l.StartPrice:
		return "입찰중 🔥"
	default:
		return "판매중"
	}
}
