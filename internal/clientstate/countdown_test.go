package clientstate

import (
	"context"
	"testing"
	"time"

	model "hidden-market/internal/models"

	"github.com/stretchr/testify/require"
)

func TestDeriveCountdown(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		end    time.Time
		status model.ListingStatus
		want   Countdown
	}{
		{name: "sold_wins_over_time", end: now.Add(time.Hour), status: model.StatusSold, want: Countdown{Label: LabelSold, Terminal: true}},
		{name: "past_deadline", end: now.Add(-time.Second), status: model.StatusActive, want: Countdown{Label: LabelClosed, Terminal: true}},
		{name: "exactly_now", end: now, status: model.StatusActive, want: Countdown{Label: LabelClosed, Terminal: true}},
		{name: "days_and_hours", end: now.Add(50*time.Hour + 30*time.Minute), status: model.StatusActive, want: Countdown{Label: "2일 2시간"}},
		{name: "under_a_day", end: now.Add(5*time.Hour + 4*time.Minute + 3*time.Second), status: model.StatusActive, want: Countdown{Label: "5:04:03"}},
		{name: "urgent_under_an_hour", end: now.Add(59*time.Minute + 59*time.Second), status: model.StatusActive, want: Countdown{Label: "0:59:59", Urgent: true}},
		{name: "one_hour_is_not_urgent", end: now.Add(time.Hour), status: model.StatusActive, want: Countdown{Label: "1:00:00"}},
		{name: "fraction_of_a_second", end: now.Add(500 * time.Millisecond), status: model.StatusActive, want: Countdown{Label: "0:00:00", Urgent: true}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, DeriveCountdown(tc.end, tc.status, now))
		})
	}
}

func TestWatchCountdown_StopsAtTerminal(t *testing.T) {
	t.Parallel()

	start := time.Now()
	var ticks int
	clock := func() time.Time {
		// every reading moves the clock one second on
		ticks++
		return start.Add(time.Duration(ticks) * time.Second)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var labels []string
	for c := range WatchCountdown(ctx, start.Add(3*time.Second), model.StatusActive, time.Millisecond, clock) {
		labels = append(labels, c.Label)
	}
	require.Equal(t, []string{"0:00:02", "0:00:01", LabelClosed}, labels)
}

func TestWatchCountdown_Cancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	out := WatchCountdown(ctx, time.Now().Add(time.Hour), model.StatusActive, time.Hour, time.Now)

	first := <-out
	require.False(t, first.Terminal)
	cancel()

	// the channel closes once the watcher sees the cancellation
	for range out {
	}
}

func TestStatusBadge(t *testing.T) {
	t.Parallel()

	l := model.Listing{StartPrice: 10000, CurrentPrice: 10000, Status: model.StatusActive}
	require.Equal(t, "판매중", StatusBadge(l))

	l.CurrentPrice = 11000
	require.Equal(t, "입찰중 🔥", StatusBadge(l))

	l.Status = model.StatusSold
	require.Equal(t, "거래완료", StatusBadge(l))
}

func TestFormatting(t *testing.T) {
	t.Parallel()

	require.Equal(t, "11,000", FormatWon(11000))
	require.Equal(t, "1,234,567", FormatWon(1234567))
	require.Equal(t, "500", FormatWon(500))

	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	require.Equal(t, "방금 전", TimeAgo(now.Add(-30*time.Second), now))
	require.Equal(t, "5분 전", TimeAgo(now.Add(-5*time.Minute), now))
	require.Equal(t, "3시간 전", TimeAgo(now.Add(-3*time.Hour), now))
	require.Equal(t, "2일 전", TimeAgo(now.Add(-49*time.Hour), now))

	require.Equal(t, "📢 입찰 경쟁! 내가 참여한 상품에 12,000원 입찰이 들어왔습니다.", bidCompetitionNotice(12000))
	require.Equal(t, "🎉 낙찰 성공! 레고을(를) 구매했습니다.", PurchaseNotice("레고"))
}
