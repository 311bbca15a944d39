package clientstate

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatWon renders an amount with Korean digit grouping, e.g. 11,000
func FormatWon(amount int64) string {
	return message.NewPrinter(language.Korean).Sprintf("%d", amount)
}

// TimeAgo renders how long ago t was, relative to now
func TimeAgo(t, now time.Time) string {
	mins := int(now.Sub(t) / time.Minute)
	if mins < 1 {
		return "방금 전"
	}
	if mins < 60 {
		return fmt.Sprintf("%d분 전", mins)
	}
	hours := mins / 60
	if hours < 24 {
		return fmt.Sprintf("%d시간 전", hours)
	}
	return fmt.Sprintf("%d일 전", hours/24)
}

// Notification texts pushed by the router and the buy-now action
func bidCompetitionNotice(amount int64) string {
	return fmt.Sprintf("📢 입찰 경쟁! 내가 참여한 상품에 %s원 입찰이 들어왔습니다.", FormatWon(amount))
}

func newMessageNotice(sender string) string {
	return fmt.Sprintf("💬 %s님에게서 새 메시지가 도착했습니다.", sender)
}

// PurchaseNotice is pushed after a successful buy-now
func PurchaseNotice(title string) string {
	return fmt.Sprintf("🎉 낙찰 성공! %s을(를) 구매했습니다.", title)
}

const welcomeNotice = "🎉 히든 마켓에 오신 것을 환영합니다!"
