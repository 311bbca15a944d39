package clientstate

import (
	"fmt"
	"sort"
	"strings"

	"hidden-market/internal/marketerrors"
	model "hidden-market/internal/models"
)

// Tab selects which base set of listings a view starts from
type Tab int

const (
	TabMarket Tab = iota
	TabMyBuying
	TabMySelling
)

var tabNames = map[Tab]string{
	TabMarket:    "market",
	TabMyBuying:  "my_buying",
	TabMySelling: "my_selling",
}

func (t Tab) String() string { return tabNames[t] }

// ParseTab maps a wire tag to a Tab; the empty tag is the market tab
func ParseTab(s string) (Tab, error) {
	if s == "" {
		return TabMarket, nil
	}
	for t, name := range tabNames {
		if name == s {
			return t, nil
		}
	}
	return TabMarket, fmt.Errorf("tab %q: %w", s, marketerrors.ErrInvalidFilter)
}

// Category is a listing category; CategoryAll only exists as a filter
type Category string

const (
	CategoryAll       Category = "all"
	CategoryDigital   Category = "digital"
	CategoryFurniture Category = "furniture"
	CategoryFashion   Category = "fashion"
	CategoryHobby     Category = "hobby"
	CategoryEtc       Category = "etc"
)

// CategoryInfo is the display name and icon of a category
type CategoryInfo struct {
	ID   Category `json:"id"`
	Name string   `json:"name"`
	Icon string   `json:"icon"`
}

// Categories lists every category in display order
var Categories = []CategoryInfo{
	{ID: CategoryAll, Name: "전체", Icon: "🔥"},
	{ID: CategoryDigital, Name: "디지털", Icon: "💻"},
	{ID: CategoryFurniture, Name: "가구", Icon: "🛋️"},
	{ID: CategoryFashion, Name: "패션", Icon: "👕"},
	{ID: CategoryHobby, Name: "취미", Icon: "🎮"},
	{ID: CategoryEtc, Name: "기타", Icon: "📦"},
}

// ParseCategory validates a category tag; the empty tag means all
func ParseCategory(s string) (Category, error) {
	if s == "" {
		return CategoryAll, nil
	}
	for _, c := range Categories {
		if string(c.ID) == s {
			return c.ID, nil
		}
	}
	return CategoryAll, fmt.Errorf("category %q: %w", s, marketerrors.ErrInvalidFilter)
}

// SortKey orders the composed view
type SortKey int

const (
	SortNewest SortKey = iota
	SortPriceAsc
	SortPriceDesc
	SortClosing
)

var sortNames = map[SortKey]string{
	SortNewest:    "newest",
	SortPriceAsc:  "price_asc",
	SortPriceDesc: "price_desc",
	SortClosing:   "closing",
}

func (k SortKey) String() string { return sortNames[k] }

// ParseSortKey maps a wire tag to a SortKey; the empty tag sorts newest first
func ParseSortKey(s string) (SortKey, error) {
	if s == "" {
		return SortNewest, nil
	}
	for k, name := range sortNames {
		if name == s {
			return k, nil
		}
	}
	return SortNewest, fmt.Errorf("sort %q: %w", s, marketerrors.ErrInvalidFilter)
}

// ViewQuery is everything the page chose for the listing grid
type ViewQuery struct {
	Tab      Tab
	Category Category
	Search   string
	Sort     SortKey
}

// Compose derives the displayed listings. It never modifies its inputs and
// returns the same sequence for the same arguments.
func Compose(q ViewQuery, listings []model.Listing, bidListingIDs map[string]struct{}, userID string) []model.Listing {
	out := make([]model.Listing, 0, len(listings))

	switch q.Tab {
	case TabMyBuying:
		for _, l := range listings {
			if _, ok := bidListingIDs[l.ID]; ok {
				out = append(out, l)
			}
		}
	case TabMySelling:
		for _, l := range listings {
			if l.SellerID == userID {
				out = append(out, l)
			}
		}
	case TabMarket:
		needle := strings.ToLower(q.Search)
		for _, l := range listings {
			if q.Category != CategoryAll && q.Category != "" && l.Category != string(q.Category) {
				continue
			}
			if needle != "" && !strings.Contains(strings.ToLower(l.Title), needle) {
				continue
			}
			out = append(out, l)
		}
	default:
		panic(fmt.Sprintf("clientstate: unhandled tab %d", q.Tab))
	}

	var less func(a, b model.Listing) bool
	switch q.Sort {
	case SortPriceAsc:
		less = func(a, b model.Listing) bool { return a.CurrentPrice < b.CurrentPrice }
	case SortPriceDesc:
		less = func(a, b model.Listing) bool { return a.CurrentPrice > b.CurrentPrice }
	case SortClosing:
		less = func(a, b model.Listing) bool { return a.EndTime.Before(b.EndTime) }
	case SortNewest:
		less = func(a, b model.Listing) bool { return a.CreatedAt.After(b.CreatedAt) }
	default:
		panic(fmt.Sprintf("clientstate: unhandled sort key %d", q.Sort))
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
