package scanner

import (
	"time"

	"resellscan/internal/models"
)

// FilterAll is the wildcard value for the itemType and recommendation
// filter fields.
const FilterAll = "all"

// Filter is a predicate over history items. Fields are independent; an
// item matches iff it satisfies every present field.
type Filter struct {
	UserID         string
	ItemType       string
	Recommendation string
	StartDate      *time.Time
	EndDate        *time.Time
}

// NewFilter returns the empty filter: everything matches.
func NewFilter() Filter {
	return Filter{ItemType: FilterAll, Recommendation: FilterAll}
}

func (f Filter) Matches(item models.HistoryItem) bool {
	if f.UserID != "" && item.UserID != f.UserID {
		return false
	}
	if f.ItemType != "" && f.ItemType != FilterAll && string(item.ItemType) != f.ItemType {
		return false
	}
	if f.Recommendation != "" && f.Recommendation != FilterAll && string(item.Recommendation) != f.Recommendation {
		return false
	}
	if f.StartDate != nil && item.Timestamp.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && item.Timestamp.After(*f.EndDate) {
		return false
	}
	return true
}

// History is an ordered scan log, most recent first, capped at a fixed
// length. It is not safe for concurrent use; the controller serializes
// access.
type History struct {
	limit int
	items []models.HistoryItem
}

func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = 10
	}
	return &History{limit: limit}
}

// Append inserts a new item at the front, evicting the oldest entry beyond
// the cap.
func (h *History) Append(barcode string, result models.ScanResult, at time.Time) {
	item := models.HistoryItem{ScanResult: result, Barcode: barcode, Timestamp: at}
	h.items = append([]models.HistoryItem{item}, h.items...)
	if len(h.items) > h.limit {
		h.items = h.items[:h.limit]
	}
}

func (h *History) Len() int {
	return len(h.items)
}

// Items returns a copy of the history, most recent first.
func (h *History) Items() []models.HistoryItem {
	out := make([]models.HistoryItem, len(h.items))
	copy(out, h.items)
	return out
}

// Filtered returns the entries matching the filter, preserving order.
func (h *History) Filtered(filter Filter) []models.HistoryItem {
	out := make([]models.HistoryItem, 0, len(h.items))
	for _, item := range h.items {
		if filter.Matches(item) {
			out = append(out, item)
		}
	}
	return out
}

// Users returns the distinct non-empty user ids observed in the history,
// in first-seen order.
func (h *History) Users() []string {
	seen := make(map[string]bool, len(h.items))
	var users []string
	for _, item := range h.items {
		if item.UserID == "" || seen[item.UserID] {
			continue
		}
		seen[item.UserID] = true
		users = append(users, item.UserID)
	}
	return users
}
