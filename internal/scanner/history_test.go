package scanner

import (
	"fmt"
	"testing"
	"time"

	"resellscan/internal/models"
)

func bookResult(title string) models.ScanResult {
	return models.ScanResult{
		Title:          title,
		Category:       "Books",
		ItemType:       models.ItemTypeBooks,
		Recommendation: models.RecommendationKeep,
		Margin:         "20%",
	}
}

func TestHistoryCapAndOrder(t *testing.T) {
	h := NewHistory(10)
	base := time.Now()
	for i := 1; i <= 11; i++ {
		h.Append(fmt.Sprintf("code-%d", i), bookResult(fmt.Sprintf("item %d", i)), base.Add(time.Duration(i)*time.Second))
	}

	if h.Len() != 10 {
		t.Fatalf("expected history capped at 10, got %d", h.Len())
	}

	items := h.Items()
	if items[0].Barcode != "code-11" {
		t.Errorf("expected most recent first, got %q", items[0].Barcode)
	}
	if items[9].Barcode != "code-2" {
		t.Errorf("expected oldest surviving entry 'code-2', got %q", items[9].Barcode)
	}
	for _, item := range items {
		if item.Barcode == "code-1" {
			t.Error("expected 'code-1' to be evicted")
		}
	}
}

func TestHistoryFilterByItemType(t *testing.T) {
	h := NewHistory(10)
	now := time.Now()
	h.Append("b1", bookResult("book one"), now)
	h.Append("g1", models.ScanResult{ItemType: models.ItemTypeVideoGames, Recommendation: models.RecommendationWarn}, now)
	h.Append("b2", bookResult("book two"), now)

	filter := NewFilter()
	filter.ItemType = "books"
	got := h.Filtered(filter)

	if len(got) != 2 {
		t.Fatalf("expected 2 book entries, got %d", len(got))
	}
	if got[0].Barcode != "b2" || got[1].Barcode != "b1" {
		t.Errorf("expected order preserved (b2, b1), got (%q, %q)", got[0].Barcode, got[1].Barcode)
	}
}

func TestHistoryFilterByDateBounds(t *testing.T) {
	h := NewHistory(10)
	base := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	h.Append("old", bookResult("old"), base.Add(-time.Hour))
	h.Append("mid", bookResult("mid"), base)
	h.Append("new", bookResult("new"), base.Add(time.Hour))

	start := base.Add(-time.Minute)
	end := base.Add(time.Minute)
	filter := NewFilter()
	filter.StartDate = &start
	filter.EndDate = &end

	got := h.Filtered(filter)
	if len(got) != 1 || got[0].Barcode != "mid" {
		t.Fatalf("expected only 'mid' within bounds, got %d entries", len(got))
	}
}

func TestEmptyFilterMatchesAll(t *testing.T) {
	h := NewHistory(10)
	now := time.Now()
	h.Append("b1", bookResult("one"), now)
	h.Append("g1", models.ScanResult{ItemType: models.ItemTypeVideoGames}, now)

	if got := h.Filtered(NewFilter()); len(got) != 2 {
		t.Errorf("expected empty filter to return all 2 entries, got %d", len(got))
	}
}

func TestHistoryUsers(t *testing.T) {
	h := NewHistory(10)
	now := time.Now()
	withUser := func(user string) models.ScanResult {
		r := bookResult("x")
		r.UserID = user
		return r
	}
	h.Append("a", withUser("alice@example.com"), now)
	h.Append("b", withUser(""), now)
	h.Append("c", withUser("bob@example.com"), now)
	h.Append("d", withUser("alice@example.com"), now)

	users := h.Users()
	if len(users) != 2 {
		t.Fatalf("expected 2 distinct users, got %d", len(users))
	}
}
