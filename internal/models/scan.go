package models

import (
	"time"

	"github.com/google/uuid"
)

// ItemType classifies scanned products into resale categories.
type ItemType string

const (
	ItemTypeBooks      ItemType = "books"
	ItemTypeVideoGames ItemType = "video_games"
	ItemTypeMusic      ItemType = "music"
	ItemTypeVideos     ItemType = "videos"
	ItemTypeOther      ItemType = "other"
)

// Recommendation is the resale decision attached to a scanned item.
type Recommendation string

const (
	RecommendationKeep    Recommendation = "keep"
	RecommendationDiscard Recommendation = "discard"
	RecommendationWarn    Recommendation = "warn"
)

// ScanResult is the decision data attached to one barcode observation.
// Results are constructed fresh on every resolution and never mutated,
// only superseded by the next scan.
type ScanResult struct {
	Title          string
	Category       string
	ItemType       ItemType
	Image          string
	CurrentPrice   float64
	SuggestedPrice float64
	Recommendation Recommendation
	Profit         float64
	Margin         string
	Author         string
	Publisher      string
	Platform       string
	UserID         string
}

// HistoryItem is a ScanResult with the scanned code and the client-side
// resolution timestamp attached.
type HistoryItem struct {
	ScanResult
	Barcode   string
	Timestamp time.Time
}

// ScanRecord is the durable server-side audit row for one scan.
type ScanRecord struct {
	ID          uuid.UUID `db:"id"`
	Barcode     string    `db:"barcode"`
	Title       string    `db:"title"`
	ItemType    string    `db:"item_type"`
	Decision    string    `db:"decision"`
	Profit      float64   `db:"profit"`
	SubmittedBy string    `db:"submitted_by"`
	CreatedAt   time.Time `db:"created_at"`
}
