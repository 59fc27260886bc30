package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog entry keyed by barcode. Cost is the acquisition
// price used by the recommendation decision; BuyBoxPrice is the last known
// marketplace price and acts as the fallback when live pricing is disabled.
type Product struct {
	ID          uuid.UUID `db:"id"`
	Barcode     string    `db:"barcode"`
	Title       string    `db:"title"`
	Category    string    `db:"category"`
	ItemType    string    `db:"item_type"`
	ImageURL    string    `db:"image_url"`
	Author      string    `db:"author"`
	Publisher   string    `db:"publisher"`
	Platform    string    `db:"platform"`
	Cost        float64   `db:"cost"`
	BuyBoxPrice float64   `db:"buy_box_price"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}
