package models

import (
	"time"

	"github.com/google/uuid"
)

type InventoryStatus string

const (
	InventoryStatusListed  InventoryStatus = "listed"
	InventoryStatusPending InventoryStatus = "pending"
	InventoryStatusSold    InventoryStatus = "sold"
)

type InventoryItem struct {
	ID        uuid.UUID       `db:"id"`
	UserID    uuid.UUID       `db:"user_id"`
	Title     string          `db:"title"`
	Barcode   string          `db:"barcode"`
	ItemType  string          `db:"item_type"`
	Status    InventoryStatus `db:"status"`
	Price     float64         `db:"price"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}
