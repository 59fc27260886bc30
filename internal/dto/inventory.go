package dto

type InventoryItemResponse struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Barcode   string  `json:"barcode"`
	ItemType  string  `json:"item_type"`
	Status    string  `json:"status"`
	Price     float64 `json:"price"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

// UpdateInventoryRequest carries a partial update; nil fields are left
// unchanged.
type UpdateInventoryRequest struct {
	Title  *string  `json:"title,omitempty"`
	Status *string  `json:"status,omitempty" validate:"omitempty,oneof=listed pending sold"`
	Price  *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
}

type CreateInventoryRequest struct {
	Title    string  `json:"title" validate:"required"`
	Barcode  string  `json:"barcode" validate:"required"`
	ItemType string  `json:"item_type"`
	Price    float64 `json:"price" validate:"gte=0"`
}
