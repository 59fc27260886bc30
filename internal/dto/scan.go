package dto

type ScanRequest struct {
	Barcode     string `json:"barcode" validate:"required"`
	SubmittedBy string `json:"submittedBy,omitempty"`
}

type ScanProductResponse struct {
	Title     string   `json:"title"`
	Category  string   `json:"category"`
	ItemType  string   `json:"itemType"`
	Images    []string `json:"images"`
	Author    string   `json:"author,omitempty"`
	Publisher string   `json:"publisher,omitempty"`
	Platform  string   `json:"platform,omitempty"`
}

type ScanPricingResponse struct {
	BuyBoxPrice float64 `json:"buyBoxPrice"`
}

type ScanRecommendationResponse struct {
	Decision string  `json:"decision"`
	Profit   float64 `json:"profit"`
	Margin   string  `json:"margin"`
}

type ScanResponse struct {
	Product        ScanProductResponse        `json:"product"`
	Pricing        ScanPricingResponse        `json:"pricing"`
	Recommendation ScanRecommendationResponse `json:"recommendation"`
}

type ScanRecordResponse struct {
	ID          string  `json:"id"`
	Barcode     string  `json:"barcode"`
	Title       string  `json:"title"`
	ItemType    string  `json:"item_type"`
	Decision    string  `json:"decision"`
	Profit      float64 `json:"profit"`
	SubmittedBy string  `json:"submitted_by"`
	CreatedAt   string  `json:"created_at"`
}
