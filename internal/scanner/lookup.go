package scanner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"resellscan/internal/models"

	"go.uber.org/zap"
)

// ErrProductNotFound is the distinguished "no such product" outcome. It is
// not a failure: the pipeline maps it to an empty result without touching
// the fallback table or the scan history.
var ErrProductNotFound = errors.New("product not found")

// Resolver turns a barcode into a ScanResult. Implementations return
// ErrProductNotFound for a definite negative and any other error for
// conditions the pipeline should recover from via the fallback table.
type Resolver interface {
	Resolve(ctx context.Context, barcode, userID string) (*models.ScanResult, error)
}

type lookupRequest struct {
	Barcode     string `json:"barcode"`
	SubmittedBy string `json:"submittedBy,omitempty"`
}

// lookupResponse mirrors the product-lookup API contract. Every field is
// optional on the wire; defaulting happens in mapResult so a sparse or
// misbehaving response still produces a usable ScanResult.
type lookupResponse struct {
	Product struct {
		Title     string   `json:"title"`
		Category  string   `json:"category"`
		ItemType  string   `json:"itemType"`
		Images    []string `json:"images"`
		Author    string   `json:"author"`
		Publisher string   `json:"publisher"`
		Platform  string   `json:"platform"`
	} `json:"product"`
	Pricing struct {
		BuyBoxPrice float64 `json:"buyBoxPrice"`
	} `json:"pricing"`
	Recommendation struct {
		Decision string  `json:"decision"`
		Profit   float64 `json:"profit"`
		Margin   string  `json:"margin"`
	} `json:"recommendation"`
}

// HTTPResolver resolves barcodes against the resellscan API.
type HTTPResolver struct {
	baseURL string
	token   func() string
	client  *http.Client
	logger  *zap.Logger
}

// NewHTTPResolver creates a resolver for the given API base URL. token is
// called per request and may return "" when the caller is unauthenticated.
func NewHTTPResolver(baseURL string, token func() string, timeout time.Duration, logger *zap.Logger) *HTTPResolver {
	return &HTTPResolver{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (r *HTTPResolver) Resolve(ctx context.Context, barcode, userID string) (*models.ScanResult, error) {
	body, err := json.Marshal(lookupRequest{Barcode: barcode, SubmittedBy: userID})
	if err != nil {
		return nil, fmt.Errorf("failed to encode lookup request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/api/v1/scan", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build lookup request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.token != nil {
		if token := r.token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lookup request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrProductNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("lookup failed with status %d", resp.StatusCode)
	}

	var payload lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode lookup response: %w", err)
	}

	result := mapResult(&payload, userID)
	return &result, nil
}

// mapResult applies the boundary defaulting policy: missing fields become
// the documented defaults instead of zero values leaking into the UI.
// Current and suggested price both start at the buy-box price; server-side
// pricing revises the suggestion later.
func mapResult(payload *lookupResponse, userID string) models.ScanResult {
	title := payload.Product.Title
	if title == "" {
		title = "Unknown Item"
	}
	category := payload.Product.Category
	if category == "" {
		category = "Unknown"
	}
	image := ""
	if len(payload.Product.Images) > 0 {
		image = payload.Product.Images[0]
	}
	margin := payload.Recommendation.Margin
	if margin == "" {
		margin = "0%"
	}

	return models.ScanResult{
		Title:          title,
		Category:       category,
		ItemType:       normalizeItemType(payload.Product.ItemType),
		Image:          image,
		CurrentPrice:   payload.Pricing.BuyBoxPrice,
		SuggestedPrice: payload.Pricing.BuyBoxPrice,
		Recommendation: normalizeRecommendation(payload.Recommendation.Decision),
		Profit:         payload.Recommendation.Profit,
		Margin:         margin,
		Author:         payload.Product.Author,
		Publisher:      payload.Product.Publisher,
		Platform:       payload.Product.Platform,
		UserID:         userID,
	}
}

func normalizeItemType(raw string) models.ItemType {
	switch models.ItemType(strings.ToLower(raw)) {
	case models.ItemTypeBooks:
		return models.ItemTypeBooks
	case models.ItemTypeVideoGames:
		return models.ItemTypeVideoGames
	case models.ItemTypeMusic:
		return models.ItemTypeMusic
	case models.ItemTypeVideos:
		return models.ItemTypeVideos
	default:
		return models.ItemTypeOther
	}
}

func normalizeRecommendation(raw string) models.Recommendation {
	switch models.Recommendation(strings.ToLower(raw)) {
	case models.RecommendationKeep:
		return models.RecommendationKeep
	case models.RecommendationWarn:
		return models.RecommendationWarn
	default:
		return models.RecommendationDiscard
	}
}
