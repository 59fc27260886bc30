package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"resellscan/pkg/config"

	"go.uber.org/zap"
)

// MarketplaceService fetches live buy-box prices from the external
// marketplace pricing API. When no base URL is configured the service is
// disabled and callers fall back to the catalog price.
type MarketplaceService struct {
	config *config.MarketplaceConfig
	client *http.Client
	logger *zap.Logger
}

func NewMarketplaceService(cfg *config.MarketplaceConfig, logger *zap.Logger) *MarketplaceService {
	return &MarketplaceService{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

func (s *MarketplaceService) Enabled() bool {
	return s.config.BaseURL != ""
}

// BuyBoxPrice returns the current buy-box price for a barcode. Errors
// (including the client timeout) are for the caller to absorb; live
// pricing is an enrichment, never a hard dependency.
func (s *MarketplaceService) BuyBoxPrice(ctx context.Context, barcode string) (float64, error) {
	if !s.Enabled() {
		return 0, fmt.Errorf("marketplace pricing is not configured")
	}

	endpoint := strings.TrimRight(s.config.BaseURL, "/") + "/v1/offers/" + url.PathEscape(barcode) + "/buybox"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build pricing request: %w", err)
	}
	if s.config.APIKey != "" {
		req.Header.Set("X-Api-Key", s.config.APIKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("pricing request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("pricing API returned status %d", resp.StatusCode)
	}

	var payload struct {
		BuyBoxPrice float64 `json:"buyBoxPrice"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("failed to decode pricing response: %w", err)
	}

	if payload.BuyBoxPrice < 0 {
		return 0, fmt.Errorf("pricing API returned a negative price")
	}
	return payload.BuyBoxPrice, nil
}
