package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"resellscan/internal/dto"
	"resellscan/internal/models"
	"resellscan/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrEmptyBarcode    = errors.New("barcode is required")
)

// ScanService is the server side of the barcode pipeline: catalog lookup,
// pricing, resale decision, and the durable scan record.
type ScanService struct {
	productRepo *repository.ProductRepository
	scanRepo    *repository.ScanRepository
	marketplace *MarketplaceService
	logger      *zap.Logger
}

func NewScanService(
	productRepo *repository.ProductRepository,
	scanRepo *repository.ScanRepository,
	marketplace *MarketplaceService,
	logger *zap.Logger,
) *ScanService {
	return &ScanService{
		productRepo: productRepo,
		scanRepo:    scanRepo,
		marketplace: marketplace,
		logger:      logger,
	}
}

// Lookup resolves a barcode into the scan response. An unknown barcode is
// ErrProductNotFound, which the handler maps to 404. Clients treat that
// status as "no product" rather than a lookup error.
func (s *ScanService) Lookup(ctx context.Context, req *dto.ScanRequest) (*dto.ScanResponse, error) {
	barcode := strings.TrimSpace(req.Barcode)
	if barcode == "" {
		return nil, ErrEmptyBarcode
	}

	product, err := s.productRepo.GetByBarcode(ctx, barcode)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	buyBoxPrice := s.resolveBuyBoxPrice(ctx, product)
	decision, profit, margin := Decide(product.Cost, buyBoxPrice)

	s.recordScan(ctx, barcode, product, decision, profit, req.SubmittedBy)

	resp := &dto.ScanResponse{
		Product: dto.ScanProductResponse{
			Title:     product.Title,
			Category:  product.Category,
			ItemType:  product.ItemType,
			Images:    []string{},
			Author:    product.Author,
			Publisher: product.Publisher,
			Platform:  product.Platform,
		},
		Pricing: dto.ScanPricingResponse{BuyBoxPrice: buyBoxPrice},
		Recommendation: dto.ScanRecommendationResponse{
			Decision: string(decision),
			Profit:   profit,
			Margin:   margin,
		},
	}
	if product.ImageURL != "" {
		resp.Product.Images = []string{product.ImageURL}
	}
	return resp, nil
}

// resolveBuyBoxPrice prefers live marketplace pricing and falls back to
// the catalog price on any failure.
func (s *ScanService) resolveBuyBoxPrice(ctx context.Context, product *models.Product) float64 {
	if !s.marketplace.Enabled() {
		return product.BuyBoxPrice
	}

	price, err := s.marketplace.BuyBoxPrice(ctx, product.Barcode)
	if err != nil {
		s.logger.Warn("live pricing unavailable, using catalog price",
			zap.String("barcode", product.Barcode),
			zap.Error(err),
		)
		return product.BuyBoxPrice
	}
	return price
}

// recordScan persists the audit row. Best effort: a failed insert is
// logged and the lookup still succeeds.
func (s *ScanService) recordScan(
	ctx context.Context,
	barcode string,
	product *models.Product,
	decision models.Recommendation,
	profit float64,
	submittedBy string,
) {
	record := &models.ScanRecord{
		ID:          uuid.New(),
		Barcode:     barcode,
		Title:       sanitizeUTF8(product.Title),
		ItemType:    product.ItemType,
		Decision:    string(decision),
		Profit:      profit,
		SubmittedBy: submittedBy,
		CreatedAt:   time.Now(),
	}
	if err := s.scanRepo.Create(ctx, record); err != nil {
		s.logger.Warn("failed to record scan",
			zap.String("barcode", barcode),
			zap.Error(err),
		)
	}
}

// RecentScans returns the caller's latest durable scan records.
func (s *ScanService) RecentScans(ctx context.Context, submittedBy string, limit int) ([]*dto.ScanRecordResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	records, err := s.scanRepo.ListBySubmitter(ctx, submittedBy, limit)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.ScanRecordResponse, 0, len(records))
	for _, record := range records {
		out = append(out, &dto.ScanRecordResponse{
			ID:          record.ID.String(),
			Barcode:     record.Barcode,
			Title:       record.Title,
			ItemType:    record.ItemType,
			Decision:    record.Decision,
			Profit:      record.Profit,
			SubmittedBy: record.SubmittedBy,
			CreatedAt:   record.CreatedAt.Format(time.RFC3339),
		})
	}
	return out, nil
}
