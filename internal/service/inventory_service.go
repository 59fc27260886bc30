package service

import (
	"context"
	"errors"
	"time"

	"resellscan/internal/dto"
	"resellscan/internal/models"
	"resellscan/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrInventoryItemNotFound = errors.New("inventory item not found")

type InventoryService struct {
	inventoryRepo *repository.InventoryRepository
	logger        *zap.Logger
}

func NewInventoryService(inventoryRepo *repository.InventoryRepository, logger *zap.Logger) *InventoryService {
	return &InventoryService{
		inventoryRepo: inventoryRepo,
		logger:        logger,
	}
}

func (s *InventoryService) Create(ctx context.Context, userID uuid.UUID, req *dto.CreateInventoryRequest) (*dto.InventoryItemResponse, error) {
	itemType := req.ItemType
	if itemType == "" {
		itemType = string(models.ItemTypeOther)
	}

	now := time.Now()
	item := &models.InventoryItem{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     req.Title,
		Barcode:   req.Barcode,
		ItemType:  itemType,
		Status:    models.InventoryStatusPending,
		Price:     req.Price,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.inventoryRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	return toInventoryResponse(item), nil
}

func (s *InventoryService) List(ctx context.Context, userID uuid.UUID) ([]*dto.InventoryItemResponse, error) {
	items, err := s.inventoryRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.InventoryItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toInventoryResponse(item))
	}
	return out, nil
}

// Update applies a partial update; only the fields present in the request
// change.
func (s *InventoryService) Update(ctx context.Context, userID, id uuid.UUID, req *dto.UpdateInventoryRequest) (*dto.InventoryItemResponse, error) {
	item, err := s.inventoryRepo.GetByID(ctx, id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInventoryItemNotFound
	}
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		item.Title = *req.Title
	}
	if req.Status != nil {
		item.Status = models.InventoryStatus(*req.Status)
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	item.UpdatedAt = time.Now()

	if err := s.inventoryRepo.Update(ctx, item); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInventoryItemNotFound
		}
		return nil, err
	}

	return toInventoryResponse(item), nil
}

func (s *InventoryService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	err := s.inventoryRepo.Delete(ctx, id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrInventoryItemNotFound
	}
	return err
}

func toInventoryResponse(item *models.InventoryItem) *dto.InventoryItemResponse {
	return &dto.InventoryItemResponse{
		ID:        item.ID.String(),
		Title:     item.Title,
		Barcode:   item.Barcode,
		ItemType:  item.ItemType,
		Status:    string(item.Status),
		Price:     item.Price,
		CreatedAt: item.CreatedAt.Format(time.RFC3339),
		UpdatedAt: item.UpdatedAt.Format(time.RFC3339),
	}
}
