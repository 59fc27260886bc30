package repository

import (
	"context"
	"errors"

	"resellscan/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type InventoryRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewInventoryRepository(db *pgxpool.Pool, logger *zap.Logger) *InventoryRepository {
	return &InventoryRepository{
		db:     db,
		logger: logger,
	}
}

func (r *InventoryRepository) Create(ctx context.Context, item *models.InventoryItem) error {
	query := squirrel.Insert("inventory_items").
		Columns("id", "user_id", "title", "barcode", "item_type", "status", "price", "created_at", "updated_at").
		Values(item.ID, item.UserID, item.Title, item.Barcode, item.ItemType, item.Status, item.Price, item.CreatedAt, item.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *InventoryRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.InventoryItem, error) {
	query := squirrel.Select("id", "user_id", "title", "barcode", "item_type", "status", "price", "created_at", "updated_at").
		From("inventory_items").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.InventoryItem
	for rows.Next() {
		var item models.InventoryItem
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.Title, &item.Barcode, &item.ItemType, &item.Status, &item.Price,
			&item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, &item)
	}

	return items, nil
}

func (r *InventoryRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.InventoryItem, error) {
	query := squirrel.Select("id", "user_id", "title", "barcode", "item_type", "status", "price", "created_at", "updated_at").
		From("inventory_items").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var item models.InventoryItem
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&item.ID, &item.UserID, &item.Title, &item.Barcode, &item.ItemType, &item.Status, &item.Price,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &item, nil
}

func (r *InventoryRepository) Update(ctx context.Context, item *models.InventoryItem) error {
	query := squirrel.Update("inventory_items").
		Set("title", item.Title).
		Set("status", item.Status).
		Set("price", item.Price).
		Set("updated_at", item.UpdatedAt).
		Where(squirrel.Eq{"id": item.ID, "user_id": item.UserID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *InventoryRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	query := squirrel.Delete("inventory_items").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
