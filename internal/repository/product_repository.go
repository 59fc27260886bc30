package repository

import (
	"context"
	"errors"

	"resellscan/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// ErrNotFound is returned when a queried row does not exist.
var ErrNotFound = errors.New("not found")

type ProductRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewProductRepository(db *pgxpool.Pool, logger *zap.Logger) *ProductRepository {
	return &ProductRepository{
		db:     db,
		logger: logger,
	}
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	query := squirrel.Insert("products").
		Columns("id", "barcode", "title", "category", "item_type", "image_url",
			"author", "publisher", "platform", "cost", "buy_box_price", "created_at", "updated_at").
		Values(product.ID, product.Barcode, product.Title, product.Category, product.ItemType, product.ImageURL,
			product.Author, product.Publisher, product.Platform, product.Cost, product.BuyBoxPrice, product.CreatedAt, product.UpdatedAt).
		Suffix("ON CONFLICT (barcode) DO UPDATE SET " +
			"title = EXCLUDED.title, category = EXCLUDED.category, item_type = EXCLUDED.item_type, " +
			"image_url = EXCLUDED.image_url, author = EXCLUDED.author, publisher = EXCLUDED.publisher, " +
			"platform = EXCLUDED.platform, cost = EXCLUDED.cost, buy_box_price = EXCLUDED.buy_box_price, " +
			"updated_at = EXCLUDED.updated_at").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *ProductRepository) GetByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	query := squirrel.Select("id", "barcode", "title", "category", "item_type", "image_url",
		"author", "publisher", "platform", "cost", "buy_box_price", "created_at", "updated_at").
		From("products").
		Where(squirrel.Eq{"barcode": barcode}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var product models.Product
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&product.ID, &product.Barcode, &product.Title, &product.Category, &product.ItemType, &product.ImageURL,
		&product.Author, &product.Publisher, &product.Platform, &product.Cost, &product.BuyBoxPrice,
		&product.CreatedAt, &product.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &product, nil
}
