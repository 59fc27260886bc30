package repository

import (
	"context"

	"resellscan/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type ScanRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewScanRepository(db *pgxpool.Pool, logger *zap.Logger) *ScanRepository {
	return &ScanRepository{
		db:     db,
		logger: logger,
	}
}

func (r *ScanRepository) Create(ctx context.Context, scan *models.ScanRecord) error {
	query := squirrel.Insert("scans").
		Columns("id", "barcode", "title", "item_type", "decision", "profit", "submitted_by", "created_at").
		Values(scan.ID, scan.Barcode, scan.Title, scan.ItemType, scan.Decision, scan.Profit, scan.SubmittedBy, scan.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *ScanRepository) ListBySubmitter(ctx context.Context, submittedBy string, limit int) ([]*models.ScanRecord, error) {
	query := squirrel.Select("id", "barcode", "title", "item_type", "decision", "profit", "submitted_by", "created_at").
		From("scans").
		Where(squirrel.Eq{"submitted_by": submittedBy}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
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

	var scans []*models.ScanRecord
	for rows.Next() {
		var scan models.ScanRecord
		if err := rows.Scan(
			&scan.ID, &scan.Barcode, &scan.Title, &scan.ItemType, &scan.Decision, &scan.Profit, &scan.SubmittedBy, &scan.CreatedAt,
		); err != nil {
			return nil, err
		}
		scans = append(scans, &scan)
	}

	return scans, nil
}
