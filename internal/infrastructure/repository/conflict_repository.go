package repository

import (
	"context"

	domain "activity-registration/internal/domain/enrollment"
	"activity-registration/internal/infrastructure/database"
	interfaces "activity-registration/internal/interfaces/infrastructure"

	"gorm.io/gorm"
)

// ConflictRepository persists the append-only audit trail of rejected
// attempts. Nothing in the registration path ever reads these rows back.
type ConflictRepository struct {
	db *gorm.DB
}

func NewConflictRepository(db *gorm.DB) interfaces.ConflictRepository {
	return &ConflictRepository{
		db: db,
	}
}

func (r *ConflictRepository) Create(ctx context.Context, record *domain.ConflictRecord) error {
	return database.DBFromContext(ctx, r.db).Create(record).Error
}

func (r *ConflictRepository) ListRecent(ctx context.Context, limit int) ([]*domain.ConflictRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	var records []*domain.ConflictRecord
	err := database.DBFromContext(ctx, r.db).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
