package repository

import (
	"context"

	domain "activity-registration/internal/domain/enrollment"
	"activity-registration/internal/infrastructure/database"
	interfaces "activity-registration/internal/interfaces/infrastructure"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WaitlistRepository struct {
	db *gorm.DB
}

func NewWaitlistRepository(db *gorm.DB) interfaces.WaitlistRepository {
	return &WaitlistRepository{
		db: db,
	}
}

func (r *WaitlistRepository) Create(ctx context.Context, entry *domain.WaitlistEntry) error {
	return database.DBFromContext(ctx, r.db).Create(entry).Error
}

func (r *WaitlistRepository) Update(ctx context.Context, entry *domain.WaitlistEntry) error {
	return database.DBFromContext(ctx, r.db).Save(entry).Error
}

func (r *WaitlistRepository) GetWaiting(ctx context.Context, studentID, activityID uuid.UUID) (*domain.WaitlistEntry, error) {
	var entry domain.WaitlistEntry
	err := database.DBFromContext(ctx, r.db).
		Where("student_id = ? AND activity_id = ? AND status = ?", studentID, activityID, domain.WaitlistWaiting).
		First(&entry).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

// GetNextWaiting returns the promotion candidate. Higher priority wins;
// within a priority the earliest position wins.
func (r *WaitlistRepository) GetNextWaiting(ctx context.Context, activityID uuid.UUID) (*domain.WaitlistEntry, error) {
	var entry domain.WaitlistEntry
	err := database.DBFromContext(ctx, r.db).
		Where("activity_id = ? AND status = ?", activityID, domain.WaitlistWaiting).
		Order("priority DESC").
		Order("position ASC").
		First(&entry).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

// NextPosition computes max(position)+1 among waiting entries. Positions of
// promoted or cancelled entries stay burned, only relative order matters.
func (r *WaitlistRepository) NextPosition(ctx context.Context, activityID uuid.UUID) (int, error) {
	var max *int
	err := database.DBFromContext(ctx, r.db).Model(&domain.WaitlistEntry{}).
		Select("MAX(position)").
		Where("activity_id = ? AND status = ?", activityID, domain.WaitlistWaiting).
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 1, nil
	}
	return *max + 1, nil
}

func (r *WaitlistRepository) GetByActivityID(ctx context.Context, activityID uuid.UUID) ([]*domain.WaitlistEntry, error) {
	var entries []*domain.WaitlistEntry
	err := database.DBFromContext(ctx, r.db).
		Preload("Student").
		Where("activity_id = ? AND status = ?", activityID, domain.WaitlistWaiting).
		Order("priority DESC").
		Order("position ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *WaitlistRepository) GetWaitingByStudentID(ctx context.Context, studentID uuid.UUID) ([]*domain.WaitlistEntry, error) {
	var entries []*domain.WaitlistEntry
	err := database.DBFromContext(ctx, r.db).
		Preload("Activity").
		Where("student_id = ? AND status = ?", studentID, domain.WaitlistWaiting).
		Order("added_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
