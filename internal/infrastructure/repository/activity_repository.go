package repository

import (
	"context"

	domain "activity-registration/internal/domain/enrollment"
	"activity-registration/internal/infrastructure/database"
	interfaces "activity-registration/internal/interfaces/infrastructure"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) interfaces.ActivityRepository {
	return &ActivityRepository{
		db: db,
	}
}

func (r *ActivityRepository) Create(ctx context.Context, activity *domain.Activity) error {
	return database.DBFromContext(ctx, r.db).Create(activity).Error
}

func (r *ActivityRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Activity, error) {
	var activity domain.Activity
	err := database.DBFromContext(ctx, r.db).
		Preload("Schedules").
		First(&activity, "activity_id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &activity, nil
}

// GetByIDForUpdate locks the activity row for the duration of the enclosing
// transaction. Concurrent registrations for the same activity queue up here,
// which keeps the capacity read and the enrollment insert atomic.
func (r *ActivityRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Activity, error) {
	var activity domain.Activity
	err := database.DBFromContext(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&activity, "activity_id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	// Schedules are loaded separately: FOR UPDATE cannot be combined with the
	// preload join, and the schedule rows themselves need no lock.
	err = database.DBFromContext(ctx, r.db).
		Where("activity_id = ?", id).
		Find(&activity.Schedules).Error
	if err != nil {
		return nil, err
	}
	return &activity, nil
}

func (r *ActivityRepository) GetActive(ctx context.Context) ([]*domain.Activity, error) {
	var activities []*domain.Activity
	err := database.DBFromContext(ctx, r.db).
		Preload("Schedules").
		Where("status = ?", domain.ActivityActive).
		Order("name ASC").
		Find(&activities).Error
	if err != nil {
		return nil, err
	}
	return activities, nil
}

func (r *ActivityRepository) GetActiveByVenue(ctx context.Context, venue string, exclude uuid.UUID) ([]*domain.Activity, error) {
	var activities []*domain.Activity
	err := database.DBFromContext(ctx, r.db).
		Preload("Schedules").
		Where("venue = ? AND status = ? AND activity_id <> ?", venue, domain.ActivityActive, exclude).
		Find(&activities).Error
	if err != nil {
		return nil, err
	}
	return activities, nil
}
