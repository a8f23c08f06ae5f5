package repository

import (
	"context"

	domain "activity-registration/internal/domain/enrollment"
	"activity-registration/internal/infrastructure/database"
	interfaces "activity-registration/internal/interfaces/infrastructure"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var seatHoldingStatuses = []domain.EnrollmentStatus{domain.StatusActive, domain.StatusApproved}

type EnrollmentRepository struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) interfaces.EnrollmentRepository {
	return &EnrollmentRepository{
		db: db,
	}
}

func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *domain.Enrollment) error {
	return database.DBFromContext(ctx, r.db).Create(enrollment).Error
}

func (r *EnrollmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Enrollment, error) {
	var enrollment domain.Enrollment
	err := database.DBFromContext(ctx, r.db).
		Preload("Student").
		Preload("Activity").
		First(&enrollment, "enrollment_id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &enrollment, nil
}

func (r *EnrollmentRepository) Update(ctx context.Context, enrollment *domain.Enrollment) error {
	return database.DBFromContext(ctx, r.db).Save(enrollment).Error
}

func (r *EnrollmentRepository) CountSeatsHeld(ctx context.Context, activityID uuid.UUID) (int64, error) {
	var count int64
	err := database.DBFromContext(ctx, r.db).Model(&domain.Enrollment{}).
		Where("activity_id = ? AND status IN ?", activityID, seatHoldingStatuses).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *EnrollmentRepository) GetSeatHolder(ctx context.Context, studentID, activityID uuid.UUID) (*domain.Enrollment, error) {
	var enrollment domain.Enrollment
	err := database.DBFromContext(ctx, r.db).
		Where("student_id = ? AND activity_id = ? AND status IN ?", studentID, activityID, seatHoldingStatuses).
		First(&enrollment).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &enrollment, nil
}

func (r *EnrollmentRepository) GetByStudentID(ctx context.Context, studentID uuid.UUID) ([]*domain.Enrollment, error) {
	var enrollments []*domain.Enrollment
	err := database.DBFromContext(ctx, r.db).
		Preload("Activity").
		Preload("Activity.Schedules").
		Where("student_id = ?", studentID).
		Order("enrolled_at DESC").
		Find(&enrollments).Error
	if err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (r *EnrollmentRepository) GetSeatHoldersByStudent(ctx context.Context, studentID uuid.UUID) ([]*domain.Enrollment, error) {
	var enrollments []*domain.Enrollment
	err := database.DBFromContext(ctx, r.db).
		Preload("Activity").
		Preload("Activity.Schedules").
		Where("student_id = ? AND status IN ?", studentID, seatHoldingStatuses).
		Find(&enrollments).Error
	if err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (r *EnrollmentRepository) GetByActivityID(ctx context.Context, activityID uuid.UUID, includeTerminal bool) ([]*domain.Enrollment, error) {
	query := database.DBFromContext(ctx, r.db).
		Preload("Student").
		Where("activity_id = ?", activityID)
	if !includeTerminal {
		query = query.Where("status IN ?", seatHoldingStatuses)
	}

	var enrollments []*domain.Enrollment
	err := query.Order("enrolled_at ASC").Find(&enrollments).Error
	if err != nil {
		return nil, err
	}
	return enrollments, nil
}
