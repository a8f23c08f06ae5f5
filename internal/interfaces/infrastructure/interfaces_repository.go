package interfaces

import (
	domain "activity-registration/internal/domain/enrollment"
	"context"

	"github.com/google/uuid"
)

// TransactionManager runs fn inside one database transaction. Repository
// calls made with the ctx passed to fn join that transaction, so the capacity
// read, the enrollment insert and any waitlist promotion commit or roll back
// together.
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type StudentRepository interface {
	Create(ctx context.Context, student *domain.Student) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Student, error)
	GetByStudentNumber(ctx context.Context, studentNumber string) (*domain.Student, error)
}

type ActivityRepository interface {
	Create(ctx context.Context, activity *domain.Activity) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Activity, error)
	// GetByIDForUpdate locks the activity row (SELECT ... FOR UPDATE) so that
	// concurrent registrations for the same activity serialize on it. Must be
	// called inside a TransactionManager transaction.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Activity, error)
	GetActive(ctx context.Context) ([]*domain.Activity, error)
	// GetActiveByVenue returns active activities sharing a venue, schedules
	// preloaded, excluding one activity. Used by the advisory venue check.
	GetActiveByVenue(ctx context.Context, venue string, exclude uuid.UUID) ([]*domain.Activity, error)
}

type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *domain.Enrollment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Enrollment, error)
	Update(ctx context.Context, enrollment *domain.Enrollment) error
	// CountSeatsHeld counts enrollments in seat-holding statuses
	// (active, approved) for the activity. The capacity gate reads this
	// inside the same transaction that inserts.
	CountSeatsHeld(ctx context.Context, activityID uuid.UUID) (int64, error)
	// GetSeatHolder returns the student's active/approved enrollment for the
	// activity, or nil.
	GetSeatHolder(ctx context.Context, studentID, activityID uuid.UUID) (*domain.Enrollment, error)
	GetByStudentID(ctx context.Context, studentID uuid.UUID) ([]*domain.Enrollment, error)
	// GetSeatHoldersByStudent returns the student's active/approved
	// enrollments with activities and schedules preloaded, for conflict
	// checking.
	GetSeatHoldersByStudent(ctx context.Context, studentID uuid.UUID) ([]*domain.Enrollment, error)
	GetByActivityID(ctx context.Context, activityID uuid.UUID, includeTerminal bool) ([]*domain.Enrollment, error)
}

type WaitlistRepository interface {
	Create(ctx context.Context, entry *domain.WaitlistEntry) error
	Update(ctx context.Context, entry *domain.WaitlistEntry) error
	// GetWaiting returns the student's waiting entry for the activity, or nil.
	GetWaiting(ctx context.Context, studentID, activityID uuid.UUID) (*domain.WaitlistEntry, error)
	// GetNextWaiting returns the promotion candidate: highest priority first,
	// ties broken by lowest position. Nil when nobody is waiting.
	GetNextWaiting(ctx context.Context, activityID uuid.UUID) (*domain.WaitlistEntry, error)
	// NextPosition returns max(position)+1 among waiting entries.
	NextPosition(ctx context.Context, activityID uuid.UUID) (int, error)
	GetByActivityID(ctx context.Context, activityID uuid.UUID) ([]*domain.WaitlistEntry, error)
	GetWaitingByStudentID(ctx context.Context, studentID uuid.UUID) ([]*domain.WaitlistEntry, error)
}

type ConflictRepository interface {
	Create(ctx context.Context, record *domain.ConflictRecord) error
	ListRecent(ctx context.Context, limit int) ([]*domain.ConflictRecord, error)
}

type IdempotencyRepository interface {
	Create(ctx context.Context, key *domain.IdempotencyKey) error
	GetByKey(ctx context.Context, key string) (*domain.IdempotencyKey, error)
	Delete(ctx context.Context, key string) error
}
