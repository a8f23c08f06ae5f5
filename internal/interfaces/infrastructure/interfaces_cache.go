package interfaces

import (
	domain "activity-registration/internal/domain/enrollment"
	"context"
	"time"

	"github.com/google/uuid"
)

// CacheService is the read-side cache. It is never consulted for enrollment
// correctness decisions; the database transaction owns those. A miss is
// returned as an error, cache-aside style.
type CacheService interface {
	// Seat availability snapshot, refreshed after commits, display only.
	GetSeatSnapshot(ctx context.Context, activityID uuid.UUID) (int, error)
	SetSeatSnapshot(ctx context.Context, activityID uuid.UUID, seats int, ttl time.Duration) error

	GetStudentEnrollments(ctx context.Context, studentID uuid.UUID) ([]*domain.Enrollment, error)
	SetStudentEnrollments(ctx context.Context, studentID uuid.UUID, enrollments []*domain.Enrollment, ttl time.Duration) error

	GetActivityDetails(ctx context.Context, activityID uuid.UUID) (*domain.Activity, error)
	SetActivityDetails(ctx context.Context, activityID uuid.UUID, activity *domain.Activity, ttl time.Duration) error

	// Waitlist mirror: Redis sorted set ordered like the promotion query
	// (priority desc, position asc). Authoritative rows live in the database.
	MirrorWaitlistAdd(ctx context.Context, entry *domain.WaitlistEntry) error
	MirrorWaitlistRemove(ctx context.Context, activityID, studentID uuid.UUID) error
	WaitlistPosition(ctx context.Context, activityID, studentID uuid.UUID) (int, error)
	WaitlistSize(ctx context.Context, activityID uuid.UUID) (int, error)

	InvalidateStudentEnrollments(ctx context.Context, studentID uuid.UUID) error

	Health(ctx context.Context) error
	Close() error
}
