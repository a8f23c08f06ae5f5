package interfaces

import (
	domain "activity-registration/internal/domain/enrollment"
	"context"
	"time"

	"github.com/google/uuid"
)

type JobType string

const (
	JobTypeRecordConflict JobType = "record_conflict"
	JobTypeRefreshSeats   JobType = "refresh_seats"
	JobTypeMirrorWaitlist JobType = "mirror_waitlist"
)

// AuditJob appends one conflict record. Audit writes are fire-and-forget:
// a failed job is logged and dropped, never surfaced to the caller.
type AuditJob struct {
	Record    domain.ConflictRecord `json:"record"`
	Timestamp time.Time             `json:"timestamp"`
}

// SeatRefreshJob recomputes the seat-availability snapshot for an activity.
type SeatRefreshJob struct {
	ActivityID uuid.UUID `json:"activity_id"`
	Timestamp  time.Time `json:"timestamp"`
}

type MirrorAction string

const (
	MirrorAdd    MirrorAction = "add"
	MirrorRemove MirrorAction = "remove"
)

// WaitlistMirrorJob keeps the Redis waitlist mirror in step with committed
// database state.
type WaitlistMirrorJob struct {
	Action    MirrorAction         `json:"action"`
	Entry     domain.WaitlistEntry `json:"entry"`
	Timestamp time.Time            `json:"timestamp"`
}

type QueueService interface {
	EnqueueAudit(ctx context.Context, job AuditJob) error
	EnqueueSeatRefresh(ctx context.Context, job SeatRefreshJob) error
	EnqueueWaitlistMirror(ctx context.Context, job WaitlistMirrorJob) error
	SetEnrollmentService(service interface{})
	StartWorkers()
	StopWorkers()
}
