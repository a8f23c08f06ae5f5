package service

import (
	domain "activity-registration/internal/domain/enrollment"
	infrastructure "activity-registration/internal/interfaces/infrastructure"
	"context"

	"github.com/google/uuid"
)

// Registration outcomes. QuotaFull is deliberately not an error: a full
// activity waitlists the student and reports success.
const (
	OutcomeEnrolled   = "enrolled"
	OutcomeWaitlisted = "waitlisted"
)

type RegisterRequest struct {
	StudentID      uuid.UUID `json:"student_id" validate:"required"`
	ActivityID     uuid.UUID `json:"activity_id" validate:"required"`
	Notes          string    `json:"notes" validate:"max=500"`
	IdempotencyKey string    `json:"-"`
}

type RegisterResponse struct {
	Outcome    string             `json:"outcome"`
	Message    string             `json:"message"`
	Enrollment *domain.Enrollment `json:"enrollment,omitempty"`
	Position   *int               `json:"waitlist_position,omitempty"`
}

type CancelRequest struct {
	StudentID uuid.UUID `json:"student_id" validate:"required"`
	Reason    string    `json:"reason" validate:"max=500"`
}

type CancelResponse struct {
	Cancelled bool       `json:"cancelled"`
	Promoted  *uuid.UUID `json:"promoted_student_id,omitempty"`
}

type UpdateStatusRequest struct {
	Status string  `json:"status" validate:"required"`
	Remark *string `json:"remark,omitempty" validate:"omitempty,max=500"`
}

type UpdateStatusResponse struct {
	Updated  bool       `json:"updated"`
	Promoted *uuid.UUID `json:"promoted_student_id,omitempty"`
}

type EnrollmentService interface {
	Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error)
	Cancel(ctx context.Context, enrollmentID uuid.UUID, req *CancelRequest) (*CancelResponse, error)
	UpdateStatus(ctx context.Context, enrollmentID uuid.UUID, req *UpdateStatusRequest) (*UpdateStatusResponse, error)
	LeaveWaitlist(ctx context.Context, studentID, activityID uuid.UUID) error

	GetStudentEnrollments(ctx context.Context, studentID uuid.UUID) ([]*domain.Enrollment, error)
	GetStudentWaitlist(ctx context.Context, studentID uuid.UUID) ([]*domain.WaitlistEntry, error)
	GetActivityRoster(ctx context.Context, activityID uuid.UUID, includeTerminal bool) ([]*domain.Enrollment, error)
	GetActivityWaitlist(ctx context.Context, activityID uuid.UUID) ([]*domain.WaitlistEntry, error)
	GetOpenActivities(ctx context.Context) ([]*domain.Activity, error)
	GetActivity(ctx context.Context, activityID uuid.UUID) (*domain.Activity, error)
	GetWaitlistStanding(ctx context.Context, studentID, activityID uuid.UUID) (*WaitlistStanding, error)
	GetRecentConflicts(ctx context.Context, limit int) ([]*domain.ConflictRecord, error)

	// Called by queue workers.
	ProcessAuditJob(ctx context.Context, job infrastructure.AuditJob) error
	ProcessSeatRefreshJob(ctx context.Context, job infrastructure.SeatRefreshJob) error
	ProcessWaitlistMirrorJob(ctx context.Context, job infrastructure.WaitlistMirrorJob) error
}

// WaitlistStanding is a student's live place in one activity's waitlist.
type WaitlistStanding struct {
	ActivityID uuid.UUID `json:"activity_id"`
	Position   int       `json:"position"`
	Size       int       `json:"size"`
}

type StudentService interface {
	CreateStudent(ctx context.Context, req *CreateStudentRequest) (*domain.Student, error)
	GetStudent(ctx context.Context, id uuid.UUID) (*domain.Student, error)
}

type CreateStudentRequest struct {
	StudentNumber string `json:"student_number" validate:"required,max=32"`
	FullName      string `json:"full_name" validate:"required,max=128"`
	GradeLevel    int    `json:"grade_level" validate:"required,gte=1,lte=12"`
}
