package service

import (
	domain "activity-registration/internal/domain/enrollment"
	interfaces "activity-registration/internal/interfaces/infrastructure"
	serviceInterfaces "activity-registration/internal/interfaces/service"
	"activity-registration/pkg/logger"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	StudentEnrollmentsTTL = 20 * time.Minute
	ActivityDetailsTTL    = 45 * time.Minute
	SeatSnapshotTTL       = 24 * time.Hour
)

var _ serviceInterfaces.EnrollmentService = (*EnrollmentService)(nil)

type RegisterRequest = serviceInterfaces.RegisterRequest
type RegisterResponse = serviceInterfaces.RegisterResponse
type CancelRequest = serviceInterfaces.CancelRequest
type CancelResponse = serviceInterfaces.CancelResponse
type UpdateStatusRequest = serviceInterfaces.UpdateStatusRequest
type UpdateStatusResponse = serviceInterfaces.UpdateStatusResponse

// EnrollmentService implements the enrollment core: the registration
// pipeline (capacity gate, conflict checker), the cancellation path and the
// waitlist manager. Every mutating operation runs inside one database
// transaction with the activity row locked, so the capacity read and the
// writes that depend on it are atomic.
type EnrollmentService struct {
	txManager       interfaces.TransactionManager
	studentRepo     interfaces.StudentRepository
	activityRepo    interfaces.ActivityRepository
	enrollmentRepo  interfaces.EnrollmentRepository
	waitlistRepo    interfaces.WaitlistRepository
	conflictRepo    interfaces.ConflictRepository
	cacheService    interfaces.CacheService
	queueService    interfaces.QueueService
	idempotencyRepo interfaces.IdempotencyRepository
	mirrorEnabled   bool
}

func NewEnrollmentService(
	txManager interfaces.TransactionManager,
	studentRepo interfaces.StudentRepository,
	activityRepo interfaces.ActivityRepository,
	enrollmentRepo interfaces.EnrollmentRepository,
	waitlistRepo interfaces.WaitlistRepository,
	conflictRepo interfaces.ConflictRepository,
	cacheService interfaces.CacheService,
	queueService interfaces.QueueService,
	idempotencyRepo interfaces.IdempotencyRepository,
	mirrorEnabled bool,
) *EnrollmentService {
	return &EnrollmentService{
		txManager:       txManager,
		studentRepo:     studentRepo,
		activityRepo:    activityRepo,
		enrollmentRepo:  enrollmentRepo,
		waitlistRepo:    waitlistRepo,
		conflictRepo:    conflictRepo,
		cacheService:    cacheService,
		queueService:    queueService,
		idempotencyRepo: idempotencyRepo,
		mirrorEnabled:   mirrorEnabled,
	}
}

// Register runs the registration pipeline for one (student, activity) pair.
// A full activity waitlists the student instead of failing; a schedule
// conflict rejects outright, since waiting does not resolve an overlap.
func (s *EnrollmentService) Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error) {
	logger.Info("Processing registration for student %s in activity %s", req.StudentID, req.ActivityID)

	if cached, ok := s.replayIdempotent(ctx, req); ok {
		return cached, nil
	}

	student, err := s.studentRepo.GetByID(ctx, req.StudentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load student: %w", err)
	}
	if student == nil {
		return nil, fmt.Errorf("%w: student %s", domain.ErrNotFound, req.StudentID)
	}
	if student.Status != "active" {
		return nil, fmt.Errorf("%w: student %s", domain.ErrStudentInactive, student.StudentNumber)
	}

	var (
		response      *RegisterResponse
		newEntry      *domain.WaitlistEntry
		newEnrollment *domain.Enrollment
	)

	err = s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		activity, err := s.activityRepo.GetByIDForUpdate(ctx, req.ActivityID)
		if err != nil {
			return fmt.Errorf("failed to lock activity: %w", err)
		}
		if activity == nil {
			return fmt.Errorf("%w: activity %s", domain.ErrNotFound, req.ActivityID)
		}
		if !activity.RegistrationOpen(time.Now()) {
			return fmt.Errorf("%w: %s", domain.ErrActivityInactive, activity.Name)
		}

		if !activity.AllowsGrade(student.GradeLevel) {
			s.recordConflict(ctx, domain.ConflictRecord{
				StudentID:    student.StudentID,
				ActivityID:   activity.ActivityID,
				ConflictType: domain.ConflictGradeRestriction,
				Detail:       fmt.Sprintf("grade %d outside activity bounds", student.GradeLevel),
			})
			return fmt.Errorf("%w: grade %d", domain.ErrGradeRestriction, student.GradeLevel)
		}

		existing, err := s.enrollmentRepo.GetSeatHolder(ctx, student.StudentID, activity.ActivityID)
		if err != nil {
			return fmt.Errorf("failed to check existing enrollment: %w", err)
		}
		if existing != nil {
			return fmt.Errorf("%w: status %s", domain.ErrAlreadyEnrolled, existing.Status)
		}

		conflict, err := s.findScheduleConflict(ctx, student.StudentID, activity)
		if err != nil {
			return fmt.Errorf("conflict check failed: %w", err)
		}
		if conflict != nil {
			s.recordConflict(ctx, domain.ConflictRecord{
				StudentID:             student.StudentID,
				ActivityID:            activity.ActivityID,
				ConflictingActivityID: &conflict.ActivityID,
				ConflictingScheduleID: &conflict.Against.ScheduleID,
				ConflictType:          domain.ConflictTimeOverlap,
				Detail:                fmt.Sprintf("%s overlaps %s (%s)", conflict.Schedule.Slot(), conflict.ActivityName, conflict.Against.Slot()),
			})
			return fmt.Errorf("%w: %s overlaps %s", domain.ErrScheduleConflict, conflict.Schedule.Slot(), conflict.ActivityName)
		}

		// Advisory only: a venue double-booking is an administrator data
		// error, never the registering student's problem.
		s.checkVenueOverlap(ctx, student.StudentID, activity)

		// Capacity gate. The activity row is locked, so this count cannot
		// race with a concurrent insert for the same activity.
		held, err := s.enrollmentRepo.CountSeatsHeld(ctx, activity.ActivityID)
		if err != nil {
			return fmt.Errorf("failed to count held seats: %w", err)
		}

		if held >= int64(activity.Quota) {
			entry, err := s.enqueueWaitlist(ctx, student, activity, 0)
			if err != nil {
				return fmt.Errorf("failed to enqueue waitlist entry: %w", err)
			}
			newEntry = entry
			position := entry.Position
			response = &RegisterResponse{
				Outcome:  serviceInterfaces.OutcomeWaitlisted,
				Message:  fmt.Sprintf("%s is full, added to waitlist", activity.Name),
				Position: &position,
			}
			return nil
		}

		enrollment := &domain.Enrollment{
			EnrollmentID: uuid.New(),
			StudentID:    student.StudentID,
			ActivityID:   activity.ActivityID,
			Status:       domain.StatusActive,
			GradeLevel:   student.GradeLevel,
			Notes:        req.Notes,
			EnrolledAt:   time.Now(),
		}
		if err := s.enrollmentRepo.Create(ctx, enrollment); err != nil {
			return fmt.Errorf("failed to create enrollment: %w", err)
		}
		newEnrollment = enrollment
		response = &RegisterResponse{
			Outcome:    serviceInterfaces.OutcomeEnrolled,
			Message:    "Registration completed successfully",
			Enrollment: enrollment,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if newEnrollment != nil {
		logger.Info("Student %s enrolled in activity %s", student.StudentID, req.ActivityID)
	}
	if newEntry != nil {
		logger.Info("Student %s waitlisted for activity %s at position %d", student.StudentID, req.ActivityID, newEntry.Position)
		s.enqueueMirror(ctx, interfaces.MirrorAdd, newEntry)
	}
	s.refreshAfterCommit(ctx, req.ActivityID, student.StudentID)
	s.storeIdempotent(ctx, req, response)

	return response, nil
}

// Cancel withdraws an enrollment and promotes at most one waitlisted student
// for the vacated seat, both inside a single transaction: either the
// withdrawal and the promotion commit together or neither does.
func (s *EnrollmentService) Cancel(ctx context.Context, enrollmentID uuid.UUID, req *CancelRequest) (*CancelResponse, error) {
	logger.Info("Processing cancellation of enrollment %s", enrollmentID)

	var (
		cancelled *domain.Enrollment
		promotion promotionResult
	)

	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		enrollment, err := s.enrollmentRepo.GetByID(ctx, enrollmentID)
		if err != nil {
			return fmt.Errorf("failed to load enrollment: %w", err)
		}
		if enrollment == nil {
			return fmt.Errorf("%w: enrollment %s", domain.ErrNotFound, enrollmentID)
		}
		// Students may only cancel their own enrollments; admins pass the
		// owning student's id explicitly.
		if req.StudentID != uuid.Nil && enrollment.StudentID != req.StudentID {
			return fmt.Errorf("%w: enrollment %s", domain.ErrNotFound, enrollmentID)
		}
		if !enrollment.Status.CanTransitionTo(domain.StatusWithdrawn) {
			return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, enrollment.Status, domain.StatusWithdrawn)
		}

		// Lock the activity before touching seats so cancellation serializes
		// with concurrent registrations.
		activity, err := s.activityRepo.GetByIDForUpdate(ctx, enrollment.ActivityID)
		if err != nil {
			return fmt.Errorf("failed to lock activity: %w", err)
		}
		if activity == nil {
			return fmt.Errorf("%w: activity %s", domain.ErrNotFound, enrollment.ActivityID)
		}

		now := time.Now()
		enrollment.Status = domain.StatusWithdrawn
		enrollment.CancelledAt = &now
		if req.Reason != "" {
			reason := req.Reason
			enrollment.CancelReason = &reason
		}
		if err := s.enrollmentRepo.Update(ctx, enrollment); err != nil {
			return fmt.Errorf("failed to update enrollment: %w", err)
		}
		cancelled = enrollment

		promotion, err = s.promoteNext(ctx, activity)
		if err != nil {
			return fmt.Errorf("waitlist promotion failed: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Enrollment %s withdrawn for student %s", enrollmentID, cancelled.StudentID)
	s.finishPromotion(ctx, promotion)
	s.refreshAfterCommit(ctx, cancelled.ActivityID, cancelled.StudentID)

	response := &CancelResponse{Cancelled: true}
	if promotion.Promoted != nil {
		studentID := promotion.Promoted.StudentID
		response.Promoted = &studentID
	}
	return response, nil
}

// UpdateStatus applies a coach or admin status decision. Transitions outside
// the lifecycle table are rejected. Leaving a seat-holding status frees a
// seat, which triggers one promotion attempt in the same transaction.
func (s *EnrollmentService) UpdateStatus(ctx context.Context, enrollmentID uuid.UUID, req *UpdateStatusRequest) (*UpdateStatusResponse, error) {
	newStatus, ok := domain.ParseEnrollmentStatus(req.Status)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, req.Status)
	}

	var (
		updated   *domain.Enrollment
		promotion promotionResult
	)

	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		enrollment, err := s.enrollmentRepo.GetByID(ctx, enrollmentID)
		if err != nil {
			return fmt.Errorf("failed to load enrollment: %w", err)
		}
		if enrollment == nil {
			return fmt.Errorf("%w: enrollment %s", domain.ErrNotFound, enrollmentID)
		}
		if !enrollment.Status.CanTransitionTo(newStatus) {
			return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, enrollment.Status, newStatus)
		}

		freesSeat := enrollment.Status.HoldsSeat() && !newStatus.HoldsSeat()

		enrollment.Status = newStatus
		if req.Remark != nil {
			enrollment.Remark = req.Remark
		}
		if newStatus == domain.StatusWithdrawn {
			now := time.Now()
			enrollment.CancelledAt = &now
		}
		if err := s.enrollmentRepo.Update(ctx, enrollment); err != nil {
			return fmt.Errorf("failed to update enrollment: %w", err)
		}
		updated = enrollment

		if freesSeat {
			activity, err := s.activityRepo.GetByIDForUpdate(ctx, enrollment.ActivityID)
			if err != nil {
				return fmt.Errorf("failed to lock activity: %w", err)
			}
			if activity != nil {
				promotion, err = s.promoteNext(ctx, activity)
				if err != nil {
					return fmt.Errorf("waitlist promotion failed: %w", err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Enrollment %s status set to %s", enrollmentID, newStatus)
	s.finishPromotion(ctx, promotion)
	s.refreshAfterCommit(ctx, updated.ActivityID, updated.StudentID)

	response := &UpdateStatusResponse{Updated: true}
	if promotion.Promoted != nil {
		studentID := promotion.Promoted.StudentID
		response.Promoted = &studentID
	}
	return response, nil
}

// Query operations

func (s *EnrollmentService) GetStudentEnrollments(ctx context.Context, studentID uuid.UUID) ([]*domain.Enrollment, error) {
	cached, err := s.cacheService.GetStudentEnrollments(ctx, studentID)
	if err == nil {
		return cached, nil
	}

	enrollments, err := s.enrollmentRepo.GetByStudentID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get student enrollments: %w", err)
	}

	if err := s.cacheService.SetStudentEnrollments(ctx, studentID, enrollments, StudentEnrollmentsTTL); err != nil {
		logger.Warn("Failed to cache enrollments for student %s: %v", studentID, err)
	}

	return enrollments, nil
}

func (s *EnrollmentService) GetStudentWaitlist(ctx context.Context, studentID uuid.UUID) ([]*domain.WaitlistEntry, error) {
	entries, err := s.waitlistRepo.GetWaitingByStudentID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get student waitlist: %w", err)
	}
	return entries, nil
}

func (s *EnrollmentService) GetActivityRoster(ctx context.Context, activityID uuid.UUID, includeTerminal bool) ([]*domain.Enrollment, error) {
	activity, err := s.activityRepo.GetByID(ctx, activityID)
	if err != nil {
		return nil, fmt.Errorf("failed to load activity: %w", err)
	}
	if activity == nil {
		return nil, fmt.Errorf("%w: activity %s", domain.ErrNotFound, activityID)
	}

	enrollments, err := s.enrollmentRepo.GetByActivityID(ctx, activityID, includeTerminal)
	if err != nil {
		return nil, fmt.Errorf("failed to get activity roster: %w", err)
	}
	return enrollments, nil
}

func (s *EnrollmentService) GetActivityWaitlist(ctx context.Context, activityID uuid.UUID) ([]*domain.WaitlistEntry, error) {
	entries, err := s.waitlistRepo.GetByActivityID(ctx, activityID)
	if err != nil {
		return nil, fmt.Errorf("failed to get activity waitlist: %w", err)
	}
	return entries, nil
}

// GetOpenActivities lists active activities with at least one free seat.
// Seat counts come from the Redis snapshot when present; misses fall back to
// the database and repopulate the snapshot.
func (s *EnrollmentService) GetOpenActivities(ctx context.Context) ([]*domain.Activity, error) {
	activities, err := s.activityRepo.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get active activities: %w", err)
	}

	open := make([]*domain.Activity, 0, len(activities))
	for _, activity := range activities {
		free, err := s.cacheService.GetSeatSnapshot(ctx, activity.ActivityID)
		if err != nil {
			held, countErr := s.enrollmentRepo.CountSeatsHeld(ctx, activity.ActivityID)
			if countErr != nil {
				return nil, fmt.Errorf("failed to count held seats: %w", countErr)
			}
			free = activity.Quota - int(held)
			if setErr := s.cacheService.SetSeatSnapshot(ctx, activity.ActivityID, free, SeatSnapshotTTL); setErr != nil {
				logger.Warn("Failed to cache seat snapshot for activity %s: %v", activity.ActivityID, setErr)
			}
		}
		if free > 0 {
			open = append(open, activity)
		}
	}

	return open, nil
}

// GetActivity serves activity details through the cache-aside path.
func (s *EnrollmentService) GetActivity(ctx context.Context, activityID uuid.UUID) (*domain.Activity, error) {
	cached, err := s.cacheService.GetActivityDetails(ctx, activityID)
	if err == nil {
		return cached, nil
	}

	activity, err := s.activityRepo.GetByID(ctx, activityID)
	if err != nil {
		return nil, fmt.Errorf("failed to load activity: %w", err)
	}
	if activity == nil {
		return nil, fmt.Errorf("%w: activity %s", domain.ErrNotFound, activityID)
	}

	if err := s.cacheService.SetActivityDetails(ctx, activityID, activity, ActivityDetailsTTL); err != nil {
		logger.Warn("Failed to cache activity details for %s: %v", activityID, err)
	}

	return activity, nil
}

// GetWaitlistStanding answers "where am I in line" from the Redis mirror,
// falling back to the authoritative rows when the mirror has no answer.
func (s *EnrollmentService) GetWaitlistStanding(ctx context.Context, studentID, activityID uuid.UUID) (*serviceInterfaces.WaitlistStanding, error) {
	if s.mirrorEnabled {
		position, posErr := s.cacheService.WaitlistPosition(ctx, activityID, studentID)
		size, sizeErr := s.cacheService.WaitlistSize(ctx, activityID)
		if posErr == nil && sizeErr == nil && position > 0 {
			return &serviceInterfaces.WaitlistStanding{ActivityID: activityID, Position: position, Size: size}, nil
		}
	}

	entry, err := s.waitlistRepo.GetWaiting(ctx, studentID, activityID)
	if err != nil {
		return nil, fmt.Errorf("failed to load waitlist entry: %w", err)
	}
	if entry == nil {
		return nil, fmt.Errorf("%w: no waiting entry for student %s in activity %s", domain.ErrNotFound, studentID, activityID)
	}

	entries, err := s.waitlistRepo.GetByActivityID(ctx, activityID)
	if err != nil {
		return nil, fmt.Errorf("failed to load activity waitlist: %w", err)
	}

	standing := &serviceInterfaces.WaitlistStanding{ActivityID: activityID}
	for _, other := range entries {
		if other.Status != domain.WaitlistWaiting {
			continue
		}
		standing.Size++
		ahead := other.Priority > entry.Priority ||
			(other.Priority == entry.Priority && other.Position <= entry.Position)
		if ahead {
			standing.Position++
		}
	}
	return standing, nil
}

// GetRecentConflicts exposes the tail of the conflict audit log for admins.
func (s *EnrollmentService) GetRecentConflicts(ctx context.Context, limit int) ([]*domain.ConflictRecord, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	records, err := s.conflictRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list conflict records: %w", err)
	}
	return records, nil
}

// Queue worker entry points

func (s *EnrollmentService) ProcessAuditJob(ctx context.Context, job interfaces.AuditJob) error {
	record := job.Record
	if record.ConflictID == uuid.Nil {
		record.ConflictID = uuid.New()
	}
	if err := s.conflictRepo.Create(ctx, &record); err != nil {
		return fmt.Errorf("failed to append conflict record: %w", err)
	}
	return nil
}

func (s *EnrollmentService) ProcessSeatRefreshJob(ctx context.Context, job interfaces.SeatRefreshJob) error {
	activity, err := s.activityRepo.GetByID(ctx, job.ActivityID)
	if err != nil {
		return fmt.Errorf("failed to load activity: %w", err)
	}
	if activity == nil {
		return nil
	}

	held, err := s.enrollmentRepo.CountSeatsHeld(ctx, job.ActivityID)
	if err != nil {
		return fmt.Errorf("failed to count held seats: %w", err)
	}

	free := activity.Quota - int(held)
	if err := s.cacheService.SetSeatSnapshot(ctx, job.ActivityID, free, SeatSnapshotTTL); err != nil {
		return fmt.Errorf("failed to refresh seat snapshot: %w", err)
	}
	return nil
}

func (s *EnrollmentService) ProcessWaitlistMirrorJob(ctx context.Context, job interfaces.WaitlistMirrorJob) error {
	if !s.mirrorEnabled {
		return nil
	}
	switch job.Action {
	case interfaces.MirrorAdd:
		return s.cacheService.MirrorWaitlistAdd(ctx, &job.Entry)
	case interfaces.MirrorRemove:
		return s.cacheService.MirrorWaitlistRemove(ctx, job.Entry.ActivityID, job.Entry.StudentID)
	default:
		return fmt.Errorf("unknown mirror action: %s", job.Action)
	}
}

// Side-effect helpers. Everything below is best-effort; failures are logged
// and never propagated to the caller.

func (s *EnrollmentService) recordConflict(ctx context.Context, record domain.ConflictRecord) {
	job := interfaces.AuditJob{Record: record, Timestamp: time.Now()}
	if err := s.queueService.EnqueueAudit(ctx, job); err != nil {
		logger.Warn("Failed to enqueue audit record (%s): %v", record.ConflictType, err)
	}
}

func (s *EnrollmentService) refreshAfterCommit(ctx context.Context, activityID, studentID uuid.UUID) {
	if err := s.cacheService.InvalidateStudentEnrollments(ctx, studentID); err != nil {
		logger.Warn("Failed to invalidate enrollments cache for student %s: %v", studentID, err)
	}
	job := interfaces.SeatRefreshJob{ActivityID: activityID, Timestamp: time.Now()}
	if err := s.queueService.EnqueueSeatRefresh(ctx, job); err != nil {
		logger.Warn("Failed to enqueue seat refresh for activity %s: %v", activityID, err)
	}
}

func (s *EnrollmentService) enqueueMirror(ctx context.Context, action interfaces.MirrorAction, entry *domain.WaitlistEntry) {
	if !s.mirrorEnabled || entry == nil {
		return
	}
	job := interfaces.WaitlistMirrorJob{Action: action, Entry: *entry, Timestamp: time.Now()}
	if err := s.queueService.EnqueueWaitlistMirror(ctx, job); err != nil {
		logger.Warn("Failed to enqueue waitlist mirror %s for student %s: %v", action, entry.StudentID, err)
	}
}

func (s *EnrollmentService) replayIdempotent(ctx context.Context, req *RegisterRequest) (*RegisterResponse, bool) {
	if s.idempotencyRepo == nil || req.IdempotencyKey == "" {
		return nil, false
	}

	existing, err := s.idempotencyRepo.GetByKey(ctx, req.IdempotencyKey)
	if err != nil || existing == nil {
		return nil, false
	}
	if existing.IsExpired() {
		if err := s.idempotencyRepo.Delete(ctx, req.IdempotencyKey); err != nil {
			logger.Warn("Failed to delete expired idempotency key %s: %v", req.IdempotencyKey, err)
		}
		return nil, false
	}
	if existing.RequestHash != requestHash(req) {
		return nil, false
	}

	var cached RegisterResponse
	if err := json.Unmarshal([]byte(existing.ResponseData), &cached); err != nil {
		return nil, false
	}
	logger.Info("Replaying cached response for idempotency key %s", req.IdempotencyKey)
	return &cached, true
}

func (s *EnrollmentService) storeIdempotent(ctx context.Context, req *RegisterRequest, response *RegisterResponse) {
	if s.idempotencyRepo == nil || req.IdempotencyKey == "" {
		return
	}

	data, err := json.Marshal(response)
	if err != nil {
		logger.Warn("Failed to marshal idempotent response: %v", err)
		return
	}

	key := &domain.IdempotencyKey{
		Key:          req.IdempotencyKey,
		StudentID:    req.StudentID,
		RequestHash:  requestHash(req),
		ResponseData: string(data),
		StatusCode:   200,
		ProcessedAt:  time.Now(),
		ExpiresAt:    time.Now().Add(24 * time.Hour),
		CreatedAt:    time.Now(),
	}
	if err := s.idempotencyRepo.Create(ctx, key); err != nil {
		logger.Warn("Failed to store idempotency key %s: %v", req.IdempotencyKey, err)
	}
}
