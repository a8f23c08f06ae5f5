package service

import (
	domain "activity-registration/internal/domain/enrollment"
	interfaces "activity-registration/internal/interfaces/infrastructure"
	"activity-registration/pkg/logger"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// promotionResult carries what a single promotion attempt did inside the
// transaction, so the caller can run post-commit side effects.
type promotionResult struct {
	Promoted   *domain.WaitlistEntry
	Enrollment *domain.Enrollment
	Skipped    []*domain.WaitlistEntry
}

func (s *EnrollmentService) enqueueWaitlist(ctx context.Context, student *domain.Student, activity *domain.Activity, priority int) (*domain.WaitlistEntry, error) {
	existing, err := s.waitlistRepo.GetWaiting(ctx, student.StudentID, activity.ActivityID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing waitlist entry: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: already waitlisted at position %d", domain.ErrAlreadyEnrolled, existing.Position)
	}

	position, err := s.waitlistRepo.NextPosition(ctx, activity.ActivityID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute waitlist position: %w", err)
	}

	entry := &domain.WaitlistEntry{
		WaitlistID: uuid.New(),
		StudentID:  student.StudentID,
		ActivityID: activity.ActivityID,
		GradeLevel: student.GradeLevel,
		Position:   position,
		Priority:   priority,
		Status:     domain.WaitlistWaiting,
		AddedAt:    time.Now(),
	}
	if err := s.waitlistRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create waitlist entry: %w", err)
	}

	s.recordConflict(ctx, domain.ConflictRecord{
		StudentID:    student.StudentID,
		ActivityID:   activity.ActivityID,
		ConflictType: domain.ConflictQuotaFull,
		Detail:       fmt.Sprintf("quota %d reached, waitlisted at position %d", activity.Quota, position),
	})

	return entry, nil
}

// promoteNext fills at most one vacated seat from the waitlist. Candidates
// come off in priority-then-position order; a candidate whose schedule now
// collides with their other enrollments is marked expired and skipped, and
// the next one is tried. Runs inside the caller's transaction, which must
// hold the activity row lock.
func (s *EnrollmentService) promoteNext(ctx context.Context, activity *domain.Activity) (promotionResult, error) {
	var result promotionResult

	held, err := s.enrollmentRepo.CountSeatsHeld(ctx, activity.ActivityID)
	if err != nil {
		return result, fmt.Errorf("failed to count held seats: %w", err)
	}
	if held >= int64(activity.Quota) {
		return result, nil
	}

	for {
		entry, err := s.waitlistRepo.GetNextWaiting(ctx, activity.ActivityID)
		if err != nil {
			return result, fmt.Errorf("failed to fetch next waitlist entry: %w", err)
		}
		if entry == nil {
			return result, nil
		}

		conflict, err := s.findScheduleConflict(ctx, entry.StudentID, activity)
		if err != nil {
			return result, fmt.Errorf("promotion conflict recheck failed: %w", err)
		}
		if conflict != nil {
			entry.Status = domain.WaitlistExpired
			if err := s.waitlistRepo.Update(ctx, entry); err != nil {
				return result, fmt.Errorf("failed to expire waitlist entry: %w", err)
			}
			result.Skipped = append(result.Skipped, entry)
			s.recordConflict(ctx, domain.ConflictRecord{
				StudentID:             entry.StudentID,
				ActivityID:            activity.ActivityID,
				ConflictingActivityID: &conflict.ActivityID,
				ConflictingScheduleID: &conflict.Against.ScheduleID,
				ConflictType:          domain.ConflictTimeOverlap,
				Detail:                fmt.Sprintf("promotion skipped: %s overlaps %s (%s)", conflict.Schedule.Slot(), conflict.ActivityName, conflict.Against.Slot()),
			})
			logger.Info("Skipped stale waitlist entry for student %s in activity %s", entry.StudentID, activity.ActivityID)
			continue
		}

		now := time.Now()
		enrollment := &domain.Enrollment{
			EnrollmentID: uuid.New(),
			StudentID:    entry.StudentID,
			ActivityID:   activity.ActivityID,
			Status:       domain.StatusActive,
			GradeLevel:   entry.GradeLevel,
			Notes:        "promoted from waitlist",
			EnrolledAt:   now,
		}
		if err := s.enrollmentRepo.Create(ctx, enrollment); err != nil {
			return result, fmt.Errorf("failed to create promoted enrollment: %w", err)
		}

		entry.Status = domain.WaitlistPromoted
		entry.PromotedAt = &now
		if err := s.waitlistRepo.Update(ctx, entry); err != nil {
			return result, fmt.Errorf("failed to mark waitlist entry promoted: %w", err)
		}

		result.Promoted = entry
		result.Enrollment = enrollment
		return result, nil
	}
}

// finishPromotion runs the cache and mirror side effects for a committed
// promotion outside the transaction.
func (s *EnrollmentService) finishPromotion(ctx context.Context, result promotionResult) {
	for _, skipped := range result.Skipped {
		s.enqueueMirror(ctx, interfaces.MirrorRemove, skipped)
	}
	if result.Promoted == nil {
		return
	}
	logger.Info("Promoted student %s from waitlist for activity %s", result.Promoted.StudentID, result.Promoted.ActivityID)
	s.enqueueMirror(ctx, interfaces.MirrorRemove, result.Promoted)
	if err := s.cacheService.InvalidateStudentEnrollments(ctx, result.Promoted.StudentID); err != nil {
		logger.Warn("Failed to invalidate enrollments cache for promoted student %s: %v", result.Promoted.StudentID, err)
	}
}

// LeaveWaitlist removes a student's waiting entry for an activity. Positions
// of the remaining entries are left untouched; ordering stays stable.
func (s *EnrollmentService) LeaveWaitlist(ctx context.Context, studentID, activityID uuid.UUID) error {
	var removed *domain.WaitlistEntry

	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		entry, err := s.waitlistRepo.GetWaiting(ctx, studentID, activityID)
		if err != nil {
			return fmt.Errorf("failed to load waitlist entry: %w", err)
		}
		if entry == nil {
			return fmt.Errorf("%w: no waiting entry for student %s in activity %s", domain.ErrNotFound, studentID, activityID)
		}

		entry.Status = domain.WaitlistCancelled
		if err := s.waitlistRepo.Update(ctx, entry); err != nil {
			return fmt.Errorf("failed to cancel waitlist entry: %w", err)
		}
		removed = entry
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("Student %s left waitlist for activity %s", studentID, activityID)
	s.enqueueMirror(ctx, interfaces.MirrorRemove, removed)
	return nil
}
