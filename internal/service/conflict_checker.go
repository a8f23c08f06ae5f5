package service

import (
	domain "activity-registration/internal/domain/enrollment"
	"activity-registration/pkg/logger"
	"context"
	"fmt"

	"github.com/google/uuid"
)

// findScheduleConflict compares the candidate activity's weekly slots against
// every slot of every activity the student currently holds a seat in. The
// first collision wins; nil means the student's week stays consistent.
func (s *EnrollmentService) findScheduleConflict(ctx context.Context, studentID uuid.UUID, candidate *domain.Activity) (*domain.ScheduleConflict, error) {
	if len(candidate.Schedules) == 0 {
		return nil, nil
	}

	held, err := s.enrollmentRepo.GetSeatHoldersByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load held enrollments: %w", err)
	}

	for _, enrollment := range held {
		target, against := domain.FindOverlap(candidate.Schedules, enrollment.Activity.Schedules)
		if target != nil {
			return &domain.ScheduleConflict{
				ActivityID:   enrollment.ActivityID,
				ActivityName: enrollment.Activity.Name,
				Schedule:     *target,
				Against:      *against,
			}, nil
		}
	}
	return nil, nil
}

// checkVenueOverlap flags two active activities occupying the same venue at
// the same time. This is an operator data problem, so it is logged and
// audited but never blocks the student's registration.
func (s *EnrollmentService) checkVenueOverlap(ctx context.Context, studentID uuid.UUID, candidate *domain.Activity) {
	if candidate.Venue == "" || len(candidate.Schedules) == 0 {
		return
	}

	others, err := s.activityRepo.GetActiveByVenue(ctx, candidate.Venue, candidate.ActivityID)
	if err != nil {
		logger.Warn("Venue overlap check failed for activity %s: %v", candidate.ActivityID, err)
		return
	}

	for _, other := range others {
		target, against := domain.FindOverlap(candidate.Schedules, other.Schedules)
		if target == nil {
			continue
		}
		logger.Warn("Venue %q double-booked: %s (%s) and %s (%s)",
			candidate.Venue, candidate.Name, target.Slot(), other.Name, against.Slot())
		s.recordConflict(ctx, domain.ConflictRecord{
			StudentID:             studentID,
			ActivityID:            candidate.ActivityID,
			ConflictingActivityID: &other.ActivityID,
			ConflictingScheduleID: &against.ScheduleID,
			ConflictType:          domain.ConflictVenue,
			Detail:                fmt.Sprintf("venue %q booked by %s at %s", candidate.Venue, other.Name, against.Slot()),
		})
		return
	}
}
