package service

import (
	domain "activity-registration/internal/domain/enrollment"
	serviceInterfaces "activity-registration/internal/interfaces/service"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
)

type testEnv struct {
	store *fakeStore
	cache *fakeCache
	queue *fakeQueue
	idem  *fakeIdempotencyRepo
	svc   *EnrollmentService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := newFakeStore()
	cache := newFakeCache()
	queue := &fakeQueue{}
	idem := newFakeIdempotencyRepo()

	svc := NewEnrollmentService(
		&fakeTxManager{},
		&fakeStudentRepo{store},
		&fakeActivityRepo{store},
		&fakeEnrollmentRepo{store},
		&fakeWaitlistRepo{store},
		&fakeConflictRepo{store},
		cache,
		queue,
		idem,
		true,
	)
	queue.SetEnrollmentService(svc)

	return &testEnv{store: store, cache: cache, queue: queue, idem: idem, svc: svc}
}

var studentSeq int

func (e *testEnv) addStudent(gradeLevel int) *domain.Student {
	studentSeq++
	student := &domain.Student{
		StudentID:     uuid.New(),
		StudentNumber: fmt.Sprintf("S%04d", studentSeq),
		FullName:      fmt.Sprintf("Student %d", studentSeq),
		GradeLevel:    gradeLevel,
		Status:        "active",
	}
	e.store.students[student.StudentID] = student
	return student
}

func (e *testEnv) addActivity(name string, quota int, slots ...domain.ActivitySchedule) *domain.Activity {
	activity := &domain.Activity{
		ActivityID: uuid.New(),
		Name:       name,
		Quota:      quota,
		Status:     domain.ActivityActive,
	}
	for i := range slots {
		slots[i].ScheduleID = uuid.New()
		slots[i].ActivityID = activity.ActivityID
		slots[i].Active = true
	}
	activity.Schedules = slots
	e.store.activities[activity.ActivityID] = activity
	return activity
}

func weekly(day, startHour, endHour int) domain.ActivitySchedule {
	return domain.ActivitySchedule{
		DayOfWeek:   day,
		StartMinute: startHour * 60,
		EndMinute:   endHour * 60,
	}
}

func (e *testEnv) register(t *testing.T, student *domain.Student, activity *domain.Activity) *serviceInterfaces.RegisterResponse {
	t.Helper()
	resp, err := e.svc.Register(context.Background(), &RegisterRequest{
		StudentID:  student.StudentID,
		ActivityID: activity.ActivityID,
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return resp
}

func (e *testEnv) seatsHeld(activityID uuid.UUID) int {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	count := 0
	for _, enrollment := range e.store.enrollments {
		if enrollment.ActivityID == activityID && enrollment.Status.HoldsSeat() {
			count++
		}
	}
	return count
}

func (e *testEnv) conflictsOfType(t *testing.T, conflictType domain.ConflictType) []*domain.ConflictRecord {
	t.Helper()
	if err := e.queue.drain(context.Background()); err != nil {
		t.Fatalf("drain failed: %v", err)
	}
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	var result []*domain.ConflictRecord
	for _, record := range e.store.conflicts {
		if record.ConflictType == conflictType {
			result = append(result, record)
		}
	}
	return result
}

func TestRegister_Enrolled(t *testing.T) {
	env := newTestEnv(t)
	student := env.addStudent(5)
	activity := env.addActivity("Chess Club", 10, weekly(1, 16, 17))

	resp := env.register(t, student, activity)

	if resp.Outcome != serviceInterfaces.OutcomeEnrolled {
		t.Fatalf("Expected outcome %s, got %s", serviceInterfaces.OutcomeEnrolled, resp.Outcome)
	}
	if resp.Enrollment == nil {
		t.Fatal("Expected enrollment in response")
	}
	if resp.Enrollment.Status != domain.StatusActive {
		t.Errorf("Expected status active, got %s", resp.Enrollment.Status)
	}
	if resp.Enrollment.GradeLevel != 5 {
		t.Errorf("Expected grade level snapshot 5, got %d", resp.Enrollment.GradeLevel)
	}
	if env.seatsHeld(activity.ActivityID) != 1 {
		t.Errorf("Expected 1 seat held, got %d", env.seatsHeld(activity.ActivityID))
	}
}

func TestRegister_WaitlistedWhenFull(t *testing.T) {
	env := newTestEnv(t)
	activity := env.addActivity("Robotics", 1)

	first := env.addStudent(4)
	second := env.addStudent(4)
	third := env.addStudent(4)

	env.register(t, first, activity)

	resp := env.register(t, second, activity)
	if resp.Outcome != serviceInterfaces.OutcomeWaitlisted {
		t.Fatalf("Expected waitlisted outcome, got %s", resp.Outcome)
	}
	if resp.Position == nil || *resp.Position != 1 {
		t.Fatalf("Expected position 1, got %v", resp.Position)
	}

	resp = env.register(t, third, activity)
	if resp.Position == nil || *resp.Position != 2 {
		t.Fatalf("Expected position 2, got %v", resp.Position)
	}

	if env.seatsHeld(activity.ActivityID) != 1 {
		t.Errorf("Expected quota to stay at 1 held seat, got %d", env.seatsHeld(activity.ActivityID))
	}

	records := env.conflictsOfType(t, domain.ConflictQuotaFull)
	if len(records) != 2 {
		t.Errorf("Expected 2 quota_full audit records, got %d", len(records))
	}
}

func TestRegister_DuplicateRejected(t *testing.T) {
	env := newTestEnv(t)
	student := env.addStudent(5)
	activity := env.addActivity("Drama", 10)

	env.register(t, student, activity)

	_, err := env.svc.Register(context.Background(), &RegisterRequest{
		StudentID:  student.StudentID,
		ActivityID: activity.ActivityID,
	})
	if !errors.Is(err, domain.ErrAlreadyEnrolled) {
		t.Fatalf("Expected ErrAlreadyEnrolled, got %v", err)
	}
}

func TestRegister_ScheduleConflictRejected(t *testing.T) {
	env := newTestEnv(t)
	student := env.addStudent(5)
	chess := env.addActivity("Chess Club", 10, weekly(1, 16, 17))
	band := env.addActivity("Band", 10, weekly(1, 16, 18))

	env.register(t, student, chess)

	_, err := env.svc.Register(context.Background(), &RegisterRequest{
		StudentID:  student.StudentID,
		ActivityID: band.ActivityID,
	})
	if !errors.Is(err, domain.ErrScheduleConflict) {
		t.Fatalf("Expected ErrScheduleConflict, got %v", err)
	}
	if env.seatsHeld(band.ActivityID) != 0 {
		t.Error("Expected no seat held after conflict rejection")
	}

	records := env.conflictsOfType(t, domain.ConflictTimeOverlap)
	if len(records) != 1 {
		t.Fatalf("Expected 1 time_overlap audit record, got %d", len(records))
	}
	if records[0].ConflictingActivityID == nil || *records[0].ConflictingActivityID != chess.ActivityID {
		t.Error("Expected the audit record to name the conflicting activity")
	}
}

func TestRegister_AdjacentSlotsAllowed(t *testing.T) {
	env := newTestEnv(t)
	student := env.addStudent(5)
	chess := env.addActivity("Chess Club", 10, weekly(1, 16, 17))
	band := env.addActivity("Band", 10, weekly(1, 17, 18))

	env.register(t, student, chess)
	resp := env.register(t, student, band)

	if resp.Outcome != serviceInterfaces.OutcomeEnrolled {
		t.Fatalf("Expected back-to-back slots to enroll, got %s", resp.Outcome)
	}
}

func TestRegister_GradeRestriction(t *testing.T) {
	env := newTestEnv(t)
	student := env.addStudent(2)
	activity := env.addActivity("Debate", 10)
	min, max := 4, 8
	activity.MinGrade = &min
	activity.MaxGrade = &max

	_, err := env.svc.Register(context.Background(), &RegisterRequest{
		StudentID:  student.StudentID,
		ActivityID: activity.ActivityID,
	})
	if !errors.Is(err, domain.ErrGradeRestriction) {
		t.Fatalf("Expected ErrGradeRestriction, got %v", err)
	}

	records := env.conflictsOfType(t, domain.ConflictGradeRestriction)
	if len(records) != 1 {
		t.Errorf("Expected 1 grade_restriction audit record, got %d", len(records))
	}
}

func TestRegister_ClosedActivityRejected(t *testing.T) {
	env := newTestEnv(t)
	student := env.addStudent(5)
	activity := env.addActivity("Archery", 10)
	activity.Status = domain.ActivityInactive

	_, err := env.svc.Register(context.Background(), &RegisterRequest{
		StudentID:  student.StudentID,
		ActivityID: activity.ActivityID,
	})
	if !errors.Is(err, domain.ErrActivityInactive) {
		t.Fatalf("Expected ErrActivityInactive, got %v", err)
	}
}

func TestRegister_UnknownStudentOrActivity(t *testing.T) {
	env := newTestEnv(t)
	student := env.addStudent(5)
	activity := env.addActivity("Chess Club", 10)

	_, err := env.svc.Register(context.Background(), &RegisterRequest{
		StudentID:  uuid.New(),
		ActivityID: activity.ActivityID,
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for unknown student, got %v", err)
	}

	_, err = env.svc.Register(context.Background(), &RegisterRequest{
		StudentID:  student.StudentID,
		ActivityID: uuid.New(),
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for unknown activity, got %v", err)
	}
}

func TestRegister_VenueOverlapDoesNotBlock(t *testing.T) {
	env := newTestEnv(t)
	student := env.addStudent(5)

	gymA := env.addActivity("Basketball", 10, weekly(2, 15, 17))
	gymA.Venue = "Main Gym"
	gymB := env.addActivity("Volleyball", 10, weekly(2, 16, 18))
	gymB.Venue = "Main Gym"

	resp := env.register(t, student, gymB)
	if resp.Outcome != serviceInterfaces.OutcomeEnrolled {
		t.Fatalf("Expected venue overlap to stay advisory, got %s", resp.Outcome)
	}

	records := env.conflictsOfType(t, domain.ConflictVenue)
	if len(records) != 1 {
		t.Fatalf("Expected 1 venue_conflict audit record, got %d", len(records))
	}
	if records[0].ConflictingActivityID == nil || *records[0].ConflictingActivityID != gymA.ActivityID {
		t.Error("Expected the audit record to name the colliding activity")
	}
}

func TestRegister_IdempotentReplay(t *testing.T) {
	env := newTestEnv(t)
	student := env.addStudent(5)
	activity := env.addActivity("Chess Club", 10)

	req := &RegisterRequest{
		StudentID:      student.StudentID,
		ActivityID:     activity.ActivityID,
		IdempotencyKey: "retry-abc",
	}

	first, err := env.svc.Register(context.Background(), req)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	second, err := env.svc.Register(context.Background(), req)
	if err != nil {
		t.Fatalf("Expected replay instead of error, got %v", err)
	}
	if second.Outcome != first.Outcome {
		t.Errorf("Expected replayed outcome %s, got %s", first.Outcome, second.Outcome)
	}
	if env.seatsHeld(activity.ActivityID) != 1 {
		t.Errorf("Expected replay not to create a second enrollment, held=%d", env.seatsHeld(activity.ActivityID))
	}
}

func TestCancel_PromotesByPriorityThenPosition(t *testing.T) {
	env := newTestEnv(t)
	activity := env.addActivity("Robotics", 1)

	holder := env.addStudent(5)
	fifo := env.addStudent(5)
	priority := env.addStudent(5)

	enrolled := env.register(t, holder, activity)
	env.register(t, fifo, activity)
	env.register(t, priority, activity)

	// Admin bumps the later entry's priority; it should jump the line.
	env.store.mu.Lock()
	for _, entry := range env.store.waitlist {
		if entry.StudentID == priority.StudentID {
			entry.Priority = 10
		}
	}
	env.store.mu.Unlock()

	resp, err := env.svc.Cancel(context.Background(), enrolled.Enrollment.EnrollmentID, &CancelRequest{
		StudentID: holder.StudentID,
		Reason:    "schedule change",
	})
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if resp.Promoted == nil || *resp.Promoted != priority.StudentID {
		t.Fatalf("Expected priority student promoted, got %v", resp.Promoted)
	}

	if env.seatsHeld(activity.ActivityID) != 1 {
		t.Errorf("Expected exactly 1 seat held after promotion, got %d", env.seatsHeld(activity.ActivityID))
	}

	env.store.mu.Lock()
	defer env.store.mu.Unlock()
	for _, entry := range env.store.waitlist {
		switch entry.StudentID {
		case priority.StudentID:
			if entry.Status != domain.WaitlistPromoted {
				t.Errorf("Expected priority entry promoted, got %s", entry.Status)
			}
			if entry.PromotedAt == nil {
				t.Error("Expected PromotedAt to be set")
			}
		case fifo.StudentID:
			if entry.Status != domain.WaitlistWaiting {
				t.Errorf("Expected FIFO entry still waiting, got %s", entry.Status)
			}
		}
	}
}

func TestCancel_PromotionSkipsStaleConflictedEntry(t *testing.T) {
	env := newTestEnv(t)
	robotics := env.addActivity("Robotics", 1, weekly(3, 16, 17))
	chess := env.addActivity("Chess Club", 10, weekly(3, 16, 17))

	holder := env.addStudent(5)
	stale := env.addStudent(5)
	next := env.addStudent(5)

	enrolled := env.register(t, holder, robotics)
	env.register(t, stale, robotics)
	env.register(t, next, robotics)

	// While waiting, the first candidate joined a clashing activity.
	env.register(t, stale, chess)

	resp, err := env.svc.Cancel(context.Background(), enrolled.Enrollment.EnrollmentID, &CancelRequest{
		StudentID: holder.StudentID,
	})
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if resp.Promoted == nil || *resp.Promoted != next.StudentID {
		t.Fatalf("Expected second candidate promoted, got %v", resp.Promoted)
	}

	env.store.mu.Lock()
	var staleStatus domain.WaitlistStatus
	for _, entry := range env.store.waitlist {
		if entry.StudentID == stale.StudentID && entry.ActivityID == robotics.ActivityID {
			staleStatus = entry.Status
		}
	}
	env.store.mu.Unlock()

	if staleStatus != domain.WaitlistExpired {
		t.Errorf("Expected stale entry expired, got %s", staleStatus)
	}

	records := env.conflictsOfType(t, domain.ConflictTimeOverlap)
	if len(records) == 0 {
		t.Error("Expected an audit record for the skipped candidate")
	}
}

func TestCancel_WrongStudentLooksLikeMissing(t *testing.T) {
	env := newTestEnv(t)
	student := env.addStudent(5)
	other := env.addStudent(5)
	activity := env.addActivity("Drama", 10)

	enrolled := env.register(t, student, activity)

	_, err := env.svc.Cancel(context.Background(), enrolled.Enrollment.EnrollmentID, &CancelRequest{
		StudentID: other.StudentID,
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for foreign enrollment, got %v", err)
	}
}

func TestCancel_TerminalEnrollmentRejected(t *testing.T) {
	env := newTestEnv(t)
	student := env.addStudent(5)
	activity := env.addActivity("Drama", 10)

	enrolled := env.register(t, student, activity)

	if _, err := env.svc.Cancel(context.Background(), enrolled.Enrollment.EnrollmentID, &CancelRequest{StudentID: student.StudentID}); err != nil {
		t.Fatalf("First cancel failed: %v", err)
	}

	_, err := env.svc.Cancel(context.Background(), enrolled.Enrollment.EnrollmentID, &CancelRequest{StudentID: student.StudentID})
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("Expected ErrInvalidTransition on second cancel, got %v", err)
	}
}

func TestCancelThenReRegister_KeepsWithdrawnHistory(t *testing.T) {
	env := newTestEnv(t)
	student := env.addStudent(5)
	activity := env.addActivity("Chess Club", 10, weekly(1, 16, 17))

	first := env.register(t, student, activity)

	if _, err := env.svc.Cancel(context.Background(), first.Enrollment.EnrollmentID, &CancelRequest{StudentID: student.StudentID}); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	second := env.register(t, student, activity)
	if second.Outcome != serviceInterfaces.OutcomeEnrolled {
		t.Fatalf("Expected re-registration to enroll, got %s", second.Outcome)
	}
	if second.Enrollment.EnrollmentID == first.Enrollment.EnrollmentID {
		t.Error("Expected a fresh enrollment row, got the withdrawn one reused")
	}

	var active, withdrawn int
	env.store.mu.Lock()
	for _, enrollment := range env.store.enrollments {
		if enrollment.StudentID != student.StudentID || enrollment.ActivityID != activity.ActivityID {
			continue
		}
		switch enrollment.Status {
		case domain.StatusActive:
			active++
		case domain.StatusWithdrawn:
			withdrawn++
		}
	}
	env.store.mu.Unlock()

	if active != 1 {
		t.Errorf("Expected exactly 1 active enrollment, got %d", active)
	}
	if withdrawn != 1 {
		t.Errorf("Expected the withdrawn enrollment kept as history, got %d", withdrawn)
	}
}

func TestUpdateStatus_ApproveThenComplete(t *testing.T) {
	env := newTestEnv(t)
	student := env.addStudent(5)
	activity := env.addActivity("Drama", 10)

	enrolled := env.register(t, student, activity)
	enrollmentID := enrolled.Enrollment.EnrollmentID

	if _, err := env.svc.UpdateStatus(context.Background(), enrollmentID, &UpdateStatusRequest{Status: "approved"}); err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	// approved still holds the seat
	if env.seatsHeld(activity.ActivityID) != 1 {
		t.Errorf("Expected approved enrollment to hold its seat, held=%d", env.seatsHeld(activity.ActivityID))
	}

	if _, err := env.svc.UpdateStatus(context.Background(), enrollmentID, &UpdateStatusRequest{Status: "completed"}); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	_, err := env.svc.UpdateStatus(context.Background(), enrollmentID, &UpdateStatusRequest{Status: "active"})
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("Expected ErrInvalidTransition out of completed, got %v", err)
	}
}

func TestUpdateStatus_RejectFreesSeatAndPromotes(t *testing.T) {
	env := newTestEnv(t)
	activity := env.addActivity("Robotics", 1)
	holder := env.addStudent(5)
	waiting := env.addStudent(5)

	enrolled := env.register(t, holder, activity)
	env.register(t, waiting, activity)

	resp, err := env.svc.UpdateStatus(context.Background(), enrolled.Enrollment.EnrollmentID, &UpdateStatusRequest{Status: "rejected"})
	if err != nil {
		t.Fatalf("Reject failed: %v", err)
	}
	if resp.Promoted == nil || *resp.Promoted != waiting.StudentID {
		t.Fatalf("Expected waiting student promoted after rejection, got %v", resp.Promoted)
	}
	if env.seatsHeld(activity.ActivityID) != 1 {
		t.Errorf("Expected 1 seat held after promotion, got %d", env.seatsHeld(activity.ActivityID))
	}
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	env := newTestEnv(t)
	student := env.addStudent(5)
	activity := env.addActivity("Drama", 10)
	enrolled := env.register(t, student, activity)

	_, err := env.svc.UpdateStatus(context.Background(), enrolled.Enrollment.EnrollmentID, &UpdateStatusRequest{Status: "paused"})
	if !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("Expected ErrInvalidStatus, got %v", err)
	}
}

func TestLeaveWaitlist(t *testing.T) {
	env := newTestEnv(t)
	activity := env.addActivity("Robotics", 1)
	holder := env.addStudent(5)
	waiting := env.addStudent(5)

	env.register(t, holder, activity)
	env.register(t, waiting, activity)

	if err := env.svc.LeaveWaitlist(context.Background(), waiting.StudentID, activity.ActivityID); err != nil {
		t.Fatalf("LeaveWaitlist failed: %v", err)
	}

	err := env.svc.LeaveWaitlist(context.Background(), waiting.StudentID, activity.ActivityID)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound on second leave, got %v", err)
	}
}

func TestConcurrentRegistrations_CapacityNeverExceeded(t *testing.T) {
	env := newTestEnv(t)
	const quota = 3
	const attempts = 20

	activity := env.addActivity("Robotics", quota)

	students := make([]*domain.Student, attempts)
	for i := range students {
		students[i] = env.addStudent(5)
	}

	var wg sync.WaitGroup
	outcomes := make([]string, attempts)
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := env.svc.Register(context.Background(), &RegisterRequest{
				StudentID:  students[i].StudentID,
				ActivityID: activity.ActivityID,
			})
			if err != nil {
				errs[i] = err
				return
			}
			outcomes[i] = resp.Outcome
		}(i)
	}
	wg.Wait()

	enrolled, waitlisted := 0, 0
	for i := 0; i < attempts; i++ {
		if errs[i] != nil {
			t.Fatalf("Registration %d failed: %v", i, errs[i])
		}
		switch outcomes[i] {
		case serviceInterfaces.OutcomeEnrolled:
			enrolled++
		case serviceInterfaces.OutcomeWaitlisted:
			waitlisted++
		}
	}

	if enrolled != quota {
		t.Errorf("Expected exactly %d enrolled, got %d", quota, enrolled)
	}
	if waitlisted != attempts-quota {
		t.Errorf("Expected %d waitlisted, got %d", attempts-quota, waitlisted)
	}
	if env.seatsHeld(activity.ActivityID) != quota {
		t.Errorf("Expected %d seats held, got %d", quota, env.seatsHeld(activity.ActivityID))
	}
}

func TestGetOpenActivities_ExcludesFull(t *testing.T) {
	env := newTestEnv(t)
	full := env.addActivity("Robotics", 1)
	open := env.addActivity("Chess Club", 10)

	student := env.addStudent(5)
	env.register(t, student, full)

	activities, err := env.svc.GetOpenActivities(context.Background())
	if err != nil {
		t.Fatalf("GetOpenActivities failed: %v", err)
	}

	if len(activities) != 1 {
		t.Fatalf("Expected 1 open activity, got %d", len(activities))
	}
	if activities[0].ActivityID != open.ActivityID {
		t.Errorf("Expected %s to be open, got %s", open.Name, activities[0].Name)
	}
}

func TestGetWaitlistStanding_FallsBackToDatabase(t *testing.T) {
	env := newTestEnv(t)
	activity := env.addActivity("Robotics", 1)

	holder := env.addStudent(5)
	fifo := env.addStudent(5)
	priority := env.addStudent(5)

	env.register(t, holder, activity)
	env.register(t, fifo, activity)
	env.register(t, priority, activity)

	env.store.mu.Lock()
	for _, entry := range env.store.waitlist {
		if entry.StudentID == priority.StudentID {
			entry.Priority = 10
		}
	}
	env.store.mu.Unlock()

	standing, err := env.svc.GetWaitlistStanding(context.Background(), fifo.StudentID, activity.ActivityID)
	if err != nil {
		t.Fatalf("GetWaitlistStanding failed: %v", err)
	}
	if standing.Size != 2 {
		t.Errorf("Expected waitlist size 2, got %d", standing.Size)
	}
	if standing.Position != 2 {
		t.Errorf("Expected position 2 behind the priority entry, got %d", standing.Position)
	}

	_, err = env.svc.GetWaitlistStanding(context.Background(), holder.StudentID, activity.ActivityID)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for student not waiting, got %v", err)
	}
}

func TestSeatRefreshJob_UpdatesSnapshot(t *testing.T) {
	env := newTestEnv(t)
	activity := env.addActivity("Robotics", 3)
	student := env.addStudent(5)

	env.register(t, student, activity)

	if err := env.queue.drain(context.Background()); err != nil {
		t.Fatalf("drain failed: %v", err)
	}

	free, err := env.cache.GetSeatSnapshot(context.Background(), activity.ActivityID)
	if err != nil {
		t.Fatalf("Expected seat snapshot after refresh job, got %v", err)
	}
	if free != 2 {
		t.Errorf("Expected 2 free seats in snapshot, got %d", free)
	}
}

func TestWaitlistMirrorJobs_TrackMembership(t *testing.T) {
	env := newTestEnv(t)
	activity := env.addActivity("Robotics", 1)
	holder := env.addStudent(5)
	waiting := env.addStudent(5)

	env.register(t, holder, activity)
	env.register(t, waiting, activity)

	if err := env.queue.drain(context.Background()); err != nil {
		t.Fatalf("drain failed: %v", err)
	}

	position, err := env.cache.WaitlistPosition(context.Background(), activity.ActivityID, waiting.StudentID)
	if err != nil || position != 1 {
		t.Fatalf("Expected mirror position 1, got %d (%v)", position, err)
	}

	if err := env.svc.LeaveWaitlist(context.Background(), waiting.StudentID, activity.ActivityID); err != nil {
		t.Fatalf("LeaveWaitlist failed: %v", err)
	}
	if err := env.queue.drain(context.Background()); err != nil {
		t.Fatalf("drain failed: %v", err)
	}

	if _, err := env.cache.WaitlistPosition(context.Background(), activity.ActivityID, waiting.StudentID); err == nil {
		t.Error("Expected mirror entry removed after leaving the waitlist")
	}
}
