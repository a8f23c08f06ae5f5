package service

import (
	domain "activity-registration/internal/domain/enrollment"
	interfaces "activity-registration/internal/interfaces/infrastructure"
	serviceInterfaces "activity-registration/internal/interfaces/service"
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

var errCacheMiss = errors.New("cache miss")

// fakeStore is the shared in-memory backing for all fake repositories.
type fakeStore struct {
	mu          sync.Mutex
	students    map[uuid.UUID]*domain.Student
	activities  map[uuid.UUID]*domain.Activity
	enrollments map[uuid.UUID]*domain.Enrollment
	waitlist    map[uuid.UUID]*domain.WaitlistEntry
	conflicts   []*domain.ConflictRecord
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		students:    make(map[uuid.UUID]*domain.Student),
		activities:  make(map[uuid.UUID]*domain.Activity),
		enrollments: make(map[uuid.UUID]*domain.Enrollment),
		waitlist:    make(map[uuid.UUID]*domain.WaitlistEntry),
	}
}

// fakeTxManager serializes transactions with a mutex, mirroring the
// serialization the row lock provides in Postgres.
type fakeTxManager struct {
	mu sync.Mutex
}

func (m *fakeTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

type fakeStudentRepo struct{ store *fakeStore }

func (r *fakeStudentRepo) Create(ctx context.Context, student *domain.Student) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *student
	r.store.students[student.StudentID] = &copied
	return nil
}

func (r *fakeStudentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Student, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	student, ok := r.store.students[id]
	if !ok {
		return nil, nil
	}
	copied := *student
	return &copied, nil
}

func (r *fakeStudentRepo) GetByStudentNumber(ctx context.Context, studentNumber string) (*domain.Student, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, student := range r.store.students {
		if student.StudentNumber == studentNumber {
			copied := *student
			return &copied, nil
		}
	}
	return nil, nil
}

type fakeActivityRepo struct{ store *fakeStore }

func (r *fakeActivityRepo) Create(ctx context.Context, activity *domain.Activity) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *activity
	r.store.activities[activity.ActivityID] = &copied
	return nil
}

func (r *fakeActivityRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Activity, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	activity, ok := r.store.activities[id]
	if !ok {
		return nil, nil
	}
	copied := *activity
	return &copied, nil
}

func (r *fakeActivityRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Activity, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeActivityRepo) GetActive(ctx context.Context) ([]*domain.Activity, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []*domain.Activity
	for _, activity := range r.store.activities {
		if activity.Status == domain.ActivityActive {
			copied := *activity
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *fakeActivityRepo) GetActiveByVenue(ctx context.Context, venue string, exclude uuid.UUID) ([]*domain.Activity, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []*domain.Activity
	for _, activity := range r.store.activities {
		if activity.ActivityID == exclude || activity.Status != domain.ActivityActive {
			continue
		}
		if activity.Venue == venue {
			copied := *activity
			result = append(result, &copied)
		}
	}
	return result, nil
}

type fakeEnrollmentRepo struct{ store *fakeStore }

func (r *fakeEnrollmentRepo) Create(ctx context.Context, enrollment *domain.Enrollment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *enrollment
	r.store.enrollments[enrollment.EnrollmentID] = &copied
	return nil
}

func (r *fakeEnrollmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Enrollment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	enrollment, ok := r.store.enrollments[id]
	if !ok {
		return nil, nil
	}
	copied := *enrollment
	return &copied, nil
}

func (r *fakeEnrollmentRepo) Update(ctx context.Context, enrollment *domain.Enrollment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *enrollment
	r.store.enrollments[enrollment.EnrollmentID] = &copied
	return nil
}

func (r *fakeEnrollmentRepo) CountSeatsHeld(ctx context.Context, activityID uuid.UUID) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var count int64
	for _, enrollment := range r.store.enrollments {
		if enrollment.ActivityID == activityID && enrollment.Status.HoldsSeat() {
			count++
		}
	}
	return count, nil
}

func (r *fakeEnrollmentRepo) GetSeatHolder(ctx context.Context, studentID, activityID uuid.UUID) (*domain.Enrollment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, enrollment := range r.store.enrollments {
		if enrollment.StudentID == studentID && enrollment.ActivityID == activityID && enrollment.Status.HoldsSeat() {
			copied := *enrollment
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeEnrollmentRepo) GetByStudentID(ctx context.Context, studentID uuid.UUID) ([]*domain.Enrollment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []*domain.Enrollment
	for _, enrollment := range r.store.enrollments {
		if enrollment.StudentID == studentID {
			copied := *enrollment
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *fakeEnrollmentRepo) GetSeatHoldersByStudent(ctx context.Context, studentID uuid.UUID) ([]*domain.Enrollment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []*domain.Enrollment
	for _, enrollment := range r.store.enrollments {
		if enrollment.StudentID == studentID && enrollment.Status.HoldsSeat() {
			copied := *enrollment
			if activity, ok := r.store.activities[enrollment.ActivityID]; ok {
				copied.Activity = *activity
			}
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *fakeEnrollmentRepo) GetByActivityID(ctx context.Context, activityID uuid.UUID, includeTerminal bool) ([]*domain.Enrollment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []*domain.Enrollment
	for _, enrollment := range r.store.enrollments {
		if enrollment.ActivityID != activityID {
			continue
		}
		if !includeTerminal && enrollment.Status.Terminal() {
			continue
		}
		copied := *enrollment
		result = append(result, &copied)
	}
	return result, nil
}

type fakeWaitlistRepo struct{ store *fakeStore }

func (r *fakeWaitlistRepo) Create(ctx context.Context, entry *domain.WaitlistEntry) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *entry
	r.store.waitlist[entry.WaitlistID] = &copied
	return nil
}

func (r *fakeWaitlistRepo) Update(ctx context.Context, entry *domain.WaitlistEntry) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *entry
	r.store.waitlist[entry.WaitlistID] = &copied
	return nil
}

func (r *fakeWaitlistRepo) GetWaiting(ctx context.Context, studentID, activityID uuid.UUID) (*domain.WaitlistEntry, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, entry := range r.store.waitlist {
		if entry.StudentID == studentID && entry.ActivityID == activityID && entry.Status == domain.WaitlistWaiting {
			copied := *entry
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeWaitlistRepo) GetNextWaiting(ctx context.Context, activityID uuid.UUID) (*domain.WaitlistEntry, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var candidates []*domain.WaitlistEntry
	for _, entry := range r.store.waitlist {
		if entry.ActivityID == activityID && entry.Status == domain.WaitlistWaiting {
			candidates = append(candidates, entry)
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Priority != candidates[j].Priority {
			return candidates[i].Priority > candidates[j].Priority
		}
		return candidates[i].Position < candidates[j].Position
	})
	copied := *candidates[0]
	return &copied, nil
}

func (r *fakeWaitlistRepo) NextPosition(ctx context.Context, activityID uuid.UUID) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	max := 0
	for _, entry := range r.store.waitlist {
		if entry.ActivityID == activityID && entry.Status == domain.WaitlistWaiting && entry.Position > max {
			max = entry.Position
		}
	}
	return max + 1, nil
}

func (r *fakeWaitlistRepo) GetByActivityID(ctx context.Context, activityID uuid.UUID) ([]*domain.WaitlistEntry, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []*domain.WaitlistEntry
	for _, entry := range r.store.waitlist {
		if entry.ActivityID == activityID {
			copied := *entry
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *fakeWaitlistRepo) GetWaitingByStudentID(ctx context.Context, studentID uuid.UUID) ([]*domain.WaitlistEntry, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []*domain.WaitlistEntry
	for _, entry := range r.store.waitlist {
		if entry.StudentID == studentID && entry.Status == domain.WaitlistWaiting {
			copied := *entry
			result = append(result, &copied)
		}
	}
	return result, nil
}

type fakeConflictRepo struct{ store *fakeStore }

func (r *fakeConflictRepo) Create(ctx context.Context, record *domain.ConflictRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *record
	r.store.conflicts = append(r.store.conflicts, &copied)
	return nil
}

func (r *fakeConflictRepo) ListRecent(ctx context.Context, limit int) ([]*domain.ConflictRecord, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []*domain.ConflictRecord
	for i := len(r.store.conflicts) - 1; i >= 0 && len(result) < limit; i-- {
		copied := *r.store.conflicts[i]
		result = append(result, &copied)
	}
	return result, nil
}

type fakeIdempotencyRepo struct {
	mu   sync.Mutex
	keys map[string]*domain.IdempotencyKey
}

func newFakeIdempotencyRepo() *fakeIdempotencyRepo {
	return &fakeIdempotencyRepo{keys: make(map[string]*domain.IdempotencyKey)}
}

func (r *fakeIdempotencyRepo) Create(ctx context.Context, key *domain.IdempotencyKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *key
	r.keys[key.Key] = &copied
	return nil
}

func (r *fakeIdempotencyRepo) GetByKey(ctx context.Context, key string) (*domain.IdempotencyKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.keys[key]
	if !ok {
		return nil, nil
	}
	copied := *existing
	return &copied, nil
}

func (r *fakeIdempotencyRepo) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.keys, key)
	return nil
}

// fakeCache is a map-backed CacheService. Misses surface as errors like the
// Redis implementation.
type fakeCache struct {
	mu                 sync.Mutex
	seats              map[uuid.UUID]int
	studentEnrollments map[uuid.UUID][]*domain.Enrollment
	activityDetails    map[uuid.UUID]*domain.Activity
	mirror             map[uuid.UUID][]uuid.UUID
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		seats:              make(map[uuid.UUID]int),
		studentEnrollments: make(map[uuid.UUID][]*domain.Enrollment),
		activityDetails:    make(map[uuid.UUID]*domain.Activity),
		mirror:             make(map[uuid.UUID][]uuid.UUID),
	}
}

func (c *fakeCache) GetSeatSnapshot(ctx context.Context, activityID uuid.UUID) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	seats, ok := c.seats[activityID]
	if !ok {
		return 0, errCacheMiss
	}
	return seats, nil
}

func (c *fakeCache) SetSeatSnapshot(ctx context.Context, activityID uuid.UUID, seats int, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seats[activityID] = seats
	return nil
}

func (c *fakeCache) GetStudentEnrollments(ctx context.Context, studentID uuid.UUID) ([]*domain.Enrollment, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	enrollments, ok := c.studentEnrollments[studentID]
	if !ok {
		return nil, errCacheMiss
	}
	return enrollments, nil
}

func (c *fakeCache) SetStudentEnrollments(ctx context.Context, studentID uuid.UUID, enrollments []*domain.Enrollment, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.studentEnrollments[studentID] = enrollments
	return nil
}

func (c *fakeCache) GetActivityDetails(ctx context.Context, activityID uuid.UUID) (*domain.Activity, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	activity, ok := c.activityDetails[activityID]
	if !ok {
		return nil, errCacheMiss
	}
	return activity, nil
}

func (c *fakeCache) SetActivityDetails(ctx context.Context, activityID uuid.UUID, activity *domain.Activity, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activityDetails[activityID] = activity
	return nil
}

func (c *fakeCache) MirrorWaitlistAdd(ctx context.Context, entry *domain.WaitlistEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mirror[entry.ActivityID] = append(c.mirror[entry.ActivityID], entry.StudentID)
	return nil
}

func (c *fakeCache) MirrorWaitlistRemove(ctx context.Context, activityID, studentID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	members := c.mirror[activityID]
	for i, member := range members {
		if member == studentID {
			c.mirror[activityID] = append(members[:i], members[i+1:]...)
			break
		}
	}
	return nil
}

func (c *fakeCache) WaitlistPosition(ctx context.Context, activityID, studentID uuid.UUID) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, member := range c.mirror[activityID] {
		if member == studentID {
			return i + 1, nil
		}
	}
	return -1, errCacheMiss
}

func (c *fakeCache) WaitlistSize(ctx context.Context, activityID uuid.UUID) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.mirror[activityID]), nil
}

func (c *fakeCache) InvalidateStudentEnrollments(ctx context.Context, studentID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.studentEnrollments, studentID)
	return nil
}

func (c *fakeCache) Health(ctx context.Context) error { return nil }
func (c *fakeCache) Close() error                     { return nil }

// fakeQueue records jobs; drain runs them through the service processors.
type fakeQueue struct {
	mu         sync.Mutex
	audits     []interfaces.AuditJob
	refreshes  []interfaces.SeatRefreshJob
	mirrorJobs []interfaces.WaitlistMirrorJob
	service    serviceInterfaces.EnrollmentService
}

func (q *fakeQueue) EnqueueAudit(ctx context.Context, job interfaces.AuditJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.audits = append(q.audits, job)
	return nil
}

func (q *fakeQueue) EnqueueSeatRefresh(ctx context.Context, job interfaces.SeatRefreshJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.refreshes = append(q.refreshes, job)
	return nil
}

func (q *fakeQueue) EnqueueWaitlistMirror(ctx context.Context, job interfaces.WaitlistMirrorJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.mirrorJobs = append(q.mirrorJobs, job)
	return nil
}

func (q *fakeQueue) SetEnrollmentService(service interface{}) {
	if s, ok := service.(serviceInterfaces.EnrollmentService); ok {
		q.service = s
	}
}

func (q *fakeQueue) StartWorkers() {}
func (q *fakeQueue) StopWorkers()  {}

func (q *fakeQueue) drain(ctx context.Context) error {
	q.mu.Lock()
	audits := q.audits
	refreshes := q.refreshes
	mirrorJobs := q.mirrorJobs
	q.audits = nil
	q.refreshes = nil
	q.mirrorJobs = nil
	q.mu.Unlock()

	for _, job := range audits {
		if err := q.service.ProcessAuditJob(ctx, job); err != nil {
			return err
		}
	}
	for _, job := range refreshes {
		if err := q.service.ProcessSeatRefreshJob(ctx, job); err != nil {
			return err
		}
	}
	for _, job := range mirrorJobs {
		if err := q.service.ProcessWaitlistMirrorJob(ctx, job); err != nil {
			return err
		}
	}
	return nil
}
