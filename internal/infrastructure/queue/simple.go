package queue

import (
	interfaces "activity-registration/internal/interfaces/infrastructure"
	serviceInterfaces "activity-registration/internal/interfaces/service"
	"activity-registration/pkg/logger"
	"context"
	"fmt"
	"sync"
	"time"
)

// Queue is the channel-backed job queue used when no Redis broker is
// configured. Jobs here are side effects only (audit rows, cache refresh,
// waitlist mirror); losing one on shutdown affects diagnostics, never
// enrollment correctness.
type Queue struct {
	auditQueue       chan interfaces.AuditJob
	seatRefreshQueue chan interfaces.SeatRefreshJob
	mirrorQueue      chan interfaces.WaitlistMirrorJob

	workers int
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
	mu      sync.RWMutex

	enrollmentService serviceInterfaces.EnrollmentService
}

func NewInMemoryQueue(bufferSize, workers int) interfaces.QueueService {
	ctx, cancel := context.WithCancel(context.Background())

	return &Queue{
		auditQueue:       make(chan interfaces.AuditJob, bufferSize),
		seatRefreshQueue: make(chan interfaces.SeatRefreshJob, bufferSize),
		mirrorQueue:      make(chan interfaces.WaitlistMirrorJob, bufferSize),
		workers:          workers,
		ctx:              ctx,
		cancel:           cancel,
	}
}

func (q *Queue) SetEnrollmentService(service interface{}) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if svc, ok := service.(serviceInterfaces.EnrollmentService); ok {
		q.enrollmentService = svc
	} else {
		logger.Error("Invalid service type provided to SetEnrollmentService")
	}
}

func (q *Queue) StartWorkers() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.started {
		return
	}

	if q.enrollmentService == nil {
		logger.Warn("Enrollment service not set, workers cannot process jobs")
		return
	}

	logger.Info("Starting %d queue workers", q.workers)

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(i)
	}

	q.started = true
}

func (q *Queue) StopWorkers() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.started {
		return
	}

	logger.Info("Stopping queue workers...")
	q.cancel()
	q.wg.Wait()
	q.started = false
	logger.Info("Queue workers stopped")
}

func (q *Queue) EnqueueAudit(ctx context.Context, job interfaces.AuditJob) error {
	select {
	case q.auditQueue <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("audit queue is full")
	}
}

func (q *Queue) EnqueueSeatRefresh(ctx context.Context, job interfaces.SeatRefreshJob) error {
	select {
	case q.seatRefreshQueue <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("seat refresh queue is full")
	}
}

func (q *Queue) EnqueueWaitlistMirror(ctx context.Context, job interfaces.WaitlistMirrorJob) error {
	select {
	case q.mirrorQueue <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("waitlist mirror queue is full")
	}
}

func (q *Queue) worker(workerID int) {
	defer q.wg.Done()

	logger.Info("Queue worker %d started", workerID)

	for {
		select {
		case <-q.ctx.Done():
			logger.Info("Queue worker %d stopped", workerID)
			return
		case job := <-q.auditQueue:
			q.runJob(workerID, interfaces.JobTypeRecordConflict, func(ctx context.Context) error {
				return q.enrollmentService.ProcessAuditJob(ctx, job)
			})
		case job := <-q.seatRefreshQueue:
			q.runJob(workerID, interfaces.JobTypeRefreshSeats, func(ctx context.Context) error {
				return q.enrollmentService.ProcessSeatRefreshJob(ctx, job)
			})
		case job := <-q.mirrorQueue:
			q.runJob(workerID, interfaces.JobTypeMirrorWaitlist, func(ctx context.Context) error {
				return q.enrollmentService.ProcessWaitlistMirrorJob(ctx, job)
			})
		}
	}
}

func (q *Queue) runJob(workerID int, jobType interfaces.JobType, fn func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := fn(ctx); err != nil {
		// Side-effect jobs fail silently toward the caller.
		logger.Error("Worker %d failed to process %s job: %v", workerID, jobType, err)
	}
}
