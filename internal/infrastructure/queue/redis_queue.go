package queue

import (
	"activity-registration/internal/config"
	interfaces "activity-registration/internal/interfaces/infrastructure"
	serviceInterfaces "activity-registration/internal/interfaces/service"
	"activity-registration/pkg/logger"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	auditQueueKey       = "queue:audit"
	seatRefreshQueueKey = "queue:seat_refresh"
	mirrorQueueKey      = "queue:waitlist_mirror"

	dequeueTimeout = 2 * time.Second
	jobTimeout     = 30 * time.Second
)

// RedisQueue is the Redis-list-backed job queue. Jobs survive process
// restarts, unlike the in-memory queue.
type RedisQueue struct {
	client redis.UniversalClient

	workers int
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
	mu      sync.RWMutex

	enrollmentService serviceInterfaces.EnrollmentService
}

func NewRedisQueue(cfg *config.CacheConfig, workers int) interfaces.QueueService {
	ctx, cancel := context.WithCancel(context.Background())

	rdb := redis.NewClient(&redis.Options{
		Addr:        fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:    cfg.Password,
		DB:          cfg.DB,
		MaxRetries:  cfg.MaxRetries,
		PoolSize:    cfg.PoolSize,
		PoolTimeout: time.Duration(cfg.PoolTimeout) * time.Second,
		IdleTimeout: time.Duration(cfg.IdleTimeout) * time.Second,
	})

	return &RedisQueue{
		client:  rdb,
		workers: workers,
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (rq *RedisQueue) SetEnrollmentService(service interface{}) {
	rq.mu.Lock()
	defer rq.mu.Unlock()

	if svc, ok := service.(serviceInterfaces.EnrollmentService); ok {
		rq.enrollmentService = svc
	} else {
		logger.Error("Invalid service type provided to SetEnrollmentService")
	}
}

func (rq *RedisQueue) StartWorkers() {
	rq.mu.Lock()
	defer rq.mu.Unlock()

	if rq.started {
		return
	}

	if rq.enrollmentService == nil {
		logger.Warn("Enrollment service not set, workers cannot process jobs")
		return
	}

	logger.Info("Starting %d Redis queue workers", rq.workers)

	for i := 0; i < rq.workers; i++ {
		rq.wg.Add(1)
		go rq.worker(i)
	}

	rq.started = true
}

func (rq *RedisQueue) StopWorkers() {
	rq.mu.Lock()
	defer rq.mu.Unlock()

	if !rq.started {
		return
	}

	logger.Info("Stopping Redis queue workers...")
	rq.cancel()
	rq.wg.Wait()
	rq.started = false
	logger.Info("Redis queue workers stopped")
}

func (rq *RedisQueue) EnqueueAudit(ctx context.Context, job interfaces.AuditJob) error {
	return rq.push(ctx, auditQueueKey, job)
}

func (rq *RedisQueue) EnqueueSeatRefresh(ctx context.Context, job interfaces.SeatRefreshJob) error {
	return rq.push(ctx, seatRefreshQueueKey, job)
}

func (rq *RedisQueue) EnqueueWaitlistMirror(ctx context.Context, job interfaces.WaitlistMirrorJob) error {
	return rq.push(ctx, mirrorQueueKey, job)
}

func (rq *RedisQueue) push(ctx context.Context, key string, job interface{}) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	if err := rq.client.LPush(ctx, key, data).Err(); err != nil {
		return fmt.Errorf("failed to enqueue job to %s: %w", key, err)
	}
	return nil
}

func (rq *RedisQueue) worker(workerID int) {
	defer rq.wg.Done()

	logger.Info("Redis queue worker %d started", workerID)

	for {
		select {
		case <-rq.ctx.Done():
			logger.Info("Redis queue worker %d stopped", workerID)
			return
		default:
			rq.poll(workerID)
		}
	}
}

func (rq *RedisQueue) poll(workerID int) {
	// BRPOP blocks across all three queues at once.
	result, err := rq.client.BRPop(rq.ctx, dequeueTimeout, auditQueueKey, seatRefreshQueueKey, mirrorQueueKey).Result()
	if err != nil {
		if err == redis.Nil || rq.ctx.Err() != nil {
			return
		}
		logger.Error("Redis queue worker %d dequeue error: %v", workerID, err)
		time.Sleep(time.Second)
		return
	}

	if len(result) != 2 {
		return
	}
	key, payload := result[0], result[1]

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	var jobType interfaces.JobType
	var jobErr error
	switch key {
	case auditQueueKey:
		jobType = interfaces.JobTypeRecordConflict
		var job interfaces.AuditJob
		if jobErr = json.Unmarshal([]byte(payload), &job); jobErr == nil {
			jobErr = rq.enrollmentService.ProcessAuditJob(ctx, job)
		}
	case seatRefreshQueueKey:
		jobType = interfaces.JobTypeRefreshSeats
		var job interfaces.SeatRefreshJob
		if jobErr = json.Unmarshal([]byte(payload), &job); jobErr == nil {
			jobErr = rq.enrollmentService.ProcessSeatRefreshJob(ctx, job)
		}
	case mirrorQueueKey:
		jobType = interfaces.JobTypeMirrorWaitlist
		var job interfaces.WaitlistMirrorJob
		if jobErr = json.Unmarshal([]byte(payload), &job); jobErr == nil {
			jobErr = rq.enrollmentService.ProcessWaitlistMirrorJob(ctx, job)
		}
	default:
		jobErr = fmt.Errorf("unknown queue key: %s", key)
	}

	if jobErr != nil {
		logger.Error("Redis queue worker %d failed to process %s job: %v", workerID, jobType, jobErr)
	}
}
