package cache

import (
	"activity-registration/internal/config"
	domain "activity-registration/internal/domain/enrollment"
	interfaces "activity-registration/internal/interfaces/infrastructure"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

var _ interfaces.CacheService = (*RedisCache)(nil)

type RedisCache struct {
	client redis.UniversalClient
}

func NewRedisCache(addr, password string, db int) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisCache{
		client: rdb,
	}
}

func NewRedisCacheWithConfig(cfg *config.CacheConfig) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:        fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:    cfg.Password,
		DB:          cfg.DB,
		MaxRetries:  cfg.MaxRetries,
		PoolSize:    cfg.PoolSize,
		PoolTimeout: time.Duration(cfg.PoolTimeout) * time.Second,
		IdleTimeout: time.Duration(cfg.IdleTimeout) * time.Second,
	})

	return &RedisCache{
		client: rdb,
	}
}

func (r *RedisCache) GetClient() redis.UniversalClient {
	return r.client
}

// Seat snapshot

func (r *RedisCache) GetSeatSnapshot(ctx context.Context, activityID uuid.UUID) (int, error) {
	key := fmt.Sprintf("activity:seats:%s", activityID.String())

	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return -1, fmt.Errorf("activity seats not cached")
		}
		return -1, fmt.Errorf("failed to get seats from cache: %w", err)
	}

	seats, err := strconv.Atoi(val)
	if err != nil {
		return -1, fmt.Errorf("invalid seats value in cache: %w", err)
	}

	return seats, nil
}

func (r *RedisCache) SetSeatSnapshot(ctx context.Context, activityID uuid.UUID, seats int, ttl time.Duration) error {
	key := fmt.Sprintf("activity:seats:%s", activityID.String())

	if err := r.client.Set(ctx, key, seats, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set seats in cache: %w", err)
	}
	return nil
}

// Student enrollments

func (r *RedisCache) GetStudentEnrollments(ctx context.Context, studentID uuid.UUID) ([]*domain.Enrollment, error) {
	key := fmt.Sprintf("student:enrollments:%s", studentID.String())

	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("student enrollments not cached")
		}
		return nil, fmt.Errorf("failed to get student enrollments: %w", err)
	}

	var enrollments []*domain.Enrollment
	if err := json.Unmarshal([]byte(val), &enrollments); err != nil {
		return nil, fmt.Errorf("failed to unmarshal student enrollments: %w", err)
	}
	return enrollments, nil
}

func (r *RedisCache) SetStudentEnrollments(ctx context.Context, studentID uuid.UUID, enrollments []*domain.Enrollment, ttl time.Duration) error {
	key := fmt.Sprintf("student:enrollments:%s", studentID.String())

	data, err := json.Marshal(enrollments)
	if err != nil {
		return fmt.Errorf("failed to marshal student enrollments: %w", err)
	}

	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set student enrollments: %w", err)
	}
	return nil
}

func (r *RedisCache) InvalidateStudentEnrollments(ctx context.Context, studentID uuid.UUID) error {
	key := fmt.Sprintf("student:enrollments:%s", studentID.String())
	return r.client.Del(ctx, key).Err()
}

// Activity details

func (r *RedisCache) GetActivityDetails(ctx context.Context, activityID uuid.UUID) (*domain.Activity, error) {
	key := fmt.Sprintf("activity:details:%s", activityID.String())

	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("activity details not cached")
		}
		return nil, fmt.Errorf("failed to get activity details: %w", err)
	}

	var activity domain.Activity
	if err := json.Unmarshal([]byte(val), &activity); err != nil {
		return nil, fmt.Errorf("failed to unmarshal activity details: %w", err)
	}
	return &activity, nil
}

func (r *RedisCache) SetActivityDetails(ctx context.Context, activityID uuid.UUID, activity *domain.Activity, ttl time.Duration) error {
	key := fmt.Sprintf("activity:details:%s", activityID.String())

	data, err := json.Marshal(activity)
	if err != nil {
		return fmt.Errorf("failed to marshal activity details: %w", err)
	}

	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set activity details: %w", err)
	}
	return nil
}

// Waitlist mirror. Score encodes the promotion order used by the database
// query (priority DESC, position ASC): lower score ranks first.

func mirrorScore(entry *domain.WaitlistEntry) float64 {
	return float64(entry.Position) - float64(entry.Priority)*1e9
}

func (r *RedisCache) MirrorWaitlistAdd(ctx context.Context, entry *domain.WaitlistEntry) error {
	waitlistKey := fmt.Sprintf("waitlist:activity:%s", entry.ActivityID.String())
	entryKey := fmt.Sprintf("waitlist:entry:%s:%s", entry.ActivityID.String(), entry.StudentID.String())

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal waitlist entry: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.ZAdd(ctx, waitlistKey, &redis.Z{
		Score:  mirrorScore(entry),
		Member: entry.StudentID.String(),
	})
	pipe.Set(ctx, entryKey, data, 24*time.Hour)
	pipe.Expire(ctx, waitlistKey, 24*time.Hour)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to mirror waitlist entry: %w", err)
	}
	return nil
}

func (r *RedisCache) MirrorWaitlistRemove(ctx context.Context, activityID, studentID uuid.UUID) error {
	waitlistKey := fmt.Sprintf("waitlist:activity:%s", activityID.String())
	entryKey := fmt.Sprintf("waitlist:entry:%s:%s", activityID.String(), studentID.String())

	pipe := r.client.Pipeline()
	pipe.ZRem(ctx, waitlistKey, studentID.String())
	pipe.Del(ctx, entryKey)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to remove mirrored waitlist entry: %w", err)
	}
	return nil
}

// WaitlistPosition returns the 1-based rank in promotion order, or -1 when
// the student is not mirrored.
func (r *RedisCache) WaitlistPosition(ctx context.Context, activityID, studentID uuid.UUID) (int, error) {
	waitlistKey := fmt.Sprintf("waitlist:activity:%s", activityID.String())

	rank, err := r.client.ZRank(ctx, waitlistKey, studentID.String()).Result()
	if err != nil {
		if err == redis.Nil {
			return -1, nil
		}
		return -1, fmt.Errorf("failed to get waitlist rank: %w", err)
	}
	return int(rank) + 1, nil
}

func (r *RedisCache) WaitlistSize(ctx context.Context, activityID uuid.UUID) (int, error) {
	waitlistKey := fmt.Sprintf("waitlist:activity:%s", activityID.String())

	count, err := r.client.ZCard(ctx, waitlistKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get waitlist size: %w", err)
	}
	return int(count), nil
}

func (r *RedisCache) Health(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}
