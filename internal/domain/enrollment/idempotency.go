package domain

import (
	"time"

	"github.com/google/uuid"
)

// IdempotencyKey stores the outcome of a processed registration request so a
// retried request with the same key replays the original response.
type IdempotencyKey struct {
	Key          string    `json:"key"`
	StudentID    uuid.UUID `json:"student_id"`
	RequestHash  string    `json:"request_hash"`
	ResponseData string    `json:"response_data"`
	StatusCode   int       `json:"status_code"`
	ProcessedAt  time.Time `json:"processed_at"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}

func (k *IdempotencyKey) IsExpired() bool {
	return time.Now().After(k.ExpiresAt)
}
