package service

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// requestHash fingerprints the semantic content of a registration request so
// a reused idempotency key with a different body is not replayed.
func requestHash(req *RegisterRequest) string {
	payload := fmt.Sprintf("%s:%s:%s", req.StudentID, req.ActivityID, req.Notes)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}
