package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ActivitySchedule is one weekly slot of an activity. Times are minutes since
// midnight; StartMinute < EndMinute always holds for persisted rows.
type ActivitySchedule struct {
	ScheduleID  uuid.UUID  `json:"schedule_id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	ActivityID  uuid.UUID  `json:"activity_id" gorm:"type:uuid;not null"`
	DayOfWeek   int        `json:"day_of_week" gorm:"not null;check:day_of_week >= 0 AND day_of_week <= 6"`
	StartMinute int        `json:"start_minute" gorm:"not null"`
	EndMinute   int        `json:"end_minute" gorm:"not null;check:end_minute > start_minute"`
	ValidFrom   *time.Time `json:"valid_from"`
	ValidUntil  *time.Time `json:"valid_until"`
	Active      bool       `json:"active" gorm:"not null;default:true"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// Overlaps reports whether two weekly slots collide. Intervals are half-open,
// so a slot ending at 17:00 does not overlap one starting at 17:00.
func (s ActivitySchedule) Overlaps(other ActivitySchedule) bool {
	if s.DayOfWeek != other.DayOfWeek {
		return false
	}
	return s.StartMinute < other.EndMinute && other.StartMinute < s.EndMinute
}

// Slot renders the schedule as "Mon 16:00-17:00" for messages and logs.
func (s ActivitySchedule) Slot() string {
	return fmt.Sprintf("%s %s-%s",
		time.Weekday(s.DayOfWeek).String()[:3],
		formatClock(s.StartMinute),
		formatClock(s.EndMinute))
}

func formatClock(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

// ParseClock converts "16:05" into minutes since midnight.
func ParseClock(clock string) (int, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q: %w", clock, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ScheduleConflict describes one detected overlap between the activity a
// student is joining and an activity they already hold a seat in.
type ScheduleConflict struct {
	ActivityID   uuid.UUID        `json:"activity_id"`
	ActivityName string           `json:"activity_name"`
	Schedule     ActivitySchedule `json:"schedule"`
	Against      ActivitySchedule `json:"against"`
}

// FindOverlap returns the first colliding pair between target and existing
// slots, or nil when every pair is disjoint. Inactive slots are skipped.
func FindOverlap(target, existing []ActivitySchedule) (*ActivitySchedule, *ActivitySchedule) {
	for i := range target {
		if !target[i].Active {
			continue
		}
		for j := range existing {
			if !existing[j].Active {
				continue
			}
			if target[i].Overlaps(existing[j]) {
				return &target[i], &existing[j]
			}
		}
	}
	return nil, nil
}
