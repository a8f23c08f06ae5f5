package domain

import (
	"time"

	"github.com/google/uuid"
)

// Student is a registered student able to enroll in activities
type Student struct {
	StudentID     uuid.UUID `json:"student_id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	StudentNumber string    `json:"student_number" gorm:"unique;not null"`
	FullName      string    `json:"full_name" gorm:"not null"`
	GradeLevel    int       `json:"grade_level" gorm:"not null"`
	Status        string    `json:"status" gorm:"not null;default:active"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Activity is an extracurricular offering with a fixed quota and weekly schedule
type Activity struct {
	ActivityID        uuid.UUID          `json:"activity_id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Name              string             `json:"name" gorm:"not null"`
	Category          string             `json:"category"`
	CoachName         string             `json:"coach_name"`
	Venue             string             `json:"venue"`
	ScheduleText      string             `json:"schedule_text"`
	Quota             int                `json:"quota" gorm:"not null;check:quota >= 0"`
	RegistrationStart *time.Time         `json:"registration_start"`
	RegistrationEnd   *time.Time         `json:"registration_end"`
	Status            ActivityStatus     `json:"status" gorm:"type:text;not null;default:active"`
	MinGrade          *int               `json:"min_grade"`
	MaxGrade          *int               `json:"max_grade"`
	CreatedAt         time.Time          `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt         time.Time          `json:"updated_at" gorm:"autoUpdateTime"`
	Schedules         []ActivitySchedule `json:"schedules,omitempty" gorm:"foreignKey:ActivityID"`
}

// RegistrationOpen reports whether the activity accepts new registrations at t.
// A nil window bound means the bound is not enforced.
func (a *Activity) RegistrationOpen(t time.Time) bool {
	if a.Status != ActivityActive {
		return false
	}
	if a.RegistrationStart != nil && t.Before(*a.RegistrationStart) {
		return false
	}
	if a.RegistrationEnd != nil && t.After(*a.RegistrationEnd) {
		return false
	}
	return true
}

// AllowsGrade reports whether gradeLevel falls inside the activity's
// eligibility bounds. Unset bounds do not restrict.
func (a *Activity) AllowsGrade(gradeLevel int) bool {
	if a.MinGrade != nil && gradeLevel < *a.MinGrade {
		return false
	}
	if a.MaxGrade != nil && gradeLevel > *a.MaxGrade {
		return false
	}
	return true
}

// Enrollment is the lifecycle record between one student and one activity.
// At most one row per (student, activity) pair may hold a seat at a time;
// terminal rows remain as history.
type Enrollment struct {
	EnrollmentID uuid.UUID        `json:"enrollment_id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	StudentID    uuid.UUID        `json:"student_id" gorm:"type:uuid;not null"`
	ActivityID   uuid.UUID        `json:"activity_id" gorm:"type:uuid;not null"`
	Status       EnrollmentStatus `json:"status" gorm:"type:text;not null;default:active"`
	GradeLevel   int              `json:"grade_level" gorm:"not null"`
	Notes        string           `json:"notes"`
	Remark       *string          `json:"remark"`
	EnrolledAt   time.Time        `json:"enrolled_at" gorm:"not null"`
	CancelledAt  *time.Time       `json:"cancelled_at"`
	CancelReason *string          `json:"cancel_reason"`
	CreatedAt    time.Time        `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time        `json:"updated_at" gorm:"autoUpdateTime"`
	Student      Student          `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Activity     Activity         `json:"activity,omitempty" gorm:"foreignKey:ActivityID"`
}

// WaitlistEntry is a student's place in line for a full activity.
// Promotion order: highest priority first, then lowest position.
type WaitlistEntry struct {
	WaitlistID uuid.UUID      `json:"waitlist_id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	StudentID  uuid.UUID      `json:"student_id" gorm:"type:uuid;not null"`
	ActivityID uuid.UUID      `json:"activity_id" gorm:"type:uuid;not null"`
	GradeLevel int            `json:"grade_level" gorm:"not null"`
	Position   int            `json:"position" gorm:"not null"`
	Priority   int            `json:"priority" gorm:"not null;default:0"`
	Status     WaitlistStatus `json:"status" gorm:"type:text;not null;default:waiting"`
	AddedAt    time.Time      `json:"added_at" gorm:"not null"`
	PromotedAt *time.Time     `json:"promoted_at"`
	CreatedAt  time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	Student    Student        `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Activity   Activity       `json:"activity,omitempty" gorm:"foreignKey:ActivityID"`
}

// ConflictRecord is an append-only audit row for rejected attempts and
// scheduling anomalies. Nothing reads it back for control flow.
type ConflictRecord struct {
	ConflictID            uuid.UUID    `json:"conflict_id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	StudentID             uuid.UUID    `json:"student_id" gorm:"type:uuid;not null"`
	ActivityID            uuid.UUID    `json:"activity_id" gorm:"type:uuid;not null"`
	ConflictingActivityID *uuid.UUID   `json:"conflicting_activity_id" gorm:"type:uuid"`
	ConflictingScheduleID *uuid.UUID   `json:"conflicting_schedule_id" gorm:"type:uuid"`
	ConflictType          ConflictType `json:"conflict_type" gorm:"type:text;not null"`
	Detail                string       `json:"detail"`
	Resolved              bool         `json:"resolved" gorm:"not null;default:false"`
	CreatedAt             time.Time    `json:"created_at" gorm:"autoCreateTime"`
}
