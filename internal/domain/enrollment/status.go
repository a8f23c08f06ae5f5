package domain

// ActivityStatus represents the administrative state of an activity
type ActivityStatus string

const (
	ActivityActive    ActivityStatus = "active"
	ActivityInactive  ActivityStatus = "inactive"
	ActivityCancelled ActivityStatus = "cancelled"
)

// EnrollmentStatus represents the lifecycle state of an enrollment
type EnrollmentStatus string

const (
	StatusActive    EnrollmentStatus = "active"
	StatusApproved  EnrollmentStatus = "approved"
	StatusRejected  EnrollmentStatus = "rejected"
	StatusWithdrawn EnrollmentStatus = "withdrawn"
	StatusCompleted EnrollmentStatus = "completed"
)

// ParseEnrollmentStatus returns the status for s, or false if s names no
// known status.
func ParseEnrollmentStatus(s string) (EnrollmentStatus, bool) {
	switch EnrollmentStatus(s) {
	case StatusActive, StatusApproved, StatusRejected, StatusWithdrawn, StatusCompleted:
		return EnrollmentStatus(s), true
	}
	return "", false
}

var legalTransitions = map[EnrollmentStatus][]EnrollmentStatus{
	StatusActive:   {StatusApproved, StatusRejected, StatusWithdrawn, StatusCompleted},
	StatusApproved: {StatusWithdrawn, StatusCompleted},
}

// CanTransitionTo reports whether moving from s to next is a legal lifecycle
// transition. Rejected, withdrawn and completed are terminal.
func (s EnrollmentStatus) CanTransitionTo(next EnrollmentStatus) bool {
	for _, allowed := range legalTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// HoldsSeat reports whether an enrollment in this status counts against the
// activity quota.
func (s EnrollmentStatus) HoldsSeat() bool {
	return s == StatusActive || s == StatusApproved
}

// Terminal reports whether the status ends the row's lifecycle.
func (s EnrollmentStatus) Terminal() bool {
	return s == StatusRejected || s == StatusWithdrawn || s == StatusCompleted
}

// WaitlistStatus represents the state of a waitlist entry
type WaitlistStatus string

const (
	WaitlistWaiting   WaitlistStatus = "waiting"
	WaitlistNotified  WaitlistStatus = "notified"
	WaitlistPromoted  WaitlistStatus = "promoted"
	WaitlistExpired   WaitlistStatus = "expired"
	WaitlistCancelled WaitlistStatus = "cancelled"
)

// ConflictType classifies an audit-logged registration conflict
type ConflictType string

const (
	ConflictTimeOverlap      ConflictType = "time_overlap"
	ConflictVenue            ConflictType = "venue_conflict"
	ConflictAgeRestriction   ConflictType = "age_restriction"
	ConflictGradeRestriction ConflictType = "grade_restriction"
	ConflictQuotaFull        ConflictType = "quota_full"
)
