package domain

import "errors"

// Recoverable, user-facing failures of the enrollment core. Handlers map
// these onto HTTP status codes; anything not in this set is an internal
// failure and rolls the transaction back.
var (
	ErrNotFound          = errors.New("not found")
	ErrStudentInactive   = errors.New("student is not in active status")
	ErrActivityInactive  = errors.New("activity is not open for registration")
	ErrAlreadyEnrolled   = errors.New("student already holds an enrollment for this activity")
	ErrGradeRestriction  = errors.New("student grade level outside activity bounds")
	ErrAgeRestriction    = errors.New("student age outside activity bounds")
	ErrScheduleConflict  = errors.New("schedule conflicts with an existing enrollment")
	ErrInvalidStatus     = errors.New("unrecognized enrollment status")
	ErrInvalidTransition = errors.New("illegal enrollment status transition")
)
