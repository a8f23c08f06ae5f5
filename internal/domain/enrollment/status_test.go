package domain

import (
	"testing"
	"time"
)

func TestEnrollmentStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from EnrollmentStatus
		to   EnrollmentStatus
		want bool
	}{
		{StatusActive, StatusApproved, true},
		{StatusActive, StatusRejected, true},
		{StatusActive, StatusWithdrawn, true},
		{StatusActive, StatusCompleted, true},
		{StatusApproved, StatusWithdrawn, true},
		{StatusApproved, StatusCompleted, true},
		{StatusApproved, StatusActive, false},
		{StatusApproved, StatusRejected, false},
		{StatusRejected, StatusActive, false},
		{StatusWithdrawn, StatusActive, false},
		{StatusCompleted, StatusWithdrawn, false},
		{StatusActive, StatusActive, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestEnrollmentStatus_HoldsSeat(t *testing.T) {
	holding := []EnrollmentStatus{StatusActive, StatusApproved}
	for _, s := range holding {
		if !s.HoldsSeat() {
			t.Errorf("Expected %s to hold a seat", s)
		}
	}
	for _, s := range []EnrollmentStatus{StatusRejected, StatusWithdrawn, StatusCompleted} {
		if s.HoldsSeat() {
			t.Errorf("Expected %s not to hold a seat", s)
		}
		if !s.Terminal() {
			t.Errorf("Expected %s to be terminal", s)
		}
	}
}

func TestParseEnrollmentStatus(t *testing.T) {
	if _, ok := ParseEnrollmentStatus("approved"); !ok {
		t.Error("Expected 'approved' to parse")
	}
	if _, ok := ParseEnrollmentStatus("pending"); ok {
		t.Error("Expected 'pending' not to parse")
	}
	if _, ok := ParseEnrollmentStatus(""); ok {
		t.Error("Expected empty string not to parse")
	}
}

func TestActivity_RegistrationOpen(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	open := &Activity{Status: ActivityActive, RegistrationStart: &past, RegistrationEnd: &future}
	if !open.RegistrationOpen(now) {
		t.Error("Expected activity inside its window to be open")
	}

	unbounded := &Activity{Status: ActivityActive}
	if !unbounded.RegistrationOpen(now) {
		t.Error("Expected activity without window bounds to be open")
	}

	notStarted := &Activity{Status: ActivityActive, RegistrationStart: &future}
	if notStarted.RegistrationOpen(now) {
		t.Error("Expected activity before its window to be closed")
	}

	ended := &Activity{Status: ActivityActive, RegistrationEnd: &past}
	if ended.RegistrationOpen(now) {
		t.Error("Expected activity past its window to be closed")
	}

	inactive := &Activity{Status: ActivityInactive, RegistrationStart: &past, RegistrationEnd: &future}
	if inactive.RegistrationOpen(now) {
		t.Error("Expected inactive activity to be closed regardless of window")
	}
}

func TestActivity_AllowsGrade(t *testing.T) {
	min, max := 3, 6
	bounded := &Activity{MinGrade: &min, MaxGrade: &max}

	if bounded.AllowsGrade(2) {
		t.Error("Expected grade below minimum to be rejected")
	}
	if !bounded.AllowsGrade(3) || !bounded.AllowsGrade(6) {
		t.Error("Expected boundary grades to be accepted")
	}
	if bounded.AllowsGrade(7) {
		t.Error("Expected grade above maximum to be rejected")
	}

	unbounded := &Activity{}
	if !unbounded.AllowsGrade(1) || !unbounded.AllowsGrade(12) {
		t.Error("Expected unbounded activity to accept any grade")
	}
}
