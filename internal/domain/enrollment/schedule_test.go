package domain

import "testing"

func slot(day, start, end int) ActivitySchedule {
	return ActivitySchedule{DayOfWeek: day, StartMinute: start, EndMinute: end, Active: true}
}

func TestSchedule_Overlaps(t *testing.T) {
	base := slot(1, 16*60, 17*60)

	tests := []struct {
		name  string
		other ActivitySchedule
		want  bool
	}{
		{"identical slot", slot(1, 16*60, 17*60), true},
		{"partial overlap front", slot(1, 15*60+30, 16*60+30), true},
		{"partial overlap back", slot(1, 16*60+30, 17*60+30), true},
		{"contained", slot(1, 16*60+15, 16*60+45), true},
		{"containing", slot(1, 15*60, 18*60), true},
		{"adjacent before", slot(1, 15*60, 16*60), false},
		{"adjacent after", slot(1, 17*60, 18*60), false},
		{"different day same time", slot(2, 16*60, 17*60), false},
		{"disjoint", slot(1, 9*60, 10*60), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Overlaps(tt.other); got != tt.want {
				t.Errorf("Overlaps(%s vs %s) = %v, want %v", base.Slot(), tt.other.Slot(), got, tt.want)
			}
			// Overlap is symmetric
			if got := tt.other.Overlaps(base); got != tt.want {
				t.Errorf("Overlaps is not symmetric for %s vs %s", tt.other.Slot(), base.Slot())
			}
		})
	}
}

func TestFindOverlap_SkipsInactiveSlots(t *testing.T) {
	inactive := slot(1, 16*60, 17*60)
	inactive.Active = false

	target := []ActivitySchedule{slot(1, 16*60, 17*60)}
	existing := []ActivitySchedule{inactive}

	if a, b := FindOverlap(target, existing); a != nil || b != nil {
		t.Error("Expected no overlap against an inactive slot")
	}

	existing = append(existing, slot(1, 16*60+30, 17*60+30))
	a, b := FindOverlap(target, existing)
	if a == nil || b == nil {
		t.Fatal("Expected overlap against the active slot")
	}
	if b.StartMinute != 16*60+30 {
		t.Errorf("Expected overlap against the active slot, got %s", b.Slot())
	}
}

func TestParseClock(t *testing.T) {
	minute, err := ParseClock("16:05")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if minute != 16*60+5 {
		t.Errorf("Expected %d, got %d", 16*60+5, minute)
	}

	if _, err := ParseClock("25:00"); err == nil {
		t.Error("Expected error for invalid clock value")
	}
	if _, err := ParseClock("noon"); err == nil {
		t.Error("Expected error for non-numeric clock value")
	}
}

func TestSchedule_Slot(t *testing.T) {
	s := slot(1, 16*60, 17*60)
	if got := s.Slot(); got != "Mon 16:00-17:00" {
		t.Errorf("Expected 'Mon 16:00-17:00', got %q", got)
	}
}
