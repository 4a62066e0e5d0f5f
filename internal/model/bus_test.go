package model

import (
	"testing"
	"time"
)

func TestAddActivityCapsAtFive(t *testing.T) {
	var bus Bus
	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		bus.AddActivity("Bus Updated", "update", base.Add(time.Duration(i)*time.Minute))
	}
	if len(bus.RecentActivity) != MaxRecentActivity {
		t.Fatalf("expected %d entries, got %d", MaxRecentActivity, len(bus.RecentActivity))
	}
	// Newest first: the last insertion leads, the two oldest fell off.
	if !bus.RecentActivity[0].Timestamp.Equal(base.Add(6 * time.Minute)) {
		t.Fatalf("expected newest entry first, got %s", bus.RecentActivity[0].Timestamp)
	}
	if !bus.RecentActivity[4].Timestamp.Equal(base.Add(2 * time.Minute)) {
		t.Fatalf("expected oldest surviving entry last, got %s", bus.RecentActivity[4].Timestamp)
	}
}

func TestAddFeedbackPrependsUnbounded(t *testing.T) {
	var bus Bus
	for i := 0; i < 8; i++ {
		bus.AddFeedback(BusFeedbackEntry{ID: string(rune('a' + i))})
	}
	if len(bus.Feedback) != 8 {
		t.Fatalf("expected 8 entries, got %d", len(bus.Feedback))
	}
	if bus.Feedback[0].ID != "h" {
		t.Fatalf("expected newest entry first, got %s", bus.Feedback[0].ID)
	}
}

func TestRunsOn(t *testing.T) {
	bus := Bus{Schedule: DefaultSchedule()}
	if !bus.RunsOn("Mon") {
		t.Fatalf("expected weekday schedule to run on Mon")
	}
	if bus.RunsOn("Sat") {
		t.Fatalf("expected weekday schedule not to run on Sat")
	}
	if (&Bus{}).RunsOn("Mon") {
		t.Fatalf("expected empty schedule never to run")
	}
}

func TestWeekdayAbbrev(t *testing.T) {
	cases := map[string]time.Time{
		"Sun": time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		"Mon": time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		"Sat": time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC),
	}
	for expect, day := range cases {
		if got := WeekdayAbbrev(day); got != expect {
			t.Fatalf("expected %s, got %s", expect, got)
		}
	}
}

func TestDefaultSchedule(t *testing.T) {
	schedule := DefaultSchedule()
	if len(schedule) != 4 {
		t.Fatalf("expected 4 runs, got %d", len(schedule))
	}
	if schedule[0].Time != "7:45 AM" || schedule[0].Departure != "Bus Depot" {
		t.Fatalf("unexpected first run: %+v", schedule[0])
	}
	for _, entry := range schedule {
		if len(entry.Days) != 5 {
			t.Fatalf("expected weekday-only run, got %v", entry.Days)
		}
	}
}

func TestIsComplaint(t *testing.T) {
	for rating := 1; rating <= 5; rating++ {
		entry := BusFeedbackEntry{Rating: rating}
		if entry.IsComplaint() != (rating <= 3) {
			t.Fatalf("unexpected complaint classification for rating %d", rating)
		}
	}
}
