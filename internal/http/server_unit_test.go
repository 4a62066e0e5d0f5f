package http

import (
	"testing"
	"time"

	"github.com/nazeerbeaig7/bus-monitor-system/internal/model"
)

func TestBusesRunningOn(t *testing.T) {
	weekdayBus := model.Bus{BusID: "BUS101", Schedule: model.DefaultSchedule()}
	saturdayBus := model.Bus{BusID: "BUS202", Schedule: []model.ScheduleEntry{
		{Time: "9:00 AM", Departure: "Campus", Arrival: "Mall", Days: []string{"Sat"}},
	}}
	idleBus := model.Bus{BusID: "BUS303"}
	buses := []model.Bus{weekdayBus, saturdayBus, idleBus}

	monday := busesRunningOn(buses, "Mon")
	if len(monday) != 1 || monday[0].BusID != "BUS101" {
		t.Fatalf("expected only BUS101 on Mon, got %v", monday)
	}
	saturday := busesRunningOn(buses, "Sat")
	if len(saturday) != 1 || saturday[0].BusID != "BUS202" {
		t.Fatalf("expected only BUS202 on Sat, got %v", saturday)
	}
	if sunday := busesRunningOn(buses, "Sun"); len(sunday) != 0 {
		t.Fatalf("expected no buses on Sun, got %v", sunday)
	}
}

func TestParseSeverity(t *testing.T) {
	cases := map[string]int{
		"1":    1,
		"5":    5,
		"":     model.DefaultComplaintSeverity,
		"high": model.DefaultComplaintSeverity,
	}
	for input, expect := range cases {
		if got := parseSeverity(input); got != expect {
			t.Fatalf("parseSeverity(%q): expected %d, got %d", input, expect, got)
		}
	}
}

func TestParseCoordinatePair(t *testing.T) {
	lat, lon, ok := parseCoordinatePair("12.97", "77.59")
	if !ok || lat != 12.97 || lon != 77.59 {
		t.Fatalf("expected valid pair, got %v %v %v", lat, lon, ok)
	}
	if _, _, ok := parseCoordinatePair("12.97", ""); ok {
		t.Fatalf("expected half pair to be rejected")
	}
	if _, _, ok := parseCoordinatePair("", ""); ok {
		t.Fatalf("expected empty pair to be rejected")
	}
	if _, _, ok := parseCoordinatePair("north", "77.59"); ok {
		t.Fatalf("expected unparseable latitude to be rejected")
	}
}

func TestApplyLocationUpdateCurrentCoordinates(t *testing.T) {
	bus := model.Bus{CurrentLocation: "College Campus"}
	now := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

	changed := applyLocationUpdate(&bus, locationForm{CurrentLat: "12.97", CurrentLon: "77.59"}, now)
	if !changed {
		t.Fatalf("expected update to report a change")
	}
	if bus.CurrentCoordinates == nil || bus.CurrentCoordinates.Lat != 12.97 {
		t.Fatalf("expected coordinates to be set, got %+v", bus.CurrentCoordinates)
	}
	if bus.CurrentLocation != model.LocationUpdatedLabel {
		t.Fatalf("expected location sentinel, got %s", bus.CurrentLocation)
	}
	if len(bus.RecentActivity) != 1 || bus.RecentActivity[0].Action != "Location Updated" {
		t.Fatalf("expected a Location Updated activity, got %v", bus.RecentActivity)
	}
}

func TestApplyLocationUpdatePointsAreIndependent(t *testing.T) {
	var bus model.Bus
	now := time.Now().UTC()

	form := locationForm{
		BoardingLat: "12.90", BoardingLon: "77.50",
		DestinationLat: "13.00", DestinationLon: "77.70",
		DestinationPointName: "City Center",
	}
	if !applyLocationUpdate(&bus, form, now) {
		t.Fatalf("expected update to report a change")
	}
	if bus.BoardingPoint == nil || bus.BoardingPoint.Name != "Boarding Point" {
		t.Fatalf("expected default boarding point name, got %+v", bus.BoardingPoint)
	}
	if bus.DestinationPoint == nil || bus.DestinationPoint.Name != "City Center" {
		t.Fatalf("expected named destination point, got %+v", bus.DestinationPoint)
	}
	if bus.CurrentCoordinates != nil {
		t.Fatalf("expected current coordinates untouched")
	}
	if len(bus.RecentActivity) != 0 {
		t.Fatalf("expected no activity for point-only updates, got %v", bus.RecentActivity)
	}
}

func TestApplyLocationUpdateEmptyForm(t *testing.T) {
	bus := model.Bus{CurrentLocation: "College Campus"}
	if applyLocationUpdate(&bus, locationForm{}, time.Now().UTC()) {
		t.Fatalf("expected empty form to change nothing")
	}
	if bus.CurrentLocation != "College Campus" {
		t.Fatalf("expected location untouched, got %s", bus.CurrentLocation)
	}
}

func TestSplitEmbeddedFeedback(t *testing.T) {
	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	busA := model.Bus{ID: "a", BusID: "BUS101", BusName: "Campus Express", Feedback: []model.BusFeedbackEntry{
		{ID: "f1", Rating: 2, Timestamp: base},
		{ID: "f2", Rating: 5, Timestamp: base.Add(time.Hour)},
	}}
	busB := model.Bus{ID: "b", BusID: "BUS202", Feedback: []model.BusFeedbackEntry{
		{ID: "f3", Rating: 3, Timestamp: base.Add(2 * time.Hour)},
		{ID: "f4", Rating: 4, Timestamp: base.Add(3 * time.Hour)},
	}}

	complaints, positive := splitEmbeddedFeedback([]model.Bus{busA, busB})
	if len(complaints) != 2 || len(positive) != 2 {
		t.Fatalf("expected 2/2 split, got %d/%d", len(complaints), len(positive))
	}
	if complaints[0].ID != "f3" || complaints[1].ID != "f1" {
		t.Fatalf("expected complaints newest first, got %s,%s", complaints[0].ID, complaints[1].ID)
	}
	if positive[0].ID != "f4" || positive[1].ID != "f2" {
		t.Fatalf("expected positive feedback newest first, got %s,%s", positive[0].ID, positive[1].ID)
	}
	if complaints[1].Bus.BusName != "Campus Express" {
		t.Fatalf("expected bus annotation, got %+v", complaints[1].Bus)
	}
}

func TestDistinctRoutes(t *testing.T) {
	buses := []model.Bus{
		{Route: "Campus ↔ City Center"},
		{Route: "Campus ↔ Airport"},
		{Route: "Campus ↔ City Center"},
		{Route: ""},
	}
	routes := distinctRoutes(buses)
	if len(routes) != 2 {
		t.Fatalf("expected 2 routes, got %v", routes)
	}
	if routes[0] != "Campus ↔ City Center" || routes[1] != "Campus ↔ Airport" {
		t.Fatalf("expected first-seen order, got %v", routes)
	}
}

func TestBusDisplayName(t *testing.T) {
	if got := busDisplayName(model.Bus{BusID: "BUS101", BusName: "Campus Express"}); got != "Campus Express" {
		t.Fatalf("expected bus name, got %s", got)
	}
	if got := busDisplayName(model.Bus{BusID: "BUS101"}); got != "BUS101" {
		t.Fatalf("expected fallback to bus ID, got %s", got)
	}
}
