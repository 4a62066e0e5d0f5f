package model

import "time"

// MaxRecentActivity bounds the per-bus activity log. Insertions prepend and
// then truncate, so the log is always newest-first.
const MaxRecentActivity = 5

// LocationUpdatedLabel replaces the free-text location whenever a driver
// submits structured coordinates.
const LocationUpdatedLabel = "Updated via map"

// Coordinates is a live position sample on a bus.
type Coordinates struct {
	Lat         float64   `json:"lat"`
	Lon         float64   `json:"lon"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Point is a named fixed location (boarding point, destination point).
type Point struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// ScheduleEntry is one run in a bus's weekly schedule. Days holds weekday
// abbreviations ("Mon" .. "Sun").
type ScheduleEntry struct {
	Time      string   `json:"time"`
	Departure string   `json:"departure"`
	Arrival   string   `json:"arrival"`
	Days      []string `json:"days"`
}

// ActivityEntry is one line of the bounded recent-activity log.
type ActivityEntry struct {
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}

// BusFeedbackEntry is feedback embedded in the bus aggregate, as opposed to
// the standalone Feedback record.
type BusFeedbackEntry struct {
	ID             string     `json:"id"`
	StudentID      string     `json:"studentId"`
	StudentName    string     `json:"studentName"`
	Message        string     `json:"message"`
	Rating         int        `json:"rating"`
	Timestamp      time.Time  `json:"timestamp"`
	IsRead         bool       `json:"isRead"`
	Resolved       bool       `json:"resolved,omitempty"`
	ResolvedAt     *time.Time `json:"resolvedAt,omitempty"`
	ResolvedBy     string     `json:"resolvedBy,omitempty"`
	DriverResponse string     `json:"driverResponse,omitempty"`
	Status         string     `json:"status,omitempty"`
}

// IsComplaint reports whether the entry counts as a complaint for
// management reporting. Derived, never stored.
func (e BusFeedbackEntry) IsComplaint() bool {
	return e.Rating <= 3
}

// Bus is the aggregate root. It doubles as the driver's identity record:
// drivers log in with the human-assigned BusID and the hashed PIN.
type Bus struct {
	ID                 string             `json:"_id"`
	BusID              string             `json:"busId"`
	BusName            string             `json:"busName"`
	BusNumber          string             `json:"busNumber"`
	PlateNumber        string             `json:"plateNumber"`
	PINHash            string             `json:"-"`
	DriverName         string             `json:"driverName"`
	Route              string             `json:"route"`
	Capacity           int                `json:"capacity"`
	Notes              string             `json:"notes"`
	IsActive           bool               `json:"isActive"`
	CurrentLocation    string             `json:"currentLocation"`
	CurrentCoordinates *Coordinates       `json:"coordinates,omitempty"`
	BoardingPoint      *Point             `json:"boardingPoint,omitempty"`
	DestinationPoint   *Point             `json:"destinationPoint,omitempty"`
	Schedule           []ScheduleEntry    `json:"schedule"`
	RecentActivity     []ActivityEntry    `json:"recentActivity"`
	Feedback           []BusFeedbackEntry `json:"feedback"`
	LastMaintenance    *time.Time         `json:"lastMaintenanceDate,omitempty"`
	NextMaintenance    *time.Time         `json:"nextMaintenanceDate,omitempty"`
	FuelStatus         *int               `json:"fuelStatus,omitempty"`
	EngineHealth       *int               `json:"engineHealth,omitempty"`
	CreatedAt          time.Time          `json:"createdAt"`
}

// AddActivity prepends an entry and truncates the log to MaxRecentActivity.
func (b *Bus) AddActivity(action, details string, at time.Time) {
	b.RecentActivity = append([]ActivityEntry{{
		Action:    action,
		Details:   details,
		Timestamp: at,
	}}, b.RecentActivity...)
	if len(b.RecentActivity) > MaxRecentActivity {
		b.RecentActivity = b.RecentActivity[:MaxRecentActivity]
	}
}

// AddFeedback prepends an embedded feedback entry. The embedded list is
// unbounded; only the activity log is capped.
func (b *Bus) AddFeedback(entry BusFeedbackEntry) {
	b.Feedback = append([]BusFeedbackEntry{entry}, b.Feedback...)
}

// RunsOn reports whether any schedule entry includes the given weekday
// abbreviation.
func (b *Bus) RunsOn(day string) bool {
	for _, entry := range b.Schedule {
		for _, d := range entry.Days {
			if d == day {
				return true
			}
		}
	}
	return false
}

// WeekdayAbbrev maps a time to the "Sun".."Sat" form used in schedules.
func WeekdayAbbrev(t time.Time) string {
	return [...]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}[t.Weekday()]
}

// DefaultSchedule is the fixed weekday schedule seeded onto every new bus.
func DefaultSchedule() []ScheduleEntry {
	weekdays := []string{"Mon", "Tue", "Wed", "Thu", "Fri"}
	return []ScheduleEntry{
		{Time: "7:45 AM", Departure: "Bus Depot", Arrival: "Campus", Days: weekdays},
		{Time: "8:15 AM", Departure: "Campus", Arrival: "City Center", Days: weekdays},
		{Time: "1:00 PM", Departure: "City Center", Arrival: "Campus", Days: weekdays},
		{Time: "4:30 PM", Departure: "Campus", Arrival: "Bus Depot", Days: weekdays},
	}
}
