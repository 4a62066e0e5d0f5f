package model

import "time"

// Feedback statuses move pending -> responding once a driver answers.
const (
	FeedbackStatusPending    = "pending"
	FeedbackStatusResponding = "responding"
)

// Complaint statuses; management moves a complaint out of "open".
const (
	ComplaintStatusOpen     = "open"
	ComplaintStatusResolved = "resolved"
)

// DefaultComplaintSeverity is used when the submitted severity is absent or
// unparseable.
const DefaultComplaintSeverity = 3

// Feedback is a standalone record, decoupled from any bus unless one was
// named at submission time. Bus and driver display fields are denormalized
// at creation and never re-synced.
type Feedback struct {
	ID             string    `json:"id"`
	Subject        string    `json:"subject"`
	Message        string    `json:"message"`
	StudentID      string    `json:"studentId"`
	StudentName    string    `json:"studentName"`
	IsAnonymous    bool      `json:"isAnonymous"`
	BusRef         *string   `json:"busRef,omitempty"`
	BusName        string    `json:"busName"`
	BusNumber      string    `json:"busNumber"`
	DriverID       *string   `json:"driverId,omitempty"`
	DriverName     string    `json:"driverName"`
	ReadByDriver   bool      `json:"readByDriver"`
	ReadByAdmin    bool      `json:"readByAdmin"`
	DriverResponse string    `json:"driverResponse,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Complaint is a standalone record reviewed by management only.
type Complaint struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	Subject       string    `json:"subject"`
	Message       string    `json:"message"`
	Severity      int       `json:"severity"`
	StudentID     string    `json:"studentId"`
	StudentName   string    `json:"studentName"`
	IsAnonymous   bool      `json:"isAnonymous"`
	BusRef        *string   `json:"busRef,omitempty"`
	BusName       string    `json:"busName,omitempty"`
	BusNumber     string    `json:"busNumber,omitempty"`
	DriverID      *string   `json:"driverId,omitempty"`
	DriverName    string    `json:"driverName,omitempty"`
	Status        string    `json:"status"`
	AdminResponse string    `json:"adminResponse,omitempty"`
	ReadByAdmin   bool      `json:"readByAdmin"`
	CreatedAt     time.Time `json:"createdAt"`
}

// DisplayName resolves the stored display name for a submitter.
func DisplayName(realName string, anonymous bool) string {
	if anonymous {
		return AnonymousStudentName
	}
	return realName
}
