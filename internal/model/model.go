package model

import "time"

// Role names match the values the session layer stores, so they appear
// verbatim in identity payloads and access checks.
type Role string

const (
	RoleStudent    Role = "student"
	RoleDriver     Role = "driver"
	RoleManagement Role = "management"
)

// AnonymousStudentName is the display name substituted when a submitter
// opts out of being identified. The underlying student reference is kept.
const AnonymousStudentName = "Anonymous Student"

// Identity is the per-request authentication context. It is populated once
// by the session middleware and treated as immutable afterwards. Which
// fields are set depends on Role: students carry their profile fields,
// drivers carry their bus assignment, management carries only name/email.
type Identity struct {
	Role          Role   `json:"role"`
	ID            string `json:"id,omitempty"`
	Name          string `json:"name,omitempty"`
	Email         string `json:"email,omitempty"`
	StudentNumber string `json:"studentId,omitempty"`
	Department    string `json:"department,omitempty"`
	BusID         string `json:"busId,omitempty"`
	DriverName    string `json:"driverName,omitempty"`
	Route         string `json:"route,omitempty"`
}

// Student is the identity record for the student role. Drivers authenticate
// against their Bus record and management against a configured credential,
// so neither appears here.
type Student struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	StudentNumber string    `json:"studentId"`
	Department    string    `json:"department"`
	CreatedAt     time.Time `json:"createdAt"`
}
