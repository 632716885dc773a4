package domain

import (
	"strings"
	"time"
)

// Role represents an employee's access level in the meal system
type Role string

const (
	RoleEmployee Role = "EMPLOYEE"
	RoleCanteen  Role = "CANTEEN"
	RoleManager  Role = "MANAGER"
)

// ParseRole matches free-text role values case-insensitively.
// Returns false for anything outside the three known roles.
func ParseRole(s string) (Role, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(RoleEmployee):
		return RoleEmployee, true
	case string(RoleCanteen):
		return RoleCanteen, true
	case string(RoleManager):
		return RoleManager, true
	}
	return "", false
}

// MealType represents a bookable meal slot
type MealType string

const (
	MealBreakfast MealType = "BREAKFAST"
	MealLunch     MealType = "LUNCH"
)

// Employee represents an employee record mirrored from the upstream directory.
// ID is assigned by the upstream system and is stable; username and mobile
// number are unique across the collection (enforced upstream).
type Employee struct {
	ID           string `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	MobileNumber string `json:"mobileNumber"`
	Username     string `json:"username"`
	Role         Role   `json:"role"`
}

// EmployeeFields holds the mutable fields for create/update operations
type EmployeeFields struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	MobileNumber string `json:"mobileNumber"`
	Username     string `json:"username"`
	Role         Role   `json:"role"`
}

// BookingObservation is one raw (date, mealType) count from the analytics feed.
// The feed is not guaranteed sorted or deduplicated.
type BookingObservation struct {
	Date        string   `json:"date"` // calendar day, YYYY-MM-DD
	MealType    MealType `json:"mealType"`
	TotalBooked int      `json:"totalBooked"`
}

// BookingRef is a single booking inside a user schedule
type BookingRef struct {
	Date     string   `json:"date"`
	MealType MealType `json:"mealType"`
}

// UserSchedule groups bookings by employee identity. Booking order is the
// order supplied by the upstream feed and must not be re-sorted here.
type UserSchedule struct {
	EmployeeID string       `json:"employeeId"`
	FirstName  string       `json:"firstName"`
	LastName   string       `json:"lastName"`
	Username   string       `json:"username"`
	Bookings   []BookingRef `json:"bookings"`
}

// ImportRecord is a transient row extracted from an uploaded roster file.
// It exists only between parse and submission. MobileNumber stays text so
// leading zeros survive the round trip.
type ImportRecord struct {
	FirstName    string
	LastName     string
	MobileNumber string
	Username     string
	Role         Role
}

// ChartPoint is one entry of the date-ordered booking chart series
type ChartPoint struct {
	Date        string   `json:"date"`
	MealType    MealType `json:"mealType"`
	TotalBooked int      `json:"totalBooked"`
}

// Procurement row labels shown on the Overview view
const (
	ProcurementBreakfastLabel = "Monthly Breakfast Provision"
	ProcurementLunchLabel     = "Monthly Lunch Provision"
	ProcurementTotalLabel     = "Total Goods Requirement"
)

// ProcurementRow is a derived projection of the aggregated totals.
// It is recomputed on every aggregation pass and never cached.
type ProcurementRow struct {
	Label   string `json:"label"`
	Count   int    `json:"count"`
	IsTotal bool   `json:"isTotal"`
}

// ForecastView is the aggregated dashboard view built from the analytics feed
type ForecastView struct {
	BreakfastTotal    int              `json:"breakfastTotal"`
	LunchTotal        int              `json:"lunchTotal"`
	GrandTotal        int              `json:"grandTotal"`
	ChartSeries       []ChartPoint     `json:"chartSeries"`
	Procurement       []ProcurementRow `json:"procurement"`
	UserSchedules     []UserSchedule   `json:"userSchedules"`
	BookingUsersCount int              `json:"bookingUsersCount"`
	TotalUsers        int              `json:"totalUsers"`
}

// AnalyticsFeed is the raw dashboard feed fetched from the upstream service,
// before aggregation. Observation and schedule order is whatever the feed sent.
type AnalyticsFeed struct {
	Observations      []BookingObservation
	UserSchedules     []UserSchedule
	BookingUsersCount int
	TotalUsers        int
}

// AuthResult is the verified identity returned by the upstream login
type AuthResult struct {
	Token string
	User  Employee
}

// Session represents an authenticated manager session. The upstream token is
// the credential for all gateway calls and lives only in the in-process
// registry; it is never sent back to the browser.
type Session struct {
	ID            string
	UpstreamToken string
	Username      string
	FirstName     string
	Role          Role
	CreatedAt     time.Time
	ExpiresAt     time.Time
}

// Expired reports whether the session has passed its expiry time
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
