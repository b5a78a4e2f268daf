package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Layouts used for the date and time-of-day fields of a Session.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// SessionStatus is assigned when a session is scheduled and never advanced afterwards.
type SessionStatus string

const (
	SessionUpcoming  SessionStatus = "upcoming"
	SessionOngoing   SessionStatus = "ongoing"
	SessionCompleted SessionStatus = "completed"
)

// AttendanceStatus is derived at check-in, or forced by a rejection.
type AttendanceStatus string

const (
	StatusPresent  AttendanceStatus = "Present"
	StatusLate     AttendanceStatus = "Late"
	StatusMissed   AttendanceStatus = "Missed"
	StatusRejected AttendanceStatus = "Rejected"
)

// Trainer is a person who runs training sessions.
type Trainer struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	EmployeeID string `json:"employeeId"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Skill      string `json:"skill"`
}

// Identity returns the trainer id.
func (t Trainer) Identity() string { return t.ID }

// Session is a scheduled block of training on a single date.
type Session struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Date      string        `json:"date"`
	StartTime string        `json:"startTime"`
	EndTime   string        `json:"endTime"`
	TrainerID string        `json:"trainerId"`
	Status    SessionStatus `json:"status"`
}

// Identity returns the session id.
func (s Session) Identity() string { return s.ID }

// StartAt is the instant the session starts, read in loc.
func (s Session) StartAt(loc *time.Location) (time.Time, error) {
	return At(s.Date, s.StartTime, loc)
}

// EndAt is the instant the session ends, read in loc.
func (s Session) EndAt(loc *time.Location) (time.Time, error) {
	return At(s.Date, s.EndTime, loc)
}

// At combines a date and a time of day into an instant in loc.
func At(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(DateLayout+" "+TimeLayout, date+" "+clock, loc)
}

// AttendanceRecord tracks one trainer's check-in, check-out and approval for one session.
// SessionStartTime and SessionEndTime are copied from the session at check-in and are not
// refreshed when the session is edited later.
type AttendanceRecord struct {
	ID               string           `json:"id"`
	SessionID        string           `json:"sessionId"`
	TrainerID        string           `json:"trainerId"`
	CheckInTime      *time.Time       `json:"checkInTime"`
	CheckOutTime     *time.Time       `json:"checkOutTime"`
	WorkingHours     decimal.Decimal  `json:"workingHours"`
	Status           AttendanceStatus `json:"status"`
	Approved         bool             `json:"approved"`
	SessionStartTime time.Time        `json:"sessionStartTime"`
	SessionEndTime   time.Time        `json:"sessionEndTime"`
}

// Identity returns the record id.
func (r AttendanceRecord) Identity() string { return r.ID }

// MarshalJSON renders WorkingHours with exactly two decimal places.
func (r AttendanceRecord) MarshalJSON() ([]byte, error) {
	type plain AttendanceRecord
	return json.Marshal(struct {
		plain
		WorkingHours string `json:"workingHours"`
	}{plain: plain(r), WorkingHours: r.WorkingHours.StringFixed(2)})
}
