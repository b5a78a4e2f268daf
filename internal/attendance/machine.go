package attendance

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/KichuProject/Srs-Proj/internal/model"
)

// LateAfter is how far past the session start a check-in may land and still count as Present.
const LateAfter = 15 * time.Minute

// Action is one of CheckIn, CheckOut, Approve, Reject or Set.
type Action interface {
	attendanceAction()
}

// CheckIn records a check-in for a (session, trainer) pair. RecordID is only used when the
// pair has no record yet.
type CheckIn struct {
	RecordID         string
	SessionID        string
	TrainerID        string
	Timestamp        time.Time
	SessionStartTime time.Time
	SessionEndTime   time.Time
}

// CheckOut closes the record for a (session, trainer) pair.
type CheckOut struct {
	SessionID string
	TrainerID string
	Timestamp time.Time
}

// Approve marks a record approved.
type Approve struct{ RecordID string }

// Reject marks a record unapproved and forces its status to Rejected.
type Reject struct{ RecordID string }

// Set replaces the whole collection.
type Set struct{ Records []model.AttendanceRecord }

func (CheckIn) attendanceAction()  {}
func (CheckOut) attendanceAction() {}
func (Approve) attendanceAction()  {}
func (Reject) attendanceAction()   {}
func (Set) attendanceAction()      {}

// Reduce applies action to state and returns the new collection. Actions aimed at a record
// that does not exist leave the collection unchanged; ordering rules such as check-out
// before check-in are not checked here.
func Reduce(state []model.AttendanceRecord, action Action) []model.AttendanceRecord {
	switch a := action.(type) {
	case CheckIn:
		return applyCheckIn(state, a)
	case CheckOut:
		return mapPair(state, a.SessionID, a.TrainerID, func(r *model.AttendanceRecord) {
			out := a.Timestamp
			r.CheckOutTime = &out
			r.WorkingHours = WorkingHours(r.CheckInTime, r.CheckOutTime)
		})
	case Approve:
		return mapID(state, a.RecordID, func(r *model.AttendanceRecord) {
			r.Approved = true
		})
	case Reject:
		return mapID(state, a.RecordID, func(r *model.AttendanceRecord) {
			r.Approved = false
			r.Status = model.StatusRejected
		})
	case Set:
		out := make([]model.AttendanceRecord, len(a.Records))
		copy(out, a.Records)
		return out
	default:
		return state
	}
}

func applyCheckIn(state []model.AttendanceRecord, a CheckIn) []model.AttendanceRecord {
	if Find(state, a.SessionID, a.TrainerID) != nil {
		// The status is recomputed against the session start captured by the first check-in.
		// Records loaded without that snapshot take the bounds carried by this action.
		return mapPair(state, a.SessionID, a.TrainerID, func(r *model.AttendanceRecord) {
			if r.SessionStartTime.IsZero() {
				r.SessionStartTime = a.SessionStartTime
			}
			if r.SessionEndTime.IsZero() {
				r.SessionEndTime = a.SessionEndTime
			}
			in := a.Timestamp
			r.CheckInTime = &in
			r.Status = DeriveStatus(r.CheckInTime, r.SessionStartTime)
		})
	}

	in := a.Timestamp
	out := make([]model.AttendanceRecord, 0, len(state)+1)
	out = append(out, state...)
	return append(out, model.AttendanceRecord{
		ID:               a.RecordID,
		SessionID:        a.SessionID,
		TrainerID:        a.TrainerID,
		CheckInTime:      &in,
		WorkingHours:     decimal.Zero,
		Status:           DeriveStatus(&in, a.SessionStartTime),
		SessionStartTime: a.SessionStartTime,
		SessionEndTime:   a.SessionEndTime,
	})
}

// DeriveStatus classifies a check-in against the nominal session start. Early check-ins
// are Present.
func DeriveStatus(checkIn *time.Time, sessionStart time.Time) model.AttendanceStatus {
	if checkIn == nil {
		return model.StatusMissed
	}
	if checkIn.Sub(sessionStart) > LateAfter {
		return model.StatusLate
	}
	return model.StatusPresent
}

// WorkingHours is the time between check-in and check-out in hours, rounded to two places.
// It is zero when either end is missing.
func WorkingHours(checkIn, checkOut *time.Time) decimal.Decimal {
	if checkIn == nil || checkOut == nil {
		return decimal.Zero
	}
	ms := decimal.NewFromInt(checkOut.Sub(*checkIn).Milliseconds())
	return ms.Div(decimal.NewFromInt(int64(time.Hour / time.Millisecond))).Round(2)
}

// Find returns the record for the pair, or nil.
func Find(state []model.AttendanceRecord, sessionID, trainerID string) *model.AttendanceRecord {
	for i := range state {
		if state[i].SessionID == sessionID && state[i].TrainerID == trainerID {
			r := state[i]
			return &r
		}
	}
	return nil
}

func mapPair(state []model.AttendanceRecord, sessionID, trainerID string, fn func(*model.AttendanceRecord)) []model.AttendanceRecord {
	out := make([]model.AttendanceRecord, len(state))
	copy(out, state)
	for i := range out {
		if out[i].SessionID == sessionID && out[i].TrainerID == trainerID {
			fn(&out[i])
		}
	}
	return out
}

func mapID(state []model.AttendanceRecord, id string, fn func(*model.AttendanceRecord)) []model.AttendanceRecord {
	out := make([]model.AttendanceRecord, len(state))
	copy(out, state)
	for i := range out {
		if out[i].ID == id {
			fn(&out[i])
		}
	}
	return out
}
