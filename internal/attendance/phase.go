package attendance

import "github.com/KichuProject/Srs-Proj/internal/model"

// Phase is where a (session, trainer) pair sits in the check-in lifecycle. Rejection and
// approval are tracked separately on the record.
type Phase int

const (
	NoRecord Phase = iota
	CheckedIn
	CheckedOut
)

func (p Phase) String() string {
	switch p {
	case CheckedIn:
		return "checked_in"
	case CheckedOut:
		return "checked_out"
	default:
		return "no_record"
	}
}

// PhaseOf reads the phase from a record. A nil record, or one loaded without a check-in,
// counts as NoRecord.
func PhaseOf(r *model.AttendanceRecord) Phase {
	switch {
	case r == nil || r.CheckInTime == nil:
		return NoRecord
	case r.CheckOutTime == nil:
		return CheckedIn
	default:
		return CheckedOut
	}
}
