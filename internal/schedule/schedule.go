package schedule

import (
	"cmp"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/KichuProject/Srs-Proj/internal/collection"
	"github.com/KichuProject/Srs-Proj/internal/model"
)

// Action is one of Add, Update, Delete or Set.
type Action interface {
	sessionAction()
}

// Add appends a session. The session must already carry its id and status.
type Add struct{ Session model.Session }

// Update replaces the session with the same id wholesale, status included.
type Update struct{ Session model.Session }

// Delete removes a session by id. Attendance records that point at it are kept.
type Delete struct{ ID string }

// Set replaces the whole collection.
type Set struct{ Sessions []model.Session }

func (Add) sessionAction()    {}
func (Update) sessionAction() {}
func (Delete) sessionAction() {}
func (Set) sessionAction()    {}

// Reduce applies action to state and returns the new collection.
func Reduce(state []model.Session, action Action) []model.Session {
	switch a := action.(type) {
	case Add:
		return collection.Add(state, a.Session)
	case Update:
		return collection.Update(state, a.Session)
	case Delete:
		return collection.Delete(state, a.ID)
	case Set:
		return collection.Set(a.Sessions)
	default:
		return state
	}
}

// StatusAt is the status a session gets when it is scheduled at now: upcoming when it
// starts in the future, completed otherwise.
func StatusAt(s model.Session, now time.Time, loc *time.Location) model.SessionStatus {
	start, err := s.StartAt(loc)
	if err != nil || !start.After(now) {
		return model.SessionCompleted
	}
	return model.SessionUpcoming
}

// CheckConflict reports whether another session of trainerID on date overlaps the
// interval [startTime, endTime). Sessions that only touch at an edge do not conflict.
// A session with id excludeID is ignored; pass "" to consider every session.
func CheckConflict(sessions []model.Session, trainerID, date, startTime, endTime, excludeID string) bool {
	newStart, err := model.At(date, startTime, time.UTC)
	if err != nil {
		return false
	}
	newEnd, err := model.At(date, endTime, time.UTC)
	if err != nil {
		return false
	}

	for _, s := range sessions {
		if excludeID != "" && s.ID == excludeID {
			continue
		}
		if s.TrainerID != trainerID || s.Date != date {
			continue
		}
		start, err := s.StartAt(time.UTC)
		if err != nil {
			continue
		}
		end, err := s.EndAt(time.UTC)
		if err != nil {
			continue
		}
		if newStart.Before(end) && newEnd.After(start) {
			return true
		}
	}
	return false
}

// Today returns the sessions dated on now's calendar day in loc.
func Today(sessions []model.Session, now time.Time, loc *time.Location) []model.Session {
	today := dateOf(now, loc)
	out := make([]model.Session, 0)
	for _, s := range sessions {
		if s.Date == today {
			out = append(out, s)
		}
	}
	return out
}

// Upcoming returns sessions dated today or later, earliest first.
func Upcoming(sessions []model.Session, now time.Time, loc *time.Location) []model.Session {
	today := dateOf(now, loc)
	out := make([]model.Session, 0)
	for _, s := range sessions {
		if s.Date >= today {
			out = append(out, s)
		}
	}
	slices.SortStableFunc(out, func(a, b model.Session) int {
		if c := cmp.Compare(a.Date, b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.StartTime, b.StartTime)
	})
	return out
}

// ByTrainer returns the sessions assigned to trainerID.
func ByTrainer(sessions []model.Session, trainerID string) []model.Session {
	out := make([]model.Session, 0)
	for _, s := range sessions {
		if s.TrainerID == trainerID {
			out = append(out, s)
		}
	}
	return out
}

// DurationHours is the scheduled length of s in hours, one decimal place.
func DurationHours(s model.Session) string {
	start, err := model.At(s.Date, s.StartTime, time.UTC)
	if err != nil {
		return "0.0"
	}
	end, err := model.At(s.Date, s.EndTime, time.UTC)
	if err != nil {
		return "0.0"
	}
	minutes := decimal.NewFromInt(int64(end.Sub(start) / time.Minute))
	return minutes.Div(decimal.NewFromInt(60)).StringFixed(1)
}

func dateOf(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return now.In(loc).Format(model.DateLayout)
}
