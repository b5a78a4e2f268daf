package report

import (
	"github.com/shopspring/decimal"

	"github.com/KichuProject/Srs-Proj/internal/collection"
	"github.com/KichuProject/Srs-Proj/internal/model"
)

// TrainerReport aggregates every attendance record of one trainer.
type TrainerReport struct {
	TrainerID      string `json:"trainerId"`
	TotalHours     string `json:"totalHours"`
	PresentCount   int    `json:"presentCount"`
	LateCount      int    `json:"lateCount"`
	MissedCount    int    `json:"missedCount"`
	TotalSessions  int    `json:"totalSessions"`
	AttendanceRate string `json:"attendanceRate"`
}

// Summary holds the totals shown above a filtered attendance list.
type Summary struct {
	Records    int    `json:"records"`
	TotalHours string `json:"totalHours"`
	Present    int    `json:"present"`
	Late       int    `json:"late"`
	Missed     int    `json:"missed"`
}

// Filter narrows attendance by trainer and by the session date. Empty fields are ignored;
// date bounds are inclusive.
type Filter struct {
	TrainerID string `form:"trainer_id"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

// ForTrainer computes the report for trainerID. The attendance rate counts only Present
// records and is "0" when the trainer has none at all.
func ForTrainer(records []model.AttendanceRecord, trainerID string) TrainerReport {
	rep := TrainerReport{TrainerID: trainerID}
	hours := decimal.Zero
	for _, r := range records {
		if r.TrainerID != trainerID {
			continue
		}
		rep.TotalSessions++
		hours = hours.Add(r.WorkingHours)
		switch r.Status {
		case model.StatusPresent:
			rep.PresentCount++
		case model.StatusLate:
			rep.LateCount++
		case model.StatusMissed:
			rep.MissedCount++
		}
	}
	rep.TotalHours = hours.StringFixed(2)
	rep.AttendanceRate = "0"
	if rep.TotalSessions > 0 {
		rate := decimal.NewFromInt(int64(rep.PresentCount)).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(int64(rep.TotalSessions)))
		rep.AttendanceRate = rate.StringFixed(1)
	}
	return rep
}

// ForTrainers lists reports for trainers with at least one record, in trainer order.
// A non-empty trainerID restricts the list to that trainer.
func ForTrainers(trainers []model.Trainer, records []model.AttendanceRecord, trainerID string) []TrainerReport {
	out := make([]TrainerReport, 0)
	for _, t := range trainers {
		if trainerID != "" && t.ID != trainerID {
			continue
		}
		rep := ForTrainer(records, t.ID)
		if rep.TotalSessions == 0 {
			continue
		}
		out = append(out, rep)
	}
	return out
}

// FilterAttendance keeps records whose session exists and matches f.
func FilterAttendance(records []model.AttendanceRecord, sessions []model.Session, f Filter) []model.AttendanceRecord {
	out := make([]model.AttendanceRecord, 0)
	for _, r := range records {
		s, ok := collection.Find(sessions, r.SessionID)
		if !ok {
			continue
		}
		if f.TrainerID != "" && r.TrainerID != f.TrainerID {
			continue
		}
		if f.StartDate != "" && s.Date < f.StartDate {
			continue
		}
		if f.EndDate != "" && s.Date > f.EndDate {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Summarize totals a list of records.
func Summarize(records []model.AttendanceRecord) Summary {
	sum := Summary{Records: len(records)}
	hours := decimal.Zero
	for _, r := range records {
		hours = hours.Add(r.WorkingHours)
		switch r.Status {
		case model.StatusPresent:
			sum.Present++
		case model.StatusLate:
			sum.Late++
		case model.StatusMissed:
			sum.Missed++
		}
	}
	sum.TotalHours = hours.StringFixed(2)
	return sum
}
