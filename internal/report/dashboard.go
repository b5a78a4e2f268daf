package report

import (
	"time"

	"github.com/KichuProject/Srs-Proj/internal/collection"
	"github.com/KichuProject/Srs-Proj/internal/model"
	"github.com/KichuProject/Srs-Proj/internal/schedule"
)

// Dashboard is the landing overview.
type Dashboard struct {
	Date          string          `json:"date"`
	Trainers      int             `json:"trainers"`
	TodaySessions []model.Session `json:"todaySessions"`
	PresentToday  int             `json:"presentToday"`
	// PendingToday is today's session count minus today's record count. It can go
	// negative when several trainers check in to the same session.
	PendingToday int             `json:"pendingToday"`
	Upcoming     []model.Session `json:"upcoming"`
}

// BuildDashboard computes the overview at now.
func BuildDashboard(trainers []model.Trainer, sessions []model.Session, records []model.AttendanceRecord, now time.Time, loc *time.Location) Dashboard {
	if loc == nil {
		loc = time.Local
	}
	today := now.In(loc).Format(model.DateLayout)
	todaySessions := schedule.Today(sessions, now, loc)

	var todayRecords, present int
	for _, r := range records {
		s, ok := collection.Find(sessions, r.SessionID)
		if !ok || s.Date != today {
			continue
		}
		todayRecords++
		if r.Status == model.StatusPresent {
			present++
		}
	}

	return Dashboard{
		Date:          today,
		Trainers:      len(trainers),
		TodaySessions: todaySessions,
		PresentToday:  present,
		PendingToday:  len(todaySessions) - todayRecords,
		Upcoming:      schedule.Upcoming(sessions, now, loc),
	}
}
