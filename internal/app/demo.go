package app

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/KichuProject/Srs-Proj/internal/model"
)

// DemoData returns the sample collections the desk starts with when seeding is enabled.
// Session "3" points at a trainer that does not exist.
func DemoData(now time.Time, loc *time.Location) ([]model.Trainer, []model.Session, []model.AttendanceRecord) {
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)
	today := now.Format(model.DateLayout)
	tomorrow := now.AddDate(0, 0, 1).Format(model.DateLayout)

	trainers := []model.Trainer{
		{ID: "1", Name: "Kichu", EmployeeID: "EMP001", Email: "kishore1052007@gmail.com", Phone: "+91-7550004658", Skill: "React, Java, JavaScript, Node.js"},
		{ID: "2", Name: "Kishore R", EmployeeID: "EMP002", Email: "kishore1052007@gmail.com", Phone: "+91-7550004658", Skill: "React, Java, JavaScript, Node.js"},
	}

	sessions := []model.Session{
		{ID: "1", Name: "React Advanced Patterns", Date: today, StartTime: "09:00", EndTime: "12:00", TrainerID: "1", Status: model.SessionOngoing},
		{ID: "2", Name: "Python Data Analysis", Date: today, StartTime: "14:00", EndTime: "17:00", TrainerID: "2", Status: model.SessionUpcoming},
		{ID: "3", Name: "AWS Cloud Fundamentals", Date: tomorrow, StartTime: "10:00", EndTime: "13:00", TrainerID: "3", Status: model.SessionUpcoming},
	}

	y, m, d := now.Date()
	checkIn := time.Date(y, m, d, 9, 5, 0, 0, loc)
	records := []model.AttendanceRecord{
		{
			ID:               "1",
			SessionID:        "1",
			TrainerID:        "1",
			CheckInTime:      &checkIn,
			WorkingHours:     decimal.Zero,
			Status:           model.StatusPresent,
			SessionStartTime: time.Date(y, m, d, 9, 0, 0, 0, loc),
			SessionEndTime:   time.Date(y, m, d, 12, 0, 0, 0, loc),
		},
	}
	return trainers, sessions, records
}
