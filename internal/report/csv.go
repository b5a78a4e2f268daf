package report

import (
	"strings"
	"time"

	"github.com/KichuProject/Srs-Proj/internal/collection"
	"github.com/KichuProject/Srs-Proj/internal/model"
)

// CSVHeader lists the export columns in order.
var CSVHeader = []string{"Trainer", "EmployeeID", "Session", "Date", "CheckIn", "CheckOut", "Hours", "Status", "Approved"}

// TimestampLayout renders check-in and check-out times in the export.
const TimestampLayout = "1/2/2006, 3:04:05 PM"

// ExportCSV renders records one per row. Values are joined with commas as they are, so a
// comma inside a name or skill shifts the columns of that row. When there are no records
// the output is a lone newline with no header.
func ExportCSV(records []model.AttendanceRecord, trainers []model.Trainer, sessions []model.Session, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	if len(records) == 0 {
		return "\n"
	}

	rows := make([]string, 0, len(records))
	for _, r := range records {
		t, _ := collection.Find(trainers, r.TrainerID)
		s, _ := collection.Find(sessions, r.SessionID)
		rows = append(rows, strings.Join([]string{
			t.Name,
			t.EmployeeID,
			s.Name,
			s.Date,
			stamp(r.CheckInTime, loc),
			stamp(r.CheckOutTime, loc),
			hours(r),
			string(r.Status),
			yesNo(r.Approved),
		}, ","))
	}
	return strings.Join(CSVHeader, ",") + "\n" + strings.Join(rows, "\n")
}

// ExportFilename names an export produced on now's date.
func ExportFilename(now time.Time) string {
	return "attendance_report_" + now.UTC().Format(model.DateLayout) + ".csv"
}

func stamp(t *time.Time, loc *time.Location) string {
	if t == nil {
		return "N/A"
	}
	return t.In(loc).Format(TimestampLayout)
}

func hours(r model.AttendanceRecord) string {
	if r.CheckOutTime == nil {
		return "0"
	}
	return r.WorkingHours.StringFixed(2)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
