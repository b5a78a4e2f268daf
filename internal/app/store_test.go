package app

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/KichuProject/Srs-Proj/internal/attendance"
	"github.com/KichuProject/Srs-Proj/internal/metrics"
	"github.com/KichuProject/Srs-Proj/internal/model"
	"github.com/KichuProject/Srs-Proj/internal/report"
	"github.com/KichuProject/Srs-Proj/internal/schedule"
	"github.com/KichuProject/Srs-Proj/internal/trainer"
	"github.com/KichuProject/Srs-Proj/internal/validation"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func sequence() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestStore(t *testing.T) (*Store, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)}
	s := NewStore(
		WithClock(clock.now),
		WithIDs(sequence()),
		WithLocation(time.UTC),
		WithMetrics(metrics.New(prometheus.NewRegistry())),
	)
	return s, clock
}

func addTrainer(t *testing.T, s *Store, employeeID string) model.Trainer {
	t.Helper()
	tr, err := s.AddTrainer(validation.TrainerInput{
		Name:       "Trainer " + employeeID,
		EmployeeID: employeeID,
		Email:      strings.ToLower(employeeID) + "@example.com",
		Phone:      "+91-7550004658",
		Skill:      "Go",
	})
	if err != nil {
		t.Fatalf("add trainer: %v", err)
	}
	return tr
}

func addSession(t *testing.T, s *Store, trainerID, date, start, end string) model.Session {
	t.Helper()
	sess, err := s.AddSession(validation.SessionInput{Name: "Go", Date: date, StartTime: start, EndTime: end, TrainerID: trainerID})
	if err != nil {
		t.Fatalf("add session: %v", err)
	}
	return sess
}

func TestAddSessionAssignsStatusFromClock(t *testing.T) {
	s, _ := newTestStore(t)
	tr := addTrainer(t, s, "EMP001")

	future := addSession(t, s, tr.ID, "2026-10-15", "09:00", "12:00")
	past := addSession(t, s, tr.ID, "2026-10-14", "09:00", "12:00")

	if future.Status != model.SessionUpcoming {
		t.Errorf("expected upcoming, got %s", future.Status)
	}
	if past.Status != model.SessionCompleted {
		t.Errorf("expected completed, got %s", past.Status)
	}
}

func TestAddSessionRefusesConflict(t *testing.T) {
	s, _ := newTestStore(t)
	tr := addTrainer(t, s, "EMP001")
	addSession(t, s, tr.ID, "2026-10-15", "09:00", "12:00")

	_, err := s.AddSession(validation.SessionInput{Name: "Clash", Date: "2026-10-15", StartTime: "11:00", EndTime: "13:00", TrainerID: tr.ID})
	var ve *validation.ValidationError
	if !errors.As(err, &ve) || ve.Fields["schedule"] == "" {
		t.Fatalf("expected schedule conflict, got %v", err)
	}

	addSession(t, s, tr.ID, "2026-10-15", "12:00", "13:00")
	if len(s.Sessions()) != 2 {
		t.Errorf("expected back-to-back session to be stored")
	}
}

func TestAddSessionNeedsTwoDigitClock(t *testing.T) {
	s, _ := newTestStore(t)
	tr := addTrainer(t, s, "EMP001")

	_, err := s.AddSession(validation.SessionInput{Name: "Early", Date: "2026-10-15", StartTime: "9:30", EndTime: "10:00", TrainerID: tr.ID})
	var ve *validation.ValidationError
	if !errors.As(err, &ve) || ve.Fields["startTime"] == "" {
		t.Fatalf("expected startTime error, got %v", err)
	}
	if _, ok := ve.Fields["endTime"]; ok {
		t.Errorf("expected no range error, got %v", ve.Fields)
	}

	addSession(t, s, tr.ID, "2026-10-15", "10:00", "11:00")
	addSession(t, s, tr.ID, "2026-10-15", "09:30", "10:00")
	up := s.UpcomingSessions()
	if len(up) != 2 || up[0].StartTime != "09:30" {
		t.Errorf("expected 09:30 first, got %+v", up)
	}
}

func TestUpdateSessionKeepsStatus(t *testing.T) {
	s, clock := newTestStore(t)
	tr := addTrainer(t, s, "EMP001")
	sess := addSession(t, s, tr.ID, "2026-10-15", "09:00", "12:00")

	clock.t = clock.t.Add(48 * time.Hour)
	updated, err := s.UpdateSession(sess.ID, validation.SessionInput{Name: "Go 2", Date: "2026-10-15", StartTime: "10:00", EndTime: "12:00", TrainerID: tr.ID})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != model.SessionUpcoming {
		t.Errorf("expected prior status to carry over, got %s", updated.Status)
	}

	if _, err := s.UpdateSession("missing", validation.SessionInput{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDuplicateEmployeeID(t *testing.T) {
	s, _ := newTestStore(t)
	first := addTrainer(t, s, "EMP001")
	second := addTrainer(t, s, "EMP002")

	_, err := s.UpdateTrainer(second.ID, validation.TrainerInput{
		Name: "x", EmployeeID: first.EmployeeID, Email: "x@example.com", Phone: "+91-7550004658", Skill: "Go",
	})
	var ve *validation.ValidationError
	if !errors.As(err, &ve) || ve.Fields["employeeId"] == "" {
		t.Fatalf("expected duplicate employee id error, got %v", err)
	}
}

func TestAttendanceLifecycle(t *testing.T) {
	s, clock := newTestStore(t)
	tr := addTrainer(t, s, "EMP001")
	sess := addSession(t, s, tr.ID, "2026-10-15", "09:00", "12:00")

	if _, err := s.CheckOut(sess.ID, tr.ID); !errors.Is(err, validation.ErrNotCheckedIn) {
		t.Fatalf("expected check-out before check-in to fail, got %v", err)
	}

	clock.t = time.Date(2026, 10, 15, 9, 16, 0, 0, time.UTC)
	rec, err := s.CheckIn(sess.ID, tr.ID)
	if err != nil {
		t.Fatalf("check in: %v", err)
	}
	if rec.Status != model.StatusLate {
		t.Errorf("expected Late, got %s", rec.Status)
	}
	if _, err := s.CheckIn(sess.ID, tr.ID); !errors.Is(err, validation.ErrAlreadyCheckedIn) {
		t.Errorf("expected duplicate check-in to fail, got %v", err)
	}

	clock.t = time.Date(2026, 10, 15, 12, 46, 0, 0, time.UTC)
	rec, err = s.CheckOut(sess.ID, tr.ID)
	if err != nil {
		t.Fatalf("check out: %v", err)
	}
	if got := rec.WorkingHours.StringFixed(2); got != "3.50" {
		t.Errorf("expected 3.50 hours, got %s", got)
	}
	if _, err := s.CheckOut(sess.ID, tr.ID); !errors.Is(err, validation.ErrAlreadyCheckedOut) {
		t.Errorf("expected second check-out to fail, got %v", err)
	}

	rec, err = s.Approve(rec.ID)
	if err != nil || !rec.Approved {
		t.Fatalf("approve: %v", err)
	}
	if _, err := s.Approve(rec.ID); !errors.Is(err, validation.ErrAlreadyApproved) {
		t.Errorf("expected double approval to fail, got %v", err)
	}
	if _, err := s.Reject(rec.ID); !errors.Is(err, validation.ErrAlreadyApproved) {
		t.Errorf("expected reject of approved record to fail, got %v", err)
	}
	if _, err := s.Approve("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRejectThenApproveRefused(t *testing.T) {
	s, clock := newTestStore(t)
	tr := addTrainer(t, s, "EMP001")
	sess := addSession(t, s, tr.ID, "2026-10-15", "09:00", "12:00")
	clock.t = time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

	rec, err := s.CheckIn(sess.ID, tr.ID)
	if err != nil {
		t.Fatalf("check in: %v", err)
	}
	rec, err = s.Reject(rec.ID)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rec.Status != model.StatusRejected || rec.Approved {
		t.Errorf("unexpected rejected record %+v", rec)
	}
	if _, err := s.Approve(rec.ID); !errors.Is(err, validation.ErrRejected) {
		t.Errorf("expected approve of rejected record to fail, got %v", err)
	}
}

func TestCheckInUnknownSession(t *testing.T) {
	s, _ := newTestStore(t)
	tr := addTrainer(t, s, "EMP001")

	if _, err := s.CheckIn("nope", tr.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	var ve *validation.ValidationError
	if _, err := s.CheckIn("", ""); !errors.As(err, &ve) || len(ve.Fields) != 2 {
		t.Errorf("expected two missing fields, got %v", err)
	}
}

func TestSnapshotSurvivesSessionEdit(t *testing.T) {
	s, clock := newTestStore(t)
	tr := addTrainer(t, s, "EMP001")
	sess := addSession(t, s, tr.ID, "2026-10-15", "09:00", "12:00")

	clock.t = time.Date(2026, 10, 15, 9, 10, 0, 0, time.UTC)
	rec, err := s.CheckIn(sess.ID, tr.ID)
	if err != nil {
		t.Fatalf("check in: %v", err)
	}

	if _, err := s.UpdateSession(sess.ID, validation.SessionInput{Name: "Go", Date: "2026-10-15", StartTime: "08:00", EndTime: "12:00", TrainerID: tr.ID}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := s.Record(rec.ID)
	if got.Status != model.StatusPresent || !got.SessionStartTime.Equal(time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("expected the check-in snapshot to stay, got %+v", got)
	}
}

func TestDeleteTrainerLeavesOrphans(t *testing.T) {
	s, clock := newTestStore(t)
	tr := addTrainer(t, s, "EMP001")
	sess := addSession(t, s, tr.ID, "2026-10-15", "09:00", "12:00")
	clock.t = time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	if _, err := s.CheckIn(sess.ID, tr.ID); err != nil {
		t.Fatalf("check in: %v", err)
	}

	if err := s.DeleteTrainer(tr.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := s.Trainer(tr.ID); ok {
		t.Errorf("expected trainer lookup to miss")
	}
	if len(s.SessionsByTrainer(tr.ID)) != 1 || len(s.AttendanceByTrainer(tr.ID)) != 1 {
		t.Errorf("expected session and record to survive")
	}
	if err := s.DeleteTrainer(tr.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	csv, _ := s.ExportCSV(report.Filter{})
	if !strings.HasPrefix(strings.Split(csv, "\n")[1], ",,Go,") {
		t.Errorf("expected blank trainer columns for orphan, got %q", csv)
	}
}

func TestDeleteSessionExcludesRecordsFromReports(t *testing.T) {
	s, clock := newTestStore(t)
	tr := addTrainer(t, s, "EMP001")
	sess := addSession(t, s, tr.ID, "2026-10-15", "09:00", "12:00")
	clock.t = time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	if _, err := s.CheckIn(sess.ID, tr.ID); err != nil {
		t.Fatalf("check in: %v", err)
	}

	if err := s.DeleteSession(sess.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(s.AttendanceBySession(sess.ID)) != 1 {
		t.Errorf("expected record to survive session deletion")
	}
	rep := s.Report(report.Filter{})
	if len(rep.Records) != 0 {
		t.Errorf("expected orphaned record to be filtered out, got %d", len(rep.Records))
	}
	if len(rep.Trainers) != 1 || rep.Trainers[0].TotalSessions != 1 {
		t.Errorf("expected trainer report over full history, got %+v", rep.Trainers)
	}
}

func TestSetAttendanceIsExact(t *testing.T) {
	s, _ := newTestStore(t)
	s.DispatchAttendance(attendance.CheckIn{RecordID: "a", SessionID: "s", TrainerID: "t", Timestamp: time.Now()})

	want := []model.AttendanceRecord{{ID: "x", SessionID: "s2", TrainerID: "t2", Status: model.StatusMissed}}
	s.SetAttendance(want)

	got := s.Attendance()
	if len(got) != 1 || got[0].ID != "x" || got[0].Status != model.StatusMissed {
		t.Errorf("expected exact replacement, got %+v", got)
	}
}

func TestRawDispatchSkipsValidation(t *testing.T) {
	s, _ := newTestStore(t)
	s.DispatchTrainers(trainer.Add{Trainer: model.Trainer{ID: "t1"}})
	s.DispatchTrainers(trainer.Add{Trainer: model.Trainer{ID: "t2"}})
	if len(s.Trainers()) != 2 {
		t.Errorf("expected both trainers stored")
	}

	s.DispatchSessions(schedule.Add{Session: model.Session{ID: "s1", TrainerID: "t1", Date: "2026-10-15", StartTime: "09:00", EndTime: "10:00"}})
	if !s.CheckSessionConflict("t1", "2026-10-15", "09:30", "11:00", "") {
		t.Errorf("expected overlap with dispatched session")
	}
	if s.CheckSessionConflict("t1", "2026-10-15", "10:00", "11:00", "") {
		t.Errorf("expected back-to-back to be free")
	}
}

func TestDemoData(t *testing.T) {
	now := time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)
	trainers, sessions, records := DemoData(now, time.UTC)
	s := NewStore(WithClock(func() time.Time { return now }), WithLocation(time.UTC), WithData(trainers, sessions, records))

	if len(s.TodaySessions()) != 2 {
		t.Errorf("expected two sessions today")
	}
	if up := s.UpcomingSessions(); len(up) != 3 || up[0].ID != "1" || up[2].ID != "3" {
		t.Errorf("unexpected upcoming order %+v", up)
	}
	if _, ok := s.Trainer(sessions[2].TrainerID); ok {
		t.Errorf("expected session 3 to reference a missing trainer")
	}
	d := s.Dashboard()
	if d.PresentToday != 1 || d.PendingToday != 1 {
		t.Errorf("unexpected dashboard %+v", d)
	}
	if rep := s.TrainerReport("1"); rep.AttendanceRate != "100.0" {
		t.Errorf("expected 100.0, got %s", rep.AttendanceRate)
	}
}

func TestPairStatus(t *testing.T) {
	s, _ := newTestStore(t)
	tr := addTrainer(t, s, "EMP900")
	sess := addSession(t, s, tr.ID, "2026-10-15", "09:00", "10:00")

	if phase, rec := s.PairStatus(sess.ID, tr.ID); phase != attendance.NoRecord || rec != nil {
		t.Fatalf("expected no record, got %s %+v", phase, rec)
	}
	if _, err := s.CheckIn(sess.ID, tr.ID); err != nil {
		t.Fatalf("check in: %v", err)
	}
	phase, rec := s.PairStatus(sess.ID, tr.ID)
	if phase != attendance.CheckedIn || rec == nil {
		t.Fatalf("expected checked in, got %s", phase)
	}
	rec.Approved = true
	if _, again := s.PairStatus(sess.ID, tr.ID); again.Approved {
		t.Errorf("expected a copy, store was mutated")
	}
}

func TestCheckInOnLoadedMissedRecord(t *testing.T) {
	s, _ := newTestStore(t)
	tr := addTrainer(t, s, "EMP901")
	sess := addSession(t, s, tr.ID, "2026-10-15", "08:00", "10:00")

	s.SetAttendance([]model.AttendanceRecord{
		{ID: "loaded", SessionID: sess.ID, TrainerID: tr.ID, Status: model.StatusMissed},
	})

	rec, err := s.CheckIn(sess.ID, tr.ID)
	if err != nil {
		t.Fatalf("check in: %v", err)
	}
	if rec.ID != "loaded" || rec.Status != model.StatusPresent {
		t.Errorf("expected loaded record to turn Present, got %s %s", rec.ID, rec.Status)
	}
	if len(s.Attendance()) != 1 {
		t.Errorf("expected one record for the pair, got %d", len(s.Attendance()))
	}
}
