package app

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/KichuProject/Srs-Proj/internal/attendance"
	"github.com/KichuProject/Srs-Proj/internal/collection"
	"github.com/KichuProject/Srs-Proj/internal/metrics"
	"github.com/KichuProject/Srs-Proj/internal/model"
	"github.com/KichuProject/Srs-Proj/internal/report"
	"github.com/KichuProject/Srs-Proj/internal/schedule"
	"github.com/KichuProject/Srs-Proj/internal/trainer"
	"github.com/KichuProject/Srs-Proj/internal/validation"
)

// ErrNotFound is returned by guarded operations aimed at an id that is not stored.
var ErrNotFound = errors.New("not found")

// Store holds the trainer, session and attendance collections for the life of the process.
// Each call runs to completion under one lock, so callers never observe a half-applied
// operation. Reads return copies.
type Store struct {
	mu         sync.Mutex
	trainers   []model.Trainer
	sessions   []model.Session
	attendance []model.AttendanceRecord

	now     func() time.Time
	newID   func() string
	loc     *time.Location
	log     *zap.Logger
	metrics *metrics.Recorder
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

// WithIDs replaces the uuid id source.
func WithIDs(newID func() string) Option { return func(s *Store) { s.newID = newID } }

// WithLocation sets the zone session dates and times are read in.
func WithLocation(loc *time.Location) Option { return func(s *Store) { s.loc = loc } }

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option { return func(s *Store) { s.log = log } }

// WithMetrics sets the metrics recorder.
func WithMetrics(m *metrics.Recorder) Option { return func(s *Store) { s.metrics = m } }

// WithData preloads the collections.
func WithData(trainers []model.Trainer, sessions []model.Session, records []model.AttendanceRecord) Option {
	return func(s *Store) {
		s.trainers = collection.Set(trainers)
		s.sessions = collection.Set(sessions)
		s.attendance = collection.Set(records)
	}
}

// NewStore builds an empty store unless WithData is given.
func NewStore(opts ...Option) *Store {
	s := &Store{
		now:   time.Now,
		newID: uuid.NewString,
		loc:   time.Local,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location is the zone used for session dates.
func (s *Store) Location() *time.Location { return s.loc }

// Now reads the store clock.
func (s *Store) Now() time.Time { return s.now() }

// DispatchTrainers applies a trainer action without validation.
func (s *Store) DispatchTrainers(a trainer.Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trainers = trainer.Reduce(s.trainers, a)
}

// DispatchSessions applies a session action without validation.
func (s *Store) DispatchSessions(a schedule.Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = schedule.Reduce(s.sessions, a)
}

// DispatchAttendance applies an attendance action without validation.
func (s *Store) DispatchAttendance(a attendance.Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attendance = attendance.Reduce(s.attendance, a)
}

// Trainers returns every trainer.
func (s *Store) Trainers() []model.Trainer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return collection.Set(s.trainers)
}

// Sessions returns every session.
func (s *Store) Sessions() []model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return collection.Set(s.sessions)
}

// Attendance returns every attendance record.
func (s *Store) Attendance() []model.AttendanceRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return collection.Set(s.attendance)
}

// Trainer looks a trainer up by id.
func (s *Store) Trainer(id string) (model.Trainer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return collection.Find(s.trainers, id)
}

// Session looks a session up by id.
func (s *Store) Session(id string) (model.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return collection.Find(s.sessions, id)
}

// Record looks an attendance record up by id.
func (s *Store) Record(id string) (model.AttendanceRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return collection.Find(s.attendance, id)
}

// TodaySessions returns the sessions dated today.
func (s *Store) TodaySessions() []model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return schedule.Today(s.sessions, s.now(), s.loc)
}

// UpcomingSessions returns sessions from today on, earliest first.
func (s *Store) UpcomingSessions() []model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return schedule.Upcoming(s.sessions, s.now(), s.loc)
}

// SessionsByTrainer returns the sessions assigned to trainerID.
func (s *Store) SessionsByTrainer(trainerID string) []model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return schedule.ByTrainer(s.sessions, trainerID)
}

// SearchTrainers filters trainers by name.
func (s *Store) SearchTrainers(term string) []model.Trainer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return trainer.Search(s.trainers, term)
}

// AttendanceByTrainer returns the records of one trainer.
func (s *Store) AttendanceByTrainer(trainerID string) []model.AttendanceRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.AttendanceRecord, 0)
	for _, r := range s.attendance {
		if r.TrainerID == trainerID {
			out = append(out, r)
		}
	}
	return out
}

// AttendanceBySession returns the records of one session.
func (s *Store) AttendanceBySession(sessionID string) []model.AttendanceRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.AttendanceRecord, 0)
	for _, r := range s.attendance {
		if r.SessionID == sessionID {
			out = append(out, r)
		}
	}
	return out
}

// PairStatus returns where the pair sits in the check-in lifecycle and its record, if any.
func (s *Store) PairStatus(sessionID, trainerID string) (attendance.Phase, *model.AttendanceRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := attendance.Find(s.attendance, sessionID, trainerID)
	return attendance.PhaseOf(rec), rec
}

// CheckSessionConflict reports whether the trainer is already booked in the interval.
func (s *Store) CheckSessionConflict(trainerID, date, startTime, endTime, excludeID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return schedule.CheckConflict(s.sessions, trainerID, date, startTime, endTime, excludeID)
}

// AddTrainer validates in and stores a new trainer.
func (s *Store) AddTrainer(in validation.TrainerInput) (model.Trainer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validation.Trainer(in, s.trainers, ""); err != nil {
		s.metrics.Refused("add_trainer", "invalid")
		return model.Trainer{}, err
	}
	t := trainerFrom(s.newID(), in)
	s.trainers = trainer.Reduce(s.trainers, trainer.Add{Trainer: t})
	s.metrics.Transition("add_trainer")
	s.log.Info("trainer added", zap.String("trainer_id", t.ID), zap.String("employee_id", t.EmployeeID))
	return t, nil
}

// UpdateTrainer validates in and replaces trainer id.
func (s *Store) UpdateTrainer(id string, in validation.TrainerInput) (model.Trainer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := collection.Find(s.trainers, id); !ok {
		return model.Trainer{}, fmt.Errorf("trainer %s: %w", id, ErrNotFound)
	}
	if err := validation.Trainer(in, s.trainers, id); err != nil {
		s.metrics.Refused("update_trainer", "invalid")
		return model.Trainer{}, err
	}
	t := trainerFrom(id, in)
	s.trainers = trainer.Reduce(s.trainers, trainer.Update{Trainer: t})
	s.metrics.Transition("update_trainer")
	s.log.Info("trainer updated", zap.String("trainer_id", id))
	return t, nil
}

// DeleteTrainer removes trainer id. Its sessions and records stay behind.
func (s *Store) DeleteTrainer(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := collection.Find(s.trainers, id); !ok {
		return fmt.Errorf("trainer %s: %w", id, ErrNotFound)
	}
	s.trainers = trainer.Reduce(s.trainers, trainer.Delete{ID: id})
	s.metrics.Transition("delete_trainer")
	s.log.Info("trainer deleted", zap.String("trainer_id", id))
	return nil
}

// AddSession validates in, refuses overlaps and stores a new session whose status is
// decided by comparing its start with the clock.
func (s *Store) AddSession(in validation.SessionInput) (model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validateSession(in, ""); err != nil {
		return model.Session{}, err
	}
	sess := sessionFrom(s.newID(), in)
	sess.Status = schedule.StatusAt(sess, s.now(), s.loc)
	s.sessions = schedule.Reduce(s.sessions, schedule.Add{Session: sess})
	s.metrics.Transition("add_session")
	s.log.Info("session scheduled",
		zap.String("session_id", sess.ID),
		zap.String("trainer_id", sess.TrainerID),
		zap.String("date", sess.Date),
		zap.String("status", string(sess.Status)))
	return sess, nil
}

// UpdateSession validates in and replaces session id, keeping its previous status.
func (s *Store) UpdateSession(id string, in validation.SessionInput) (model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := collection.Find(s.sessions, id)
	if !ok {
		return model.Session{}, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	if err := s.validateSession(in, id); err != nil {
		return model.Session{}, err
	}
	sess := sessionFrom(id, in)
	sess.Status = prev.Status
	s.sessions = schedule.Reduce(s.sessions, schedule.Update{Session: sess})
	s.metrics.Transition("update_session")
	s.log.Info("session updated", zap.String("session_id", id))
	return sess, nil
}

func (s *Store) validateSession(in validation.SessionInput, selfID string) error {
	err := validation.Session(in, s.sessions, s.trainers, selfID)
	if err == nil {
		return nil
	}
	var ve *validation.ValidationError
	if errors.As(err, &ve) {
		if _, ok := ve.Fields["schedule"]; ok {
			s.metrics.Conflict()
		}
	}
	s.metrics.Refused("save_session", "invalid")
	return err
}

// DeleteSession removes session id. Records that reference it stay behind.
func (s *Store) DeleteSession(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := collection.Find(s.sessions, id); !ok {
		return fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	s.sessions = schedule.Reduce(s.sessions, schedule.Delete{ID: id})
	s.metrics.Transition("delete_session")
	s.log.Info("session deleted", zap.String("session_id", id))
	return nil
}

// CheckIn records the trainer's arrival at the session now. A pair may only check in once.
func (s *Store) CheckIn(sessionID, trainerID string) (model.AttendanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.pair(sessionID, trainerID)
	if err != nil {
		return model.AttendanceRecord{}, err
	}
	existing := attendance.Find(s.attendance, sessionID, trainerID)
	if err := validation.CanCheckIn(existing); err != nil {
		s.metrics.Refused("check_in", "already_checked_in")
		return model.AttendanceRecord{}, err
	}
	start, err := sess.StartAt(s.loc)
	if err != nil {
		return model.AttendanceRecord{}, fmt.Errorf("session %s start: %w", sessionID, err)
	}
	end, err := sess.EndAt(s.loc)
	if err != nil {
		return model.AttendanceRecord{}, fmt.Errorf("session %s end: %w", sessionID, err)
	}

	s.attendance = attendance.Reduce(s.attendance, attendance.CheckIn{
		RecordID:         s.newID(),
		SessionID:        sessionID,
		TrainerID:        trainerID,
		Timestamp:        s.now(),
		SessionStartTime: start,
		SessionEndTime:   end,
	})
	rec := attendance.Find(s.attendance, sessionID, trainerID)
	s.metrics.Transition("check_in")
	s.log.Info("checked in",
		zap.String("record_id", rec.ID),
		zap.String("session_id", sessionID),
		zap.String("trainer_id", trainerID),
		zap.String("status", string(rec.Status)))
	return *rec, nil
}

// CheckOut closes the pair's record now. It needs a prior check-in and happens once.
func (s *Store) CheckOut(sessionID, trainerID string) (model.AttendanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.pair(sessionID, trainerID); err != nil {
		return model.AttendanceRecord{}, err
	}
	if err := validation.CanCheckOut(attendance.Find(s.attendance, sessionID, trainerID)); err != nil {
		s.metrics.Refused("check_out", reason(err))
		return model.AttendanceRecord{}, err
	}

	s.attendance = attendance.Reduce(s.attendance, attendance.CheckOut{
		SessionID: sessionID,
		TrainerID: trainerID,
		Timestamp: s.now(),
	})
	rec := attendance.Find(s.attendance, sessionID, trainerID)
	s.metrics.Transition("check_out")
	s.log.Info("checked out",
		zap.String("record_id", rec.ID),
		zap.String("working_hours", rec.WorkingHours.StringFixed(2)))
	return *rec, nil
}

// Approve approves record id once. Rejected records cannot be approved.
func (s *Store) Approve(id string) (model.AttendanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := collection.Find(s.attendance, id)
	if !ok {
		return model.AttendanceRecord{}, fmt.Errorf("attendance %s: %w", id, ErrNotFound)
	}
	if err := validation.CanApprove(rec); err != nil {
		s.metrics.Refused("approve", reason(err))
		return model.AttendanceRecord{}, err
	}
	s.attendance = attendance.Reduce(s.attendance, attendance.Approve{RecordID: id})
	rec, _ = collection.Find(s.attendance, id)
	s.metrics.Transition("approve")
	s.log.Info("attendance approved", zap.String("record_id", id))
	return rec, nil
}

// Reject rejects record id. Approved or already rejected records are refused.
func (s *Store) Reject(id string) (model.AttendanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := collection.Find(s.attendance, id)
	if !ok {
		return model.AttendanceRecord{}, fmt.Errorf("attendance %s: %w", id, ErrNotFound)
	}
	if err := validation.CanReject(rec); err != nil {
		s.metrics.Refused("reject", reason(err))
		return model.AttendanceRecord{}, err
	}
	s.attendance = attendance.Reduce(s.attendance, attendance.Reject{RecordID: id})
	rec, _ = collection.Find(s.attendance, id)
	s.metrics.Transition("reject")
	s.log.Info("attendance rejected", zap.String("record_id", id))
	return rec, nil
}

// SetAttendance replaces every record.
func (s *Store) SetAttendance(records []model.AttendanceRecord) {
	s.DispatchAttendance(attendance.Set{Records: records})
	s.metrics.Transition("set_attendance")
	s.log.Info("attendance replaced", zap.Int("records", len(records)))
}

// TrainerReport aggregates every record of trainerID.
func (s *Store) TrainerReport(trainerID string) report.TrainerReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return report.ForTrainer(s.attendance, trainerID)
}

// Report is the filtered attendance view with its totals.
type Report struct {
	Records  []model.AttendanceRecord `json:"records"`
	Summary  report.Summary           `json:"summary"`
	Trainers []report.TrainerReport   `json:"trainers"`
}

// Report filters attendance by f. Per-trainer figures cover each trainer's full history,
// not only the filtered range.
func (s *Store) Report(f report.Filter) Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := report.FilterAttendance(s.attendance, s.sessions, f)
	return Report{
		Records:  records,
		Summary:  report.Summarize(records),
		Trainers: report.ForTrainers(s.trainers, s.attendance, f.TrainerID),
	}
}

// ExportCSV renders the filtered attendance and the download file name.
func (s *Store) ExportCSV(f report.Filter) (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := report.FilterAttendance(s.attendance, s.sessions, f)
	return report.ExportCSV(records, s.trainers, s.sessions, s.loc), report.ExportFilename(s.now())
}

// Dashboard builds the overview at the current time.
func (s *Store) Dashboard() report.Dashboard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return report.BuildDashboard(s.trainers, s.sessions, s.attendance, s.now(), s.loc)
}

func (s *Store) pair(sessionID, trainerID string) (model.Session, error) {
	ve := &validation.ValidationError{}
	if sessionID == "" {
		ve.Add("sessionId", "is required")
	}
	if trainerID == "" {
		ve.Add("trainerId", "is required")
	}
	if err := ve.Err(); err != nil {
		return model.Session{}, err
	}
	sess, ok := collection.Find(s.sessions, sessionID)
	if !ok {
		return model.Session{}, fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
	}
	if _, ok := collection.Find(s.trainers, trainerID); !ok {
		return model.Session{}, fmt.Errorf("trainer %s: %w", trainerID, ErrNotFound)
	}
	return sess, nil
}

func reason(err error) string {
	switch {
	case errors.Is(err, validation.ErrAlreadyCheckedIn):
		return "already_checked_in"
	case errors.Is(err, validation.ErrNotCheckedIn):
		return "not_checked_in"
	case errors.Is(err, validation.ErrAlreadyCheckedOut):
		return "already_checked_out"
	case errors.Is(err, validation.ErrAlreadyApproved):
		return "already_approved"
	case errors.Is(err, validation.ErrRejected):
		return "rejected"
	default:
		return "invalid"
	}
}

func trainerFrom(id string, in validation.TrainerInput) model.Trainer {
	return model.Trainer{
		ID:         id,
		Name:       in.Name,
		EmployeeID: in.EmployeeID,
		Email:      in.Email,
		Phone:      in.Phone,
		Skill:      in.Skill,
	}
}

func sessionFrom(id string, in validation.SessionInput) model.Session {
	return model.Session{
		ID:        id,
		Name:      in.Name,
		Date:      in.Date,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		TrainerID: in.TrainerID,
	}
}
