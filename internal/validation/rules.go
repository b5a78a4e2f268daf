package validation

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/KichuProject/Srs-Proj/internal/collection"
	"github.com/KichuProject/Srs-Proj/internal/model"
	"github.com/KichuProject/Srs-Proj/internal/schedule"
)

var (
	phonePattern     = regexp.MustCompile(`^\+?[0-9][0-9 -]{6,18}[0-9]$`)
	loginMailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)
	clockPattern     = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return clockPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("loginemail", func(fl validator.FieldLevel) bool {
		return loginMailPattern.MatchString(fl.Field().String())
	})
	return v
}

// TrainerInput is the trainer form.
type TrainerInput struct {
	Name       string `json:"name" validate:"required"`
	EmployeeID string `json:"employeeId" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required,phone"`
	Skill      string `json:"skill" validate:"required"`
}

// SessionInput is the session scheduling form.
type SessionInput struct {
	Name      string `json:"name" validate:"required"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"startTime" validate:"required,hhmm"`
	EndTime   string `json:"endTime" validate:"required,hhmm"`
	TrainerID string `json:"trainerId" validate:"required"`
}

// Credentials is the login form.
type Credentials struct {
	Email    string `json:"email" validate:"required,loginemail"`
	Password string `json:"password" validate:"required,min=4"`
}

var messages = map[string]string{
	"required":   "is required",
	"email":      "is not a valid email address",
	"loginemail": "is not a valid email address",
	"phone":      "is not a valid phone number",
	"min":        "is too short",
	"hhmm":       "must match HH:MM",
}

func structErrors(in any) *ValidationError {
	ve := &ValidationError{}
	err := validate.Struct(in)
	if err == nil {
		return ve
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		ve.Add("form", err.Error())
		return ve
	}
	for _, fe := range errs {
		msg := messages[fe.Tag()]
		if fe.Tag() == "datetime" {
			msg = "must match YYYY-MM-DD"
		}
		if msg == "" {
			msg = "is invalid"
		}
		ve.Add(fe.Field(), msg)
	}
	return ve
}

// Trainer checks a trainer form. The employee id must not belong to any trainer other than
// selfID; pass "" when adding.
func Trainer(in TrainerInput, trainers []model.Trainer, selfID string) error {
	ve := structErrors(in)
	for _, t := range trainers {
		if t.ID != selfID && in.EmployeeID != "" && t.EmployeeID == in.EmployeeID {
			ve.Add("employeeId", "is already used by "+t.Name)
			break
		}
	}
	return ve.Err()
}

// Session checks a session form, including overlap with the trainer's other sessions.
// selfID is the session being edited, or "" when scheduling a new one.
func Session(in SessionInput, sessions []model.Session, trainers []model.Trainer, selfID string) error {
	ve := structErrors(in)
	if _, bad := ve.Fields["startTime"]; !bad {
		if _, bad := ve.Fields["endTime"]; !bad && in.StartTime >= in.EndTime {
			ve.Add("endTime", "must be after the start time")
		}
	}
	if in.TrainerID != "" {
		if _, ok := collection.Find(trainers, in.TrainerID); !ok {
			ve.Add("trainerId", "does not match any trainer")
		}
	}
	if len(ve.Fields) == 0 && schedule.CheckConflict(sessions, in.TrainerID, in.Date, in.StartTime, in.EndTime, selfID) {
		ve.Add("schedule", "trainer already has a session at this time")
	}
	return ve.Err()
}

// Login checks the login form shape. It says nothing about whether the credentials match.
func Login(c Credentials) error {
	return structErrors(c).Err()
}

// CanCheckIn allows a check-in only while the pair has no check-in yet.
func CanCheckIn(r *model.AttendanceRecord) error {
	if r != nil && r.CheckInTime != nil {
		return &StateError{Op: "check in", Err: ErrAlreadyCheckedIn}
	}
	return nil
}

// CanCheckOut allows a check-out only after a check-in and only once.
func CanCheckOut(r *model.AttendanceRecord) error {
	switch {
	case r == nil || r.CheckInTime == nil:
		return &StateError{Op: "check out", Err: ErrNotCheckedIn}
	case r.CheckOutTime != nil:
		return &StateError{Op: "check out", Err: ErrAlreadyCheckedOut}
	}
	return nil
}

// CanApprove refuses a second approval and any approval of a rejected record.
func CanApprove(r model.AttendanceRecord) error {
	switch {
	case r.Status == model.StatusRejected:
		return &StateError{Op: "approve", Err: ErrRejected}
	case r.Approved:
		return &StateError{Op: "approve", Err: ErrAlreadyApproved}
	}
	return nil
}

// CanReject only applies to records that are neither approved nor already rejected.
func CanReject(r model.AttendanceRecord) error {
	switch {
	case r.Status == model.StatusRejected:
		return &StateError{Op: "reject", Err: ErrRejected}
	case r.Approved:
		return &StateError{Op: "reject", Err: ErrAlreadyApproved}
	}
	return nil
}
