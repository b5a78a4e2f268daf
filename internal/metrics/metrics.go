package metrics

import "github.com/prometheus/client_golang/prometheus"

// Recorder counts domain activity. A nil *Recorder is valid and records nothing.
type Recorder struct {
	transitions *prometheus.CounterVec
	conflicts   prometheus.Counter
	rejected    *prometheus.CounterVec
	logins      *prometheus.CounterVec
	limited     prometheus.Counter
}

// New builds a Recorder and registers its collectors on reg.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "attendance_transitions_total",
			Help: "Attendance and schedule mutations applied, by action.",
		}, []string{"action"}),
		conflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "attendance_session_conflicts_total",
			Help: "Session forms refused because the trainer was already booked.",
		}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "attendance_operations_refused_total",
			Help: "Operations refused before mutation, by action and reason.",
		}, []string{"action", "reason"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "attendance_login_attempts_total",
			Help: "Login attempts by result.",
		}, []string{"result"}),
		limited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "attendance_http_rate_limited_total",
			Help: "Requests turned away by the rate limiter.",
		}),
	}
	reg.MustRegister(r.transitions, r.conflicts, r.rejected, r.logins, r.limited)
	return r
}

// Transition counts an applied mutation.
func (r *Recorder) Transition(action string) {
	if r == nil {
		return
	}
	r.transitions.WithLabelValues(action).Inc()
}

// Conflict counts a refused session because of overlap.
func (r *Recorder) Conflict() {
	if r == nil {
		return
	}
	r.conflicts.Inc()
}

// Refused counts an operation that failed its preconditions.
func (r *Recorder) Refused(action, reason string) {
	if r == nil {
		return
	}
	r.rejected.WithLabelValues(action, reason).Inc()
}

// Login counts a login attempt; result is "ok", "denied" or "invalid".
func (r *Recorder) Login(result string) {
	if r == nil {
		return
	}
	r.logins.WithLabelValues(result).Inc()
}

// RateLimited counts a request dropped by the limiter.
func (r *Recorder) RateLimited() {
	if r == nil {
		return
	}
	r.limited.Inc()
}
