package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/KichuProject/Srs-Proj/internal/app"
	"github.com/KichuProject/Srs-Proj/internal/auth"
	"github.com/KichuProject/Srs-Proj/internal/queue"
	"github.com/KichuProject/Srs-Proj/internal/validation"
)

// Options carries token settings.
type Options struct {
	SigningKey string
	Issuer     string
	AccessTTL  time.Duration
}

// Handler exposes the store over HTTP. Every mutation validates first, applies, then
// publishes an event describing the change.
type Handler struct {
	store  *app.Store
	auth   *auth.Authenticator
	events queue.Queue
	log    *zap.Logger
	opts   Options
}

// New builds a Handler. events and log may be nil.
func New(store *app.Store, authn *auth.Authenticator, events queue.Queue, log *zap.Logger, opts Options) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.AccessTTL <= 0 {
		opts.AccessTTL = 12 * time.Hour
	}
	return &Handler{store: store, auth: authn, events: events, log: log, opts: opts}
}

// Register mounts the /v1 routes on r.
func (h *Handler) Register(r gin.IRouter) {
	v1 := r.Group("/v1")
	v1.POST("/login", h.login)
	v1.GET("/auth/status", h.authStatus)

	authed := v1.Group("", auth.RequireOperator(h.auth, h.opts.SigningKey, h.opts.Issuer))
	authed.POST("/logout", h.logout)

	authed.GET("/trainers", h.listTrainers)
	authed.POST("/trainers", h.createTrainer)
	authed.GET("/trainers/:id", h.getTrainer)
	authed.PUT("/trainers/:id", h.updateTrainer)
	authed.DELETE("/trainers/:id", h.deleteTrainer)
	authed.GET("/trainers/:id/report", h.trainerReport)
	authed.GET("/trainers/:id/attendance", h.trainerAttendance)
	authed.GET("/trainers/:id/sessions", h.trainerSessions)

	authed.GET("/sessions", h.listSessions)
	authed.POST("/sessions", h.createSession)
	authed.GET("/sessions/:id", h.getSession)
	authed.PUT("/sessions/:id", h.updateSession)
	authed.DELETE("/sessions/:id", h.deleteSession)
	authed.GET("/sessions/:id/attendance", h.sessionAttendance)

	authed.GET("/schedule/today", h.todaySessions)
	authed.GET("/schedule/upcoming", h.upcomingSessions)
	authed.GET("/schedule/conflicts", h.checkConflict)

	authed.GET("/attendance", h.listAttendance)
	authed.PUT("/attendance", h.setAttendance)
	authed.GET("/attendance/status", h.pairStatus)
	authed.POST("/attendance/checkin", h.checkIn)
	authed.POST("/attendance/checkout", h.checkOut)
	authed.POST("/attendance/:id/approve", h.approve)
	authed.POST("/attendance/:id/reject", h.reject)

	authed.GET("/reports", h.reports)
	authed.GET("/reports/export.csv", h.exportCSV)
	authed.GET("/dashboard", h.dashboard)
}

func (h *Handler) login(c *gin.Context) {
	var req validation.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ok, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}
	tok, err := auth.Issue(req.Email, "operator", h.opts.Issuer, h.opts.SigningKey, h.opts.AccessTTL)
	if err != nil {
		h.log.Error("token issue failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token": tok.AccessToken,
		"expires_at":   tok.ExpiresAt.Unix(),
	})
}

func (h *Handler) authStatus(c *gin.Context) {
	ok, err := h.auth.IsAuthenticated(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"isAuthenticated": ok})
}

func (h *Handler) logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// fail maps domain errors onto HTTP statuses.
func (h *Handler) fail(c *gin.Context, err error) {
	var ve *validation.ValidationError
	var se *validation.StateError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": ve.Fields})
	case errors.Is(err, app.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &se):
		c.JSON(http.StatusConflict, gin.H{"error": se.Error()})
	default:
		h.log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// publish is best effort: the mutation has already been applied.
func (h *Handler) publish(ctx context.Context, evt queue.Event) {
	if h.events == nil {
		return
	}
	if evt.At.IsZero() {
		evt.At = h.store.Now()
	}
	if err := h.events.Publish(ctx, evt); err != nil {
		h.log.Warn("event publish failed", zap.String("kind", evt.Kind), zap.Error(err))
	}
}
