package api

import (
	"cmp"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/KichuProject/Srs-Proj/internal/model"
	"github.com/KichuProject/Srs-Proj/internal/queue"
	"github.com/KichuProject/Srs-Proj/internal/schedule"
	"github.com/KichuProject/Srs-Proj/internal/trainer"
	"github.com/KichuProject/Srs-Proj/internal/validation"
)

type trainerView struct {
	model.Trainer
	SessionCount int `json:"sessionCount"`
}

type sessionView struct {
	model.Session
	DurationHours string `json:"durationHours"`
}

func sessionViews(sessions []model.Session) []sessionView {
	out := make([]sessionView, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, sessionView{Session: s, DurationHours: schedule.DurationHours(s)})
	}
	return out
}

func (h *Handler) listTrainers(c *gin.Context) {
	trainers := h.store.SearchTrainers(c.Query("q"))
	sessions := h.store.Sessions()
	out := make([]trainerView, 0, len(trainers))
	for _, t := range trainers {
		out = append(out, trainerView{Trainer: t, SessionCount: trainer.SessionCount(sessions, t.ID)})
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) getTrainer(c *gin.Context) {
	t, ok := h.store.Trainer(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "trainer not found"})
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) createTrainer(c *gin.Context) {
	var in validation.TrainerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := h.store.AddTrainer(in)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.publish(c.Request.Context(), queue.Event{Kind: queue.TrainerAdded, SubjectID: t.ID, TrainerID: t.ID})
	c.JSON(http.StatusCreated, t)
}

func (h *Handler) updateTrainer(c *gin.Context) {
	var in validation.TrainerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := h.store.UpdateTrainer(c.Param("id"), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.publish(c.Request.Context(), queue.Event{Kind: queue.TrainerUpdated, SubjectID: t.ID, TrainerID: t.ID})
	c.JSON(http.StatusOK, t)
}

func (h *Handler) deleteTrainer(c *gin.Context) {
	id := c.Param("id")
	if err := h.store.DeleteTrainer(id); err != nil {
		h.fail(c, err)
		return
	}
	h.publish(c.Request.Context(), queue.Event{Kind: queue.TrainerDeleted, SubjectID: id, TrainerID: id})
	c.Status(http.StatusNoContent)
}

func (h *Handler) trainerReport(c *gin.Context) {
	id := c.Param("id")
	if _, ok := h.store.Trainer(id); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "trainer not found"})
		return
	}
	c.JSON(http.StatusOK, h.store.TrainerReport(id))
}

func (h *Handler) trainerAttendance(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.AttendanceByTrainer(c.Param("id")))
}

func (h *Handler) trainerSessions(c *gin.Context) {
	c.JSON(http.StatusOK, sessionViews(h.store.SessionsByTrainer(c.Param("id"))))
}

// listSessions shows the latest dates first.
func (h *Handler) listSessions(c *gin.Context) {
	sessions := h.store.Sessions()
	slices.SortStableFunc(sessions, func(a, b model.Session) int {
		return cmp.Compare(b.Date, a.Date)
	})
	c.JSON(http.StatusOK, sessionViews(sessions))
}

func (h *Handler) getSession(c *gin.Context) {
	s, ok := h.store.Session(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, sessionView{Session: s, DurationHours: schedule.DurationHours(s)})
}

func (h *Handler) createSession(c *gin.Context) {
	var in validation.SessionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, err := h.store.AddSession(in)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.publish(c.Request.Context(), queue.Event{
		Kind:      queue.SessionScheduled,
		SubjectID: s.ID,
		SessionID: s.ID,
		TrainerID: s.TrainerID,
		Status:    string(s.Status),
	})
	c.JSON(http.StatusCreated, s)
}

func (h *Handler) updateSession(c *gin.Context) {
	var in validation.SessionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, err := h.store.UpdateSession(c.Param("id"), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.publish(c.Request.Context(), queue.Event{
		Kind:      queue.SessionUpdated,
		SubjectID: s.ID,
		SessionID: s.ID,
		TrainerID: s.TrainerID,
		Status:    string(s.Status),
	})
	c.JSON(http.StatusOK, s)
}

func (h *Handler) deleteSession(c *gin.Context) {
	id := c.Param("id")
	if err := h.store.DeleteSession(id); err != nil {
		h.fail(c, err)
		return
	}
	h.publish(c.Request.Context(), queue.Event{Kind: queue.SessionDeleted, SubjectID: id, SessionID: id})
	c.Status(http.StatusNoContent)
}

func (h *Handler) sessionAttendance(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.AttendanceBySession(c.Param("id")))
}

func (h *Handler) todaySessions(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.TodaySessions())
}

func (h *Handler) upcomingSessions(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.UpcomingSessions())
}

type conflictQuery struct {
	TrainerID string `form:"trainer_id"`
	Date      string `form:"date"`
	StartTime string `form:"start_time"`
	EndTime   string `form:"end_time"`
	ExcludeID string `form:"exclude_id"`
}

func (h *Handler) checkConflict(c *gin.Context) {
	var q conflictQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	conflict := h.store.CheckSessionConflict(q.TrainerID, q.Date, q.StartTime, q.EndTime, q.ExcludeID)
	c.JSON(http.StatusOK, gin.H{"conflict": conflict})
}
