package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KichuProject/Srs-Proj/internal/model"
	"github.com/KichuProject/Srs-Proj/internal/queue"
	"github.com/KichuProject/Srs-Proj/internal/report"
)

type pairRequest struct {
	SessionID string `json:"sessionId"`
	TrainerID string `json:"trainerId"`
}

func (h *Handler) listAttendance(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Attendance())
}

func (h *Handler) setAttendance(c *gin.Context) {
	var records []model.AttendanceRecord
	if err := c.ShouldBindJSON(&records); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.store.SetAttendance(records)
	h.publish(c.Request.Context(), queue.Event{Kind: queue.AttendanceReplace, SubjectID: "attendance"})
	c.JSON(http.StatusOK, h.store.Attendance())
}

func (h *Handler) pairStatus(c *gin.Context) {
	phase, rec := h.store.PairStatus(c.Query("session_id"), c.Query("trainer_id"))
	c.JSON(http.StatusOK, gin.H{"phase": phase.String(), "record": rec})
}

func (h *Handler) checkIn(c *gin.Context) {
	var req pairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec, err := h.store.CheckIn(req.SessionID, req.TrainerID)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.publishRecord(c, queue.CheckedIn, rec)
	c.JSON(http.StatusCreated, rec)
}

func (h *Handler) checkOut(c *gin.Context) {
	var req pairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec, err := h.store.CheckOut(req.SessionID, req.TrainerID)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.publishRecord(c, queue.CheckedOut, rec)
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) approve(c *gin.Context) {
	rec, err := h.store.Approve(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.publishRecord(c, queue.Approved, rec)
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) reject(c *gin.Context) {
	rec, err := h.store.Reject(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.publishRecord(c, queue.Rejected, rec)
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) publishRecord(c *gin.Context, kind string, rec model.AttendanceRecord) {
	h.publish(c.Request.Context(), queue.Event{
		Kind:      kind,
		SubjectID: rec.ID,
		SessionID: rec.SessionID,
		TrainerID: rec.TrainerID,
		Status:    string(rec.Status),
	})
}

func (h *Handler) reports(c *gin.Context) {
	var f report.Filter
	if err := c.ShouldBindQuery(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.store.Report(f))
}

func (h *Handler) exportCSV(c *gin.Context) {
	var f report.Filter
	if err := c.ShouldBindQuery(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	body, name := h.store.ExportCSV(f)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(body))
}

func (h *Handler) dashboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Dashboard())
}
