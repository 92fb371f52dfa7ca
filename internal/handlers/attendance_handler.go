package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"officehub/internal/authz"
	"officehub/internal/models"
	"officehub/internal/services"
)

type AttendanceHandler struct {
	service services.AttendanceService
}

func NewAttendanceHandler(service services.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: service}
}

func attendanceError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, services.ErrAlreadyCheckedIn),
		errors.Is(err, services.ErrNotCheckedIn),
		errors.Is(err, services.ErrAlreadyCheckedOut):
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Attendance record not found"})
	default:
		log.Printf("[attendance][%s] error: %v", op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
	}
}

func (h *AttendanceHandler) CheckIn(c *gin.Context) {
	actorID, _ := getUserAndRole(c)
	var req struct {
		Notes string `json:"notes"`
	}
	_ = c.ShouldBindJSON(&req) // тело опционально

	a, err := h.service.CheckIn(actorID, req.Notes)
	if err != nil {
		attendanceError(c, "check-in", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Checked in", "data": a})
}

func (h *AttendanceHandler) CheckOut(c *gin.Context) {
	actorID, _ := getUserAndRole(c)
	a, err := h.service.CheckOut(actorID)
	if err != nil {
		attendanceError(c, "check-out", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Checked out", "data": a})
}

func (h *AttendanceHandler) Today(c *gin.Context) {
	actorID, _ := getUserAndRole(c)
	a, err := h.service.Today(actorID)
	if err != nil {
		attendanceError(c, "today", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": a})
}

func (h *AttendanceHandler) List(c *gin.Context) {
	actorID, role := getUserAndRole(c)
	limit, offset := parsePaging(c)
	userID, _ := strconv.Atoi(c.Query("userId"))
	f := models.AttendanceFilter{
		UserID:   userID,
		Status:   c.Query("status"),
		DateFrom: c.Query("from"),
		DateTo:   c.Query("to"),
		Limit:    limit,
		Offset:   offset,
	}
	items, err := h.service.List(f, actorID, role)
	if err != nil {
		attendanceError(c, "list", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(items), "data": items})
}

func (h *AttendanceHandler) RequestLeave(c *gin.Context) {
	actorID, _ := getUserAndRole(c)
	var req models.LeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	a, err := h.service.RequestLeave(actorID, req)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			attendanceError(c, "leave", err)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Leave requested", "data": a})
}

// ResolveLeave — только админ: approve или reject в теле запроса.
func (h *AttendanceHandler) ResolveLeave(c *gin.Context) {
	id, ok := parseID64(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid attendance id"})
		return
	}
	actorID, _ := getUserAndRole(c)

	var req struct {
		Action string `json:"action" binding:"required"` // approve | reject
	}
	if err := c.ShouldBindJSON(&req); err != nil || (req.Action != "approve" && req.Action != "reject") {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "action must be approve or reject"})
		return
	}

	a, err := h.service.ResolveLeave(id, req.Action == "approve", actorID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			attendanceError(c, "resolve-leave", err)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": a})
}

func (h *AttendanceHandler) Stats(c *gin.Context) {
	actorID, role := getUserAndRole(c)
	userID, _ := strconv.Atoi(c.Query("userId"))
	if userID == 0 || authz.RestrictToSelf(role) {
		userID = actorID
	}
	stats, err := h.service.StatsByUser(userID, c.Query("from"), c.Query("to"))
	if err != nil {
		attendanceError(c, "stats", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": stats})
}
