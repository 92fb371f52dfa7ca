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

type WorkLogHandler struct {
	service services.WorkLogService
}

func NewWorkLogHandler(service services.WorkLogService) *WorkLogHandler {
	return &WorkLogHandler{service: service}
}

func workLogError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Work log not found"})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "forbidden"})
	default:
		log.Printf("[worklog][%s] error: %v", op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
	}
}

func (h *WorkLogHandler) Create(c *gin.Context) {
	actorID, _ := getUserAndRole(c)
	var req struct {
		Date        string  `json:"date"`
		Title       string  `json:"title" binding:"required"`
		Description string  `json:"description"`
		HoursSpent  float64 `json:"hoursSpent" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	w := &models.WorkLog{
		Date:        req.Date,
		Title:       req.Title,
		Description: req.Description,
		HoursSpent:  req.HoursSpent,
	}
	if err := h.service.Create(actorID, w); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": w})
}

func (h *WorkLogHandler) List(c *gin.Context) {
	actorID, role := getUserAndRole(c)
	limit, offset := parsePaging(c)
	userID, _ := strconv.Atoi(c.Query("userId"))
	f := models.WorkLogFilter{
		UserID:   userID,
		Status:   c.Query("status"),
		DateFrom: c.Query("from"),
		DateTo:   c.Query("to"),
		Limit:    limit,
		Offset:   offset,
	}
	items, err := h.service.List(f, actorID, role)
	if err != nil {
		workLogError(c, "list", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(items), "data": items})
}

func (h *WorkLogHandler) GetByID(c *gin.Context) {
	id, ok := parseID64(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid work log id"})
		return
	}
	actorID, role := getUserAndRole(c)
	w, err := h.service.GetByID(id, actorID, role)
	if err != nil {
		workLogError(c, "get", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": w})
}

func (h *WorkLogHandler) Update(c *gin.Context) {
	id, ok := parseID64(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid work log id"})
		return
	}
	actorID, role := getUserAndRole(c)

	w, err := h.service.GetByID(id, actorID, role)
	if err != nil {
		workLogError(c, "update", err)
		return
	}

	var patch struct {
		Date        string  `json:"date"`
		Title       string  `json:"title"`
		Description string  `json:"description"`
		HoursSpent  float64 `json:"hoursSpent"`
	}
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if patch.Date != "" {
		w.Date = patch.Date
	}
	if patch.Title != "" {
		w.Title = patch.Title
	}
	if patch.Description != "" {
		w.Description = patch.Description
	}
	if patch.HoursSpent > 0 {
		w.HoursSpent = patch.HoursSpent
	}

	if err := h.service.Update(actorID, role, w); err != nil {
		if errors.Is(err, services.ErrNotFound) || errors.Is(err, services.ErrForbidden) {
			workLogError(c, "update", err)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": w})
}

func (h *WorkLogHandler) Delete(c *gin.Context) {
	id, ok := parseID64(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid work log id"})
		return
	}
	actorID, role := getUserAndRole(c)
	if err := h.service.Delete(id, actorID, role); err != nil {
		workLogError(c, "delete", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Work log deleted"})
}

// Review — только админ: рейтинг + комментарий, лог переходит в reviewed.
func (h *WorkLogHandler) Review(c *gin.Context) {
	id, ok := parseID64(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid work log id"})
		return
	}
	actorID, _ := getUserAndRole(c)

	var req models.WorkLogFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	w, err := h.service.Review(id, actorID, req)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			workLogError(c, "review", err)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": w})
}

func (h *WorkLogHandler) Stats(c *gin.Context) {
	actorID, role := getUserAndRole(c)
	userID, _ := strconv.Atoi(c.Query("userId"))
	if userID == 0 || authz.RestrictToSelf(role) {
		userID = actorID
	}
	stats, err := h.service.StatsByUser(userID)
	if err != nil {
		workLogError(c, "stats", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": stats})
}
