package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"officehub/internal/models"
	"officehub/internal/services"
)

type EvaluationHandler struct {
	service services.EvaluationService
}

func NewEvaluationHandler(service services.EvaluationService) *EvaluationHandler {
	return &EvaluationHandler{service: service}
}

func evaluationError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Evaluation not found"})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "forbidden"})
	case errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Intern not found"})
	default:
		log.Printf("[evaluation][%s] error: %v", op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
	}
}

func (h *EvaluationHandler) Create(c *gin.Context) {
	actorID, _ := getUserAndRole(c)

	var req struct {
		InternID     int                      `json:"internId" binding:"required"`
		Period       string                   `json:"period" binding:"required"`
		Ratings      models.EvaluationRatings `json:"ratings" binding:"required"`
		Strengths    string                   `json:"strengths"`
		Improvements string                   `json:"improvements"`
		Comments     string                   `json:"comments"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	e := &models.Evaluation{
		InternID:     req.InternID,
		Period:       req.Period,
		Ratings:      req.Ratings,
		Strengths:    req.Strengths,
		Improvements: req.Improvements,
		Comments:     req.Comments,
	}
	if err := h.service.Create(actorID, e); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			evaluationError(c, "create", err)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": e})
}

func (h *EvaluationHandler) List(c *gin.Context) {
	actorID, role := getUserAndRole(c)
	limit, offset := parsePaging(c)
	internID, _ := strconv.Atoi(c.Query("internId"))
	f := models.EvaluationFilter{
		InternID: internID,
		Status:   c.Query("status"),
		Limit:    limit,
		Offset:   offset,
	}
	items, err := h.service.List(f, actorID, role)
	if err != nil {
		evaluationError(c, "list", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(items), "data": items})
}

func (h *EvaluationHandler) GetByID(c *gin.Context) {
	id, ok := parseID64(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid evaluation id"})
		return
	}
	actorID, role := getUserAndRole(c)
	e, err := h.service.GetByID(id, actorID, role)
	if err != nil {
		evaluationError(c, "get", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": e})
}

func (h *EvaluationHandler) Update(c *gin.Context) {
	id, ok := parseID64(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid evaluation id"})
		return
	}
	actorID, role := getUserAndRole(c)

	e, err := h.service.GetByID(id, actorID, role)
	if err != nil {
		evaluationError(c, "update", err)
		return
	}

	var patch struct {
		Period       string                    `json:"period"`
		Ratings      *models.EvaluationRatings `json:"ratings"`
		Strengths    string                    `json:"strengths"`
		Improvements string                    `json:"improvements"`
		Comments     string                    `json:"comments"`
	}
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if patch.Period != "" {
		e.Period = patch.Period
	}
	if patch.Ratings != nil {
		e.Ratings = *patch.Ratings
	}
	if patch.Strengths != "" {
		e.Strengths = patch.Strengths
	}
	if patch.Improvements != "" {
		e.Improvements = patch.Improvements
	}
	if patch.Comments != "" {
		e.Comments = patch.Comments
	}

	if err := h.service.Update(e); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			evaluationError(c, "update", err)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": e})
}

func (h *EvaluationHandler) Delete(c *gin.Context) {
	id, ok := parseID64(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid evaluation id"})
		return
	}
	if err := h.service.Delete(id); err != nil {
		evaluationError(c, "delete", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Evaluation deleted"})
}

// Publish — оценка становится видна стажёру, генерируется сертификат.
func (h *EvaluationHandler) Publish(c *gin.Context) {
	id, ok := parseID64(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid evaluation id"})
		return
	}
	e, err := h.service.Publish(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			evaluationError(c, "publish", err)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Evaluation published", "data": e})
}
