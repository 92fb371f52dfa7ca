package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"officehub/internal/models"
	"officehub/internal/services"
)

type AnnouncementHandler struct {
	service services.AnnouncementService
}

func NewAnnouncementHandler(service services.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{service: service}
}

func (h *AnnouncementHandler) Create(c *gin.Context) {
	actorID, _ := getUserAndRole(c)
	var req struct {
		Title    string `json:"title" binding:"required"`
		Content  string `json:"content" binding:"required"`
		Audience string `json:"audience"`
		Priority string `json:"priority"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	a := &models.Announcement{
		Title:    req.Title,
		Content:  req.Content,
		Audience: req.Audience,
		Priority: req.Priority,
	}
	if err := h.service.Create(actorID, a); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": a})
}

func (h *AnnouncementHandler) List(c *gin.Context) {
	_, role := getUserAndRole(c)
	limit, offset := parsePaging(c)
	activeOnly := c.DefaultQuery("active", "true") == "true"
	items, err := h.service.List(role, activeOnly, limit, offset)
	if err != nil {
		log.Printf("[announcement][list] error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(items), "data": items})
}

func (h *AnnouncementHandler) Update(c *gin.Context) {
	id, ok := parseID64(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid announcement id"})
		return
	}
	var req struct {
		Title    string `json:"title"`
		Content  string `json:"content"`
		Audience string `json:"audience"`
		Priority string `json:"priority"`
		Active   *bool  `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	a := &models.Announcement{
		ID:       id,
		Title:    req.Title,
		Content:  req.Content,
		Audience: req.Audience,
		Priority: req.Priority,
		Active:   true,
	}
	if req.Active != nil {
		a.Active = *req.Active
	}
	if err := h.service.Update(a); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Announcement not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": a})
}

func (h *AnnouncementHandler) Delete(c *gin.Context) {
	id, ok := parseID64(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid announcement id"})
		return
	}
	if err := h.service.Delete(id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Announcement not found"})
			return
		}
		log.Printf("[announcement][delete] error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Announcement deleted"})
}

func (h *AnnouncementHandler) MarkRead(c *gin.Context) {
	actorID, _ := getUserAndRole(c)
	id, ok := parseID64(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid announcement id"})
		return
	}
	if err := h.service.MarkRead(id, actorID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Announcement not found"})
			return
		}
		log.Printf("[announcement][mark-read] error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Marked as read"})
}
