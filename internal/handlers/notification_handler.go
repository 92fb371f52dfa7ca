package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"officehub/internal/services"
)

type NotificationHandler struct {
	service services.NotificationService
}

func NewNotificationHandler(service services.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

func (h *NotificationHandler) List(c *gin.Context) {
	actorID, _ := getUserAndRole(c)
	limit, offset := parsePaging(c)
	items, unread, err := h.service.ListByUser(actorID, limit, offset)
	if err != nil {
		log.Printf("[notification][list] error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(items),
		"data":    gin.H{"notifications": items, "unread": unread},
	})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	actorID, _ := getUserAndRole(c)
	id, ok := parseID64(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid notification id"})
		return
	}
	if err := h.service.MarkRead(id, actorID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Notification not found"})
			return
		}
		log.Printf("[notification][mark-read] error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Marked as read"})
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	actorID, _ := getUserAndRole(c)
	n, err := h.service.MarkAllRead(actorID)
	if err != nil {
		log.Printf("[notification][mark-all] error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"marked": n}})
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	actorID, _ := getUserAndRole(c)
	id, ok := parseID64(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid notification id"})
		return
	}
	if err := h.service.Delete(id, actorID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Notification not found"})
			return
		}
		log.Printf("[notification][delete] error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Notification deleted"})
}
