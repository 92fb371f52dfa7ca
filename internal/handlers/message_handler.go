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

type MessageHandler struct {
	service services.MessageService
}

func NewMessageHandler(service services.MessageService) *MessageHandler {
	return &MessageHandler{service: service}
}

func (h *MessageHandler) Send(c *gin.Context) {
	actorID, _ := getUserAndRole(c)
	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	m, err := h.service.Send(actorID, req)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Recipient not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": m})
}

func (h *MessageHandler) Conversations(c *gin.Context) {
	actorID, _ := getUserAndRole(c)
	items, err := h.service.Conversations(actorID)
	if err != nil {
		log.Printf("[message][conversations] error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(items), "data": items})
}

func (h *MessageHandler) Conversation(c *gin.Context) {
	actorID, _ := getUserAndRole(c)
	partnerID, err := strconv.Atoi(c.Param("userId"))
	if err != nil || partnerID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid user id"})
		return
	}
	limit, offset := parsePaging(c)
	items, err := h.service.Conversation(actorID, partnerID, limit, offset)
	if err != nil {
		log.Printf("[message][conversation] error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(items), "data": items})
}

// MarkRead — помечает прочитанными входящие в диалоге с userId.
func (h *MessageHandler) MarkRead(c *gin.Context) {
	actorID, _ := getUserAndRole(c)
	partnerID, err := strconv.Atoi(c.Param("userId"))
	if err != nil || partnerID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid user id"})
		return
	}
	n, err := h.service.MarkConversationRead(actorID, partnerID)
	if err != nil {
		log.Printf("[message][mark-read] error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"marked": n}})
}

func (h *MessageHandler) UnreadCount(c *gin.Context) {
	actorID, _ := getUserAndRole(c)
	n, err := h.service.UnreadCount(actorID)
	if err != nil {
		log.Printf("[message][unread] error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"unread": n}})
}
