package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"officehub/internal/services"
)

type DashboardHandler struct {
	service services.DashboardService
}

func NewDashboardHandler(service services.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

func (h *DashboardHandler) Admin(c *gin.Context) {
	d, err := h.service.AdminDashboard()
	if err != nil {
		log.Printf("[dashboard][admin] error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": d})
}

func (h *DashboardHandler) Intern(c *gin.Context) {
	actorID, _ := getUserAndRole(c)
	d, err := h.service.InternDashboard(actorID)
	if err != nil {
		log.Printf("[dashboard][intern] error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": d})
}
