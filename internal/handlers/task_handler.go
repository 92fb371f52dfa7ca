package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"officehub/internal/authz"
	"officehub/internal/models"
	"officehub/internal/services"
)

type TaskHandler struct {
	taskService services.TaskService
	userService services.UserService
}

func NewTaskHandler(taskService services.TaskService, userService services.UserService) *TaskHandler {
	return &TaskHandler{taskService: taskService, userService: userService}
}

func taskError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Task not found"})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "forbidden"})
	case errors.Is(err, services.ErrBadStatusTransition):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
	default:
		log.Printf("[task][%s] error: %v", op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
	}
}

func (h *TaskHandler) Create(c *gin.Context) {
	actorID, _ := getUserAndRole(c)

	var req struct {
		Title       string  `json:"title" binding:"required"`
		Description string  `json:"description"`
		AssignedTo  int     `json:"assignedTo" binding:"required"`
		Priority    string  `json:"priority"`
		DueDate     *string `json:"dueDate"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	task := &models.Task{
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		Priority:    req.Priority,
	}
	if req.DueDate != nil {
		if t, err := time.Parse("2006-01-02", *req.DueDate); err == nil {
			task.DueDate = &t
		}
	}
	if err := h.taskService.Create(actorID, task); err != nil {
		taskError(c, "create", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": task})
}

func (h *TaskHandler) List(c *gin.Context) {
	actorID, role := getUserAndRole(c)
	limit, offset := parsePaging(c)
	assignedTo, _ := strconv.Atoi(c.Query("assignedTo"))
	f := models.TaskFilter{
		AssignedTo: assignedTo,
		Status:     c.Query("status"),
		Priority:   c.Query("priority"),
		Limit:      limit,
		Offset:     offset,
	}
	tasks, err := h.taskService.List(f, actorID, role)
	if err != nil {
		taskError(c, "list", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(tasks), "data": tasks})
}

func (h *TaskHandler) GetByID(c *gin.Context) {
	id, ok := parseID64(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid task id"})
		return
	}
	actorID, role := getUserAndRole(c)
	task, err := h.taskService.GetByID(id, actorID, role)
	if err != nil {
		taskError(c, "get", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": task})
}

func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := parseID64(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid task id"})
		return
	}
	actorID, role := getUserAndRole(c)

	task, err := h.taskService.GetByID(id, actorID, role)
	if err != nil {
		taskError(c, "update", err)
		return
	}

	var patch struct {
		Title       string  `json:"title"`
		Description string  `json:"description"`
		AssignedTo  int     `json:"assignedTo"`
		Status      string  `json:"status"`
		Priority    string  `json:"priority"`
		DueDate     *string `json:"dueDate"`
	}
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if patch.Title != "" {
		task.Title = patch.Title
	}
	if patch.Description != "" {
		task.Description = patch.Description
	}
	if patch.AssignedTo > 0 {
		task.AssignedTo = patch.AssignedTo
	}
	if patch.Status != "" {
		task.Status = patch.Status
	}
	if patch.Priority != "" {
		task.Priority = patch.Priority
	}
	if patch.DueDate != nil {
		if t, err := time.Parse("2006-01-02", *patch.DueDate); err == nil {
			task.DueDate = &t
		}
	}

	if err := h.taskService.Update(actorID, role, task); err != nil {
		taskError(c, "update", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": task})
}

func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := parseID64(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid task id"})
		return
	}
	if err := h.taskService.Delete(id); err != nil {
		taskError(c, "delete", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Task deleted"})
}

func (h *TaskHandler) AddComment(c *gin.Context) {
	id, ok := parseID64(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid task id"})
		return
	}
	actorID, role := getUserAndRole(c)

	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	authorName := ""
	if u, err := h.userService.GetByID(actorID); err == nil {
		authorName = u.Name
	}

	task, err := h.taskService.AddComment(id, actorID, role, authorName, req.Text)
	if err != nil {
		taskError(c, "comment", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": task})
}

func (h *TaskHandler) Stats(c *gin.Context) {
	actorID, role := getUserAndRole(c)
	userID, _ := strconv.Atoi(c.Query("userId"))
	if userID == 0 || authz.RestrictToSelf(role) {
		userID = actorID
	}
	stats, err := h.taskService.StatsByUser(userID)
	if err != nil {
		taskError(c, "stats", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": stats})
}
