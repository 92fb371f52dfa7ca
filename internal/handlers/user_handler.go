package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"officehub/internal/authz"
	"officehub/internal/models"
	"officehub/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) List(c *gin.Context) {
	limit, offset := parsePaging(c)
	f := models.UserFilter{
		Role:   c.Query("role"),
		Status: c.Query("status"),
		Search: strings.TrimSpace(c.Query("search")),
		Limit:  limit,
		Offset: offset,
	}
	users, err := h.userService.List(f)
	if err != nil {
		log.Printf("[user][list] error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to list users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(users), "data": users})
}

func (h *UserHandler) ListInterns(c *gin.Context) {
	users, err := h.userService.ListInterns()
	if err != nil {
		log.Printf("[user][interns] error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to list interns"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(users), "data": users})
}

func (h *UserHandler) GetByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid user id"})
		return
	}

	actorID, role := getUserAndRole(c)
	if authz.RestrictToSelf(role) && actorID != id {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "forbidden"})
		return
	}

	user, err := h.userService.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}

func (h *UserHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid user id"})
		return
	}

	user, err := h.userService.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}

	var patch struct {
		Name         string  `json:"name"`
		Email        string  `json:"email"`
		Role         string  `json:"role"`
		Department   string  `json:"department"`
		Position     string  `json:"position"`
		Phone        string  `json:"phone"`
		Status       string  `json:"status"`
		SupervisorID *int    `json:"supervisorId"`
		StartDate    *string `json:"startDate"`
		EndDate      *string `json:"endDate"`
	}
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if patch.Name != "" {
		user.Name = patch.Name
	}
	if patch.Email != "" {
		user.Email = strings.TrimSpace(strings.ToLower(patch.Email))
	}
	if patch.Role != "" {
		user.Role = patch.Role
	}
	if patch.Department != "" {
		user.Department = patch.Department
	}
	if patch.Position != "" {
		user.Position = patch.Position
	}
	if patch.Phone != "" {
		user.Phone = patch.Phone
	}
	if patch.Status != "" {
		user.Status = patch.Status
	}
	if patch.SupervisorID != nil {
		user.SupervisorID = patch.SupervisorID
	}

	actorID, role := getUserAndRole(c)
	if err := h.userService.Update(actorID, role, user); err != nil {
		if errors.Is(err, services.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "forbidden"})
			return
		}
		log.Printf("[user][update] error for id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid user id"})
		return
	}
	if err := h.userService.Delete(id); err != nil {
		log.Printf("[user][delete] error for id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User deleted"})
}

// UploadAvatar — multipart-загрузка, файл уходит в объектное хранилище.
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	actorID, role := getUserAndRole(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid user id"})
		return
	}
	if !authz.IsAdmin(role) && actorID != id {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "forbidden"})
		return
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "avatar file is required"})
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "cannot read file"})
		return
	}
	defer f.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	url, err := h.userService.UploadAvatar(c.Request.Context(), id, fileHeader.Filename, f, fileHeader.Size, contentType)
	if err != nil {
		log.Printf("[user][avatar] upload failed for id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to upload avatar"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"avatarUrl": url}})
}
