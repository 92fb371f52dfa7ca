package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"officehub/internal/models"
	"officehub/internal/services"
)

type DocumentHandler struct {
	service services.DocumentService
}

func NewDocumentHandler(service services.DocumentService) *DocumentHandler {
	return &DocumentHandler{service: service}
}

func documentError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Document not found"})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "forbidden"})
	default:
		log.Printf("[document][%s] error: %v", op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
	}
}

// Upload — multipart: file + title/category/tags/isPublic.
func (h *DocumentHandler) Upload(c *gin.Context) {
	actorID, _ := getUserAndRole(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "file is required"})
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "cannot read file"})
		return
	}
	defer f.Close()

	var tags []string
	if raw := strings.TrimSpace(c.PostForm("tags")); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}
	isPublic := c.PostForm("isPublic") == "true"

	doc, err := h.service.Upload(
		c.Request.Context(),
		actorID,
		c.PostForm("title"),
		c.PostForm("category"),
		tags,
		isPublic,
		fileHeader.Filename,
		f,
		fileHeader.Size,
		fileHeader.Header.Get("Content-Type"),
	)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) || errors.Is(err, services.ErrForbidden) {
			documentError(c, "upload", err)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": doc})
}

func (h *DocumentHandler) List(c *gin.Context) {
	actorID, role := getUserAndRole(c)
	limit, offset := parsePaging(c)
	f := models.DocumentFilter{
		Category:   c.Query("category"),
		Search:     strings.TrimSpace(c.Query("search")),
		ViewerID:   actorID,
		ViewerRole: role,
		Limit:      limit,
		Offset:     offset,
	}
	docs, err := h.service.List(f)
	if err != nil {
		documentError(c, "list", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(docs), "data": docs})
}

func (h *DocumentHandler) GetByID(c *gin.Context) {
	id, ok := parseID64(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid document id"})
		return
	}
	actorID, role := getUserAndRole(c)
	doc, err := h.service.GetByID(id, actorID, role)
	if err != nil {
		documentError(c, "get", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": doc})
}

func (h *DocumentHandler) Delete(c *gin.Context) {
	id, ok := parseID64(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid document id"})
		return
	}
	actorID, role := getUserAndRole(c)
	if err := h.service.Delete(c.Request.Context(), id, actorID, role); err != nil {
		documentError(c, "delete", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Document deleted"})
}

func (h *DocumentHandler) Share(c *gin.Context) {
	id, ok := parseID64(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid document id"})
		return
	}
	var req models.ShareDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	doc, err := h.service.Share(id, req)
	if err != nil {
		documentError(c, "share", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": doc})
}

// Download — редирект на файл в хранилище + инкремент счётчика.
func (h *DocumentHandler) Download(c *gin.Context) {
	id, ok := parseID64(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid document id"})
		return
	}
	actorID, role := getUserAndRole(c)
	url, err := h.service.Download(id, actorID, role)
	if err != nil {
		documentError(c, "download", err)
		return
	}
	c.Redirect(http.StatusFound, url)
}
