package notifications

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vitrine-projetos/vitrine-backend/internal/auth"
)

type Handler struct {
	svc *Service
}

func Register(rg *gin.RouterGroup, svc *Service) {
	h := &Handler{svc: svc}

	rg.GET("", h.list)
	rg.POST("/:id/read", h.markRead)
}

func (h *Handler) list(c *gin.Context) {
	viewer := auth.ViewerFrom(c)
	if viewer.Role.IsGuest() {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "authentication required"})
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	unread := c.Query("unread") == "true"

	items, err := h.svc.List(c.Request.Context(), viewer.UID, unread, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "notifications": items})
}

func (h *Handler) markRead(c *gin.Context) {
	viewer := auth.ViewerFrom(c)
	if viewer.Role.IsGuest() {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "authentication required"})
		return
	}

	err := h.svc.MarkRead(c.Request.Context(), viewer.UID, c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "notification not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
