package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vitrine-projetos/vitrine-backend/internal/api/http/middleware"
	"github.com/vitrine-projetos/vitrine-backend/internal/auth"
	"github.com/vitrine-projetos/vitrine-backend/internal/projects/domain"
	"github.com/vitrine-projetos/vitrine-backend/internal/projects/listing"
	"github.com/vitrine-projetos/vitrine-backend/internal/projects/service"
)

func (h *Handler) list(c *gin.Context) {
	req, err := browseRequestFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	res, err := h.svc.Browse(c.Request.Context(), auth.ViewerFrom(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "result": res})
}

func (h *Handler) get(c *gin.Context) {
	mode := domain.ParseViewMode(c.Query("mode"))
	p, err := h.svc.Get(c.Request.Context(), auth.ViewerFrom(c), c.Param("id"), mode)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) attachments(c *gin.Context) {
	list, err := h.svc.Attachments(c.Request.Context(), auth.ViewerFrom(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "attachments": list})
}

func (h *Handler) download(c *gin.Context) {
	url, err := h.svc.DownloadURL(c.Request.Context(), auth.ViewerFrom(c), c.Param("id"), c.Param("attachment_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if c.Query("redirect") == "true" {
		c.Redirect(http.StatusFound, url)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "url": url})
}

type statusReq struct {
	Status string `json:"status"`
}

func (h *Handler) updatePhaseStatus(c *gin.Context) {
	var req statusReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Status) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	p, err := h.svc.UpdatePhaseStatus(c.Request.Context(), auth.ViewerFrom(c), c.Param("id"), c.Param("phase"), req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func listPhases(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "phases": domain.Phases()})
}

// browseRequestFromQuery maps query parameters to a browse request. Unknown highlight
// names and malformed numbers are client errors.
func browseRequestFromQuery(c *gin.Context) (service.BrowseRequest, error) {
	req := service.BrowseRequest{
		Screen: c.Query("screen"),
		Mode:   c.Query("mode"),
		Criteria: listing.Criteria{
			Search:      strings.TrimSpace(c.Query("q")),
			Course:      strings.TrimSpace(c.Query("course")),
			Category:    strings.TrimSpace(c.Query("category")),
			PhaseStatus: strings.TrimSpace(c.Query("phase_status")),
		},
	}

	if v := strings.TrimSpace(c.Query("phase")); v != "" {
		ph, ok := domain.ParsePhase(v)
		if !ok {
			return req, errors.New("invalid phase")
		}
		req.Criteria.Phase = int(ph)
	}
	if v := c.Query("current_only"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return req, errors.New("invalid current_only")
		}
		req.Criteria.CurrentPhaseOnly = b
	}
	if v := strings.TrimSpace(c.Query("highlight")); v != "" {
		hl, ok := domain.ParseHighlight(v)
		if !ok {
			return req, errors.New("invalid highlight")
		}
		req.Criteria.Highlight = hl
	}
	if v := strings.TrimSpace(c.Query("order")); v != "" {
		req.Criteria.Order = listing.ParseSortOrder(v)
	}

	var err error
	if req.Page, err = intQuery(c, "page"); err != nil {
		return req, err
	}
	if req.PageSize, err = intQuery(c, "page_size"); err != nil {
		return req, err
	}
	return req, nil
}

func intQuery(c *gin.Context, key string) (int, error) {
	v := strings.TrimSpace(c.Query(key))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.New("invalid " + key)
	}
	return n, nil
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrAttachmentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrDownloadForbidden), errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrInvalidPhase), errors.Is(err, domain.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, service.ErrStorageUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": err.Error()})
	default:
		log.Printf("[projects] rid=%s %s %s: %v",
			middleware.RequestIDFrom(c.Request.Context()), c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal error"})
	}
}
