package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vitrine-projetos/vitrine-backend/internal/projects/domain"
)

const (
	CtxFirebaseUID = "firebase_uid"
	CtxViewer      = "viewer"
)

// SetViewer stores the resolved viewer on the Gin context.
func SetViewer(c *gin.Context, v domain.Viewer) {
	c.Set(CtxViewer, v)
	if v.UID != "" {
		c.Set(CtxFirebaseUID, v.UID)
	}
}

// ViewerFrom returns the viewer set by the viewer middleware, or a guest.
func ViewerFrom(c *gin.Context) domain.Viewer {
	if v, ok := c.Get(CtxViewer); ok {
		if viewer, ok := v.(domain.Viewer); ok {
			return viewer
		}
	}
	return domain.Guest()
}

// UserFirebaseUID extracts the Firebase UID from the Gin context
func UserFirebaseUID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxFirebaseUID))
}
