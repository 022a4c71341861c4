package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"

	"github.com/vitrine-projetos/vitrine-backend/internal/auth"
	"github.com/vitrine-projetos/vitrine-backend/internal/projects/domain"
)

// TokenVerifier verifies Firebase ID tokens. *auth.Client implements it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// RoleClaim is the custom claim carrying the dashboard role.
const RoleClaim = "role"

// ViewerOptions configures WithViewer.
type ViewerOptions struct {
	// Verifier may be nil, in which case bearer tokens are rejected.
	Verifier TokenVerifier
	// DevHeaders trusts X-User-Id and X-User-Role when no token is sent.
	DevHeaders bool
}

// WithViewer resolves the viewer of every request. Requests without credentials
// continue as guests; an invalid token is rejected.
func WithViewer(opt ViewerOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := extractToken(c); token != "" {
			if opt.Verifier == nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "token verification not configured"})
				return
			}
			decoded, err := opt.Verifier.VerifyIDToken(c.Request.Context(), token)
			if err != nil {
				log.Printf("[auth] invalid token: %v", err)
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid token"})
				return
			}

			auth.SetViewer(c, domain.Viewer{UID: decoded.UID, Role: roleFromClaims(decoded.Claims)})
			if email, ok := decoded.Claims["email"].(string); ok {
				c.Set("email", email)
			}
			c.Next()
			return
		}

		if opt.DevHeaders {
			if uid := strings.TrimSpace(c.GetHeader("X-User-Id")); uid != "" {
				role := domain.RoleStudent
				if h := strings.TrimSpace(c.GetHeader("X-User-Role")); h != "" {
					role = domain.ParseRole(h)
				}
				auth.SetViewer(c, domain.Viewer{UID: uid, Role: role})
				c.Next()
				return
			}
		}

		auth.SetViewer(c, domain.Guest())
		c.Next()
	}
}

// roleFromClaims reads the role claim. Signed-in users without one are students.
func roleFromClaims(claims map[string]interface{}) domain.Role {
	if s, ok := claims[RoleClaim].(string); ok && strings.TrimSpace(s) != "" {
		return domain.ParseRole(s)
	}
	return domain.RoleStudent
}

// extractToken extracts the Bearer token from the Authorization header
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return strings.TrimSpace(bearerToken[7:])
	}
	return ""
}
