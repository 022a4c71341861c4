package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/vitrine-projetos/vitrine-backend/internal/notifications"
	projecthttp "github.com/vitrine-projetos/vitrine-backend/internal/projects/http"
)

type V1Deps struct {
	Projects      projecthttp.ProjectService
	Notifications *notifications.Service
	// Viewer resolves the caller of every /api/v1 request.
	Viewer gin.HandlerFunc
}

func RegisterV1(r *gin.Engine, dep V1Deps) {
	api := r.Group("/api/v1")
	if dep.Viewer != nil {
		api.Use(dep.Viewer)
	}

	projecthttp.RegisterPhases(api)
	projecthttp.New(dep.Projects).Register(api.Group("/projects"))

	if dep.Notifications != nil {
		notifications.Register(api.Group("/notifications"), dep.Notifications)
	}
}
