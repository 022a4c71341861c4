package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/vitrine-projetos/vitrine-backend/internal/api/http"
	"github.com/vitrine-projetos/vitrine-backend/internal/api/http/middleware"
	"github.com/vitrine-projetos/vitrine-backend/internal/api/http/routes"
	"github.com/vitrine-projetos/vitrine-backend/internal/notifications"
	projecthttp "github.com/vitrine-projetos/vitrine-backend/internal/projects/http"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	AllowedOrigins []string
	DB             *pgxpool.Pool
	Redis          *redis.Client
	Projects       projecthttp.ProjectService
	Notifications  *notifications.Service
	Viewer         gin.HandlerFunc
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     dep.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-Id", "X-User-Id", "X-User-Role"},
		ExposeHeaders:    []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)

	routes.RegisterV1(r, routes.V1Deps{
		Projects:      dep.Projects,
		Notifications: dep.Notifications,
		Viewer:        dep.Viewer,
	})

	return r
}
