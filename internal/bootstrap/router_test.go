package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authmw "github.com/vitrine-projetos/vitrine-backend/internal/auth/middleware"
	"github.com/vitrine-projetos/vitrine-backend/internal/projects/domain"
	"github.com/vitrine-projetos/vitrine-backend/internal/projects/service"
)

type emptyStore struct{}

func (emptyStore) List(ctx context.Context) ([]domain.Project, error) { return nil, nil }
func (emptyStore) Get(ctx context.Context, id string) (*domain.Project, error) {
	return nil, domain.ErrNotFound
}
func (emptyStore) UpsertMany(ctx context.Context, projects []domain.Project) error { return nil }
func (emptyStore) UpdatePhaseStatus(ctx context.Context, id string, phase domain.Phase, status string) error {
	return domain.ErrNotFound
}

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return BuildRouter(RouterDeps{
		ServiceName:    "vitrine-backend",
		Version:        "test",
		AllowedOrigins: []string{"http://localhost:5173"},
		Projects:       service.NewProjectService(service.Deps{Store: emptyStore{}}),
		Viewer:         authmw.WithViewer(authmw.ViewerOptions{DevHeaders: true}),
	})
}

func TestBuildRouter_Routes(t *testing.T) {
	r := testRouter()

	tests := []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/api/v1/phases", http.StatusOK},
		{http.MethodGet, "/api/v1/projects", http.StatusOK},
		{http.MethodGet, "/api/v1/projects/missing", http.StatusNotFound},
		{http.MethodGet, "/api/v1/notifications", http.StatusNotFound},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
		assert.Equal(t, tt.want, w.Code, tt.path)
		assert.NotEmpty(t, w.Header().Get("X-Request-Id"), tt.path)
	}
}

func TestBuildRouter_CORS(t *testing.T) {
	r := testRouter()

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/projects", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}
