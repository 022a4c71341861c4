package listing

import (
	"fmt"
	"time"

	"github.com/vitrine-projetos/vitrine-backend/internal/projects/domain"
)

func ids(projects []domain.Project) []string {
	out := make([]string, 0, len(projects))
	for _, p := range projects {
		out = append(out, p.ID)
	}
	return out
}

func numbered(n int) []domain.Project {
	out := make([]domain.Project, 0, n)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 1; i <= n; i++ {
		out = append(out, domain.Project{
			ID:           fmt.Sprintf("p%02d", i),
			Title:        fmt.Sprintf("Projeto %02d", i),
			CurrentPhase: domain.PhaseIdeation,
			CreatedAt:    base.Add(time.Duration(i) * time.Hour),
		})
	}
	return out
}
