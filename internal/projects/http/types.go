package http

import (
	"context"

	"github.com/vitrine-projetos/vitrine-backend/internal/projects/domain"
	"github.com/vitrine-projetos/vitrine-backend/internal/projects/service"
)

// ProjectService is the behaviour the handlers need. *service.ProjectService implements it.
type ProjectService interface {
	Browse(ctx context.Context, viewer domain.Viewer, req service.BrowseRequest) (*service.BrowseResult, error)
	Get(ctx context.Context, viewer domain.Viewer, id string, mode domain.ViewMode) (*service.ProjectView, error)
	Attachments(ctx context.Context, viewer domain.Viewer, id string) (*service.AttachmentList, error)
	DownloadURL(ctx context.Context, viewer domain.Viewer, projectID, attachmentID string) (string, error)
	UpdatePhaseStatus(ctx context.Context, viewer domain.Viewer, id, phase, status string) (*service.ProjectView, error)
}

// Handler bundles the dependencies for projects HTTP endpoints.
type Handler struct {
	svc ProjectService
}

func New(svc ProjectService) *Handler {
	return &Handler{svc: svc}
}
