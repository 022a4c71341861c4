package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/vitrine-projetos/vitrine-backend/internal/projects/domain"
	"github.com/vitrine-projetos/vitrine-backend/internal/projects/ingest"
	"github.com/vitrine-projetos/vitrine-backend/internal/projects/listing"
	"github.com/vitrine-projetos/vitrine-backend/internal/projects/repository"
)

// MaxStatusLength bounds the free-form status record of a phase.
const MaxStatusLength = 64

// ErrStorageUnavailable is returned when an attachment is stored as an object key but no
// object storage is configured.
var ErrStorageUnavailable = errors.New("object storage not configured")

// ProjectStore is the persistent project collection.
type ProjectStore interface {
	List(ctx context.Context) ([]domain.Project, error)
	Get(ctx context.Context, id string) (*domain.Project, error)
	UpsertMany(ctx context.Context, projects []domain.Project) error
	UpdatePhaseStatus(ctx context.Context, id string, phase domain.Phase, status string) error
}

// SnapshotCache keeps the whole normalized collection close to the service.
type SnapshotCache interface {
	Get(ctx context.Context) ([]domain.Project, error)
	Put(ctx context.Context, projects []domain.Project) error
	Invalidate(ctx context.Context) error
}

// Notifier is told about persisted phase status changes.
type Notifier interface {
	PhaseStatusChanged(ctx context.Context, change domain.PhaseStatusChange) error
}

// URLSigner turns an object key into a short-lived download URL.
type URLSigner interface {
	SignedURL(ctx context.Context, key, filename string) (string, error)
}

// Deps bundles the collaborators of ProjectService. Only Store is required.
type Deps struct {
	Store    ProjectStore
	Cache    SnapshotCache
	Notifier Notifier
	Signer   URLSigner
	Presets  *listing.Presets
}

// ProjectService handles project browsing and phase status business logic
type ProjectService struct {
	store    ProjectStore
	cache    SnapshotCache
	notifier Notifier
	signer   URLSigner
	presets  *listing.Presets
	now      func() time.Time

	// generation moves on every write; a refill loaded under an older generation is dropped.
	generation atomic.Uint64
}

// NewProjectService creates a new project service
func NewProjectService(d Deps) *ProjectService {
	presets := d.Presets
	if presets == nil {
		presets = listing.DefaultPresets()
	}
	return &ProjectService{
		store:    d.Store,
		cache:    d.Cache,
		notifier: d.Notifier,
		signer:   d.Signer,
		presets:  presets,
		now:      time.Now,
	}
}

// BrowseRequest is one listing request. Zero fields fall back to the screen preset.
type BrowseRequest struct {
	Screen   string
	Criteria listing.Criteria
	Page     int
	PageSize int
	Mode     string
}

// ProjectView is a project decorated for one viewer.
type ProjectView struct {
	domain.Project
	Mode             string                  `json:"mode"`
	Timeline         []domain.PhaseState     `json:"timeline"`
	AttachmentAccess domain.AttachmentAccess `json:"attachment_access"`
}

// BrowseResult is one page of decorated projects.
type BrowseResult struct {
	Screen     string           `json:"screen"`
	Mode       string           `json:"mode"`
	Criteria   listing.Criteria `json:"criteria"`
	Items      []ProjectView    `json:"items"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
	Total      int              `json:"total"`
}

// ScreenFor picks the dashboard screen of a role when the request names none.
func ScreenFor(role domain.Role) string {
	switch role {
	case domain.RoleStudent, domain.RoleTeacher, domain.RoleAdmin:
		return string(role)
	default:
		return listing.ScreenPublic
	}
}

// Browse filters, sorts and pages the collection for viewer.
func (s *ProjectService) Browse(ctx context.Context, viewer domain.Viewer, req BrowseRequest) (*BrowseResult, error) {
	screen := req.Screen
	if strings.TrimSpace(screen) == "" {
		screen = ScreenFor(viewer.Role)
	}
	preset := s.presets.For(screen)

	mode := preset.ViewMode()
	if req.Mode != "" {
		mode = domain.ParseViewMode(req.Mode)
	}
	mode = viewer.ModeFor(mode)

	size := req.PageSize
	if size <= 0 {
		size = preset.PageSize
	}
	index := req.Page
	if index == 0 {
		index = 1
	}

	projects, err := s.collection(ctx)
	if err != nil {
		return nil, err
	}

	criteria := preset.Merge(req.Criteria)
	page := listing.Run(projects, criteria, size, index)

	items := make([]ProjectView, 0, len(page.Items))
	for _, p := range page.Items {
		items = append(items, decorate(p, viewer, mode))
	}

	return &BrowseResult{
		Screen:     preset.Screen,
		Mode:       mode.String(),
		Criteria:   criteria,
		Items:      items,
		Page:       page.PageIndex,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
		Total:      page.Total,
	}, nil
}

// Get returns one project with its timeline. Review mode is honoured only for evaluators.
func (s *ProjectService) Get(ctx context.Context, viewer domain.Viewer, id string, mode domain.ViewMode) (*ProjectView, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	v := decorate(*p, viewer, viewer.ModeFor(mode))
	return &v, nil
}

// AttachmentView is one attachment of a project as a viewer sees it.
type AttachmentView struct {
	domain.Attachment
	Label     string       `json:"label"`
	Icon      string       `json:"icon"`
	Phase     domain.Phase `json:"phase"`
	PhaseKey  string       `json:"phase_key"`
	StageID   string       `json:"stage_id"`
	StageName string       `json:"stage_name"`
	Locked    bool         `json:"locked"`
}

// AttachmentList is every attachment of a project in phase then stage order.
type AttachmentList struct {
	ProjectID string                  `json:"project_id"`
	Access    domain.AttachmentAccess `json:"access"`
	Items     []AttachmentView        `json:"items"`
}

// Attachments lists a project's attachments with the lock flag of the viewer.
func (s *ProjectService) Attachments(ctx context.Context, viewer domain.Viewer, id string) (*AttachmentList, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	access := domain.ResolveAccess(viewer.Role, p.AttachmentVisibility)
	out := &AttachmentList{ProjectID: p.ID, Access: access, Items: []AttachmentView{}}
	if !access.CanList {
		return out, nil
	}

	for _, info := range domain.Phases() {
		for _, st := range p.StagesIn(info.Phase) {
			for _, a := range st.Attachments {
				label, icon := domain.AttachmentTypeLabel(a.Type)
				out.Items = append(out.Items, AttachmentView{
					Attachment: a,
					Label:      label,
					Icon:       icon,
					Phase:      info.Phase,
					PhaseKey:   info.Key,
					StageID:    st.ID,
					StageName:  st.Name,
					Locked:     access.Locked(),
				})
			}
		}
	}
	return out, nil
}

// DownloadURL returns where viewer can fetch an attachment from.
func (s *ProjectService) DownloadURL(ctx context.Context, viewer domain.Viewer, projectID, attachmentID string) (string, error) {
	p, err := s.store.Get(ctx, projectID)
	if err != nil {
		return "", err
	}
	if !domain.CanDownload(viewer.Role, p.AttachmentVisibility) {
		return "", domain.ErrDownloadForbidden
	}

	a, ok := p.FindAttachment(attachmentID)
	if !ok {
		return "", domain.ErrAttachmentNotFound
	}
	if isAbsoluteURL(a.URL) {
		return a.URL, nil
	}
	if s.signer == nil {
		return "", ErrStorageUnavailable
	}
	url, err := s.signer.SignedURL(ctx, a.URL, a.Name)
	if err != nil {
		return "", fmt.Errorf("sign attachment %s: %w", a.ID, err)
	}
	return url, nil
}

// UpdatePhaseStatus persists the status record of one phase and notifies the owner.
// Students may only change projects they own; evaluators may change any project.
func (s *ProjectService) UpdatePhaseStatus(ctx context.Context, viewer domain.Viewer, id, phase, status string) (*ProjectView, error) {
	if viewer.Role.IsGuest() {
		return nil, domain.ErrForbidden
	}
	ph, ok := domain.ParsePhase(phase)
	if !ok {
		return nil, domain.ErrInvalidPhase
	}
	status = strings.TrimSpace(status)
	if status == "" || len([]rune(status)) > MaxStatusLength {
		return nil, domain.ErrInvalidStatus
	}

	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !viewer.Role.IsEvaluator() && !viewer.Owns(*p) {
		return nil, domain.ErrForbidden
	}

	if err := s.store.UpdatePhaseStatus(ctx, p.ID, ph, status); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	if p.PhaseStatuses == nil {
		p.PhaseStatuses = make(map[string]string)
	}
	p.PhaseStatuses[ph.Key()] = status

	if s.notifier != nil && p.OwnerID != "" && p.OwnerID != viewer.UID {
		change := domain.PhaseStatusChange{
			ProjectID:    p.ID,
			ProjectTitle: p.Title,
			OwnerID:      p.OwnerID,
			Phase:        ph,
			PhaseKey:     ph.Key(),
			Status:       status,
			ChangedBy:    viewer.UID,
			ChangedAt:    s.now(),
		}
		if err := s.notifier.PhaseStatusChanged(ctx, change); err != nil {
			log.Printf("[projects] notify owner of %s: %v", p.ID, err)
		}
	}

	v := decorate(*p, viewer, domain.ModeNormal)
	return &v, nil
}

// Refresh reloads the collection from the store into the cache and returns its size.
func (s *ProjectService) Refresh(ctx context.Context) (int, error) {
	s.generation.Add(1)
	projects, err := s.store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list projects: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.Put(ctx, projects); err != nil {
			return 0, fmt.Errorf("store snapshot: %w", err)
		}
	}
	return len(projects), nil
}

// ImportResult summarises one import run.
type ImportResult struct {
	Received int              `json:"received"`
	Imported int              `json:"imported"`
	Skipped  []ingest.Skipped `json:"skipped"`
	Total    int              `json:"total"`
}

// Import normalizes upstream records, upserts the valid ones and refreshes the cache.
func (s *ProjectService) Import(ctx context.Context, raws []ingest.RawProject) (*ImportResult, error) {
	projects, skipped := ingest.NormalizeAll(raws)
	for _, sk := range skipped {
		log.Printf("[projects] skipped upstream record %d: %s", sk.Index, sk.Reason)
	}

	res := &ImportResult{Received: len(raws), Imported: len(projects), Skipped: skipped}
	if len(projects) > 0 {
		if err := s.store.UpsertMany(ctx, projects); err != nil {
			return nil, fmt.Errorf("upsert projects: %w", err)
		}
	}

	total, err := s.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	res.Total = total
	return res, nil
}

// collection returns the cached collection, falling back to the store and refilling the cache.
func (s *ProjectService) collection(ctx context.Context) ([]domain.Project, error) {
	if s.cache != nil {
		projects, err := s.cache.Get(ctx)
		if err == nil {
			return projects, nil
		}
		if !errors.Is(err, repository.ErrCacheMiss) {
			log.Printf("[cache] get snapshot: %v", err)
		}
	}

	gen := s.generation.Load()
	projects, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	if s.cache != nil && s.generation.Load() == gen {
		if err := s.cache.Put(ctx, projects); err != nil {
			log.Printf("[cache] put snapshot: %v", err)
		}
	}
	return projects, nil
}

func (s *ProjectService) invalidate(ctx context.Context) {
	s.generation.Add(1)
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Printf("[cache] invalidate snapshot: %v", err)
	}
}

func decorate(p domain.Project, viewer domain.Viewer, mode domain.ViewMode) ProjectView {
	return ProjectView{
		Project:          p,
		Mode:             mode.String(),
		Timeline:         domain.ResolveTimeline(p, mode),
		AttachmentAccess: domain.ResolveAccess(viewer.Role, p.AttachmentVisibility),
	}
}

func isAbsoluteURL(s string) bool {
	lower := strings.ToLower(strings.TrimSpace(s))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
