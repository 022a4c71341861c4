package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/vitrine-projetos/vitrine-backend/internal/projects/domain"
)

// ProjectRepository provides persistence operations for projects
type ProjectRepository struct {
	db *sql.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `id, owner_id, title, description, course, category, current_phase,
created_at, updated_at, published_at, views,
itinerary, lab, competition, grant_funded, award,
attachment_visibility, code_visibility`

// List returns every non-deleted project with its stages, attachments and phase status record.
func (r *ProjectRepository) List(ctx context.Context) ([]domain.Project, error) {
	q := `SELECT ` + projectColumns + `
FROM projects
WHERE deleted_at IS NULL
ORDER BY created_at DESC NULLS LAST, id;`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	projects, err := scanProjects(rows)
	if err != nil {
		return nil, err
	}
	if err := r.hydrate(ctx, projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// Get returns a single project.
func (r *ProjectRepository) Get(ctx context.Context, id string) (*domain.Project, error) {
	q := `SELECT ` + projectColumns + `
FROM projects
WHERE id = $1 AND deleted_at IS NULL;`

	rows, err := r.db.QueryContext(ctx, q, id)
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	projects, err := scanProjects(rows)
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return nil, domain.ErrNotFound
	}
	if err := r.hydrate(ctx, projects); err != nil {
		return nil, err
	}
	return &projects[0], nil
}

// UpdatePhaseStatus stores the status record of one phase.
func (r *ProjectRepository) UpdatePhaseStatus(ctx context.Context, id string, phase domain.Phase, status string) error {
	const q = `
INSERT INTO project_phase_status (project_id, phase_key, status, updated_at)
SELECT p.id, $2, $3, now()
FROM projects p
WHERE p.id = $1 AND p.deleted_at IS NULL
ON CONFLICT (project_id, phase_key) DO UPDATE
SET status = EXCLUDED.status, updated_at = EXCLUDED.updated_at;
`
	res, err := r.db.ExecContext(ctx, q, id, phase.Key(), status)
	if err != nil {
		return fmt.Errorf("update phase status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpsertMany replaces the stored copy of each project, its stages and attachments.
// Status records received are upserted; records not mentioned are kept.
func (r *ProjectRepository) UpsertMany(ctx context.Context, projects []domain.Project) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, p := range projects {
		if err := upsertProject(ctx, tx, p); err != nil {
			return fmt.Errorf("upsert project %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func upsertProject(ctx context.Context, tx *sql.Tx, p domain.Project) error {
	const q = `
INSERT INTO projects (` + projectColumns + `, synced_at, deleted_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, now(), NULL)
ON CONFLICT (id) DO UPDATE SET
	owner_id = EXCLUDED.owner_id,
	title = EXCLUDED.title,
	description = EXCLUDED.description,
	course = EXCLUDED.course,
	category = EXCLUDED.category,
	current_phase = EXCLUDED.current_phase,
	created_at = EXCLUDED.created_at,
	updated_at = EXCLUDED.updated_at,
	published_at = EXCLUDED.published_at,
	views = EXCLUDED.views,
	itinerary = EXCLUDED.itinerary,
	lab = EXCLUDED.lab,
	competition = EXCLUDED.competition,
	grant_funded = EXCLUDED.grant_funded,
	award = EXCLUDED.award,
	attachment_visibility = EXCLUDED.attachment_visibility,
	code_visibility = EXCLUDED.code_visibility,
	synced_at = now(),
	deleted_at = NULL;
`
	_, err := tx.ExecContext(ctx, q,
		p.ID, p.OwnerID, p.Title, p.Description, p.Course, p.Category, int(domain.ClampPhase(int(p.CurrentPhase))),
		nullTime(p.CreatedAt), nullTime(p.UpdatedAt), nullTime(p.PublishedAt), p.Views,
		p.Highlights.Itinerary, p.Highlights.Lab, p.Highlights.Competition, p.Highlights.Grant, p.Highlights.Award,
		string(p.AttachmentVisibility), string(p.CodeVisibility),
	)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM stage_attachments WHERE project_id = $1;`, p.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM project_stages WHERE project_id = $1;`, p.ID); err != nil {
		return err
	}

	for _, info := range domain.Phases() {
		for pos, s := range p.StagesIn(info.Phase) {
			_, err := tx.ExecContext(ctx, `
INSERT INTO project_stages (id, project_id, phase, position, name, description, start_date, end_date, status_label)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`,
				s.ID, p.ID, int(info.Phase), pos, s.Name, s.Description, nullTimePtr(s.StartDate), nullTimePtr(s.EndDate), s.StatusLabel,
			)
			if err != nil {
				return err
			}
			for apos, a := range s.Attachments {
				_, err := tx.ExecContext(ctx, `
INSERT INTO stage_attachments (id, stage_id, project_id, position, name, type, url)
VALUES ($1, $2, $3, $4, $5, $6, $7);`,
					a.ID, s.ID, p.ID, apos, a.Name, a.Type, a.URL,
				)
				if err != nil {
					return err
				}
			}
		}
	}

	for _, info := range domain.Phases() {
		status, ok := p.PhaseStatus(info.Phase)
		if !ok {
			continue
		}
		_, err := tx.ExecContext(ctx, `
INSERT INTO project_phase_status (project_id, phase_key, status, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (project_id, phase_key) DO UPDATE
SET status = EXCLUDED.status, updated_at = EXCLUDED.updated_at;`,
			p.ID, info.Key, status,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func scanProjects(rows *sql.Rows) ([]domain.Project, error) {
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		var (
			p                           domain.Project
			phase                       int
			created, updated, published sql.NullTime
			views                       sql.NullInt64
			attVis, codeVis             string
		)
		err := rows.Scan(
			&p.ID, &p.OwnerID, &p.Title, &p.Description, &p.Course, &p.Category, &phase,
			&created, &updated, &published, &views,
			&p.Highlights.Itinerary, &p.Highlights.Lab, &p.Highlights.Competition, &p.Highlights.Grant, &p.Highlights.Award,
			&attVis, &codeVis,
		)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		p.CurrentPhase = domain.ClampPhase(phase)
		p.CreatedAt = created.Time
		p.UpdatedAt = updated.Time
		p.PublishedAt = published.Time
		p.Views = views.Int64
		p.AttachmentVisibility = domain.ParseVisibility(attVis)
		p.CodeVisibility = domain.ParseVisibility(codeVis)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// hydrate loads stages, attachments and status records for projects in three queries.
func (r *ProjectRepository) hydrate(ctx context.Context, projects []domain.Project) error {
	if len(projects) == 0 {
		return nil
	}
	ids := make([]string, len(projects))
	index := make(map[string]int, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
		index[p.ID] = i
	}

	attachments, err := r.attachmentsByStage(ctx, ids)
	if err != nil {
		return err
	}

	const stagesQ = `
SELECT id, project_id, phase, name, description, start_date, end_date, status_label
FROM project_stages
WHERE project_id = ANY($1)
ORDER BY project_id, phase, position;
`
	rows, err := r.db.QueryContext(ctx, stagesQ, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("list stages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			s          domain.Stage
			projectID  string
			phase      int
			start, end sql.NullTime
		)
		if err := rows.Scan(&s.ID, &projectID, &phase, &s.Name, &s.Description, &start, &end, &s.StatusLabel); err != nil {
			return fmt.Errorf("scan stage: %w", err)
		}
		s.StartDate = timePtr(start)
		s.EndDate = timePtr(end)
		s.Attachments = attachments[s.ID]

		i, ok := index[projectID]
		if !ok {
			continue
		}
		p := &projects[i]
		if p.Stages == nil {
			p.Stages = make(map[domain.Phase][]domain.Stage)
		}
		ph := domain.ClampPhase(phase)
		p.Stages[ph] = append(p.Stages[ph], s)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	const statusQ = `
SELECT project_id, phase_key, status
FROM project_phase_status
WHERE project_id = ANY($1);
`
	srows, err := r.db.QueryContext(ctx, statusQ, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("list phase status: %w", err)
	}
	defer srows.Close()

	for srows.Next() {
		var projectID, key, status string
		if err := srows.Scan(&projectID, &key, &status); err != nil {
			return fmt.Errorf("scan phase status: %w", err)
		}
		i, ok := index[projectID]
		if !ok {
			continue
		}
		p := &projects[i]
		if p.PhaseStatuses == nil {
			p.PhaseStatuses = make(map[string]string)
		}
		p.PhaseStatuses[key] = status
	}
	return srows.Err()
}

func (r *ProjectRepository) attachmentsByStage(ctx context.Context, projectIDs []string) (map[string][]domain.Attachment, error) {
	const q = `
SELECT id, stage_id, name, type, url
FROM stage_attachments
WHERE project_id = ANY($1)
ORDER BY stage_id, position;
`
	rows, err := r.db.QueryContext(ctx, q, pq.Array(projectIDs))
	if err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]domain.Attachment)
	for rows.Next() {
		var a domain.Attachment
		var stageID string
		if err := rows.Scan(&a.ID, &stageID, &a.Name, &a.Type, &a.URL); err != nil {
			return nil, fmt.Errorf("scan attachment: %w", err)
		}
		out[stageID] = append(out[stageID], a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

func nullTimePtr(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return nullTime(*t)
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
