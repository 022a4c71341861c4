package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitrine-projetos/vitrine-backend/internal/projects/domain"
)

func setupProjectRepo(t *testing.T) (*ProjectRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewProjectRepository(db), mock, db
}

var projectRowColumns = []string{
	"id", "owner_id", "title", "description", "course", "category", "current_phase",
	"created_at", "updated_at", "published_at", "views",
	"itinerary", "lab", "competition", "grant_funded", "award",
	"attachment_visibility", "code_visibility",
}

func TestProjectRepository_List(t *testing.T) {
	repo, mock, db := setupProjectRepo(t)
	defer db.Close()

	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM projects\s+WHERE deleted_at IS NULL`).
		WillReturnRows(sqlmock.NewRows(projectRowColumns).
			AddRow("p1", "u1", "Horta", "irrigação", "Técnico em Agropecuária", "Agro", 2,
				created, nil, nil, int64(7), false, true, false, false, true, "public", "private").
			AddRow("p2", "u2", "Robô", "", "", "", 9,
				nil, nil, nil, nil, false, false, false, false, false, "weird", "public"))

	mock.ExpectQuery(`FROM stage_attachments`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "stage_id", "name", "type", "url"}).
			AddRow("a1", "s1", "Relatório", "pdf", "projects/p1/relatorio.pdf"))

	mock.ExpectQuery(`FROM project_stages`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "project_id", "phase", "name", "description", "start_date", "end_date", "status_label"}).
			AddRow("s1", "p1", 1, "Brainstorm", "", created, nil, "ok").
			AddRow("s2", "p1", 2, "Diagrama", "", nil, nil, ""))

	mock.ExpectQuery(`FROM project_phase_status`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"project_id", "phase_key", "status"}).
			AddRow("p1", "MODELAGEM", "Concluido"))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	p1 := got[0]
	assert.Equal(t, domain.PhaseModeling, p1.CurrentPhase)
	assert.Equal(t, created, p1.CreatedAt)
	assert.True(t, p1.UpdatedAt.IsZero())
	assert.Equal(t, int64(7), p1.Views)
	assert.True(t, p1.Highlights.Lab)
	assert.True(t, p1.Highlights.Award)
	assert.Equal(t, domain.VisibilityPublic, p1.AttachmentVisibility)
	require.Len(t, p1.StagesIn(domain.PhaseIdeation), 1)
	assert.Equal(t, "a1", p1.StagesIn(domain.PhaseIdeation)[0].Attachments[0].ID)
	require.NotNil(t, p1.StagesIn(domain.PhaseIdeation)[0].StartDate)
	assert.Nil(t, p1.StagesIn(domain.PhaseIdeation)[0].EndDate)
	assert.Len(t, p1.StagesIn(domain.PhaseModeling), 1)
	status, ok := p1.PhaseStatus(domain.PhaseModeling)
	assert.True(t, ok)
	assert.Equal(t, "Concluido", status)

	p2 := got[1]
	assert.Equal(t, domain.PhaseImplementation, p2.CurrentPhase, "out of range phase is clamped")
	assert.Equal(t, int64(0), p2.Views)
	assert.Equal(t, domain.VisibilityPrivate, p2.AttachmentVisibility)
	assert.Empty(t, p2.Stages)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_ListEmpty(t *testing.T) {
	repo, mock, db := setupProjectRepo(t)
	defer db.Close()

	mock.ExpectQuery(`FROM projects`).WillReturnRows(sqlmock.NewRows(projectRowColumns))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_Get(t *testing.T) {
	t.Run("returns not found", func(t *testing.T) {
		repo, mock, db := setupProjectRepo(t)
		defer db.Close()

		mock.ExpectQuery(`FROM projects\s+WHERE id = \$1`).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(projectRowColumns))

		_, err := repo.Get(context.Background(), "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("loads a project", func(t *testing.T) {
		repo, mock, db := setupProjectRepo(t)
		defer db.Close()

		mock.ExpectQuery(`FROM projects\s+WHERE id = \$1`).
			WithArgs("p1").
			WillReturnRows(sqlmock.NewRows(projectRowColumns).
				AddRow("p1", "u1", "Horta", "", "", "", 1, nil, nil, nil, nil,
					false, false, false, false, false, "private", "private"))
		mock.ExpectQuery(`FROM stage_attachments`).WillReturnRows(sqlmock.NewRows([]string{"id", "stage_id", "name", "type", "url"}))
		mock.ExpectQuery(`FROM project_stages`).WillReturnRows(sqlmock.NewRows([]string{"id", "project_id", "phase", "name", "description", "start_date", "end_date", "status_label"}))
		mock.ExpectQuery(`FROM project_phase_status`).WillReturnRows(sqlmock.NewRows([]string{"project_id", "phase_key", "status"}))

		p, err := repo.Get(context.Background(), "p1")
		require.NoError(t, err)
		assert.Equal(t, "Horta", p.Title)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProjectRepository_UpdatePhaseStatus(t *testing.T) {
	repo, mock, db := setupProjectRepo(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO project_phase_status`).
		WithArgs("p1", "PROTOTIPAGEM", "Em andamento").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO project_phase_status`).
		WithArgs("missing", "IDEACAO", "Concluido").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.UpdatePhaseStatus(context.Background(), "p1", domain.PhasePrototyping, "Em andamento"))

	err := repo.UpdatePhaseStatus(context.Background(), "missing", domain.PhaseIdeation, "Concluido")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_UpsertMany(t *testing.T) {
	t.Run("writes project, stages, attachments and statuses in one transaction", func(t *testing.T) {
		repo, mock, db := setupProjectRepo(t)
		defer db.Close()

		p := domain.Project{
			ID:           "p1",
			Title:        "Horta",
			CurrentPhase: domain.PhaseModeling,
			Stages: map[domain.Phase][]domain.Stage{
				domain.PhaseIdeation: {{ID: "s1", Name: "Brainstorm", Attachments: []domain.Attachment{{ID: "a1", Name: "doc", Type: "pdf", URL: "k"}}}},
			},
			PhaseStatuses: map[string]string{"MODELAGEM": "Em andamento"},
		}

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO projects`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM stage_attachments`).WithArgs("p1").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`DELETE FROM project_stages`).WithArgs("p1").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`INSERT INTO project_stages`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO stage_attachments`).
			WithArgs("a1", "s1", "p1", 0, "doc", "pdf", "k").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO project_phase_status`).
			WithArgs("p1", "MODELAGEM", "Em andamento").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.UpsertMany(context.Background(), []domain.Project{p}))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on failure", func(t *testing.T) {
		repo, mock, db := setupProjectRepo(t)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO projects`).WillReturnError(sql.ErrConnDone)
		mock.ExpectRollback()

		err := repo.UpsertMany(context.Background(), []domain.Project{{ID: "p1", Title: "x"}})
		require.Error(t, err)
		assert.ErrorIs(t, err, sql.ErrConnDone)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
