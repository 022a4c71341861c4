package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vitrine-projetos/vitrine-backend/internal/projects/domain"
)

func sampleProjects() []domain.Project {
	return []domain.Project{
		{
			ID:           "horta",
			Title:        "Horta Inteligente",
			Description:  "Irrigação automatizada com sensores",
			Course:       "informática",
			Category:     "Agro",
			CurrentPhase: domain.PhaseModeling,
			Highlights:   domain.Highlights{Lab: true},
		},
		{
			ID:            "robo",
			Title:         "Robô seguidor de linha",
			Description:   "Competição regional",
			Course:        "Técnico em Eletrônica",
			Category:      "Robótica",
			CurrentPhase:  domain.PhaseImplementation,
			Highlights:    domain.Highlights{Competition: true, Award: true},
			PhaseStatuses: map[string]string{"MODELAGEM": "Concluido", "PROTOTIPAGEM": "Concluido"},
		},
		{
			ID:            "app",
			Title:         "App de caronas",
			Description:   "Mobilidade para estudantes",
			Course:        "Técnico em Informática para Internet",
			Category:      "Mobilidade",
			CurrentPhase:  domain.PhaseModeling,
			PhaseStatuses: map[string]string{"MODELAGEM": "Em andamento", "PROTOTIPAGEM": "Pendente"},
		},
		{
			ID:           "museu",
			Title:        "Museu virtual",
			Description:  "Acervo em realidade aumentada",
			Course:       "",
			Category:     "Cultura",
			CurrentPhase: domain.PhasePrototyping,
			Highlights:   domain.Highlights{Grant: true},
		},
	}
}

func TestFilter_NoCriteriaKeepsEverythingInOrder(t *testing.T) {
	in := sampleProjects()
	out := Filter(in, Criteria{})
	assert.Equal(t, ids(in), ids(out))
}

func TestFilter_Search(t *testing.T) {
	out := Filter(sampleProjects(), Criteria{Search: "  SENSORES "})
	assert.Equal(t, []string{"horta"}, ids(out))

	out = Filter(sampleProjects(), Criteria{Search: "robô"})
	assert.Equal(t, []string{"robo"}, ids(out))
}

func TestFilter_Course(t *testing.T) {
	t.Run("prefix and case insensitive", func(t *testing.T) {
		out := Filter(sampleProjects(), Criteria{Course: "Técnico em Informática"})
		assert.Equal(t, []string{"horta", "app"}, ids(out))
	})

	t.Run("partial name", func(t *testing.T) {
		out := Filter(sampleProjects(), Criteria{Course: "eletrô"})
		assert.Equal(t, []string{"robo"}, ids(out))
	})

	t.Run("project without course never matches", func(t *testing.T) {
		out := Filter(sampleProjects(), Criteria{Course: "cultura"})
		assert.Empty(t, out)
	})
}

func TestFilter_Category(t *testing.T) {
	out := Filter(sampleProjects(), Criteria{Category: "Agro"})
	assert.Equal(t, []string{"horta"}, ids(out))

	out = Filter(sampleProjects(), Criteria{Category: "agro"})
	assert.Empty(t, out, "category is an exact match")
}

func TestFilter_PhaseCurrentOnly(t *testing.T) {
	out := Filter(sampleProjects(), Criteria{Phase: 2, CurrentPhaseOnly: true})
	assert.Equal(t, []string{"horta", "app"}, ids(out))

	out = Filter(sampleProjects(), Criteria{Phase: 2, CurrentPhaseOnly: true, PhaseStatus: "em andamento"})
	assert.Equal(t, []string{"app"}, ids(out))
}

func TestFilter_PhaseHistory(t *testing.T) {
	t.Run("status record for the phase wins over the pointer", func(t *testing.T) {
		out := Filter(sampleProjects(), Criteria{Phase: 2})
		// robo has moved on to phase 4 but finished MODELAGEM; app is working on it;
		// horta has no record and sits on phase 2.
		assert.Equal(t, []string{"horta", "robo", "app"}, ids(out))
	})

	t.Run("pending record excludes", func(t *testing.T) {
		out := Filter(sampleProjects(), Criteria{Phase: 3})
		// app's PROTOTIPAGEM is pending, museu has no record and is on phase 3.
		assert.Equal(t, []string{"robo", "museu"}, ids(out))
	})

	t.Run("explicit status", func(t *testing.T) {
		out := Filter(sampleProjects(), Criteria{Phase: 2, PhaseStatus: "Concluido"})
		assert.Equal(t, []string{"robo"}, ids(out))
	})

	t.Run("out of range phase is clamped", func(t *testing.T) {
		out := Filter(sampleProjects(), Criteria{Phase: 9, CurrentPhaseOnly: true})
		assert.Equal(t, []string{"robo"}, ids(out))
	})
}

func TestFilter_HistoricalCompletionAfterPointerAdvanced(t *testing.T) {
	p := domain.Project{
		ID:            "e",
		CurrentPhase:  domain.PhaseImplementation,
		PhaseStatuses: map[string]string{"MODELAGEM": "Concluido"},
	}
	out := Filter([]domain.Project{p}, Criteria{Phase: 2, CurrentPhaseOnly: false})
	assert.Equal(t, []string{"e"}, ids(out))
}

func TestFilter_Highlight(t *testing.T) {
	out := Filter(sampleProjects(), Criteria{Highlight: domain.HighlightAward})
	assert.Equal(t, []string{"robo"}, ids(out))

	out = Filter(sampleProjects(), Criteria{Highlight: domain.Highlight("unknown")})
	assert.Empty(t, out)
}

func TestFilter_Conjunction(t *testing.T) {
	out := Filter(sampleProjects(), Criteria{Course: "informática", Phase: 2, CurrentPhaseOnly: true, Highlight: domain.HighlightLab})
	assert.Equal(t, []string{"horta"}, ids(out))
}

func TestFilter_IdempotentAndPure(t *testing.T) {
	in := sampleProjects()
	before := ids(in)
	c := Criteria{Search: "a", Phase: 2}

	once := Filter(in, c)
	twice := Filter(once, c)

	assert.Equal(t, ids(once), ids(twice))
	assert.Equal(t, before, ids(in), "input must not be modified")
}
