package listing

import "github.com/vitrine-projetos/vitrine-backend/internal/projects/domain"

// Criteria is the set of facets a screen asks for. Zero values mean "not set".
type Criteria struct {
	Search   string `json:"search,omitempty" yaml:"search,omitempty"`
	Course   string `json:"course,omitempty" yaml:"course,omitempty"`
	Category string `json:"category,omitempty" yaml:"category,omitempty"`
	// Phase is a catalog ordinal; 0 disables the phase predicate.
	Phase            int              `json:"phase,omitempty" yaml:"phase,omitempty"`
	CurrentPhaseOnly bool             `json:"current_phase_only,omitempty" yaml:"current_phase_only,omitempty"`
	PhaseStatus      string           `json:"phase_status,omitempty" yaml:"phase_status,omitempty"`
	Highlight        domain.Highlight `json:"highlight,omitempty" yaml:"highlight,omitempty"`
	Order            SortOrder        `json:"order,omitempty" yaml:"order,omitempty"`
}

// Equal reports whether two criteria select and order the same projects.
func (c Criteria) Equal(o Criteria) bool {
	return c == o
}

// IsZero reports whether no facet is set.
func (c Criteria) IsZero() bool {
	return c == Criteria{}
}
