package domain

import "strings"

// Status is the lifecycle state of a phase as seen by a viewer.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCurrent   Status = "CURRENT"
	StatusCompleted Status = "COMPLETED"
)

// ViewMode selects how phase statuses are derived.
type ViewMode int

const (
	// ModeNormal derives status from the project's current-phase pointer.
	ModeNormal ViewMode = iota
	// ModeReview derives status from where stages have been recorded. Used by evaluators.
	ModeReview
)

func ParseViewMode(s string) ViewMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "review", "avaliacao", "avaliação":
		return ModeReview
	default:
		return ModeNormal
	}
}

func (m ViewMode) String() string {
	if m == ModeReview {
		return "review"
	}
	return "normal"
}

// PhaseState is the resolved status of one phase of one project.
type PhaseState struct {
	Phase      Phase  `json:"phase"`
	Key        string `json:"key"`
	Name       string `json:"name"`
	Status     Status `json:"status"`
	Locked     bool   `json:"locked"`
	StageCount int    `json:"stage_count"`
}

// ResolveStatus computes the status of phase for p. Out-of-range ordinals (the target or
// the project's pointer) are clamped into the catalog.
//
// In review mode more than one phase may resolve to CURRENT.
func ResolveStatus(phase int, p Project, mode ViewMode) PhaseState {
	target := ClampPhase(phase)
	current := ClampPhase(int(p.CurrentPhase))
	stages := len(p.StagesIn(target))

	info := target.Info()
	st := PhaseState{
		Phase:      target,
		Key:        info.Key,
		Name:       info.Name,
		StageCount: stages,
	}

	if mode == ModeReview {
		switch {
		case stages == 0:
			st.Status = StatusPending
		case target < current:
			st.Status = StatusCompleted
		default:
			st.Status = StatusCurrent
		}
		return st
	}

	switch {
	case target < current:
		st.Status = StatusCompleted
	case target == current:
		st.Status = StatusCurrent
	default:
		st.Status = StatusPending
		st.Locked = true
	}
	return st
}

// ResolveTimeline resolves every catalog phase of p in order.
func ResolveTimeline(p Project, mode ViewMode) []PhaseState {
	out := make([]PhaseState, 0, len(catalog))
	for _, info := range catalog {
		out = append(out, ResolveStatus(int(info.Phase), p, mode))
	}
	return out
}
