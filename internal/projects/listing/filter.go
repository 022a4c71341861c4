package listing

import (
	"strings"

	"github.com/vitrine-projetos/vitrine-backend/internal/projects/domain"
)

// coursePrefix is stripped from course names before comparing; upstream data mixes
// "Técnico em Informática" and "Informática".
const coursePrefix = "técnico em "

// pendingLabels are the status record values that mean a phase was never touched.
var pendingLabels = []string{"pendente", "pending"}

type predicate func(domain.Project) bool

// Filter returns the projects matching every set facet of c, in input order.
// The input slice is not modified.
func Filter(projects []domain.Project, c Criteria) []domain.Project {
	preds := predicates(c)

	out := make([]domain.Project, 0, len(projects))
next:
	for _, p := range projects {
		for _, pred := range preds {
			if !pred(p) {
				continue next
			}
		}
		out = append(out, p)
	}
	return out
}

// predicates builds the active predicates in their fixed evaluation order.
func predicates(c Criteria) []predicate {
	var preds []predicate

	if q := strings.ToLower(strings.TrimSpace(c.Search)); q != "" {
		preds = append(preds, func(p domain.Project) bool {
			return strings.Contains(strings.ToLower(p.Title), q) ||
				strings.Contains(strings.ToLower(p.Description), q)
		})
	}

	if course := normalizeCourse(c.Course); course != "" {
		preds = append(preds, func(p domain.Project) bool {
			return courseMatches(normalizeCourse(p.Course), course)
		})
	}

	if c.Category != "" {
		preds = append(preds, func(p domain.Project) bool {
			return p.Category == c.Category
		})
	}

	if c.Phase != 0 {
		phase := domain.ClampPhase(c.Phase)
		status := strings.TrimSpace(c.PhaseStatus)
		preds = append(preds, func(p domain.Project) bool {
			return phaseMatches(p, phase, c.CurrentPhaseOnly, status)
		})
	}

	if c.Highlight != "" {
		preds = append(preds, func(p domain.Project) bool {
			return p.Highlights.Has(c.Highlight)
		})
	}

	return preds
}

func normalizeCourse(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, coursePrefix)
	return strings.TrimSpace(s)
}

func courseMatches(stored, wanted string) bool {
	if stored == "" {
		return false
	}
	return stored == wanted || strings.Contains(stored, wanted) || strings.Contains(wanted, stored)
}

// phaseMatches answers either "is the project in phase X now" (currentOnly) or "has the
// project ever produced phase X work". The second question reads the backend's status
// record and only falls back to the pointer when no record exists.
func phaseMatches(p domain.Project, phase domain.Phase, currentOnly bool, status string) bool {
	record, hasRecord := p.PhaseStatus(phase)

	if currentOnly {
		if domain.ClampPhase(int(p.CurrentPhase)) != phase {
			return false
		}
		if status == "" {
			return true
		}
		return hasRecord && sameStatus(record, status)
	}

	if status != "" {
		return hasRecord && sameStatus(record, status)
	}
	if hasRecord {
		return !isPending(record)
	}
	return domain.ClampPhase(int(p.CurrentPhase)) == phase
}

func sameStatus(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func isPending(record string) bool {
	for _, l := range pendingLabels {
		if sameStatus(record, l) {
			return true
		}
	}
	return false
}
