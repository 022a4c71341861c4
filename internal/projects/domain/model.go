package domain

import (
	"strings"
	"time"
)

// Visibility is the per-project access setting for attachments and source code.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// ParseVisibility maps unknown values to private.
func ParseVisibility(s string) Visibility {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "public", "publico", "público":
		return VisibilityPublic
	default:
		return VisibilityPrivate
	}
}

// Highlight names one of the institutional program flags of a project.
type Highlight string

const (
	HighlightItinerary   Highlight = "itinerary"
	HighlightLab         Highlight = "lab"
	HighlightCompetition Highlight = "competition"
	HighlightGrant       Highlight = "grant"
	HighlightAward       Highlight = "award"
)

var highlightAliases = map[string]Highlight{
	"itinerary":   HighlightItinerary,
	"itinerario":  HighlightItinerary,
	"lab":         HighlightLab,
	"laboratorio": HighlightLab,
	"competition": HighlightCompetition,
	"competicao":  HighlightCompetition,
	"olimpiada":   HighlightCompetition,
	"grant":       HighlightGrant,
	"bolsa":       HighlightGrant,
	"award":       HighlightAward,
	"premio":      HighlightAward,
	"premiado":    HighlightAward,
}

// ParseHighlight resolves a flag name, accepting the Portuguese aliases used by the frontend.
func ParseHighlight(s string) (Highlight, bool) {
	h, ok := highlightAliases[strings.ToLower(strings.TrimSpace(s))]
	return h, ok
}

// Highlights holds the boolean program flags of a project.
type Highlights struct {
	Itinerary   bool `json:"itinerary"`
	Lab         bool `json:"lab"`
	Competition bool `json:"competition"`
	Grant       bool `json:"grant"`
	Award       bool `json:"award"`
}

// Has reports whether the named flag is set. Unknown names are never set.
func (h Highlights) Has(name Highlight) bool {
	switch name {
	case HighlightItinerary:
		return h.Itinerary
	case HighlightLab:
		return h.Lab
	case HighlightCompetition:
		return h.Competition
	case HighlightGrant:
		return h.Grant
	case HighlightAward:
		return h.Award
	}
	return false
}

// Attachment is a file or link recorded under a stage.
type Attachment struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
	// URL is either an absolute URL or an object key in the attachments bucket.
	URL string `json:"url"`
}

// Stage is a dated unit of work recorded under one phase of a project.
type Stage struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	StartDate   *time.Time   `json:"start_date,omitempty"`
	EndDate     *time.Time   `json:"end_date,omitempty"`
	StatusLabel string       `json:"status_label,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Project is the canonical in-memory shape every screen works with.
// Zero timestamps mean the upstream record had no value.
type Project struct {
	ID                   string            `json:"id"`
	OwnerID              string            `json:"owner_id,omitempty"`
	Title                string            `json:"title"`
	Description          string            `json:"description"`
	Course               string            `json:"course"`
	Category             string            `json:"category"`
	CurrentPhase         Phase             `json:"current_phase"`
	CreatedAt            time.Time         `json:"created_at"`
	UpdatedAt            time.Time         `json:"updated_at"`
	PublishedAt          time.Time         `json:"published_at"`
	Views                int64             `json:"views"`
	Highlights           Highlights        `json:"highlights"`
	AttachmentVisibility Visibility        `json:"attachment_visibility"`
	CodeVisibility       Visibility        `json:"code_visibility"`
	Stages               map[Phase][]Stage `json:"stages,omitempty"`
	// PhaseStatuses is the status record supplied by the backend, keyed by phase key.
	// It is free-form text and is not derived from CurrentPhase.
	PhaseStatuses map[string]string `json:"phase_statuses,omitempty"`
}

// StagesIn returns the stages recorded under phase.
func (p Project) StagesIn(phase Phase) []Stage {
	if p.Stages == nil {
		return nil
	}
	return p.Stages[phase]
}

// PhaseStatus returns the status record for phase, if the backend supplied one.
func (p Project) PhaseStatus(phase Phase) (string, bool) {
	if len(p.PhaseStatuses) == 0 {
		return "", false
	}
	key := phase.Key()
	if v, ok := p.PhaseStatuses[key]; ok {
		return v, true
	}
	for k, v := range p.PhaseStatuses {
		if strings.EqualFold(strings.TrimSpace(k), key) {
			return v, true
		}
	}
	return "", false
}

// FindAttachment looks an attachment up across all stages.
func (p Project) FindAttachment(id string) (Attachment, bool) {
	for _, stages := range p.Stages {
		for _, s := range stages {
			for _, a := range s.Attachments {
				if a.ID == id {
					return a, true
				}
			}
		}
	}
	return Attachment{}, false
}
