package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vitrine-projetos/vitrine-backend/internal/projects/domain"
)

// RawProject is one project record exactly as the upstream API returned it.
type RawProject = json.RawMessage

// currentRecord is the shape served by the current upstream API, keyed by uuid with
// stages grouped under their phase key.
type currentRecord struct {
	UUID                 string                `json:"uuid"`
	AuthorUUID           string                `json:"autor_uuid"`
	Title                string                `json:"titulo"`
	Description          string                `json:"descricao"`
	Course               string                `json:"curso"`
	Category             string                `json:"categoria"`
	CurrentPhase         flexPhase             `json:"fase_atual"`
	CreatedAt            flexTime              `json:"criado_em"`
	UpdatedAt            flexTime              `json:"atualizado_em"`
	PublishedAt          flexTime              `json:"publicado_em"`
	Views                *int64                `json:"visualizacoes"`
	Itinerary            bool                  `json:"itinerario"`
	Lab                  bool                  `json:"participou_lab"`
	Competition          bool                  `json:"participou_competicao"`
	Grant                bool                  `json:"participou_bolsa"`
	Award                bool                  `json:"premiado"`
	AttachmentVisibility string                `json:"visibilidade_anexos"`
	CodeVisibility       string                `json:"visibilidade_codigo"`
	Stages               map[string][]rawStage `json:"etapas"`
	PhaseStatuses        map[string]string     `json:"status_fases"`
}

// legacyRecord is the older shape keyed by a numeric id, with a flat stage list.
type legacyRecord struct {
	ID                   flexID     `json:"id"`
	AuthorID             flexID     `json:"autorId"`
	Title                string     `json:"nomeProjeto"`
	Description          string     `json:"descricao"`
	Course               string     `json:"curso"`
	Category             string     `json:"categoria"`
	CurrentPhase         flexPhase  `json:"faseAtual"`
	CreatedAt            flexTime   `json:"dataCriacao"`
	UpdatedAt            flexTime   `json:"dataAtualizacao"`
	PublishedAt          flexTime   `json:"dataPublicacao"`
	Views                *int64     `json:"visualizacoes"`
	Itinerary            bool       `json:"itinerario"`
	Lab                  bool       `json:"lab"`
	Competition          bool       `json:"olimpiada"`
	Grant                bool       `json:"bolsa"`
	Award                bool       `json:"premio"`
	AttachmentVisibility string     `json:"visibilidadeAnexos"`
	CodeVisibility       string     `json:"visibilidadeCodigo"`
	Stages               []rawStage `json:"etapas"`
}

type rawStage struct {
	UUID        string          `json:"uuid"`
	ID          flexID          `json:"id"`
	Phase       flexPhase       `json:"fase"`
	Name        string          `json:"nome"`
	Description string          `json:"descricao"`
	StartDate   flexTime        `json:"data_inicio"`
	EndDate     flexTime        `json:"data_fim"`
	Status      string          `json:"status"`
	Attachments []rawAttachment `json:"anexos"`
}

type rawAttachment struct {
	UUID string `json:"uuid"`
	ID   flexID `json:"id"`
	Name string `json:"nome"`
	Type string `json:"tipo"`
	URL  string `json:"url"`
}

// flexID accepts ids sent as JSON numbers or strings.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*f = flexID(n.String())
	return nil
}

// flexPhase accepts a phase as an ordinal number, a numeric string or a phase key.
// Zero means absent.
type flexPhase int

func (f *flexPhase) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if p, ok := domain.ParsePhase(s); ok {
			*f = flexPhase(p)
			return nil
		}
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			*f = flexPhase(n)
			return nil
		}
		return fmt.Errorf("unknown phase %q", s)
	}
	var n float64
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("phase: %w", err)
	}
	*f = flexPhase(int(n))
	return nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
}

// flexTime accepts the date formats seen upstream. Empty strings and null are the zero time.
type flexTime struct {
	time.Time
}

func (f *flexTime) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		f.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		f.Time = time.Time{}
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			f.Time = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("unrecognised timestamp %q", s)
}

func (f flexTime) ptr() *time.Time {
	if f.IsZero() {
		return nil
	}
	t := f.Time
	return &t
}
