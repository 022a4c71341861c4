package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/vitrine-projetos/vitrine-backend/internal/projects/domain"
)

var ErrMissingID = errors.New("project record has no identifier")

// idNamespace seeds deterministic ids for stages and attachments that arrive without one.
var idNamespace = uuid.MustParse("7f1d3c2e-5b8a-4e6f-9a0d-2c4b6e8f1a3d")

// Skipped describes a record NormalizeAll could not map.
type Skipped struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// Normalize maps one upstream record, in either of its shapes, to a domain.Project.
func Normalize(raw RawProject) (domain.Project, error) {
	var probe struct {
		UUID *string `json:"uuid"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return domain.Project{}, fmt.Errorf("decode record: %w", err)
	}

	if probe.UUID != nil {
		var rec currentRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return domain.Project{}, fmt.Errorf("decode record: %w", err)
		}
		return fromCurrent(rec)
	}

	var rec legacyRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return domain.Project{}, fmt.Errorf("decode legacy record: %w", err)
	}
	return fromLegacy(rec)
}

// NormalizeAll maps every record it can and reports the rest, so one malformed
// record never drops the whole collection.
func NormalizeAll(raws []RawProject) ([]domain.Project, []Skipped) {
	out := make([]domain.Project, 0, len(raws))
	var skipped []Skipped
	for i, raw := range raws {
		p, err := Normalize(raw)
		if err != nil {
			skipped = append(skipped, Skipped{Index: i, Reason: err.Error()})
			continue
		}
		out = append(out, p)
	}
	return out, skipped
}

func fromCurrent(rec currentRecord) (domain.Project, error) {
	id := strings.TrimSpace(rec.UUID)
	if id == "" {
		return domain.Project{}, ErrMissingID
	}

	p := domain.Project{
		ID:           id,
		OwnerID:      strings.TrimSpace(rec.AuthorUUID),
		Title:        strings.TrimSpace(rec.Title),
		Description:  rec.Description,
		Course:       strings.TrimSpace(rec.Course),
		Category:     strings.TrimSpace(rec.Category),
		CurrentPhase: domain.ClampPhase(int(rec.CurrentPhase)),
		CreatedAt:    rec.CreatedAt.Time,
		UpdatedAt:    rec.UpdatedAt.Time,
		PublishedAt:  rec.PublishedAt.Time,
		Views:        viewsOrZero(rec.Views),
		Highlights: domain.Highlights{
			Itinerary:   rec.Itinerary,
			Lab:         rec.Lab,
			Competition: rec.Competition,
			Grant:       rec.Grant,
			Award:       rec.Award,
		},
		AttachmentVisibility: domain.ParseVisibility(rec.AttachmentVisibility),
		CodeVisibility:       domain.ParseVisibility(rec.CodeVisibility),
		PhaseStatuses:        normalizeStatuses(rec.PhaseStatuses),
	}

	for key, stages := range rec.Stages {
		phase, ok := domain.ParsePhase(key)
		if !ok {
			log.Printf("[ingest] project %s: skipping %d stages under unknown phase key %q", id, len(stages), key)
			continue
		}
		for i, s := range stages {
			p.Stages = addStage(p.Stages, phase, toStage(id, phase, i, s))
		}
	}
	return p, nil
}

func fromLegacy(rec legacyRecord) (domain.Project, error) {
	id := string(rec.ID)
	if id == "" {
		return domain.Project{}, ErrMissingID
	}

	p := domain.Project{
		ID:           id,
		OwnerID:      string(rec.AuthorID),
		Title:        strings.TrimSpace(rec.Title),
		Description:  rec.Description,
		Course:       strings.TrimSpace(rec.Course),
		Category:     strings.TrimSpace(rec.Category),
		CurrentPhase: domain.ClampPhase(int(rec.CurrentPhase)),
		CreatedAt:    rec.CreatedAt.Time,
		UpdatedAt:    rec.UpdatedAt.Time,
		PublishedAt:  rec.PublishedAt.Time,
		Views:        viewsOrZero(rec.Views),
		Highlights: domain.Highlights{
			Itinerary:   rec.Itinerary,
			Lab:         rec.Lab,
			Competition: rec.Competition,
			Grant:       rec.Grant,
			Award:       rec.Award,
		},
		AttachmentVisibility: domain.ParseVisibility(rec.AttachmentVisibility),
		CodeVisibility:       domain.ParseVisibility(rec.CodeVisibility),
	}

	counts := map[domain.Phase]int{}
	for _, s := range rec.Stages {
		phase := domain.ClampPhase(int(s.Phase))
		p.Stages = addStage(p.Stages, phase, toStage(id, phase, counts[phase], s))
		counts[phase]++
	}
	return p, nil
}

func addStage(m map[domain.Phase][]domain.Stage, phase domain.Phase, s domain.Stage) map[domain.Phase][]domain.Stage {
	if m == nil {
		m = make(map[domain.Phase][]domain.Stage)
	}
	m[phase] = append(m[phase], s)
	return m
}

func toStage(projectID string, phase domain.Phase, pos int, s rawStage) domain.Stage {
	id := firstNonEmpty(s.UUID, string(s.ID))
	if id == "" {
		id = derivedID(projectID, phase.Key(), fmt.Sprint(pos))
	}

	st := domain.Stage{
		ID:          id,
		Name:        strings.TrimSpace(s.Name),
		Description: s.Description,
		StartDate:   s.StartDate.ptr(),
		EndDate:     s.EndDate.ptr(),
		StatusLabel: strings.TrimSpace(s.Status),
	}
	for i, a := range s.Attachments {
		aid := firstNonEmpty(a.UUID, string(a.ID))
		if aid == "" {
			aid = derivedID(projectID, id, fmt.Sprint(i))
		}
		st.Attachments = append(st.Attachments, domain.Attachment{
			ID:   aid,
			Name: strings.TrimSpace(a.Name),
			Type: strings.ToLower(strings.TrimSpace(a.Type)),
			URL:  strings.TrimSpace(a.URL),
		})
	}
	return st
}

// normalizeStatuses re-keys the status record by catalog key. Keys that name no phase
// are dropped.
func normalizeStatuses(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		phase, ok := domain.ParsePhase(k)
		if !ok {
			continue
		}
		out[phase.Key()] = strings.TrimSpace(v)
	}
	return out
}

func derivedID(parts ...string) string {
	return uuid.NewSHA1(idNamespace, []byte(strings.Join(parts, "/"))).String()
}

func viewsOrZero(v *int64) int64 {
	if v == nil || *v < 0 {
		return 0
	}
	return *v
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
