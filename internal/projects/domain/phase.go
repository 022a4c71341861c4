package domain

import "strings"

// Phase is the ordinal of one of the four development phases a project moves through.
type Phase int

const (
	PhaseIdeation Phase = iota + 1
	PhaseModeling
	PhasePrototyping
	PhaseImplementation
)

const (
	MinPhase = PhaseIdeation
	MaxPhase = PhaseImplementation
)

// PhaseInfo is the display metadata of a catalog phase.
type PhaseInfo struct {
	Phase       Phase  `json:"phase"`
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

var catalog = [...]PhaseInfo{
	{Phase: PhaseIdeation, Key: "IDEACAO", Name: "Ideação", Description: "Definição do problema e levantamento de ideias"},
	{Phase: PhaseModeling, Key: "MODELAGEM", Name: "Modelagem", Description: "Planejamento, requisitos e modelagem da solução"},
	{Phase: PhasePrototyping, Key: "PROTOTIPAGEM", Name: "Prototipagem", Description: "Construção e validação do protótipo"},
	{Phase: PhaseImplementation, Key: "IMPLEMENTACAO", Name: "Implementação", Description: "Implantação e entrega da solução"},
}

// Phases returns the catalog in ordinal order. The slice is a copy.
func Phases() []PhaseInfo {
	out := make([]PhaseInfo, len(catalog))
	copy(out, catalog[:])
	return out
}

func (p Phase) Valid() bool {
	return p >= MinPhase && p <= MaxPhase
}

// Info returns the catalog entry, clamping out-of-range ordinals.
func (p Phase) Info() PhaseInfo {
	return catalog[ClampPhase(int(p))-1]
}

func (p Phase) Key() string {
	return p.Info().Key
}

func (p Phase) String() string {
	return p.Info().Name
}

// ClampPhase moves n into the catalog bounds.
func ClampPhase(n int) Phase {
	if n < int(MinPhase) {
		return MinPhase
	}
	if n > int(MaxPhase) {
		return MaxPhase
	}
	return Phase(n)
}

// PhaseByKey looks a phase up by its stable key ("MODELAGEM"), ignoring case and
// surrounding spaces.
func PhaseByKey(key string) (Phase, bool) {
	key = strings.TrimSpace(key)
	for _, info := range catalog {
		if strings.EqualFold(info.Key, key) {
			return info.Phase, true
		}
	}
	return 0, false
}

// ParsePhase accepts either an ordinal ("2") or a key ("MODELAGEM").
func ParsePhase(s string) (Phase, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 1 && s[0] >= '1' && s[0] <= '4' {
		return Phase(s[0] - '0'), true
	}
	return PhaseByKey(s)
}
