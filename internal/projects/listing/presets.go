package listing

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vitrine-projetos/vitrine-backend/internal/projects/domain"
)

//go:embed presets.yaml
var defaultPresets []byte

// ScreenPublic is the fallback screen for unknown names.
const ScreenPublic = "public"

// Preset is the configuration of one dashboard screen: default criteria plus paging
// and viewing mode.
type Preset struct {
	Screen   string   `yaml:"-"`
	Order    string   `yaml:"order"`
	PageSize int      `yaml:"page_size"`
	Mode     string   `yaml:"mode"`
	Defaults Criteria `yaml:"defaults"`
}

type presetFile struct {
	Screens map[string]Preset `yaml:"screens"`
}

// Presets indexes presets by screen name.
type Presets struct {
	screens map[string]Preset
}

// DefaultPresets returns the presets compiled into the binary.
func DefaultPresets() *Presets {
	p, err := ParsePresets(defaultPresets)
	if err != nil {
		panic(fmt.Sprintf("embedded presets: %v", err))
	}
	return p
}

// LoadPresets reads presets from path, or returns the embedded ones when path is empty.
func LoadPresets(path string) (*Presets, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultPresets(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read presets: %w", err)
	}
	return ParsePresets(b)
}

func ParsePresets(b []byte) (*Presets, error) {
	var f presetFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse presets: %w", err)
	}
	out := &Presets{screens: make(map[string]Preset, len(f.Screens))}
	for name, p := range f.Screens {
		name = strings.ToLower(strings.TrimSpace(name))
		p.Screen = name
		if err := p.normalize(); err != nil {
			return nil, fmt.Errorf("preset %q: %w", name, err)
		}
		if p.PageSize <= 0 {
			p.PageSize = DefaultPageSize
		}
		out.screens[name] = p
	}
	if _, ok := out.screens[ScreenPublic]; !ok {
		out.screens[ScreenPublic] = Preset{Screen: ScreenPublic, Order: string(DefaultOrder), PageSize: DefaultPageSize}
	}
	return out, nil
}

// normalize rewrites aliases to their canonical names and rejects values no project could match.
func (p *Preset) normalize() error {
	if strings.TrimSpace(p.Order) != "" {
		o, ok := lookupSortOrder(p.Order)
		if !ok {
			return fmt.Errorf("unknown order %q", p.Order)
		}
		p.Order = string(o)
	}

	d := &p.Defaults
	if d.Order != "" {
		o, ok := lookupSortOrder(string(d.Order))
		if !ok {
			return fmt.Errorf("unknown default order %q", d.Order)
		}
		d.Order = o
	}
	if d.Highlight != "" {
		h, ok := domain.ParseHighlight(string(d.Highlight))
		if !ok {
			return fmt.Errorf("unknown highlight %q", d.Highlight)
		}
		d.Highlight = h
	}
	if d.Phase != 0 && !domain.Phase(d.Phase).Valid() {
		return fmt.Errorf("phase %d outside %d..%d", d.Phase, domain.MinPhase, domain.MaxPhase)
	}
	return nil
}

// For returns the preset of screen, falling back to the public screen.
func (p *Presets) For(screen string) Preset {
	if pr, ok := p.screens[strings.ToLower(strings.TrimSpace(screen))]; ok {
		return pr
	}
	return p.screens[ScreenPublic]
}

// ViewMode is the phase status mode the screen uses.
func (p Preset) ViewMode() domain.ViewMode {
	return domain.ParseViewMode(p.Mode)
}

// Merge fills every unset facet of c from the preset defaults.
func (p Preset) Merge(c Criteria) Criteria {
	d := p.Defaults
	if c.Search == "" {
		c.Search = d.Search
	}
	if c.Course == "" {
		c.Course = d.Course
	}
	if c.Category == "" {
		c.Category = d.Category
	}
	if c.Phase == 0 {
		c.Phase = d.Phase
		c.CurrentPhaseOnly = c.CurrentPhaseOnly || d.CurrentPhaseOnly
	}
	if c.PhaseStatus == "" {
		c.PhaseStatus = d.PhaseStatus
	}
	if c.Highlight == "" {
		c.Highlight = d.Highlight
	}
	if c.Order == "" {
		c.Order = ParseSortOrder(p.Order)
	}
	return c
}
