package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Area is a body area a stretch targets.
type Area string

const (
	AreaNeck       Area = "Neck"
	AreaShoulders  Area = "Shoulders"
	AreaUpperBack  Area = "Upper Back"
	AreaLowerBack  Area = "Lower Back"
	AreaChest      Area = "Chest"
	AreaHips       Area = "Hips"
	AreaHamstrings Area = "Hamstrings"
	AreaQuads      Area = "Quads"
	AreaCalves     Area = "Calves"
	AreaWrists     Area = "Wrists"

	// AreaFullBody is the wildcard: it matches every stretch when requested,
	// and a stretch tagged with it matches every requested area.
	AreaFullBody Area = "Full Body"
)

// Areas lists every valid area, wildcard last.
func Areas() []Area {
	return []Area{
		AreaNeck, AreaShoulders, AreaUpperBack, AreaLowerBack, AreaChest,
		AreaHips, AreaHamstrings, AreaQuads, AreaCalves, AreaWrists,
		AreaFullBody,
	}
}

// Position is the body position a stretch is performed in.
type Position string

const (
	PositionStanding Position = "Standing"
	PositionSitting  Position = "Sitting"
	PositionLying    Position = "Lying"

	// PositionAll is only valid in requests, never on catalog entries.
	PositionAll Position = "All"
)

// Stretch is a single exercise definition from the static catalog.
// Records are read-only after loading; the routine pipeline never
// mutates them.
type Stretch struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description,omitempty"`
	Areas       []Area   `yaml:"areas" json:"areas"`
	Position    Position `yaml:"position" json:"position"`
	Seconds     int      `yaml:"seconds" json:"seconds"`
	Bilateral   bool     `yaml:"bilateral,omitempty" json:"bilateral,omitempty"`
	Premium     bool     `yaml:"premium,omitempty" json:"premium,omitempty"`
	HasDemo     bool     `yaml:"has_demo" json:"hasDemo"`
}

// EffectiveSeconds is the time the stretch actually occupies in a routine.
// Bilateral stretches are performed once per side.
func (s Stretch) EffectiveSeconds() int {
	if s.Bilateral {
		return s.Seconds * 2
	}
	return s.Seconds
}

// HasArea reports whether the stretch is tagged with the given area.
// A stretch tagged Full Body matches any area.
func (s Stretch) HasArea(a Area) bool {
	for _, tag := range s.Areas {
		if tag == a || tag == AreaFullBody {
			return true
		}
	}
	return false
}

// PrimaryArea is the stretch's first area tag, used for variety grouping.
func (s Stretch) PrimaryArea() Area {
	if len(s.Areas) == 0 {
		return AreaFullBody
	}
	return s.Areas[0]
}

type catalogFile struct {
	Stretches []Stretch `yaml:"stretches"`
}

// Load parses a YAML catalog and validates every entry.
func Load(data []byte) ([]Stretch, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if err := validate(f.Stretches); err != nil {
		return nil, fmt.Errorf("catalog validation: %w", err)
	}
	return f.Stretches, nil
}

// LoadFile reads and parses a YAML catalog from disk.
func LoadFile(path string) ([]Stretch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	return Load(data)
}

func validate(items []Stretch) error {
	if len(items) == 0 {
		return fmt.Errorf("catalog has no stretches")
	}

	valid := map[Area]bool{}
	for _, a := range Areas() {
		valid[a] = true
	}

	seen := map[string]bool{}
	for i, s := range items {
		if s.ID == "" {
			return fmt.Errorf("stretch %d: missing id", i)
		}
		if seen[s.ID] {
			return fmt.Errorf("stretch %q: duplicate id", s.ID)
		}
		seen[s.ID] = true

		if s.Name == "" {
			return fmt.Errorf("stretch %q: missing name", s.ID)
		}
		if len(s.Areas) == 0 {
			return fmt.Errorf("stretch %q: no areas", s.ID)
		}
		for _, a := range s.Areas {
			if !valid[a] {
				return fmt.Errorf("stretch %q: unknown area %q", s.ID, a)
			}
		}
		switch s.Position {
		case PositionStanding, PositionSitting, PositionLying:
		default:
			return fmt.Errorf("stretch %q: invalid position %q", s.ID, s.Position)
		}
		if s.Seconds <= 0 {
			return fmt.Errorf("stretch %q: seconds must be positive", s.ID)
		}
	}
	return nil
}

// Filter returns the stretches matching the given area and position.
// Zero values ("" or the wildcards) leave that dimension unfiltered.
func Filter(items []Stretch, area Area, pos Position) []Stretch {
	var out []Stretch
	for _, s := range items {
		if area != "" && area != AreaFullBody && !s.HasArea(area) {
			continue
		}
		if pos != "" && pos != PositionAll && s.Position != pos {
			continue
		}
		out = append(out, s)
	}
	return out
}
