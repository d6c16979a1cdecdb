package soundscape

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Preset is one of the closed set of soundscapes the engine can play.
type Preset int

const (
	Off Preset = iota
	Rain
	Forest
	NumPresets
)

var presetNames = [NumPresets]string{"off", "rain", "forest"}

// ParsePreset returns the preset with the given name. Names are the lower case
// forms returned by String.
func ParsePreset(name string) (Preset, error) {
	for i, n := range presetNames {
		if n == name {
			return Preset(i), nil
		}
	}
	return Off, fmt.Errorf("unknown preset %q (want one of off, rain, forest)", name)
}

func (p Preset) Valid() bool {
	return p >= 0 && p < NumPresets
}

func (p Preset) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Preset(%d)", int(p))
	}
	return presetNames[p]
}

// Title is the name of the preset for displaying, e.g. "Forest".
func (p Preset) Title() string {
	return cases.Title(language.English).String(p.String())
}

func (p Preset) MarshalYAML() (any, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid preset %d", int(p))
	}
	return p.String(), nil
}

func (p *Preset) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	parsed, err := ParsePreset(name)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
