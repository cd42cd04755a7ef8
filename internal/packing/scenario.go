package packing

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ItemLine is one row of a scenario's cargo list: an item type plus how
// many of it to pack.
type ItemLine struct {
	Name     string  `json:"name" yaml:"name"`
	Width    float64 `json:"width" yaml:"width"`
	Depth    float64 `json:"depth" yaml:"depth"`
	Height   float64 `json:"height" yaml:"height"`
	Weight   float64 `json:"weight" yaml:"weight"`
	Quantity int     `json:"quantity" yaml:"quantity"`
}

// ContainerSpec selects a container size, either by preset name or by
// explicit dimensions when the preset is "Custom" or empty.
type ContainerSpec struct {
	Preset string  `json:"preset,omitempty" yaml:"preset,omitempty"`
	Width  float64 `json:"width,omitempty" yaml:"width,omitempty"`
	Depth  float64 `json:"depth,omitempty" yaml:"depth,omitempty"`
	Height float64 `json:"height,omitempty" yaml:"height,omitempty"`
}

// Scenario is a complete packing problem as declared in a YAML file or
// assembled interactively in the dashboard.
type Scenario struct {
	Container     ContainerSpec `json:"container" yaml:"container"`
	MaxWeight     float64       `json:"max_weight" yaml:"max_weight"`
	MaxContainers int           `json:"max_containers" yaml:"max_containers"`
	Items         []ItemLine    `json:"items" yaml:"items"`
}

// LoadScenario reads and validates a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the scenario and applies defaults: missing max weight
// becomes DefaultMaxWeight, missing quantities become 1.
func (s *Scenario) Validate() error {
	var errs []error

	if _, _, _, err := s.Dimensions(); err != nil {
		errs = append(errs, err)
	}
	if s.MaxWeight < 0 {
		errs = append(errs, fmt.Errorf("max_weight must not be negative, got %g", s.MaxWeight))
	}
	if s.MaxWeight == 0 {
		s.MaxWeight = DefaultMaxWeight
	}
	if s.MaxContainers < 0 {
		errs = append(errs, fmt.Errorf("max_containers must not be negative, got %d", s.MaxContainers))
	}
	if len(s.Items) == 0 {
		errs = append(errs, errors.New("scenario declares no items"))
	}
	for i := range s.Items {
		line := &s.Items[i]
		if line.Width <= 0 || line.Depth <= 0 || line.Height <= 0 {
			errs = append(errs, fmt.Errorf("items[%d] %q: dimensions must be positive", i, line.Name))
		}
		if line.Weight <= 0 {
			errs = append(errs, fmt.Errorf("items[%d] %q: weight must be positive", i, line.Name))
		}
		if line.Quantity < 0 {
			errs = append(errs, fmt.Errorf("items[%d] %q: quantity must not be negative", i, line.Name))
		}
		if line.Quantity == 0 {
			line.Quantity = 1
		}
	}

	return errors.Join(errs...)
}

// Dimensions resolves the container size, preferring the preset when
// one is named. Explicit dimensions are required for Custom.
func (s *Scenario) Dimensions() (w, d, h float64, err error) {
	name := s.Container.Preset
	if name != "" && name != CustomPreset {
		preset, ok := PresetByName(name)
		if !ok {
			return 0, 0, 0, fmt.Errorf("unknown container preset %q", name)
		}
		return preset.Width, preset.Depth, preset.Height, nil
	}

	w, d, h = s.Container.Width, s.Container.Depth, s.Container.Height
	if name == CustomPreset && w == 0 && d == 0 && h == 0 {
		preset, _ := PresetByName(CustomPreset)
		return preset.Width, preset.Depth, preset.Height, nil
	}
	if w <= 0 || d <= 0 || h <= 0 {
		return 0, 0, 0, fmt.Errorf("container dimensions must be positive, got %gx%gx%g", w, d, h)
	}
	return w, d, h, nil
}

// ExpandItems flattens the cargo list into individual items, one per
// unit of quantity.
func (s *Scenario) ExpandItems() []Item {
	var items []Item
	for _, line := range s.Items {
		for n := 0; n < line.Quantity; n++ {
			items = append(items, NewItem(line.Width, line.Depth, line.Height, line.Weight, line.Name))
		}
	}
	return items
}

// sampleSets are the quick-add cargo lists offered by the dashboard.
var sampleSets = map[string][]ItemLine{
	"boxes": {
		{Name: "Kardus Kecil", Width: 30, Depth: 40, Height: 20, Weight: 5, Quantity: 15},
		{Name: "Kardus Sedang", Width: 50, Depth: 60, Height: 40, Weight: 12, Quantity: 8},
		{Name: "Kardus Besar", Width: 80, Depth: 100, Height: 60, Weight: 25, Quantity: 3},
	},
	"products": {
		{Name: "TV 32inch", Width: 75, Depth: 15, Height: 45, Weight: 8, Quantity: 2},
		{Name: "Laptop Box", Width: 40, Depth: 30, Height: 8, Weight: 3, Quantity: 5},
		{Name: "Furniture Box", Width: 120, Depth: 80, Height: 40, Weight: 30, Quantity: 2},
	},
}

// SampleSet returns a built-in cargo list by name ("boxes" or
// "products").
func SampleSet(name string) ([]ItemLine, error) {
	lines, ok := sampleSets[name]
	if !ok {
		return nil, fmt.Errorf("unknown sample set %q", name)
	}
	out := make([]ItemLine, len(lines))
	copy(out, lines)
	return out, nil
}
