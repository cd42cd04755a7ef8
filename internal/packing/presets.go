package packing

// Preset is a standard shipping container size. Dimensions are interior
// measurements in centimeters: width x depth x height.
type Preset struct {
	Name   string  `json:"name"`
	Width  float64 `json:"width"`
	Depth  float64 `json:"depth"`
	Height float64 `json:"height"`
}

// DefaultMaxWeight is the default cargo weight limit in kilograms.
const DefaultMaxWeight = 24000

// CustomPreset is the preset name that signals user-supplied dimensions.
const CustomPreset = "Custom"

// presets are ordered for display; Custom last.
var presets = []Preset{
	{Name: "20ft Standard", Width: 235.2, Depth: 589.8, Height: 239.5},
	{Name: "40ft Standard", Width: 235.2, Depth: 1203.2, Height: 239.5},
	{Name: "40ft High Cube", Width: 235.2, Depth: 1203.2, Height: 269.8},
	{Name: CustomPreset, Width: 300, Depth: 400, Height: 250},
}

// Presets returns the available container presets in display order.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// PresetByName looks up a preset by its display name.
func PresetByName(name string) (Preset, bool) {
	for _, p := range presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}
