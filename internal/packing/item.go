package packing

import "fmt"

// Item is a single piece of cargo to be stowed. Dimensions are in
// centimeters, weight in kilograms.
type Item struct {
	Name   string  `json:"name" yaml:"name"`
	DX     float64 `json:"dx" yaml:"width"`
	DY     float64 `json:"dy" yaml:"depth"`
	DZ     float64 `json:"dz" yaml:"height"`
	Weight float64 `json:"weight" yaml:"weight"`
}

// NewItem creates an item, deriving a name from its dimensions and
// weight when none is given.
func NewItem(dx, dy, dz, weight float64, name string) Item {
	if name == "" {
		name = fmt.Sprintf("Item_%gx%gx%g_%gkg", dx, dy, dz, weight)
	}
	return Item{Name: name, DX: dx, DY: dy, DZ: dz, Weight: weight}
}

// Volume returns the item volume in cubic centimeters.
func (i Item) Volume() float64 {
	return i.DX * i.DY * i.DZ
}

// Orientation is one axis-aligned rotation of an item.
type Orientation struct {
	DX, DY, DZ float64
}

// Orientations returns the distinct axis-aligned rotations of the item,
// at most six, in a deterministic order.
func (i Item) Orientations() []Orientation {
	candidates := []Orientation{
		{i.DX, i.DY, i.DZ},
		{i.DX, i.DZ, i.DY},
		{i.DY, i.DX, i.DZ},
		{i.DY, i.DZ, i.DX},
		{i.DZ, i.DX, i.DY},
		{i.DZ, i.DY, i.DX},
	}

	seen := make(map[Orientation]struct{}, len(candidates))
	out := candidates[:0]
	for _, o := range candidates {
		if _, dup := seen[o]; dup {
			continue
		}
		seen[o] = struct{}{}
		out = append(out, o)
	}
	return out
}

// FitsWithin reports whether any orientation of the item fits inside a
// box of the given dimensions. Used to reject oversized items before
// packing begins.
func (i Item) FitsWithin(w, d, h float64) bool {
	for _, o := range i.Orientations() {
		if o.DX <= w && o.DY <= d && o.DZ <= h {
			return true
		}
	}
	return false
}

// Oriented returns a copy of the item with its dimensions replaced by
// the given orientation.
func (i Item) Oriented(o Orientation) Item {
	i.DX, i.DY, i.DZ = o.DX, o.DY, o.DZ
	return i
}
