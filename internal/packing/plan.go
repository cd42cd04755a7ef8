package packing

import "time"

// Placement is one item fixed at a position inside a container. The
// item's dimensions reflect the orientation it was placed in.
type Placement struct {
	Item Item    `json:"item"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Z    float64 `json:"z"`
}

// ContainerLoad is the contents of a single container within a plan.
type ContainerLoad struct {
	Placements []Placement `json:"placements"`
	Weight     float64     `json:"weight"`
	UsedVolume float64     `json:"used_volume"`

	free []FreeSpace
}

// Plan is the completed result of a packing run.
type Plan struct {
	ID        string    `json:"id,omitempty"`
	Width     float64   `json:"width"`
	Depth     float64   `json:"depth"`
	Height    float64   `json:"height"`
	MaxWeight float64   `json:"max_weight"`
	CreatedAt time.Time `json:"created_at"`

	Loads     []*ContainerLoad `json:"loads"`
	Unplaced  []Item           `json:"unplaced,omitempty"`
	Oversized []Item           `json:"oversized,omitempty"`
}

// Summary aggregates run-level statistics for the dashboard and reports.
type Summary struct {
	Containers       int     `json:"containers"`
	Placed           int     `json:"placed"`
	Unplaced         int     `json:"unplaced"`
	Oversized        int     `json:"oversized"`
	TotalWeight      float64 `json:"total_weight"`
	UsedVolume       float64 `json:"used_volume"`
	VolumeEfficiency float64 `json:"volume_efficiency"`
}

// LoadStats describes utilization of one container.
type LoadStats struct {
	Container         int     `json:"container"`
	Items             int     `json:"items"`
	Weight            float64 `json:"weight"`
	WeightUtilization float64 `json:"weight_utilization"`
	UsedVolume        float64 `json:"used_volume"`
	VolumeUtilization float64 `json:"volume_utilization"`
}

// ContainerVolume returns the capacity of a single container.
func (p *Plan) ContainerVolume() float64 {
	return p.Width * p.Depth * p.Height
}

// Summary computes run-level statistics. Volume efficiency is used
// volume over the combined capacity of every opened container.
func (p *Plan) Summary() Summary {
	s := Summary{
		Containers: len(p.Loads),
		Unplaced:   len(p.Unplaced),
		Oversized:  len(p.Oversized),
	}
	for _, load := range p.Loads {
		s.Placed += len(load.Placements)
		s.TotalWeight += load.Weight
		s.UsedVolume += load.UsedVolume
	}
	if total := float64(len(p.Loads)) * p.ContainerVolume(); total > 0 {
		s.VolumeEfficiency = s.UsedVolume / total * 100
	}
	return s
}

// LoadStats computes per-container utilization, in container order.
func (p *Plan) LoadStats() []LoadStats {
	capacity := p.ContainerVolume()
	out := make([]LoadStats, len(p.Loads))
	for i, load := range p.Loads {
		stats := LoadStats{
			Container:  i,
			Items:      len(load.Placements),
			Weight:     load.Weight,
			UsedVolume: load.UsedVolume,
		}
		if capacity > 0 {
			stats.VolumeUtilization = load.UsedVolume / capacity * 100
		}
		if p.MaxWeight > 0 {
			stats.WeightUtilization = load.Weight / p.MaxWeight * 100
		}
		out[i] = stats
	}
	return out
}

// PlacedItems returns every placed item across all containers.
func (p *Plan) PlacedItems() []Item {
	var items []Item
	for _, load := range p.Loads {
		for _, pl := range load.Placements {
			items = append(items, pl.Item)
		}
	}
	return items
}
