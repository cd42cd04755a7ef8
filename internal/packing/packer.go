package packing

import (
	"fmt"
	"sort"
	"time"

	"github.com/stowpack/stowpack/internal/events"
)

// DefaultMaxContainers caps how many containers a single run may open.
const DefaultMaxContainers = 50

// Config describes the container fleet available to a packing run.
// Dimensions are in centimeters, MaxWeight in kilograms.
type Config struct {
	Width  float64
	Depth  float64
	Height float64

	// MaxWeight is the cargo weight limit per container. Zero means
	// unlimited.
	MaxWeight float64

	// MaxContainers limits how many containers may be opened.
	// Zero applies DefaultMaxContainers.
	MaxContainers int

	// Bus receives progress events when non-nil.
	Bus *events.Bus
}

// Packer places a fixed set of items into containers using a best-fit
// free-space heuristic: largest items first, candidate spaces searched
// bottom-up, tightest horizontal fit wins with a penalty for stacking
// high.
type Packer struct {
	cfg       Config
	queue     []Item
	loads     []*ContainerLoad
	placed    []Item
	oversized []Item
}

// New creates a packer for the given items. Items that cannot fit an
// empty container in any orientation are set aside as oversized.
func New(cfg Config, items []Item) (*Packer, error) {
	if cfg.Width <= 0 || cfg.Depth <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("container dimensions must be positive, got %gx%gx%g",
			cfg.Width, cfg.Depth, cfg.Height)
	}
	if cfg.MaxWeight < 0 {
		return nil, fmt.Errorf("max weight must not be negative, got %g", cfg.MaxWeight)
	}
	if cfg.MaxContainers == 0 {
		cfg.MaxContainers = DefaultMaxContainers
	}
	if cfg.MaxContainers < 1 {
		return nil, fmt.Errorf("max containers must be at least 1, got %d", cfg.MaxContainers)
	}

	p := &Packer{cfg: cfg}
	for _, item := range items {
		if item.FitsWithin(cfg.Width, cfg.Depth, cfg.Height) {
			p.queue = append(p.queue, item)
		} else {
			p.oversized = append(p.oversized, item)
		}
	}

	// Largest first; name breaks ties to keep runs reproducible.
	sort.SliceStable(p.queue, func(i, j int) bool {
		a, b := p.queue[i], p.queue[j]
		if a.Volume() != b.Volume() {
			return a.Volume() > b.Volume()
		}
		if a.Weight != b.Weight {
			return a.Weight > b.Weight
		}
		return a.Name < b.Name
	})

	return p, nil
}

// Run packs every item it can and returns the resulting plan. Items
// that fit nowhere once the container cap is reached are reported as
// unplaced.
func (p *Packer) Run() *Plan {
	p.emit(events.NewEvent(events.PackStarted, "").WithPayload(events.PackStartedPayload{
		ContainerWidth:  p.cfg.Width,
		ContainerDepth:  p.cfg.Depth,
		ContainerHeight: p.cfg.Height,
		MaxWeight:       p.cfg.MaxWeight,
		ItemCount:       len(p.queue) + len(p.oversized),
	}))

	for _, item := range p.oversized {
		p.emit(events.NewEvent(events.ItemRejected, item.Name).
			WithError(fmt.Errorf("no orientation fits a %gx%gx%g container",
				p.cfg.Width, p.cfg.Depth, p.cfg.Height)))
	}

	p.openContainer()

	var unplaced []Item
	for len(p.queue) > 0 {
		if p.step() {
			continue
		}
		if len(p.loads) < p.cfg.MaxContainers {
			p.openContainer()
			continue
		}

		// Container cap reached; nothing left will ever fit.
		unplaced = p.queue
		p.queue = nil
		for _, item := range unplaced {
			p.emit(events.NewEvent(events.ItemRejected, item.Name).
				WithError(fmt.Errorf("container limit of %d reached", p.cfg.MaxContainers)))
		}
	}

	plan := &Plan{
		Width:     p.cfg.Width,
		Depth:     p.cfg.Depth,
		Height:    p.cfg.Height,
		MaxWeight: p.cfg.MaxWeight,
		Loads:     p.loads,
		Unplaced:  unplaced,
		Oversized: p.oversized,
		CreatedAt: time.Now().UTC(),
	}

	summary := plan.Summary()
	p.emit(events.NewEvent(events.PackCompleted, "").WithPayload(events.PackCompletedPayload{
		Containers:       summary.Containers,
		Placed:           summary.Placed,
		Unplaced:         summary.Unplaced,
		Oversized:        summary.Oversized,
		VolumeEfficiency: summary.VolumeEfficiency,
	}))

	return plan
}

// step attempts to place the next queued item into the best available
// slot across all open containers. Returns false when no container can
// take it.
func (p *Packer) step() bool {
	item := p.queue[0]

	type candidate struct {
		load        *ContainerLoad
		loadIdx     int
		orientation Orientation
		space       FreeSpace
	}
	var best *candidate
	bestScore := 0.0

	for idx, load := range p.loads {
		if p.cfg.MaxWeight > 0 && load.Weight+item.Weight > p.cfg.MaxWeight {
			continue
		}
		for _, o := range item.Orientations() {
			for _, space := range sortForSearch(load.free) {
				if !space.fits(o) || load.overlaps(o, space.X, space.Y, space.Z) {
					continue
				}
				score := (space.W - o.DX) + (space.D - o.DY) + space.Z*1.5
				if best == nil || score < bestScore {
					best = &candidate{load: load, loadIdx: idx, orientation: o, space: space}
					bestScore = score
				}
			}
		}
	}

	if best == nil {
		return false
	}

	oriented := item.Oriented(best.orientation)
	best.load.place(oriented, best.space, best.orientation)
	p.placed = append(p.placed, oriented)
	p.queue = p.queue[1:]

	p.emit(events.NewEvent(events.ItemPlaced, item.Name).
		WithContainer(best.loadIdx).
		WithPayload(events.PlacementPayload{
			X: best.space.X, Y: best.space.Y, Z: best.space.Z,
			W: oriented.DX, D: oriented.DY, H: oriented.DZ,
		}))
	return true
}

func (p *Packer) openContainer() {
	load := &ContainerLoad{
		free: []FreeSpace{{0, 0, 0, p.cfg.Width, p.cfg.Depth, p.cfg.Height}},
	}
	p.loads = append(p.loads, load)
	p.emit(events.NewEvent(events.ContainerOpened, "").WithContainer(len(p.loads) - 1))
}

func (p *Packer) emit(e events.Event) {
	if p.cfg.Bus != nil {
		p.cfg.Bus.Emit(e)
	}
}

// overlaps reports whether an oriented item at the given position would
// intersect an existing placement. The free-space bookkeeping should
// already prevent this; the check guards against drift between the two.
func (l *ContainerLoad) overlaps(o Orientation, x, y, z float64) bool {
	for _, pl := range l.Placements {
		if x+o.DX <= pl.X || x >= pl.X+pl.Item.DX ||
			y+o.DY <= pl.Y || y >= pl.Y+pl.Item.DY ||
			z+o.DZ <= pl.Z || z >= pl.Z+pl.Item.DZ {
			continue
		}
		return true
	}
	return false
}

// place records the placement at the space origin and splits the
// consumed free space into its residuals.
func (l *ContainerLoad) place(item Item, space FreeSpace, o Orientation) {
	l.Placements = append(l.Placements, Placement{
		Item: item,
		X:    space.X,
		Y:    space.Y,
		Z:    space.Z,
	})
	l.Weight += item.Weight
	l.UsedVolume += item.Volume()

	remaining := make([]FreeSpace, 0, len(l.free)+3)
	for _, s := range l.free {
		if s != space {
			remaining = append(remaining, s)
		}
	}
	remaining = append(remaining, space.splitAround(o)...)
	l.free = normalizeSpaces(remaining)
}
