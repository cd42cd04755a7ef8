package packing

import "sort"

// FreeSpace is an empty axis-aligned region of a container. X/Y/Z is the
// origin corner, W/D/H the extent along each axis.
type FreeSpace struct {
	X, Y, Z float64
	W, D, H float64
}

// fits reports whether an oriented item fits inside the space.
func (s FreeSpace) fits(o Orientation) bool {
	return o.DX <= s.W && o.DY <= s.D && o.DZ <= s.H
}

// splitAround returns the residual spaces left after placing an oriented
// item at the space's origin: the strip to the right (along x), in front
// (along y), and above (along z). Degenerate residuals are omitted.
func (s FreeSpace) splitAround(o Orientation) []FreeSpace {
	var out []FreeSpace
	if o.DX < s.W {
		out = append(out, FreeSpace{s.X + o.DX, s.Y, s.Z, s.W - o.DX, s.D, s.H})
	}
	if o.DY < s.D {
		out = append(out, FreeSpace{s.X, s.Y + o.DY, s.Z, s.W, s.D - o.DY, s.H})
	}
	if o.DZ < s.H {
		out = append(out, FreeSpace{s.X, s.Y, s.Z + o.DZ, s.W, s.D, s.H - o.DZ})
	}
	return out
}

// normalizeSpaces drops zero-extent spaces, removes duplicates, and sorts
// the list so packing stays deterministic across runs.
func normalizeSpaces(spaces []FreeSpace) []FreeSpace {
	seen := make(map[FreeSpace]struct{}, len(spaces))
	out := spaces[:0]
	for _, s := range spaces {
		if s.W <= 0 || s.D <= 0 || s.H <= 0 {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return spaceLess(out[i], out[j]) })
	return out
}

// spaceLess orders spaces lexicographically by origin then extent.
func spaceLess(a, b FreeSpace) bool {
	switch {
	case a.X != b.X:
		return a.X < b.X
	case a.Y != b.Y:
		return a.Y < b.Y
	case a.Z != b.Z:
		return a.Z < b.Z
	case a.W != b.W:
		return a.W < b.W
	case a.D != b.D:
		return a.D < b.D
	default:
		return a.H < b.H
	}
}

// sortForSearch orders candidate spaces bottom-up: lowest z first, then
// y, then x, so items settle toward the floor and the back-left corner.
func sortForSearch(spaces []FreeSpace) []FreeSpace {
	out := make([]FreeSpace, len(spaces))
	copy(out, spaces)
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.Z != b.Z:
			return a.Z < b.Z
		case a.Y != b.Y:
			return a.Y < b.Y
		default:
			return a.X < b.X
		}
	})
	return out
}
