package packing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestItemDefaultName(t *testing.T) {
	item := NewItem(50, 40, 30, 10, "")
	assert.Equal(t, "Item_50x40x30_10kg", item.Name)

	named := NewItem(50, 40, 30, 10, "Kardus")
	assert.Equal(t, "Kardus", named.Name)
}

func TestItemVolume(t *testing.T) {
	item := NewItem(2, 3, 4, 1, "box")
	assert.Equal(t, 24.0, item.Volume())
}

func TestOrientationsDistinct(t *testing.T) {
	tests := []struct {
		name string
		item Item
		want int
	}{
		{"all different", NewItem(1, 2, 3, 1, ""), 6},
		{"two equal", NewItem(2, 2, 3, 1, ""), 3},
		{"cube", NewItem(2, 2, 2, 1, ""), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, tt.item.Orientations(), tt.want)
		})
	}
}

func TestOrientationsPreserveVolume(t *testing.T) {
	item := NewItem(1, 2, 3, 1, "")
	for _, o := range item.Orientations() {
		assert.Equal(t, item.Volume(), o.DX*o.DY*o.DZ)
	}
}

func TestFitsWithinConsidersRotation(t *testing.T) {
	// Only fits lying down.
	tall := NewItem(1, 1, 10, 1, "pole")
	assert.True(t, tall.FitsWithin(10, 10, 1))

	// No orientation avoids the 20cm axis.
	long := NewItem(10, 10, 20, 1, "crate")
	assert.False(t, long.FitsWithin(10, 10, 10))
}
