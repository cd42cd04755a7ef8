package viz

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stowpack/stowpack/internal/packing"
)

func testPlan(t *testing.T) *packing.Plan {
	t.Helper()
	items := []packing.Item{
		packing.NewItem(4, 4, 4, 30, "crate"),
		packing.NewItem(4, 4, 4, 30, "crate"),
		packing.NewItem(2, 2, 2, 5, "box"),
	}
	packer, err := packing.New(packing.Config{Width: 10, Depth: 10, Height: 10, MaxWeight: 50}, items)
	require.NoError(t, err)
	return packer.Run()
}

func TestBuildTraceCounts(t *testing.T) {
	plan := testPlan(t)
	fig := Build(plan)

	placements := 0
	for _, load := range plan.Loads {
		placements += len(load.Placements)
	}

	// One wireframe per container, mesh + outline per placement.
	want := len(plan.Loads) + 2*placements
	assert.Len(t, fig.Data, want)

	assert.Equal(t, "scatter3d", fig.Data[0].Type)
	assert.Equal(t, "mesh3d", fig.Data[1].Type)
}

func TestMeshTriangleIndices(t *testing.T) {
	fig := Build(testPlan(t))

	for _, trace := range fig.Data {
		if trace.Type != "mesh3d" {
			continue
		}
		assert.Len(t, trace.X, 8)
		assert.Len(t, trace.I, 24)
		assert.Len(t, trace.J, 24)
		assert.Len(t, trace.K, 24)
	}
}

func TestWireframeHasLineBreaks(t *testing.T) {
	fig := Build(testPlan(t))

	outline := fig.Data[0]
	require.Equal(t, "lines", outline.Mode)
	require.Len(t, outline.X, 21)

	breaks := 0
	for _, v := range outline.X {
		if v == nil {
			breaks++
		}
	}
	assert.Equal(t, 3, breaks)
}

func TestFigureSerializesNullGaps(t *testing.T) {
	fig := Build(testPlan(t))
	data, err := json.Marshal(fig)
	require.NoError(t, err)
	assert.Contains(t, string(data), "null")
	assert.Contains(t, string(data), `"aspectmode":"data"`)
}

func TestBuildViewLayout(t *testing.T) {
	plan := testPlan(t)

	view, ok := ViewByName("Top View")
	require.True(t, ok)

	fig := BuildView(plan, view)
	assert.Equal(t, 800, fig.Layout.Width)
	assert.Equal(t, 600, fig.Layout.Height)
	assert.Equal(t, "Top View", fig.Layout.Title)
	require.NotNil(t, fig.Layout.Scene.Camera)
	assert.Equal(t, 2.0, fig.Layout.Scene.Camera.Eye.Z)
	require.NotNil(t, fig.Layout.ShowLegend)
	assert.False(t, *fig.Layout.ShowLegend)
}

func TestViewsOrder(t *testing.T) {
	views := Views()
	require.Len(t, views, 4)
	assert.Equal(t, "Front View", views[0].Name)
	assert.Equal(t, "Isometric", views[3].Name)

	_, ok := ViewByName("Oblique")
	assert.False(t, ok)
}

func TestColorMapCyclesPalette(t *testing.T) {
	var items []packing.Item
	for i := 0; i < 15; i++ {
		items = append(items, packing.NewItem(1, 1, 1, 1, string(rune('a'+i))))
	}
	colors := colorMap(items)
	assert.Len(t, colors, 15)
	assert.Equal(t, colors["a"], colors[string(rune('a'+12))])

	// Stable assignment by first appearance.
	assert.Equal(t, set3[0], colors["a"])
	assert.Equal(t, set3[1], colors["b"])
}
