// Package viz builds Plotly figure JSON for packing plans. The
// dashboard renders figures client-side with plotly.js; the report
// renderer feeds the same JSON to headless Chromium.
package viz

import (
	"fmt"
	"math"

	"github.com/stowpack/stowpack/internal/packing"
)

// containerGap is the spacing factor between containers along the x
// axis when a plan spans more than one.
const containerGap = 1.2

// Figure is a Plotly figure: traces plus layout.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is a single Plotly trace. Only the fields used by the two
// trace kinds we emit (scatter3d lines and mesh3d boxes) are modeled.
type Trace struct {
	Type string `json:"type"`

	X []*float64 `json:"x,omitempty"`
	Y []*float64 `json:"y,omitempty"`
	Z []*float64 `json:"z,omitempty"`

	// scatter3d
	Mode string `json:"mode,omitempty"`
	Line *Line  `json:"line,omitempty"`

	// mesh3d triangle indices
	I []int `json:"i,omitempty"`
	J []int `json:"j,omitempty"`
	K []int `json:"k,omitempty"`

	Color         string  `json:"color,omitempty"`
	Opacity       float64 `json:"opacity,omitempty"`
	Name          string  `json:"name,omitempty"`
	ShowLegend    *bool   `json:"showlegend,omitempty"`
	HoverTemplate string  `json:"hovertemplate,omitempty"`
	HoverInfo     string  `json:"hoverinfo,omitempty"`
}

// Line styles a scatter3d trace.
type Line struct {
	Color string  `json:"color,omitempty"`
	Width float64 `json:"width,omitempty"`
}

// Layout holds the subset of Plotly layout options the figures use.
type Layout struct {
	Title      string  `json:"title,omitempty"`
	Height     int     `json:"height,omitempty"`
	Width      int     `json:"width,omitempty"`
	ShowLegend *bool   `json:"showlegend,omitempty"`
	Scene      *Scene  `json:"scene,omitempty"`
	Margin     *Margin `json:"margin,omitempty"`
}

// Scene configures the 3D axes and camera.
type Scene struct {
	XAxis      Axis    `json:"xaxis"`
	YAxis      Axis    `json:"yaxis"`
	ZAxis      Axis    `json:"zaxis"`
	AspectMode string  `json:"aspectmode,omitempty"`
	Camera     *Camera `json:"camera,omitempty"`
}

// Axis labels one scene axis.
type Axis struct {
	Title string `json:"title,omitempty"`
}

// Camera positions the scene viewpoint.
type Camera struct {
	Eye Eye `json:"eye"`
}

// Eye is the camera eye coordinate.
type Eye struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Margin trims figure whitespace for report snapshots.
type Margin struct {
	L int `json:"l"`
	R int `json:"r"`
	T int `json:"t"`
	B int `json:"b"`
}

// View is a named camera angle used by the multi-view report.
type View struct {
	Name   string `json:"name"`
	Camera Camera `json:"camera"`
}

// Views returns the report camera angles in presentation order.
func Views() []View {
	return []View{
		{Name: "Front View", Camera: Camera{Eye: Eye{X: 0, Y: -2, Z: 0.5}}},
		{Name: "Side View", Camera: Camera{Eye: Eye{X: 2, Y: 0, Z: 0.5}}},
		{Name: "Top View", Camera: Camera{Eye: Eye{X: 0, Y: 0, Z: 2}}},
		{Name: "Isometric", Camera: Camera{Eye: Eye{X: 1.5, Y: 1.5, Z: 1.5}}},
	}
}

// ViewByName looks up a report view by name.
func ViewByName(name string) (View, bool) {
	for _, v := range Views() {
		if v.Name == name {
			return v, true
		}
	}
	return View{}, false
}

// Build constructs the interactive dashboard figure for a plan.
func Build(plan *packing.Plan) *Figure {
	fig := &Figure{
		Data: traces(plan, true),
		Layout: Layout{
			Title:      "3D Container Packing",
			Height:     700,
			ShowLegend: boolPtr(true),
			Scene:      scene(&Camera{Eye: Eye{X: 1.5, Y: 1.5, Z: 1.5}}),
		},
	}
	return fig
}

// BuildView constructs a fixed-size, legend-free figure at one of the
// report camera angles.
func BuildView(plan *packing.Plan, view View) *Figure {
	camera := view.Camera
	return &Figure{
		Data: traces(plan, false),
		Layout: Layout{
			Title:      view.Name,
			Width:      800,
			Height:     600,
			ShowLegend: boolPtr(false),
			Scene:      scene(&camera),
			Margin:     &Margin{L: 0, R: 0, T: 40, B: 0},
		},
	}
}

func scene(camera *Camera) *Scene {
	return &Scene{
		XAxis:      Axis{Title: "Width (cm)"},
		YAxis:      Axis{Title: "Length (cm)"},
		ZAxis:      Axis{Title: "Height (cm)"},
		AspectMode: "data",
		Camera:     camera,
	}
}

// Fixed triangle indices for the 12 faces (2 triangles each, both
// windings) of an 8-vertex box.
var (
	meshI = []int{0, 0, 1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 6, 7, 7, 0, 0, 1, 1, 2, 2, 3, 3}
	meshJ = []int{1, 3, 2, 0, 3, 1, 0, 2, 5, 7, 6, 4, 7, 5, 4, 6, 4, 1, 5, 2, 6, 3, 7, 0}
	meshK = []int{3, 1, 0, 2, 1, 3, 2, 0, 7, 5, 4, 6, 5, 7, 6, 4, 1, 4, 2, 5, 3, 6, 0, 7}
)

func traces(plan *packing.Plan, hover bool) []Trace {
	colors := colorMap(plan.PlacedItems())

	var out []Trace
	offsetX := 0.0

	for ci, load := range plan.Loads {
		out = append(out, containerWireframe(plan, ci, offsetX))

		for _, pl := range load.Placements {
			out = append(out, itemMesh(pl, offsetX, colors, hover))
			out = append(out, itemWireframe(pl, offsetX))
		}

		offsetX += plan.Width * containerGap
	}
	return out
}

// containerWireframe draws the container outline: bottom loop, top
// loop, then the four vertical edges separated by line breaks.
func containerWireframe(plan *packing.Plan, idx int, offsetX float64) Trace {
	w, l, h := plan.Width, plan.Depth, plan.Height
	x0, x1 := offsetX, offsetX+w

	return Trace{
		Type: "scatter3d",
		Mode: "lines",
		X: coords(x0, x1, x1, x0, x0,
			x0, x1, x1, x0, x0,
			x0, x0, gap, x1, x1, gap,
			x1, x1, gap, x0, x0),
		Y: coords(0, 0, l, l, 0,
			0, 0, l, l, 0,
			0, 0, gap, 0, 0, gap,
			l, l, gap, l, l),
		Z: coords(0, 0, 0, 0, 0,
			h, h, h, h, h,
			0, h, gap, 0, h, gap,
			0, h, gap, 0, h),
		Line:       &Line{Color: "black", Width: 2},
		Name:       fmt.Sprintf("Container %d", idx+1),
		ShowLegend: boolPtr(idx == 0),
	}
}

// itemMesh draws one placed item as a solid box.
func itemMesh(pl packing.Placement, offsetX float64, colors map[string]string, hover bool) Trace {
	item := pl.Item
	x0, x1 := pl.X+offsetX, pl.X+item.DX+offsetX
	y0, y1 := pl.Y, pl.Y+item.DY
	z0, z1 := pl.Z, pl.Z+item.DZ

	color, ok := colors[item.Name]
	if !ok {
		color = "blue"
	}

	t := Trace{
		Type:       "mesh3d",
		X:          coords(x0, x1, x1, x0, x0, x1, x1, x0),
		Y:          coords(y0, y0, y1, y1, y0, y0, y1, y1),
		Z:          coords(z0, z0, z0, z0, z1, z1, z1, z1),
		I:          meshI,
		J:          meshJ,
		K:          meshK,
		Color:      color,
		Opacity:    0.7,
		Name:       item.Name,
		ShowLegend: boolPtr(false),
	}
	if hover {
		t.HoverTemplate = fmt.Sprintf(
			"<b>%s</b><br>Dimensions: %.1f x %.1f x %.1f cm<br>Weight: %.1f kg<br>Volume: %.1f cm³<br>Position: (%.1f, %.1f, %.1f)<extra></extra>",
			item.Name, item.DX, item.DY, item.DZ, item.Weight, item.Volume(), pl.X, pl.Y, pl.Z)
	} else {
		t.Opacity = 0.8
	}
	return t
}

// itemWireframe outlines a placed box for visibility over the mesh.
func itemWireframe(pl packing.Placement, offsetX float64) Trace {
	item := pl.Item
	x0, x1 := pl.X+offsetX, pl.X+item.DX+offsetX
	y0, y1 := pl.Y, pl.Y+item.DY
	z0, z1 := pl.Z, pl.Z+item.DZ

	return Trace{
		Type: "scatter3d",
		Mode: "lines",
		X: coords(x0, x1, x1, x0, x0, gap,
			x0, x1, x1, x0, x0, gap,
			x0, x0, gap, x1, x1, gap,
			x1, x1, gap, x0, x0),
		Y: coords(y0, y0, y1, y1, y0, gap,
			y0, y0, y1, y1, y0, gap,
			y0, y0, gap, y0, y0, gap,
			y1, y1, gap, y1, y1),
		Z: coords(z0, z0, z0, z0, z0, gap,
			z1, z1, z1, z1, z1, gap,
			z0, z1, gap, z0, z1, gap,
			z0, z1, gap, z0, z1),
		Line:       &Line{Color: "black", Width: 1},
		ShowLegend: boolPtr(false),
		HoverInfo:  "skip",
	}
}

// gap marks a line break in a coordinate list; it serializes to null.
var gap = math.Inf(-1)

func coords(vals ...float64) []*float64 {
	out := make([]*float64, len(vals))
	for i, v := range vals {
		if v == gap {
			continue
		}
		v := v
		out[i] = &v
	}
	return out
}

func boolPtr(b bool) *bool { return &b }
