package viz

import "github.com/stowpack/stowpack/internal/packing"

// set3 is the qualitative palette used for item coloring, cycled when a
// plan has more item types than colors.
var set3 = []string{
	"rgb(141,211,199)",
	"rgb(255,255,179)",
	"rgb(190,186,218)",
	"rgb(251,128,114)",
	"rgb(128,177,211)",
	"rgb(253,180,98)",
	"rgb(179,222,105)",
	"rgb(252,205,229)",
	"rgb(217,217,217)",
	"rgb(188,128,189)",
	"rgb(204,235,197)",
	"rgb(255,237,111)",
}

// colorMap assigns each distinct item name a palette color, in order of
// first appearance so colors are stable for a given plan.
func colorMap(items []packing.Item) map[string]string {
	colors := make(map[string]string)
	next := 0
	for _, item := range items {
		if _, ok := colors[item.Name]; ok {
			continue
		}
		colors[item.Name] = set3[next%len(set3)]
		next++
	}
	return colors
}
