// Package report produces export artifacts from a packing plan: the
// placement CSV and the multi-view HTML report page that headless
// Chromium prints to PDF.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/stowpack/stowpack/internal/packing"
)

// csvHeader is the fixed column set of the placement export.
var csvHeader = []string{
	"Container", "Item",
	"Width_cm", "Depth_cm", "Height_cm",
	"Weight_kg", "Volume_cm3",
	"Pos_X", "Pos_Y", "Pos_Z",
}

// WriteCSV writes one row per placement, container by container.
func WriteCSV(w io.Writer, plan *packing.Plan) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for ci, load := range plan.Loads {
		label := fmt.Sprintf("Container_%d", ci+1)
		for _, pl := range load.Placements {
			row := []string{
				label,
				pl.Item.Name,
				formatFloat(pl.Item.DX),
				formatFloat(pl.Item.DY),
				formatFloat(pl.Item.DZ),
				formatFloat(pl.Item.Weight),
				formatFloat(pl.Item.Volume()),
				formatFloat(pl.X),
				formatFloat(pl.Y),
				formatFloat(pl.Z),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write csv row: %w", err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
