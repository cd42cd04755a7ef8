package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stowpack/stowpack/internal/config"
	"github.com/stowpack/stowpack/internal/packing"
	"github.com/stowpack/stowpack/internal/render"
	"github.com/stowpack/stowpack/internal/report"
	"github.com/stowpack/stowpack/internal/viz"
)

// NewExportCmd creates the export command.
// Usage: stowpack export [plan-id] --format csv|pdf|png [--output FILE]
func NewExportCmd(app *App) *cobra.Command {
	var (
		format   string
		output   string
		viewName string
	)

	cmd := &cobra.Command{
		Use:   "export [plan-id]",
		Short: "Export a saved plan as CSV, PDF, or PNG",
		Long: `Exports a plan from the plan store. Without a plan ID the most
recently saved plan is used.

PDF and PNG exports render the report page in a headless Chromium,
which must be installed or reachable via the configured browser
path. Rendering needs network access to load the plotting library.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			planID := ""
			if len(args) == 1 {
				planID = args[0]
			}
			return app.runExport(planID, format, output, viewName)
		},
	}

	cmd.Flags().StringVar(&format, "format", "csv", "Export format: csv, pdf, or png")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default derived from format)")
	cmd.Flags().StringVar(&viewName, "view", "Isometric", "Camera view for PNG export")

	return cmd
}

func (a *App) runExport(planID, format, output, viewName string) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if planID == "" {
		metas, err := db.ListPlans()
		if err != nil {
			return err
		}
		if len(metas) == 0 {
			return fmt.Errorf("plan store is empty, run a pack first")
		}
		planID = metas[0].ID
	}

	plan, err := db.GetPlan(planID)
	if err != nil {
		return err
	}
	if plan == nil {
		return fmt.Errorf("plan %s not found", planID)
	}

	switch format {
	case "csv":
		if output == "" {
			output = "packing_results.csv"
		}
		if err := exportCSV(plan, output); err != nil {
			return err
		}
	case "pdf":
		if output == "" {
			output = "packing_report.pdf"
		}
		page, err := report.ReportHTML(plan)
		if err != nil {
			return err
		}
		if err := a.renderToFile(cfg, logger, page, output, ""); err != nil {
			return err
		}
	case "png":
		if output == "" {
			output = "packing_view.png"
		}
		view, ok := viz.ViewByName(viewName)
		if !ok {
			return fmt.Errorf("unknown view %q", viewName)
		}
		page, err := report.ViewHTML(plan, view)
		if err != nil {
			return err
		}
		if err := a.renderToFile(cfg, logger, page, output, "png"); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q, want csv, pdf, or png", format)
	}

	fmt.Printf("Exported plan %s to %s\n", planID, output)
	return nil
}

func exportCSV(plan *packing.Plan, output string) error {
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create %s: %w", output, err)
	}
	if err := report.WriteCSV(f, plan); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// renderToFile writes the report page to a temp file and prints it
// with the headless browser. An empty kind selects PDF.
func (a *App) renderToFile(cfg *config.Config, logger *zap.Logger, page []byte, output, kind string) error {
	renderer, err := render.New(cfg.Render, logger)
	if err != nil {
		return err
	}
	defer renderer.Close()

	tmp, err := os.CreateTemp("", "stowpack-report-*.html")
	if err != nil {
		return fmt.Errorf("create temp report: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(page); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	url := "file://" + filepath.ToSlash(tmp.Name())

	ctx := context.Background()
	var data []byte
	if kind == "png" {
		data, err = renderer.Snapshot(ctx, url, 800, 600)
	} else {
		data, err = renderer.PrintPDF(ctx, url)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(output, data, 0o644)
}
