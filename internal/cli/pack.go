package cli

import (
	"encoding/json"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/stowpack/stowpack/internal/cli/tui"
	"github.com/stowpack/stowpack/internal/events"
	"github.com/stowpack/stowpack/internal/packing"
	"github.com/stowpack/stowpack/internal/report"
)

type packOptions struct {
	JSON    bool
	NoTUI   bool
	NoSave  bool
	CSVPath string
}

// NewPackCmd creates the pack command.
// Usage: stowpack pack <scenario.yaml> [--csv FILE] [--json]
func NewPackCmd(app *App) *cobra.Command {
	var opts packOptions

	cmd := &cobra.Command{
		Use:   "pack <scenario.yaml>",
		Short: "Run a packing scenario from the command line",
		Long: `Packs the cargo declared in a scenario file and prints the result.

On a terminal an interactive progress display is shown; when output
is piped (or --json is given) events are emitted as JSON lines
instead. The finished plan is saved to the plan store unless
--no-save is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runPack(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Emit events as JSON lines")
	cmd.Flags().BoolVar(&opts.NoTUI, "no-tui", false, "Disable the interactive progress display")
	cmd.Flags().BoolVar(&opts.NoSave, "no-save", false, "Do not persist the plan")
	cmd.Flags().StringVar(&opts.CSVPath, "csv", "", "Also write the placement CSV to this file")

	return cmd
}

func (a *App) runPack(cmd *cobra.Command, scenarioPath string, opts packOptions) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	scn, err := packing.LoadScenario(scenarioPath)
	if err != nil {
		return err
	}
	width, depth, height, err := scn.Dimensions()
	if err != nil {
		return err
	}
	items := scn.ExpandItems()

	bus := events.NewBus()
	defer bus.Close()

	jsonMode := events.IsJSONMode(opts.JSON)
	useTUI := !opts.NoTUI && !jsonMode

	if jsonMode {
		bus.Subscribe(events.JSONEmitterHandler(events.NewJSONEmitter(cmd.OutOrStdout())))
	}

	var (
		program *tea.Program
		bridge  *tui.Bridge
	)
	if useTUI {
		model := tui.NewModel(len(items))
		program = tea.NewProgram(model)
		bridge = tui.NewBridge(program)
		bus.Subscribe(bridge.Handler())
	}

	packer, err := packing.New(packing.Config{
		Width:         width,
		Depth:         depth,
		Height:        height,
		MaxWeight:     scn.MaxWeight,
		MaxContainers: scn.MaxContainers,
		Bus:           bus,
	}, items)
	if err != nil {
		return err
	}

	var plan *packing.Plan
	if useTUI {
		result := make(chan *packing.Plan, 1)
		go func() {
			result <- packer.Run()
			bridge.SendDone()
		}()
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("progress display: %w", err)
		}
		plan = <-result
	} else {
		plan = packer.Run()
	}

	if !opts.NoSave {
		db, err := openStore(cfg)
		if err != nil {
			return err
		}
		if _, err := db.SavePlan(plan); err != nil {
			db.Close()
			return fmt.Errorf("save plan: %w", err)
		}
		db.Close()
	}

	if opts.CSVPath != "" {
		f, err := os.Create(opts.CSVPath)
		if err != nil {
			return fmt.Errorf("create csv: %w", err)
		}
		if err := report.WriteCSV(f, plan); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}

	if jsonMode {
		enc := json.NewEncoder(cmd.OutOrStdout())
		return enc.Encode(map[string]any{
			"plan_id":    plan.ID,
			"summary":    plan.Summary(),
			"load_stats": plan.LoadStats(),
		})
	}

	fmt.Fprintln(cmd.OutOrStdout(), FormatPlanSummary(plan))
	if plan.ID != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Plan saved as %s\n", plan.ID)
	}
	return nil
}
