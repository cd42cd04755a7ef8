package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stowpack/stowpack/internal/events"
)

// NewPlansCmd creates the plans command group.
// Usage: stowpack plans [list|show <id>|delete <id>]
func NewPlansCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plans",
		Short: "Manage saved packing plans",
	}

	cmd.AddCommand(newPlansListCmd(app))
	cmd.AddCommand(newPlansShowCmd(app))
	cmd.AddCommand(newPlansDeleteCmd(app))

	// Bare "plans" behaves like "plans list"
	cmd.RunE = newPlansListCmd(app).RunE

	return cmd
}

func newPlansListCmd(app *App) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved plans, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig()
			if err != nil {
				return err
			}
			db, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			metas, err := db.ListPlans()
			if err != nil {
				return err
			}

			if jsonOut || events.IsJSONMode(false) {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(metas)
			}

			if len(metas) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No saved plans")
				return nil
			}
			for _, m := range metas {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %gx%gx%g cm  %d containers  %d placed\n",
					m.ID, m.CreatedAt.Format("2006-01-02 15:04:05"),
					m.Width, m.Depth, m.Height, m.Containers, m.Placed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func newPlansShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <plan-id>",
		Short: "Print one saved plan as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig()
			if err != nil {
				return err
			}
			db, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			plan, err := db.GetPlan(args[0])
			if err != nil {
				return err
			}
			if plan == nil {
				return fmt.Errorf("plan %s not found", args[0])
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{
				"plan":       plan,
				"summary":    plan.Summary(),
				"load_stats": plan.LoadStats(),
			})
		},
	}
}

func newPlansDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <plan-id>",
		Short: "Delete one saved plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig()
			if err != nil {
				return err
			}
			db, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.DeletePlan(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted plan %s\n", args[0])
			return nil
		},
	}
}
