package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"neoncrush/internal/history"
)

type historyEntry struct {
	ID           string    `json:"id"`
	Source       string    `json:"source"`
	Action       string    `json:"action"`
	Status       string    `json:"status"`
	Renderer     string    `json:"renderer,omitempty"`
	OriginalSize int64     `json:"original_size"`
	OutputSize   int64     `json:"output_size"`
	Attempts     int       `json:"attempts"`
	WithinBudget bool      `json:"within_budget"`
	Error        string    `json:"error,omitempty"`
	StartedAt    time.Time `json:"started_at"`
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent conversions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(cmd, ctx, func(store *history.Store) error {
				runs, err := store.Recent(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if jsonOutput {
					entries := make([]historyEntry, 0, len(runs))
					for _, run := range runs {
						entries = append(entries, historyEntry{
							ID:           run.ID,
							Source:       run.Source,
							Action:       run.Action,
							Status:       string(run.Status),
							Renderer:     run.Renderer,
							OriginalSize: run.OriginalSize,
							OutputSize:   run.OutputSize,
							Attempts:     run.Attempts,
							WithinBudget: run.WithinBudget,
							Error:        run.Error,
							StartedAt:    run.StartedAt,
						})
					}
					return writeJSON(cmd, entries)
				}
				if len(runs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No conversions recorded")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderHistoryTable(runs))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	cmd.AddCommand(newHistoryClearCommand(ctx))
	return cmd
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded conversions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(cmd, ctx, func(store *history.Store) error {
				removed, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d run(s)\n", removed)
				return nil
			})
		},
	}
}

func withHistory(cmd *cobra.Command, ctx *commandContext, fn func(*history.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if !cfg.History.Enabled {
		fmt.Fprintln(cmd.OutOrStdout(), "History is disabled (history.enabled = false)")
		return nil
	}
	store, err := history.Open(cfg)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func renderHistoryTable(runs []history.Run) string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		output := "-"
		if run.OutputSize > 0 {
			output = formatBytes(run.OutputSize)
			if run.Action == "gif" && !run.WithinBudget {
				output += " (over)"
			}
		}
		rows = append(rows, []string{
			run.StartedAt.Local().Format("2006-01-02 15:04"),
			run.Source,
			run.Action,
			string(run.Status),
			formatBytes(run.OriginalSize),
			output,
			fmt.Sprintf("%d", run.Attempts),
		})
	}
	return renderTable(
		[]string{"When", "Source", "Action", "Status", "Original", "Output", "Attempts"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight},
	)
}
