package main

import (
	"fmt"
	"math"
	"runtime"
	"strconv"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/spf13/cobra"

	"neoncrush/internal/animation"
	"neoncrush/internal/logging"
)

type detectReport struct {
	File            string             `json:"file"`
	DurationSeconds int                `json:"duration_seconds"`
	Animated        bool               `json:"animated"`
	Action          animation.Action   `json:"recommended_action,omitempty"`
	Reason          string             `json:"reason,omitempty"`
	Timings         []timingReport     `json:"timings,omitempty"`
	Error           string             `json:"error,omitempty"`
}

type timingReport struct {
	Element         string  `json:"element"`
	BeginSeconds    float64 `json:"begin_seconds"`
	DurationSeconds float64 `json:"duration_seconds"`
	Repeat          string  `json:"repeat"`
	EndSeconds      float64 `json:"end_seconds"`
}

func newDetectCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var verbose bool
	var workers int

	cmd := &cobra.Command{
		Use:   "detect <svg>...",
		Short: "Report animation duration and the recommended conversion",
		Args:  cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return nonNegative("workers", workers)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}
			runCtx := runContext(cmd, "detect")
			logger = logging.WithContext(runCtx, logging.NewComponentLogger(logger, "cli"))

			reports, err := detectAll(args, workers, verbose)
			if err != nil {
				return err
			}
			for _, r := range reports {
				if r.Error != "" {
					logging.WarnWithContext(logger, "svg could not be read", "detect_read_failed",
						logging.String(logging.FieldSource, r.File),
						logging.String("error", r.Error),
					)
				}
			}

			if jsonOutput {
				return writeJSON(cmd, reports)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderDetectTable(reports))
			if verbose {
				for _, r := range reports {
					if len(r.Timings) == 0 {
						continue
					}
					fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n%s\n", r.File, renderTimingsTable(r.Timings))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "List every animation element found")
	cmd.Flags().IntVar(&workers, "workers", 0, "Files to inspect concurrently (default: CPU count)")
	return cmd
}

// detectAll inspects files on a bounded worker pool and returns reports in
// argument order.
func detectAll(paths []string, workers int, withTimings bool) ([]detectReport, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, len(paths))

	pool, err := ants.NewPool(workers, ants.WithPreAlloc(true))
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	reports := make([]detectReport, len(paths))
	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			reports[i] = detectFile(path, withTimings)
		}); err != nil {
			wg.Done()
			reports[i] = detectReport{File: path, Error: err.Error()}
		}
	}
	wg.Wait()
	return reports, nil
}

func detectFile(path string, withTimings bool) detectReport {
	report := detectReport{File: path}
	src, err := readSource(path)
	if err != nil {
		report.Error = err.Error()
		return report
	}
	result := animation.Detect(src.Data)
	rec := animation.Recommend(result)
	report.DurationSeconds = result.TotalSeconds
	report.Animated = result.Animated()
	report.Action = rec.Action
	report.Reason = rec.Reason
	if withTimings {
		if timings, err := animation.Timings(src.Data); err == nil {
			for _, t := range timings {
				report.Timings = append(report.Timings, timingReport{
					Element:         t.Element,
					BeginSeconds:    t.Begin,
					DurationSeconds: t.Duration,
					Repeat:          t.Repeat.String(),
					EndSeconds:      t.End(),
				})
			}
		}
	}
	return report
}

func renderDetectTable(reports []detectReport) string {
	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		if r.Error != "" {
			rows = append(rows, []string{r.File, "-", "-", "error", r.Error})
			continue
		}
		rows = append(rows, []string{
			r.File,
			formatDuration(r.DurationSeconds),
			yesNo(r.Animated),
			actionLabel(r.Action),
			r.Reason,
		})
	}
	return renderTable(
		[]string{"File", "Duration", "Animated", "Recommended", "Reason"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignLeft},
	)
}

func renderTimingsTable(timings []timingReport) string {
	rows := make([][]string, 0, len(timings))
	for _, t := range timings {
		rows = append(rows, []string{
			t.Element,
			formatSeconds(t.BeginSeconds),
			formatSeconds(t.DurationSeconds),
			t.Repeat,
			formatSeconds(t.EndSeconds),
		})
	}
	return renderTable(
		[]string{"Element", "Begin", "Dur", "Repeat", "End"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft, alignRight},
	)
}

func formatSeconds(value float64) string {
	return strconv.FormatFloat(math.Round(value*1000)/1000, 'f', -1, 64) + "s"
}
