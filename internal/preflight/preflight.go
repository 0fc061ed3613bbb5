package preflight

import (
	"context"

	"neoncrush/internal/config"
)

// Result reports the outcome of a single preflight check. Optional failures
// degrade a feature without blocking conversions.
type Result struct {
	Name     string
	Passed   bool
	Optional bool
	Detail   string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckRenderer(cfg),
		CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir),
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}

	if cfg.History.Enabled {
		results = append(results, CheckHistory(ctx, cfg))
	}

	return results
}

// Blocking reports whether any required check failed.
func Blocking(results []Result) bool {
	for _, r := range results {
		if !r.Passed && !r.Optional {
			return true
		}
	}
	return false
}
