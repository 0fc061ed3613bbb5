package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"neoncrush/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the renderer, dependencies, and writable paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := isTerminal(out)

			results := preflight.RunAll(cmd.Context(), cfg)
			for _, line := range renderSectionHeader("Checks", colorize) {
				fmt.Fprintln(out, line)
			}
			for _, r := range results {
				fmt.Fprintln(out, renderStatusLine(r.Name, resultKind(r), r.Detail, colorize))
			}

			fmt.Fprintln(out)
			for _, line := range renderSectionHeader("Dependencies", colorize) {
				fmt.Fprintln(out, line)
			}
			for _, dep := range preflight.CheckSystemDeps(cfg) {
				kind := statusOK
				detail := dep.Path
				switch {
				case !dep.Available && dep.Optional:
					kind, detail = statusWarn, dep.Detail+" (optional: "+dep.Description+")"
				case !dep.Available:
					kind, detail = statusError, dep.Detail
				}
				fmt.Fprintln(out, renderStatusLine(dep.Name, kind, detail, colorize))
			}

			if preflight.Blocking(results) {
				return errors.New("doctor found blocking problems")
			}
			return nil
		},
	}
}

func resultKind(r preflight.Result) statusKind {
	switch {
	case r.Passed && r.Optional:
		return statusWarn
	case r.Passed:
		return statusOK
	case r.Optional:
		return statusWarn
	default:
		return statusError
	}
}
