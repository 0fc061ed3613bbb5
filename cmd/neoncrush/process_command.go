package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"neoncrush/internal/animation"
	"neoncrush/internal/pipeline"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var (
		assumeYes  bool
		actionFlag string
		outFlag    string
	)

	cmd := &cobra.Command{
		Use:   "process <svg>",
		Short: "Detect animation, confirm a conversion, and run it",
		Long: "Process inspects the SVG, shows the recommended conversion, and asks for\n" +
			"confirmation before converting. Dismissing a prompt (Ctrl+C) skips the file\n" +
			"without encoding anything.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			src, err := readSource(args[0])
			if err != nil {
				return err
			}

			rec := animation.Recommend(animation.Detect(src.Data))
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s: %s\n", src.Name, rec.Reason)
			fmt.Fprintf(w, "Recommended: %s\n", actionLabel(rec.Action))

			if actionFlag != "" {
				action, err := animation.ParseAction(actionFlag)
				if err != nil {
					return err
				}
				rec.Action = action
				rec.Alternatives = nil
			}

			settings, err := confirmSettings(cmd, ctx, rec, assumeYes)
			if err != nil {
				return err
			}

			out, err := convert(cmd, ctx, src, settings)
			if errors.Is(err, pipeline.ErrSkipped) {
				fmt.Fprintf(w, "Skipped %s; nothing was converted\n", src.Name)
				return nil
			}
			if err != nil {
				return err
			}
			var applied pipeline.Settings
			if settings != nil {
				applied = *settings
			}
			return reportOutput(cmd, cfg, out, applied, outFlag)
		},
	}

	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Accept the recommendation and default settings without prompting")
	cmd.Flags().StringVarP(&actionFlag, "action", "a", "", "Conversion to use instead of the recommendation (gif, raster, minify)")
	cmd.Flags().StringVarP(&outFlag, "out", "o", "", "Output file or directory (default: paths.output_dir)")
	return cmd
}

// confirmSettings returns nil settings when the user dismisses any prompt.
func confirmSettings(cmd *cobra.Command, ctx *commandContext, rec animation.Recommendation, assumeYes bool) (*pipeline.Settings, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	if assumeYes {
		settings := pipeline.DefaultSettings(cfg, rec)
		return &settings, nil
	}

	prompt := ctx.promptFor(cmd)
	action := rec.Action
	if len(rec.Alternatives) > 0 {
		chosen, err := prompt.ChooseAction(rec)
		if errors.Is(err, errPromptDismissed) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		action = chosen
	}

	settings := pipeline.DefaultSettings(cfg, rec)
	settings.Action = action
	if err := prompt.EditSettings(&settings); err != nil {
		if errors.Is(err, errPromptDismissed) {
			return nil, nil
		}
		return nil, err
	}
	return &settings, nil
}
