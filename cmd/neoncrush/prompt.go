package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"

	"neoncrush/internal/animation"
	"neoncrush/internal/pipeline"
	"neoncrush/internal/raster"
)

// errPromptDismissed reports that the user closed a prompt without answering.
var errPromptDismissed = errors.New("prompt dismissed")

// prompter collects the conversion choice and settings for one source.
type prompter interface {
	ChooseAction(rec animation.Recommendation) (animation.Action, error)
	EditSettings(settings *pipeline.Settings) error
}

type terminalPrompter struct {
	in  io.ReadCloser
	out io.WriteCloser
}

func newTerminalPrompter(in io.Reader, out io.Writer) *terminalPrompter {
	return &terminalPrompter{in: io.NopCloser(in), out: nopWriteCloser{out}}
}

func (p *terminalPrompter) ChooseAction(rec animation.Recommendation) (animation.Action, error) {
	actions := append([]animation.Action{rec.Action}, rec.Alternatives...)
	labels := make([]string, len(actions))
	for i, action := range actions {
		labels[i] = actionLabel(action)
	}
	labels[0] += " (recommended)"

	sel := promptui.Select{
		Label:  "Convert to",
		Items:  labels,
		Stdin:  p.in,
		Stdout: p.out,
	}
	index, _, err := sel.Run()
	if err != nil {
		return "", promptError(err)
	}
	return actions[index], nil
}

func (p *terminalPrompter) EditSettings(settings *pipeline.Settings) error {
	switch settings.Action {
	case animation.ActionGIF:
		var err error
		if settings.DurationSeconds, err = p.promptInt("Duration (seconds)", settings.DurationSeconds, 1, 600); err != nil {
			return err
		}
		if settings.FPS, err = p.promptInt("Frames per second", settings.FPS, 1, 60); err != nil {
			return err
		}
		if settings.TargetSizeMB, err = p.promptFloat("Target size (MB)", settings.TargetSizeMB, 0.01, 1024); err != nil {
			return err
		}
		if settings.GIFQuality, err = p.promptInt("Quality (1-100)", settings.GIFQuality, 1, 100); err != nil {
			return err
		}
	case animation.ActionRaster:
		formats := []string{raster.MediaTypePNG, raster.MediaTypeJPEG}
		cursor := 0
		if settings.RasterFormat == raster.MediaTypeJPEG {
			cursor = 1
		}
		sel := promptui.Select{
			Label:     "Format",
			Items:     []string{"PNG", "JPEG"},
			CursorPos: cursor,
			Stdin:     p.in,
			Stdout:    p.out,
		}
		index, _, err := sel.Run()
		if err != nil {
			return promptError(err)
		}
		settings.RasterFormat = formats[index]
		if settings.RasterFormat == raster.MediaTypeJPEG {
			if settings.RasterQuality, err = p.promptFloat("JPEG quality (0-1)", settings.RasterQuality, 0.01, 1); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *terminalPrompter) promptInt(label string, current, low, high int) (int, error) {
	prompt := promptui.Prompt{
		Label:   label,
		Default: strconv.Itoa(current),
		Validate: func(input string) error {
			value, err := strconv.Atoi(strings.TrimSpace(input))
			if err != nil {
				return errors.New("enter a whole number")
			}
			if value < low || value > high {
				return fmt.Errorf("enter a value between %d and %d", low, high)
			}
			return nil
		},
		Stdin:  p.in,
		Stdout: p.out,
	}
	answer, err := prompt.Run()
	if err != nil {
		return current, promptError(err)
	}
	value, _ := strconv.Atoi(strings.TrimSpace(answer))
	return value, nil
}

func (p *terminalPrompter) promptFloat(label string, current, low, high float64) (float64, error) {
	prompt := promptui.Prompt{
		Label:   label,
		Default: strconv.FormatFloat(current, 'f', -1, 64),
		Validate: func(input string) error {
			value, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
			if err != nil {
				return errors.New("enter a number")
			}
			if value < low || value > high {
				return fmt.Errorf("enter a value between %g and %g", low, high)
			}
			return nil
		},
		Stdin:  p.in,
		Stdout: p.out,
	}
	answer, err := prompt.Run()
	if err != nil {
		return current, promptError(err)
	}
	value, _ := strconv.ParseFloat(strings.TrimSpace(answer), 64)
	return value, nil
}

func promptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrAbort) || errors.Is(err, promptui.ErrEOF) {
		return errPromptDismissed
	}
	return fmt.Errorf("prompt: %w", err)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
