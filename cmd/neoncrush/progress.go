package main

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/jedib0t/go-pretty/v6/progress"

	"neoncrush/internal/encoder"
	"neoncrush/internal/logging"
)

// progressReporter presents encoder updates and must be stopped once the
// encode returns.
type progressReporter interface {
	encoder.Progress
	Stop()
}

// newProgressReporter draws a live tracker on terminals and falls back to
// sampled log lines everywhere else.
func newProgressReporter(w io.Writer, logger *slog.Logger) progressReporter {
	if isTerminal(w) {
		return newTrackerProgress(w)
	}
	return newLogProgress(logger)
}

type trackerProgress struct {
	mu      sync.Mutex
	writer  progress.Writer
	tracker *progress.Tracker
}

func newTrackerProgress(w io.Writer) *trackerProgress {
	pw := progress.NewWriter()
	pw.SetOutputWriter(w)
	pw.SetAutoStop(false)
	pw.SetTrackerLength(30)
	pw.SetMessageLength(48)
	pw.SetUpdateFrequency(100 * time.Millisecond)
	pw.SetStyle(progress.StyleDefault)
	pw.Style().Visibility.ETA = false
	pw.Style().Visibility.Value = false

	tracker := &progress.Tracker{Message: "Preparing...", Total: 100, Units: progress.UnitsDefault}
	pw.AppendTracker(tracker)
	go pw.Render()

	return &trackerProgress{writer: pw, tracker: tracker}
}

func (p *trackerProgress) OnProgress(u encoder.Update) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tracker.UpdateMessage(encoder.FormatUpdate(u))
	if u.Phase != "" {
		p.tracker.SetValue(int64(u.Overall() * 100))
	}
}

func (p *trackerProgress) Stop() {
	p.mu.Lock()
	p.tracker.MarkAsDone()
	p.mu.Unlock()
	deadline := time.Now().Add(time.Second)
	for p.writer.IsRenderInProgress() && p.writer.LengthActive() > 0 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	p.writer.Stop()
}

type logProgress struct {
	mu      sync.Mutex
	logger  *slog.Logger
	sampler *logging.ProgressSampler
}

func newLogProgress(logger *slog.Logger) *logProgress {
	return &logProgress{
		logger:  logging.NewComponentLogger(logger, "progress"),
		sampler: logging.NewProgressSampler(10),
	}
}

func (p *logProgress) OnProgress(u encoder.Update) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if u.Phase == "" {
		if u.Message != "" {
			p.logger.Info(u.Message, logging.Int(logging.FieldAttempt, u.Attempt))
		}
		return
	}
	percent := u.Overall() * 100
	stage := fmt.Sprintf("%d/%s", u.Attempt, u.Phase)
	if !p.sampler.ShouldLog(percent, stage) {
		return
	}
	p.logger.Info(encoder.FormatUpdate(u),
		logging.Int(logging.FieldAttempt, u.Attempt),
		logging.String(logging.FieldStage, string(u.Phase)),
		logging.Float64("percent", percent),
	)
}

func (p *logProgress) Stop() {}
