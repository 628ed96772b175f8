package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"doclint/internal/driver"
	"doclint/internal/pipeline"
	"doclint/internal/ui"
)

// wantProgress decides the --ui value. "auto" shows the progress view for
// multi-file runs when both output streams are terminals and the trace is
// not being written to stderr.
func wantProgress(value string, files int, traceToStderr bool) (bool, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "", "auto":
		return files > 1 && !traceToStderr && isTerminal(os.Stdout) && isTerminal(os.Stderr), nil
	}
	return false, fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

type lintOutcome struct {
	results []driver.FileResult
	err     error
}

// runLintWithUI lints files while a progress view runs on stderr.
func runLintWithUI(ctx context.Context, runner *driver.Runner, title string, files []string, opts driver.Options) ([]driver.FileResult, error) {
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan lintOutcome, 1)

	go func() {
		o := opts
		o.Progress = pipeline.ChannelSink{Ch: events}
		res, err := runner.LintPaths(ctx, files, o)
		outcomeCh <- lintOutcome{results: res, err: err}
		close(events)
	}()

	base, _ := os.Getwd()
	model := ui.NewProgressModel(title, files, base, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr), tea.WithContext(ctx))
	_, uiErr := program.Run()
	// после выхода из UI события больше никто не читает
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil && ctx.Err() == nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
