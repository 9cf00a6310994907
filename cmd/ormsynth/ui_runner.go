package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"ormsynth/internal/driver"
	"ormsynth/internal/pipeline"
	"ormsynth/internal/ui"
)

type analyzeOutcome struct {
	snaps []*driver.Snapshot
	err   error
}

func runAnalyzeWithUI(ctx context.Context, title string, files []string, opts driver.Options) ([]*driver.Snapshot, error) {
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan analyzeOutcome, 1)

	go func() {
		runOpts := opts
		runOpts.Progress = pipeline.ChannelSink{Ch: events}
		snaps, err := driver.AnalyzeFiles(ctx, files, runOpts)
		outcomeCh <- analyzeOutcome{snaps: snaps, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.snaps, uiErr
	}
	return outcome.snaps, outcome.err
}
