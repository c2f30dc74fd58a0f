package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"bigcalc/internal/batch"
	"bigcalc/internal/progress"
	"bigcalc/internal/ui"
)

type runOutcome struct {
	result *batch.Result
	err    error
}

// runBatchWithUI runs req while a Bubble Tea program renders its progress.
// Closing the program early cancels the run.
func runBatchWithUI(ctx context.Context, title string, req batch.Request) (*batch.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan progress.Event, 256)
	outcomeCh := make(chan runOutcome, 1)

	go func() {
		reqCopy := req
		reqCopy.Progress = progress.ChannelSink{Ch: events}
		res, err := batch.Run(ctx, reqCopy)
		outcomeCh <- runOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, req.Inputs, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout), tea.WithContext(ctx))
	_, uiErr := program.Run()
	// раннер не должен блокироваться на полном канале
	go func() {
		for range events {
		}
	}()

	var outcome runOutcome
	select {
	case outcome = <-outcomeCh:
	default:
		cancel()
		outcome = <-outcomeCh
	}
	if uiErr != nil && outcome.err == nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
