package main

import (
	"bytes"
	"context"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"swiftconcur/internal/driver"
	"swiftconcur/internal/ui"
)

type runOutcome struct {
	result *driver.Result
	err    error
}

// runWithUI runs the pipeline while a progress view draws on stderr. The
// report is buffered and copied to out once the view has exited so the two
// never interleave on a shared terminal.
func runWithUI(ctx context.Context, title string, req *driver.Request, render renderFunc, out io.Writer) (*driver.Result, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan runOutcome, 1)
	var buf bytes.Buffer

	go func() {
		reqCopy := *req
		reqCopy.Progress = driver.ChannelSink{Ch: events}
		res, err := runPipeline(ctx, &reqCopy, render, &buf)
		outcomeCh <- runOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr), tea.WithInput(nil))
	_, uiErr := program.Run()
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if outcome.err != nil {
		return outcome.result, outcome.err
	}
	if uiErr != nil {
		return outcome.result, uiErr
	}
	if _, err := buf.WriteTo(out); err != nil {
		return outcome.result, &driver.Error{Kind: driver.KindIO, Err: err}
	}
	return outcome.result, nil
}
