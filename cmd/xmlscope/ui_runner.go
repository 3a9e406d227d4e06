package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"xmlscope/internal/search"
	"xmlscope/internal/ui"
)

type searchOutcome[T any] struct {
	hits []T
	err  error
}

// runSearchWithUI runs search in the background and shows its progress events
// until it finishes. Quitting the UI cancels the search.
func runSearchWithUI[T any](ctx context.Context, title string, files []string, run func(context.Context, search.Sink) ([]T, error)) ([]T, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan search.Event, 256)
	outcomeCh := make(chan searchOutcome[T], 1)
	go func() {
		hits, err := run(ctx, search.ChannelSink{Ch: events})
		outcomeCh <- searchOutcome[T]{hits: hits, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr), tea.WithContext(ctx))
	_, uiErr := program.Run()

	// The UI may stop before the search does; cancel it and keep draining so
	// its last sends do not block.
	cancel()
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.hits, uiErr
	}
	return outcome.hits, outcome.err
}
