// Writer rendering live run progress in a bubbletea TUI
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"lorasim/internal/metrics"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// Writer forwards progress, anomalies and the final summary to a TUI.
type Writer struct {
	program teaProgram
	exited  chan struct{}
	err     error
}

// NewWriter starts a bubbletea program for runID on the alternate screen.
func NewWriter(runID string) *Writer {
	p := tea.NewProgram(newModel(runID), tea.WithAltScreen())
	return start(p, func() error {
		_, err := p.Run()
		return err
	})
}

func start(p teaProgram, run func() error) *Writer {
	w := &Writer{program: p, exited: make(chan struct{})}
	go func() {
		w.err = run()
		close(w.exited)
	}()
	return w
}

// WriteProgress updates the counters table.
func (w *Writer) WriteProgress(p metrics.Progress) error {
	w.program.Send(progressMsg{p})
	return nil
}

// WriteSummary shows the final summary.
func (w *Writer) WriteSummary(s metrics.Summary) error {
	w.program.Send(summaryMsg{s})
	return nil
}

// Observe logs anomalous transitions to the viewport.
func (w *Writer) Observe(tr metrics.Transition) {
	if !tr.Kind.Anomalous() {
		return
	}
	line := fmt.Sprintf("[%9.3fs] packet %d: %s", tr.At.Seconds(), tr.ID, tr.Kind)
	if tr.Kind == metrics.KindNegativeDelay {
		line += fmt.Sprintf(" (%s)", tr.Delay)
	}
	w.program.Send(logMsg{line: line})
}

// Exited is closed once the program has stopped and restored the terminal.
func (w *Writer) Exited() <-chan struct{} { return w.exited }

// Wait blocks until the user quits the TUI.
func (w *Writer) Wait() error {
	if w.exited == nil {
		return nil
	}
	<-w.exited
	return w.err
}

// Close quits the program and waits until the terminal is restored. It is
// safe to call after the user has already quit.
func (w *Writer) Close() error {
	if w.program != nil {
		w.program.Send(tea.Quit())
	}
	return w.Wait()
}
