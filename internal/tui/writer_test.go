package tui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// chanProgram runs until it receives tea.QuitMsg.
type chanProgram struct{ msgs chan tea.Msg }

func (p *chanProgram) Send(msg tea.Msg) {
	select {
	case p.msgs <- msg:
	default:
	}
}

func (p *chanProgram) run() error {
	for msg := range p.msgs {
		if _, ok := msg.(tea.QuitMsg); ok {
			return nil
		}
	}
	return nil
}

func TestWriterCloseQuitsProgram(t *testing.T) {
	p := &chanProgram{msgs: make(chan tea.Msg, 8)}
	w := start(p, p.run)

	done := make(chan error, 1)
	go func() { done <- w.Close() }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("close: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("close did not return")
	}
	select {
	case <-w.Exited():
	default:
		t.Fatalf("exited channel not closed after Close")
	}
}

func TestWriterCloseAfterUserQuit(t *testing.T) {
	p := &fakeProgram{}
	quitErr := errors.New("tty lost")
	w := start(p, func() error { return quitErr })

	<-w.Exited()
	if err := w.Close(); !errors.Is(err, quitErr) {
		t.Fatalf("close err = %v, want %v", err, quitErr)
	}
	if err := w.Wait(); !errors.Is(err, quitErr) {
		t.Fatalf("wait err = %v, want %v", err, quitErr)
	}
}
