package trace

import (
	"log/slog"
	"time"

	"lorasim/internal/metrics"
)

// Clock supplies the current simulated time.
type Clock interface {
	Now() time.Duration
}

// Packet is the handle an event source passes to its trace callbacks.
type Packet interface {
	UID() uint64
}

// Sink receives correlated events; *metrics.Collector implements it.
type Sink interface {
	Transmitted(id metrics.PacketID, at time.Duration) metrics.Transition
	Received(id metrics.PacketID, at time.Duration) metrics.Transition
}

// Recorder persists raw events, e.g. to a JSONL trace file.
type Recorder interface {
	Record(Event) error
}

// Observer is notified of every transition produced by the sink.
type Observer interface {
	Observe(metrics.Transition)
}

// Adapter translates transmission and reception callbacks into sink calls.
type Adapter struct {
	runID     string
	clock     Clock
	sink      Sink
	recorder  Recorder
	observers []Observer
	log       *slog.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithRecorder records every raw event before it reaches the sink.
func WithRecorder(r Recorder) Option {
	return func(a *Adapter) { a.recorder = r }
}

// WithObserver adds an observer; nil observers are ignored.
func WithObserver(o Observer) Option {
	return func(a *Adapter) {
		if o != nil {
			a.observers = append(a.observers, o)
		}
	}
}

// WithLogger sets the logger used for recorder failures.
func WithLogger(l *slog.Logger) Option {
	return func(a *Adapter) { a.log = l }
}

// NewAdapter binds clock and sink for the run identified by runID.
func NewAdapter(runID string, clock Clock, sink Sink, opts ...Option) *Adapter {
	a := &Adapter{runID: runID, clock: clock, sink: sink, log: slog.Default()}
	for _, o := range opts {
		o(a)
	}
	return a
}

// OnTransmission handles a packet leaving sender.
func (a *Adapter) OnTransmission(p Packet, sender uint32) {
	a.handle(KindTransmission, p, sender)
}

// OnReception handles a packet arriving at receiver.
func (a *Adapter) OnReception(p Packet, receiver uint32) {
	a.handle(KindReception, p, receiver)
}

func (a *Adapter) handle(kind Kind, p Packet, node uint32) {
	ev := Event{RunID: a.runID, Kind: kind, PacketID: p.UID(), NodeID: node, At: a.clock.Now()}
	if a.recorder != nil {
		if err := a.recorder.Record(ev); err != nil {
			a.log.Error("trace record failed", "kind", kind, "packet_id", ev.PacketID, "err", err)
		}
	}

	var tr metrics.Transition
	if kind == KindTransmission {
		tr = a.sink.Transmitted(metrics.PacketID(ev.PacketID), ev.At)
	} else {
		tr = a.sink.Received(metrics.PacketID(ev.PacketID), ev.At)
	}
	for _, o := range a.observers {
		o.Observe(tr)
	}
}
