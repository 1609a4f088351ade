package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"lorasim/internal/metrics"
)

func encodeEvents(t *testing.T, events []Event) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, ev := range events {
		if err := enc.Encode(ev); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	return &buf
}

func TestReplay(t *testing.T) {
	events := []Event{
		{Kind: KindTransmission, PacketID: 1, At: 0},
		{Kind: KindTransmission, PacketID: 2, At: time.Second},
		{Kind: KindReception, PacketID: 1, At: 200 * time.Millisecond},
		{Kind: KindTransmission, PacketID: 3, At: 2 * time.Second},
		{Kind: KindReception, PacketID: 3, At: 2300 * time.Millisecond},
	}
	col := metrics.NewCollector(quietLogger())
	clock := &ManualClock{}
	n, err := Replay(context.Background(), encodeEvents(t, events), clock, NewAdapter("r", clock, col), 0)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if n != len(events) {
		t.Fatalf("replayed %d events, want %d", n, len(events))
	}
	s := col.Summary("r")
	if s.Sent != 3 || s.Received != 2 || s.AverageDelay != 250*time.Millisecond {
		t.Fatalf("summary = %+v", s)
	}
}

func TestReplayUnknownKind(t *testing.T) {
	col := metrics.NewCollector(quietLogger())
	clock := &ManualClock{}
	_, err := Replay(context.Background(), strings.NewReader(`{"kind":"ack","packet_id":1}`), clock, NewAdapter("r", clock, col), 0)
	if err == nil || !strings.Contains(err.Error(), "unknown kind") {
		t.Fatalf("expected unknown kind error, got %v", err)
	}
}

func TestReplayCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	col := metrics.NewCollector(quietLogger())
	clock := &ManualClock{}
	buf := encodeEvents(t, []Event{{Kind: KindTransmission, PacketID: 1}})
	if _, err := Replay(ctx, buf, clock, NewAdapter("r", clock, col), 0); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestFileRecorderRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.jsonl")
	rec, err := NewFileRecorder(path)
	if err != nil {
		t.Fatalf("NewFileRecorder: %v", err)
	}
	clock := &ManualClock{}
	a := NewAdapter("run-9", clock, metrics.NewCollector(quietLogger()), WithRecorder(rec))
	a.OnTransmission(packetHandle(4), 2)
	clock.Set(time.Second)
	a.OnReception(packetHandle(4), 50)
	if err := rec.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), `"run_id":"run-9"`) {
		t.Fatalf("run id missing from trace: %s", data)
	}

	col := metrics.NewCollector(quietLogger())
	replayClock := &ManualClock{}
	if _, err := ReplayFile(context.Background(), path, replayClock, NewAdapter("run-9", replayClock, col), 0); err != nil {
		t.Fatalf("ReplayFile: %v", err)
	}
	if d := col.Summary("").Delays; len(d) != 1 || d[0] != time.Second {
		t.Fatalf("delays = %v, want [1s]", d)
	}
}
