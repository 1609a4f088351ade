package trace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"lorasim/internal/logging"
)

// ManualClock is a Clock advanced explicitly by the caller.
type ManualClock struct {
	now time.Duration
}

// Now returns the last time set.
func (c *ManualClock) Now() time.Duration { return c.now }

// Set moves the clock to t.
func (c *ManualClock) Set(t time.Duration) { c.now = t }

type packetHandle uint64

func (p packetHandle) UID() uint64 { return uint64(p) }

// Replay feeds the events of a JSONL trace to adapter in file order, setting
// clock to each event's time first. A speed > 0 sleeps between events by the
// simulated gap divided by speed; otherwise no delay is inserted.
func Replay(ctx context.Context, r io.Reader, clock *ManualClock, adapter *Adapter, speed float64) (int, error) {
	log := logging.FromContext(ctx)
	dec := json.NewDecoder(r)
	n := 0
	var prev time.Duration
	for {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		var ev Event
		if err := dec.Decode(&ev); err != nil {
			if errors.Is(err, io.EOF) {
				return n, nil
			}
			return n, fmt.Errorf("decode event %d: %w", n+1, err)
		}
		if n > 0 && ev.At < prev {
			log.Warn("trace time goes backwards", "event", n+1, "at", ev.At, "previous", prev)
		}
		if n > 0 && speed > 0 {
			if err := sleep(ctx, time.Duration(float64(ev.At-prev)/speed)); err != nil {
				return n, err
			}
		}

		clock.Set(ev.At)
		switch ev.Kind {
		case KindTransmission:
			adapter.OnTransmission(packetHandle(ev.PacketID), ev.NodeID)
		case KindReception:
			adapter.OnReception(packetHandle(ev.PacketID), ev.NodeID)
		default:
			return n, fmt.Errorf("event %d: unknown kind %q", n+1, ev.Kind)
		}
		prev = ev.At
		n++
	}
}

// ReplayFile opens path and replays its events.
func ReplayFile(ctx context.Context, path string, clock *ManualClock, adapter *Adapter, speed float64) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return Replay(ctx, f, clock, adapter, speed)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
