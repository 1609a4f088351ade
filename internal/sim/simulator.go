// Simulator driving the network until the configured stop time
package sim

import (
	"context"
	"time"

	"lorasim/internal/config"
	"lorasim/internal/logging"
)

// Simulator owns the scheduler and the network of one run.
type Simulator struct {
	cfg   *config.SimulationConfig
	sched *Scheduler
	net   *Network
}

// NewSimulator builds the network described by cfg.
func NewSimulator(cfg *config.SimulationConfig) *Simulator {
	sched := NewScheduler(cfg.Output.Pace)
	return &Simulator{cfg: cfg, sched: sched, net: NewNetwork(cfg, sched)}
}

// Clock exposes the simulated clock to trace adapters.
func (s *Simulator) Clock() *Scheduler { return s.sched }

// Network returns the simulated network.
func (s *Simulator) Network() *Network { return s.net }

// TraceConnect attaches transmission and reception callbacks.
func (s *Simulator) TraceConnect(h Hooks) { s.net.TraceConnect(h) }

// OnProgress calls fn every interval of simulated time.
func (s *Simulator) OnProgress(interval time.Duration, fn func(now time.Duration)) {
	s.sched.Every(interval, fn)
}

// Run executes the scenario until its stop time or until ctx is done.
func (s *Simulator) Run(ctx context.Context) error {
	log := logging.FromContext(ctx)
	log.Info("starting simulator",
		"devices", len(s.net.Devices()),
		"gateways", len(s.net.Gateways()),
		"app_period", s.cfg.Scenario.AppPeriod,
		"stop", s.cfg.Scenario.Duration,
	)
	s.net.Start()
	if err := s.sched.Run(ctx, s.cfg.Scenario.Duration); err != nil {
		log.Info("simulator interrupted", "sim_time", s.sched.Now(), "err", err)
		return err
	}
	log.Info("simulator stopped", "sim_time", s.sched.Now(), "undelivered_events", s.sched.Pending())
	return nil
}
