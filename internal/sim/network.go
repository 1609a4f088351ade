// Stand-in LoRaWAN network raising transmission and reception trace events
package sim

import (
	"math/rand"
	"time"

	"lorasim/internal/config"
)

// Packet is the handle passed to trace callbacks.
type Packet struct {
	uid    uint64
	Sender uint32
	SentAt time.Duration
}

// UID returns the packet identifier, unique within a run.
func (p Packet) UID() uint64 { return p.uid }

// Hooks are the trace sinks connected to the network.
type Hooks struct {
	OnTransmission func(p Packet, senderNodeID uint32)
	OnReception    func(p Packet, receiverNodeID uint32)
}

// Network holds end devices sending periodically and gateways receiving over a
// shared lossy channel. End devices get node ids 0..Devices-1, gateways follow.
type Network struct {
	cfg     *config.SimulationConfig
	sched   *Scheduler
	rand    *rand.Rand
	hooks   Hooks
	nextUID uint64
	devices []uint32
	gws     []uint32
}

// NewNetwork creates the nodes of cfg on sched.
func NewNetwork(cfg *config.SimulationConfig, sched *Scheduler) *Network {
	n := &Network{
		cfg:   cfg,
		sched: sched,
		rand:  rand.New(rand.NewSource(cfg.Scenario.Seed)),
	}
	id := uint32(0)
	for range cfg.Scenario.Devices {
		n.devices = append(n.devices, id)
		id++
	}
	for range cfg.Scenario.Gateways {
		n.gws = append(n.gws, id)
		id++
	}
	return n
}

// TraceConnect attaches the trace callbacks. Nil callbacks are skipped.
func (n *Network) TraceConnect(h Hooks) {
	n.hooks = h
}

// Devices returns the end device node ids.
func (n *Network) Devices() []uint32 { return n.devices }

// Gateways returns the gateway node ids.
func (n *Network) Gateways() []uint32 { return n.gws }

// Start schedules the first transmission of every end device at a random
// offset within one application period.
func (n *Network) Start() {
	period := n.cfg.Scenario.AppPeriod
	for _, dev := range n.devices {
		offset := time.Duration(n.rand.Int63n(int64(period)))
		n.sched.Schedule(offset, func() { n.send(dev) })
	}
}

func (n *Network) send(dev uint32) {
	p := Packet{uid: n.nextUID, Sender: dev, SentAt: n.sched.Now()}
	n.nextUID++
	if n.hooks.OnTransmission != nil {
		n.hooks.OnTransmission(p, dev)
	}
	for _, gw := range n.gws {
		if n.rand.Float64() < n.cfg.Channel.LossProbability {
			continue
		}
		n.sched.After(n.channelDelay(), func() {
			if n.hooks.OnReception != nil {
				n.hooks.OnReception(p, gw)
			}
		})
	}
	n.sched.After(n.cfg.Scenario.AppPeriod, func() { n.send(dev) })
}

func (n *Network) channelDelay() time.Duration {
	d := n.cfg.Channel.Delay
	if j := n.cfg.Channel.Jitter; j > 0 {
		d += time.Duration(n.rand.Int63n(int64(j)))
	}
	return d
}
