// Package connectivity reports whether the remote backend is reachable.
package connectivity

import (
	"context"
	"sync"
	"time"

	"github.com/julianstephens/glowup/internal/constants"
	"github.com/julianstephens/glowup/internal/logger"
)

// Monitor is an online/offline signal. Subscribers receive the new state on every
// transition; a slow subscriber only ever sees the latest state.
type Monitor interface {
	Online() bool
	Subscribe() (<-chan bool, func())
}

// Manual is a Monitor whose state is set explicitly
type Manual struct {
	mu     sync.Mutex
	online bool
	subs   map[int]chan bool
	next   int
}

func NewManual(online bool) *Manual {
	return &Manual{online: online, subs: make(map[int]chan bool)}
}

func (m *Manual) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Set changes the state and notifies subscribers when it differs from the current one
func (m *Manual) Set(online bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.online == online {
		return
	}
	m.online = online
	for _, ch := range m.subs {
		// keep only the latest state in the buffer
		select {
		case <-ch:
		default:
		}
		ch <- online
	}
}

func (m *Manual) Subscribe() (<-chan bool, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.next
	m.next++
	ch := make(chan bool, 1)
	m.subs[id] = ch
	return ch, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if _, ok := m.subs[id]; ok {
			delete(m.subs, id)
			close(ch)
		}
	}
}

// Pinger is implemented by remote backends
type Pinger interface {
	Ping(ctx context.Context) error
}

// Probe derives the state from periodic pings of a remote backend
type Probe struct {
	*Manual
	pinger   Pinger
	interval time.Duration
	timeout  time.Duration
}

func NewProbe(p Pinger, interval, timeout time.Duration) *Probe {
	if interval <= 0 {
		interval = constants.DefaultProbeInterval
	}
	if timeout <= 0 {
		timeout = constants.DefaultRemoteTimeout
	}
	return &Probe{Manual: NewManual(false), pinger: p, interval: interval, timeout: timeout}
}

// Check pings once and updates the state
func (p *Probe) Check(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	err := p.pinger.Ping(ctx)
	online := err == nil
	if online != p.Online() {
		logger.Info("connectivity changed", "online", online, "error", err)
	}
	p.Set(online)
	return online
}

// Run probes immediately and then every interval until ctx is done
func (p *Probe) Run(ctx context.Context) {
	p.Check(ctx)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Check(ctx)
		}
	}
}
