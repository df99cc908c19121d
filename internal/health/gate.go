// Package health runs the one-shot backend probe made when the service boots.
package health

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fueldesk/dashboard-service/internal/backend"

	"github.com/rs/zerolog"
)

type State string

const (
	StateChecking State = "checking"
	StateReady    State = "ready"
)

// Probe is one lightweight request against the backend.
type Probe func(ctx context.Context) error

// CountProbe counts rows of table without fetching them.
func CountProbe(client backend.Client, table string) Probe {
	return func(ctx context.Context) error {
		_, err := client.Count(ctx, table)
		return err
	}
}

type Status struct {
	State    State  `json:"state"`
	Degraded bool   `json:"degraded"`
	Error    string `json:"error,omitempty"`
}

// Gate moves from checking to ready exactly once. A failed probe still ends
// in ready; the failure is kept for display and the service runs degraded.
type Gate struct {
	probe   Probe
	timeout time.Duration
	log     zerolog.Logger

	once  sync.Once
	ready chan struct{}
	mu    sync.RWMutex
	state State
	err   error
}

func NewGate(probe Probe, timeout time.Duration, log zerolog.Logger) *Gate {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Gate{
		probe:   probe,
		timeout: timeout,
		log:     log,
		ready:   make(chan struct{}),
		state:   StateChecking,
	}
}

// Start runs the probe in the background. Calls after the first do nothing.
func (g *Gate) Start(ctx context.Context) {
	go g.Run(ctx)
}

// Run probes the backend once and returns the probe error, if any. Later
// calls wait for the first run and return its result.
func (g *Gate) Run(ctx context.Context) error {
	g.once.Do(func() {
		err := g.check(ctx)
		g.mu.Lock()
		g.state = StateReady
		g.err = err
		g.mu.Unlock()
		if err != nil {
			g.log.Warn().Err(err).Msg("backend unreachable at startup, continuing in degraded mode")
		} else {
			g.log.Info().Msg("backend connection verified")
		}
		close(g.ready)
	})
	<-g.ready
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.err
}

func (g *Gate) check(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("backend probe panicked: %v", r)
		}
	}()
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	return g.probe(ctx)
}

// Ready is closed once the gate leaves the checking state.
func (g *Gate) Ready() <-chan struct{} {
	return g.ready
}

func (g *Gate) Status() Status {
	g.mu.RLock()
	defer g.mu.RUnlock()
	st := Status{State: g.state}
	if g.err != nil {
		st.Degraded = true
		st.Error = backend.AsError(g.err).Message
	}
	return st
}
