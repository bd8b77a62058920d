// Package startup performs the one-time fetches the map needs before time
// navigation can be wired: each navigable overlay's capabilities document and
// the wind vectors.
package startup

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Zachdehooge/weather-map/internal/config"
	"github.com/Zachdehooge/weather-map/internal/metrics"
	"github.com/Zachdehooge/weather-map/internal/overlay"
	"github.com/Zachdehooge/weather-map/internal/timesteps"
	"github.com/Zachdehooge/weather-map/internal/wind"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"
)

type Status string

const (
	Loading  Status = "loading"
	Ready    Status = "ready"
	Degraded Status = "degraded"
)

// Snapshot is the immutable result of a load. Steps holds each navigable
// overlay's sequence, already in the overlay's orientation.
type Snapshot struct {
	Steps  map[string]timesteps.Sequence
	Wind   wind.Field
	Errors map[string]string
}

// StepsFor returns name's sequence, empty when it was never loaded.
func (s *Snapshot) StepsFor(name string) timesteps.Sequence {
	if seq, ok := s.Steps[name]; ok {
		return seq
	}
	return timesteps.Sequence{}
}

type capabilitiesFetcher interface {
	Fetch(ctx context.Context, baseURL string) (timesteps.Sequence, error)
}

type windFetcher interface {
	Fetch(ctx context.Context) (wind.Field, error)
}

type Loader struct {
	catalog  *config.Catalog
	registry capabilitiesFetcher
	wind     windFetcher
	timeout  time.Duration
	metrics  *metrics.FetchMetrics
	clock    clockwork.Clock

	mu       sync.RWMutex
	status   Status
	snapshot *Snapshot
	done     chan struct{}
}

type Option func(*Loader)

func WithMetrics(m *metrics.FetchMetrics) Option {
	return func(l *Loader) { l.metrics = m }
}

func WithClock(c clockwork.Clock) Option {
	return func(l *Loader) { l.clock = c }
}

// NewLoader builds a loader. wf may be nil when the catalog has no velocity
// overlay.
func NewLoader(catalog *config.Catalog, registry capabilitiesFetcher, wf windFetcher, timeout time.Duration, opts ...Option) *Loader {
	l := &Loader{
		catalog:  catalog,
		registry: registry,
		wind:     wf,
		timeout:  timeout,
		clock:    clockwork.NewRealClock(),
		status:   Loading,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run issues every fetch concurrently and waits for all of them. A failing
// source is logged, recorded in Errors and left empty; Run itself never
// fails. It must be called once.
func (l *Loader) Run(ctx context.Context) *Snapshot {
	snap := &Snapshot{
		Steps:  make(map[string]timesteps.Sequence),
		Errors: make(map[string]string),
	}
	var mu sync.Mutex

	var g errgroup.Group
	for _, o := range l.catalog.Navigable() {
		o := o
		g.Go(func() error {
			seq := timesteps.Sequence{}
			err := l.guard(ctx, o.Name, func(ctx context.Context) error {
				fetched, err := l.registry.Fetch(ctx, o.WMSURL)
				if err != nil {
					return err
				}
				if overlay.ParseOrientation(o.Orientation) == overlay.NewestFirst {
					fetched = fetched.Reversed()
				}
				seq = fetched
				return nil
			})

			if l.metrics != nil {
				l.metrics.TimeSteps.WithLabelValues(o.Name).Set(float64(seq.Len()))
			}
			if err == nil && seq.Len() == 0 {
				slog.Warn("Capabilities carry no time dimension", "component", "startup", "overlay", o.Name)
			}

			mu.Lock()
			defer mu.Unlock()
			snap.Steps[o.Name] = seq
			if err != nil {
				snap.Errors[o.Name] = err.Error()
				return fmt.Errorf("%s: %w", o.Name, err)
			}
			return nil
		})
	}

	if velocity, ok := l.catalog.Velocity(); ok && l.wind != nil {
		g.Go(func() error {
			var field wind.Field
			err := l.guard(ctx, velocity.Name, func(ctx context.Context) error {
				f, err := l.wind.Fetch(ctx)
				field = f
				return err
			})

			mu.Lock()
			defer mu.Unlock()
			snap.Wind = field
			if err != nil {
				snap.Errors[velocity.Name] = err.Error()
				return fmt.Errorf("%s: %w", velocity.Name, err)
			}
			return nil
		})
	}

	// The group has no shared context, so one failure never cancels the
	// other fetches; Wait still reports the first of them.
	if err := g.Wait(); err != nil {
		slog.Warn("Startup continues without some sources", "component", "startup", "first_error", err)
	}

	status := Ready
	if len(snap.Errors) > 0 {
		status = Degraded
	}

	l.mu.Lock()
	l.status = status
	l.snapshot = snap
	l.mu.Unlock()
	close(l.done)

	slog.Info("Startup fetches finished", "component", "startup", "status", status, "failures", len(snap.Errors))
	return snap
}

// guard runs fn under the fetch timeout, turns a panic into an error and
// records the outcome.
func (l *Loader) guard(ctx context.Context, source string, fn func(context.Context) error) (err error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	start := l.clock.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during fetch: %v", r)
		}

		result := "ok"
		if err != nil {
			result = "error"
			slog.Error("Startup fetch failed", "component", "startup", "source", source, "error", err)
		}
		if l.metrics != nil {
			l.metrics.Results.WithLabelValues(source, result).Inc()
			l.metrics.Duration.WithLabelValues(source).Observe(l.clock.Since(start).Seconds())
		}
	}()

	return fn(ctx)
}

// Status reports the load state and, once finished, per-source errors.
func (l *Loader) Status() (Status, map[string]string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.snapshot == nil {
		return l.status, nil
	}
	return l.status, l.snapshot.Errors
}

// Snapshot returns the load result, or false while loading.
func (l *Loader) Snapshot() (*Snapshot, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snapshot, l.snapshot != nil
}

// Done is closed when Run finishes.
func (l *Loader) Done() <-chan struct{} {
	return l.done
}
