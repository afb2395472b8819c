// Package pages keeps one shell controller per page view and fans its state
// out to the HTTP layer.
package pages

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spahuja/portfolio/internal/eventloop"
	"github.com/spahuja/portfolio/internal/metrics"
	"github.com/spahuja/portfolio/internal/shell"
)

var (
	ErrPageNotFound = errors.New("page session not found")
	ErrNotBooted    = errors.New("content not mounted")
	ErrClosed       = errors.New("registry closed")
)

// Frame is one published state of a page session.
type Frame struct {
	Page string `json:"page"`
	shell.State
}

// Runner is the loop a registry schedules on.
type Runner interface {
	eventloop.Scheduler
	Do(ctx context.Context, fn func()) error
}

type Config struct {
	// TTL closes sessions that have had no request or subscriber for this long.
	TTL time.Duration
	// Buffer is the per-subscriber frame buffer.
	Buffer int
	Logger *slog.Logger
}

// Registry owns every page session. Controllers are only touched on the loop.
type Registry struct {
	loop Runner
	cfg  Config
	log  *slog.Logger

	mu     sync.Mutex
	pages  map[string]*page
	closed bool
}

// page fields other than lastSeen and subCount belong to the loop goroutine.
type page struct {
	id    string
	ctrl  *shell.Controller
	last  Frame
	subs  map[int]chan Frame
	next  int
	ended bool

	// guarded by Registry.mu
	lastSeen time.Time
	subCount int
}

func NewRegistry(loop Runner, cfg Config) *Registry {
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Minute
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = 16
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Registry{
		loop:  loop,
		cfg:   cfg,
		log:   log.With("component", "pages"),
		pages: make(map[string]*page),
	}
}

// Open creates a page session with its boot console mounted.
func (r *Registry) Open(ctx context.Context) (Frame, error) {
	if r.isClosed() {
		return Frame{}, ErrClosed
	}
	p := &page{id: uuid.NewString(), subs: make(map[int]chan Frame)}

	var frame Frame
	err := r.loop.Do(ctx, func() {
		p.ctrl = shell.New(r.loop,
			shell.WithLogger(r.log.With("page", p.id)),
			shell.WithObserver(func(st shell.State) { r.publish(p, st) }),
			shell.WithContentMount(func() { metrics.BootCompletions.Inc() }),
		)
		p.last = Frame{Page: p.id, State: p.ctrl.State()}
		frame = p.last
	})
	if err != nil {
		return Frame{}, fmt.Errorf("opening page: %w", err)
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		_ = r.loop.Do(ctx, p.end)
		return Frame{}, ErrClosed
	}
	p.lastSeen = r.loop.Now()
	r.pages[p.id] = p
	r.mu.Unlock()

	metrics.PagesActive.Inc()
	r.log.Debug("page opened", "page", p.id)
	return frame, nil
}

// Start forwards the boot action. started is false when the request was a
// no-op because a run was already underway or finished.
func (r *Registry) Start(ctx context.Context, id string) (frame Frame, started bool, err error) {
	p, err := r.lookup(id)
	if err != nil {
		return Frame{}, false, err
	}
	err = r.loop.Do(ctx, func() {
		if p.ended {
			return
		}
		started = p.ctrl.StartBoot()
		frame = Frame{Page: p.id, State: p.ctrl.State()}
	})
	if err != nil {
		return Frame{}, false, err
	}
	if started {
		metrics.BootRunsStarted.Inc()
		r.log.Info("boot started", "page", id)
	}
	return frame, started, nil
}

// State returns the current frame of a page.
func (r *Registry) State(ctx context.Context, id string) (Frame, error) {
	p, err := r.lookup(id)
	if err != nil {
		return Frame{}, err
	}
	var frame Frame
	err = r.loop.Do(ctx, func() { frame = p.last })
	return frame, err
}

// RequireContent returns ErrNotBooted until the page's content is mounted.
func (r *Registry) RequireContent(ctx context.Context, id string) error {
	p, err := r.lookup(id)
	if err != nil {
		return err
	}
	mounted := false
	if err := r.loop.Do(ctx, func() { mounted = !p.ended && p.ctrl.ContentMounted() }); err != nil {
		return err
	}
	if !mounted {
		return ErrNotBooted
	}
	return nil
}

// Subscribe returns a channel that first receives the current frame and then
// every later one. Slow subscribers only miss intermediate frames. The
// channel is closed when the page session ends or cancel is called.
func (r *Registry) Subscribe(ctx context.Context, id string) (<-chan Frame, func(), error) {
	p, err := r.lookup(id)
	if err != nil {
		return nil, nil, err
	}
	ch := make(chan Frame, r.cfg.Buffer)
	var key int
	err = r.loop.Do(ctx, func() {
		if p.ended {
			close(ch)
			return
		}
		key = p.next
		p.next++
		p.subs[key] = ch
		ch <- p.last
	})
	if err != nil {
		return nil, nil, err
	}

	r.mu.Lock()
	p.subCount++
	r.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			r.mu.Lock()
			p.subCount--
			p.lastSeen = r.loop.Now()
			r.mu.Unlock()
			_ = r.loop.Do(context.Background(), func() {
				if c, ok := p.subs[key]; ok {
					delete(p.subs, key)
					close(c)
				}
			})
		})
	}
	return ch, cancel, nil
}

// Close tears a page session down.
func (r *Registry) Close(ctx context.Context, id string) error {
	return r.closePage(ctx, id, "closed")
}

// Len returns the number of live page sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pages)
}

// Reap closes sessions idle for longer than the TTL and returns how many it closed.
func (r *Registry) Reap(ctx context.Context) int {
	cutoff := r.loop.Now().Add(-r.cfg.TTL)
	var idle []string
	r.mu.Lock()
	for id, p := range r.pages {
		if p.subCount == 0 && p.lastSeen.Before(cutoff) {
			idle = append(idle, id)
		}
	}
	r.mu.Unlock()

	n := 0
	for _, id := range idle {
		if err := r.closePage(ctx, id, "reaped"); err == nil {
			n++
		}
	}
	if n > 0 {
		r.log.Info("reaped idle pages", "count", n)
	}
	return n
}

// RunReaper calls Reap every interval until ctx is done.
func (r *Registry) RunReaper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Reap(ctx)
		}
	}
}

// Shutdown closes every session and rejects new ones.
func (r *Registry) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	ids := make([]string, 0, len(r.pages))
	for id := range r.pages {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	var errs []error
	for _, id := range ids {
		if err := r.closePage(ctx, id, "shutdown"); err != nil && !errors.Is(err, ErrPageNotFound) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Registry) closePage(ctx context.Context, id, reason string) error {
	p := r.forget(id)
	if p == nil {
		return ErrPageNotFound
	}
	metrics.PagesActive.Dec()

	abandoned := false
	err := r.loop.Do(ctx, func() {
		if p.ended {
			return
		}
		st := p.ctrl.State()
		abandoned = !st.Booted && st.Boot != nil && st.Boot.Booting
		p.end()
	})
	if err != nil {
		return fmt.Errorf("closing page %s: %w", id, err)
	}
	if abandoned {
		metrics.BootAbandoned.WithLabelValues(reason).Inc()
	}
	r.log.Debug("page closed", "page", id, "reason", reason, "abandoned", abandoned)
	return nil
}

// end tears the controller down and releases subscribers. Runs on the loop.
func (p *page) end() {
	if p.ended {
		return
	}
	p.ended = true
	p.ctrl.Close()
	for k, c := range p.subs {
		delete(p.subs, k)
		close(c)
	}
}

func (r *Registry) isClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

func (r *Registry) lookup(id string) (*page, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pages[id]
	if !ok {
		return nil, ErrPageNotFound
	}
	p.lastSeen = r.loop.Now()
	return p, nil
}

func (r *Registry) forget(id string) *page {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pages[id]
	if !ok {
		return nil
	}
	delete(r.pages, id)
	return p
}

// publish runs on the loop.
func (r *Registry) publish(p *page, st shell.State) {
	if p.ended {
		return
	}
	f := Frame{Page: p.id, State: st}
	p.last = f
	for _, c := range p.subs {
		select {
		case c <- f:
		default:
			// Drop the oldest frame to make room; the newest one always lands.
			select {
			case <-c:
			default:
			}
			select {
			case c <- f:
			default:
			}
		}
	}
}
