// Package shell owns the one-way switch from the boot console to the
// portfolio content.
package shell

import (
	"log/slog"
	"time"

	"github.com/spahuja/portfolio/internal/boot"
	"github.com/spahuja/portfolio/internal/eventloop"
)

// CrossfadeDuration is how long both panes share the layout after boot.
const CrossfadeDuration = 500 * time.Millisecond

// Pane describes one of the two views.
type Pane struct {
	// Mounted is true while the view's component exists.
	Mounted bool `json:"mounted"`
	// Present is true while the pane takes part in the layout.
	Present bool `json:"present"`
	// Active marks the primary, fully opaque view.
	Active bool `json:"active"`
	// Inert panes take no pointer or keyboard input.
	Inert bool `json:"inert"`
}

// View is the layout of both panes.
type View struct {
	Boot          Pane `json:"boot"`
	Content       Pane `json:"content"`
	Transitioning bool `json:"transitioning"`
}

// Layout computes the panes from the booted flag and whether the crossfade
// is still running. The pane that is not active is always inert.
func Layout(booted, transitioning bool) View {
	if !booted {
		return View{
			Boot:    Pane{Mounted: true, Present: true, Active: true},
			Content: Pane{Inert: true},
		}
	}
	return View{
		Boot:          Pane{Present: transitioning, Inert: true},
		Content:       Pane{Mounted: true, Present: true, Active: true},
		Transitioning: transitioning,
	}
}

// State is what the shell publishes to its renderer.
type State struct {
	Booted bool `json:"booted"`
	// Boot is nil once the boot console has been unmounted.
	Boot *boot.Snapshot `json:"boot,omitempty"`
	View View           `json:"view"`
}

type Option func(*Controller)

// WithObserver registers fn to receive the state after every change.
func WithObserver(fn func(State)) Option {
	return func(c *Controller) { c.observe = fn }
}

// WithContentMount registers fn to run once, when the content view mounts.
func WithContentMount(fn func()) Option {
	return func(c *Controller) { c.onMount = append(c.onMount, fn) }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// Controller holds the booted flag of one page session. Like the sequencer
// it mounts, it must only be used from the scheduler's goroutine.
type Controller struct {
	sched   eventloop.Scheduler
	observe func(State)
	onMount []func()
	log     *slog.Logger

	seq           *boot.Sequencer
	booted        bool
	transitioning bool
	fade          eventloop.Timer
	closed        bool
}

// New creates a controller with the boot console mounted.
func New(sched eventloop.Scheduler, opts ...Option) *Controller {
	c := &Controller{sched: sched, log: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	c.seq = boot.New(sched, c.bootComplete,
		boot.WithObserver(func(boot.Snapshot) { c.publish() }),
		boot.WithLogger(c.log),
	)
	return c
}

// StartBoot forwards the start action to the boot console. It is a no-op
// once the content has been revealed.
func (c *Controller) StartBoot() bool {
	if c.seq == nil || c.closed {
		return false
	}
	return c.seq.Start()
}

func (c *Controller) Booted() bool {
	return c.booted
}

// BootMounted reports whether the boot console still exists.
func (c *Controller) BootMounted() bool {
	return c.seq != nil
}

// ContentMounted reports whether the content view exists.
func (c *Controller) ContentMounted() bool {
	return c.booted && !c.closed
}

// State returns the current state.
func (c *Controller) State() State {
	st := State{Booted: c.booted, View: Layout(c.booted, c.transitioning)}
	if c.seq != nil {
		snap := c.seq.Snapshot()
		st.Boot = &snap
	}
	return st
}

// Close tears down the boot console and any pending crossfade.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.unmountBoot()
	if c.fade != nil {
		c.fade.Stop()
		c.fade = nil
	}
}

func (c *Controller) bootComplete() {
	if c.booted || c.closed {
		return
	}
	c.booted = true
	c.unmountBoot()
	c.log.Info("boot complete, revealing content")

	for _, fn := range c.onMount {
		fn()
	}

	c.transitioning = true
	c.fade = c.sched.AfterFunc(CrossfadeDuration, func() {
		if c.closed {
			return
		}
		c.transitioning = false
		c.fade = nil
		c.publish()
	})
	c.publish()
}

func (c *Controller) unmountBoot() {
	if c.seq == nil {
		return
	}
	c.seq.Close()
	c.seq = nil
}

func (c *Controller) publish() {
	if c.observe != nil && !c.closed {
		c.observe(c.State())
	}
}
