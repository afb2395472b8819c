package boot

import (
	"log/slog"
	"time"

	"github.com/spahuja/portfolio/internal/eventloop"
)

// StepView is the rendered form of one phase.
type StepView struct {
	Key     StepKey   `json:"key"`
	Label   string    `json:"label"`
	Percent int       `json:"percent"`
	State   StepState `json:"state"`
}

// Snapshot is a copy of the sequencer state for rendering.
type Snapshot struct {
	Status    Status     `json:"status"`
	Booting   bool       `json:"booting"`
	Active    int        `json:"active"`
	Progress  Progress   `json:"progress"`
	Overall   int        `json:"overall"`
	Steps     []StepView `json:"steps"`
	Completed bool       `json:"completed"`
}

// CanStart reports whether the start control should be enabled.
func (s Snapshot) CanStart() bool {
	return !s.Booting
}

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithObserver registers fn to receive a snapshot after every change.
func WithObserver(fn func(Snapshot)) Option {
	return func(s *Sequencer) { s.observe = fn }
}

// WithLogger sets the logger used for lifecycle messages.
func WithLogger(l *slog.Logger) Option {
	return func(s *Sequencer) { s.log = l }
}

// Sequencer drives one boot console. All methods, and every callback it
// schedules, must run on the goroutine that owns sched.
type Sequencer struct {
	sched      eventloop.Scheduler
	onComplete func()
	observe    func(Snapshot)
	log        *slog.Logger

	timers    timerSet
	progress  Progress
	active    int
	status    Status
	booting   bool
	completed bool
	closed    bool
}

// New mounts a sequencer. onComplete runs at most once, after the last phase
// has finished.
func New(sched eventloop.Scheduler, onComplete func(), opts ...Option) *Sequencer {
	s := &Sequencer{
		sched:      sched,
		onComplete: onComplete,
		active:     -1,
		status:     Offline,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins a boot run. It returns false, changing nothing, when a run
// has already been started or the sequencer is closed.
func (s *Sequencer) Start() bool {
	if s.closed || s.booting {
		return false
	}
	s.booting = true
	s.status = Offline
	s.active = -1
	s.progress = Progress{}
	s.log.Debug("boot run started")
	s.publish()

	s.schedule(PreRoll, func() { s.runStep(0) })
	return true
}

// Close cancels all pending timers. After Close no progress changes are
// published and the completion callback never runs.
func (s *Sequencer) Close() {
	if s.closed {
		return
	}
	s.closed = true
	if n := s.timers.stopAll(); n > 0 {
		s.log.Debug("boot sequencer closed mid-run", "cancelled_timers", n, "active", s.active)
	}
}

// Closed reports whether Close has been called.
func (s *Sequencer) Closed() bool {
	return s.closed
}

// Snapshot returns the current state.
func (s *Sequencer) Snapshot() Snapshot {
	views := make([]StepView, stepCount)
	for i, st := range steps {
		views[i] = StepView{
			Key:     st.Key,
			Label:   st.Label,
			Percent: int(s.progress[i] + 0.5),
			State:   StateOf(i, s.progress[i], s.active),
		}
	}
	return Snapshot{
		Status:    s.status,
		Booting:   s.booting,
		Active:    s.active,
		Progress:  s.progress,
		Overall:   s.progress.Overall(),
		Steps:     views,
		Completed: s.completed,
	}
}

func (s *Sequencer) runStep(idx int) {
	if idx >= stepCount {
		s.status = Online
		s.log.Debug("boot run online")
		s.publish()
		s.schedule(CompleteDelay, s.complete)
		return
	}

	step := steps[idx]
	s.active = idx
	start := s.sched.Now()

	var tick func()
	tick = func() {
		elapsed := s.sched.Now().Sub(start)
		pct := clamp(float64(elapsed)/float64(step.Duration)*100, 0, 100)
		// Ticks never move a phase backwards.
		if pct > s.progress[idx] {
			s.progress[idx] = pct
		}
		s.publish()

		if s.progress[idx] < 100 {
			s.schedule(TickInterval, tick)
			return
		}
		s.schedule(PhasePause, func() { s.runStep(idx + 1) })
	}
	tick()
}

func (s *Sequencer) complete() {
	if s.completed || s.closed {
		return
	}
	s.completed = true
	s.log.Debug("boot run complete")
	s.publish()
	if s.onComplete != nil {
		s.onComplete()
	}
}

func (s *Sequencer) schedule(d time.Duration, fn func()) {
	if s.closed {
		return
	}
	// Callbacks run on the scheduler's goroutine, so key is set before any fires.
	var key int
	key = s.timers.add(s.sched.AfterFunc(d, func() {
		s.timers.done(key)
		if s.closed {
			return
		}
		fn()
	}))
}

func (s *Sequencer) publish() {
	if s.observe != nil && !s.closed {
		s.observe(s.Snapshot())
	}
}
