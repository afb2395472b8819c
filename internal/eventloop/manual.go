package eventloop

import "time"

// Manual is a virtual-time Scheduler. Time only moves when Advance is called,
// and due callbacks run synchronously inside Advance in due-time order, ties
// broken by scheduling order. It is not safe for concurrent use.
type Manual struct {
	now     time.Time
	seq     uint64
	pending []*manualTimer
}

// NewManual returns a scheduler whose clock starts at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	return m.now
}

func (m *Manual) AfterFunc(d time.Duration, fn func()) Timer {
	if d < 0 {
		d = 0
	}
	m.seq++
	t := &manualTimer{m: m, at: m.now.Add(d), seq: m.seq, fn: fn}
	m.pending = append(m.pending, t)
	return t
}

// Advance moves the clock forward by d, running every callback that falls due
// on the way, including ones scheduled by earlier callbacks.
func (m *Manual) Advance(d time.Duration) {
	if d < 0 {
		d = 0
	}
	target := m.now.Add(d)
	for {
		t := m.nextDue(target)
		if t == nil {
			break
		}
		m.remove(t)
		m.now = t.at
		t.fired = true
		t.fn()
	}
	m.now = target
}

// Pending reports how many callbacks are scheduled and not yet run or stopped.
func (m *Manual) Pending() int {
	return len(m.pending)
}

func (m *Manual) nextDue(target time.Time) *manualTimer {
	var next *manualTimer
	for _, t := range m.pending {
		if t.at.After(target) {
			continue
		}
		if next == nil || t.at.Before(next.at) || (t.at.Equal(next.at) && t.seq < next.seq) {
			next = t
		}
	}
	return next
}

func (m *Manual) remove(t *manualTimer) {
	for i, p := range m.pending {
		if p == t {
			m.pending = append(m.pending[:i], m.pending[i+1:]...)
			return
		}
	}
}

type manualTimer struct {
	m       *Manual
	at      time.Time
	seq     uint64
	fn      func()
	fired   bool
	stopped bool
}

func (t *manualTimer) Stop() bool {
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	t.m.remove(t)
	return true
}
