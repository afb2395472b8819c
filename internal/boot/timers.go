package boot

import "github.com/spahuja/portfolio/internal/eventloop"

// timerSet owns the pending timer handles of a boot run so that one call
// releases all of them. Handles leave the set when they fire.
type timerSet struct {
	next   int
	timers map[int]eventloop.Timer
}

// add stores t and returns the key its callback passes to done.
func (ts *timerSet) add(t eventloop.Timer) int {
	if ts.timers == nil {
		ts.timers = make(map[int]eventloop.Timer)
	}
	key := ts.next
	ts.next++
	ts.timers[key] = t
	return key
}

// done drops a handle whose callback has run.
func (ts *timerSet) done(key int) {
	delete(ts.timers, key)
}

// stopAll cancels every handle and returns how many were still pending.
func (ts *timerSet) stopAll() int {
	n := 0
	for _, t := range ts.timers {
		if t.Stop() {
			n++
		}
	}
	ts.timers = nil
	return n
}

func (ts *timerSet) len() int {
	return len(ts.timers)
}
