package eventloop

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManualRunsInDueOrder(t *testing.T) {
	m := NewManual(time.Unix(0, 0))

	var got []string
	m.AfterFunc(30*time.Millisecond, func() { got = append(got, "c") })
	m.AfterFunc(10*time.Millisecond, func() { got = append(got, "a") })
	m.AfterFunc(10*time.Millisecond, func() { got = append(got, "b") })

	m.Advance(20 * time.Millisecond)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 1, m.Pending())

	m.Advance(10 * time.Millisecond)
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, 0, m.Pending())
}

func TestManualChainedCallbacks(t *testing.T) {
	start := time.Unix(0, 0)
	m := NewManual(start)

	var at []time.Duration
	var tick func()
	tick = func() {
		at = append(at, m.Now().Sub(start))
		if len(at) < 4 {
			m.AfterFunc(5*time.Millisecond, tick)
		}
	}
	m.AfterFunc(0, tick)
	m.Advance(time.Second)

	assert.Equal(t, []time.Duration{0, 5 * time.Millisecond, 10 * time.Millisecond, 15 * time.Millisecond}, at)
	assert.Equal(t, start.Add(time.Second), m.Now())
}

func TestManualStop(t *testing.T) {
	m := NewManual(time.Unix(0, 0))

	ran := false
	tm := m.AfterFunc(time.Millisecond, func() { ran = true })
	assert.True(t, tm.Stop())
	assert.False(t, tm.Stop())
	m.Advance(time.Second)
	assert.False(t, ran)

	done := m.AfterFunc(0, func() {})
	m.Advance(0)
	assert.False(t, done.Stop())
}
