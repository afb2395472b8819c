package shell

import (
	"testing"
	"time"

	"github.com/spahuja/portfolio/internal/boot"
	"github.com/spahuja/portfolio/internal/eventloop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutInactivePaneIsInert(t *testing.T) {
	for _, booted := range []bool{false, true} {
		for _, transitioning := range []bool{false, true} {
			v := Layout(booted, transitioning)
			assert.NotEqual(t, v.Boot.Active, v.Content.Active)
			assert.Equal(t, !v.Boot.Active, v.Boot.Inert)
			assert.Equal(t, !v.Content.Active, v.Content.Inert)
		}
	}
}

func TestShellTransition(t *testing.T) {
	clock := eventloop.NewManual(time.Unix(0, 0))
	mounts := 0
	var states []State
	c := New(clock,
		WithContentMount(func() { mounts++ }),
		WithObserver(func(s State) { states = append(states, s) }),
	)

	st := c.State()
	assert.False(t, st.Booted)
	assert.True(t, c.BootMounted())
	assert.False(t, c.ContentMounted())
	require.NotNil(t, st.Boot)
	assert.True(t, st.View.Boot.Active)
	assert.True(t, st.View.Content.Inert)
	assert.False(t, st.View.Content.Mounted)

	require.True(t, c.StartBoot())
	clock.Advance(boot.TotalDuration())

	st = c.State()
	assert.True(t, st.Booted)
	assert.Nil(t, st.Boot)
	assert.False(t, c.BootMounted())
	assert.True(t, c.ContentMounted())
	assert.Equal(t, 1, mounts)
	assert.True(t, st.View.Transitioning)
	assert.True(t, st.View.Boot.Present)
	assert.True(t, st.View.Boot.Inert)
	assert.False(t, st.View.Content.Inert)

	clock.Advance(CrossfadeDuration)
	st = c.State()
	assert.False(t, st.View.Transitioning)
	assert.False(t, st.View.Boot.Present)

	// Nothing brings the boot console back.
	assert.False(t, c.StartBoot())
	clock.Advance(time.Minute)
	st = c.State()
	assert.True(t, st.Booted)
	assert.Nil(t, st.Boot)
	assert.Equal(t, 1, mounts)
	assert.Zero(t, clock.Pending())

	require.NotEmpty(t, states)
	last := states[len(states)-1]
	assert.True(t, last.Booted)
	assert.False(t, last.View.Transitioning)
}

func TestContentNotMountedBeforeBoot(t *testing.T) {
	clock := eventloop.NewManual(time.Unix(0, 0))
	mounts := 0
	c := New(clock, WithContentMount(func() { mounts++ }))

	clock.Advance(time.Minute)
	assert.Zero(t, mounts)
	assert.False(t, c.Booted())

	require.True(t, c.StartBoot())
	clock.Advance(boot.TotalDuration() - time.Millisecond)
	assert.Zero(t, mounts)
	assert.False(t, c.ContentMounted())
}

func TestCloseMidBoot(t *testing.T) {
	clock := eventloop.NewManual(time.Unix(0, 0))
	published := 0
	c := New(clock, WithObserver(func(State) { published++ }))

	require.True(t, c.StartBoot())
	clock.Advance(time.Second)
	c.Close()
	before := published

	assert.Zero(t, clock.Pending())
	clock.Advance(time.Minute)
	assert.Equal(t, before, published)
	assert.False(t, c.Booted())
	assert.False(t, c.StartBoot())
}

func TestCloseDuringCrossfade(t *testing.T) {
	clock := eventloop.NewManual(time.Unix(0, 0))
	c := New(clock)

	require.True(t, c.StartBoot())
	clock.Advance(boot.TotalDuration())
	require.True(t, c.State().View.Transitioning)

	c.Close()
	assert.Zero(t, clock.Pending())
	assert.False(t, c.ContentMounted())
}
