// Package boot implements the simulated three-phase boot sequence shown
// before the portfolio content is revealed.
package boot

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// StepKey names a boot phase.
type StepKey string

const (
	Firmware StepKey = "firmware"
	Hardware StepKey = "hardware"
	App      StepKey = "app"
)

// Step is one fixed phase of the boot sequence.
type Step struct {
	Key      StepKey
	Label    string
	Duration time.Duration
}

const stepCount = 3

var steps = [stepCount]Step{
	{Key: Firmware, Label: "Firmware Module", Duration: 820 * time.Millisecond},
	{Key: Hardware, Label: "Hardware Interface", Duration: 880 * time.Millisecond},
	{Key: App, Label: "Application Layer", Duration: 760 * time.Millisecond},
}

// Steps returns the phases in boot order.
func Steps() []Step {
	out := make([]Step, stepCount)
	copy(out, steps[:])
	return out
}

// Timing of the animation. These are fixed so the readout stays legible.
const (
	PreRoll       = 110 * time.Millisecond
	TickInterval  = 55 * time.Millisecond
	PhasePause    = 140 * time.Millisecond
	CompleteDelay = 280 * time.Millisecond
)

// TotalDuration is the time from Start to the completion callback when ticks
// land exactly on schedule.
func TotalDuration() time.Duration {
	total := PreRoll
	for _, s := range steps {
		ticks := (s.Duration + TickInterval - 1) / TickInterval
		total += ticks*TickInterval + PhasePause
	}
	return total + CompleteDelay
}

// Status is the console status readout.
type Status string

const (
	Offline Status = "OFFLINE"
	Online  Status = "ONLINE"
)

// StepState is the per-phase display state.
type StepState string

const (
	StateOK      StepState = "OK"
	StateLoading StepState = "LOADING"
	StatePending StepState = "PENDING"
)

// StateOf derives the display state of phase idx from its percentage and the
// active phase index (-1 before the first phase starts).
func StateOf(idx int, pct float64, active int) StepState {
	switch {
	case pct >= 100:
		return StateOK
	case idx == active:
		return StateLoading
	case idx < active:
		return StateOK
	default:
		return StatePending
	}
}

// Progress holds the completion percentage of each phase, in boot order.
type Progress [stepCount]float64

// Of returns the percentage for key, or 0 for an unknown key.
func (p Progress) Of(key StepKey) float64 {
	if i := stepIndex(key); i >= 0 {
		return p[i]
	}
	return 0
}

// Overall is the unweighted mean of the three phases rounded half up.
func (p Progress) Overall() int {
	var sum float64
	for _, v := range p {
		sum += v
	}
	return int(math.Floor(sum/stepCount + 0.5))
}

func (p Progress) MarshalJSON() ([]byte, error) {
	m := make(map[StepKey]float64, stepCount)
	for i, s := range steps {
		m[s.Key] = p[i]
	}
	return json.Marshal(m)
}

func (p *Progress) UnmarshalJSON(b []byte) error {
	var m map[StepKey]float64
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	var out Progress
	for key, v := range m {
		i := stepIndex(key)
		if i < 0 {
			return fmt.Errorf("unknown boot step %q", key)
		}
		out[i] = v
	}
	*p = out
	return nil
}

func stepIndex(key StepKey) int {
	for i, s := range steps {
		if s.Key == key {
			return i
		}
	}
	return -1
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
