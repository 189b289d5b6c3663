package train

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScheduleWarmupAndDecay(t *testing.T) {
	s := NewSchedule(1.0, 10, 100)

	assert.Equal(t, 0.0, s.RateAt(0))
	assert.InDelta(t, 0.5, s.RateAt(5), 1e-12)
	assert.InDelta(t, 1.0, s.RateAt(10), 1e-12)

	// linear decay from the peak down to zero at the final step
	assert.InDelta(t, 0.5, s.RateAt(55), 1e-12)
	assert.Equal(t, 0.0, s.RateAt(100))
	assert.Equal(t, 0.0, s.RateAt(150))
}

func TestScheduleSingleBreakpoint(t *testing.T) {
	s := NewSchedule(2.0, 10, 100)
	prev := s.RateAt(0)
	direction := 1 // rising
	var flips int
	for step := 1; step <= 110; step++ {
		cur := s.RateAt(step)
		if cur < prev && direction == 1 {
			direction = -1
			flips++
		}
		assert.False(t, cur > prev && direction == -1, "rate rose again at step %d", step)
		prev = cur
	}
	assert.Equal(t, 1, flips)
}

func TestScheduleZeroWarmup(t *testing.T) {
	s := NewSchedule(1.0, 0, 10)
	assert.InDelta(t, 1.0, s.RateAt(0), 1e-12)
	assert.InDelta(t, 0.5, s.RateAt(5), 1e-12)
}

func TestScheduleStepAdvances(t *testing.T) {
	s := NewSchedule(1.0, 2, 10)
	assert.Equal(t, s.RateAt(0), s.Rate())
	s.Step()
	s.Step()
	assert.Equal(t, s.RateAt(2), s.Rate())
}

func TestScheduleWarmupLongerThanTotal(t *testing.T) {
	// warmup never completes; rate stays in the warmup segment, then the
	// decay segment clamps at zero
	s := NewSchedule(1.0, 200, 100)
	assert.InDelta(t, 0.25, s.RateAt(50), 1e-12)
	assert.Equal(t, 0.0, s.RateAt(200))
}
