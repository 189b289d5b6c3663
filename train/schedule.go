package train

// Schedule is the deterministic learning-rate curve: linear warmup from zero
// to the peak over warmup steps, then linear decay to zero at the total step
// count. The total is fixed before training starts, so a run cut short by
// early stopping traverses a truncated prefix of the curve rather than a
// re-normalized one.
type Schedule struct {
	peak   float64
	warmup int
	total  int
	step   int
}

// NewSchedule builds a schedule for a fixed total step count.
func NewSchedule(peak float64, warmupSteps, totalSteps int) *Schedule {
	return &Schedule{peak: peak, warmup: warmupSteps, total: totalSteps}
}

// RateAt returns the learning rate at an arbitrary step.
func (s *Schedule) RateAt(step int) float64 {
	if step < s.warmup {
		return s.peak * float64(step) / float64(max(1, s.warmup))
	}
	remaining := float64(s.total-step) / float64(max(1, s.total-s.warmup))
	if remaining < 0 {
		remaining = 0
	}
	return s.peak * remaining
}

// Rate returns the learning rate at the current step.
func (s *Schedule) Rate() float64 {
	return s.RateAt(s.step)
}

// Step advances the schedule by one optimizer step.
func (s *Schedule) Step() {
	s.step++
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
