package train

import (
	"math"

	"github.com/officekit/intent/encoder"
)

const (
	adamBeta1 = 0.9
	adamBeta2 = 0.999
	adamEps   = 1e-8

	// MaxGradNorm bounds the effect of outlier batches: gradients are clipped
	// to this global norm before every optimizer step.
	MaxGradNorm = 1.0
)

// AdamW updates parameters with adaptive per-parameter moment estimates and
// decoupled weight decay. The learning rate is read from the schedule at each
// step. Not safe for concurrent use; the trainer is its sole driver.
type AdamW struct {
	params      []*encoder.Parameter
	sched       *Schedule
	weightDecay float64

	m    [][]float64
	v    [][]float64
	step int
}

// NewAdamW wraps the given parameters. Moment state is allocated once here,
// keyed by parameter position, so the parameter set must not change for the
// lifetime of the optimizer.
func NewAdamW(params []*encoder.Parameter, sched *Schedule, weightDecay float64) *AdamW {
	m := make([][]float64, len(params))
	v := make([][]float64, len(params))
	for i, p := range params {
		m[i] = make([]float64, len(p.Data))
		v[i] = make([]float64, len(p.Data))
	}
	return &AdamW{params: params, sched: sched, weightDecay: weightDecay, m: m, v: v}
}

// ZeroGrad clears all accumulated gradients.
func (o *AdamW) ZeroGrad() {
	for _, p := range o.params {
		for i := range p.Grad {
			p.Grad[i] = 0
		}
	}
}

// Step applies one update using the current schedule rate, then advances the
// bias-correction step counter. The schedule itself is advanced separately by
// the trainer.
func (o *AdamW) Step() {
	o.step++
	lr := o.sched.Rate()
	c1 := 1 - math.Pow(adamBeta1, float64(o.step))
	c2 := 1 - math.Pow(adamBeta2, float64(o.step))
	for i, p := range o.params {
		for j := range p.Data {
			g := p.Grad[j]
			o.m[i][j] = adamBeta1*o.m[i][j] + (1-adamBeta1)*g
			o.v[i][j] = adamBeta2*o.v[i][j] + (1-adamBeta2)*g*g
			mHat := o.m[i][j] / c1
			vHat := o.v[i][j] / c2
			p.Data[j] -= lr * (mHat/(math.Sqrt(vHat)+adamEps) + o.weightDecay*p.Data[j])
		}
	}
}

// ClipGradNorm scales all gradients so their global L2 norm does not exceed
// maxNorm. It returns the norm before clipping.
func ClipGradNorm(params []*encoder.Parameter, maxNorm float64) float64 {
	var sq float64
	for _, p := range params {
		for _, g := range p.Grad {
			sq += g * g
		}
	}
	norm := math.Sqrt(sq)
	if norm > maxNorm {
		scale := maxNorm / (norm + 1e-6)
		for _, p := range params {
			for i := range p.Grad {
				p.Grad[i] *= scale
			}
		}
	}
	return norm
}
