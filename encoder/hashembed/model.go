// Package hashembed is an embedding-bag text classifier over a hashed
// vocabulary: token hash -> embedding row, masked mean pool, linear head.
// It satisfies the encoder capability set with hand-derived gradients, so the
// whole pipeline trains without any native ML runtime.
package hashembed

import (
	"math"
	"math/rand"

	"github.com/officekit/intent/encoder"
	"github.com/officekit/intent/errors"
)

// Weight matrix names used in snapshots.
const (
	weightsEmbeddings = "embeddings"
	weightsClassifier = "classifier_w"
	weightsBias       = "classifier_b"
)

// Config fixes the architecture of a model. It is persisted alongside the
// weights; a snapshot only restores into a model with the same config.
type Config struct {
	VocabSize  int
	EmbedDim   int
	NumClasses int
	MaxLength  int
}

// Validate checks the architecture parameters.
func (c Config) Validate() error {
	if c.VocabSize < 2 {
		return errors.Errorf("vocab size must be at least 2, got %d", c.VocabSize)
	}
	if c.EmbedDim < 1 {
		return errors.Errorf("embedding dim must be positive, got %d", c.EmbedDim)
	}
	if c.NumClasses < 2 {
		return errors.Errorf("need at least 2 classes, got %d", c.NumClasses)
	}
	if c.MaxLength < 1 {
		return errors.Errorf("max length must be positive, got %d", c.MaxLength)
	}
	return nil
}

// forwardState holds the activations retained by a labeled forward pass for
// the following Backward call.
type forwardState struct {
	batch  encoder.Batch
	pooled [][]float64
	counts []int
	probs  [][]float64
}

// Model is a trainable hashed embedding-bag classifier.
type Model struct {
	cfg Config

	emb  [][]float64 // VocabSize x EmbedDim, row padID stays zero
	w    [][]float64 // NumClasses x EmbedDim
	bias []float64   // NumClasses

	gEmb  [][]float64
	gW    [][]float64
	gBias []float64

	last *forwardState
}

// New initializes a model with small random weights.
func New(cfg Config, seed int64) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(seed))
	m := &Model{
		cfg:   cfg,
		emb:   randomMatrix(rng, cfg.VocabSize, cfg.EmbedDim, 0.08),
		w:     randomMatrix(rng, cfg.NumClasses, cfg.EmbedDim, 0.08),
		bias:  make([]float64, cfg.NumClasses),
		gEmb:  zeroMatrix(cfg.VocabSize, cfg.EmbedDim),
		gW:    zeroMatrix(cfg.NumClasses, cfg.EmbedDim),
		gBias: make([]float64, cfg.NumClasses),
	}
	// padding contributes nothing
	for j := range m.emb[padID] {
		m.emb[padID][j] = 0
	}
	return m, nil
}

// Config returns the architecture of the model.
func (m *Model) Config() Config {
	return m.cfg
}

// NumClasses returns the size of the output distribution.
func (m *Model) NumClasses() int {
	return m.cfg.NumClasses
}

// Forward runs the classifier on a batch. With label ids present the loss is
// the mean cross-entropy and activations are retained for Backward; without
// labels the pass is inference-only.
func (m *Model) Forward(b encoder.Batch) (encoder.Output, error) {
	if b.Size() == 0 {
		return encoder.Output{}, errors.Errorf("empty batch")
	}
	if len(b.AttentionMask) != b.Size() {
		return encoder.Output{}, errors.Errorf("attention mask rows (%d) != token id rows (%d)", len(b.AttentionMask), b.Size())
	}
	withLabels := b.LabelIDs != nil
	if withLabels && len(b.LabelIDs) != b.Size() {
		return encoder.Output{}, errors.Errorf("label ids (%d) != token id rows (%d)", len(b.LabelIDs), b.Size())
	}

	logits := make([][]float64, b.Size())
	pooled := make([][]float64, b.Size())
	counts := make([]int, b.Size())
	probs := make([][]float64, b.Size())

	var totalLoss float64
	for i := range b.TokenIDs {
		h, n := m.pool(b.TokenIDs[i], b.AttentionMask[i])
		pooled[i], counts[i] = h, n

		row := make([]float64, m.cfg.NumClasses)
		for c := 0; c < m.cfg.NumClasses; c++ {
			row[c] = dot(m.w[c], h) + m.bias[c]
		}
		logits[i] = row

		if withLabels {
			label := b.LabelIDs[i]
			if label < 0 || label >= m.cfg.NumClasses {
				return encoder.Output{}, errors.Errorf("label id %d out of range [0, %d)", label, m.cfg.NumClasses)
			}
			p := softmax(row)
			probs[i] = p
			totalLoss -= math.Log(p[label])
		}
	}

	out := encoder.Output{Logits: logits}
	if withLabels {
		out.Loss = totalLoss / float64(b.Size())
		m.last = &forwardState{batch: b, pooled: pooled, counts: counts, probs: probs}
	} else {
		m.last = nil
	}
	return out, nil
}

// Backward accumulates parameter gradients from the most recent labeled
// forward pass.
func (m *Model) Backward() error {
	st := m.last
	if st == nil {
		return errors.Errorf("no retained forward state: Backward requires a labeled Forward first")
	}
	m.last = nil

	invB := 1 / float64(st.batch.Size())
	dim := m.cfg.EmbedDim
	for i := range st.batch.TokenIDs {
		// d(cross-entropy)/d(logit) = softmax - onehot, averaged over the batch
		dLogits := append([]float64(nil), st.probs[i]...)
		dLogits[st.batch.LabelIDs[i]]--
		for c := range dLogits {
			dLogits[c] *= invB
		}

		h := st.pooled[i]
		dPooled := make([]float64, dim)
		for c := 0; c < m.cfg.NumClasses; c++ {
			m.gBias[c] += dLogits[c]
			for j := 0; j < dim; j++ {
				m.gW[c][j] += dLogits[c] * h[j]
				dPooled[j] += m.w[c][j] * dLogits[c]
			}
		}

		if st.counts[i] == 0 {
			continue
		}
		invN := 1 / float64(st.counts[i])
		for pos, id := range st.batch.TokenIDs[i] {
			if st.batch.AttentionMask[i][pos] == 0 || id == padID {
				continue
			}
			for j := 0; j < dim; j++ {
				m.gEmb[id][j] += dPooled[j] * invN
			}
		}
	}
	return nil
}

// Parameters enumerates the trainable weight rows. The returned slices alias
// model storage, so optimizer writes apply directly.
func (m *Model) Parameters() []*encoder.Parameter {
	params := make([]*encoder.Parameter, 0, m.cfg.VocabSize+m.cfg.NumClasses)
	// row padID is excluded: padding must stay a zero vector
	for i := 1; i < m.cfg.VocabSize; i++ {
		params = append(params, &encoder.Parameter{Name: "emb", Data: m.emb[i], Grad: m.gEmb[i]})
	}
	for c := 0; c < m.cfg.NumClasses; c++ {
		params = append(params, &encoder.Parameter{Name: "w", Data: m.w[c], Grad: m.gW[c]})
	}
	params = append(params, &encoder.Parameter{Name: "b", Data: m.bias, Grad: m.gBias})
	return params
}

// Snapshot returns a deep copy of the current weights.
func (m *Model) Snapshot() encoder.Weights {
	return encoder.Weights{
		weightsEmbeddings: m.emb,
		weightsClassifier: m.w,
		weightsBias:       {m.bias},
	}.Clone()
}

// Restore replaces the current weights with a snapshot taken from a model
// with the same architecture. Parameter slices handed out before the call no
// longer alias the live weights afterwards.
func (m *Model) Restore(w encoder.Weights) error {
	emb, ok := w[weightsEmbeddings]
	if !ok || len(emb) != m.cfg.VocabSize || len(emb) > 0 && len(emb[0]) != m.cfg.EmbedDim {
		return errors.Errorf("snapshot embeddings do not match architecture %dx%d", m.cfg.VocabSize, m.cfg.EmbedDim)
	}
	cls, ok := w[weightsClassifier]
	if !ok || len(cls) != m.cfg.NumClasses || len(cls) > 0 && len(cls[0]) != m.cfg.EmbedDim {
		return errors.Errorf("snapshot classifier does not match architecture %dx%d", m.cfg.NumClasses, m.cfg.EmbedDim)
	}
	bias, ok := w[weightsBias]
	if !ok || len(bias) != 1 || len(bias[0]) != m.cfg.NumClasses {
		return errors.Errorf("snapshot bias does not match architecture 1x%d", m.cfg.NumClasses)
	}

	restored := w.Clone()
	m.emb = restored[weightsEmbeddings]
	m.w = restored[weightsClassifier]
	m.bias = restored[weightsBias][0]
	m.gEmb = zeroMatrix(m.cfg.VocabSize, m.cfg.EmbedDim)
	m.gW = zeroMatrix(m.cfg.NumClasses, m.cfg.EmbedDim)
	m.gBias = make([]float64, m.cfg.NumClasses)
	m.last = nil
	return nil
}

// pool mean-pools embedding rows over the unmasked positions.
func (m *Model) pool(tokenIDs, mask []int) ([]float64, int) {
	h := make([]float64, m.cfg.EmbedDim)
	var n int
	for pos, id := range tokenIDs {
		if mask[pos] == 0 || id == padID {
			continue
		}
		for j, v := range m.emb[id] {
			h[j] += v
		}
		n++
	}
	if n > 0 {
		inv := 1 / float64(n)
		for j := range h {
			h[j] *= inv
		}
	}
	return h, n
}

func softmax(logits []float64) []float64 {
	max := logits[0]
	for _, l := range logits[1:] {
		if l > max {
			max = l
		}
	}
	exps := make([]float64, len(logits))
	var total float64
	for i, l := range logits {
		exps[i] = math.Exp(l - max)
		total += exps[i]
	}
	for i := range exps {
		exps[i] /= total
	}
	return exps
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func randomMatrix(rng *rand.Rand, rows, cols int, std float64) [][]float64 {
	m := make([][]float64, rows)
	for i := range m {
		row := make([]float64, cols)
		for j := range row {
			row[j] = rng.NormFloat64() * std
		}
		m[i] = row
	}
	return m
}

func zeroMatrix(rows, cols int) [][]float64 {
	m := make([][]float64, rows)
	for i := range m {
		m[i] = make([]float64, cols)
	}
	return m
}
