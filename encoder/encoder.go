// Package encoder defines the capability set the training and evaluation
// pipeline requires from a sequence encoder. Any backend satisfying Model is
// substitutable without changing trainer or evaluator logic.
package encoder

// Batch is a stacked group of encoded examples. TokenIDs and AttentionMask
// are parallel, every row has identical length. LabelIDs may be nil when a
// batch is run for inference only.
type Batch struct {
	TokenIDs      [][]int
	AttentionMask [][]int
	LabelIDs      []int
}

// Size returns the number of examples in the batch.
func (b Batch) Size() int {
	return len(b.TokenIDs)
}

// Output is the result of one forward pass. Loss is the mean cross-entropy
// over the batch and is only meaningful when the batch carried label ids.
type Output struct {
	Loss   float64
	Logits [][]float64
}

// Parameter is one trainable weight vector together with its accumulated
// gradient. Both slices alias the backend's storage, so an optimizer update
// writes straight through to the model.
type Parameter struct {
	Name string
	Data []float64
	Grad []float64
}

// Weights is a snapshot of a model's state as named matrices. Snapshots are
// deep copies: mutating the model after taking one never corrupts it.
type Weights map[string][][]float64

// Clone deep-copies the weights.
func (w Weights) Clone() Weights {
	out := make(Weights, len(w))
	for name, mat := range w {
		rows := make([][]float64, len(mat))
		for i, row := range mat {
			rows[i] = append([]float64(nil), row...)
		}
		out[name] = rows
	}
	return out
}

// Model is the opaque encoder capability set consumed by the pipeline.
type Model interface {
	// Tokenize converts texts into fixed-length token id sequences with
	// parallel attention masks, padding or truncating to maxLength.
	Tokenize(texts []string, maxLength int) (tokenIDs [][]int, attentionMask [][]int)

	// Forward runs the encoder on a batch. When the batch carries label ids
	// the output loss is the mean cross-entropy and the activations needed by
	// Backward are retained; without labels no state is kept and no gradient
	// work happens.
	Forward(b Batch) (Output, error)

	// Backward accumulates parameter gradients from the most recent labeled
	// Forward call.
	Backward() error

	// Parameters enumerates the trainable parameters for the optimizer.
	Parameters() []*Parameter

	// NumClasses returns the size of the output distribution.
	NumClasses() int

	// Snapshot returns a deep copy of the current weights.
	Snapshot() Weights

	// Restore replaces the current weights with the given snapshot.
	Restore(w Weights) error
}
