package dataset

import (
	"math/rand"

	"github.com/officekit/intent/encoder"
	"github.com/officekit/intent/errors"
)

// Loader slices a dataset into fixed-size batches without mutating it. With
// shuffling enabled each full pass draws a fresh permutation of indices; with
// it disabled iteration order is the dataset order, stable across runs, so
// predictions re-align to source texts by position. The last batch may be
// shorter than the batch size and is never dropped.
type Loader struct {
	ds        *Dataset
	batchSize int
	shuffle   bool
	rng       *rand.Rand
}

// NewLoader creates a batch scheduler over ds.
func NewLoader(ds *Dataset, batchSize int, shuffle bool, seed int64) (*Loader, error) {
	if batchSize < 1 {
		return nil, errors.Errorf("batch size must be positive, got %d", batchSize)
	}
	l := &Loader{ds: ds, batchSize: batchSize, shuffle: shuffle}
	if shuffle {
		l.rng = rand.New(rand.NewSource(seed))
	}
	return l, nil
}

// NumBatches returns the number of batches in one full pass.
func (l *Loader) NumBatches() int {
	return (l.ds.Len() + l.batchSize - 1) / l.batchSize
}

// Iterate runs one full pass over the dataset, calling fn once per batch.
// Returning an error from fn aborts the pass.
func (l *Loader) Iterate(fn func(b encoder.Batch) error) error {
	indices := make([]int, l.ds.Len())
	for i := range indices {
		indices[i] = i
	}
	if l.shuffle {
		l.rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}
	for start := 0; start < len(indices); start += l.batchSize {
		end := start + l.batchSize
		if end > len(indices) {
			end = len(indices)
		}
		if err := fn(l.ds.batch(indices[start:end])); err != nil {
			return err
		}
	}
	return nil
}
