package dataset

import (
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/officekit/intent/encoder"
	"github.com/officekit/intent/labels"
)

func loaderDataset(t *testing.T, n int) *Dataset {
	texts := make([]string, n)
	intents := make([]string, n)
	for i := range texts {
		texts[i] = fmt.Sprintf("example number %d", i)
		intents[i] = "salary_inquiry"
	}
	codec, err := labels.NewCodec([]string{"salary_inquiry"})
	require.NoError(t, err)
	ds, err := New(texts, intents, wordCountTokenizer{}, codec, 8)
	require.NoError(t, err)
	return ds
}

func collectBatchSizes(t *testing.T, l *Loader) []int {
	var sizes []int
	err := l.Iterate(func(b encoder.Batch) error {
		sizes = append(sizes, b.Size())
		return nil
	})
	require.NoError(t, err)
	return sizes
}

func TestLoaderBatchSizes(t *testing.T) {
	ds := loaderDataset(t, 14)
	l, err := NewLoader(ds, 4, false, 0)
	require.NoError(t, err)

	assert.Equal(t, 4, l.NumBatches())
	assert.Equal(t, []int{4, 4, 4, 2}, collectBatchSizes(t, l))
}

func TestLoaderExactDivision(t *testing.T) {
	ds := loaderDataset(t, 12)
	l, err := NewLoader(ds, 4, false, 0)
	require.NoError(t, err)

	assert.Equal(t, 3, l.NumBatches())
	assert.Equal(t, []int{4, 4, 4}, collectBatchSizes(t, l))
}

func TestLoaderSequentialOrder(t *testing.T) {
	n := 10
	texts := make([]string, n)
	intents := make([]string, n)
	names := make([]string, n)
	for i := range texts {
		texts[i] = fmt.Sprintf("query %d", i)
		names[i] = fmt.Sprintf("intent_%02d", i)
		intents[i] = names[i]
	}
	codec, err := labels.NewCodec(names)
	require.NoError(t, err)
	ds, err := New(texts, intents, wordCountTokenizer{}, codec, 8)
	require.NoError(t, err)

	l, err := NewLoader(ds, 3, false, 0)
	require.NoError(t, err)

	var sizes []int
	var order []int
	err = l.Iterate(func(b encoder.Batch) error {
		sizes = append(sizes, b.Size())
		order = append(order, b.LabelIDs...)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 3, 3, 1}, sizes)

	// concatenating unshuffled batches reconstructs dataset order
	want := make([]int, n)
	for i := range want {
		want[i] = i
	}
	assert.Equal(t, want, order)
}

func TestLoaderShuffleCoversAllExamples(t *testing.T) {
	ds := loaderDataset(t, 14)
	l, err := NewLoader(ds, 4, true, 7)
	require.NoError(t, err)

	var total int
	err = l.Iterate(func(b encoder.Batch) error {
		total += b.Size()
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 14, total)
}

func TestLoaderShuffleVariesBetweenPasses(t *testing.T) {
	// with distinct per-example label ids the batch contents reveal order
	n := 20
	texts := make([]string, n)
	intents := make([]string, n)
	names := make([]string, n)
	for i := range texts {
		texts[i] = fmt.Sprintf("query %d", i)
		names[i] = fmt.Sprintf("intent_%02d", i)
		intents[i] = names[i]
	}
	codec, err := labels.NewCodec(names)
	require.NoError(t, err)
	ds, err := New(texts, intents, wordCountTokenizer{}, codec, 8)
	require.NoError(t, err)

	l, err := NewLoader(ds, 5, true, 42)
	require.NoError(t, err)

	collectOrder := func() []int {
		var order []int
		err := l.Iterate(func(b encoder.Batch) error {
			order = append(order, b.LabelIDs...)
			return nil
		})
		require.NoError(t, err)
		return order
	}

	first := collectOrder()
	second := collectOrder()

	// both passes see every example exactly once
	sortedFirst := append([]int(nil), first...)
	sortedSecond := append([]int(nil), second...)
	sort.Ints(sortedFirst)
	sort.Ints(sortedSecond)
	assert.Equal(t, sortedFirst, sortedSecond)
	assert.Len(t, first, n)

	assert.NotEqual(t, first, second)
}

func TestLoaderRejectsBadBatchSize(t *testing.T) {
	ds := loaderDataset(t, 4)
	_, err := NewLoader(ds, 0, false, 0)
	assert.Error(t, err)
}
