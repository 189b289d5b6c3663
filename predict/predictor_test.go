package predict

import (
	"io/ioutil"
	"math"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/officekit/intent/checkpoint"
	"github.com/officekit/intent/encoder"
	"github.com/officekit/intent/encoder/hashembed"
	"github.com/officekit/intent/labels"
)

// fixedModel scores every text by its first token id modulo the class count,
// with a margin large enough to dominate softmax.
type fixedModel struct {
	numClasses int
	margin     float64
}

func (m *fixedModel) Tokenize(texts []string, maxLength int) ([][]int, [][]int) {
	ids := make([][]int, len(texts))
	masks := make([][]int, len(texts))
	for i, text := range texts {
		ids[i] = make([]int, maxLength)
		masks[i] = make([]int, maxLength)
		ids[i][0] = len(text)
		masks[i][0] = 1
	}
	return ids, masks
}

func (m *fixedModel) Forward(b encoder.Batch) (encoder.Output, error) {
	logits := make([][]float64, b.Size())
	for i := range logits {
		row := make([]float64, m.numClasses)
		row[b.TokenIDs[i][0]%m.numClasses] = m.margin
		logits[i] = row
	}
	return encoder.Output{Logits: logits}, nil
}

func (m *fixedModel) Backward() error                  { return nil }
func (m *fixedModel) Parameters() []*encoder.Parameter { return nil }
func (m *fixedModel) NumClasses() int                  { return m.numClasses }
func (m *fixedModel) Snapshot() encoder.Weights        { return nil }
func (m *fixedModel) Restore(w encoder.Weights) error  { return nil }

func testPredictor(t *testing.T, margin float64) *Predictor {
	codec, err := labels.NewCodec([]string{"alpha", "beta", "gamma"})
	require.NoError(t, err)
	p, err := NewPredictor(&fixedModel{numClasses: 3, margin: margin}, codec, 8, 2)
	require.NoError(t, err)
	return p
}

func TestPredictSingle(t *testing.T) {
	p := testPredictor(t, 10)

	pred, err := p.PredictSingle("abcd") // length 4 -> class 1
	require.NoError(t, err)
	assert.Equal(t, "beta", pred.Intent)
	assert.False(t, pred.BelowThreshold)
	assert.Greater(t, pred.Confidence, 0.99)

	var total float64
	for _, prob := range pred.Probs {
		total += prob
	}
	assert.InDelta(t, 1.0, total, 1e-9)
	assert.Len(t, pred.Probs, 3)
}

func TestPredictBatchKeepsOrder(t *testing.T) {
	p := testPredictor(t, 10)

	texts := []string{"abc", "abcd", "abcde", "abcdef", "abcdefg"}
	preds, err := p.PredictBatch(texts)
	require.NoError(t, err)
	require.Len(t, preds, len(texts))

	want := []string{"alpha", "beta", "gamma", "alpha", "beta"}
	for i, pred := range preds {
		assert.Equal(t, texts[i], pred.Text)
		assert.Equal(t, want[i], pred.Intent)
	}
}

func TestPredictBatchEmpty(t *testing.T) {
	p := testPredictor(t, 10)
	preds, err := p.PredictBatch(nil)
	require.NoError(t, err)
	assert.Empty(t, preds)
}

func TestThresholdFallsBackToUnknown(t *testing.T) {
	// zero margin makes the distribution uniform: confidence 1/3
	p := testPredictor(t, 0)
	p.Threshold = 0.5

	pred, err := p.PredictSingle("anything")
	require.NoError(t, err)
	assert.Equal(t, "unknown", pred.Intent)
	assert.True(t, pred.BelowThreshold)
	assert.InDelta(t, 1.0/3.0, pred.Confidence, 1e-9)

	// the distribution is still reported over the real intents
	assert.Len(t, pred.Probs, 3)
}

func TestThresholdDisabledByDefault(t *testing.T) {
	p := testPredictor(t, 0)
	pred, err := p.PredictSingle("anything")
	require.NoError(t, err)
	assert.NotEqual(t, "unknown", pred.Intent)
	assert.False(t, pred.BelowThreshold)
}

func TestNewPredictorValidation(t *testing.T) {
	codec, err := labels.NewCodec([]string{"alpha", "beta"})
	require.NoError(t, err)

	_, err = NewPredictor(&fixedModel{numClasses: 3}, codec, 8, 2)
	assert.Error(t, err)

	codec3, err := labels.NewCodec([]string{"alpha", "beta", "gamma"})
	require.NoError(t, err)
	_, err = NewPredictor(&fixedModel{numClasses: 3}, codec3, 0, 2)
	assert.Error(t, err)
	_, err = NewPredictor(&fixedModel{numClasses: 3}, codec3, 8, 0)
	assert.Error(t, err)
}

func TestLoadFromCheckpoint(t *testing.T) {
	dir, err := ioutil.TempDir("", "predict-test")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	model, err := hashembed.New(hashembed.Config{VocabSize: 64, EmbedDim: 4, NumClasses: 2, MaxLength: 8}, 3)
	require.NoError(t, err)
	codec, err := labels.NewCodec([]string{"alpha", "beta"})
	require.NoError(t, err)
	require.NoError(t, checkpoint.Save(dir, model, codec))

	p, err := Load(dir, 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, p.Labels())

	pred, err := p.PredictSingle("what is my salary")
	require.NoError(t, err)
	assert.Contains(t, []string{"alpha", "beta"}, pred.Intent)
	assert.False(t, math.IsNaN(pred.Confidence))
}
