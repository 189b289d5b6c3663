package hashembed

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/officekit/intent/encoder"
)

func testModel(t *testing.T) *Model {
	m, err := New(Config{VocabSize: 128, EmbedDim: 8, NumClasses: 3, MaxLength: 6}, 1)
	require.NoError(t, err)
	return m
}

func labeledBatch(m *Model, texts []string, labelIDs []int) encoder.Batch {
	ids, mask := m.Tokenize(texts, m.cfg.MaxLength)
	return encoder.Batch{TokenIDs: ids, AttentionMask: mask, LabelIDs: labelIDs}
}

func TestConfigValidate(t *testing.T) {
	assert.Error(t, Config{VocabSize: 1, EmbedDim: 8, NumClasses: 3, MaxLength: 6}.Validate())
	assert.Error(t, Config{VocabSize: 128, EmbedDim: 0, NumClasses: 3, MaxLength: 6}.Validate())
	assert.Error(t, Config{VocabSize: 128, EmbedDim: 8, NumClasses: 1, MaxLength: 6}.Validate())
	assert.Error(t, Config{VocabSize: 128, EmbedDim: 8, NumClasses: 3, MaxLength: 0}.Validate())
	assert.NoError(t, Config{VocabSize: 128, EmbedDim: 8, NumClasses: 3, MaxLength: 6}.Validate())
}

func TestTokenizeShapes(t *testing.T) {
	m := testModel(t)
	ids, mask := m.Tokenize([]string{"book the room", "hi"}, 6)

	require.Len(t, ids, 2)
	require.Len(t, mask, 2)
	assert.Len(t, ids[0], 6)
	assert.Len(t, mask[0], 6)
	assert.Equal(t, []int{1, 1, 1, 0, 0, 0}, mask[0])
	assert.Equal(t, []int{1, 0, 0, 0, 0, 0}, mask[1])
	for j := 0; j < 3; j++ {
		assert.NotEqual(t, padID, ids[0][j])
	}
	assert.Equal(t, padID, ids[0][3])
}

func TestTokenizeDeterministicAndCaseInsensitive(t *testing.T) {
	m := testModel(t)
	a, _ := m.Tokenize([]string{"Book The ROOM"}, 6)
	b, _ := m.Tokenize([]string{"book the room"}, 6)
	assert.Equal(t, a, b)
}

func TestTokenizeTruncates(t *testing.T) {
	m := testModel(t)
	ids, mask := m.Tokenize([]string{"one two three four five six seven eight"}, 6)
	assert.Len(t, ids[0], 6)
	for _, v := range mask[0] {
		assert.Equal(t, 1, v)
	}
}

func TestForwardShapesAndLoss(t *testing.T) {
	m := testModel(t)
	b := labeledBatch(m, []string{"what is my salary", "book a room"}, []int{0, 1})

	out, err := m.Forward(b)
	require.NoError(t, err)
	require.Len(t, out.Logits, 2)
	assert.Len(t, out.Logits[0], 3)
	assert.Greater(t, out.Loss, 0.0)

	// fresh model should be near uniform: loss close to ln(3)
	assert.InDelta(t, math.Log(3), out.Loss, 0.5)
}

func TestForwardWithoutLabels(t *testing.T) {
	m := testModel(t)
	ids, mask := m.Tokenize([]string{"company info"}, 6)
	out, err := m.Forward(encoder.Batch{TokenIDs: ids, AttentionMask: mask})
	require.NoError(t, err)
	assert.Equal(t, 0.0, out.Loss)
	require.Len(t, out.Logits, 1)

	assert.Error(t, m.Backward())
}

func TestForwardRejectsBadBatches(t *testing.T) {
	m := testModel(t)
	_, err := m.Forward(encoder.Batch{})
	assert.Error(t, err)

	b := labeledBatch(m, []string{"hello"}, []int{5})
	_, err = m.Forward(b)
	assert.Error(t, err)

	b = labeledBatch(m, []string{"hello"}, []int{0, 1})
	_, err = m.Forward(b)
	assert.Error(t, err)
}

func TestGradientMatchesFiniteDifference(t *testing.T) {
	m := testModel(t)
	b := labeledBatch(m, []string{"what is my salary", "book a room"}, []int{0, 1})

	_, err := m.Forward(b)
	require.NoError(t, err)
	require.NoError(t, m.Backward())

	const eps = 1e-6
	check := func(data []float64, grad []float64, idx int) {
		orig := data[idx]
		data[idx] = orig + eps
		plus, err := m.Forward(b)
		require.NoError(t, err)
		data[idx] = orig - eps
		minus, err := m.Forward(b)
		require.NoError(t, err)
		data[idx] = orig
		m.last = nil

		numeric := (plus.Loss - minus.Loss) / (2 * eps)
		assert.InDelta(t, numeric, grad[idx], 1e-5)
	}

	check(m.bias, m.gBias, 0)
	check(m.w[1], m.gW[1], 2)

	// an embedding row actually used by the batch
	usedID := b.TokenIDs[0][0]
	check(m.emb[usedID], m.gEmb[usedID], 3)
}

func TestTrainingReducesLoss(t *testing.T) {
	m := testModel(t)
	b := labeledBatch(m,
		[]string{"what is my salary", "book a meeting room", "request vacation days"},
		[]int{0, 1, 2})

	first, err := m.Forward(b)
	require.NoError(t, err)

	const lr = 0.5
	for iter := 0; iter < 30; iter++ {
		_, err := m.Forward(b)
		require.NoError(t, err)
		require.NoError(t, m.Backward())
		for _, p := range m.Parameters() {
			for j := range p.Data {
				p.Data[j] -= lr * p.Grad[j]
				p.Grad[j] = 0
			}
		}
	}

	last, err := m.Forward(b)
	require.NoError(t, err)
	assert.Less(t, last.Loss, first.Loss)
	m.last = nil
}

func TestPadRowStaysZero(t *testing.T) {
	m := testModel(t)
	for _, v := range m.emb[padID] {
		assert.Equal(t, 0.0, v)
	}
	for _, p := range m.Parameters() {
		assert.NotSame(t, &m.emb[padID][0], &p.Data[0])
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	m := testModel(t)
	b := labeledBatch(m, []string{"what is my salary"}, []int{0})

	snap := m.Snapshot()
	before, err := m.Forward(b)
	require.NoError(t, err)
	require.NoError(t, m.Backward())

	// perturb the weights, outputs change
	for _, p := range m.Parameters() {
		for j := range p.Data {
			p.Data[j] += 0.1
		}
	}
	perturbed, err := m.Forward(b)
	require.NoError(t, err)
	assert.NotEqual(t, before.Logits, perturbed.Logits)
	m.last = nil

	require.NoError(t, m.Restore(snap))
	after, err := m.Forward(b)
	require.NoError(t, err)
	assert.Equal(t, before.Logits, after.Logits)
	m.last = nil
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	m := testModel(t)
	snap := m.Snapshot()
	orig := snap["classifier_w"][0][0]
	m.w[0][0] += 1
	assert.Equal(t, orig, snap["classifier_w"][0][0])
}

func TestRestoreRejectsWrongArchitecture(t *testing.T) {
	m := testModel(t)
	other, err := New(Config{VocabSize: 64, EmbedDim: 8, NumClasses: 3, MaxLength: 6}, 2)
	require.NoError(t, err)
	assert.Error(t, m.Restore(other.Snapshot()))

	snap := m.Snapshot()
	delete(snap, "classifier_b")
	assert.Error(t, m.Restore(snap))
}
