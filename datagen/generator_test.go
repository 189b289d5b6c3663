package datagen

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/officekit/intent/dataset"
	"github.com/officekit/intent/labels"
)

func TestGenerateCountsAndLabels(t *testing.T) {
	gen, err := NewGenerator(20, 42)
	require.NoError(t, err)

	examples := gen.Generate()
	require.Len(t, examples, 20*len(IntentNames))

	counts := make(map[string]int)
	for _, ex := range examples {
		counts[ex.Label]++
		assert.NotEmpty(t, ex.Text)
	}
	for _, intent := range IntentNames {
		assert.Equal(t, 20, counts[intent], intent)
	}
}

func TestGenerateFillsAllPlaceholders(t *testing.T) {
	gen, err := NewGenerator(50, 7)
	require.NoError(t, err)

	placeholder := regexp.MustCompile(`\{[a-z_]+\}`)
	for _, ex := range gen.Generate() {
		assert.False(t, placeholder.MatchString(ex.Text), "unfilled placeholder in %q", ex.Text)
	}
}

func TestGenerateDeterministicForSeed(t *testing.T) {
	genA, err := NewGenerator(10, 42)
	require.NoError(t, err)
	genB, err := NewGenerator(10, 42)
	require.NoError(t, err)
	assert.Equal(t, genA.Generate(), genB.Generate())

	genC, err := NewGenerator(10, 43)
	require.NoError(t, err)
	assert.NotEqual(t, genA.Generate(), genC.Generate())
}

func TestSplitIsStratified(t *testing.T) {
	gen, err := NewGenerator(10, 42)
	require.NoError(t, err)

	train, test, err := gen.Split(gen.Generate(), 0.2)
	require.NoError(t, err)
	assert.Len(t, train, 8*len(IntentNames))
	assert.Len(t, test, 2*len(IntentNames))

	perIntent := func(examples []dataset.LabeledExample) map[string]int {
		counts := make(map[string]int)
		for _, ex := range examples {
			counts[ex.Label]++
		}
		return counts
	}
	for intent, count := range perIntent(train) {
		assert.Equal(t, 8, count, intent)
	}
	for intent, count := range perIntent(test) {
		assert.Equal(t, 2, count, intent)
	}
}

func TestSplitRejectsBadFraction(t *testing.T) {
	gen, err := NewGenerator(10, 42)
	require.NoError(t, err)
	examples := gen.Generate()

	_, _, err = gen.Split(examples, 0)
	assert.Error(t, err)
	_, _, err = gen.Split(examples, 1)
	assert.Error(t, err)
}

func TestNewGeneratorRejectsBadCount(t *testing.T) {
	_, err := NewGenerator(0, 42)
	assert.Error(t, err)
}

func TestSaveDatasetWritesAllFiles(t *testing.T) {
	dir, err := ioutil.TempDir("", "datagen-test")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	gen, err := NewGenerator(10, 42)
	require.NoError(t, err)

	trainCount, testCount, err := gen.SaveDataset(dir, 0.2)
	require.NoError(t, err)
	assert.Equal(t, 8*len(IntentNames), trainCount)
	assert.Equal(t, 2*len(IntentNames), testCount)

	for _, name := range []string{"train.csv", "test.csv", "train.json", "test.json", labels.MappingFilename} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	train, err := dataset.LoadCSV(filepath.Join(dir, "train.csv"))
	require.NoError(t, err)
	assert.Len(t, train, trainCount)

	codec, err := labels.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, IntentNames, codec.Names())
}
