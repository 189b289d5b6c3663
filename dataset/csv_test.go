package dataset

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVRoundTrip(t *testing.T) {
	dir, err := ioutil.TempDir("", "csv-test")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	examples := []LabeledExample{
		{Text: "What is my monthly salary?", Label: "salary_inquiry"},
		{Text: "Book me a room, please", Label: "meeting_room_booking"},
	}
	path := filepath.Join(dir, "train.csv")
	require.NoError(t, SaveCSV(path, examples))

	loaded, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, examples, loaded)
}

func TestSplitColumns(t *testing.T) {
	examples := []LabeledExample{
		{Text: "a", Label: "x"},
		{Text: "b", Label: "y"},
	}
	texts, intents := SplitColumns(examples)
	assert.Equal(t, []string{"a", "b"}, texts)
	assert.Equal(t, []string{"x", "y"}, intents)
}
