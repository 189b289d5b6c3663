package dataset

import (
	"os"

	"github.com/gocarina/gocsv"
	"github.com/officekit/intent/errors"
)

// LabeledExample is one raw (text, intent) pair as stored in the train/test
// CSV files.
type LabeledExample struct {
	Text  string `csv:"text"`
	Label string `csv:"label"`
}

// LoadCSV reads labeled examples from a CSV file with text,label columns.
func LoadCSV(path string) ([]LabeledExample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error opening '%s'", path)
	}
	defer f.Close()

	var examples []LabeledExample
	if err := gocsv.UnmarshalFile(f, &examples); err != nil {
		return nil, errors.Wrapf(err, "error parsing '%s'", path)
	}
	return examples, nil
}

// SaveCSV writes labeled examples to a CSV file with text,label columns.
func SaveCSV(path string, examples []LabeledExample) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "error creating '%s'", path)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&examples, f); err != nil {
		return errors.Wrapf(err, "error writing '%s'", path)
	}
	return nil
}

// SplitColumns unzips labeled examples into parallel text and label slices.
func SplitColumns(examples []LabeledExample) (texts []string, intents []string) {
	texts = make([]string, len(examples))
	intents = make([]string, len(examples))
	for i, ex := range examples {
		texts[i] = ex.Text
		intents[i] = ex.Label
	}
	return texts, intents
}
