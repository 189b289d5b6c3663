// Package dataset owns the encoded training data and its batch scheduling.
package dataset

import (
	"strings"

	"github.com/officekit/intent/encoder"
	"github.com/officekit/intent/errors"
	"github.com/officekit/intent/labels"
)

// Tokenizer is the piece of the encoder capability set dataset construction
// needs.
type Tokenizer interface {
	Tokenize(texts []string, maxLength int) (tokenIDs [][]int, attentionMask [][]int)
}

// EncodedExample is one tokenized example. Owned exclusively by its dataset
// and never mutated after construction.
type EncodedExample struct {
	TokenIDs      []int
	AttentionMask []int
	LabelID       int
}

// Dataset is a fixed collection of encoded examples. All tokenization happens
// eagerly at construction, so every epoch reads byte-identical encoded input
// and random access never recomputes anything.
type Dataset struct {
	examples  []EncodedExample
	texts     []string
	maxLength int
}

// New tokenizes texts up front and encodes their intent labels. Any label
// outside the codec's intent set, or an empty text, fails with
// *labels.EncodingError.
func New(texts []string, intents []string, tok Tokenizer, codec *labels.Codec, maxLength int) (*Dataset, error) {
	if len(texts) != len(intents) {
		return nil, errors.Errorf("texts (%d) and labels (%d) must be parallel", len(texts), len(intents))
	}
	if maxLength < 1 {
		return nil, errors.Errorf("max length must be positive, got %d", maxLength)
	}

	labelIDs := make([]int, len(intents))
	for i, intent := range intents {
		if strings.TrimSpace(texts[i]) == "" {
			return nil, &labels.EncodingError{Index: i, Text: texts[i], Reason: "empty text"}
		}
		id, ok := codec.ID(intent)
		if !ok {
			return nil, &labels.EncodingError{Index: i, Text: texts[i], Label: intent, Reason: "not in the intent set"}
		}
		labelIDs[i] = id
	}

	tokenIDs, attentionMask := tok.Tokenize(texts, maxLength)
	examples := make([]EncodedExample, len(texts))
	for i := range texts {
		examples[i] = EncodedExample{
			TokenIDs:      tokenIDs[i],
			AttentionMask: attentionMask[i],
			LabelID:       labelIDs[i],
		}
	}
	return &Dataset{
		examples:  examples,
		texts:     append([]string(nil), texts...),
		maxLength: maxLength,
	}, nil
}

// Len returns the number of examples.
func (d *Dataset) Len() int {
	return len(d.examples)
}

// At returns the example at index i.
func (d *Dataset) At(i int) EncodedExample {
	return d.examples[i]
}

// Text returns the raw text the example at index i was encoded from.
func (d *Dataset) Text(i int) string {
	return d.texts[i]
}

// MaxLength returns the fixed sequence length of every example.
func (d *Dataset) MaxLength() int {
	return d.maxLength
}

// batch stacks the examples at the given indices.
func (d *Dataset) batch(indices []int) encoder.Batch {
	b := encoder.Batch{
		TokenIDs:      make([][]int, len(indices)),
		AttentionMask: make([][]int, len(indices)),
		LabelIDs:      make([]int, len(indices)),
	}
	for i, idx := range indices {
		ex := d.examples[idx]
		b.TokenIDs[i] = ex.TokenIDs
		b.AttentionMask[i] = ex.AttentionMask
		b.LabelIDs[i] = ex.LabelID
	}
	return b
}
