// Package predict is the inference surface over a trained classifier: it
// loads a checkpoint together with its label mapping and turns texts into
// intents with per-class probabilities. All operations are read-only with
// respect to the weights.
package predict

import (
	"math"

	"github.com/sbwhitecap/tqdm"
	"github.com/sbwhitecap/tqdm/iterators"

	"github.com/officekit/intent/checkpoint"
	"github.com/officekit/intent/encoder"
	"github.com/officekit/intent/errors"
	"github.com/officekit/intent/labels"
)

// Prediction is one classified text.
type Prediction struct {
	Text           string             `json:"text"`
	Intent         string             `json:"predicted_intent"`
	Confidence     float64            `json:"confidence"`
	Probs          map[string]float64 `json:"probabilities,omitempty"`
	BelowThreshold bool               `json:"below_threshold"`
}

// Predictor batches texts through a classifier's inference path.
type Predictor struct {
	model     encoder.Model
	codec     *labels.Codec
	maxLength int
	batchSize int

	// Threshold is the minimum confidence for a committed intent; below it
	// the prediction is reported as "unknown". Zero disables thresholding.
	Threshold float64

	// ShowProgress renders a progress bar over batches, for interactive use.
	ShowProgress bool
}

// NewPredictor wraps an in-memory model and its paired codec.
func NewPredictor(model encoder.Model, codec *labels.Codec, maxLength, batchSize int) (*Predictor, error) {
	if model.NumClasses() != codec.Len() {
		return nil, errors.Errorf("model has %d classes but codec has %d intents", model.NumClasses(), codec.Len())
	}
	if maxLength < 1 {
		return nil, errors.Errorf("max length must be positive, got %d", maxLength)
	}
	if batchSize < 1 {
		return nil, errors.Errorf("batch size must be positive, got %d", batchSize)
	}
	return &Predictor{model: model, codec: codec, maxLength: maxLength, batchSize: batchSize}, nil
}

// Load opens a checkpoint directory and builds a predictor from it.
func Load(dir string, batchSize int) (*Predictor, error) {
	model, codec, err := checkpoint.Load(dir)
	if err != nil {
		return nil, err
	}
	return NewPredictor(model, codec, model.Config().MaxLength, batchSize)
}

// Labels returns the canonical intent ordering.
func (p *Predictor) Labels() []string {
	return p.codec.Names()
}

// PredictSingle classifies one text.
func (p *Predictor) PredictSingle(text string) (Prediction, error) {
	preds, err := p.PredictBatch([]string{text})
	if err != nil {
		return Prediction{}, err
	}
	return preds[0], nil
}

// PredictBatch classifies texts in input order, running the model in batches
// without gradient computation.
func (p *Predictor) PredictBatch(texts []string) ([]Prediction, error) {
	preds := make([]Prediction, 0, len(texts))
	starts := make([]int, 0, (len(texts)+p.batchSize-1)/p.batchSize)
	for start := 0; start < len(texts); start += p.batchSize {
		starts = append(starts, start)
	}

	var innerErr error
	run := func(start int) bool {
		end := start + p.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch, err := p.predictChunk(texts[start:end])
		if err != nil {
			innerErr = err
			return true
		}
		preds = append(preds, batch...)
		return false
	}

	if p.ShowProgress {
		err := tqdm.With(iterators.Interval(0, len(starts)), "Predicting", func(c interface{}) (brk bool) {
			return run(starts[c.(int)])
		})
		if err != nil && innerErr == nil {
			innerErr = err
		}
	} else {
		for _, start := range starts {
			if run(start) {
				break
			}
		}
	}
	if innerErr != nil {
		return nil, innerErr
	}
	return preds, nil
}

func (p *Predictor) predictChunk(texts []string) ([]Prediction, error) {
	tokenIDs, attentionMask := p.model.Tokenize(texts, p.maxLength)
	out, err := p.model.Forward(encoder.Batch{TokenIDs: tokenIDs, AttentionMask: attentionMask})
	if err != nil {
		return nil, errors.Wrapf(err, "inference forward pass failed")
	}

	preds := make([]Prediction, len(texts))
	for i, logits := range out.Logits {
		probs := softmax(logits)
		best := 0
		for c := 1; c < len(probs); c++ {
			if probs[c] > probs[best] {
				best = c
			}
		}
		name, _ := p.codec.Name(best)

		byIntent := make(map[string]float64, len(probs))
		for c, prob := range probs {
			intent, _ := p.codec.Name(c)
			byIntent[intent] = prob
		}

		pred := Prediction{
			Text:       texts[i],
			Intent:     name,
			Confidence: probs[best],
			Probs:      byIntent,
		}
		if pred.Confidence < p.Threshold {
			pred.Intent = "unknown"
			pred.BelowThreshold = true
		}
		preds[i] = pred
	}
	return preds, nil
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
