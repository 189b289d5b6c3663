// Package evaluate computes quality metrics for a trained classifier over a
// held-out set: aggregate and per-class precision/recall/F1, the confusion
// matrix, and misclassifications ranked by how confidently wrong they are.
package evaluate

import (
	"sort"

	"github.com/officekit/intent/errors"
	"github.com/officekit/intent/labels"
	"github.com/officekit/intent/predict"
)

// Classifier is the read-only inference surface the evaluator drives.
// *predict.Predictor satisfies it.
type Classifier interface {
	Labels() []string
	PredictBatch(texts []string) ([]predict.Prediction, error)
}

// ClassMetrics holds one intent's scores. Undefined ratios (a class nobody
// predicted, or with no support) are reported as 0, never NaN: partial
// results beat a hard failure for diagnostic tooling.
type ClassMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1-score"`
	Support   int     `json:"support"`
}

// ErrorRecord is one misclassified example.
type ErrorRecord struct {
	Index               int     `json:"index"`
	Text                string  `json:"text"`
	TrueIntent          string  `json:"true_intent"`
	PredictedIntent     string  `json:"predicted_intent"`
	PredictedConfidence float64 `json:"predicted_confidence"`
	TrueConfidence      float64 `json:"true_confidence"`
	ConfidenceDiff      float64 `json:"confidence_diff"`
}

// Pattern is an aggregated (true intent -> predicted intent) error count.
type Pattern struct {
	TrueIntent      string `json:"true_intent"`
	PredictedIntent string `json:"predicted_intent"`
	Count           int    `json:"count"`
}

// Row is one example in the flat prediction table.
type Row struct {
	Text           string             `json:"text"`
	TrueLabel      string             `json:"true_label"`
	PredictedLabel string             `json:"predicted_label"`
	Correct        bool               `json:"correct"`
	Probs          map[string]float64 `json:"probabilities"`
}

// Report is the immutable result of one evaluation call.
type Report struct {
	// Labels is the canonical intent order; Confusion rows and columns
	// follow it, including all-zero rows for intents absent from the set.
	Labels    []string
	Confusion [][]int

	Accuracy  float64
	Precision float64
	Recall    float64
	F1        float64

	PerClass map[string]ClassMetrics

	// Errors is sorted descending by predicted-class confidence: the most
	// confidently wrong predictions come first.
	Errors []ErrorRecord

	// Patterns is sorted descending by count.
	Patterns []Pattern

	Rows []Row
}

// Evaluate batches texts through the classifier and scores the predictions
// against the true intents. Any true intent outside the classifier's label
// set fails with *labels.EncodingError.
func Evaluate(c Classifier, texts []string, trueIntents []string) (*Report, error) {
	if len(texts) != len(trueIntents) {
		return nil, errors.Errorf("texts (%d) and labels (%d) must be parallel", len(texts), len(trueIntents))
	}
	if len(texts) == 0 {
		return nil, errors.Errorf("evaluation set is empty")
	}

	names := c.Labels()
	ids := make(map[string]int, len(names))
	for i, name := range names {
		ids[name] = i
	}
	for i, intent := range trueIntents {
		if _, ok := ids[intent]; !ok {
			return nil, &labels.EncodingError{Index: i, Text: texts[i], Label: intent, Reason: "not in the intent set"}
		}
	}

	preds, err := c.PredictBatch(texts)
	if err != nil {
		return nil, errors.Wrapf(err, "error predicting evaluation set")
	}
	if len(preds) != len(texts) {
		return nil, errors.Errorf("classifier returned %d predictions for %d texts", len(preds), len(texts))
	}

	r := &Report{
		Labels:   names,
		PerClass: make(map[string]ClassMetrics, len(names)),
	}
	r.Confusion = make([][]int, len(names))
	for i := range r.Confusion {
		r.Confusion[i] = make([]int, len(names))
	}

	patternCounts := make(map[[2]string]int)
	var correct int
	for i, pred := range preds {
		trueID := ids[trueIntents[i]]
		predID, ok := ids[pred.Intent]
		if !ok {
			return nil, errors.Errorf("classifier predicted unknown intent '%s'", pred.Intent)
		}
		r.Confusion[trueID][predID]++

		isCorrect := trueID == predID
		if isCorrect {
			correct++
		} else {
			r.Errors = append(r.Errors, ErrorRecord{
				Index:               i,
				Text:                texts[i],
				TrueIntent:          trueIntents[i],
				PredictedIntent:     pred.Intent,
				PredictedConfidence: pred.Probs[pred.Intent],
				TrueConfidence:      pred.Probs[trueIntents[i]],
				ConfidenceDiff:      pred.Probs[pred.Intent] - pred.Probs[trueIntents[i]],
			})
			patternCounts[[2]string{trueIntents[i], pred.Intent}]++
		}

		r.Rows = append(r.Rows, Row{
			Text:           texts[i],
			TrueLabel:      trueIntents[i],
			PredictedLabel: pred.Intent,
			Correct:        isCorrect,
			Probs:          pred.Probs,
		})
	}

	total := len(texts)
	r.Accuracy = float64(correct) / float64(total)
	for id, name := range names {
		var tp, fp, fn int
		for other := range names {
			if other == id {
				tp = r.Confusion[id][id]
				continue
			}
			fn += r.Confusion[id][other]
			fp += r.Confusion[other][id]
		}
		support := tp + fn
		m := ClassMetrics{
			Precision: safeRatio(tp, tp+fp),
			Recall:    safeRatio(tp, support),
			Support:   support,
		}
		if m.Precision+m.Recall > 0 {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}
		r.PerClass[name] = m

		// weighted-by-support averaging
		weight := float64(support) / float64(total)
		r.Precision += weight * m.Precision
		r.Recall += weight * m.Recall
		r.F1 += weight * m.F1
	}

	sort.SliceStable(r.Errors, func(i, j int) bool {
		return r.Errors[i].PredictedConfidence > r.Errors[j].PredictedConfidence
	})

	for key, count := range patternCounts {
		r.Patterns = append(r.Patterns, Pattern{TrueIntent: key[0], PredictedIntent: key[1], Count: count})
	}
	sort.Slice(r.Patterns, func(i, j int) bool {
		pi, pj := r.Patterns[i], r.Patterns[j]
		if pi.Count != pj.Count {
			return pi.Count > pj.Count
		}
		if pi.TrueIntent != pj.TrueIntent {
			return pi.TrueIntent < pj.TrueIntent
		}
		return pi.PredictedIntent < pj.PredictedIntent
	})

	return r, nil
}

func safeRatio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
