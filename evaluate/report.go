package evaluate

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/officekit/intent/errors"
)

type overallMetrics struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

type reportFile struct {
	Overall     overallMetrics          `json:"overall_metrics"`
	PerClass    map[string]ClassMetrics `json:"per_class_metrics"`
	Errors      []ErrorRecord           `json:"errors"`
	Patterns    []Pattern               `json:"error_patterns"`
	Predictions []Row                   `json:"predictions"`
}

// WriteJSON writes the full report, including the flat prediction table, to
// a single JSON file.
func (r *Report) WriteJSON(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "error creating %s", path)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	out := reportFile{
		Overall: overallMetrics{
			Accuracy:  r.Accuracy,
			Precision: r.Precision,
			Recall:    r.Recall,
			F1:        r.F1,
		},
		PerClass:    r.PerClass,
		Errors:      r.Errors,
		Patterns:    r.Patterns,
		Predictions: r.Rows,
	}
	if err := enc.Encode(out); err != nil {
		return errors.Wrapf(err, "error writing %s", path)
	}
	return f.Close()
}

// WriteCSVs writes detailed_predictions.csv and confusion_matrix.csv into
// dir. The prediction table carries one prob_<intent> column per intent, so
// the header depends on the label set and we build the records by hand.
func (r *Report) WriteCSVs(dir string) error {
	predPath := filepath.Join(dir, "detailed_predictions.csv")
	header := []string{"text", "true_label", "predicted_label", "correct"}
	for _, name := range r.Labels {
		header = append(header, "prob_"+name)
	}
	records := [][]string{header}
	for _, row := range r.Rows {
		rec := []string{row.Text, row.TrueLabel, row.PredictedLabel, strconv.FormatBool(row.Correct)}
		for _, name := range r.Labels {
			rec = append(rec, formatProb(row.Probs[name]))
		}
		records = append(records, rec)
	}
	if err := writeCSV(predPath, records); err != nil {
		return err
	}

	confPath := filepath.Join(dir, "confusion_matrix.csv")
	records = [][]string{append([]string{"true\\predicted"}, r.Labels...)}
	for i, name := range r.Labels {
		rec := []string{name}
		for _, count := range r.Confusion[i] {
			rec = append(rec, strconv.Itoa(count))
		}
		records = append(records, rec)
	}
	return writeCSV(confPath, records)
}

func formatProb(p float64) string {
	return fmt.Sprintf("%.6f", p)
}

func writeCSV(path string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "error creating %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		return errors.Wrapf(err, "error writing %s", path)
	}
	return f.Close()
}
