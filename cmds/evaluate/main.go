package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/alexflint/go-arg"
	"github.com/officekit/intent/dataset"
	"github.com/officekit/intent/evaluate"
	"github.com/officekit/intent/predict"
)

func main() {
	args := struct {
		Model     string `help:"checkpoint directory"`
		Test      string `help:"CSV file with text,label columns"`
		Output    string `help:"directory for the evaluation report"`
		BatchSize int
		TopErrors int `help:"number of top-confidence errors to log"`
	}{
		Model:     "models/intent_model",
		Test:      "data/test.csv",
		Output:    "evaluation_results",
		BatchSize: 32,
		TopErrors: 5,
	}
	arg.MustParse(&args)

	predictor, err := predict.Load(args.Model, args.BatchSize)
	if err != nil {
		log.Fatalln(err)
	}
	predictor.ShowProgress = true

	examples, err := dataset.LoadCSV(args.Test)
	if err != nil {
		log.Fatalln(err)
	}
	texts, intents := dataset.SplitColumns(examples)
	log.Printf("evaluating %d examples from %s", len(texts), args.Test)

	report, err := evaluate.Evaluate(predictor, texts, intents)
	if err != nil {
		log.Fatalln(err)
	}

	log.Printf("accuracy: %.4f", report.Accuracy)
	log.Printf("weighted precision: %.4f  recall: %.4f  f1: %.4f",
		report.Precision, report.Recall, report.F1)
	for _, name := range report.Labels {
		m := report.PerClass[name]
		log.Printf("  %-22s precision %.4f  recall %.4f  f1 %.4f  support %d",
			name, m.Precision, m.Recall, m.F1, m.Support)
	}
	for i, rec := range report.Errors {
		if i >= args.TopErrors {
			break
		}
		log.Printf("error %d: %q true=%s predicted=%s (%.4f)",
			i+1, rec.Text, rec.TrueIntent, rec.PredictedIntent, rec.PredictedConfidence)
	}

	if err := os.MkdirAll(args.Output, 0755); err != nil {
		log.Fatalln(err)
	}
	if err := report.WriteJSON(filepath.Join(args.Output, "evaluation_report.json")); err != nil {
		log.Fatalln(err)
	}
	if err := report.WriteCSVs(args.Output); err != nil {
		log.Fatalln(err)
	}
	log.Printf("wrote evaluation results to %s", args.Output)
}
