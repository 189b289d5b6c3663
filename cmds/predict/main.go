package main

import (
	"bufio"
	"encoding/json"
	"log"
	"os"

	"github.com/alexflint/go-arg"
	"github.com/montanaflynn/stats"
	"github.com/officekit/intent/predict"
)

var demoQueries = []string{
	"What is my monthly salary?",
	"I need to book a conference room for tomorrow",
	"Can I request vacation for next week?",
	"Find John Smith in the company directory",
	"What is the company mission?",
	"What is Sarah's department?",
	"Search for Smith at ABC Corp",
	"How do I reset my password?",
}

func main() {
	args := struct {
		Model     string  `help:"checkpoint directory"`
		Text      string  `help:"single query to classify"`
		File      string  `help:"file with one query per line"`
		Demo      bool    `help:"classify a set of sample queries"`
		Threshold float64 `help:"minimum confidence before falling back to unknown"`
		BatchSize int
		Probs     bool `help:"include the full probability distribution"`
	}{
		Model:     "models/intent_model",
		Threshold: 0.5,
		BatchSize: 32,
	}
	arg.MustParse(&args)

	predictor, err := predict.Load(args.Model, args.BatchSize)
	if err != nil {
		log.Fatalln(err)
	}
	predictor.Threshold = args.Threshold

	var texts []string
	switch {
	case args.Text != "":
		texts = []string{args.Text}
	case args.File != "":
		texts, err = readLines(args.File)
		if err != nil {
			log.Fatalln(err)
		}
	case args.Demo:
		texts = demoQueries
		predictor.ShowProgress = true
	default:
		log.Fatalln("provide --text, --file, or --demo")
	}

	preds, err := predictor.PredictBatch(texts)
	if err != nil {
		log.Fatalln(err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	for i := range preds {
		if !args.Probs {
			preds[i].Probs = nil
		}
		if err := enc.Encode(preds[i]); err != nil {
			log.Fatalln(err)
		}
	}

	if args.Demo {
		confidences := make([]float64, len(preds))
		for i, p := range preds {
			confidences[i] = p.Confidence
		}
		mean, _ := stats.Mean(confidences)
		min, _ := stats.Min(confidences)
		max, _ := stats.Max(confidences)
		log.Printf("confidence over %d queries: mean %.4f, min %.4f, max %.4f",
			len(preds), mean, min, max)
	}
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}
