package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/alexflint/go-arg"
	"github.com/officekit/intent/checkpoint"
	"github.com/officekit/intent/dataset"
	"github.com/officekit/intent/encoder/hashembed"
	"github.com/officekit/intent/labels"
	"github.com/officekit/intent/train"
)

func main() {
	args := struct {
		Data      string `help:"directory with train.csv, test.csv and the label mapping"`
		Output    string `help:"directory for the checkpoint and training artifacts"`
		Config    string `help:"optional YAML file overriding the training settings"`
		VocabSize int    `help:"hashed vocabulary size"`
		EmbedDim  int    `help:"embedding dimension"`
		MaxLength int    `help:"token sequence length"`
		Seed      int64  `help:"random seed"`

		BatchSize             int
		LearningRate          float64
		NumEpochs             int
		WarmupSteps           int
		WeightDecay           float64
		EarlyStoppingPatience int
	}{
		Data:      "data",
		Output:    "models/intent_model",
		VocabSize: 8192,
		EmbedDim:  64,
		MaxLength: 128,
		Seed:      42,

		BatchSize:             16,
		LearningRate:          2e-5,
		NumEpochs:             3,
		WarmupSteps:           100,
		WeightDecay:           0.01,
		EarlyStoppingPatience: 3,
	}
	arg.MustParse(&args)

	cfg := train.Config{
		BatchSize:             args.BatchSize,
		LearningRate:          args.LearningRate,
		NumEpochs:             args.NumEpochs,
		WarmupSteps:           args.WarmupSteps,
		WeightDecay:           args.WeightDecay,
		EarlyStoppingPatience: args.EarlyStoppingPatience,
	}
	if args.Config != "" {
		loaded, err := train.LoadConfig(args.Config)
		if err != nil {
			log.Fatalln(err)
		}
		cfg = loaded
	}

	codec, err := labels.Load(args.Data)
	if err != nil {
		log.Fatalln(err)
	}
	log.Printf("loaded %d intents from %s", codec.Len(), args.Data)

	trainExamples, err := dataset.LoadCSV(filepath.Join(args.Data, "train.csv"))
	if err != nil {
		log.Fatalln(err)
	}
	valExamples, err := dataset.LoadCSV(filepath.Join(args.Data, "test.csv"))
	if err != nil {
		log.Fatalln(err)
	}
	log.Printf("loaded %d train and %d validation examples", len(trainExamples), len(valExamples))

	model, err := hashembed.New(hashembed.Config{
		VocabSize:  args.VocabSize,
		EmbedDim:   args.EmbedDim,
		NumClasses: codec.Len(),
		MaxLength:  args.MaxLength,
	}, args.Seed)
	if err != nil {
		log.Fatalln(err)
	}

	trainTexts, trainIntents := dataset.SplitColumns(trainExamples)
	trainSet, err := dataset.New(trainTexts, trainIntents, model, codec, args.MaxLength)
	if err != nil {
		log.Fatalln(err)
	}
	valTexts, valIntents := dataset.SplitColumns(valExamples)
	valSet, err := dataset.New(valTexts, valIntents, model, codec, args.MaxLength)
	if err != nil {
		log.Fatalln(err)
	}

	trainer, err := train.NewTrainer(model, trainSet, valSet, cfg, args.Seed)
	if err != nil {
		log.Fatalln(err)
	}
	history, err := trainer.Run()
	if err != nil {
		log.Fatalln(err)
	}
	log.Printf("best validation loss: %.4f", trainer.BestValLoss())

	if err := os.MkdirAll(args.Output, 0755); err != nil {
		log.Fatalln(err)
	}
	if err := checkpoint.Save(args.Output, model, codec); err != nil {
		log.Fatalln(err)
	}
	log.Printf("saved checkpoint to %s", args.Output)

	if err := history.WriteJSON(filepath.Join(args.Output, "training_history.json")); err != nil {
		log.Fatalln(err)
	}
	if err := history.RenderCurves(args.Output); err != nil {
		log.Fatalln(err)
	}
	log.Printf("wrote training history and curves to %s", args.Output)
}
