package main

import (
	"log"

	"github.com/alexflint/go-arg"
	"github.com/officekit/intent/datagen"
)

func main() {
	args := struct {
		Output           string  `arg:"positional" help:"directory for the generated dataset"`
		SamplesPerIntent int     `help:"number of examples to generate per intent"`
		TestFraction     float64 `help:"fraction of examples held out for testing"`
		Seed             int64   `help:"random seed"`
	}{
		Output:           "data",
		SamplesPerIntent: 100,
		TestFraction:     0.2,
		Seed:             42,
	}
	arg.MustParse(&args)

	gen, err := datagen.NewGenerator(args.SamplesPerIntent, args.Seed)
	if err != nil {
		log.Fatalln(err)
	}

	trainCount, testCount, err := gen.SaveDataset(args.Output, args.TestFraction)
	if err != nil {
		log.Fatalln(err)
	}

	log.Printf("wrote dataset to %s: %d train, %d test, %d intents",
		args.Output, trainCount, testCount, len(datagen.IntentNames))
}
