// Package datagen synthesizes labeled office-domain queries by filling
// per-intent phrase templates with slot vocabulary. The output feeds the
// training and evaluation pipelines when no real query log is available.
package datagen

import (
	"encoding/json"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/officekit/intent/dataset"
	"github.com/officekit/intent/errors"
	"github.com/officekit/intent/labels"
)

// Generator produces deterministic synthetic examples for a seed.
type Generator struct {
	samplesPerIntent int
	rng              *rand.Rand
}

func NewGenerator(samplesPerIntent int, seed int64) (*Generator, error) {
	if samplesPerIntent <= 0 {
		return nil, errors.Errorf("samples per intent must be positive, got %d", samplesPerIntent)
	}
	return &Generator{
		samplesPerIntent: samplesPerIntent,
		rng:              rand.New(rand.NewSource(seed)),
	}, nil
}

// Generate returns samplesPerIntent examples for each intent, grouped by
// intent in canonical order.
func (g *Generator) Generate() []dataset.LabeledExample {
	examples := make([]dataset.LabeledExample, 0, g.samplesPerIntent*len(allTemplates))
	for _, it := range allTemplates {
		for i := 0; i < g.samplesPerIntent; i++ {
			examples = append(examples, dataset.LabeledExample{
				Text:  g.fill(it),
				Label: it.Intent,
			})
		}
	}
	return examples
}

func (g *Generator) fill(it intentTemplates) string {
	text := it.Templates[g.rng.Intn(len(it.Templates))]
	for _, slot := range slotOrder(text, it) {
		options := it.Vocab[slot]
		text = strings.ReplaceAll(text, "{"+slot+"}", options[g.rng.Intn(len(options))])
	}
	return text
}

// slotOrder lists the slots present in text in their first-occurrence order,
// so the fill sequence is stable across runs with the same seed.
func slotOrder(text string, it intentTemplates) []string {
	type hit struct {
		slot string
		pos  int
	}
	var hits []hit
	for slot := range it.Vocab {
		if pos := strings.Index(text, "{"+slot+"}"); pos >= 0 {
			hits = append(hits, hit{slot, pos})
		}
	}
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && hits[j].pos < hits[j-1].pos; j-- {
			hits[j], hits[j-1] = hits[j-1], hits[j]
		}
	}
	slots := make([]string, len(hits))
	for i, h := range hits {
		slots[i] = h.slot
	}
	return slots
}

// Split shuffles examples and splits them into train and test sets,
// stratified per intent so every intent keeps the same test fraction.
func (g *Generator) Split(examples []dataset.LabeledExample, testFraction float64) (train, test []dataset.LabeledExample, err error) {
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, errors.Errorf("test fraction must be in (0, 1), got %g", testFraction)
	}

	shuffled := make([]dataset.LabeledExample, len(examples))
	copy(shuffled, examples)
	g.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	byIntent := make(map[string][]dataset.LabeledExample)
	for _, ex := range shuffled {
		byIntent[ex.Label] = append(byIntent[ex.Label], ex)
	}
	for _, intent := range IntentNames {
		group := byIntent[intent]
		cut := int(float64(len(group)) * (1 - testFraction))
		train = append(train, group[:cut]...)
		test = append(test, group[cut:]...)
	}

	g.rng.Shuffle(len(train), func(i, j int) { train[i], train[j] = train[j], train[i] })
	g.rng.Shuffle(len(test), func(i, j int) { test[i], test[j] = test[j], test[i] })
	return train, test, nil
}

// SaveDataset writes train.csv, test.csv, matching JSON files, and the
// label mapping into dir.
func (g *Generator) SaveDataset(dir string, testFraction float64) (trainCount, testCount int, err error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, 0, errors.Wrapf(err, "error creating %s", dir)
	}

	train, test, err := g.Split(g.Generate(), testFraction)
	if err != nil {
		return 0, 0, err
	}

	if err := dataset.SaveCSV(filepath.Join(dir, "train.csv"), train); err != nil {
		return 0, 0, err
	}
	if err := dataset.SaveCSV(filepath.Join(dir, "test.csv"), test); err != nil {
		return 0, 0, err
	}
	if err := saveJSON(filepath.Join(dir, "train.json"), train); err != nil {
		return 0, 0, err
	}
	if err := saveJSON(filepath.Join(dir, "test.json"), test); err != nil {
		return 0, 0, err
	}

	codec, err := labels.NewCodec(IntentNames)
	if err != nil {
		return 0, 0, err
	}
	if err := codec.Save(dir); err != nil {
		return 0, 0, err
	}
	return len(train), len(test), nil
}

type jsonDataset struct {
	Texts  []string `json:"texts"`
	Labels []string `json:"labels"`
}

func saveJSON(path string, examples []dataset.LabeledExample) error {
	texts, intents := dataset.SplitColumns(examples)
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "error creating %s", path)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(jsonDataset{Texts: texts, Labels: intents}); err != nil {
		return errors.Wrapf(err, "error writing %s", path)
	}
	return f.Close()
}
