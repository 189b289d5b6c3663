// Package checkpoint persists a trained classifier as a directory holding
// gob-encoded weights plus the label mapping file. The two halves travel
// together: loading weights without their paired mapping silently permutes
// class ids, so Load refuses a directory missing either one.
package checkpoint

import (
	"encoding/gob"
	"os"
	"path/filepath"
	"time"

	"github.com/officekit/intent/encoder"
	"github.com/officekit/intent/encoder/hashembed"
	"github.com/officekit/intent/errors"
	"github.com/officekit/intent/labels"
)

// WeightsFilename is the gob-encoded weight file inside a checkpoint
// directory.
const WeightsFilename = "weights.gob"

// fileCheckpoint is the on-disk layout of the weight file.
type fileCheckpoint struct {
	CreatedAt time.Time
	Arch      hashembed.Config
	Weights   encoder.Weights
}

// Save writes the model's weights and the codec's label mapping into dir.
func Save(dir string, model *hashembed.Model, codec *labels.Codec) error {
	if model.NumClasses() != codec.Len() {
		return errors.Errorf("model has %d classes but codec has %d intents", model.NumClasses(), codec.Len())
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "error creating checkpoint directory '%s'", dir)
	}

	path := filepath.Join(dir, WeightsFilename)
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "error creating '%s'", path)
	}
	defer f.Close()

	ckpt := fileCheckpoint{
		CreatedAt: time.Now(),
		Arch:      model.Config(),
		Weights:   model.Snapshot(),
	}
	if err := gob.NewEncoder(f).Encode(ckpt); err != nil {
		return errors.Wrapf(err, "error encoding '%s'", path)
	}

	return codec.Save(dir)
}

// Load rebuilds the model and its paired label codec from dir.
func Load(dir string) (*hashembed.Model, *labels.Codec, error) {
	codec, err := labels.Load(dir)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "checkpoint '%s' is missing a usable label mapping", dir)
	}

	path := filepath.Join(dir, WeightsFilename)
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "error opening '%s'", path)
	}
	defer f.Close()

	var ckpt fileCheckpoint
	if err := gob.NewDecoder(f).Decode(&ckpt); err != nil {
		return nil, nil, errors.Wrapf(err, "error decoding '%s'", path)
	}
	if ckpt.Arch.NumClasses != codec.Len() {
		return nil, nil, errors.Errorf("checkpoint '%s' has %d classes but its label mapping has %d intents", dir, ckpt.Arch.NumClasses, codec.Len())
	}

	model, err := hashembed.New(ckpt.Arch, 0)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "invalid architecture in '%s'", path)
	}
	if err := model.Restore(ckpt.Weights); err != nil {
		return nil, nil, errors.Wrapf(err, "error restoring weights from '%s'", path)
	}
	return model, codec, nil
}
