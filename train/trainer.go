package train

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"log"
	"math"

	"github.com/officekit/intent/dataset"
	"github.com/officekit/intent/encoder"
	"github.com/officekit/intent/errors"
)

// DivergenceError indicates a non-finite loss during a forward/backward pass.
// It aborts the run: resuming from a diverged state would produce an
// unverifiable checkpoint.
type DivergenceError struct {
	Epoch int
	Batch int
	Loss  float64
}

func (e *DivergenceError) Error() string {
	return fmt.Sprintf("non-finite loss %v at epoch %d batch %d", e.Loss, e.Epoch, e.Batch)
}

// EpochStats is one completed epoch's record in the training history.
type EpochStats struct {
	TrainLoss    float64 `json:"train_loss"`
	ValLoss      float64 `json:"val_loss"`
	ValAccuracy  float64 `json:"val_accuracy"`
	LearningRate float64 `json:"learning_rate"`
}

// History is the append-only sequence of per-epoch records for one run.
type History []EpochStats

// WriteJSON writes the history to a JSON file.
func (h History) WriteJSON(path string) error {
	buf, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "error marshaling history")
	}
	return errors.WrapfOrNil(ioutil.WriteFile(path, buf, 0644), "error writing '%s'", path)
}

// Trainer drives epochs over the training set, validates after each one, and
// applies the early-stopping/checkpoint policy. It exclusively owns the
// encoder's weights for the duration of a run.
type Trainer struct {
	model  encoder.Model
	cfg    Config
	params []*encoder.Parameter

	trainLoader *dataset.Loader
	valLoader   *dataset.Loader

	sched *Schedule
	opt   *AdamW

	history     History
	bestValLoss float64
	bestWeights encoder.Weights
	patience    int
}

// NewTrainer validates the configuration and fixes the learning-rate
// schedule: total steps = batches per epoch x configured epochs, computed
// here once, before training, regardless of early stopping.
func NewTrainer(model encoder.Model, trainSet, valSet *dataset.Dataset, cfg Config, seed int64) (*Trainer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.NumEpochs > 0 && trainSet.Len() == 0 {
		return nil, errors.Errorf("training set is empty")
	}
	if cfg.NumEpochs > 0 && valSet.Len() == 0 {
		return nil, errors.Errorf("validation set is empty")
	}

	trainLoader, err := dataset.NewLoader(trainSet, cfg.BatchSize, true, seed)
	if err != nil {
		return nil, err
	}
	valLoader, err := dataset.NewLoader(valSet, cfg.BatchSize, false, 0)
	if err != nil {
		return nil, err
	}

	totalSteps := trainLoader.NumBatches() * cfg.NumEpochs
	sched := NewSchedule(cfg.LearningRate, cfg.WarmupSteps, totalSteps)
	params := model.Parameters()

	log.Printf("trainer: %d train batches, %d validation batches, %d total steps",
		trainLoader.NumBatches(), valLoader.NumBatches(), totalSteps)

	return &Trainer{
		model:       model,
		cfg:         cfg,
		params:      params,
		trainLoader: trainLoader,
		valLoader:   valLoader,
		sched:       sched,
		opt:         NewAdamW(params, sched, cfg.WeightDecay),
		bestValLoss: math.Inf(1),
	}, nil
}

// Run executes the training loop and returns the per-epoch history. On
// return the model holds the best-validation-loss weights seen during the
// run; with zero epochs the weights are untouched.
func (t *Trainer) Run() (History, error) {
	for epoch := 1; epoch <= t.cfg.NumEpochs; epoch++ {
		trainLoss, err := t.trainEpoch(epoch)
		if err != nil {
			return t.history, err
		}

		valLoss, valAcc, err := t.validate(epoch)
		if err != nil {
			return t.history, err
		}

		t.history = append(t.history, EpochStats{
			TrainLoss:    trainLoss,
			ValLoss:      valLoss,
			ValAccuracy:  valAcc,
			LearningRate: t.sched.Rate(),
		})
		log.Printf("epoch %d/%d: train_loss=%.4f val_loss=%.4f val_accuracy=%.4f lr=%.3e",
			epoch, t.cfg.NumEpochs, trainLoss, valLoss, valAcc, t.sched.Rate())

		// strict improvement only; a tie keeps the earliest-seen minimum
		if valLoss < t.bestValLoss {
			t.bestValLoss = valLoss
			t.bestWeights = t.model.Snapshot()
			t.patience = 0
			log.Println("new best validation loss")
		} else {
			t.patience++
			log.Printf("no improvement, patience %d/%d", t.patience, t.cfg.EarlyStoppingPatience)
			if t.patience >= t.cfg.EarlyStoppingPatience {
				log.Printf("early stopping after epoch %d", epoch)
				break
			}
		}
	}

	if t.bestWeights != nil {
		if err := t.model.Restore(t.bestWeights); err != nil {
			return t.history, errors.Wrapf(err, "error restoring best weights")
		}
		log.Printf("restored best weights (val_loss=%.4f)", t.bestValLoss)
	}
	return t.history, nil
}

// History returns the per-epoch records so far.
func (t *Trainer) History() History {
	return t.history
}

// BestValLoss returns the best validation loss seen, +Inf before any epoch
// completed.
func (t *Trainer) BestValLoss() float64 {
	return t.bestValLoss
}

func (t *Trainer) trainEpoch(epoch int) (float64, error) {
	var total float64
	var batchIdx int
	err := t.trainLoader.Iterate(func(b encoder.Batch) error {
		t.opt.ZeroGrad()
		out, err := t.model.Forward(b)
		if err != nil {
			return errors.Wrapf(err, "forward pass failed at epoch %d batch %d", epoch, batchIdx)
		}
		if !isFinite(out.Loss) {
			return &DivergenceError{Epoch: epoch, Batch: batchIdx, Loss: out.Loss}
		}
		if err := t.model.Backward(); err != nil {
			return errors.Wrapf(err, "backward pass failed at epoch %d batch %d", epoch, batchIdx)
		}
		ClipGradNorm(t.params, MaxGradNorm)
		t.opt.Step()
		t.sched.Step()

		total += out.Loss
		batchIdx++
		return nil
	})
	if err != nil {
		return 0, err
	}
	return total / float64(t.trainLoader.NumBatches()), nil
}

func (t *Trainer) validate(epoch int) (float64, float64, error) {
	var totalLoss float64
	var correct, count int
	var batchIdx int
	err := t.valLoader.Iterate(func(b encoder.Batch) error {
		out, err := t.model.Forward(b)
		if err != nil {
			return errors.Wrapf(err, "validation forward pass failed at epoch %d batch %d", epoch, batchIdx)
		}
		if !isFinite(out.Loss) {
			return &DivergenceError{Epoch: epoch, Batch: batchIdx, Loss: out.Loss}
		}
		for i, row := range out.Logits {
			if argmax(row) == b.LabelIDs[i] {
				correct++
			}
			count++
		}
		totalLoss += out.Loss
		batchIdx++
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return totalLoss / float64(t.valLoader.NumBatches()), float64(correct) / float64(count), nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// argmax breaks ties toward the lowest id for deterministic predictions.
func argmax(row []float64) int {
	best := 0
	for i, v := range row[1:] {
		if v > row[best] {
			best = i + 1
		}
	}
	return best
}
