// Package train drives fine-tuning: batch scheduling over epochs, the
// optimizer and learning-rate schedule, validation, early stopping, and
// best-checkpoint tracking.
package train

import (
	"io/ioutil"

	yaml "gopkg.in/yaml.v2"

	"github.com/officekit/intent/errors"
)

// ConfigurationError indicates an invalid trainer configuration, surfaced at
// run start.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "invalid configuration: " + e.Field + ": " + e.Reason
}

// Config is the full hyperparameter surface of a training run. Every field is
// required; there are no implicit defaults beyond what the caller supplies.
type Config struct {
	BatchSize             int     `yaml:"batch_size"`
	LearningRate          float64 `yaml:"learning_rate"`
	NumEpochs             int     `yaml:"num_epochs"`
	WarmupSteps           int     `yaml:"warmup_steps"`
	WeightDecay           float64 `yaml:"weight_decay"`
	EarlyStoppingPatience int     `yaml:"early_stopping_patience"`
}

// Validate surfaces detectable configuration problems before training starts.
// NumEpochs of zero is tolerated: the run produces the untouched initial
// weights.
func (c Config) Validate() error {
	if c.BatchSize < 1 {
		return &ConfigurationError{Field: "batch_size", Reason: "must be positive"}
	}
	if c.LearningRate <= 0 {
		return &ConfigurationError{Field: "learning_rate", Reason: "must be positive"}
	}
	if c.NumEpochs < 0 {
		return &ConfigurationError{Field: "num_epochs", Reason: "must be non-negative"}
	}
	if c.WarmupSteps < 0 {
		return &ConfigurationError{Field: "warmup_steps", Reason: "must be non-negative"}
	}
	if c.WeightDecay < 0 {
		return &ConfigurationError{Field: "weight_decay", Reason: "must be non-negative"}
	}
	if c.EarlyStoppingPatience < 0 {
		return &ConfigurationError{Field: "early_stopping_patience", Reason: "must be non-negative"}
	}
	return nil
}

// LoadConfig reads a training configuration from a YAML file.
func LoadConfig(path string) (Config, error) {
	buf, err := ioutil.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "error reading config '%s'", path)
	}
	var cfg Config
	if err := yaml.UnmarshalStrict(buf, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "error parsing config '%s'", path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
