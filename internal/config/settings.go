package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings tunes the generation driver. Changing any value changes the output
// for a given seed.
type Settings struct {
	MaxTrials             int     `yaml:"max_trials" json:"max_trials"`
	SafetyFactor          int     `yaml:"safety_factor" json:"safety_factor"`
	NGram                 int     `yaml:"ngram" json:"ngram"`
	OverlapThreshold      float64 `yaml:"overlap_threshold" json:"overlap_threshold"`
	ParaphraseProbability float64 `yaml:"paraphrase_probability" json:"paraphrase_probability"`
	ParaphraseMinLength   int     `yaml:"paraphrase_min_length" json:"paraphrase_min_length"`
}

func DefaultSettings() Settings {
	return Settings{
		MaxTrials:             36,
		SafetyFactor:          50,
		NGram:                 5,
		OverlapThreshold:      0.02,
		ParaphraseProbability: 0.45,
		ParaphraseMinLength:   40,
	}
}

// LoadSettings overlays a YAML file on the defaults. An empty path returns the
// defaults unchanged.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read settings %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("decode settings %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("settings %s: %w", path, err)
	}
	return s, nil
}

func (s Settings) Validate() error {
	var errs []error
	if s.MaxTrials < 1 {
		errs = append(errs, fmt.Errorf("max_trials must be >= 1, got %d", s.MaxTrials))
	}
	if s.SafetyFactor < 1 {
		errs = append(errs, fmt.Errorf("safety_factor must be >= 1, got %d", s.SafetyFactor))
	}
	if s.NGram < 1 {
		errs = append(errs, fmt.Errorf("ngram must be >= 1, got %d", s.NGram))
	}
	if s.OverlapThreshold < 0 || s.OverlapThreshold > 1 {
		errs = append(errs, fmt.Errorf("overlap_threshold must be within [0,1], got %v", s.OverlapThreshold))
	}
	if s.ParaphraseProbability < 0 || s.ParaphraseProbability > 1 {
		errs = append(errs, fmt.Errorf("paraphrase_probability must be within [0,1], got %v", s.ParaphraseProbability))
	}
	if s.ParaphraseMinLength < 0 {
		errs = append(errs, fmt.Errorf("paraphrase_min_length must be >= 0, got %d", s.ParaphraseMinLength))
	}
	return errors.Join(errs...)
}

// String is a stable rendering used in run fingerprints.
func (s Settings) String() string {
	return fmt.Sprintf("trials=%d safety=%d n=%d overlap=%g para_p=%g para_min=%d",
		s.MaxTrials, s.SafetyFactor, s.NGram, s.OverlapThreshold, s.ParaphraseProbability, s.ParaphraseMinLength)
}
