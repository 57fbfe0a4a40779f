package ranking

import (
	"fmt"
	"runtime"
)

// Config holds the weights used to combine skill and text scores.
type Config struct {
	SkillWeight float64 `yaml:"skill_weight"` // default: 0.6
	TextWeight  float64 `yaml:"text_weight"`  // default: 0.4

	// Workers bounds how many candidates are scored concurrently.
	Workers int `yaml:"workers"` // default: GOMAXPROCS
}

// DefaultConfig returns the default ranking configuration.
func DefaultConfig() *Config {
	return &Config{
		SkillWeight: 0.6,
		TextWeight:  0.4,
		Workers:     runtime.GOMAXPROCS(0),
	}
}

// ApplyDefaults fills in zero values with defaults. Weights are replaced only
// when both are zero.
func (c *Config) ApplyDefaults() {
	defaults := DefaultConfig()

	if c.SkillWeight == 0 && c.TextWeight == 0 {
		c.SkillWeight = defaults.SkillWeight
		c.TextWeight = defaults.TextWeight
	}
	if c.Workers <= 0 {
		c.Workers = defaults.Workers
	}
}

// Validate rejects negative weights.
func (c *Config) Validate() error {
	if c.SkillWeight < 0 || c.TextWeight < 0 {
		return fmt.Errorf("%w: weights must be non-negative (skill=%v, text=%v)",
			ErrInvalidInput, c.SkillWeight, c.TextWeight)
	}
	return nil
}
