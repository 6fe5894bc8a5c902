package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Config is the top-level configuration struct for filetrail.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Thresholds ThresholdsConfig `mapstructure:"thresholds"`
	HTML       HTMLConfig       `mapstructure:"html"`
	Output     OutputConfig     `mapstructure:"output"`
	Limit      int              `mapstructure:"limit"`
}

// ThresholdsConfig holds the similarity thresholds for rename and copy
// classification. Values are percentages written as "42" or "42%".
type ThresholdsConfig struct {
	Rename string `mapstructure:"rename"`
	Copy   string `mapstructure:"copy"`
}

// HTMLConfig holds HTML rendering settings.
type HTMLConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Renderer string `mapstructure:"renderer"`
}

// OutputConfig holds artifact output settings. An empty Dir derives the
// output directory from the tracked filename.
type OutputConfig struct {
	Dir      string `mapstructure:"dir"`
	Compress bool   `mapstructure:"compress"`
	Manifest bool   `mapstructure:"manifest"`
	Plot     bool   `mapstructure:"plot"`
}

// maxThresholdPercent is the upper bound for similarity thresholds.
const maxThresholdPercent = 100

// Sentinel errors for configuration validation.
var (
	// ErrInvalidRenameThreshold indicates thresholds.rename is not a valid percentage.
	ErrInvalidRenameThreshold = errors.New("thresholds.rename must be a percentage between 1 and 100")
	// ErrInvalidCopyThreshold indicates thresholds.copy is not a valid percentage.
	ErrInvalidCopyThreshold = errors.New("thresholds.copy must be a percentage between 1 and 100")
	// ErrInvalidLimit indicates the commit limit is negative.
	ErrInvalidLimit = errors.New("limit must be non-negative")
	// ErrThresholdOutOfRange indicates a threshold value outside 1..100.
	ErrThresholdOutOfRange = errors.New("threshold out of range")
)

// ParseThreshold parses a similarity threshold written as "42" or "42%" into
// a percentage between 1 and 100.
func ParseThreshold(value string) (uint16, error) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(value), "%")

	parsed, err := strconv.ParseUint(trimmed, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("parse threshold %q: %w", value, err)
	}

	if parsed < 1 || parsed > maxThresholdPercent {
		return 0, fmt.Errorf("parse threshold %q: %w", value, ErrThresholdOutOfRange)
	}

	return uint16(parsed), nil
}

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	_, renameErr := ParseThreshold(c.Thresholds.Rename)
	if renameErr != nil {
		return ErrInvalidRenameThreshold
	}

	_, copyErr := ParseThreshold(c.Thresholds.Copy)
	if copyErr != nil {
		return ErrInvalidCopyThreshold
	}

	if c.Limit < 0 {
		return ErrInvalidLimit
	}

	return nil
}
