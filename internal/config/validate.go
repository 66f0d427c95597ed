package config

import (
	"errors"
	"fmt"
	"sort"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAnalysis(); err != nil {
		return err
	}
	if err := c.validateCorrection(); err != nil {
		return err
	}
	if err := c.validateNormalize(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateAnalysis() error {
	a := c.Analysis
	if a.FrameLength <= 0 || a.FrameLength%2 != 0 {
		return errors.New("analysis.frame_length must be a positive even number")
	}
	if a.HopLength <= 0 || a.HopLength > a.FrameLength {
		return errors.New("analysis.hop_length must be positive and not exceed analysis.frame_length")
	}
	if a.SpeechBandLowHz < 0 || a.SpeechBandHighHz <= a.SpeechBandLowHz {
		return errors.New("analysis.speech_band_high_hz must be greater than analysis.speech_band_low_hz")
	}
	if a.LowBandLowHz < 0 || a.LowBandHighHz <= a.LowBandLowHz {
		return errors.New("analysis.low_band_high_hz must be greater than analysis.low_band_low_hz")
	}
	if err := ensureUnitRange(map[string]float64{
		"analysis.envelope_threshold_ratio":  a.EnvelopeThresholdRatio,
		"analysis.interlude_variation_ratio": a.InterludeVariationRatio,
	}); err != nil {
		return err
	}
	if a.InterludeVariationMax <= 0 {
		return errors.New("analysis.interlude_variation_max must be positive")
	}
	return nil
}

func (c *Config) validateCorrection() error {
	r := c.Correction
	if err := ensureUnitRange(map[string]float64{
		"correction.interlude_purity_max":        r.InterludePurityMax,
		"correction.large_correction_confidence": r.LargeCorrectionConfidence,
		"correction.ambiguous_purity_max":        r.AmbiguousPurityMax,
		"correction.ambiguous_ratio_max":         r.AmbiguousRatioMax,
		"correction.ambiguous_confidence_min":    r.AmbiguousConfidenceMin,
	}); err != nil {
		return err
	}
	if r.LargeCorrectionSeconds <= 0 {
		return errors.New("correction.large_correction_seconds must be positive")
	}
	return nil
}

func (c *Config) validateNormalize() error {
	n := c.Normalize
	if n.MinGapSeconds < 0 {
		return errors.New("normalize.min_gap_seconds must not be negative")
	}
	if n.MinDurationSeconds <= 0 {
		return errors.New("normalize.min_duration_seconds must be positive")
	}
	if n.ShortCueSeconds < n.MinDurationSeconds {
		return errors.New("normalize.short_cue_seconds must be at least normalize.min_duration_seconds")
	}
	if n.SecondsPerChar < 0 || n.LongTextChars < 0 || n.LongTextMaxSeconds < 0 {
		return errors.New("normalize text duration estimates must not be negative")
	}
	if n.RepairDurationSeconds <= 0 {
		return errors.New("normalize.repair_duration_seconds must be positive")
	}
	return nil
}

func (c *Config) validateOutput() error {
	switch c.Output.Format {
	case "srt", "vtt", "txt":
		return nil
	default:
		return fmt.Errorf("output.format must be one of srt, vtt, txt (got %q)", c.Output.Format)
	}
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	if err := validLevel("logging.level", c.Logging.Level); err != nil {
		return err
	}
	for component, level := range c.Logging.ComponentLevels {
		if err := validLevel("logging.component_levels."+component, level); err != nil {
			return err
		}
	}
	return nil
}

func validLevel(key, level string) error {
	switch level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("%s must be one of debug, info, warn, error (got %q)", key, level)
	}
}

// ensureUnitRange checks every value lies in [0, 1]; keys are checked in sorted
// order so the reported error is stable.
func ensureUnitRange(values map[string]float64) error {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if v := values[key]; v < 0 || v > 1 {
			return fmt.Errorf("%s must be between 0 and 1", key)
		}
	}
	return nil
}
