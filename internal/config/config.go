package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Analysis contains the STFT/envelope layout and frequency bands.
type Analysis struct {
	FrameLength             int     `toml:"frame_length"`
	HopLength               int     `toml:"hop_length"`
	SpeechBandLowHz         float64 `toml:"speech_band_low_hz"`
	SpeechBandHighHz        float64 `toml:"speech_band_high_hz"`
	LowBandLowHz            float64 `toml:"low_band_low_hz"`
	LowBandHighHz           float64 `toml:"low_band_high_hz"`
	EnvelopeThresholdRatio  float64 `toml:"envelope_threshold_ratio"`
	InterludeVariationRatio float64 `toml:"interlude_variation_ratio"`
	InterludeVariationMax   float64 `toml:"interlude_variation_max"`
}

// Correction contains the fusion rule thresholds.
type Correction struct {
	InterludePurityMax        float64 `toml:"interlude_purity_max"`
	LargeCorrectionSeconds    float64 `toml:"large_correction_seconds"`
	LargeCorrectionConfidence float64 `toml:"large_correction_confidence"`
	AmbiguousPurityMax        float64 `toml:"ambiguous_purity_max"`
	AmbiguousRatioMax         float64 `toml:"ambiguous_ratio_max"`
	AmbiguousConfidenceMin    float64 `toml:"ambiguous_confidence_min"`
	// Parallel runs the spectral and envelope analyzers concurrently.
	Parallel bool `toml:"parallel"`
}

// Normalize contains the output timing limits.
type Normalize struct {
	MinGapSeconds         float64 `toml:"min_gap_seconds"`
	MinDurationSeconds    float64 `toml:"min_duration_seconds"`
	ShortCueSeconds       float64 `toml:"short_cue_seconds"`
	SecondsPerChar        float64 `toml:"seconds_per_char"`
	LongTextChars         int     `toml:"long_text_chars"`
	LongTextMaxSeconds    float64 `toml:"long_text_max_seconds"`
	RepairDurationSeconds float64 `toml:"repair_duration_seconds"`
	FilterHallucinations  bool    `toml:"filter_hallucinations"`
}

// Output contains serialization defaults.
type Output struct {
	Format string `toml:"format"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format          string            `toml:"format"`
	Level           string            `toml:"level"`
	Dir             string            `toml:"dir"`
	ComponentLevels map[string]string `toml:"component_levels"`
}

// Config encapsulates all configuration values for subfix.
//
// Configuration sections by subsystem:
//   - Analysis: STFT and envelope framing, frequency bands, interlude test
//   - Correction: fusion rule thresholds
//   - Normalize: minimum gap/duration and text-length heuristics
//   - Output: default subtitle format
//   - Logging: log format, level, optional JSON log directory
type Config struct {
	Analysis   Analysis   `toml:"analysis"`
	Correction Correction `toml:"correction"`
	Normalize  Normalize  `toml:"normalize"`
	Output     Output     `toml:"output"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. Missing files are
// not an error: defaults are returned with exists=false.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("subfix.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Encode renders cfg as TOML.
func Encode(cfg *Config) (string, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return string(data), nil
}
