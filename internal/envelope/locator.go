package envelope

import (
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"

	"subfix/internal/audio"
	"subfix/internal/faults"
	"subfix/internal/logging"
	"subfix/internal/segment"
)

const (
	DefaultFrameLength    = 2048
	DefaultHopLength      = 512
	DefaultThresholdRatio = 0.3
)

// Options controls the envelope layout and the onset threshold.
type Options struct {
	FrameLength int
	HopLength   int
	// ThresholdRatio is the fraction of a segment's peak RMS that counts as speech.
	ThresholdRatio float64
}

// DefaultOptions returns the standard envelope layout.
func DefaultOptions() Options {
	return Options{
		FrameLength:    DefaultFrameLength,
		HopLength:      DefaultHopLength,
		ThresholdRatio: DefaultThresholdRatio,
	}
}

func (o Options) withDefaults() Options {
	if o.FrameLength <= 0 {
		o.FrameLength = DefaultFrameLength
	}
	if o.HopLength <= 0 {
		o.HopLength = DefaultHopLength
	}
	if o.ThresholdRatio <= 0 || o.ThresholdRatio >= 1 {
		o.ThresholdRatio = DefaultThresholdRatio
	}
	return o
}

// Feature describes where speech starts and ends inside one segment.
type Feature struct {
	PreciseStart    float64 `json:"precise_start"`
	PreciseEnd      float64 `json:"precise_end"`
	StartCorrection float64 `json:"start_correction"` // PreciseStart - raw start
	EndCorrection   float64 `json:"end_correction"`   // PreciseEnd - raw end
	SpeechDetected  bool    `json:"speech_detected"`
	SpeechRatio     float64 `json:"speech_ratio"` // fraction of frames above threshold
}

// Skip records a segment that received no feature.
type Skip struct {
	Index  int
	Reason error
}

// Result holds features keyed by segment index plus the skipped segments.
type Result struct {
	Features map[int]Feature
	Skipped  []Skip
}

// Lookup returns the feature for segment i, if one was produced.
func (r Result) Lookup(i int) (Feature, bool) {
	f, ok := r.Features[i]
	return f, ok
}

// Locator finds precise speech boundaries.
type Locator struct {
	opts   Options
	logger *slog.Logger
}

// NewLocator builds a locator; zero-valued options fall back to defaults.
func NewLocator(opts Options, logger *slog.Logger) *Locator {
	return &Locator{
		opts:   opts.withDefaults(),
		logger: logging.NewComponentLogger(logger, "envelope"),
	}
}

// Analyze computes one RMS envelope for buf and derives a Feature per segment.
// An unusable buffer yields an empty result.
func (l *Locator) Analyze(buf audio.Buffer, segs []segment.Raw) Result {
	result := Result{Features: make(map[int]Feature)}
	if err := buf.Check(); err != nil {
		l.logger.Debug("envelope analysis skipped", logging.Error(err))
		return result
	}

	rms := l.envelope(buf)
	for i, seg := range segs {
		lo, hi, err := l.frameRange(seg, buf.SampleRate(), len(rms))
		if err != nil {
			result.Skipped = append(result.Skipped, Skip{Index: i, Reason: err})
			continue
		}
		result.Features[i] = l.feature(seg, rms[lo:hi], lo, buf.SampleRate())
	}

	l.logger.Debug("envelope analysis complete",
		logging.Int("frames", len(rms)),
		logging.Int("features", len(result.Features)),
		logging.Int("skipped", len(result.Skipped)),
	)
	return result
}

// envelope returns the RMS of every centered frame.
func (l *Locator) envelope(buf audio.Buffer) []float64 {
	hop := l.opts.HopLength
	frames := audio.FrameCount(buf.Len(), hop)
	seq := make([]float64, l.opts.FrameLength)
	rms := make([]float64, frames)
	for k := range rms {
		audio.CenteredFrame(seq, buf.Samples(), k, hop)
		rms[k] = math.Sqrt(floats.Dot(seq, seq) / float64(len(seq)))
	}
	return rms
}

// frameRange maps a segment to envelope frames, clamping the end to the
// envelope length.
func (l *Locator) frameRange(seg segment.Raw, sampleRate, frames int) (int, int, error) {
	if !seg.Finite() {
		return 0, 0, faults.Wrap(faults.ErrInvalidTimestamp, "envelope", "frame range", "segment bounds are not finite", nil)
	}
	lo := audio.FrameIndex(seg.Start, sampleRate, l.opts.HopLength)
	hi := audio.FrameIndex(seg.End, sampleRate, l.opts.HopLength)
	if lo < 0 {
		return 0, 0, faults.Wrap(faults.ErrSegmentOutOfRange, "envelope", "frame range",
			fmt.Sprintf("start %.3fs precedes the audio", seg.Start), nil)
	}
	if hi > frames {
		hi = frames
	}
	if hi <= lo {
		return 0, 0, faults.Wrap(faults.ErrSegmentOutOfRange, "envelope", "frame range",
			fmt.Sprintf("segment %.3f-%.3fs covers no envelope frames", seg.Start, seg.End), nil)
	}
	return lo, hi, nil
}

func (l *Locator) feature(seg segment.Raw, slice []float64, offset, sampleRate int) Feature {
	threshold := l.opts.ThresholdRatio * floats.Max(slice)

	first, last, count := -1, -1, 0
	for i, v := range slice {
		if v <= threshold {
			continue
		}
		if first < 0 {
			first = i
		}
		last = i
		count++
	}
	if first < 0 {
		return Feature{
			PreciseStart: seg.Start,
			PreciseEnd:   seg.End,
		}
	}

	start := audio.FrameTime(offset+first, sampleRate, l.opts.HopLength)
	end := audio.FrameTime(offset+last, sampleRate, l.opts.HopLength)
	return Feature{
		PreciseStart:    start,
		PreciseEnd:      end,
		StartCorrection: start - seg.Start,
		EndCorrection:   end - seg.End,
		SpeechDetected:  true,
		SpeechRatio:     float64(count) / float64(len(slice)),
	}
}
