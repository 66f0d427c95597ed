package spectral

import (
	"fmt"
	"log/slog"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"subfix/internal/audio"
	"subfix/internal/faults"
	"subfix/internal/logging"
	"subfix/internal/segment"
)

// epsilon guards the energy ratios against division by zero.
const epsilon = 1e-10

// Feature summarizes the spectral content of one segment.
type Feature struct {
	SpeechEnergy   float64 `json:"speech_energy"`   // mean magnitude in the speech band
	TotalEnergy    float64 `json:"total_energy"`    // mean magnitude over all bins
	SpeechPurity   float64 `json:"speech_purity"`   // speech/total, clamped to [0,1]
	MusicIndicator float64 `json:"music_indicator"` // low band/total, clamped to [0,1]
	IsInterlude    bool    `json:"is_interlude"`
	Confidence     float64 `json:"confidence"` // purity * (1 - music)
	// NoSignal marks a silent slice; every ratio is zero.
	NoSignal bool `json:"no_signal,omitempty"`
}

// Skip records a segment that received no feature.
type Skip struct {
	Index  int
	Reason error
}

// Result holds the features keyed by segment index plus the skipped segments.
type Result struct {
	Features map[int]Feature
	Skipped  []Skip
}

// Lookup returns the feature for segment i, if one was produced.
func (r Result) Lookup(i int) (Feature, bool) {
	f, ok := r.Features[i]
	return f, ok
}

// Analyzer computes spectral features for transcript segments.
type Analyzer struct {
	opts   Options
	logger *slog.Logger
}

// NewAnalyzer builds an analyzer; zero-valued options fall back to defaults.
func NewAnalyzer(opts Options, logger *slog.Logger) *Analyzer {
	return &Analyzer{
		opts:   opts.withDefaults(),
		logger: logging.NewComponentLogger(logger, "spectral"),
	}
}

// Analyze scores every segment against one STFT of buf. It never fails: an
// unusable buffer yields an empty result and unusable segments are skipped.
func (a *Analyzer) Analyze(buf audio.Buffer, segs []segment.Raw) Result {
	result := Result{Features: make(map[int]Feature)}
	if err := buf.Check(); err != nil {
		a.logger.Debug("spectral analysis skipped", logging.Error(err))
		return result
	}

	bands := a.computeBands(buf)
	for i, seg := range segs {
		lo, hi, err := a.frameRange(seg, buf.SampleRate(), len(bands.total))
		if err != nil {
			result.Skipped = append(result.Skipped, Skip{Index: i, Reason: err})
			continue
		}
		result.Features[i] = a.feature(bands, lo, hi)
	}

	a.logger.Debug("spectral analysis complete",
		logging.Int("frames", len(bands.total)),
		logging.Int("features", len(result.Features)),
		logging.Int("skipped", len(result.Skipped)),
	)
	return result
}

// bandFrames holds per-frame mean magnitudes for each band of interest.
type bandFrames struct {
	speech []float64
	low    []float64
	total  []float64
}

// computeBands runs the STFT once and reduces every frame to its band means.
// The per-segment energies are means over frames of these values, which equals
// the mean over the 2-D slice because each frame contributes the same bins.
func (a *Analyzer) computeBands(buf audio.Buffer) bandFrames {
	n := a.opts.FrameLength
	hop := a.opts.HopLength
	sr := float64(buf.SampleRate())
	frames := audio.FrameCount(buf.Len(), hop)

	win := make([]float64, n)
	for i := range win {
		win[i] = 1
	}
	window.Hann(win)

	speechLo, speechHi := a.binRange(a.opts.SpeechLowHz, a.opts.SpeechHighHz, sr)
	lowLo, lowHi := a.binRange(a.opts.LowBandLowHz, a.opts.LowBandHighHz, sr)

	fft := fourier.NewFFT(n)
	seq := make([]float64, n)
	coeffs := make([]complex128, n/2+1)
	mags := make([]float64, n/2+1)

	out := bandFrames{
		speech: make([]float64, frames),
		low:    make([]float64, frames),
		total:  make([]float64, frames),
	}
	for k := 0; k < frames; k++ {
		audio.CenteredFrame(seq, buf.Samples(), k, hop)
		floats.Mul(seq, win)
		coeffs = fft.Coefficients(coeffs, seq)
		for b, c := range coeffs {
			mags[b] = cmplx.Abs(c)
		}
		out.total[k] = stat.Mean(mags, nil)
		out.speech[k] = bandMean(mags, speechLo, speechHi)
		out.low[k] = bandMean(mags, lowLo, lowHi)
	}
	return out
}

// binRange returns the half-open bin interval whose centre frequencies fall in
// [loHz, hiHz].
func (a *Analyzer) binRange(loHz, hiHz, sampleRate float64) (int, int) {
	n := a.opts.FrameLength
	bins := n/2 + 1
	resolution := sampleRate / float64(n)
	lo := int(math.Ceil(loHz / resolution))
	hi := int(math.Floor(hiHz/resolution)) + 1
	if lo < 0 {
		lo = 0
	}
	if hi > bins {
		hi = bins
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

func bandMean(mags []float64, lo, hi int) float64 {
	if hi <= lo {
		return 0
	}
	return floats.Sum(mags[lo:hi]) / float64(hi-lo)
}

// frameRange maps a segment to its half-open frame interval.
func (a *Analyzer) frameRange(seg segment.Raw, sampleRate, frames int) (int, int, error) {
	if !seg.Finite() {
		return 0, 0, faults.Wrap(faults.ErrInvalidTimestamp, "spectral", "frame range", "segment bounds are not finite", nil)
	}
	lo := audio.FrameIndex(seg.Start, sampleRate, a.opts.HopLength)
	hi := audio.FrameIndex(seg.End, sampleRate, a.opts.HopLength)
	switch {
	case lo < 0:
		return 0, 0, faults.Wrap(faults.ErrSegmentOutOfRange, "spectral", "frame range",
			fmt.Sprintf("start %.3fs precedes the audio", seg.Start), nil)
	case hi > frames:
		return 0, 0, faults.Wrap(faults.ErrSegmentOutOfRange, "spectral", "frame range",
			fmt.Sprintf("end %.3fs exceeds the audio", seg.End), nil)
	case hi-lo < 1:
		return 0, 0, faults.Wrap(faults.ErrSegmentOutOfRange, "spectral", "frame range",
			fmt.Sprintf("segment %.3f-%.3fs spans less than one frame", seg.Start, seg.End), nil)
	}
	return lo, hi, nil
}

func (a *Analyzer) feature(b bandFrames, lo, hi int) Feature {
	speech := b.speech[lo:hi]
	low := b.low[lo:hi]
	total := stat.Mean(b.total[lo:hi], nil)
	if total <= 0 {
		return Feature{NoSignal: true}
	}

	speechEnergy := stat.Mean(speech, nil)
	lowEnergy := stat.Mean(low, nil)
	purity := clampUnit(speechEnergy / (total + epsilon))
	music := clampUnit(lowEnergy / (total + epsilon))

	return Feature{
		SpeechEnergy:   speechEnergy,
		TotalEnergy:    total,
		SpeechPurity:   purity,
		MusicIndicator: music,
		IsInterlude:    isInterlude(low, speech, a.opts),
		Confidence:     purity * (1 - music),
	}
}

// isInterlude detects a persistently flat low-frequency bed with little
// speech-band modulation.
func isInterlude(low, speech []float64, opts Options) bool {
	lowVar := stat.PopStdDev(low, nil)
	speechVar := stat.PopStdDev(speech, nil)
	return lowVar < opts.InterludeVariationRatio*speechVar && speechVar < opts.InterludeVariationMax
}

func clampUnit(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
