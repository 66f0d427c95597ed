package correction

import (
	"log/slog"

	"golang.org/x/sync/errgroup"

	"subfix/internal/audio"
	"subfix/internal/envelope"
	"subfix/internal/faults"
	"subfix/internal/logging"
	"subfix/internal/segment"
	"subfix/internal/spectral"
)

// Options configures an Engine. Zero values fall back to package defaults.
type Options struct {
	Spectral   spectral.Options
	Envelope   envelope.Options
	Thresholds Thresholds
	// Sequential disables running the two analyzers concurrently.
	Sequential bool
}

// DefaultOptions returns the standard engine configuration.
func DefaultOptions() Options {
	return Options{
		Spectral:   spectral.DefaultOptions(),
		Envelope:   envelope.DefaultOptions(),
		Thresholds: DefaultThresholds(),
	}
}

// Engine runs both analyzers over a buffer and fuses their features.
type Engine struct {
	opts     Options
	spectral *spectral.Analyzer
	envelope *envelope.Locator
	logger   *slog.Logger
}

// NewEngine builds an engine. A nil logger discards output.
func NewEngine(opts Options, logger *slog.Logger) *Engine {
	if opts.Thresholds == (Thresholds{}) {
		opts.Thresholds = DefaultThresholds()
	}
	return &Engine{
		opts:     opts,
		spectral: spectral.NewAnalyzer(opts.Spectral, logger),
		envelope: envelope.NewLocator(opts.Envelope, logger),
		logger:   logging.NewComponentLogger(logger, "correction"),
	}
}

// Correct returns one corrected segment per input segment, in input order.
// Missing or empty audio is not an error: the segments pass through unchanged.
// Negative sample rates are rejected earlier by audio.NewBuffer.
func (e *Engine) Correct(buf audio.Buffer, segs []segment.Raw) ([]segment.Corrected, Report, error) {
	if err := buf.Check(); err != nil {
		if !faults.Degradable(err) {
			return nil, Report{}, err
		}
		logging.WarnWithContext(e.logger, "audio unavailable; passing segments through", "audio_unavailable",
			logging.Error(err),
			logging.Int("segments", len(segs)),
			logging.String(logging.FieldErrorHint, "check the decoded audio and its sample rate"),
			logging.String(logging.FieldImpact, "segment timings were not corrected"),
		)
		report := Report{Segments: len(segs), PassThrough: true, AudioError: err}
		return segment.FromRaw(segs), report, nil
	}

	spec, temp := e.analyze(buf, segs)
	out, decisions := fuse(segs, spec, temp, e.opts.Thresholds)

	report := newReport(decisions, spec.Skipped, temp.Skipped)
	e.logReport(report, decisions)
	return out, report, nil
}

// analyze runs the spectral and envelope passes, concurrently unless disabled.
// Both only read buf and write their own result.
func (e *Engine) analyze(buf audio.Buffer, segs []segment.Raw) (spectral.Result, envelope.Result) {
	var (
		spec spectral.Result
		temp envelope.Result
	)
	if e.opts.Sequential {
		return e.spectral.Analyze(buf, segs), e.envelope.Analyze(buf, segs)
	}

	var g errgroup.Group
	g.Go(func() error {
		spec = e.spectral.Analyze(buf, segs)
		return nil
	})
	g.Go(func() error {
		temp = e.envelope.Analyze(buf, segs)
		return nil
	})
	_ = g.Wait()
	return spec, temp
}
