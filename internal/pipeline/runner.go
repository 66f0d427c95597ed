package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"subfix/internal/audio"
	"subfix/internal/correction"
	"subfix/internal/logging"
	"subfix/internal/segment"
	"subfix/internal/subtitle"
)

// Request is one correction job.
type Request struct {
	Audio    audio.Buffer
	Segments []segment.Raw
	// MediaDuration caps timestamps; zero falls back to the audio duration.
	MediaDuration float64
}

// Result carries the final segments, their serialized form, and every stage report.
type Result struct {
	Segments   []segment.Corrected
	Output     string
	Format     subtitle.Format
	Correction correction.Report
	Filter     subtitle.FilterResult
	Normalize  subtitle.NormalizeReport
}

// Runner executes correct, filter, normalize and serialize in sequence.
type Runner struct {
	opts   Options
	engine *correction.Engine
	filter *subtitle.Filter
	base   *slog.Logger
	logger *slog.Logger
}

// New builds a runner. A nil logger discards output.
func New(opts Options, logger *slog.Logger) *Runner {
	if opts.Format == "" {
		opts.Format = subtitle.FormatSRT
	}
	return &Runner{
		opts:   opts,
		engine: correction.NewEngine(opts.Correction, logger),
		filter: subtitle.NewFilter(logger),
		base:   logger,
		logger: logging.NewComponentLogger(logger, "pipeline"),
	}
}

// Run corrects req against its audio and renders the configured format. The
// context is checked between stages.
func (r *Runner) Run(ctx context.Context, req Request) (Result, error) {
	started := time.Now()

	corrected, report, err := r.engine.Correct(req.Audio, req.Segments)
	if err != nil {
		return Result{}, fmt.Errorf("correct segments: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	media := req.MediaDuration
	if media <= 0 {
		media = req.Audio.Duration()
	}
	result, err := r.finish(ctx, corrected, media)
	if err != nil {
		return Result{}, err
	}
	result.Correction = report

	r.logger.Info("correction run complete",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.Int("segments_in", len(req.Segments)),
		logging.Int("segments_out", len(result.Segments)),
		logging.Int("segments_corrected", report.Corrected),
		logging.String("format", string(result.Format)),
		logging.Duration("elapsed", time.Since(started)),
	)
	return result, nil
}

// Renormalize filters, normalizes and renders already-timed segments, such
// as cues read back from an SRT file.
func (r *Runner) Renormalize(ctx context.Context, segs []segment.Corrected, mediaDuration float64) (Result, error) {
	return r.finish(ctx, segs, mediaDuration)
}

func (r *Runner) finish(ctx context.Context, segs []segment.Corrected, mediaDuration float64) (Result, error) {
	result := Result{Format: r.opts.Format}

	if r.opts.FilterHallucinations {
		result.Filter = r.filter.Apply(segs, mediaDuration)
		segs = result.Filter.Segments
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	normOpts := r.opts.Normalize
	if mediaDuration > 0 {
		normOpts.MediaDuration = mediaDuration
	}
	normalized, normReport := subtitle.NewNormalizer(normOpts, r.base).Normalize(segs)
	result.Segments = normalized
	result.Normalize = normReport

	output, err := subtitle.Serialize(normalized, r.opts.Format)
	if err != nil {
		return Result{}, fmt.Errorf("serialize %s: %w", r.opts.Format, err)
	}
	result.Output = output
	return result, nil
}
