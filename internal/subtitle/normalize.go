package subtitle

import (
	"context"
	"log/slog"
	"math"

	"subfix/internal/logging"
	"subfix/internal/segment"
)

// MaxTimestamp is the last instant representable as HH:MM:SS,mmm within one day.
const MaxTimestamp = 86399.999

// epsilon absorbs float rounding when comparing boundaries.
const epsilon = 1e-6

const (
	DefaultMinGapSeconds         = 0.1
	DefaultMinDurationSeconds    = 0.3
	DefaultShortCueSeconds       = 0.5
	DefaultSecondsPerChar        = 0.08
	DefaultLongTextChars         = 20
	DefaultLongTextMaxSeconds    = 1.0
	DefaultRepairDurationSeconds = 1.0
)

// Removal reasons reported by Normalize.
const (
	RemovedEmptyText = "empty_text"
	RemovedDuplicate = "duplicate"
	RemovedInvalid   = "invalid_timestamp"
	RemovedNoRoom    = "no_room"
)

// Options controls normalization. Start from DefaultOptions; a zero MinGap is
// honoured as "no gap".
type Options struct {
	MinGap      float64
	MinDuration float64
	// ShortCue is the duration a too-short cue is extended to at minimum.
	ShortCue       float64
	SecondsPerChar float64
	// LongTextChars and LongTextMax extend wordy cues that flash by too quickly.
	LongTextChars  int
	LongTextMax    float64
	RepairDuration float64
	// MediaDuration, when positive, lowers the clamp ceiling below MaxTimestamp.
	MediaDuration float64
}

// DefaultOptions returns the standard normalization limits.
func DefaultOptions() Options {
	return Options{
		MinGap:         DefaultMinGapSeconds,
		MinDuration:    DefaultMinDurationSeconds,
		ShortCue:       DefaultShortCueSeconds,
		SecondsPerChar: DefaultSecondsPerChar,
		LongTextChars:  DefaultLongTextChars,
		LongTextMax:    DefaultLongTextMaxSeconds,
		RepairDuration: DefaultRepairDurationSeconds,
	}
}

func (o Options) withDefaults() Options {
	if o.MinGap < 0 {
		o.MinGap = 0
	}
	if o.MinDuration <= 0 {
		o.MinDuration = DefaultMinDurationSeconds
	}
	if o.ShortCue < o.MinDuration {
		o.ShortCue = math.Max(DefaultShortCueSeconds, o.MinDuration)
	}
	if o.RepairDuration <= 0 {
		o.RepairDuration = DefaultRepairDurationSeconds
	}
	return o
}

func (o Options) ceiling() float64 {
	if o.MediaDuration > 0 && o.MediaDuration < MaxTimestamp {
		return o.MediaDuration
	}
	return MaxTimestamp
}

// NormalizeReport counts what Normalize changed.
type NormalizeReport struct {
	Input    int
	Output   int
	Removed  map[string]int
	Clamped  int
	Repaired int
	// GapAdjusted counts segment pairs moved apart to honour MinGap.
	GapAdjusted int
	Extended    int
}

// Normalizer enforces the subtitle timing and text rules.
type Normalizer struct {
	opts   Options
	logger *slog.Logger
}

// NewNormalizer builds a normalizer. A nil logger discards output.
func NewNormalizer(opts Options, logger *slog.Logger) *Normalizer {
	return &Normalizer{
		opts:   opts.withDefaults(),
		logger: logging.NewComponentLogger(logger, "normalize"),
	}
}

// Normalize returns a new slice satisfying, for every survivor:
// 0 <= start < end <= ceiling, start[i+1] - end[i] >= MinGap, clean non-empty
// text, and sequential 1-based IDs in input order. Applying it to its own
// output changes nothing.
func (n *Normalizer) Normalize(segs []segment.Corrected) ([]segment.Corrected, NormalizeReport) {
	report := NormalizeReport{Input: len(segs), Removed: make(map[string]int)}

	out := n.cleanAndDedup(segs, &report)
	for i := range out {
		n.clamp(&out[i], &report)
		n.repair(&out[i], &report)
	}
	out = n.enforceGaps(out, &report)
	if report.Removed[RemovedNoRoom] > 0 {
		out = n.dropDuplicates(out, &report)
	}
	n.enforceDurations(out, &report)
	for i := range out {
		out[i].ID = i + 1
	}

	report.Output = len(out)
	n.logSummary(report)
	return out, report
}

func (n *Normalizer) cleanAndDedup(segs []segment.Corrected, report *NormalizeReport) []segment.Corrected {
	out := make([]segment.Corrected, 0, len(segs))
	for i, seg := range segs {
		if !seg.Finite() {
			report.Removed[RemovedInvalid]++
			logging.WarnWithContext(n.logger, "dropping segment with non-finite timestamps", "segment_dropped",
				logging.Int(logging.FieldSegmentIndex, i),
				logging.String(logging.FieldImpact, "segment text is missing from the output"),
			)
			continue
		}
		seg.Text = cleanText(seg.Text)
		if seg.Text == "" {
			report.Removed[RemovedEmptyText]++
			continue
		}
		if seg.Correction != nil {
			meta := *seg.Correction
			seg.Correction = &meta
		}
		out = append(out, seg)
	}
	return n.dropDuplicates(out, report)
}

// dropDuplicates removes segments whose text repeats the previous survivor.
func (n *Normalizer) dropDuplicates(segs []segment.Corrected, report *NormalizeReport) []segment.Corrected {
	if len(segs) < 2 {
		return segs
	}
	out := segs[:1]
	for _, seg := range segs[1:] {
		if out[len(out)-1].Text == seg.Text {
			report.Removed[RemovedDuplicate]++
			n.logger.Debug("dropping consecutive duplicate",
				logging.String("text", seg.Text),
				logging.Float64("start", seg.Start),
			)
			continue
		}
		out = append(out, seg)
	}
	return out
}

func (n *Normalizer) clamp(seg *segment.Corrected, report *NormalizeReport) {
	ceiling := n.opts.ceiling()
	start := math.Min(math.Max(seg.Start, 0), ceiling)
	end := math.Min(math.Max(seg.End, 0), ceiling)
	if start == seg.Start && end == seg.End {
		return
	}
	report.Clamped++
	n.logger.Debug("clamped segment bounds",
		logging.Float64("start", seg.Start),
		logging.Float64("end", seg.End),
		logging.Float64("clamped_start", start),
		logging.Float64("clamped_end", end),
	)
	seg.Start, seg.End = start, end
}

// repair gives an inverted or empty span the repair duration, shifted back
// when it would cross the ceiling.
func (n *Normalizer) repair(seg *segment.Corrected, report *NormalizeReport) {
	if seg.End-seg.Start > epsilon {
		return
	}
	ceiling := n.opts.ceiling()
	origStart, origEnd := seg.Start, seg.End
	seg.End = seg.Start + n.opts.RepairDuration
	if seg.End > ceiling {
		seg.End = ceiling
		seg.Start = math.Max(0, ceiling-n.opts.RepairDuration)
	}
	report.Repaired++
	logging.WarnWithContext(n.logger, "repaired segment with end before start", "segment_repaired",
		logging.Float64("start", origStart),
		logging.Float64("end", origEnd),
		logging.Float64("repaired_start", seg.Start),
		logging.Float64("repaired_end", seg.End),
	)
}

// enforceGaps walks forward and separates neighbours closer than MinGap. The
// boundary pair is split around its midpoint when both sides keep a positive
// length; otherwise the later segment is pushed after the earlier one,
// keeping its duration where the ceiling allows.
func (n *Normalizer) enforceGaps(segs []segment.Corrected, report *NormalizeReport) []segment.Corrected {
	if len(segs) < 2 {
		return segs
	}
	gap := n.opts.MinGap
	ceiling := n.opts.ceiling()

	out := segs[:1]
	for _, cur := range segs[1:] {
		prev := &out[len(out)-1]
		if cur.Start-prev.End >= gap-epsilon {
			out = append(out, cur)
			continue
		}

		mid := (prev.End + cur.Start) / 2
		prevEnd, curStart := mid-gap/2, mid+gap/2
		if prevEnd-prev.Start > epsilon && cur.End-curStart > epsilon {
			prev.End, cur.Start = prevEnd, curStart
		} else {
			duration := cur.End - cur.Start
			cur.Start = prev.End + gap
			cur.End = math.Min(cur.Start+duration, ceiling)
			if cur.End-cur.Start <= epsilon {
				report.Removed[RemovedNoRoom]++
				logging.WarnWithContext(n.logger, "no room left for segment before the media end", "segment_dropped",
					logging.Float64("start", cur.Start),
					logging.String("text", cur.Text),
					logging.String(logging.FieldImpact, "segment text is missing from the output"),
				)
				continue
			}
		}
		report.GapAdjusted++
		out = append(out, cur)
	}
	return out
}

// enforceDurations extends cues that are too short to read, never past the
// next cue's start minus MinGap or the ceiling, and never shrinking a cue.
func (n *Normalizer) enforceDurations(segs []segment.Corrected, report *NormalizeReport) {
	ceiling := n.opts.ceiling()
	for i := range segs {
		seg := &segs[i]
		duration := seg.End - seg.Start
		chars := charCount(seg.Text)

		var target float64
		switch {
		case duration < n.opts.MinDuration-epsilon:
			target = math.Max(n.opts.ShortCue, n.opts.SecondsPerChar*float64(chars))
		case chars > n.opts.LongTextChars && duration < n.opts.LongTextMax-epsilon:
			target = n.opts.SecondsPerChar * float64(chars)
		default:
			continue
		}

		limit := ceiling
		if i+1 < len(segs) {
			limit = math.Min(limit, segs[i+1].Start-n.opts.MinGap)
		}
		end := math.Min(seg.Start+target, limit)
		if end > seg.End+epsilon {
			seg.End = end
			report.Extended++
		}
	}
}

func (n *Normalizer) logSummary(r NormalizeReport) {
	attrs := []slog.Attr{
		logging.String(logging.FieldEventType, "normalize_summary"),
		logging.Int("segments_in", r.Input),
		logging.Int("segments_out", r.Output),
		logging.Int("clamped", r.Clamped),
		logging.Int("repaired", r.Repaired),
		logging.Int("gap_adjusted", r.GapAdjusted),
		logging.Int("extended", r.Extended),
	}
	for _, reason := range []string{RemovedInvalid, RemovedEmptyText, RemovedDuplicate, RemovedNoRoom} {
		if c := r.Removed[reason]; c > 0 {
			attrs = append(attrs, logging.Int("removed_"+reason, c))
		}
	}
	n.logger.LogAttrs(context.Background(), slog.LevelInfo, "segments normalized", attrs...)
}
