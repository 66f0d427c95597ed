package correction

import (
	"context"
	"log/slog"
	"sort"

	"subfix/internal/envelope"
	"subfix/internal/logging"
	"subfix/internal/segment"
	"subfix/internal/spectral"
)

// SkipReason records why an analyzer produced no feature for a segment.
type SkipReason struct {
	Index    int
	Analyzer string
	Reason   error
}

// Report summarizes one Correct call.
type Report struct {
	Segments  int
	Corrected int
	// Rules counts segments changed per rule.
	Rules map[segment.Rule]int
	// Missing counts segments that lacked a spectral or envelope feature.
	Missing int
	Skips   []SkipReason
	// PassThrough is set when no audio analysis could run at all.
	PassThrough bool
	AudioError  error
	Decisions   []Decision
}

func newReport(decisions []Decision, specSkips []spectral.Skip, tempSkips []envelope.Skip) Report {
	r := Report{
		Segments:  len(decisions),
		Rules:     make(map[segment.Rule]int),
		Decisions: decisions,
	}
	for _, d := range decisions {
		if d.Missing {
			r.Missing++
			continue
		}
		if d.Rule != segment.RuleNone {
			r.Corrected++
			r.Rules[d.Rule]++
		}
	}
	for _, s := range specSkips {
		r.Skips = append(r.Skips, SkipReason{Index: s.Index, Analyzer: "spectral", Reason: s.Reason})
	}
	for _, s := range tempSkips {
		r.Skips = append(r.Skips, SkipReason{Index: s.Index, Analyzer: "envelope", Reason: s.Reason})
	}
	sort.SliceStable(r.Skips, func(i, j int) bool { return r.Skips[i].Index < r.Skips[j].Index })
	return r
}

// logReport logs the summary at INFO and each changed or skipped segment at DEBUG.
func (e *Engine) logReport(r Report, decisions []Decision) {
	attrs := []slog.Attr{
		logging.String(logging.FieldEventType, "correction_summary"),
		logging.Int("segments", r.Segments),
		logging.Int("segments_corrected", r.Corrected),
		logging.Int("segments_missing_features", r.Missing),
	}
	for _, rule := range []segment.Rule{segment.RuleInterlude, segment.RuleLargeCorrection, segment.RuleWeighted} {
		if n := r.Rules[rule]; n > 0 {
			attrs = append(attrs, logging.Int("rule_"+string(rule), n))
		}
	}
	e.logger.LogAttrs(context.Background(), slog.LevelInfo, "segment correction applied", attrs...)

	if !e.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	for _, d := range decisions {
		switch {
		case d.Missing:
			e.logger.Debug("segment correction decision",
				logging.String(logging.FieldDecisionType, "segment_correction"),
				logging.Int(logging.FieldSegmentIndex, d.Index),
				logging.String(logging.FieldDecisionResult, "passed_through"),
				logging.String(logging.FieldDecisionReason, "missing_feature"),
			)
		case d.Rule != segment.RuleNone:
			e.logger.Debug("segment correction decision",
				logging.String(logging.FieldDecisionType, "segment_correction"),
				logging.Int(logging.FieldSegmentIndex, d.Index),
				logging.String(logging.FieldDecisionResult, "corrected"),
				logging.String(logging.FieldDecisionReason, string(d.Rule)),
				logging.Float64("start", d.Start),
				logging.Float64("end", d.End),
				logging.Float64("speech_purity", d.Spectral.SpeechPurity),
				logging.Float64("confidence", d.Spectral.Confidence),
				logging.Float64("speech_ratio", d.Temporal.SpeechRatio),
			)
		}
	}
	for _, s := range r.Skips {
		e.logger.Debug("segment skipped by analyzer",
			logging.Int(logging.FieldSegmentIndex, s.Index),
			logging.String("analyzer", s.Analyzer),
			logging.Error(s.Reason),
		)
	}
}
