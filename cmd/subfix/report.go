package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"subfix/internal/correction"
	"subfix/internal/pipeline"
	"subfix/internal/segment"
	"subfix/internal/subtitle"
)

var correctionColumns = []tableColumn{
	{Header: "#", Right: true},
	{Header: "Rule"},
	{Header: "Start", Right: true},
	{Header: "End", Right: true},
	{Header: "Purity", Right: true},
	{Header: "Confidence", Right: true},
	{Header: "Speech", Right: true},
}

// renderCorrectionReport formats the changed segments as a table followed by
// one summary line per stage.
func renderCorrectionReport(result pipeline.Result, colorize bool) string {
	var b strings.Builder
	for _, line := range renderSectionHeader("Correction", colorize) {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	report := result.Correction
	if report.PassThrough {
		fmt.Fprintf(&b, "Audio unavailable; %d segment(s) passed through", report.Segments)
		if report.AudioError != nil {
			fmt.Fprintf(&b, " (%v)", report.AudioError)
		}
		b.WriteByte('\n')
	} else {
		rows := make([][]string, 0, report.Corrected)
		for _, d := range report.Decisions {
			if d.Missing || d.Rule == segment.RuleNone {
				continue
			}
			rows = append(rows, []string{
				strconv.Itoa(d.Index + 1),
				colorRule(d.Rule, colorize),
				formatSeconds(d.Start),
				formatSeconds(d.End),
				formatRatio(d.Spectral.SpeechPurity),
				formatRatio(d.Spectral.Confidence),
				formatRatio(d.Temporal.SpeechRatio),
			})
		}
		if len(rows) > 0 {
			b.WriteString(renderTable(correctionColumns, rows))
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "Corrected %d of %d segment(s)%s\n", report.Corrected, report.Segments, ruleBreakdown(report))
		if report.Missing > 0 {
			fmt.Fprintf(&b, "%d segment(s) lacked audio features and passed through\n", report.Missing)
		}
	}

	if removed := len(result.Filter.Removals); removed > 0 {
		fmt.Fprintf(&b, "Filtered %d cue(s): %s\n", removed, formatCounts(result.Filter.Counts()))
	}
	n := result.Normalize
	fmt.Fprintf(&b, "Normalized %d -> %d cue(s)", n.Input, n.Output)
	if len(n.Removed) > 0 {
		fmt.Fprintf(&b, "; removed %s", formatCounts(n.Removed))
	}
	b.WriteByte('\n')
	return strings.TrimRight(b.String(), "\n")
}

func ruleBreakdown(r correction.Report) string {
	if len(r.Rules) == 0 {
		return ""
	}
	counts := make(map[string]int, len(r.Rules))
	for rule, n := range r.Rules {
		counts[string(rule)] = n
	}
	return " (" + formatCounts(counts) + ")"
}

func formatCounts(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, counts[k]))
	}
	return strings.Join(parts, ", ")
}

func formatSeconds(v float64) string { return strconv.FormatFloat(v, 'f', 3, 64) }

func formatRatio(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

// correctionJSON is the --json document.
type correctionJSON struct {
	Format     subtitle.Format     `json:"format"`
	Segments   []segment.Corrected `json:"segments"`
	Correction correctionSummary   `json:"correction"`
	Normalize  normalizeSummary    `json:"normalize"`
	Filtered   map[string]int      `json:"filtered,omitempty"`
}

type correctionSummary struct {
	Segments    int            `json:"segments"`
	Corrected   int            `json:"corrected"`
	Rules       map[string]int `json:"rules,omitempty"`
	Missing     int            `json:"missing_features"`
	Skips       []skipJSON     `json:"skips,omitempty"`
	PassThrough bool           `json:"pass_through"`
	AudioError  string         `json:"audio_error,omitempty"`
}

type skipJSON struct {
	Index    int    `json:"index"`
	Analyzer string `json:"analyzer"`
	Reason   string `json:"reason"`
}

type normalizeSummary struct {
	Input       int            `json:"input"`
	Output      int            `json:"output"`
	Removed     map[string]int `json:"removed,omitempty"`
	Clamped     int            `json:"clamped"`
	Repaired    int            `json:"repaired"`
	GapAdjusted int            `json:"gap_adjusted"`
	Extended    int            `json:"extended"`
}

func newCorrectionJSON(result pipeline.Result) correctionJSON {
	r := result.Correction
	summary := correctionSummary{
		Segments:    r.Segments,
		Corrected:   r.Corrected,
		Missing:     r.Missing,
		PassThrough: r.PassThrough,
	}
	if len(r.Rules) > 0 {
		summary.Rules = make(map[string]int, len(r.Rules))
		for rule, n := range r.Rules {
			summary.Rules[string(rule)] = n
		}
	}
	if r.AudioError != nil {
		summary.AudioError = r.AudioError.Error()
	}
	for _, s := range r.Skips {
		summary.Skips = append(summary.Skips, skipJSON{Index: s.Index, Analyzer: s.Analyzer, Reason: s.Reason.Error()})
	}

	out := correctionJSON{
		Format:     result.Format,
		Segments:   nonNil(result.Segments),
		Correction: summary,
		Normalize:  newNormalizeSummary(result.Normalize),
	}
	if len(result.Filter.Removals) > 0 {
		out.Filtered = result.Filter.Counts()
	}
	return out
}

func newNormalizeSummary(n subtitle.NormalizeReport) normalizeSummary {
	return normalizeSummary{
		Input:       n.Input,
		Output:      n.Output,
		Removed:     n.Removed,
		Clamped:     n.Clamped,
		Repaired:    n.Repaired,
		GapAdjusted: n.GapAdjusted,
		Extended:    n.Extended,
	}
}
