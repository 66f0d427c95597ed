package subtitle

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"unicode"

	"subfix/internal/logging"
	"subfix/internal/segment"
)

// Filter removal reasons.
const (
	ReasonIsolatedHallucination = "isolated_hallucination"
	ReasonRepeatedHallucination = "repeated_hallucination"
	ReasonMusicSymbols          = "music_symbols"
	ReasonTrailingHallucination = "trailing_hallucination"
	ReasonTrailingMusic         = "trailing_music"
	ReasonAdvertisement         = "advertisement"
)

const (
	// isolationGap is the silence on both sides that makes a cue isolated.
	isolationGap = 30.0
	// repeatGap is the minimum spacing between repeats of a hallucinated line.
	repeatGap = 10.0
	// repeatRun is the number of spaced repeats that marks a hallucination.
	repeatRun = 3
	// trailingWindow covers end credits, where stock phrases are almost never dialogue.
	trailingWindow = 300.0
)

// Phrases ASR models emit over silence or music (compared via matchKey).
var hallucinationPhrases = map[string]bool{
	"thank you":              true,
	"thank you for watching": true,
	"thanks for watching":    true,
	"please subscribe":       true,
	"like and subscribe":     true,
	"well be right back":     true,
	"bye":                    true,
	"bye bye":                true,
	"see you next time":      true,
	"see you later":          true,
}

var advertisementPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)opensubtitles`),
	regexp.MustCompile(`(?i)subtitles? by`),
	regexp.MustCompile(`(?i)synced? and corrected`),
	regexp.MustCompile(`(?i)advertise (your|yours?) product`),
	regexp.MustCompile(`(?i)http(s)?://`),
	regexp.MustCompile(`(?i)\bwww\.`),
	regexp.MustCompile(`(?i)\bsubscene\b`),
	regexp.MustCompile(`(?i)\byts\b`),
	regexp.MustCompile(`(?i)\byify\b`),
}

// Removal is a segment dropped by the filter.
type Removal struct {
	Segment segment.Corrected
	Reason  string
}

// FilterResult holds the surviving segments and everything removed.
type FilterResult struct {
	Segments []segment.Corrected
	Removals []Removal
}

// Counts returns removals grouped by reason.
func (r FilterResult) Counts() map[string]int {
	counts := make(map[string]int)
	for _, rm := range r.Removals {
		counts[rm.Reason]++
	}
	return counts
}

// Filter drops transcription artifacts: stock phrases and music symbols that
// stand alone, spaced repeats of the same line, the same material inside the
// final minutes of long media, and advertisement cues.
type Filter struct {
	logger *slog.Logger
}

// NewFilter builds a filter. A nil logger discards output.
func NewFilter(logger *slog.Logger) *Filter {
	return &Filter{logger: logging.NewComponentLogger(logger, "filter")}
}

// Apply runs the filter passes in order. mediaSeconds enables the trailing
// sweep for media at least twice the trailing window long.
func (f *Filter) Apply(segs []segment.Corrected, mediaSeconds float64) FilterResult {
	var removals []Removal

	remaining, removed := removeAdvertisements(segs)
	removals = append(removals, removed...)

	remaining, removed = removeIsolated(remaining)
	removals = append(removals, removed...)

	remaining, removed = sweepTrailing(remaining, mediaSeconds)
	removals = append(removals, removed...)

	result := FilterResult{Segments: remaining, Removals: removals}
	f.logSummary(result)
	return result
}

func removeAdvertisements(segs []segment.Corrected) ([]segment.Corrected, []Removal) {
	kept := make([]segment.Corrected, 0, len(segs))
	var removals []Removal
	for _, seg := range segs {
		if isAdvertisement(seg.Text) {
			removals = append(removals, Removal{Segment: seg, Reason: ReasonAdvertisement})
			continue
		}
		kept = append(kept, seg)
	}
	return kept, removals
}

func isAdvertisement(text string) bool {
	payload := strings.TrimSpace(strings.Join(strings.Fields(text), " "))
	if payload == "" {
		return false
	}
	for _, pattern := range advertisementPatterns {
		if pattern.MatchString(payload) {
			return true
		}
	}
	return false
}

// removeIsolated drops spaced repeats, then isolated stock phrases and
// isolated music-only cues.
func removeIsolated(segs []segment.Corrected) ([]segment.Corrected, []Removal) {
	if len(segs) == 0 {
		return segs, nil
	}
	remove := make([]bool, len(segs))
	var removals []Removal
	markRepeats(segs, remove, &removals)

	for i, seg := range segs {
		if remove[i] {
			continue
		}
		if gapBefore(segs, i) < isolationGap || gapAfter(segs, i) < isolationGap {
			continue
		}
		switch {
		case hallucinationPhrases[matchKey(seg.Text)]:
			remove[i] = true
			removals = append(removals, Removal{Segment: seg, Reason: ReasonIsolatedHallucination})
		case isMusicOnly(seg.Text):
			remove[i] = true
			removals = append(removals, Removal{Segment: seg, Reason: ReasonMusicSymbols})
		}
	}

	kept := make([]segment.Corrected, 0, len(segs))
	for i, seg := range segs {
		if !remove[i] {
			kept = append(kept, seg)
		}
	}
	return kept, removals
}

// markRepeats flags runs of repeatRun or more consecutive segments with the
// same text where every gap inside the run exceeds repeatGap.
func markRepeats(segs []segment.Corrected, remove []bool, removals *[]Removal) {
	for i := 0; i < len(segs); {
		key := matchKey(segs[i].Text)
		if key == "" {
			i++
			continue
		}
		end := i + 1
		for end < len(segs) && matchKey(segs[end].Text) == key && segs[end].Start-segs[end-1].End > repeatGap {
			end++
		}
		if end-i >= repeatRun {
			for j := i; j < end; j++ {
				remove[j] = true
				*removals = append(*removals, Removal{Segment: segs[j], Reason: ReasonRepeatedHallucination})
			}
		}
		i = end
	}
}

func gapBefore(segs []segment.Corrected, i int) float64 {
	if i == 0 {
		return segs[i].Start
	}
	return segs[i].Start - segs[i-1].End
}

func gapAfter(segs []segment.Corrected, i int) float64 {
	if i >= len(segs)-1 {
		return isolationGap
	}
	return segs[i+1].Start - segs[i].End
}

// isMusicOnly reports whether text consists solely of music notation
// (¶ ♪ ♫ *) and whitespace.
func isMusicOnly(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	for _, r := range text {
		switch {
		case r == '¶', r == '♪', r == '♫', r == '*':
		case unicode.IsSpace(r):
		default:
			return false
		}
	}
	return true
}

// sweepTrailing drops stock phrases and music-only cues that start inside the
// final trailingWindow seconds, isolated or not.
func sweepTrailing(segs []segment.Corrected, mediaSeconds float64) ([]segment.Corrected, []Removal) {
	if mediaSeconds < 2*trailingWindow || len(segs) == 0 {
		return segs, nil
	}
	threshold := mediaSeconds - trailingWindow

	kept := make([]segment.Corrected, 0, len(segs))
	var removals []Removal
	for _, seg := range segs {
		switch {
		case seg.Start < threshold:
			kept = append(kept, seg)
		case hallucinationPhrases[matchKey(seg.Text)]:
			removals = append(removals, Removal{Segment: seg, Reason: ReasonTrailingHallucination})
		case isMusicOnly(seg.Text):
			removals = append(removals, Removal{Segment: seg, Reason: ReasonTrailingMusic})
		default:
			kept = append(kept, seg)
		}
	}
	return kept, removals
}

// logSummary logs counts at INFO and each removal at DEBUG.
func (f *Filter) logSummary(result FilterResult) {
	if len(result.Removals) == 0 {
		return
	}
	attrs := []slog.Attr{
		logging.String(logging.FieldEventType, "transcript_filter_applied"),
		logging.Int("segments_removed", len(result.Removals)),
		logging.Int("segments_remaining", len(result.Segments)),
	}
	counts := result.Counts()
	for _, reason := range []string{
		ReasonAdvertisement, ReasonIsolatedHallucination, ReasonRepeatedHallucination,
		ReasonMusicSymbols, ReasonTrailingHallucination, ReasonTrailingMusic,
	} {
		if c := counts[reason]; c > 0 {
			attrs = append(attrs, logging.Int("removed_"+reason, c))
		}
	}
	f.logger.LogAttrs(context.Background(), slog.LevelInfo, "transcript filter applied", attrs...)

	for _, rm := range result.Removals {
		f.logger.Debug("transcript filter removed segment",
			logging.String("text", rm.Segment.Text),
			logging.String("reason", rm.Reason),
			logging.Float64("start", rm.Segment.Start),
			logging.Float64("end", rm.Segment.End),
		)
	}
}
