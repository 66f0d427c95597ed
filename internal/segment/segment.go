package segment

import "math"

// Raw is a timestamped transcript segment as produced by the ASR engine.
// End > Start is expected but not guaranteed.
type Raw struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Duration returns End - Start, which may be negative for malformed input.
func (r Raw) Duration() float64 { return r.End - r.Start }

// Finite reports whether both boundaries are usable numbers.
func (r Raw) Finite() bool {
	return !math.IsNaN(r.Start) && !math.IsNaN(r.End) && !math.IsInf(r.Start, 0) && !math.IsInf(r.End, 0)
}

// Rule identifies which fusion rule changed a segment's boundaries.
type Rule string

const (
	RuleNone            Rule = ""
	RuleInterlude       Rule = "interlude_override"
	RuleLargeCorrection Rule = "confident_large_correction"
	RuleWeighted        Rule = "weighted_ambiguous"
)

// Metadata records why a segment was corrected.
type Metadata struct {
	SpectralPurity float64 `json:"spectral_purity"`
	TimeCorrection float64 `json:"time_correction"`
	Rule           Rule    `json:"rule_applied"`
}

// Corrected is a segment after fusion and normalization. ID is assigned by the
// normalizer (1-based); Correction is nil when the boundaries were left alone.
type Corrected struct {
	Raw
	ID         int       `json:"id,omitempty"`
	Correction *Metadata `json:"correction,omitempty"`
}

// FromRaw wraps raw segments without any correction.
func FromRaw(raw []Raw) []Corrected {
	out := make([]Corrected, len(raw))
	for i, r := range raw {
		out[i] = Corrected{Raw: r}
	}
	return out
}

// ToRaw strips correction metadata and IDs.
func ToRaw(segs []Corrected) []Raw {
	out := make([]Raw, len(segs))
	for i, s := range segs {
		out[i] = s.Raw
	}
	return out
}
