package correction

import (
	"math"

	"subfix/internal/envelope"
	"subfix/internal/segment"
	"subfix/internal/spectral"
)

// Decision is the outcome of the rule cascade for one segment.
type Decision struct {
	Index    int
	Rule     segment.Rule
	Start    float64
	End      float64
	Spectral spectral.Feature
	Temporal envelope.Feature
	// Missing is set when either feature was absent and the segment passed through.
	Missing bool
}

// Fuse evaluates the rule cascade for every segment. Segments missing either
// feature, and segments no rule changes, are returned as-is without metadata.
func Fuse(segs []segment.Raw, spec spectral.Result, temp envelope.Result, th Thresholds) []segment.Corrected {
	out, _ := fuse(segs, spec, temp, th)
	return out
}

func fuse(segs []segment.Raw, spec spectral.Result, temp envelope.Result, th Thresholds) ([]segment.Corrected, []Decision) {
	out := make([]segment.Corrected, len(segs))
	decisions := make([]Decision, len(segs))
	for i, seg := range segs {
		out[i] = segment.Corrected{Raw: seg}
		sf, okSpec := spec.Lookup(i)
		tf, okTemp := temp.Lookup(i)
		if !okSpec || !okTemp {
			decisions[i] = Decision{Index: i, Start: seg.Start, End: seg.End, Missing: true}
			continue
		}

		d := decide(seg, sf, tf, th)
		d.Index = i
		decisions[i] = d
		if d.Rule == segment.RuleNone || (d.Start == seg.Start && d.End == seg.End) {
			decisions[i].Rule = segment.RuleNone
			continue
		}
		out[i].Start = d.Start
		out[i].End = d.End
		out[i].Correction = &segment.Metadata{
			SpectralPurity: sf.SpeechPurity,
			TimeCorrection: d.Start - seg.Start,
			Rule:           d.Rule,
		}
	}
	return out, decisions
}

// decide applies the cascade; the first matching rule wins.
func decide(seg segment.Raw, sf spectral.Feature, tf envelope.Feature, th Thresholds) Decision {
	d := Decision{Start: seg.Start, End: seg.End, Spectral: sf, Temporal: tf}
	switch {
	case (sf.IsInterlude || sf.SpeechPurity < th.InterludePurityMax) && tf.SpeechDetected:
		d.Rule = segment.RuleInterlude
		d.Start, d.End = tf.PreciseStart, tf.PreciseEnd
	case math.Abs(tf.StartCorrection) > th.LargeCorrectionSeconds && sf.Confidence > th.LargeCorrectionConfidence:
		d.Rule = segment.RuleLargeCorrection
		d.Start = tf.PreciseStart
	case sf.SpeechPurity < th.AmbiguousPurityMax && tf.SpeechRatio < th.AmbiguousRatioMax:
		if sf.Confidence > th.AmbiguousConfidenceMin {
			d.Rule = segment.RuleWeighted
			d.Start = tf.PreciseStart
		}
	}
	return d
}
