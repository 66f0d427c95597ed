package correction

import (
	"math"
	"testing"

	"subfix/internal/envelope"
	"subfix/internal/segment"
	"subfix/internal/spectral"
)

func results(spec map[int]spectral.Feature, temp map[int]envelope.Feature) (spectral.Result, envelope.Result) {
	return spectral.Result{Features: spec}, envelope.Result{Features: temp}
}

func TestFuseInterludeOverride(t *testing.T) {
	segs := []segment.Raw{{Start: 20.449, End: 26.459, Text: "line"}}
	spec, temp := results(
		map[int]spectral.Feature{0: {IsInterlude: true, SpeechPurity: 0.8, Confidence: 0.8}},
		map[int]envelope.Feature{0: {
			PreciseStart:    25.300,
			PreciseEnd:      26.200,
			StartCorrection: 25.300 - 20.449,
			EndCorrection:   26.200 - 26.459,
			SpeechDetected:  true,
			SpeechRatio:     0.2,
		}},
	)

	out := Fuse(segs, spec, temp, DefaultThresholds())
	got := out[0]
	if got.Start != 25.300 || got.End != 26.200 {
		t.Fatalf("expected [25.300, 26.200], got [%v, %v]", got.Start, got.End)
	}
	if got.Correction == nil || got.Correction.Rule != segment.RuleInterlude {
		t.Fatalf("expected interlude rule, got %+v", got.Correction)
	}
	if math.Abs(got.Correction.TimeCorrection-4.851) > 1e-9 {
		t.Fatalf("unexpected time correction %v", got.Correction.TimeCorrection)
	}
	if got.Correction.SpectralPurity != 0.8 {
		t.Fatalf("unexpected purity %v", got.Correction.SpectralPurity)
	}
	if got.Text != "line" {
		t.Fatalf("text changed: %q", got.Text)
	}
}

func TestFuseRuleCascade(t *testing.T) {
	seg := segment.Raw{Start: 10, End: 14, Text: "x"}
	tests := []struct {
		name      string
		spec      spectral.Feature
		temp      envelope.Feature
		wantRule  segment.Rule
		wantStart float64
		wantEnd   float64
	}{
		{
			name:     "low purity with speech uses both precise bounds",
			spec:     spectral.Feature{SpeechPurity: 0.2},
			temp:     envelope.Feature{PreciseStart: 11, PreciseEnd: 13, StartCorrection: 1, EndCorrection: -1, SpeechDetected: true, SpeechRatio: 0.4},
			wantRule: segment.RuleInterlude, wantStart: 11, wantEnd: 13,
		},
		{
			name:     "interlude without detected speech falls through",
			spec:     spectral.Feature{IsInterlude: true, SpeechPurity: 0.9, Confidence: 0.9},
			temp:     envelope.Feature{PreciseStart: 10, PreciseEnd: 14},
			wantRule: segment.RuleNone, wantStart: 10, wantEnd: 14,
		},
		{
			name:     "confident large start shift adopts start only",
			spec:     spectral.Feature{SpeechPurity: 0.9, Confidence: 0.8},
			temp:     envelope.Feature{PreciseStart: 11.5, PreciseEnd: 13.5, StartCorrection: 1.5, EndCorrection: -0.5, SpeechDetected: true, SpeechRatio: 0.6},
			wantRule: segment.RuleLargeCorrection, wantStart: 11.5, wantEnd: 14,
		},
		{
			name:     "large shift with low confidence is ignored",
			spec:     spectral.Feature{SpeechPurity: 0.9, Confidence: 0.7},
			temp:     envelope.Feature{PreciseStart: 11.5, PreciseEnd: 13.5, StartCorrection: 1.5, SpeechDetected: true, SpeechRatio: 0.6},
			wantRule: segment.RuleNone, wantStart: 10, wantEnd: 14,
		},
		{
			name:     "negative large shift counts by magnitude",
			spec:     spectral.Feature{SpeechPurity: 0.9, Confidence: 0.8},
			temp:     envelope.Feature{PreciseStart: 8.5, PreciseEnd: 13, StartCorrection: -1.5, SpeechDetected: true, SpeechRatio: 0.6},
			wantRule: segment.RuleLargeCorrection, wantStart: 8.5, wantEnd: 14,
		},
		{
			name:     "weak evidence with moderate confidence adopts start",
			spec:     spectral.Feature{SpeechPurity: 0.45, Confidence: 0.65},
			temp:     envelope.Feature{PreciseStart: 10.4, PreciseEnd: 13, StartCorrection: 0.4, SpeechDetected: true, SpeechRatio: 0.3},
			wantRule: segment.RuleWeighted, wantStart: 10.4, wantEnd: 14,
		},
		{
			name:     "weak evidence with low confidence leaves segment alone",
			spec:     spectral.Feature{SpeechPurity: 0.45, Confidence: 0.3},
			temp:     envelope.Feature{PreciseStart: 10.4, PreciseEnd: 13, StartCorrection: 0.4, SpeechDetected: true, SpeechRatio: 0.3},
			wantRule: segment.RuleNone, wantStart: 10, wantEnd: 14,
		},
		{
			name:     "strong evidence defaults to no change",
			spec:     spectral.Feature{SpeechPurity: 0.9, Confidence: 0.9},
			temp:     envelope.Feature{PreciseStart: 10.2, PreciseEnd: 13.9, StartCorrection: 0.2, SpeechDetected: true, SpeechRatio: 0.9},
			wantRule: segment.RuleNone, wantStart: 10, wantEnd: 14,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, temp := results(map[int]spectral.Feature{0: tt.spec}, map[int]envelope.Feature{0: tt.temp})
			got := Fuse([]segment.Raw{seg}, spec, temp, DefaultThresholds())[0]
			if got.Start != tt.wantStart || got.End != tt.wantEnd {
				t.Fatalf("got [%v, %v], want [%v, %v]", got.Start, got.End, tt.wantStart, tt.wantEnd)
			}
			if tt.wantRule == segment.RuleNone {
				if got.Correction != nil {
					t.Fatalf("expected no metadata, got %+v", got.Correction)
				}
				return
			}
			if got.Correction == nil || got.Correction.Rule != tt.wantRule {
				t.Fatalf("expected rule %q, got %+v", tt.wantRule, got.Correction)
			}
		})
	}
}

func TestFuseMissingFeaturePassesThrough(t *testing.T) {
	segs := []segment.Raw{{Start: 1, End: 2, Text: "a"}, {Start: 3, End: 4, Text: "b"}, {Start: 5, End: 6, Text: "c"}}
	interlude := spectral.Feature{IsInterlude: true}
	detected := envelope.Feature{PreciseStart: 1.5, PreciseEnd: 1.8, SpeechDetected: true}
	spec, temp := results(
		map[int]spectral.Feature{0: interlude, 2: interlude},
		map[int]envelope.Feature{1: detected, 2: {PreciseStart: 5.2, PreciseEnd: 5.9, SpeechDetected: true}},
	)

	out := Fuse(segs, spec, temp, DefaultThresholds())
	for i := 0; i < 2; i++ {
		if out[i].Raw != segs[i] || out[i].Correction != nil {
			t.Fatalf("segment %d should pass through, got %+v", i, out[i])
		}
	}
	if out[2].Correction == nil {
		t.Fatal("segment 2 should be corrected")
	}
}

func TestFuseNoMetadataWhenBoundsUnchanged(t *testing.T) {
	segs := []segment.Raw{{Start: 1, End: 2}}
	spec, temp := results(
		map[int]spectral.Feature{0: {IsInterlude: true}},
		map[int]envelope.Feature{0: {PreciseStart: 1, PreciseEnd: 2, SpeechDetected: true, SpeechRatio: 1}},
	)
	if got := Fuse(segs, spec, temp, DefaultThresholds())[0]; got.Correction != nil {
		t.Fatalf("unchanged segment should carry no metadata, got %+v", got.Correction)
	}
}

func TestFuseCustomThresholds(t *testing.T) {
	segs := []segment.Raw{{Start: 0, End: 4}}
	spec, temp := results(
		map[int]spectral.Feature{0: {SpeechPurity: 0.4, Confidence: 0.4}},
		map[int]envelope.Feature{0: {PreciseStart: 1, PreciseEnd: 3, StartCorrection: 1, SpeechDetected: true, SpeechRatio: 0.5}},
	)

	if got := Fuse(segs, spec, temp, DefaultThresholds())[0]; got.Correction != nil {
		t.Fatalf("defaults should not fire, got %+v", got.Correction)
	}
	th := DefaultThresholds()
	th.InterludePurityMax = 0.45
	got := Fuse(segs, spec, temp, th)[0]
	if got.Correction == nil || got.Correction.Rule != segment.RuleInterlude {
		t.Fatalf("raised purity threshold should fire the interlude rule, got %+v", got.Correction)
	}
}
