package envelope

import (
	"errors"
	"math"
	"testing"

	"subfix/internal/audio"
	"subfix/internal/faults"
	"subfix/internal/segment"
	"subfix/internal/testsupport"
)

const testRate = 16000

func tone(start, end float64) testsupport.Span {
	return testsupport.Span{Start: start, End: end, Tones: []testsupport.Tone{{Freq: 1000, Amp: 0.5}}}
}

func TestAnalyzeLocatesSpeechInsideSegment(t *testing.T) {
	buf := testsupport.Buffer(t, testRate, 6, tone(2, 4))
	seg := segment.Raw{Start: 0.5, End: 5.5, Text: "hello"}

	result := NewLocator(DefaultOptions(), nil).Analyze(buf, []segment.Raw{seg})
	f, ok := result.Lookup(0)
	if !ok {
		t.Fatalf("missing feature, skipped=%+v", result.Skipped)
	}
	if !f.SpeechDetected {
		t.Fatal("expected speech to be detected")
	}
	if math.Abs(f.PreciseStart-2.0) > 0.1 {
		t.Fatalf("precise start %.3f not near 2.0", f.PreciseStart)
	}
	if math.Abs(f.PreciseEnd-4.0) > 0.1 {
		t.Fatalf("precise end %.3f not near 4.0", f.PreciseEnd)
	}
	if math.Abs(f.StartCorrection-(f.PreciseStart-seg.Start)) > 1e-12 {
		t.Fatalf("start correction %.3f inconsistent", f.StartCorrection)
	}
	if math.Abs(f.EndCorrection-(f.PreciseEnd-seg.End)) > 1e-12 {
		t.Fatalf("end correction %.3f inconsistent", f.EndCorrection)
	}
	// Two seconds of tone in a five second slice.
	if f.SpeechRatio < 0.35 || f.SpeechRatio > 0.5 {
		t.Fatalf("unexpected speech ratio %.3f", f.SpeechRatio)
	}
}

func TestAnalyzeFrameTimesAreHopAligned(t *testing.T) {
	buf := testsupport.Buffer(t, testRate, 4, tone(1, 3))
	result := NewLocator(DefaultOptions(), nil).Analyze(buf, []segment.Raw{{Start: 0, End: 4}})
	f, ok := result.Lookup(0)
	if !ok {
		t.Fatal("missing feature")
	}
	step := float64(DefaultHopLength) / testRate
	for name, v := range map[string]float64{"start": f.PreciseStart, "end": f.PreciseEnd} {
		frames := v / step
		if math.Abs(frames-math.Round(frames)) > 1e-9 {
			t.Fatalf("%s %.6f is not on a hop boundary", name, v)
		}
	}
}

func TestAnalyzeSilentSegmentKeepsRawBounds(t *testing.T) {
	buf := testsupport.Buffer(t, testRate, 4, tone(3, 4))
	seg := segment.Raw{Start: 0.5, End: 2.0}

	result := NewLocator(DefaultOptions(), nil).Analyze(buf, []segment.Raw{seg})
	f, ok := result.Lookup(0)
	if !ok {
		t.Fatal("missing feature")
	}
	want := Feature{PreciseStart: seg.Start, PreciseEnd: seg.End}
	if f != want {
		t.Fatalf("got %+v, want %+v", f, want)
	}
}

func TestAnalyzeClampsAndSkips(t *testing.T) {
	buf := testsupport.Buffer(t, testRate, 2, tone(0, 2))
	segs := []segment.Raw{
		{Start: 1.0, End: 3.0},
		{Start: 2.5, End: 3.0},
		{Start: -1, End: 1},
		{Start: 1, End: math.Inf(1)},
		{Start: 1.0, End: 1.01},
	}

	result := NewLocator(DefaultOptions(), nil).Analyze(buf, segs)
	f, ok := result.Lookup(0)
	if !ok {
		t.Fatal("expected segment running past the audio to be clamped, not skipped")
	}
	if f.PreciseEnd > buf.Duration()+1e-9 {
		t.Fatalf("precise end %.3f beyond audio", f.PreciseEnd)
	}
	if len(result.Features) != 1 || len(result.Skipped) != 4 {
		t.Fatalf("unexpected result: features=%d skipped=%+v", len(result.Features), result.Skipped)
	}
	if !errors.Is(result.Skipped[2].Reason, faults.ErrInvalidTimestamp) {
		t.Fatalf("expected infinite bound to be invalid, got %v", result.Skipped[2].Reason)
	}
	for _, i := range []int{0, 1, 3} {
		if !errors.Is(result.Skipped[i].Reason, faults.ErrSegmentOutOfRange) {
			t.Fatalf("skip %d: expected out of range, got %v", i, result.Skipped[i].Reason)
		}
	}
}

func TestAnalyzeEmptyBuffer(t *testing.T) {
	result := NewLocator(DefaultOptions(), nil).Analyze(audio.Buffer{}, []segment.Raw{{Start: 0, End: 1}})
	if len(result.Features) != 0 || len(result.Skipped) != 0 {
		t.Fatalf("expected empty result, got %+v", result)
	}
}

func TestThresholdRatioOption(t *testing.T) {
	// A quiet tone followed by a loud one: a high ratio ignores the quiet part.
	quiet := testsupport.Span{Start: 0.5, End: 1.5, Tones: []testsupport.Tone{{Freq: 1000, Amp: 0.1}}}
	loud := testsupport.Span{Start: 2.0, End: 3.0, Tones: []testsupport.Tone{{Freq: 1000, Amp: 0.8}}}
	buf := testsupport.Buffer(t, testRate, 4, quiet, loud)
	seg := []segment.Raw{{Start: 0, End: 4}}

	low := NewLocator(Options{ThresholdRatio: 0.05}, nil).Analyze(buf, seg).Features[0]
	high := NewLocator(Options{ThresholdRatio: 0.5}, nil).Analyze(buf, seg).Features[0]
	if low.PreciseStart >= 1.0 {
		t.Fatalf("low threshold should catch the quiet tone, start %.3f", low.PreciseStart)
	}
	if high.PreciseStart < 1.8 {
		t.Fatalf("high threshold should skip the quiet tone, start %.3f", high.PreciseStart)
	}
}
