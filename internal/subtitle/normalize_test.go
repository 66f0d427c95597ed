package subtitle

import (
	"math"
	"reflect"
	"testing"

	"subfix/internal/segment"
)

func corrected(raw ...segment.Raw) []segment.Corrected {
	return segment.FromRaw(raw)
}

func normalize(t *testing.T, opts Options, segs []segment.Corrected) ([]segment.Corrected, NormalizeReport) {
	t.Helper()
	return NewNormalizer(opts, nil).Normalize(segs)
}

func TestNormalizeWidensNarrowGapSymmetrically(t *testing.T) {
	out, report := normalize(t, DefaultOptions(), corrected(
		segment.Raw{Start: 1.0, End: 2.0, Text: "first"},
		segment.Raw{Start: 2.05, End: 3.0, Text: "second"},
	))

	if len(out) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(out))
	}
	gap := out[1].Start - out[0].End
	if gap < DefaultMinGapSeconds-1e-9 {
		t.Fatalf("gap %.4f below minimum", gap)
	}
	if math.Abs((2.0-out[0].End)-(out[1].Start-2.05)) > 1e-9 {
		t.Fatalf("adjustment not symmetric: end %.4f start %.4f", out[0].End, out[1].Start)
	}
	if math.Abs(out[0].End-1.975) > 1e-9 || math.Abs(out[1].Start-2.075) > 1e-9 {
		t.Fatalf("unexpected boundaries: %.4f / %.4f", out[0].End, out[1].Start)
	}
	if report.GapAdjusted != 1 {
		t.Fatalf("expected one gap adjustment, got %d", report.GapAdjusted)
	}
}

func TestNormalizeExtendsShortSegment(t *testing.T) {
	out, report := normalize(t, DefaultOptions(), corrected(segment.Raw{Start: 0, End: 0.15, Text: "Hello!"}))
	if out[0].End < 0.5-1e-9 {
		t.Fatalf("expected end >= 0.5, got %.3f", out[0].End)
	}
	if out[0].Start != 0 {
		t.Fatalf("start moved: %.3f", out[0].Start)
	}
	if report.Extended != 1 {
		t.Fatalf("expected one extension, got %d", report.Extended)
	}
}

func TestNormalizeExtendsWordyCue(t *testing.T) {
	text := "this line has thirty characters"
	out, _ := normalize(t, DefaultOptions(), corrected(segment.Raw{Start: 5, End: 5.6, Text: text}))
	want := 5 + DefaultSecondsPerChar*float64(len(text))
	if math.Abs(out[0].End-want) > 1e-9 {
		t.Fatalf("expected end %.3f, got %.3f", want, out[0].End)
	}
}

func TestNormalizeExtensionStopsBeforeNextSegment(t *testing.T) {
	out, _ := normalize(t, DefaultOptions(), corrected(
		segment.Raw{Start: 1.0, End: 1.1, Text: "hi"},
		segment.Raw{Start: 1.3, End: 2.0, Text: "there"},
	))
	if got := out[1].Start - out[0].End; got < DefaultMinGapSeconds-1e-9 {
		t.Fatalf("extension violated the gap: %.4f", got)
	}
	if out[0].End <= 1.1 {
		t.Fatalf("expected extension up to the gap, got %.3f", out[0].End)
	}
}

func TestNormalizeRepairsInvertedSegment(t *testing.T) {
	out, report := normalize(t, DefaultOptions(), corrected(segment.Raw{Start: 10, End: 9, Text: "oops"}))
	if out[0].Start != 10 || out[0].End != 11 {
		t.Fatalf("expected [10, 11], got [%v, %v]", out[0].Start, out[0].End)
	}
	if report.Repaired != 1 {
		t.Fatalf("expected one repair, got %d", report.Repaired)
	}
}

func TestNormalizeClampsToMediaDuration(t *testing.T) {
	opts := DefaultOptions()
	opts.MediaDuration = 30
	out, report := normalize(t, opts, corrected(
		segment.Raw{Start: -2, End: 1, Text: "early"},
		segment.Raw{Start: 29, End: 31, Text: "late"},
		segment.Raw{Start: 40, End: 41, Text: "beyond"},
	))

	if out[0].Start != 0 {
		t.Fatalf("negative start not clamped: %v", out[0].Start)
	}
	for _, seg := range out {
		if seg.Start < 0 || seg.End > 30 || seg.End <= seg.Start {
			t.Fatalf("segment outside [0, 30]: %+v", seg)
		}
	}
	if report.Clamped < 2 {
		t.Fatalf("expected clamps to be counted, got %d", report.Clamped)
	}
}

func TestNormalizeCapsAtMaxTimestamp(t *testing.T) {
	out, _ := normalize(t, DefaultOptions(), corrected(segment.Raw{Start: 86399.5, End: 90000, Text: "end"}))
	if out[0].End != MaxTimestamp {
		t.Fatalf("expected end at %.3f, got %.3f", MaxTimestamp, out[0].End)
	}
}

func TestNormalizeCleansTextAndDropsDuplicates(t *testing.T) {
	out, report := normalize(t, DefaultOptions(), corrected(
		segment.Raw{Start: 1, End: 2, Text: "  Café\r\n\r\n  au lait\x07 "},
		segment.Raw{Start: 3, End: 4, Text: "Café\nau lait"},
		segment.Raw{Start: 5, End: 6, Text: " \n\t "},
		segment.Raw{Start: 7, End: 8, Text: "next"},
		segment.Raw{Start: math.NaN(), End: 9, Text: "bad"},
	))

	if len(out) != 2 {
		t.Fatalf("expected 2 survivors, got %+v", out)
	}
	if out[0].Text != "Café\nau lait" {
		t.Fatalf("unexpected cleaned text %q", out[0].Text)
	}
	if out[0].ID != 1 || out[1].ID != 2 || out[1].Text != "next" {
		t.Fatalf("unexpected ids or order: %+v", out)
	}
	want := map[string]int{RemovedDuplicate: 1, RemovedEmptyText: 1, RemovedInvalid: 1}
	if !reflect.DeepEqual(report.Removed, want) {
		t.Fatalf("unexpected removals: %v", report.Removed)
	}
}

func TestNormalizePushesOverlappingSegment(t *testing.T) {
	out, _ := normalize(t, DefaultOptions(), corrected(
		segment.Raw{Start: 1, End: 5, Text: "long"},
		segment.Raw{Start: 2, End: 3, Text: "inside"},
	))
	if out[1].Start < out[0].End+DefaultMinGapSeconds-1e-9 {
		t.Fatalf("overlap not resolved: %+v", out)
	}
	if math.Abs(out[1].Duration()-1) > 1e-9 {
		t.Fatalf("pushed segment should keep its duration, got %.3f", out[1].Duration())
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := [][]segment.Corrected{
		corrected(
			segment.Raw{Start: 0, End: 0.15, Text: "Hello!"},
			segment.Raw{Start: 0.2, End: 0.25, Text: "a rather long line of dialogue here"},
			segment.Raw{Start: 0.27, End: 0.2, Text: "inverted"},
			segment.Raw{Start: 0.9, End: 4, Text: "overlap"},
			segment.Raw{Start: 3.95, End: 4.1, Text: "tight"},
			segment.Raw{Start: 4.1, End: 4.2, Text: "tight"},
			segment.Raw{Start: -1, End: 0.5, Text: "negative"},
		),
		corrected(
			segment.Raw{Start: 1.0, End: 2.0, Text: "first"},
			segment.Raw{Start: 2.05, End: 3.0, Text: "second"},
		),
	}
	opts := DefaultOptions()
	opts.MediaDuration = 4.5

	for i, input := range inputs {
		once, _ := normalize(t, opts, input)
		twice, report := normalize(t, opts, once)
		if !reflect.DeepEqual(once, twice) {
			t.Fatalf("input %d not idempotent:\nonce  %+v\ntwice %+v", i, once, twice)
		}
		if report.Clamped+report.Repaired+report.GapAdjusted+report.Extended != 0 {
			t.Fatalf("input %d: second pass reported changes: %+v", i, report)
		}
		assertInvariants(t, once, opts)
	}
}

func TestNormalizeKeepsCorrectionMetadata(t *testing.T) {
	in := []segment.Corrected{{
		Raw:        segment.Raw{Start: 25.3, End: 26.2, Text: "line"},
		Correction: &segment.Metadata{SpectralPurity: 0.1, TimeCorrection: 4.851, Rule: segment.RuleInterlude},
	}}
	out, _ := normalize(t, DefaultOptions(), in)
	if out[0].Correction == nil || out[0].Correction.Rule != segment.RuleInterlude {
		t.Fatalf("metadata lost: %+v", out[0])
	}
	if out[0].Correction == in[0].Correction {
		t.Fatal("metadata should be copied, not shared")
	}
}

func assertInvariants(t *testing.T, segs []segment.Corrected, opts Options) {
	t.Helper()
	ceiling := opts.ceiling()
	for i, seg := range segs {
		if seg.Start < 0 || seg.End > ceiling || seg.End <= seg.Start {
			t.Fatalf("segment %d out of bounds: %+v", i, seg)
		}
		if seg.ID != i+1 {
			t.Fatalf("segment %d has id %d", i, seg.ID)
		}
		if seg.Text == "" {
			t.Fatalf("segment %d has empty text", i)
		}
		if i > 0 && seg.Start-segs[i-1].End < opts.MinGap-epsilon {
			t.Fatalf("gap before segment %d is %.4f", i, seg.Start-segs[i-1].End)
		}
	}
}
