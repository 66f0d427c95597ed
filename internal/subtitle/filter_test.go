package subtitle

import (
	"testing"

	"subfix/internal/segment"
)

func texts(segs []segment.Corrected) []string {
	out := make([]string, len(segs))
	for i, s := range segs {
		out[i] = s.Text
	}
	return out
}

func TestFilterRemovesIsolatedHallucination(t *testing.T) {
	segs := corrected(
		segment.Raw{Start: 10, End: 12, Text: "Where are you going?"},
		segment.Raw{Start: 60, End: 61, Text: "Thank you."},
		segment.Raw{Start: 100, End: 102, Text: "Home."},
		segment.Raw{Start: 102.5, End: 103, Text: "Thank you."},
	)
	result := NewFilter(nil).Apply(segs, 0)

	if got := texts(result.Segments); len(got) != 3 || got[1] != "Home." || got[2] != "Thank you." {
		t.Fatalf("unexpected survivors: %v", got)
	}
	if len(result.Removals) != 1 || result.Removals[0].Reason != ReasonIsolatedHallucination {
		t.Fatalf("unexpected removals: %+v", result.Removals)
	}
}

func TestFilterRemovesSpacedRepeats(t *testing.T) {
	segs := corrected(
		segment.Raw{Start: 0, End: 1, Text: "Okay."},
		segment.Raw{Start: 20, End: 21, Text: "okay"},
		segment.Raw{Start: 40, End: 41, Text: "OKAY!"},
		segment.Raw{Start: 41.5, End: 42, Text: "Fine."},
	)
	result := NewFilter(nil).Apply(segs, 0)
	if got := texts(result.Segments); len(got) != 1 || got[0] != "Fine." {
		t.Fatalf("unexpected survivors: %v", got)
	}
	if result.Counts()[ReasonRepeatedHallucination] != 3 {
		t.Fatalf("unexpected counts: %v", result.Counts())
	}
}

func TestFilterKeepsCloseRepeats(t *testing.T) {
	segs := corrected(
		segment.Raw{Start: 0, End: 1, Text: "No."},
		segment.Raw{Start: 2, End: 3, Text: "No."},
		segment.Raw{Start: 4, End: 5, Text: "No."},
	)
	if result := NewFilter(nil).Apply(segs, 0); len(result.Removals) != 0 {
		t.Fatalf("dialogue repeats should survive: %+v", result.Removals)
	}
}

func TestFilterMusicAndAdvertisements(t *testing.T) {
	segs := corrected(
		segment.Raw{Start: 40, End: 45, Text: "♪ ♪"},
		segment.Raw{Start: 80, End: 82, Text: "Subtitles by someone"},
		segment.Raw{Start: 82.5, End: 84, Text: "Visit www.example.com"},
		segment.Raw{Start: 84.5, End: 86, Text: "Real dialogue."},
	)
	result := NewFilter(nil).Apply(segs, 0)
	if got := texts(result.Segments); len(got) != 1 || got[0] != "Real dialogue." {
		t.Fatalf("unexpected survivors: %v", got)
	}
	counts := result.Counts()
	if counts[ReasonAdvertisement] != 2 || counts[ReasonMusicSymbols] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}

func TestFilterTrailingSweep(t *testing.T) {
	segs := corrected(
		segment.Raw{Start: 100, End: 102, Text: "Goodbye, old friend."},
		segment.Raw{Start: 3400, End: 3402, Text: "I'll miss you."},
		segment.Raw{Start: 3403, End: 3404, Text: "Bye."},
		segment.Raw{Start: 3405, End: 3406, Text: "♫"},
	)

	short := NewFilter(nil).Apply(segs, 0)
	if len(short.Removals) != 0 {
		t.Fatalf("trailing sweep should need a media duration: %+v", short.Removals)
	}

	result := NewFilter(nil).Apply(segs, 3600)
	counts := result.Counts()
	if counts[ReasonTrailingHallucination] != 1 || counts[ReasonTrailingMusic] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}
	if len(result.Segments) != 2 {
		t.Fatalf("unexpected survivors: %v", texts(result.Segments))
	}
}

func TestCleanTextAndMatchKey(t *testing.T) {
	// "e" followed by a combining acute accent composes to a single rune.
	if got := cleanText("Cafe\u0301\t au lait\r\n"); got != "Caf\u00e9  au lait" {
		t.Fatalf("cleanText = %q", got)
	}
	if got := matchKey("We'll be right back!"); got != "well be right back" {
		t.Fatalf("matchKey = %q", got)
	}
	if n := charCount("ab\ncd"); n != 4 {
		t.Fatalf("charCount = %d", n)
	}
}
