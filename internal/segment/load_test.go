package segment

import (
	"strings"
	"testing"
)

func TestDecodeArray(t *testing.T) {
	segs, err := Decode(strings.NewReader(`[{"start": 1.5, "end": 2.25, "text": " hello"}]`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segs))
	}
	if segs[0].Start != 1.5 || segs[0].End != 2.25 || segs[0].Text != " hello" {
		t.Fatalf("unexpected segment %+v", segs[0])
	}
}

func TestDecodeWhisperDocument(t *testing.T) {
	doc := `{"language": "en", "segments": [
		{"id": 0, "start": 0.0, "end": 1.0, "text": "one"},
		{"id": 1, "start": 1.2, "end": 2.0, "text": "two"}
	]}`
	segs, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(segs) != 2 || segs[1].Text != "two" {
		t.Fatalf("unexpected segments %+v", segs)
	}
}

func TestDecodeEmptyAndInvalid(t *testing.T) {
	segs, err := Decode(strings.NewReader("  \n"))
	if err != nil || segs != nil {
		t.Fatalf("expected nil segments for blank input, got %v %v", segs, err)
	}
	if _, err := Decode(strings.NewReader(`{"segments": 3}`)); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestRawHelpers(t *testing.T) {
	r := Raw{Start: 2, End: 1.5}
	if r.Duration() != -0.5 {
		t.Fatalf("unexpected duration %v", r.Duration())
	}
	if !r.Finite() {
		t.Fatal("expected finite segment")
	}
	corrected := FromRaw([]Raw{r})
	if corrected[0].Correction != nil || corrected[0].ID != 0 {
		t.Fatalf("expected uncorrected wrapper, got %+v", corrected[0])
	}
	if back := ToRaw(corrected); back[0] != r {
		t.Fatalf("expected raw round trip, got %+v", back[0])
	}
}
