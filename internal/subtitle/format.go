package subtitle

import (
	"fmt"
	"math"
	"strings"

	"subfix/internal/faults"
	"subfix/internal/segment"
)

// Format names an output representation.
type Format string

const (
	FormatSRT Format = "srt"
	FormatVTT Format = "vtt"
	FormatTXT Format = "txt"
)

// Formats lists the supported output formats.
var Formats = []Format{FormatSRT, FormatVTT, FormatTXT}

// ParseFormat resolves a user-supplied format name. The empty string selects SRT.
func ParseFormat(value string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(value))); f {
	case "":
		return FormatSRT, nil
	case FormatSRT, FormatVTT, FormatTXT:
		return f, nil
	default:
		return "", faults.Wrap(faults.ErrValidation, "subtitle", "parse format",
			fmt.Sprintf("unsupported format %q (want srt, vtt or txt)", value), nil)
	}
}

// Extension returns the conventional file extension including the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// Serialize renders segments in the given format. Cue numbers come from the
// segment IDs when set and from the position otherwise.
func Serialize(segs []segment.Corrected, format Format) (string, error) {
	var sb strings.Builder
	switch format {
	case FormatSRT:
		for i, seg := range segs {
			if i > 0 {
				sb.WriteString("\n")
			}
			fmt.Fprintf(&sb, "%d\n%s --> %s\n%s\n", cueNumber(seg, i), formatTimestamp(seg.Start, ','), formatTimestamp(seg.End, ','), seg.Text)
		}
	case FormatVTT:
		sb.WriteString("WEBVTT\n")
		for _, seg := range segs {
			fmt.Fprintf(&sb, "\n%s --> %s\n%s\n", formatTimestamp(seg.Start, '.'), formatTimestamp(seg.End, '.'), seg.Text)
		}
	case FormatTXT:
		for i, seg := range segs {
			if i > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(seg.Text)
			sb.WriteString("\n")
		}
	default:
		return "", faults.Wrap(faults.ErrValidation, "subtitle", "serialize",
			fmt.Sprintf("unsupported format %q", format), nil)
	}
	return sb.String(), nil
}

func cueNumber(seg segment.Corrected, i int) int {
	if seg.ID > 0 {
		return seg.ID
	}
	return i + 1
}

// formatTimestamp renders seconds as HH:MM:SS<sep>mmm, rounding to the
// nearest millisecond. Negative input renders as zero.
func formatTimestamp(seconds float64, sep byte) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	msTotal := int64(math.Round(seconds * 1000))
	hours := msTotal / 3_600_000
	msTotal %= 3_600_000
	minutes := msTotal / 60_000
	msTotal %= 60_000
	secs := msTotal / 1_000
	millis := msTotal % 1_000
	return fmt.Sprintf("%02d:%02d:%02d%c%03d", hours, minutes, secs, sep, millis)
}
