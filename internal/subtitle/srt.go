package subtitle

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"subfix/internal/segment"
)

// ParseSRT reads SRT cues. Blocks without a usable timing line are skipped;
// the numeric index line is optional. A UTF-8 BOM and CRLF line endings are
// accepted, and '.' is accepted in place of ',' before the milliseconds.
func ParseSRT(r io.Reader) ([]segment.Corrected, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read srt: %w", err)
	}
	content := strings.TrimPrefix(string(data), "\ufeff")
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, nil
	}

	var cues []segment.Corrected
	for _, block := range strings.Split(content, "\n\n") {
		block = strings.Trim(block, "\n")
		if strings.TrimSpace(block) == "" {
			continue
		}
		lines := strings.Split(block, "\n")

		id := 0
		if n, err := strconv.Atoi(strings.TrimSpace(lines[0])); err == nil {
			id = n
			lines = lines[1:]
		}
		if len(lines) == 0 || !strings.Contains(lines[0], "-->") {
			continue
		}
		parts := strings.SplitN(lines[0], "-->", 2)
		start, err := parseTimestamp(parts[0])
		if err != nil {
			continue
		}
		end, err := parseTimestamp(parts[1])
		if err != nil {
			continue
		}

		cues = append(cues, segment.Corrected{
			Raw: segment.Raw{Start: start, End: end, Text: strings.Join(lines[1:], "\n")},
			ID:  id,
		})
	}
	return cues, nil
}

// parseTimestamp parses HH:MM:SS,mmm. Trailing cue settings after the
// timestamp (as WebVTT allows) are ignored.
func parseTimestamp(value string) (float64, error) {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty timestamp")
	}
	value = strings.ReplaceAll(fields[0], ".", ",")
	timeParts := strings.Split(value, ",")
	if len(timeParts) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(timeParts[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(timeParts[1])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	if minutes > 59 || seconds > 59 || millis > 999 || hours < 0 || minutes < 0 || seconds < 0 || millis < 0 {
		return 0, fmt.Errorf("timestamp %q out of range", value)
	}
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, nil
}
