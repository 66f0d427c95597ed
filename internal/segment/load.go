package segment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// asrDocument matches transcript JSON that nests segments under a key, as
// Whisper-style engines emit.
type asrDocument struct {
	Segments []Raw `json:"segments"`
}

// Decode reads ASR segments from JSON. Both a bare array of
// {"start","end","text"} objects and an object with a "segments" array are
// accepted.
func Decode(r io.Reader) ([]Raw, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read segments: %w", err)
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] == '[' {
		var segs []Raw
		if err := json.Unmarshal(trimmed, &segs); err != nil {
			return nil, fmt.Errorf("parse segments: %w", err)
		}
		return segs, nil
	}
	var doc asrDocument
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("parse segments: %w", err)
	}
	return doc.Segments, nil
}
