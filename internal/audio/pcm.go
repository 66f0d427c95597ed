package audio

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"subfix/internal/faults"
)

// Encoding names a headerless little-endian PCM layout.
type Encoding string

const (
	EncodingF32LE Encoding = "f32le"
	EncodingS16LE Encoding = "s16le"
)

// ParseEncoding resolves a user supplied encoding name.
func ParseEncoding(value string) (Encoding, error) {
	switch Encoding(strings.ToLower(strings.TrimSpace(value))) {
	case EncodingF32LE, "":
		return EncodingF32LE, nil
	case EncodingS16LE:
		return EncodingS16LE, nil
	default:
		return "", faults.Wrap(faults.ErrValidation, "audio", "parse encoding",
			fmt.Sprintf("unsupported pcm encoding %q (want f32le or s16le)", value), nil)
	}
}

// ReadPCM reads mono headerless PCM samples until EOF. A trailing partial
// sample is an error.
func ReadPCM(r io.Reader, enc Encoding) ([]float32, error) {
	width := 4
	if enc == EncodingS16LE {
		width = 2
	}
	br := bufio.NewReader(r)
	buf := make([]byte, width)
	var samples []float32
	for {
		n, err := io.ReadFull(br, buf)
		if errors.Is(err, io.EOF) {
			return samples, nil
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("read pcm: trailing %d byte(s) do not form a sample", n)
		}
		if err != nil {
			return nil, fmt.Errorf("read pcm: %w", err)
		}
		switch enc {
		case EncodingS16LE:
			v := int16(binary.LittleEndian.Uint16(buf))
			samples = append(samples, float32(v)/float32(math.MaxInt16+1))
		default:
			samples = append(samples, math.Float32frombits(binary.LittleEndian.Uint32(buf)))
		}
	}
}
