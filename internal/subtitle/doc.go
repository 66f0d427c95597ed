// Package subtitle turns corrected segments into well-formed subtitle text.
//
// Normalizer enforces the output timing rules (clamping, repair of inverted
// spans, minimum gaps and durations) and cleans cue text. Filter optionally
// removes transcription hallucinations and advertisement cues before that.
// Serialize renders SRT, WebVTT or plain text, and ParseSRT reads SRT back
// for re-normalization and round-trip checks.
package subtitle
