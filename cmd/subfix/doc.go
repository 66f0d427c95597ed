// Package main hosts the subfix CLI entrypoint and command graph.
//
// The Cobra command tree reads ASR segment JSON and raw PCM audio from disk,
// runs the correction pipeline, and writes SRT, WebVTT or plain text. It also
// re-normalizes existing SRT files and scaffolds configuration. Configuration
// resolution and structured logging setup live here so subcommands only
// translate flags into pipeline requests.
package main
