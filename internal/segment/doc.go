// Package segment defines the transcript segment types that flow through the
// correction pipeline and loads raw ASR output from JSON.
package segment
