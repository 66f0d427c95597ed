// Package faults defines the error markers shared by the correction pipeline.
//
// Key responsibilities:
//   - Sentinel markers for each failure class the pipeline distinguishes
//     (missing audio, out-of-range segments, invalid timestamps, caller
//     misuse, configuration and validation problems).
//   - The Wrap helper that adds component and operation context while keeping
//     the marker matchable through errors.Is.
//   - Degradable, which separates failures that collapse to "no correction"
//     from the precondition violations callers must handle.
package faults
