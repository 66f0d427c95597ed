// Package pipeline wires configuration to the correction, filtering,
// normalization and serialization stages and runs them in order.
package pipeline
