// Package testsupport builds deterministic fixtures shared by package tests:
// synthetic waveforms, raw PCM files, and isolated configurations.
package testsupport
