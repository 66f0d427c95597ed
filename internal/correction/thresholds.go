package correction

// Thresholds are the cut-offs the fusion rules compare against. The defaults
// are empirical and should be recalibrated per audio corpus.
type Thresholds struct {
	// InterludePurityMax: purity below this marks non-speech content (R1).
	InterludePurityMax float64
	// LargeCorrectionSeconds: a start shift beyond this counts as large (R2).
	LargeCorrectionSeconds float64
	// LargeCorrectionConfidence: spectral confidence required for R2.
	LargeCorrectionConfidence float64
	// AmbiguousPurityMax and AmbiguousRatioMax bound the weak-evidence case (R3).
	AmbiguousPurityMax float64
	AmbiguousRatioMax  float64
	// AmbiguousConfidenceMin: confidence needed to act in the weak-evidence case.
	AmbiguousConfidenceMin float64
}

const (
	DefaultInterludePurityMax        = 0.3
	DefaultLargeCorrectionSeconds    = 1.0
	DefaultLargeCorrectionConfidence = 0.7
	DefaultAmbiguousPurityMax        = 0.5
	DefaultAmbiguousRatioMax         = 0.5
	DefaultAmbiguousConfidenceMin    = 0.6
)

// DefaultThresholds returns the standard rule cut-offs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		InterludePurityMax:        DefaultInterludePurityMax,
		LargeCorrectionSeconds:    DefaultLargeCorrectionSeconds,
		LargeCorrectionConfidence: DefaultLargeCorrectionConfidence,
		AmbiguousPurityMax:        DefaultAmbiguousPurityMax,
		AmbiguousRatioMax:         DefaultAmbiguousRatioMax,
		AmbiguousConfidenceMin:    DefaultAmbiguousConfidenceMin,
	}
}
