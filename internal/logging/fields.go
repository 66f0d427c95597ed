package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID is the standardized key for the identifier of one correction run.
	FieldRunID = "run_id"
	// FieldEventType classifies a log line for filtering (e.g. "correction_summary").
	FieldEventType = "event_type"
	// FieldDecisionType names the decision a log line records (e.g. "segment_correction").
	FieldDecisionType = "decision_type"
	// FieldDecisionResult is the outcome of a decision (e.g. "corrected").
	FieldDecisionResult = "decision_result"
	// FieldDecisionReason explains the outcome, usually a rule name.
	FieldDecisionReason = "decision_reason"
	// FieldErrorHint suggests the next step for the reader of a warning or error.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldSegmentIndex is the 0-based position of a segment in the ASR input.
	FieldSegmentIndex = "segment_index"
)
