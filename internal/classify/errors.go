package classify

import "fmt"

// ClassificationError represents a failure to obtain or decode a usable
// intent from the classifier agent. Raw carries a truncated copy of the
// model output for diagnostics.
type ClassificationError struct {
	Message string
	Raw     string
	Cause   error
}

func (e *ClassificationError) Error() string {
	msg := fmt.Sprintf("classification failed: %s", e.Message)
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	if e.Raw != "" {
		msg = fmt.Sprintf("%s (raw: %s)", msg, e.Raw)
	}
	return msg
}

func (e *ClassificationError) Unwrap() error {
	return e.Cause
}
