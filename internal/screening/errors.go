package screening

import "fmt"

// ScreeningError represents a failure to obtain or decode a usable risk
// report from the screener agent.
type ScreeningError struct {
	Message string
	Raw     string
	Cause   error
}

func (e *ScreeningError) Error() string {
	msg := fmt.Sprintf("screening failed: %s", e.Message)
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	if e.Raw != "" {
		msg = fmt.Sprintf("%s (raw: %s)", msg, e.Raw)
	}
	return msg
}

func (e *ScreeningError) Unwrap() error {
	return e.Cause
}
