package ranking

import "fmt"

// RankingError represents a failure to obtain or decode a usable ranking
// from the matcher agent.
type RankingError struct {
	Message string
	Raw     string
	Cause   error
}

func (e *RankingError) Error() string {
	msg := fmt.Sprintf("ranking failed: %s", e.Message)
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	if e.Raw != "" {
		msg = fmt.Sprintf("%s (raw: %s)", msg, e.Raw)
	}
	return msg
}

func (e *RankingError) Unwrap() error {
	return e.Cause
}
