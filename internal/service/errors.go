package service

import (
	"fmt"
	"strings"
)

// ValidationError carries every input rule a request violated, so callers see
// the complete list in one round trip.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input: %s", strings.Join(e.Violations, "; "))
}
