package optimizer

import (
	"fmt"
	"strings"
)

// AllModelsFailedError is returned once every model in the list reported
// that it is unavailable.
type AllModelsFailedError struct {
	Models []string
	Last   error
}

func (e *AllModelsFailedError) Error() string {
	if e.Last == nil {
		return fmt.Sprintf("all AI models failed (%s)", strings.Join(e.Models, ", "))
	}
	return fmt.Sprintf("all AI models failed. Last error: %v", e.Last)
}

func (e *AllModelsFailedError) Unwrap() error {
	return e.Last
}
