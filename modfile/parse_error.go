package modfile

import (
	"fmt"
)

// ParseError is returned by the parser when the module data is malformed or truncated.
type ParseError struct {
	Message string

	// Offset is a data position where the problem was detected.
	Offset int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s (offset=%d)", e.Message, e.Offset)
}
