package parse

import (
	"errors"
	"fmt"
)

// ErrMalformedLine matches every *MalformedLineError via errors.Is.
var ErrMalformedLine = errors.New("malformed line")

// MalformedLineError reports a line that is neither a section header nor a
// key/value directive. It is only returned in strict mode.
type MalformedLineError struct {
	Line int
	Text string
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("tgm:%d: invalid syntax %q", e.Line, e.Text)
}

func (e *MalformedLineError) Is(target error) bool { return target == ErrMalformedLine }
