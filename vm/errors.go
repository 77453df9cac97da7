package vm

import (
	"fmt"
	"lumen/token"
)

// RuntimeError describes an error raised while executing a chunk. The
// source range is recovered from the chunk's line table at the offset of
// the failing instruction.
type RuntimeError struct {
	Span    token.Range
	Message string
}

func (e RuntimeError) Error() string {
	return fmt.Sprintf("💥 Lumen Runtime error:\nline:%d, column:%d - %s", e.Span.Line, e.Span.Column, e.Message)
}
