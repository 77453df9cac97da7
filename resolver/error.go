package resolver

import "fmt"

// Defines the struct for all static-analysis errors found by the Resolver
type ResolveError struct {
	Line    int32
	Column  int
	Message string
}

func CreateResolveError(line int32, column int, message string) ResolveError {
	return ResolveError{
		Line:    line,
		Column:  column,
		Message: message,
	}
}

func (e ResolveError) Error() string {
	return fmt.Sprintf("💥 Lumen Resolve error:\nline:%d, column:%d - %s", e.Line, e.Column, e.Message)
}
