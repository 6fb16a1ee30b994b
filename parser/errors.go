package parser

import (
	"fmt"
	"strings"
)

// Position locates a diagnostic within one input file.
type Position struct {
	Filename string
	Line     int
}

// ErrorKind categorizes a diagnostic for callers that want to branch on it.
type ErrorKind int

const (
	ErrorSyntax ErrorKind = iota
	ErrorSemantic
	ErrorFileIO
	ErrorMemory
)

// Error is a fatal-to-the-line diagnostic tied to one source position.
type Error struct {
	Pos     Position
	Message string
	Kind    ErrorKind
}

// Error implements the error interface using the wire format spec.md §7
// requires: "Error in <file> line <N>: <message>".
func (e *Error) Error() string {
	return fmt.Sprintf("Error in %s line %d: %s", e.Pos.Filename, e.Pos.Line, e.Message)
}

// NewError creates a new diagnostic.
func NewError(pos Position, kind ErrorKind, message string) *Error {
	return &Error{Pos: pos, Message: message, Kind: kind}
}

// Warning is a non-fatal diagnostic; it never suppresses output emission.
type Warning struct {
	Pos     Position
	Message string
}

// String formats a warning using spec.md §7's wire format:
// `WARNING in "<file>" line <N>: <message>`.
func (w *Warning) String() string {
	return fmt.Sprintf("WARNING in %q line %d: %s", w.Pos.Filename, w.Pos.Line, w.Message)
}

// ErrorList accumulates every diagnostic produced while processing one
// file. A pass never stops scanning on the first error — it keeps
// collecting so a single run surfaces every problem in the file.
type ErrorList struct {
	Errors   []*Error
	Warnings []*Warning
}

// AddError appends an error.
func (el *ErrorList) AddError(err *Error) {
	el.Errors = append(el.Errors, err)
}

// AddWarning appends a warning.
func (el *ErrorList) AddWarning(warn *Warning) {
	el.Warnings = append(el.Warnings, warn)
}

// HasErrors reports whether any error (not warning) was recorded.
func (el *ErrorList) HasErrors() bool {
	return len(el.Errors) > 0
}

// Strings renders every error, one per line, for printing by the driver.
func (el *ErrorList) Strings() []string {
	lines := make([]string, 0, len(el.Errors))
	for _, e := range el.Errors {
		lines = append(lines, e.Error())
	}
	return lines
}

// WarningStrings renders every warning, one per line, for printing.
func (el *ErrorList) WarningStrings() []string {
	lines := make([]string, 0, len(el.Warnings))
	for _, w := range el.Warnings {
		lines = append(lines, w.String())
	}
	return lines
}

// Merge appends another list's errors and warnings onto this one.
func (el *ErrorList) Merge(other *ErrorList) {
	if other == nil {
		return
	}
	el.Errors = append(el.Errors, other.Errors...)
	el.Warnings = append(el.Warnings, other.Warnings...)
}

// String implements fmt.Stringer for ad-hoc debug printing.
func (el *ErrorList) String() string {
	var sb strings.Builder
	for _, l := range el.Strings() {
		sb.WriteString(l)
		sb.WriteString("\n")
	}
	for _, l := range el.WarningStrings() {
		sb.WriteString(l)
		sb.WriteString("\n")
	}
	return sb.String()
}
