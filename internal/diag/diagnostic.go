package diag

import (
	"bigcalc/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	// Path is used instead of Primary when the problem has no location
	// inside a loaded file (unreadable input, config errors).
	Path  string
	Notes []Note
}

// HasSpan reports whether Primary points into a FileSet.
func (d Diagnostic) HasSpan() bool {
	return d.Path == ""
}
