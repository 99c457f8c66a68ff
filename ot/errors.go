package ot

import (
	"fmt"
	"strings"
)

// ErrorKind classifies fatal font decoding errors. ErrorKind implements the error
// interface, so clients may test for a kind with errors.Is:
//
//	if errors.Is(err, ot.CorruptedData) { … }
type ErrorKind int

const (
	InvalidFormat          ErrorKind = iota + 1 // unknown signature or unsupported container
	CorruptedData                               // inconsistent or truncated data
	UnsupportedTable                            // a required table is missing
	UnsupportedCompression                      // unknown compression or table transform
	OffsetOutOfBounds                           // an offset or length points outside the data
	AxisOutOfRange                              // a variation coordinate is outside its axis range
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidFormat:
		return "invalid format"
	case CorruptedData:
		return "corrupted data"
	case UnsupportedTable:
		return "unsupported table"
	case UnsupportedCompression:
		return "unsupported compression"
	case OffsetOutOfBounds:
		return "offset out of bounds"
	case AxisOutOfRange:
		return "axis out of range"
	}
	return "unknown error"
}

func (k ErrorKind) Error() string {
	return "font: " + k.String()
}

// ParseError is the error type returned for fonts which cannot be used.
type ParseError struct {
	Kind   ErrorKind
	Table  Tag    // table where the error occurred, if any
	Issue  string // human-readable description
	Offset uint32 // byte offset in the font data (0 if unknown)
	// set for AxisOutOfRange only
	Axis  Tag
	Value float64
	Bound float64
}

func (e *ParseError) Error() string {
	var sb strings.Builder
	sb.WriteString("font: ")
	sb.WriteString(e.Kind.String())
	if e.Table != 0 {
		fmt.Fprintf(&sb, " in table '%s'", e.Table)
	}
	if e.Offset > 0 {
		fmt.Fprintf(&sb, " at offset %d", e.Offset)
	}
	if e.Issue != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Issue)
	}
	return sb.String()
}

// Unwrap returns the error kind.
func (e *ParseError) Unwrap() error {
	return e.Kind
}

func errorf(kind ErrorKind, table Tag, offset uint32, format string, args ...any) *ParseError {
	return &ParseError{
		Kind:   kind,
		Table:  table,
		Offset: offset,
		Issue:  fmt.Sprintf(format, args...),
	}
}

// ErrAxisRange creates an AxisOutOfRange error for a variation axis.
// bound is the axis minimum or maximum which has been violated.
func ErrAxisRange(axis Tag, value, bound float64) *ParseError {
	rel := "above maximum"
	if value < bound {
		rel = "below minimum"
	}
	return &ParseError{
		Kind:  AxisOutOfRange,
		Table: T("fvar"),
		Issue: fmt.Sprintf("axis '%s': value %g %s %g", axis, value, rel, bound),
		Axis:  axis,
		Value: value,
		Bound: bound,
	}
}

// ErrMissingTable creates an UnsupportedTable error for a required table.
func ErrMissingTable(table Tag) *ParseError {
	return &ParseError{
		Kind:  UnsupportedTable,
		Table: table,
		Issue: "required table missing",
	}
}

// --- Non-fatal errors ------------------------------------------------------

// ErrorSeverity represents the severity level of a recoverable font parsing error.
type ErrorSeverity int

const (
	// SeverityCritical indicates a severe error that makes the font unusable or unreliable.
	SeverityCritical ErrorSeverity = iota
	// SeverityMajor indicates a significant error that may affect functionality but doesn't prevent usage.
	SeverityMajor
	// SeverityMinor indicates a minor issue that can be safely ignored in most cases.
	SeverityMinor
)

// String returns a human-readable representation of the error severity.
func (s ErrorSeverity) String() string {
	switch s {
	case SeverityCritical:
		return "CRITICAL"
	case SeverityMajor:
		return "MAJOR"
	case SeverityMinor:
		return "MINOR"
	default:
		return "UNKNOWN"
	}
}

// FontError represents a recoverable error encountered during font parsing.
// Errors are accumulated during parsing and can be inspected after parsing completes.
type FontError struct {
	Table    Tag           // The table where the error occurred (e.g., "cmap", "name")
	Section  string        // Specific section within the table (e.g., "Header", "Directory")
	Issue    string        // Human-readable description of the issue
	Severity ErrorSeverity // Severity level of the error
	Offset   uint32        // Byte offset in the font file where the error occurred (0 if unknown)
}

// Error implements the error interface.
func (e FontError) Error() string {
	if e.Offset > 0 {
		return fmt.Sprintf("[%s] %s/%s at offset %d: %s", e.Severity, e.Table, e.Section, e.Offset, e.Issue)
	}
	return fmt.Sprintf("[%s] %s/%s: %s", e.Severity, e.Table, e.Section, e.Issue)
}

// FontWarning represents a non-critical issue encountered during font parsing.
// Warnings indicate potential problems but do not prevent font usage.
type FontWarning struct {
	Table  Tag    // The table where the warning occurred
	Issue  string // Human-readable description of the warning
	Offset uint32 // Byte offset in the font file where the warning occurred (0 if unknown)
}

// String returns a human-readable representation of the warning.
func (w FontWarning) String() string {
	if w.Offset > 0 {
		return fmt.Sprintf("[WARNING] %s at offset %d: %s", w.Table, w.Offset, w.Issue)
	}
	return fmt.Sprintf("[WARNING] %s: %s", w.Table, w.Issue)
}

// errorCollector accumulates errors and warnings during font parsing.
type errorCollector struct {
	errors   []FontError
	warnings []FontWarning
}

// addError records a recoverable parsing error.
func (ec *errorCollector) addError(table Tag, section string, issue string, severity ErrorSeverity, offset uint32) {
	tracer().Debugf("%s/%s: %s", table, section, issue)
	ec.errors = append(ec.errors, FontError{
		Table:    table,
		Section:  section,
		Issue:    issue,
		Severity: severity,
		Offset:   offset,
	})
}

// addWarning records a parsing warning.
func (ec *errorCollector) addWarning(table Tag, issue string, offset uint32) {
	tracer().Debugf("warning %s: %s", table, issue)
	ec.warnings = append(ec.warnings, FontWarning{
		Table:  table,
		Issue:  issue,
		Offset: offset,
	})
}
