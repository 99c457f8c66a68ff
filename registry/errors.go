package registry

import (
	"fmt"
)

// ErrorKind classifies errors of loading fonts into a registry. ErrorKind
// implements the error interface, so clients may test for a kind with errors.Is.
type ErrorKind int

const (
	InvalidFont  ErrorKind = iota + 1 // empty font data
	FileNotFound                      // font file does not exist
	FileTooLarge                      // font file exceeds the size limit
	IoFailure                         // font file cannot be read
	ParseFailure                      // font data cannot be decoded; wraps an *ot.ParseError
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidFont:
		return "invalid font"
	case FileNotFound:
		return "file not found"
	case FileTooLarge:
		return "file too large"
	case IoFailure:
		return "I/O failure"
	case ParseFailure:
		return "parse failure"
	}
	return "unknown error"
}

func (k ErrorKind) Error() string {
	return "registry: " + k.String()
}

// RegistryError is returned by the load operations of a Registry.
// It matches its kind and its cause with errors.Is, e.g.
//
//	errors.Is(err, registry.ParseFailure)
//	errors.Is(err, ot.CorruptedData)
type RegistryError struct {
	Kind ErrorKind
	Path string // font file, if any
	Err  error  // cause, if any
}

func (e *RegistryError) Error() string {
	msg := "registry: " + e.Kind.String()
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Path)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the error kind and the cause.
func (e *RegistryError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func regError(kind ErrorKind, path string, err error) *RegistryError {
	return &RegistryError{Kind: kind, Path: path, Err: err}
}
