package qrcore

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies why a decode attempt failed.
type ErrorKind int

const (
	// KindStructural means a matrix or detection has an impossible shape.
	KindStructural ErrorKind = iota + 1
	// KindFormatDecode means neither copy of the format information decoded.
	KindFormatDecode
	// KindVersionDecode means neither copy of the version information matched
	// the matrix dimension.
	KindVersionDecode
	// KindCodewordCount means the data region held the wrong number of codewords.
	KindCodewordCount
	// KindGeometry means a sampled coordinate fell outside the image, or the
	// perspective mapping was degenerate.
	KindGeometry
	// KindFieldMismatch means two polynomials belong to different fields.
	KindFieldMismatch
	// KindArithmetic covers inverse/log of zero, negative monomial degrees and
	// division by the zero polynomial.
	KindArithmetic
	// KindChecksum means Reed-Solomon correction could not repair a block.
	KindChecksum
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindStructural:
		return "structural"
	case KindFormatDecode:
		return "format decode"
	case KindVersionDecode:
		return "version decode"
	case KindCodewordCount:
		return "codeword count"
	case KindGeometry:
		return "geometry"
	case KindFieldMismatch:
		return "field mismatch"
	case KindArithmetic:
		return "arithmetic"
	case KindChecksum:
		return "checksum"
	}
	return "unknown"
}

// Error is the error type returned by every stage of a decode attempt.
// Fields other than Kind and Op are set only when relevant to the kind.
type Error struct {
	Kind ErrorKind
	// Op names the operation that failed, e.g. "ReadVersion".
	Op string
	// Dimension is the symbol or image dimension involved.
	Dimension int
	// Want and Got hold expected and observed counts or dimensions.
	Want, Got int
	// X and Y hold the offending coordinate for geometry failures.
	X, Y float64
	// Bits holds the raw metadata words read at each location tried.
	Bits []int
	// Err is an optional underlying cause.
	Err error
}

// Per-kind sentinels. errors.Is(err, ErrGeometry) reports whether err is a
// geometry failure regardless of its context fields.
var (
	ErrStructural    = &Error{Kind: KindStructural}
	ErrFormatDecode  = &Error{Kind: KindFormatDecode}
	ErrVersionDecode = &Error{Kind: KindVersionDecode}
	ErrCodewordCount = &Error{Kind: KindCodewordCount}
	ErrGeometry      = &Error{Kind: KindGeometry}
	ErrFieldMismatch = &Error{Kind: KindFieldMismatch}
	ErrArithmetic    = &Error{Kind: KindArithmetic}
	ErrChecksum      = &Error{Kind: KindChecksum}
)

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString("qrcore: ")
	if e.Op != "" {
		sb.WriteString(e.Op)
		sb.WriteString(": ")
	}
	sb.WriteString(e.Kind.String())
	sb.WriteString(" error")
	switch e.Kind {
	case KindStructural, KindVersionDecode:
		if e.Dimension != 0 {
			fmt.Fprintf(&sb, " (dimension %d)", e.Dimension)
		}
	case KindCodewordCount:
		fmt.Fprintf(&sb, " (want %d, got %d)", e.Want, e.Got)
	case KindGeometry:
		fmt.Fprintf(&sb, " at (%g, %g)", e.X, e.Y)
	}
	if len(e.Bits) > 0 {
		fmt.Fprintf(&sb, " bits=%#x", e.Bits)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
