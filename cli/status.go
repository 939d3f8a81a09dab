// Package cli implements the command protocol of the graph interpreter: the
// four-category status convention, the command abstraction, the registry the
// hosting loop resolves commands from, and the loop itself.
package cli

import (
	"fmt"

	"github.com/graphline/graphline"
)

// Status classifies the outcome of a command invocation.
type Status int

const (
	// StatusSuccess means the operation completed fully.
	StatusSuccess Status = iota
	// StatusFailure means the request was well formed but could not be
	// carried out, for example a lookup that found nothing.
	StatusFailure
	// StatusError means the input or data was malformed.
	StatusError
	// StatusNone means the operation produced no applicable result.
	StatusNone
)

// Prefix returns the fixed protocol prefix rendered before the detail text.
func (s Status) Prefix() string {
	switch s {
	case StatusSuccess:
		return "OK."
	case StatusFailure:
		return "FAILED!"
	case StatusError:
		return "ERROR!"
	case StatusNone:
		return "NONE."
	}
	return "ERROR!"
}

// MaxMessageLen caps the rendered status line. Longer details are truncated
// rather than overflowing the protocol line.
const MaxMessageLen = 2048

// Result is the outcome of one command invocation. Commands return it by
// value; there is no shared last-status state to read back afterwards.
type Result struct {
	Status  Status
	Message string
	// Nodes carries the payload of a node list command. It is rendered by
	// the hosting loop, not by the command.
	Nodes []graphline.NodeID
	// Arcs carries the payload of an arc list command.
	Arcs []graphline.Arc
}

// String renders the protocol status line without a trailing newline.
func (r Result) String() string {
	s := r.Status.Prefix()
	if r.Message != "" {
		s += " " + r.Message
	}
	if len(s) > MaxMessageLen {
		s = s[:MaxMessageLen]
	}
	return s
}

// Successf builds an OK result.
func Successf(format string, args ...any) Result {
	return Result{Status: StatusSuccess, Message: fmt.Sprintf(format, args...)}
}

// Failuref builds a FAILED result.
func Failuref(format string, args ...any) Result {
	return Result{Status: StatusFailure, Message: fmt.Sprintf(format, args...)}
}

// Errorf builds an ERROR result.
func Errorf(format string, args ...any) Result {
	return Result{Status: StatusError, Message: fmt.Sprintf(format, args...)}
}

// Nonef builds a NONE result.
func Nonef(format string, args ...any) Result {
	return Result{Status: StatusNone, Message: fmt.Sprintf(format, args...)}
}
