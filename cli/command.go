package cli

import (
	"context"
	"io"

	"github.com/graphline/graphline/dataset"
)

// Kind declares the result shape of a command, so the hosting loop knows
// whether to render a structured list after the status line.
type Kind int

const (
	// KindNone is a command with no result payload.
	KindNone Kind = iota
	// KindNodeList is a command whose result is a list of node IDs.
	KindNodeList
	// KindArcList is a command whose result is a list of arcs.
	KindArcList
	// KindOther is a command with unstructured output.
	KindOther
)

// Command is one named operation of the interpreter.
type Command interface {
	// Name is the unique name the command is looked up by.
	Name() string
	// Synopsis is a one-line description of the command and its parameters.
	Synopsis() string
	// Help is the full help text.
	Help() string
	// Kind declares the command's result shape.
	Kind() Kind
	// Execute runs the command. args are the tokens following the command
	// name. in is the stream dataset-consuming commands read from; out is the
	// primary output channel for unstructured output. Structured payloads are
	// returned in the Result and rendered by the hosting loop.
	Execute(ctx context.Context, args []string, in *dataset.Reader, out io.Writer) Result
}

// SyntaxError builds the conventional bad-invocation result for a command:
// an error-status message carrying the command's synopsis.
func SyntaxError(c Command) Result {
	return Errorf("Syntax: %s", c.Synopsis())
}
