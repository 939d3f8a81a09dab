package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/graphline/graphline/dataset"
)

// Interp is the read-eval loop hosting the registered commands. It is
// single-threaded: one command runs to completion, including any dataset
// ingestion it performs, before the next command line is read.
type Interp struct {
	registry *Registry
	logger   *slog.Logger
	// Prompt is written to the output before each command line. Leave empty
	// for non-interactive use so protocol output stays clean.
	Prompt string
}

func NewInterp(registry *Registry, logger *slog.Logger) *Interp {
	if logger == nil {
		logger = slog.Default()
	}
	return &Interp{
		registry: registry,
		logger:   logger,
	}
}

// Run reads command lines from in until the quit latch is set, the stream
// ends, or the context is canceled. Commands borrow the same buffered reader
// for dataset ingestion, so data may follow a command on the next lines of
// the same stream.
func (i *Interp) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	r := dataset.NewReader(in)
	for !i.registry.QuitRequested() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if i.Prompt != "" {
			fmt.Fprint(out, i.Prompt)
		}
		line, err := r.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if errors.Is(err, dataset.ErrLineTooLong) {
				fmt.Fprintln(out, Errorf("command line too long").String())
				continue
			}
			return err
		}
		fields := dataset.Split(line)
		if len(fields) == 0 {
			continue
		}
		cmd, ok := i.registry.Find(fields[0])
		if !ok {
			i.logger.Debug("unknown command", slog.String("name", fields[0]))
			fmt.Fprintln(out, Failuref("unknown command %q", fields[0]).String())
			continue
		}
		result := cmd.Execute(ctx, fields[1:], r, out)
		i.logger.Debug("executed command",
			slog.String("name", cmd.Name()),
			slog.Int("args", len(fields)-1),
			slog.String("status", result.Status.Prefix()))
		i.render(cmd, result, out)
	}
	return nil
}

// render writes the status line, then the structured payload for list
// commands. List payloads are terminated by a blank line so a reader can use
// the dataset terminator rule to consume them.
func (i *Interp) render(cmd Command, result Result, out io.Writer) {
	fmt.Fprintln(out, result.String())
	if result.Status != StatusSuccess {
		return
	}
	switch cmd.Kind() {
	case KindNodeList:
		for _, n := range result.Nodes {
			fmt.Fprintln(out, n)
		}
		fmt.Fprintln(out)
	case KindArcList:
		for _, a := range result.Arcs {
			fmt.Fprintln(out, a.String())
		}
		fmt.Fprintln(out)
	}
}
