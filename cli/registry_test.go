package cli

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/graphline/graphline/dataset"
)

type fakeCommand struct {
	name    string
	kind    Kind
	execute func(ctx context.Context, args []string, in *dataset.Reader, out io.Writer) Result
}

func (f *fakeCommand) Name() string     { return f.name }
func (f *fakeCommand) Synopsis() string { return f.name + " <args>" }
func (f *fakeCommand) Help() string     { return "Help text for " + f.name + "." }
func (f *fakeCommand) Kind() Kind       { return f.kind }
func (f *fakeCommand) Execute(ctx context.Context, args []string, in *dataset.Reader, out io.Writer) Result {
	if f.execute != nil {
		return f.execute(ctx, args, in, out)
	}
	return Successf("")
}

func TestRegistryFind(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&fakeCommand{name: "list"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	t.Run("exact match", func(t *testing.T) {
		cmd, ok := r.Find("list")
		if !ok {
			t.Fatal("expected to find command")
		}
		if cmd.Name() != "list" {
			t.Errorf("unexpected command %q", cmd.Name())
		}
	})
	t.Run("no prefix matching", func(t *testing.T) {
		if _, ok := r.Find("li"); ok {
			t.Error("expected prefix lookup to fail")
		}
	})
	t.Run("case sensitive", func(t *testing.T) {
		if _, ok := r.Find("List"); ok {
			t.Error("expected lookup to be case sensitive")
		}
	})
}

func TestRegistryRegister(t *testing.T) {
	t.Run("duplicate name", func(t *testing.T) {
		r := NewRegistry()
		if err := r.Register(&fakeCommand{name: "dup"}); err != nil {
			t.Fatalf("first register: %v", err)
		}
		if err := r.Register(&fakeCommand{name: "dup"}); err == nil {
			t.Fatal("expected error on duplicate register")
		}
	})
	t.Run("nil command", func(t *testing.T) {
		r := NewRegistry()
		if err := r.Register(nil); err == nil {
			t.Fatal("expected error for nil command")
		}
	})
	t.Run("empty name", func(t *testing.T) {
		r := NewRegistry()
		if err := r.Register(&fakeCommand{}); err == nil {
			t.Fatal("expected error for empty name")
		}
	})
	t.Run("registration order preserved", func(t *testing.T) {
		r := NewRegistry()
		for i := 0; i < 5; i++ {
			if err := r.Register(&fakeCommand{name: fmt.Sprintf("cmd%d", i)}); err != nil {
				t.Fatalf("register: %v", err)
			}
		}
		commands := r.Commands()
		if len(commands) != 5 {
			t.Fatalf("expected 5 commands, got %d", len(commands))
		}
		for i, c := range commands {
			if expected := fmt.Sprintf("cmd%d", i); c.Name() != expected {
				t.Errorf("position %d: expected %q, got %q", i, expected, c.Name())
			}
		}
	})
}

func TestRegistryQuit(t *testing.T) {
	r := NewRegistry()
	if r.QuitRequested() {
		t.Fatal("quit should not be requested initially")
	}
	r.RequestQuit()
	if !r.QuitRequested() {
		t.Fatal("expected quit to be latched")
	}
	// The latch is one-way.
	r.RequestQuit()
	if !r.QuitRequested() {
		t.Fatal("expected quit to stay latched")
	}
}

func TestSyntaxError(t *testing.T) {
	res := SyntaxError(&fakeCommand{name: "add-arcs"})
	if res.Status != StatusError {
		t.Errorf("expected error status, got %v", res.Status)
	}
	if res.String() != "ERROR! Syntax: add-arcs <args>" {
		t.Errorf("unexpected rendering: %q", res.String())
	}
}
