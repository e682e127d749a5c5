package triage

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/triagekit/triage/pkg/domain"
)

// Runner handles the interactive shell loop of the triage engine using
// provided IO. This allows for easy testing and integration with different
// frontends (CLI, TUI, etc).
type Runner struct {
	Input    io.Reader
	Output   io.Writer
	Session  string
	Renderer ContentRenderer
}

// ContentRenderer is a function that transforms content before outputting it.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)

// NewRunner creates a new Runner. The caller must set Input and Output
// (usually os.Stdin and os.Stdout).
func NewRunner() *Runner {
	return &Runner{Session: "shell"}
}

// Run executes the shell loop until EOF or an exit command.
//
// Supported commands:
//
//	dispatch <level> <kind> — route a request through the chain
//	run <command>           — execute a registered command
//	undo                    — reverse the last command
//	history                 — show the session journal
//	handlers                — list chain handlers
//	commands                — list registered commands
//	exit | quit             — leave the shell
func (r *Runner) Run(ctx context.Context, engine *Engine) error {
	if r.Input == nil {
		return fmt.Errorf("input reader must be set (use os.Stdin)")
	}
	writer := r.Output
	if writer == nil {
		return fmt.Errorf("output writer must be set (use os.Stdout)")
	}
	lineReader := bufio.NewReader(r.Input)

	for {
		fmt.Fprint(writer, "triage> ")
		text, err := lineReader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}

		fields := strings.Fields(strings.TrimSpace(text))
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "exit", "quit":
			fmt.Fprintln(writer, "Bye!")
			return nil
		case "dispatch":
			r.doDispatch(ctx, engine, writer, fields[1:])
		case "run":
			r.doRun(ctx, engine, writer, fields[1:])
		case "undo":
			r.doUndo(ctx, engine, writer)
		case "history":
			r.doHistory(ctx, engine, writer)
		case "handlers":
			fmt.Fprintln(writer, strings.Join(engine.Chain().Names(), ", "))
		case "commands":
			fmt.Fprintln(writer, strings.Join(engine.Registry().Names(), ", "))
		default:
			fmt.Fprintf(writer, "unknown command %q (try dispatch, run, undo, history, exit)\n", fields[0])
		}
	}
}

func (r *Runner) doDispatch(ctx context.Context, engine *Engine, w io.Writer, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(w, "usage: dispatch <level> <kind>")
		return
	}
	level, err := strconv.Atoi(args[0])
	if err != nil || level < 0 {
		fmt.Fprintln(w, "level must be a non-negative integer")
		return
	}
	kind := strings.Join(args[1:], " ")

	outcome, err := engine.Dispatch(ctx, domain.NewRequest(kind, level, nil))
	if err != nil {
		fmt.Fprintf(w, "dispatch error: %v\n", err)
		return
	}
	if !outcome.Handled {
		fmt.Fprintf(w, "request %q (level %d) went unhandled\n", kind, level)
		return
	}
	r.printContent(w, fmt.Sprintf("**%s** accepted: %s", outcome.Handler, outcome.Reply))
}

func (r *Runner) doRun(ctx context.Context, engine *Engine, w io.Writer, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(w, "usage: run <command>")
		return
	}
	name := args[0]
	if err := engine.Execute(ctx, r.Session, name, nil); err != nil {
		fmt.Fprintf(w, "execute error: %v\n", err)
		return
	}
	fmt.Fprintf(w, "executed %s\n", name)
}

func (r *Runner) doUndo(ctx context.Context, engine *Engine, w io.Writer) {
	name, err := engine.Undo(ctx, r.Session)
	if errors.Is(err, domain.ErrNothingToUndo) {
		fmt.Fprintln(w, "nothing to undo")
		return
	}
	if err != nil {
		fmt.Fprintf(w, "undo error: %v\n", err)
		return
	}
	fmt.Fprintf(w, "undone %s\n", name)
}

func (r *Runner) doHistory(ctx context.Context, engine *Engine, w io.Writer) {
	journal, err := engine.History(ctx, r.Session)
	if errors.Is(err, domain.ErrSessionNotFound) || (err == nil && journal.Len() == 0) {
		fmt.Fprintln(w, "history is empty")
		return
	}
	if err != nil {
		fmt.Fprintf(w, "history error: %v\n", err)
		return
	}

	var b strings.Builder
	b.WriteString("# History\n\n")
	for i, entry := range journal.Entries {
		fmt.Fprintf(&b, "%d. `%s` at %s\n", i+1, entry.Command, entry.ExecutedAt.Format("15:04:05"))
	}
	r.printContent(w, b.String())
}

func (r *Runner) printContent(w io.Writer, content string) {
	output := content
	if r.Renderer != nil {
		if rendered, err := r.Renderer(content); err == nil {
			output = rendered
		}
	}
	fmt.Fprintln(w, strings.TrimSpace(output))
}
