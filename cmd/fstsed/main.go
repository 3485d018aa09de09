// Command fstsed is a streaming keyword substitution engine backed by a
// memory-mapped FST database: it rewrites every occurrence of a stored key
// in its input through a user template, or (in --build mode) builds that
// database from a JSONL corpus (spec.md §6).
package main

import (
	"bufio"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	flags "github.com/jessevdk/go-flags"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/erichutchins/fstsed/internal/driver"
	"github.com/erichutchins/fstsed/internal/fstdb"
	"github.com/erichutchins/fstsed/internal/render"
)

type colorChoice string

const (
	colorAlways colorChoice = "always"
	colorNever  colorChoice = "never"
	colorAuto   colorChoice = "auto"
)

type options struct {
	OnlyMatching bool        `short:"o" long:"only-matching" description:"Show only the rendered matches, one per output line"`
	Color        colorChoice `short:"C" long:"color" choice:"always" choice:"never" choice:"auto" default:"auto" description:"Colorize matches"`
	Fst          string      `short:"f" long:"fst" value-name:"PATH" required:"true" description:"FST database path (build mode: output path)"`
	Build        bool        `long:"build" description:"Build mode: build an FST database from JSONL instead of searching one"`
	Key          string      `short:"k" long:"key" value-name:"NAME" default:"key" description:"Build mode: JSON field or JSON pointer (/a/b) used as the key"`
	Sorted       bool        `long:"sorted" description:"Build mode: input is already sorted by extracted key; skip the sort step"`
	Template     string      `short:"t" long:"template" value-name:"STR" description:"Template for rendering matches"`
	JSON         bool        `short:"j" long:"json" description:"JSON search mode: search only inside JSON string literals"`

	Args struct {
		Files []string `positional-arg-name:"FILE"`
	} `positional-args:"yes"`
}

func main() {
	// Go does not ignore SIGPIPE on fd 1/2 the way the Rust original's
	// runtime does: without this, a write to a closed stdout pipe (e.g.
	// `fstsed ... | head`) kills the process on the signal before Write
	// ever returns an error, and isBrokenPipe below never gets a chance to
	// turn it into a clean exit (spec.md §5, §7).
	signal.Ignore(syscall.SIGPIPE)

	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if err := run(opts); err != nil {
		if isBrokenPipe(err) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, "fstsed:", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	inputs := opts.Args.Files
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}

	if opts.Build {
		return runBuild(opts, inputs[0])
	}

	color := resolveColor(opts.Color)
	mode := driver.ModePlain
	switch {
	case opts.JSON:
		mode = driver.ModeJSON
		color = false
	case opts.OnlyMatching:
		mode = driver.ModeOnlyMatching
	}

	tmplText := opts.Template
	if tmplText == "" {
		tmplText = render.DefaultTemplate
	}
	tmpl := render.Compile(tmplText, color)

	fst, err := fstdb.Open(opts.Fst)
	if err != nil {
		return fmt.Errorf("opening fst database: %w", err)
	}
	defer fst.Close()

	engine, err := fstdb.NewEngine(fst, fstdb.EngineOptions{RequiresJSON: tmpl.RequiresJSON()})
	if err != nil {
		return err
	}
	defer engine.Close()

	d := driver.New(engine, tmpl, mode)

	out := bufio.NewWriterSize(colorable.NewColorableStdout(), 64*1024)
	defer out.Flush()

	for _, path := range inputs {
		in, err := openInput(path)
		if err != nil {
			return err
		}
		err = d.Run(in, out)
		closeInput(in)
		if err != nil {
			return err
		}
	}
	return out.Flush()
}

func runBuild(opts options, path string) error {
	in, err := openInput(path)
	if err != nil {
		return err
	}
	defer closeInput(in)

	stats, err := fstdb.Build(in, opts.Key, opts.Fst, opts.Sorted)
	if err != nil {
		return err
	}

	logger := log.New(os.Stderr, "", 0)
	logger.Printf("processed %d with %d errors and %d blanks", stats.Accepted, stats.Errored, stats.Blanks)
	return nil
}

// openInput returns a reader for path, treating "-" (or no path at all) as
// stdin (spec.md §6).
func openInput(path string) (*os.File, error) {
	if path == "" || path == "-" {
		return os.Stdin, nil
	}
	return os.Open(path)
}

// closeInput closes f unless it is stdin, which callers never own.
func closeInput(f *os.File) {
	if f != os.Stdin {
		f.Close()
	}
}

func resolveColor(c colorChoice) bool {
	switch c {
	case colorAlways:
		return true
	case colorNever:
		return false
	default:
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}
}

// isBrokenPipe reports whether err is (or wraps) a broken-pipe I/O error,
// which fstsed must treat as a normal exit rather than a failure (spec.md
// §5, §7).
func isBrokenPipe(err error) bool {
	return errors.Is(err, syscall.EPIPE)
}
