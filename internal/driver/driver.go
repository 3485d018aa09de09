// Package driver implements the per-line modes of spec.md §4.7: plain
// search-and-replace, only-matching, and JSON-string-scoped search.
package driver

import (
	"bufio"
	"bytes"
	"io"

	json "github.com/goccy/go-json"

	"github.com/erichutchins/fstsed/internal/fstdb"
	"github.com/erichutchins/fstsed/internal/jsonscan"
	"github.com/erichutchins/fstsed/internal/render"
)

// Mode selects which of the three line-processing strategies Run uses.
type Mode int

const (
	// ModePlain rewrites every match in place, keeping all non-matching
	// bytes (including the line terminator) verbatim.
	ModePlain Mode = iota
	// ModeOnlyMatching emits only the rendered form of each match, one
	// per output line.
	ModeOnlyMatching
	// ModeJSON restricts search to JSON string literals, decoding and
	// re-encoding them so substitution stays JSON-safe. Color is always
	// off in this mode (spec.md §4.7).
	ModeJSON
)

// Driver runs one Mode's per-line processing over a sequence of input
// readers, using a single Engine and Template.
type Driver struct {
	engine   *fstdb.Engine
	template *render.Template
	mode     Mode
}

// New constructs a Driver.
func New(engine *fstdb.Engine, template *render.Template, mode Mode) *Driver {
	return &Driver{engine: engine, template: template, mode: mode}
}

// Run processes every line of r (including each line's terminator, for
// plain/only-matching modes) and writes the result to w.
func (d *Driver) Run(r io.Reader, w io.Writer) error {
	br := bufio.NewReaderSize(r, 64*1024)
	for {
		line, err := readLineWithTerminator(br)
		if len(line) > 0 {
			switch d.mode {
			case ModeOnlyMatching:
				if procErr := d.onlyMatching(line, w); procErr != nil {
					return procErr
				}
			case ModeJSON:
				if procErr := d.jsonLine(line, w); procErr != nil {
					return procErr
				}
			default:
				if procErr := d.plainLine(line, w); procErr != nil {
					return procErr
				}
			}
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

// readLineWithTerminator reads up to and including the next '\n', mirroring
// bstr's for_byte_line_with_terminator: the terminator is kept in the
// returned slice, and a final line with no trailing newline is still
// returned (with err == io.EOF).
func readLineWithTerminator(br *bufio.Reader) ([]byte, error) {
	line, err := br.ReadBytes('\n')
	if err != nil && err != io.EOF {
		return line, err
	}
	if len(line) == 0 {
		return nil, io.EOF
	}
	if err == io.EOF {
		return line, io.EOF
	}
	return line, nil
}

// plainLine writes the gap before each match, the rendered match, and the
// final tail (spec.md §4.7, plain mode).
func (d *Driver) plainLine(line []byte, w io.Writer) error {
	it := d.engine.FindIter(line)
	last := 0
	for {
		start, ok := it.Next()
		if !ok {
			break
		}
		if _, err := w.Write(line[last:start]); err != nil {
			return err
		}
		if _, err := io.WriteString(w, d.template.Render(d.engine.GetMatch())); err != nil {
			return err
		}
		last = start + d.engine.GetMatchLen()
	}
	_, err := w.Write(line[last:])
	return err
}

// onlyMatching writes only the rendered form of each match, one per line
// (spec.md §4.7, only-matching mode).
func (d *Driver) onlyMatching(line []byte, w io.Writer) error {
	it := d.engine.FindIter(line)
	for {
		_, ok := it.Next()
		if !ok {
			break
		}
		if _, err := io.WriteString(w, d.template.Render(d.engine.GetMatch())); err != nil {
			return err
		}
		if _, err := w.Write([]byte{'\n'}); err != nil {
			return err
		}
	}
	return nil
}

// jsonLine restricts search to each JSON string literal in line, decoding
// it, running plainLine-style substitution over the decoded bytes, and
// re-encoding the result as a JSON string (spec.md §4.7, JSON mode). A
// string literal that fails to decode is written through unchanged.
func (d *Driver) jsonLine(line []byte, w io.Writer) error {
	last := 0
	var scratch bytes.Buffer
	for _, r := range jsonscan.Ranges(line) {
		start, end := r[0], r[1]
		if _, err := w.Write(line[last:start]); err != nil {
			return err
		}

		var decoded string
		if err := json.Unmarshal(line[start:end], &decoded); err != nil {
			if _, err := w.Write(line[start:end]); err != nil {
				return err
			}
			last = end
			continue
		}

		scratch.Reset()
		if err := d.plainLine([]byte(decoded), &scratch); err != nil {
			return err
		}
		encoded, err := json.Marshal(scratch.String())
		if err != nil {
			return err
		}
		if _, err := w.Write(encoded); err != nil {
			return err
		}
		last = end
	}
	_, err := w.Write(line[last:])
	return err
}
