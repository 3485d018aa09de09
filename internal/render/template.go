// Package render interpolates a match's fields into a user-supplied
// template string (spec.md §4.6).
package render

import "strings"

// Source is anything a Template can pull placeholder values from. It is
// satisfied structurally by *fstdb.Match — render does not import fstdb,
// to keep the dependency direction pointing from drivers down to both
// packages rather than across them.
type Source interface {
	Field(name string) string
}

type segment struct {
	literal string
	field   string
	isField bool
}

// Template is a parsed, immutable `{name}`-placeholder template.
type Template struct {
	segments     []segment
	requiresJSON bool
	color        bool
}

// DefaultTemplate is used when the user supplies no -t/--template flag.
const DefaultTemplate = "<{key}|{value}>"

// Compile parses tmpl into a Template. If color is true, the rendered
// output is wrapped in ANSI red/bold escapes (spec.md §3, §4.6).
func Compile(tmpl string, color bool) *Template {
	t := &Template{color: color}
	t.segments, t.requiresJSON = parse(tmpl)
	return t
}

// RequiresJSON reports whether any placeholder in the template references a
// field other than "key" or "value" — the signal internal/fstdb.Engine uses
// to decide whether GetMatch must parse the decompressed value as JSON.
func (t *Template) RequiresJSON() bool { return t.requiresJSON }

// Render interpolates src's fields into the template.
func (t *Template) Render(src Source) string {
	var b strings.Builder
	if t.color {
		b.WriteString("\x1b[1;31m")
	}
	for _, seg := range t.segments {
		if seg.isField {
			b.WriteString(src.Field(seg.field))
		} else {
			b.WriteString(seg.literal)
		}
	}
	if t.color {
		b.WriteString("\x1b[0;0m")
	}
	return b.String()
}

// parse splits tmpl into literal and {name} placeholder segments, and
// reports whether any placeholder name is something other than key/value.
func parse(tmpl string) ([]segment, bool) {
	var segments []segment
	requiresJSON := false

	rest := tmpl
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			if len(rest) > 0 {
				segments = append(segments, segment{literal: rest})
			}
			break
		}
		if open > 0 {
			segments = append(segments, segment{literal: rest[:open]})
		}

		closeIdx := strings.IndexByte(rest[open:], '}')
		if closeIdx < 0 {
			// unterminated placeholder: treat the rest as a literal
			segments = append(segments, segment{literal: rest[open:]})
			break
		}
		name := rest[open+1 : open+closeIdx]
		segments = append(segments, segment{field: name, isField: true})
		if name != "key" && name != "value" {
			requiresJSON = true
		}
		rest = rest[open+closeIdx+1:]
	}

	return segments, requiresJSON
}
