package driver

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/erichutchins/fstsed/internal/fstdb"
	"github.com/erichutchins/fstsed/internal/render"
)

const testJSONL = `{"key":"8.8.8.8","country":"US"}
{"key":"1.1.1.1","country":"AU"}
`

func buildTestEngine(t *testing.T, requiresJSON bool) *fstdb.Engine {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.fstsed")

	if _, err := fstdb.Build(strings.NewReader(testJSONL), "key", dbPath, false); err != nil {
		t.Fatalf("Build: %v", err)
	}
	fst, err := fstdb.Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { fst.Close() })

	engine, err := fstdb.NewEngine(fst, fstdb.EngineOptions{RequiresJSON: requiresJSON})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}

func TestDriverPlainMode(t *testing.T) {
	engine := buildTestEngine(t, false)
	tmpl := render.Compile("[{key}]", false)
	d := New(engine, tmpl, ModePlain)

	var out bytes.Buffer
	in := strings.NewReader("request from 8.8.8.8 completed\n")
	if err := d.Run(in, &out); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := "request from [8.8.8.8] completed\n"
	if out.String() != want {
		t.Errorf("Run() output = %q, want %q", out.String(), want)
	}
}

func TestDriverPlainModeNoMatch(t *testing.T) {
	engine := buildTestEngine(t, false)
	tmpl := render.Compile("[{key}]", false)
	d := New(engine, tmpl, ModePlain)

	var out bytes.Buffer
	in := strings.NewReader("nothing interesting here\n")
	if err := d.Run(in, &out); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := "nothing interesting here\n"
	if out.String() != want {
		t.Errorf("Run() output = %q, want %q (line should pass through unchanged)", out.String(), want)
	}
}

func TestDriverOnlyMatchingMode(t *testing.T) {
	engine := buildTestEngine(t, false)
	tmpl := render.Compile("{key}", false)
	d := New(engine, tmpl, ModeOnlyMatching)

	var out bytes.Buffer
	in := strings.NewReader("8.8.8.8 and 1.1.1.1 together\n")
	if err := d.Run(in, &out); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := "8.8.8.8\n1.1.1.1\n"
	if out.String() != want {
		t.Errorf("Run() output = %q, want %q", out.String(), want)
	}
}

func TestDriverPlainModeNoTrailingNewline(t *testing.T) {
	engine := buildTestEngine(t, false)
	tmpl := render.Compile("[{key}]", false)
	d := New(engine, tmpl, ModePlain)

	var out bytes.Buffer
	in := strings.NewReader("seen 8.8.8.8") // no trailing newline
	if err := d.Run(in, &out); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := "seen [8.8.8.8]"
	if out.String() != want {
		t.Errorf("Run() output = %q, want %q", out.String(), want)
	}
}

func TestDriverJSONMode(t *testing.T) {
	engine := buildTestEngine(t, false)
	tmpl := render.Compile("[{key}]", false)
	d := New(engine, tmpl, ModeJSON)

	var out bytes.Buffer
	in := strings.NewReader(`{"msg":"connection from 8.8.8.8 refused","level":"info"}` + "\n")
	if err := d.Run(in, &out); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := `{"msg":"connection from [8.8.8.8] refused","level":"info"}` + "\n"
	if out.String() != want {
		t.Errorf("Run() output = %q, want %q", out.String(), want)
	}
}

func TestDriverMultipleLines(t *testing.T) {
	engine := buildTestEngine(t, false)
	tmpl := render.Compile("[{key}]", false)
	d := New(engine, tmpl, ModePlain)

	var out bytes.Buffer
	in := strings.NewReader("a 8.8.8.8 b\nc 1.1.1.1 d\nno match\n")
	if err := d.Run(in, &out); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := "a [8.8.8.8] b\nc [1.1.1.1] d\nno match\n"
	if out.String() != want {
		t.Errorf("Run() output = %q, want %q", out.String(), want)
	}
}
