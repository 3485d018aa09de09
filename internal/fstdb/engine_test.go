package fstdb

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// buildTestDB builds an FST database from the jsonl string at a temporary
// path and returns an opened Engine ready to search. t.Cleanup tears down the engine and database file.
func buildTestDB(t *testing.T, jsonl string, key string) *Engine {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.fstsed")

	stats, err := Build(strings.NewReader(jsonl), key, dbPath, false)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if stats.Errored != 0 {
		t.Fatalf("Build stats.Errored = %d, want 0 (stats: %+v)", stats.Errored, stats)
	}

	fst, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { fst.Close() })

	engine, err := NewEngine(fst, EngineOptions{RequiresJSON: true})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}

const testJSONL = `{"key":"8.8.8.8","country":"US","org":"Google"}
{"key":"1.1.1.1","country":"AU","org":"Cloudflare"}
`

func TestBuildRejectsExistingOutput(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.fstsed")
	if err := os.WriteFile(dbPath, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Build(strings.NewReader(testJSONL), "key", dbPath, false)
	if err != ErrExists {
		t.Errorf("Build over existing path = %v, want ErrExists", err)
	}
}

func TestBuildStats(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.fstsed")

	input := testJSONL + "\n" + `not json` + "\n"
	stats, err := Build(strings.NewReader(input), "key", dbPath, false)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if stats.Accepted != 2 {
		t.Errorf("Accepted = %d, want 2", stats.Accepted)
	}
	if stats.Errored != 1 {
		t.Errorf("Errored = %d, want 1", stats.Errored)
	}
	if stats.Blanks != 1 {
		t.Errorf("Blanks = %d, want 1", stats.Blanks)
	}
}

func TestEngineLongestMatchAtExactKey(t *testing.T) {
	engine := buildTestDB(t, testJSONL, "key")

	text := []byte("x8.8.8.8")
	n, ok := engine.LongestMatchAt(text, 1)
	if !ok {
		t.Fatal("LongestMatchAt: no match, want a match at end-of-slice boundary")
	}
	if n != len("8.8.8.8") {
		t.Errorf("match length = %d, want %d", n, len("8.8.8.8"))
	}
	if engine.GetMatchStart() != 1 {
		t.Errorf("GetMatchStart() = %d, want 1", engine.GetMatchStart())
	}
	if got := engine.GetMatch().Key(); got != "8.8.8.8" {
		t.Errorf("Key() = %q, want %q", got, "8.8.8.8")
	}
}

func TestEngineLongestMatchAtTrailingBoundary(t *testing.T) {
	engine := buildTestDB(t, testJSONL, "key")

	text := []byte("x8.8.8.8!")
	n, ok := engine.LongestMatchAt(text, 1)
	if !ok {
		t.Fatal("LongestMatchAt: no match, want a match before '!'")
	}
	if n != len("8.8.8.8") {
		t.Errorf("match length = %d, want %d", n, len("8.8.8.8"))
	}
}

func TestEngineLongestMatchAtRejectsWordSuffix(t *testing.T) {
	engine := buildTestDB(t, testJSONL, "key")

	// "8.8.8.80" extends the stored key with a trailing word byte, so the
	// candidate must be rejected for failing the right-boundary check.
	text := []byte("x8.8.8.80")
	if _, ok := engine.LongestMatchAt(text, 1); ok {
		t.Error("LongestMatchAt matched despite a trailing word-class byte")
	}
}

func TestEngineLongestMatchAtNoSuchKey(t *testing.T) {
	engine := buildTestDB(t, testJSONL, "key")
	if _, ok := engine.LongestMatchAt([]byte("9.9.9.9"), 0); ok {
		t.Error("LongestMatchAt matched a key that was never stored")
	}
}

func TestEngineGetMatchValueRoundTrip(t *testing.T) {
	engine := buildTestDB(t, testJSONL, "key")

	line := `{"key":"1.1.1.1","country":"AU","org":"Cloudflare"}`
	prefix := "seen "
	text := []byte(prefix + line)
	start := len(prefix) + strings.Index(line, "1.1.1.1")
	n, ok := engine.LongestMatchAt(text, start)
	if !ok {
		t.Fatal("LongestMatchAt: no match")
	}
	if n != len("1.1.1.1") {
		t.Errorf("match length = %d, want %d", n, len("1.1.1.1"))
	}

	m := engine.GetMatch()
	if got := m.Value(); got != line {
		t.Errorf("Value() = %q, want %q", got, line)
	}
	if got := m.Field("/country"); got != "AU" {
		t.Errorf("Field(\"/country\") = %q, want %q", got, "AU")
	}
	if got := m.Field("org"); got != "Cloudflare" {
		t.Errorf("Field(\"org\") = %q, want %q", got, "Cloudflare")
	}
}

func TestFindIterNonOverlapping(t *testing.T) {
	engine := buildTestDB(t, testJSONL, "key")

	text := []byte("8.8.8.8 then 1.1.1.1 end")
	it := engine.FindIter(text)

	var starts []int
	for {
		start, ok := it.Next()
		if !ok {
			break
		}
		starts = append(starts, start)
	}

	if len(starts) != 2 {
		t.Fatalf("found %d matches, want 2 (starts: %v)", len(starts), starts)
	}
	if starts[0] != 0 {
		t.Errorf("first match start = %d, want 0", starts[0])
	}
	if starts[1] != 13 {
		t.Errorf("second match start = %d, want 13", starts[1])
	}
}

func TestFindIterNoInteriorMatch(t *testing.T) {
	engine := buildTestDB(t, testJSONL, "key")

	// "88.8.8.8 " embeds the key at offset 1 but preceded by a word byte;
	// the boundary-aware iterator must never even probe there, since '8' is
	// not a seed-class byte and offset 1 is not the implicit start seed.
	text := []byte("88.8.8.8 ")
	it := engine.FindIter(text)
	if _, ok := it.Next(); ok {
		t.Error("FindIter found a match starting mid-word")
	}
}
