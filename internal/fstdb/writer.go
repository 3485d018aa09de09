package fstdb

import (
	"bufio"
	"io"
	"os"
	"sort"

	json "github.com/goccy/go-json"
	"github.com/klauspost/compress/zstd"

	"github.com/erichutchins/fstsed/internal/jsonptr"
)

// BuildStats reports the outcome of a Build call: lines accepted into the
// database, lines skipped due to a parse/key error, and blank lines ignored.
type BuildStats struct {
	Accepted int
	Errored  int
	Blanks   int
}

// Build reads newline-delimited JSON records from input, extracts a key from
// each record using keySelector (a top-level field name, or a JSON pointer
// if it begins with "/"), Zstd-compresses the original line, and writes a
// sorted FST database to outputPath. Build refuses to overwrite an existing
// output file (spec.md §4.1, step 5).
//
// If sorted is true, Build trusts that input is already presented in
// ascending order by extracted key and skips the in-memory sort (the
// --sorted CLI mode, spec.md §4.1 step 6); passing unsorted input in this
// mode silently produces a database with undefined match behavior, exactly
// as the flag's contract promises.
func Build(input io.Reader, keySelector string, outputPath string, sorted bool) (BuildStats, error) {
	if _, err := os.Stat(outputPath); err == nil {
		return BuildStats{}, ErrExists
	} else if !os.IsNotExist(err) {
		return BuildStats{}, err
	}

	// Zstd level 3: klauspost/compress exposes encoder "levels" as named
	// speed tiers rather than the zstd CLI's 1-22 integer scale;
	// EncoderLevelFromZstd maps the integer onto the nearest tier.
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(3)))
	if err != nil {
		return BuildStats{}, err
	}
	defer encoder.Close()

	var stats BuildStats
	var tuples [][]byte

	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			stats.Blanks++
			continue
		}

		key, err := extractKey(line, keySelector)
		if err != nil {
			stats.Errored++
			continue
		}

		// EncodeAll cannot fail: it is a pure in-memory transform, unlike
		// the streaming zstd writer the original implementation used to
		// compress directly into a fallible io.Writer. There is no
		// per-record compression-failure branch to handle here.
		tuple := make([]byte, 0, len(key)+1+len(line))
		tuple = append(tuple, key...)
		tuple = append(tuple, Sentinel)
		tuple = encoder.EncodeAll(line, tuple)

		tuples = append(tuples, tuple)
		stats.Accepted++
	}
	if err := scanner.Err(); err != nil {
		return stats, err
	}

	if !sorted {
		sort.Slice(tuples, func(i, j int) bool {
			return string(tuples[i]) < string(tuples[j])
		})
	}

	builder := newTrieBuilder()
	for _, t := range tuples {
		builder.Insert(t)
	}
	nodes, rootAddr, nodeCount := builder.Finish()

	out, err := os.Create(outputPath)
	if err != nil {
		return stats, err
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	hdr := encodeHeader(header{rootAddr: rootAddr, nodeCount: nodeCount, keyCount: uint32(stats.Accepted)})
	if _, err := w.Write(hdr); err != nil {
		return stats, err
	}
	if _, err := w.Write(nodes); err != nil {
		return stats, err
	}
	return stats, w.Flush()
}

// extractKey parses line as JSON and resolves selector against it: a
// leading "/" means a JSON pointer (spec.md §4.1), otherwise a top-level
// field name.
func extractKey(line []byte, selector string) ([]byte, error) {
	var v any
	if err := json.Unmarshal(line, &v); err != nil {
		return nil, err
	}

	var s string
	var ok bool
	if len(selector) > 0 && selector[0] == '/' {
		s, ok = jsonptr.Lookup(v, selector)
	} else {
		s, ok = jsonptr.TopLevel(v, selector)
	}
	if !ok {
		return nil, ErrNoKeyField
	}

	key := []byte(s)
	for _, b := range key {
		if b == Sentinel {
			return nil, ErrSentinelInKey
		}
	}
	return key, nil
}
