package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := run(args, strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRun_PrintsSuggestionsPerPrefix(t *testing.T) {
	code, out, errOut := runCLI(t, "", "--limit", "2", "gop", "zz")
	require.Equal(t, 0, code, errOut)

	want := strings.Join([]string{
		"g: go, gofmt, golang, gopher, goroutine",
		"go: go, gofmt, golang, gopher, goroutine",
		"gop: gopher",
		"z: -",
		"zz: -",
	}, "\n") + "\n"
	assert.Equal(t, want, out)
}

func TestRun_ReadsTermsFromStdin(t *testing.T) {
	code, out, errOut := runCLI(t, "sem\n\nsem\n")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "s: select, semaphore, slice, struct, sync\nse: select, semaphore\nsem: semaphore\n", out)
}

func TestRun_WritesReport(t *testing.T) {
	dir := t.TempDir()
	words := writeFile(t, dir, "words.txt", "apple\napricot\nbanana\n")
	report := filepath.Join(dir, "report.json")

	code, _, errOut := runCLI(t, "", "--words", words, "--limit", "1", "--capacity", "2", "--out", report, "ap", "apr")
	require.Equal(t, 0, code, errOut)

	data, err := os.ReadFile(report)
	require.NoError(t, err)

	var got Report
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, 3, got.Words)
	assert.Equal(t, storeLRU, got.Store)
	require.Len(t, got.Terms, 2)
	assert.Equal(t, "apr", got.Terms[1].Term)
	assert.Equal(t, []string{"apricot"}, got.Terms[1].Suggestions[2].Words)

	require.NotNil(t, got.LRUStats)
	// "a" and "ap" were answered from the cache for the second term.
	assert.Equal(t, uint64(2), got.LRUStats.Hits)
	assert.Equal(t, uint64(3), got.LRUStats.Misses)
	assert.Equal(t, uint64(1), got.LRUStats.Evictions)
}

func TestRun_RistrettoStore(t *testing.T) {
	code, out, errOut := runCLI(t, "", "--store", "ristretto", "chan")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "chan: chan, channel\n")
}

func TestRun_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "typeahead.hujson", `{
		// small dictionary
		"words": ["kiwi", "kumquat"],
		"max_suggestions": 1,
	}`)

	code, out, errOut := runCLI(t, "", "--config", cfg, "k")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "k: kiwi\n", out)
}

func TestRun_UsageErrors(t *testing.T) {
	code, _, errOut := runCLI(t, "", "--limit", "0", "go")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "limit must be at least 1")

	code, _, _ = runCLI(t, "", "--no-such-flag")
	assert.Equal(t, 2, code)

	code, _, _ = runCLI(t, "", "--config", filepath.Join(t.TempDir(), "missing.hujson"))
	assert.Equal(t, 2, code)

	code, _, _ = runCLI(t, "", "--help")
	assert.Equal(t, 0, code)
}
