package recorder

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"
)

// readEntries decompresses a recording and parses its lines back.
func readEntries(t *testing.T, path string) []Entry {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open recording: %v", err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		t.Fatalf("zstd reader: %v", err)
	}
	defer dec.Close()

	var out []Entry
	sc := bufio.NewScanner(dec)
	for sc.Scan() {
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			t.Fatalf("parse line %q: %v", sc.Text(), err)
		}
		out = append(out, e)
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}
	return out
}

func TestWriteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	r := New(filepath.Join(dir, "missions"))

	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	entries := []Entry{
		{At: at, Sender: "rover1", Content: "found water deposit at (37, 12)"},
		{At: at.Add(time.Second), Sender: "base", Content: "acknowledged"},
		{At: at.Add(2 * time.Second), Sender: "system", Content: "connection lost"},
	}
	for _, e := range entries {
		if err := r.Write(e); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	path := r.Path()
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got := readEntries(t, path)
	if len(got) != len(entries) {
		t.Fatalf("recording holds %d entries, want %d", len(got), len(entries))
	}
	for i, e := range entries {
		if !got[i].At.Equal(e.At) || got[i].Sender != e.Sender || got[i].Content != e.Content {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], e)
		}
	}
}

func TestFileCreatedOnFirstWrite(t *testing.T) {
	base := filepath.Join(t.TempDir(), "missions")
	r := New(base)

	if r.Path() != "" {
		t.Errorf("Path() = %q before any write, want empty", r.Path())
	}
	if _, err := os.Stat(base); !os.IsNotExist(err) {
		t.Error("base directory should not exist before the first write")
	}

	if err := r.Write(Entry{At: time.Now(), Sender: "base", Content: "hello"}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	defer r.Close()

	path := r.Path()
	if path == "" {
		t.Fatal("Path() empty after a write")
	}
	if !strings.HasPrefix(filepath.Base(path), "mission-") ||
		!strings.HasSuffix(path, ".jsonl.zst") {
		t.Errorf("recording name = %q", filepath.Base(path))
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("recording file missing: %v", err)
	}
}

func TestCloseWithoutWrites(t *testing.T) {
	r := New(t.TempDir())
	if err := r.Close(); err != nil {
		t.Errorf("Close without writes: %v", err)
	}
}

func TestWriteAfterCloseReopens(t *testing.T) {
	r := New(t.TempDir())
	if err := r.Write(Entry{Sender: "a", Content: "one"}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// A write after close starts a fresh recording rather than failing.
	if err := r.Write(Entry{Sender: "b", Content: "two"}); err != nil {
		t.Fatalf("Write after close: %v", err)
	}
	r.Close()
}
