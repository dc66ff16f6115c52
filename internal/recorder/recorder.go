// Package recorder persists the mission log as compressed JSONL so a
// session can be inspected after the console exits.
package recorder

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

// Entry is one recorded mission log line.
type Entry struct {
	At      time.Time `json:"at"`
	Sender  string    `json:"sender"`
	Content string    `json:"content"`
}

// Recorder appends entries to a zstd-compressed JSONL file under its
// base directory. The file is created on the first write, so sessions
// that log nothing leave nothing behind.
type Recorder struct {
	baseDir string

	mu   sync.Mutex
	path string
	f    *os.File
	enc  *zstd.Encoder
	w    *bufio.Writer
}

func New(baseDir string) *Recorder {
	return &Recorder{baseDir: baseDir}
}

// Write appends one entry and flushes it through the encoder.
func (r *Recorder) Write(e Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.f == nil {
		if err := r.openLocked(); err != nil {
			return err
		}
	}

	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if _, err := r.w.Write(b); err != nil {
		return err
	}
	if err := r.w.WriteByte('\n'); err != nil {
		return err
	}
	return r.w.Flush()
}

// Path returns the recording file path, or "" before the first write.
func (r *Recorder) Path() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.path
}

func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closeLocked()
}

func (r *Recorder) openLocked() error {
	if err := os.MkdirAll(r.baseDir, 0o755); err != nil {
		return err
	}
	name := fmt.Sprintf("mission-%s.jsonl.zst", time.Now().UTC().Format("20060102-150405"))
	path := filepath.Join(r.baseDir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	r.f = f
	r.enc = enc
	r.w = bufio.NewWriterSize(enc, 64*1024)
	r.path = path
	return nil
}

func (r *Recorder) closeLocked() error {
	var err1 error
	if r.w != nil {
		_ = r.w.Flush()
	}
	if r.enc != nil {
		err1 = r.enc.Close()
		r.enc = nil
	}
	if r.f != nil {
		_ = r.f.Close()
		r.f = nil
	}
	r.w = nil
	return err1
}
