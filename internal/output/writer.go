package output

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kanon0111/sdlg-edu/internal/model"
)

const (
	DatasetFile = "english_grammar_qa.jsonl"
	StatsFile   = "generation_stats.json"
)

// Writer serializes items as JSON lines, one per Write.
type Writer struct {
	buf    *bufio.Writer
	enc    *json.Encoder
	closer io.Closer
	rows   int
}

// NewWriter wraps w. Non-ASCII text is written as-is.
func NewWriter(w io.Writer) *Writer {
	buf := bufio.NewWriter(w)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	return &Writer{buf: buf, enc: enc}
}

// Create makes dir if needed and truncates dir/english_grammar_qa.jsonl.
func Create(dir string) (*Writer, string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, DatasetFile)
	file, err := os.Create(path)
	if err != nil {
		return nil, "", fmt.Errorf("create %s: %w", path, err)
	}
	w := NewWriter(file)
	w.closer = file
	return w, path, nil
}

func (w *Writer) Write(item model.GeneratedItem) error {
	if err := w.enc.Encode(item); err != nil {
		return err
	}
	w.rows++
	return nil
}

func (w *Writer) Rows() int { return w.rows }

func (w *Writer) Flush() error { return w.buf.Flush() }

// Close flushes buffered lines and closes the underlying file, if any.
func (w *Writer) Close() error {
	err := w.buf.Flush()
	if w.closer != nil {
		if cerr := w.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// WriteJSON writes v as indented JSON to dir/name.
func WriteJSON(dir, name string, v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
