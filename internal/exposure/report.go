package exposure

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Report maps model paths to their results. Keys keep the order in which
// they were first set.
type Report struct {
	keys    []string
	entries map[string]Result
}

// NewReport returns an empty report.
func NewReport() *Report {
	return &Report{entries: map[string]Result{}}
}

// Set records result for path. A path that is already present keeps its
// position and takes the new result (last write wins); replaced reports
// whether that happened.
func (r *Report) Set(path string, result Result) (replaced bool) {
	if r.entries == nil {
		r.entries = map[string]Result{}
	}
	if _, ok := r.entries[path]; ok {
		replaced = true
	} else {
		r.keys = append(r.keys, path)
	}
	r.entries[path] = result
	return replaced
}

// Get returns the result recorded for path.
func (r *Report) Get(path string) (Result, bool) {
	result, ok := r.entries[path]
	return result, ok
}

// Len returns the number of distinct paths.
func (r *Report) Len() int {
	return len(r.keys)
}

// Paths returns the recorded paths in report order.
func (r *Report) Paths() []string {
	return append([]string(nil), r.keys...)
}

// MarshalJSON encodes the report as a single object in report order.
func (r *Report) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, path := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(path)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(r.entries[path])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a report object. encoding/json does not expose key
// order for maps, so decoded reports are ordered by path.
func (r *Report) UnmarshalJSON(data []byte) error {
	var entries map[string]Result
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}

	paths := make([]string, 0, len(entries))
	for path := range entries {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	*r = Report{entries: map[string]Result{}}
	for _, path := range paths {
		r.Set(path, entries[path])
	}
	return nil
}

// WriteError reports a report that could not be persisted.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write report %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// WriteFile writes the report as indented JSON, replacing any existing file.
func (r *Report) WriteFile(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &WriteError{Path: path, Err: err}
		}
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

// ReadReport loads a report previously written by WriteFile.
func ReadReport(path string) (*Report, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	report := NewReport()
	if err := json.Unmarshal(data, report); err != nil {
		return nil, fmt.Errorf("parse report %s: %w", path, err)
	}
	return report, nil
}
