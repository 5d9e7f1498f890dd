// Package threatmodel loads threat-model documents and extracts the threats they declare.
package threatmodel

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is a parsed threat model. No schema is enforced; callers probe fields.
type Document map[string]interface{}

// Threat is a single threat entry found inside a Document.
type Threat map[string]interface{}

var (
	errNotMapping   = errors.New("top-level value is not a mapping")
	errTrailingData = errors.New("unexpected data after top-level value")
)

// LoadError reports a model file that could not be read or parsed.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load reads path and parses it as YAML when the extension is .yaml or .yml,
// and as JSON otherwise.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	var raw interface{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	default:
		raw, err = decodeJSON(data)
	}
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	doc, ok := asMap(normalize(raw))
	if !ok {
		return nil, &LoadError{Path: path, Err: errNotMapping}
	}

	return Document(doc), nil
}

// decodeJSON keeps numbers as json.Number so an out-of-range value in one
// field does not fail the whole document.
func decodeJSON(data []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		if err != nil {
			return nil, err
		}
		return nil, errTrailingData
	}
	return raw, nil
}

// normalize converts YAML mappings with non-string keys into string-keyed
// maps so the rest of the package only has to deal with one map shape.
func normalize(value interface{}) interface{} {
	switch v := value.(type) {
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, item := range v {
			out[fmt.Sprint(key)] = normalize(item)
		}
		return out
	case map[string]interface{}:
		for key, item := range v {
			v[key] = normalize(item)
		}
		return v
	case []interface{}:
		for i, item := range v {
			v[i] = normalize(item)
		}
		return v
	default:
		return value
	}
}

func asMap(value interface{}) (map[string]interface{}, bool) {
	switch v := value.(type) {
	case map[string]interface{}:
		return v, true
	case Document:
		return v, true
	case Threat:
		return v, true
	default:
		return nil, false
	}
}

func asSlice(value interface{}) ([]interface{}, bool) {
	v, ok := value.([]interface{})
	return v, ok
}
