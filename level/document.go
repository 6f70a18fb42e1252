// Package level reads and rewrites beatmap difficulty files. Only the keys
// that are set explicitly change, everything else is written back byte for
// byte in the original order.
package level

import (
	"bytes"
	"encoding/json"
	"io"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

type Document struct {
	keys   []string
	values map[string]json.RawMessage
}

func NewDocument() *Document {
	return &Document{values: make(map[string]json.RawMessage)}
}

// Decode reads a top level json object.
func Decode(r io.Reader) (*Document, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, &DocumentError{Err: errors.Wrapf(err, "Failed to read json")}
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, &DocumentError{Err: errors.Errorf("Expected json object, got %v", tok)}
	}

	doc := NewDocument()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, &DocumentError{Err: errors.Wrapf(err, "Failed to read key")}
		}
		key := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, &DocumentError{Err: errors.Wrapf(err, "Failed to read value of %q", key)}
		}
		doc.setRaw(key, raw)
	}

	if _, err := dec.Token(); err != nil {
		return nil, &DocumentError{Err: errors.Wrapf(err, "Failed to read object end")}
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, &DocumentError{Err: errors.Errorf("Trailing data after json object")}
	}

	return doc, nil
}

func Load(path string) (*Document, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, &DocumentError{Path: path, Err: errors.Wrapf(err, "Failed to read")}
	}

	doc, err := Decode(bytes.NewReader(data))
	if err != nil {
		err.(*DocumentError).Path = path
		return nil, err
	}
	return doc, nil
}

func (d *Document) setRaw(key string, raw json.RawMessage) {
	if _, exists := d.values[key]; !exists {
		d.keys = append(d.keys, key)
	}
	d.values[key] = raw
}

func (d *Document) Keys() []string {
	return append([]string(nil), d.keys...)
}

func (d *Document) Has(key string) bool {
	_, ok := d.values[key]
	return ok
}

func (d *Document) Get(key string) (json.RawMessage, bool) {
	raw, ok := d.values[key]
	return raw, ok
}

// Unmarshal decodes the value of key into v.
func (d *Document) Unmarshal(key string, v interface{}) error {
	raw, ok := d.values[key]
	if !ok {
		return errors.Errorf("Key %q not found", key)
	}
	return json.Unmarshal(raw, v)
}

// Set replaces the value of key, keeping its position. New keys go last.
func (d *Document) Set(key string, v interface{}) error {
	raw, err := marshal(v)
	if err != nil {
		return errors.Wrapf(err, "Failed to marshal %q", key)
	}
	d.setRaw(key, raw)
	return nil
}

func marshal(v interface{}) (json.RawMessage, error) {
	var buffer bytes.Buffer
	enc := json.NewEncoder(&buffer)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buffer.Bytes(), "\n"), nil
}

func (d *Document) Encode(w io.Writer) error {
	var buffer bytes.Buffer
	buffer.WriteByte('{')
	for i, key := range d.keys {
		if i != 0 {
			buffer.WriteByte(',')
		}
		rawKey, err := marshal(key)
		if err != nil {
			return errors.Wrapf(err, "Failed to marshal key %q", key)
		}
		buffer.Write(rawKey)
		buffer.WriteByte(':')
		buffer.Write(d.values[key])
	}
	buffer.WriteByte('}')

	_, err := w.Write(buffer.Bytes())
	return err
}

func (d *Document) Bytes() ([]byte, error) {
	var buffer bytes.Buffer
	if err := d.Encode(&buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// Save writes the document next to path and renames it over path, so a
// failed write never leaves a truncated level.
func (d *Document) Save(path string) error {
	data, err := d.Bytes()
	if err != nil {
		return &DocumentError{Path: path, Err: err}
	}

	mode := os.FileMode(0644)
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	}

	tmp, err := ioutil.TempFile(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return &DocumentError{Path: path, Err: errors.Wrapf(err, "Failed to create temp file")}
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &DocumentError{Path: path, Err: errors.Wrapf(err, "Failed to write")}
	}
	if err := tmp.Close(); err != nil {
		return &DocumentError{Path: path, Err: errors.Wrapf(err, "Failed to close")}
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		return &DocumentError{Path: path, Err: errors.Wrapf(err, "Failed to chmod")}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return &DocumentError{Path: path, Err: errors.Wrapf(err, "Failed to replace")}
	}

	log.Printf("[level] Saved %q (%d bytes)", path, len(data))
	return nil
}
