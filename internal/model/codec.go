package model

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
)

// ErrSchema is returned when a model file was written with another schema.
var ErrSchema = errors.New("unsupported program model schema")

// Encode writes f in msgpack form, stamping the current schema version.
func Encode(w io.Writer, f *File) error {
	f.Schema = SchemaVersion
	return msgpack.NewEncoder(w).Encode(f)
}

// Decode reads a msgpack program model and validates its schema.
func Decode(r io.Reader) (*File, error) {
	var f File
	if err := msgpack.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode program model: %w", err)
	}
	if f.Schema != SchemaVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSchema, f.Schema, SchemaVersion)
	}
	return &f, nil
}

// ReadFile decodes the program model stored at path.
func ReadFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	f, err := Decode(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if f.Name == "" {
		f.Name = trimExt(filepath.Base(path))
	}
	return f, nil
}

// WriteFile stores f at path, replacing any existing file atomically.
func WriteFile(path string, f *File) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()
	if err = Encode(tmp, f); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func trimExt(name string) string {
	return name[:len(name)-len(filepath.Ext(name))]
}

