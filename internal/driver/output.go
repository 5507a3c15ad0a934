package driver

import (
	"fmt"
	"os"
	"path/filepath"
)

// Output file extensions.
const (
	RuntimeExt      = ".js"
	DeclarationsExt = ".d.ts"
)

// WriteOutputs writes res into dir as <name>.js and, when declarations were
// produced, <name>.d.ts. It returns the written paths.
func WriteOutputs(res *Result, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	var written []string
	files := []struct {
		ext  string
		text string
	}{
		{RuntimeExt, res.Runtime},
		{DeclarationsExt, res.Declarations},
	}
	for _, f := range files {
		if f.text == "" {
			continue
		}
		path := filepath.Join(dir, res.Name+f.ext)
		if err := writeAtomic(path, f.text); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func writeAtomic(path, text string) error {
	f, err := os.CreateTemp(filepath.Dir(path), ".prism-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.WriteString(text); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
