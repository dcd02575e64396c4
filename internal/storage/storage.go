// Package storage is the editor's file-system collaborator: it loads a file
// as a sequence of raw lines and writes documents back atomically.
package storage

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFileMode is the permission mode for files created by WriteAtomic.
// Rewrites of an existing file keep its current mode instead.
var DefaultFileMode os.FileMode = 0644

// ReadLines loads path and splits it into lines without their terminators.
// Both LF and CRLF endings are accepted. An empty file yields zero lines.
func ReadLines(path string) ([][]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	data = bytes.TrimSuffix(data, []byte("\n"))
	raw := bytes.Split(data, []byte("\n"))
	lines := make([][]byte, len(raw))
	for i, line := range raw {
		line = bytes.TrimSuffix(line, []byte("\r"))
		lines[i] = append([]byte(nil), line...)
	}
	return lines, nil
}

// WriteAtomic writes data to path via a temporary file in the same
// directory followed by a rename, so a failed save never truncates the
// previous contents. It returns the number of bytes written.
func WriteAtomic(path string, data []byte) (int, error) {
	mode := DefaultFileMode
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tte-save-*")
	if err != nil {
		return 0, fmt.Errorf("cannot create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	n, err := tmp.Write(data)
	if err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("rename %s: %w", path, err)
	}
	return n, nil
}
