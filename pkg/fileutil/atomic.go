// Package fileutil provides file system helpers shared by the config store
// and the rule installer.
package fileutil

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/necolo/rulink/internal/errors"
)

// tempPattern names in-flight writes so a crashed write is recognizable.
const tempPattern = ".rulink-*.tmp"

// AtomicWriteFile writes data to path through a sibling temp file and a rename,
// so readers observe either the old or the new content. The parent directory
// must exist.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), tempPattern)
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "writing temp file")
	}
	if err = tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "setting file permissions")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}
	if err = os.Rename(tmpName, path); err != nil {
		return errors.Wrap(err, "renaming temp file")
	}
	return nil
}

// AtomicWriteJSON writes v as two-space indented JSON with a trailing newline.
func AtomicWriteJSON(path string, v any, perm os.FileMode) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling JSON")
	}
	return AtomicWriteFile(path, append(data, '\n'), perm)
}

// WriteInto creates dir if needed and atomically writes name inside it.
func WriteInto(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "creating %s", dir)
	}
	path := filepath.Join(dir, name)
	if err := AtomicWriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrapf(err, "writing %s", path)
	}
	return path, nil
}
