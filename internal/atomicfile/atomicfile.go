// Package atomicfile writes files so readers see either the old or the new
// contents, never a partial write.
package atomicfile

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// WriteFile writes the output of fn to a temporary file next to path and
// renames it into place once fn and the flush both succeed. On any error the
// existing file at path is left untouched.
func WriteFile(path string, perm os.FileMode, fn func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "atomicfile: create dir %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return eris.Wrapf(err, "atomicfile: create temp for %s", path)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if err = fn(tmp); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return eris.Wrapf(err, "atomicfile: sync %s", tmpName)
	}
	if err = tmp.Close(); err != nil {
		return eris.Wrapf(err, "atomicfile: close %s", tmpName)
	}
	if err = os.Chmod(tmpName, perm); err != nil {
		return eris.Wrapf(err, "atomicfile: chmod %s", tmpName)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return eris.Wrapf(err, "atomicfile: rename into %s", path)
	}
	return nil
}

// WriteBytes atomically replaces path with data.
func WriteBytes(path string, data []byte, perm os.FileMode) error {
	return WriteFile(path, perm, func(w io.Writer) error {
		_, err := w.Write(data)
		return eris.Wrap(err, "atomicfile: write")
	})
}
