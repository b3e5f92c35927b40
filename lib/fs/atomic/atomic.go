// Package atomic replaces files so that readers never see partial contents.
package atomic

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Write replaces filename with whatever fill writes, atomically.
//
// The output goes to a temporary file in the same directory,
// so that it is on the same volume for renaming.
// Only if fill succeeds is the temporary file synchronized to stable storage
// and renamed over filename; otherwise it is removed
// and filename is left as it was.
// For background on the synchronization see CloseAtomicallyReplace
// at https://github.com/google/renameio/blob/master/tempfile.go
//
func Write(filename string, perm os.FileMode, fill func(w io.Writer) error) (err error) {
	dir, name := filepath.Split(filename)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("atomic: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err = fill(bw); err != nil {
		return err
	}
	if err = bw.Flush(); err != nil {
		return fmt.Errorf("atomic: %w", err)
	}
	if err = tmp.Chmod(perm); err != nil {
		return fmt.Errorf("atomic: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("atomic: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("atomic: %w", err)
	}
	if err = os.Rename(tmp.Name(), filename); err != nil {
		return fmt.Errorf("atomic: %w", err)
	}
	return nil
}

// WriteFile is like os.WriteFile, but atomic.
func WriteFile(filename string, data []byte, perm os.FileMode) error {
	return Write(filename, perm, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}
