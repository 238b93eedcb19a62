package store

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// SeedFromDir copies every regular file under dir into repo, keyed by its
// slash-separated path relative to dir. Hidden files and directories are skipped.
func (m *MemoryStore) SeedFromDir(repo, dir string) (int, error) {
	n := 0
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p != dir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		raw, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		m.Put(repo, filepath.ToSlash(rel), raw)
		n++
		return nil
	})
	if err != nil {
		return n, fmt.Errorf("seed %s: %w", dir, err)
	}
	return n, nil
}
