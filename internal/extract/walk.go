package extract

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// walkBounded calls fn for every regular file below root that sits at most
// maxDepth directories deep. Unreadable entries are skipped.
func walkBounded(fsys afero.Fs, root string, maxDepth int, fn func(path string, info os.FileInfo)) {
	_ = afero.Walk(fsys, root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info == nil {
			return nil
		}
		if info.IsDir() {
			if path == root {
				return nil
			}
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil || strings.Count(filepath.ToSlash(rel), "/")+1 > maxDepth {
				return filepath.SkipDir
			}
			return nil
		}
		if info.Mode().IsRegular() {
			fn(path, info)
		}
		return nil
	})
}
