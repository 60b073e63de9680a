// Package walk collects source files for the compiler and translator CLIs,
// accepting either a single file or a directory (recursed for every file
// bearing the given extension).
package walk

import (
	"io/fs"
	"path/filepath"
)

// Collect walks each of roots, gathering every file whose extension matches
// ext (e.g. ".jack", ".vm"); a root that is itself a file is included only
// when its extension matches ext as well.
func Collect(roots []string, ext string) ([]string, error) {
	var files []string

	for _, root := range roots {
		err := filepath.Walk(root, func(path string, info fs.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() || filepath.Ext(path) != ext {
				return nil
			}
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}
