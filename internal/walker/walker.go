// Package walker lists paper folders beneath the configured roots and
// computes folder-level aggregate summaries.
package walker

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Options controls the directory scan.
type Options struct {
	MaxDepth       int  // 1 = immediate subfolders only
	IncludeHidden  bool // include dot-directories
	FollowSymlinks bool // descend into symlinked directories
}

// Folder is one candidate paper folder with every file beneath it, in
// sorted order.
type Folder struct {
	Root      string
	Path      string
	IsSymlink bool
	Files     []string
	NumDirs   int
}

// ListFolders yields the subfolders of root up to MaxDepth, each with
// its recursive file listing. A missing root yields an empty list.
func ListFolders(root string, opts Options) ([]Folder, error) {
	if opts.MaxDepth < 1 {
		opts.MaxDepth = 1
	}

	var folders []Folder
	var scan func(dir string, depth int) error
	scan = func(dir string, depth int) error {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) || os.IsPermission(err) {
				return nil
			}
			return err
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

		for _, entry := range entries {
			name := entry.Name()
			if !opts.IncludeHidden && strings.HasPrefix(name, ".") {
				continue
			}
			path := filepath.Join(dir, name)
			isSymlink := entry.Type()&fs.ModeSymlink != 0
			isDir := entry.IsDir()
			if isSymlink {
				if !opts.FollowSymlinks {
					continue
				}
				info, err := os.Stat(path)
				if err != nil || !info.IsDir() {
					continue
				}
				isDir = true
			}
			if !isDir {
				continue
			}

			folder := Folder{Root: root, Path: path, IsSymlink: isSymlink}
			folder.Files, folder.NumDirs = listFiles(path)
			folders = append(folders, folder)

			if depth+1 < opts.MaxDepth {
				if err := scan(path, depth+1); err != nil {
					return err
				}
			}
		}
		return nil
	}

	if err := scan(root, 0); err != nil {
		return nil, err
	}
	return folders, nil
}

// listFiles collects every regular file under dir, recursively, along
// with the number of descendant directories. Unreadable subtrees are
// skipped.
func listFiles(dir string) ([]string, int) {
	var files []string
	numDirs := 0
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != dir {
				numDirs++
			}
			return nil
		}
		files = append(files, path)
		return nil
	})
	sort.Strings(files)
	return files, numDirs
}
