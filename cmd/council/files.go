package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// resolvedFiles is the expanded file set, plus warnings for entries that
// were skipped (symlink cycles).
type resolvedFiles struct {
	paths    []string
	warnings []string
}

// resolveFiles expands paths, directories, and glob patterns into a sorted,
// deduplicated list of files. A non-existent plain path is an input error;
// an expansion yielding zero files returns an empty set, which the caller
// treats as "nothing to review".
func resolveFiles(raw []string) (resolvedFiles, error) {
	seenDirs := make(map[string]bool)
	unique := make(map[string]bool)
	var warnings []string

	for _, entry := range raw {
		files, w, err := expandOne(entry, seenDirs)
		if err != nil {
			return resolvedFiles{}, err
		}
		for _, f := range files {
			unique[f] = true
		}
		warnings = append(warnings, w...)
	}

	paths := make([]string, 0, len(unique))
	for p := range unique {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return resolvedFiles{paths: paths, warnings: warnings}, nil
}

func expandOne(entry string, seenDirs map[string]bool) ([]string, []string, error) {
	if strings.ContainsAny(entry, "*?[") {
		matches, err := filepath.Glob(entry)
		if err != nil {
			return nil, nil, &inputError{msg: fmt.Sprintf(
				"invalid glob pattern %q: %v", entry, err)}
		}
		var files, warnings []string
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil {
				continue
			}
			if info.IsDir() {
				sub, w, err := expandDir(m, seenDirs)
				if err != nil {
					return nil, nil, err
				}
				files = append(files, sub...)
				warnings = append(warnings, w...)
			} else {
				files = append(files, m)
			}
		}
		return files, warnings, nil
	}

	info, err := os.Stat(entry)
	if err != nil {
		return nil, nil, &inputError{msg: fmt.Sprintf(
			"file or directory not found: %q. Check the file path and try again.", entry)}
	}
	if info.IsDir() {
		return expandDir(entry, seenDirs)
	}
	return []string{entry}, nil, nil
}

// expandDir walks a directory without following symlink cycles: each
// resolved directory is visited at most once.
func expandDir(dir string, seenDirs map[string]bool) ([]string, []string, error) {
	real, err := filepath.EvalSymlinks(dir)
	if err != nil {
		real = dir
	}
	if seenDirs[real] {
		return nil, []string{fmt.Sprintf("skipping symlink cycle: %s -> %s", dir, real)}, nil
	}
	seenDirs[real] = true

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, &inputError{msg: fmt.Sprintf("cannot read directory %q: %v", dir, err)}
	}

	var files, warnings []string
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if info.IsDir() {
			sub, w, err := expandDir(path, seenDirs)
			if err != nil {
				return nil, nil, err
			}
			files = append(files, sub...)
			warnings = append(warnings, w...)
		} else {
			files = append(files, path)
		}
	}
	return files, warnings, nil
}
