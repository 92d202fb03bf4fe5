// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package discover enumerates PDF files for batch upload.
package discover

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const pdfExt = ".pdf"

// DirectoryNotFoundError reports a batch root that does not exist or is
// not a directory.
type DirectoryNotFoundError struct {
	Path string
}

func (e *DirectoryNotFoundError) Error() string {
	return fmt.Sprintf("%s is not a directory", e.Path)
}

// File is one discovered PDF.
type File struct {
	// Path locates the file for opening, rooted wherever the caller's
	// argument was rooted.
	Path string

	// RelPath is the path relative to the batch root, used in reports.
	RelPath string
}

// FindPDFs walks root recursively and returns every file whose name ends
// in .pdf, matched case-insensitively. filepath.WalkDir visits entries in
// lexical order, so repeated runs over the same tree yield the same
// sequence. Symbolic links are not followed.
func FindPDFs(root string) ([]File, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, &DirectoryNotFoundError{Path: root}
	}

	var files []File
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(d.Name()), pdfExt) {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		files = append(files, File{Path: path, RelPath: rel})
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walking %s: %w", root, walkErr)
	}
	return files, nil
}
