package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// Source is one program text loaded from disk.
type Source struct {
	Path string // absolute path
	Dir  string // directory holding the file
	Text string
}

func GetPathInfo(relPath string) (fullPath string, parentDir string, err error) {
	// Convert to absolute path (resolves ../../ and cleans the path)
	fullPath, err = filepath.Abs(relPath)
	if err != nil {
		return "", "", err
	}

	parentDir = filepath.Dir(fullPath)

	return fullPath, parentDir, nil
}

// ReadSource resolves relPath and reads the whole file.
func ReadSource(relPath string) (Source, error) {
	fullPath, dir, err := GetPathInfo(relPath)
	if err != nil {
		return Source{}, err
	}
	data, err := os.ReadFile(fullPath)
	if err != nil {
		return Source{}, fmt.Errorf("failed to read %q: %w", relPath, err)
	}
	return Source{Path: fullPath, Dir: dir, Text: string(data)}, nil
}
