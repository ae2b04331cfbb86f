// Package spim loads the metadata of a SPIM dataset directory.
//
// A dataset directory is expected to look like this, where <root> is chosen
// by the user:
//
//	<root>/
//	    metadata.txt
//	    data/
//	        data.bin
//	        index.txt
//
// Only the text files are parsed. data.bin has to exist but its contents are
// left to the imaging pipeline.
package spim

import (
	"os"
	"path/filepath"

	"spiminfo/internal/models"
)

// Fixed names of the dataset layout
const (
	IndexName   = "index.txt"
	DataName    = "data.bin"
	DataDirName = "data"
	MetaName    = "metadata.txt"
)

// JoinPath joins two path segments. Duplicate separators between them are
// collapsed, so "a/" + "/b" and "a" + "b" both give "a/b".
func JoinPath(path1, path2 string) string {
	return filepath.Join(path1, path2)
}

// ParentDir returns the absolute path of the directory containing path.
// An empty path gives an empty result.
func ParentDir(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Dir(WorkingDir(path))
}

// WorkingDir returns path made absolute against the current working directory.
// An empty path gives an empty result.
func WorkingDir(path string) string {
	if path == "" {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

// Resolve derives the dataset paths below root. It does not touch the filesystem.
func Resolve(root string) models.DatasetPaths {
	dataDir := JoinPath(root, DataDirName)
	return models.DatasetPaths{
		Root:         root,
		DataDir:      dataDir,
		IndexFile:    JoinPath(dataDir, IndexName),
		DataFile:     JoinPath(dataDir, DataName),
		MetadataFile: JoinPath(root, MetaName),
	}
}

// Validate checks that the data directory, the index file and the data file
// exist, in that order, and reports the first one missing. The metadata file
// is optional.
func Validate(paths models.DatasetPaths) error {
	required := []struct {
		kind PathKind
		path string
	}{
		{KindDataDir, paths.DataDir},
		{KindIndexFile, paths.IndexFile},
		{KindDataFile, paths.DataFile},
	}

	for _, entry := range required {
		if _, err := os.Stat(entry.path); err != nil {
			return &MissingPathError{Kind: entry.kind, Path: entry.path}
		}
	}

	return nil
}
