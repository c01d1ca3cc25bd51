// Package types defines every cross‑package data structure used by the codecontext CLI.
package types

import "errors"

const (
	// NodeTypeFile marks entries that are listed as leaves and read for content.
	NodeTypeFile = "file"
	// NodeTypeDirectory marks entries that are descended into by both traversals.
	NodeTypeDirectory = "directory"

	// CommandGenerate is the name of the command that writes context documents.
	CommandGenerate = "generate"
	// CommandInit is the name of the command that writes the configuration template.
	CommandInit = "init"
)

var (
	// ErrConfiguration reports that no usable scan root could be resolved.
	ErrConfiguration = errors.New("configuration error")
	// ErrScan reports that a directory could not be listed during traversal.
	ErrScan = errors.New("scan error")
)

// ValidatedPath is an absolute input path that already passed existence checks.
type ValidatedPath struct {
	AbsolutePath string
	IsDir        bool
}

// DirEntry is a listed directory item that survived ignore filtering.
type DirEntry struct {
	Name         string
	AbsolutePath string
	Type         string
}

// IsDir reports whether the entry is traversed as a directory.
func (entry DirEntry) IsDir() bool {
	return entry.Type == NodeTypeDirectory
}

// ContentRecord is one dumped file.
type ContentRecord struct {
	RelativePath string
	Content      string
}

// ContentDocument is the ordered list of dumped files.
type ContentDocument struct {
	Records []ContentRecord
}

// OutputDocument holds both halves of a generated context dump.
type OutputDocument struct {
	RootPath string
	RootName string
	Tree     string
	Content  ContentDocument
	Text     string
}

// Bytes returns the total size of the rendered document.
func (document OutputDocument) Bytes() int64 {
	return int64(len(document.Text))
}
