// Package commands contains the traversals that produce the tree and content halves of a context dump.
package commands

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/temirov/codecontext/internal/types"
)

const (
	// errorReadDirectoryFormat is used when a directory cannot be listed.
	errorReadDirectoryFormat = "%w: reading directory %s: %w"
)

// RuleMatcher decides whether an item name is excluded from both traversals.
type RuleMatcher interface {
	Matches(itemName string) bool
}

// listDirectory returns the entries of directoryPath that the matcher does not exclude.
// Entries keep the order os.ReadDir reports. Symbolic links are classified by their
// target; links that cannot be resolved are reported as files.
func listDirectory(directoryPath string, matcher RuleMatcher) ([]types.DirEntry, error) {
	directoryEntries, readDirectoryError := os.ReadDir(directoryPath)
	if readDirectoryError != nil {
		return nil, fmt.Errorf(errorReadDirectoryFormat, types.ErrScan, directoryPath, readDirectoryError)
	}

	entries := make([]types.DirEntry, 0, len(directoryEntries))
	for _, directoryEntry := range directoryEntries {
		entryName := directoryEntry.Name()
		if matcher.Matches(entryName) {
			continue
		}
		entryPath := filepath.Join(directoryPath, entryName)
		entries = append(entries, types.DirEntry{
			Name:         entryName,
			AbsolutePath: entryPath,
			Type:         entryType(directoryEntry, entryPath),
		})
	}
	return entries, nil
}

func entryType(directoryEntry fs.DirEntry, entryPath string) string {
	if directoryEntry.IsDir() {
		return types.NodeTypeDirectory
	}
	if directoryEntry.Type()&fs.ModeSymlink != 0 {
		targetInfo, statError := os.Stat(entryPath)
		if statError == nil && targetInfo.IsDir() {
			return types.NodeTypeDirectory
		}
	}
	return types.NodeTypeFile
}
