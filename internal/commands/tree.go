package commands

import (
	"strings"
)

const (
	treeBarMarker   = "|"
	treeEntryMarker = "-"
	treeIndentStep  = "  "
	directoryLabel  = "/"
)

// TreeRenderer renders the indented directory diagram.
type TreeRenderer struct {
	RuleSet RuleMatcher
}

// Render returns the diagram of directoryPath. Each surviving entry produces a bar line
// followed by a label line; directories are labeled with a trailing "/" and rendered
// recursively with indent extended by two spaces. The root header is the caller's concern.
func (treeRenderer TreeRenderer) Render(directoryPath string, indent string) (string, error) {
	var builder strings.Builder
	if renderError := treeRenderer.render(&builder, directoryPath, indent); renderError != nil {
		return "", renderError
	}
	return builder.String(), nil
}

func (treeRenderer TreeRenderer) render(builder *strings.Builder, directoryPath string, indent string) error {
	entries, listError := listDirectory(directoryPath, treeRenderer.RuleSet)
	if listError != nil {
		return listError
	}
	for _, entry := range entries {
		builder.WriteString(indent + treeBarMarker + "\n")
		if !entry.IsDir() {
			builder.WriteString(indent + treeEntryMarker + entry.Name + "\n")
			continue
		}
		builder.WriteString(indent + treeEntryMarker + entry.Name + directoryLabel + "\n")
		if renderError := treeRenderer.render(builder, entry.AbsolutePath, indent+treeIndentStep); renderError != nil {
			return renderError
		}
	}
	return nil
}
