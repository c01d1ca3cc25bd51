// Package output renders context dump documents as text.
package output

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/temirov/codecontext/internal/types"
)

const (
	rootHeaderSuffix = "/"
	pathLineSuffix   = ":"
	separatorUnit    = "-"
	lineBreak        = "\n"

	errorWriteDocumentFormat = "writing document for %s: %w"
)

// RenderRootHeader returns the first line of a tree document.
func RenderRootHeader(rootName string) string {
	return rootName + rootHeaderSuffix + lineBreak
}

// RenderContentRecord returns the path line, a dash line of the same length, the raw text and a blank line.
func RenderContentRecord(record types.ContentRecord) string {
	pathLine := record.RelativePath + pathLineSuffix
	separator := strings.Repeat(separatorUnit, utf8.RuneCountInString(pathLine))
	return pathLine + lineBreak + separator + lineBreak + record.Content + lineBreak + lineBreak
}

// RenderContentDocument concatenates every record in traversal order.
func RenderContentDocument(document types.ContentDocument) string {
	var builder strings.Builder
	for _, record := range document.Records {
		builder.WriteString(RenderContentRecord(record))
	}
	return builder.String()
}

// RenderDocument joins the root header, the tree, a blank line and the content records.
func RenderDocument(rootName string, tree string, content types.ContentDocument) string {
	return RenderRootHeader(rootName) + tree + lineBreak + RenderContentDocument(content)
}

// WriteDocuments writes the text of each document to writer in order.
func WriteDocuments(writer io.Writer, documents []types.OutputDocument) error {
	for _, document := range documents {
		if _, writeError := io.WriteString(writer, document.Text); writeError != nil {
			return fmt.Errorf(errorWriteDocumentFormat, document.RootPath, writeError)
		}
	}
	return nil
}
