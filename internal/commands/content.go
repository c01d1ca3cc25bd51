package commands

import (
	"errors"
	"os"

	"go.uber.org/zap"

	"github.com/temirov/codecontext/internal/output"
	"github.com/temirov/codecontext/internal/types"
	"github.com/temirov/codecontext/internal/utils"
)

const (
	relativePathSeparator = "/"

	warningFileReadMessage   = "skipping unreadable file"
	warningFileDecodeMessage = "skipping file that is not valid text"
	debugBinarySkipMessage   = "skipping binary extension"
)

var (
	// errNotText reports file bytes that cannot be decoded as text.
	errNotText = errors.New("content is not valid text")
	// errNotRegular reports pipes, sockets and devices, which are never read.
	errNotRegular = errors.New("not a regular file")
)

// ContentSerializer collects the text of every included file below a directory.
type ContentSerializer struct {
	RuleSet RuleMatcher
	Logger  *zap.Logger
}

// Render returns the content records below directoryPath rendered as text.
func (serializer ContentSerializer) Render(directoryPath string, relativePrefix string) (string, error) {
	document, collectError := serializer.Collect(directoryPath, relativePrefix)
	if collectError != nil {
		return "", collectError
	}
	return output.RenderContentDocument(document), nil
}

// Collect walks directoryPath depth-first. Directories extend relativePrefix with their
// name; files with a binary extension are skipped, as are files that cannot be read or
// decoded as text. Only directory listing failures abort the walk.
func (serializer ContentSerializer) Collect(directoryPath string, relativePrefix string) (types.ContentDocument, error) {
	var document types.ContentDocument
	if collectError := serializer.collect(&document, directoryPath, relativePrefix); collectError != nil {
		return types.ContentDocument{}, collectError
	}
	return document, nil
}

func (serializer ContentSerializer) collect(document *types.ContentDocument, directoryPath string, relativePrefix string) error {
	entries, listError := listDirectory(directoryPath, serializer.RuleSet)
	if listError != nil {
		return listError
	}
	for _, entry := range entries {
		relativePath := relativePrefix + relativePathSeparator + entry.Name
		if entry.IsDir() {
			if collectError := serializer.collect(document, entry.AbsolutePath, relativePath); collectError != nil {
				return collectError
			}
			continue
		}
		if utils.HasBinaryExtension(entry.Name) {
			serializer.logger().Debug(debugBinarySkipMessage, zap.String("path", relativePath))
			continue
		}
		fileText, readError := readTextFile(entry.AbsolutePath)
		if readError != nil {
			message := warningFileReadMessage
			if errors.Is(readError, errNotText) {
				message = warningFileDecodeMessage
			}
			serializer.logger().Warn(message, zap.String("path", entry.AbsolutePath), zap.Error(readError))
			continue
		}
		document.Records = append(document.Records, types.ContentRecord{RelativePath: relativePath, Content: fileText})
	}
	return nil
}

func (serializer ContentSerializer) logger() *zap.Logger {
	if serializer.Logger == nil {
		return zap.NewNop()
	}
	return serializer.Logger
}

// readTextFile returns the file content, or errNotText when it is binary.
//
// #nosec G304
func readTextFile(filePath string) (string, error) {
	fileInfo, statError := os.Stat(filePath)
	if statError != nil {
		return "", statError
	}
	if !fileInfo.Mode().IsRegular() {
		return "", errNotRegular
	}
	fileBytes, readError := os.ReadFile(filePath)
	if readError != nil {
		return "", readError
	}
	if utils.IsBinary(fileBytes) {
		return "", errNotText
	}
	return string(fileBytes), nil
}
