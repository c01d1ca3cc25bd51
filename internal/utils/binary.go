package utils

import (
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// IsBinary reports whether data cannot be decoded as UTF-8 text. Control bytes, NUL
// included, are valid text.
func IsBinary(data []byte) bool {
	return !utf8.Valid(data)
}

// HasBinaryExtension reports whether the file name carries a BinaryExtensions extension.
// The comparison ignores case. A leading dot alone does not form an extension.
func HasBinaryExtension(fileName string) bool {
	extension := strings.ToLower(filepath.Ext(fileName))
	if extension == EmptyString || len(extension) == len(fileName) {
		return false
	}
	for _, binaryExtension := range BinaryExtensions {
		if extension == binaryExtension {
			return true
		}
	}
	return false
}
