// Package clipboard copies generated documents to the system clipboard.
package clipboard

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/temirov/codecontext/internal/types"
)

// Copier copies textual data to the system clipboard.
type Copier interface {
	Copy(text string) error
}

// Service implements Copier using github.com/atotto/clipboard.
type Service struct{}

// NewService constructs a Clipboard service implementation.
func NewService() *Service {
	return &Service{}
}

// Copy writes text to the system clipboard.
func (service *Service) Copy(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard is not supported on this system")
	}
	return clipboard.WriteAll(text)
}

// CopyDocuments joins the document texts in order and hands them to copier as one value.
func CopyDocuments(copier Copier, documents []types.OutputDocument) error {
	if copier == nil {
		return fmt.Errorf("clipboard copier is not configured")
	}
	var builder strings.Builder
	for _, document := range documents {
		builder.WriteString(document.Text)
	}
	return copier.Copy(builder.String())
}

var _ Copier = (*Service)(nil)
