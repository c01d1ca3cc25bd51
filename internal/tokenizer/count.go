package tokenizer

import (
	"errors"
	"fmt"

	"github.com/temirov/codecontext/internal/types"
)

// CountResult captures the outcome of counting a document.
type CountResult struct {
	Tokens int
	Model  string
}

// CountDocument estimates the tokens of the rendered document text.
func CountDocument(counter Counter, document types.OutputDocument) (CountResult, error) {
	if counter == nil {
		return CountResult{}, errors.New("nil tokenizer counter")
	}
	tokens, err := counter.CountString(document.Text)
	if err != nil {
		return CountResult{}, fmt.Errorf("count tokens for %s: %w", document.RootPath, err)
	}
	return CountResult{Tokens: tokens, Model: counter.Name()}, nil
}
