// Package generator orchestrates a context dump: it validates the scan root, builds the
// ignore rule set, renders the tree and content halves, and writes the document.
package generator

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/codecontext/internal/commands"
	"github.com/temirov/codecontext/internal/config"
	"github.com/temirov/codecontext/internal/output"
	"github.com/temirov/codecontext/internal/tokenizer"
	"github.com/temirov/codecontext/internal/types"
	"github.com/temirov/codecontext/internal/utils"
)

const (
	errorRootStatFormat      = "%w: root %s: %w"
	errorRootNotDirFormat    = "%w: root %s is not a directory"
	errorOutputNameFormat    = "%w: output name %q must be a plain file name"
	errorIgnoreRulesFormat   = "%w: loading ignore rules for %s: %w"
	errorWriteOutputFormat   = "writing %s: %w"
	errorGenerateRootFormat  = "generating %s: %w"
	summaryMessage           = "generated context"
	writtenMessage           = "wrote document"
	warningTokenCountMessage = "failed to count tokens"
	outputFilePermissions    = 0o644
)

// Options configures a Service.
type Options struct {
	// OutputFileName is written at each root and always ignored. Defaults to utils.OutputFileName.
	OutputFileName string
	UseGitignore   bool
	ExtraRules     []string
	// SkipWrite leaves the root untouched; the document is only returned.
	SkipWrite    bool
	TokenCounter tokenizer.Counter
}

// Result describes one generated document.
type Result struct {
	Document   types.OutputDocument
	OutputPath string
	Tokens     tokenizer.CountResult
	Counted    bool
}

// Service generates context dumps.
type Service struct {
	options Options
	logger  *zap.Logger
}

// NewService constructs a Service. A nil logger discards log output.
func NewService(options Options, logger *zap.Logger) *Service {
	if options.OutputFileName == "" {
		options.OutputFileName = utils.OutputFileName
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{options: options, logger: logger}
}

// ValidateRoot confirms rootPath names an existing directory and returns its absolute form.
func ValidateRoot(rootPath string) (types.ValidatedPath, error) {
	absolutePath, absoluteError := filepath.Abs(rootPath)
	if absoluteError != nil {
		return types.ValidatedPath{}, fmt.Errorf(errorRootStatFormat, types.ErrConfiguration, rootPath, absoluteError)
	}
	cleanPath := filepath.Clean(absolutePath)
	rootInfo, statError := os.Stat(cleanPath)
	if statError != nil {
		return types.ValidatedPath{}, fmt.Errorf(errorRootStatFormat, types.ErrConfiguration, cleanPath, statError)
	}
	if !rootInfo.IsDir() {
		return types.ValidatedPath{}, fmt.Errorf(errorRootNotDirFormat, types.ErrConfiguration, cleanPath)
	}
	return types.ValidatedPath{AbsolutePath: cleanPath, IsDir: true}, nil
}

// Generate produces the document for rootPath and, unless SkipWrite is set, writes it to
// OutputFileName at the root, replacing any earlier output. Nothing is written when the
// traversal fails.
func (service *Service) Generate(rootPath string) (Result, error) {
	if !isPlainFileName(service.options.OutputFileName) {
		return Result{}, fmt.Errorf(errorOutputNameFormat, types.ErrConfiguration, service.options.OutputFileName)
	}
	validatedRoot, validationError := ValidateRoot(rootPath)
	if validationError != nil {
		return Result{}, validationError
	}

	document, renderError := service.render(validatedRoot.AbsolutePath)
	if renderError != nil {
		return Result{}, renderError
	}
	result := Result{Document: document}

	if !service.options.SkipWrite {
		outputPath := filepath.Join(document.RootPath, service.options.OutputFileName)
		if writeError := os.WriteFile(outputPath, []byte(document.Text), outputFilePermissions); writeError != nil {
			return Result{}, fmt.Errorf(errorWriteOutputFormat, outputPath, writeError)
		}
		result.OutputPath = outputPath
		service.logger.Debug(writtenMessage, zap.String("path", outputPath))
	}

	if service.options.TokenCounter != nil {
		countResult, countError := tokenizer.CountDocument(service.options.TokenCounter, document)
		if countError != nil {
			service.logger.Warn(warningTokenCountMessage, zap.String("root", document.RootPath), zap.Error(countError))
		} else {
			result.Tokens = countResult
			result.Counted = true
		}
	}

	service.logSummary(result)
	return result, nil
}

// GenerateAll runs Generate for every root concurrently. Each root is traversed
// synchronously on its own goroutine. Results keep the order of rootPaths; the first
// failure is returned once every root has finished.
func (service *Service) GenerateAll(rootPaths []string) ([]Result, error) {
	results := make([]Result, len(rootPaths))
	var group errgroup.Group
	group.SetLimit(runtime.GOMAXPROCS(0))
	for rootIndex, rootPath := range rootPaths {
		group.Go(func() error {
			result, generateError := service.Generate(rootPath)
			if generateError != nil {
				return fmt.Errorf(errorGenerateRootFormat, rootPath, generateError)
			}
			results[rootIndex] = result
			return nil
		})
	}
	if waitError := group.Wait(); waitError != nil {
		return nil, waitError
	}
	return results, nil
}

// isPlainFileName rejects names that would place the output outside the root or onto a directory.
func isPlainFileName(fileName string) bool {
	switch fileName {
	case "", ".", "..":
		return false
	}
	return !strings.ContainsAny(fileName, `/\`)
}

func (service *Service) render(rootPath string) (types.OutputDocument, error) {
	ruleSet, ruleError := config.BuildIgnoreRuleSet(rootPath, config.IgnoreOptions{
		UseGitignore: service.options.UseGitignore,
		ExtraRules:   append([]string{service.options.OutputFileName}, service.options.ExtraRules...),
	})
	if ruleError != nil {
		return types.OutputDocument{}, fmt.Errorf(errorIgnoreRulesFormat, types.ErrScan, rootPath, ruleError)
	}

	rootName := filepath.Base(rootPath)
	tree, treeError := commands.TreeRenderer{RuleSet: ruleSet}.Render(rootPath, "")
	if treeError != nil {
		return types.OutputDocument{}, treeError
	}
	content, contentError := commands.ContentSerializer{RuleSet: ruleSet, Logger: service.logger}.Collect(rootPath, rootName)
	if contentError != nil {
		return types.OutputDocument{}, contentError
	}

	return types.OutputDocument{
		RootPath: rootPath,
		RootName: rootName,
		Tree:     tree,
		Content:  content,
		Text:     output.RenderDocument(rootName, tree, content),
	}, nil
}

func (service *Service) logSummary(result Result) {
	fields := []zap.Field{
		zap.String("root", result.Document.RootPath),
		zap.Int("files", len(result.Document.Content.Records)),
		zap.String("size", utils.FormatFileSize(result.Document.Bytes())),
	}
	if result.OutputPath != "" {
		fields = append(fields, zap.String("output", result.OutputPath))
	}
	if result.Counted {
		fields = append(fields, zap.Int("tokens", result.Tokens.Tokens), zap.String("model", result.Tokens.Model))
	}
	service.logger.Info(summaryMessage, fields...)
}
