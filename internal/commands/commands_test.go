package commands_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/temirov/codecontext/internal/commands"
	"github.com/temirov/codecontext/internal/config"
	"github.com/temirov/codecontext/internal/types"
	"github.com/temirov/codecontext/internal/utils"
)

const (
	textFileName      = "a.txt"
	textFileContent   = "hello"
	nestedDirName     = "sub"
	nestedFileName    = "c.txt"
	nestedFileContent = "world"
	imageFileName     = "b.png"
	rootPrefix        = "proj"
)

// writeFile creates parent directories and writes content, failing the test on error.
func writeFile(testingHandle *testing.T, filePath string, content string) {
	testingHandle.Helper()
	if makeDirError := os.MkdirAll(filepath.Dir(filePath), 0o755); makeDirError != nil {
		testingHandle.Fatalf("mkdir %s: %v", filepath.Dir(filePath), makeDirError)
	}
	if writeError := os.WriteFile(filePath, []byte(content), 0o644); writeError != nil {
		testingHandle.Fatalf("write %s: %v", filePath, writeError)
	}
}

// stubMatcher excludes a fixed set of names.
type stubMatcher map[string]struct{}

func (matcher stubMatcher) Matches(itemName string) bool {
	_, excluded := matcher[itemName]
	return excluded
}

// buildSampleTree creates a.txt, sub/b.png and sub/c.txt below a fresh root.
func buildSampleTree(testingHandle *testing.T) string {
	testingHandle.Helper()
	rootDirectory := testingHandle.TempDir()
	writeFile(testingHandle, filepath.Join(rootDirectory, textFileName), textFileContent)
	writeFile(testingHandle, filepath.Join(rootDirectory, nestedDirName, imageFileName), "\x89PNG")
	writeFile(testingHandle, filepath.Join(rootDirectory, nestedDirName, nestedFileName), nestedFileContent)
	return rootDirectory
}

// TestTreeRendererRendersNestedEntries verifies bar lines, labels and indentation.
func TestTreeRendererRendersNestedEntries(testingHandle *testing.T) {
	rootDirectory := buildSampleTree(testingHandle)

	tree, renderError := commands.TreeRenderer{RuleSet: stubMatcher{}}.Render(rootDirectory, "")
	if renderError != nil {
		testingHandle.Fatalf("Render error: %v", renderError)
	}
	expected := "|\n-a.txt\n|\n-sub/\n  |\n  -b.png\n  |\n  -c.txt\n"
	if tree != expected {
		testingHandle.Fatalf("unexpected tree:\n%q\nwant:\n%q", tree, expected)
	}
}

// TestTreeRendererHonorsIndent verifies the initial indent prefixes every line.
func TestTreeRendererHonorsIndent(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeFile(testingHandle, filepath.Join(rootDirectory, "x"), "")

	tree, renderError := commands.TreeRenderer{RuleSet: stubMatcher{}}.Render(rootDirectory, "    ")
	if renderError != nil {
		testingHandle.Fatalf("Render error: %v", renderError)
	}
	if tree != "    |\n    -x\n" {
		testingHandle.Fatalf("unexpected tree %q", tree)
	}
}

// TestTreeRendererSkipsIgnoredEntries verifies ignored names are not listed or traversed.
func TestTreeRendererSkipsIgnoredEntries(testingHandle *testing.T) {
	rootDirectory := buildSampleTree(testingHandle)
	writeFile(testingHandle, filepath.Join(rootDirectory, "node_modules", "lib", "index.js"), "module.exports = 1")
	writeFile(testingHandle, filepath.Join(rootDirectory, "app.log"), "log")

	ruleSet := config.NewIgnoreRuleSet([]string{"*.log", nestedDirName})
	tree, renderError := commands.TreeRenderer{RuleSet: ruleSet}.Render(rootDirectory, "")
	if renderError != nil {
		testingHandle.Fatalf("Render error: %v", renderError)
	}
	if tree != "|\n-a.txt\n" {
		testingHandle.Fatalf("unexpected tree %q", tree)
	}
}

// TestTreeRendererEmptyDirectory verifies empty directories render nothing below their label.
func TestTreeRendererEmptyDirectory(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	if makeDirError := os.Mkdir(filepath.Join(rootDirectory, "empty"), 0o755); makeDirError != nil {
		testingHandle.Fatalf("mkdir: %v", makeDirError)
	}
	tree, renderError := commands.TreeRenderer{RuleSet: stubMatcher{}}.Render(rootDirectory, "")
	if renderError != nil {
		testingHandle.Fatalf("Render error: %v", renderError)
	}
	if tree != "|\n-empty/\n" {
		testingHandle.Fatalf("unexpected tree %q", tree)
	}
}

// TestTreeRendererMissingDirectory verifies listing failures surface as scan errors.
func TestTreeRendererMissingDirectory(testingHandle *testing.T) {
	_, renderError := commands.TreeRenderer{RuleSet: stubMatcher{}}.Render(filepath.Join(testingHandle.TempDir(), "gone"), "")
	if !errors.Is(renderError, types.ErrScan) {
		testingHandle.Fatalf("expected scan error, got %v", renderError)
	}
}

// TestContentSerializerCollectsTextFiles verifies records, relative paths and binary skipping.
func TestContentSerializerCollectsTextFiles(testingHandle *testing.T) {
	rootDirectory := buildSampleTree(testingHandle)

	document, collectError := commands.ContentSerializer{RuleSet: stubMatcher{}}.Collect(rootDirectory, rootPrefix)
	if collectError != nil {
		testingHandle.Fatalf("Collect error: %v", collectError)
	}
	expected := []types.ContentRecord{
		{RelativePath: rootPrefix + "/" + textFileName, Content: textFileContent},
		{RelativePath: rootPrefix + "/" + nestedDirName + "/" + nestedFileName, Content: nestedFileContent},
	}
	if len(document.Records) != len(expected) {
		testingHandle.Fatalf("expected %d records, got %+v", len(expected), document.Records)
	}
	for index, record := range document.Records {
		if record != expected[index] {
			testingHandle.Fatalf("record %d: expected %+v, got %+v", index, expected[index], record)
		}
	}
}

// TestContentSerializerRender verifies the rendered record text.
func TestContentSerializerRender(testingHandle *testing.T) {
	rootDirectory := buildSampleTree(testingHandle)

	rendered, renderError := commands.ContentSerializer{RuleSet: stubMatcher{}}.Render(rootDirectory, rootPrefix)
	if renderError != nil {
		testingHandle.Fatalf("Render error: %v", renderError)
	}
	expected := "proj/a.txt:\n-----------\nhello\n\n" +
		"proj/sub/c.txt:\n---------------\nworld\n\n"
	if rendered != expected {
		testingHandle.Fatalf("unexpected content:\n%q\nwant:\n%q", rendered, expected)
	}
	if strings.Contains(rendered, imageFileName) {
		testingHandle.Fatalf("binary extension file appeared in content")
	}
}

// TestContentSerializerSkipsUnreadableFiles verifies per-file failures do not abort the walk.
func TestContentSerializerSkipsUnreadableFiles(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeFile(testingHandle, filepath.Join(rootDirectory, "garbage.dat"), "\xff\xfe\xfd")
	writeFile(testingHandle, filepath.Join(rootDirectory, "latin1.txt"), "caf\xe9")
	writeFile(testingHandle, filepath.Join(rootDirectory, "ok.txt"), "fine")
	if linkError := os.Symlink(filepath.Join(rootDirectory, "missing-target"), filepath.Join(rootDirectory, "broken.txt")); linkError != nil {
		testingHandle.Skipf("symlinks unavailable: %v", linkError)
	}

	document, collectError := commands.ContentSerializer{RuleSet: stubMatcher{}}.Collect(rootDirectory, rootPrefix)
	if collectError != nil {
		testingHandle.Fatalf("Collect error: %v", collectError)
	}
	if len(document.Records) != 1 || document.Records[0].RelativePath != rootPrefix+"/ok.txt" {
		testingHandle.Fatalf("expected only ok.txt, got %+v", document.Records)
	}

	tree, renderError := commands.TreeRenderer{RuleSet: stubMatcher{}}.Render(rootDirectory, "")
	if renderError != nil {
		testingHandle.Fatalf("Render error: %v", renderError)
	}
	if !strings.Contains(tree, "-broken.txt\n") {
		testingHandle.Fatalf("expected broken link listed as a file in the tree, got %q", tree)
	}
}

// TestContentSerializerKeepsControlBytes verifies valid UTF-8 with NUL bytes is dumped verbatim.
func TestContentSerializerKeepsControlBytes(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeFile(testingHandle, filepath.Join(rootDirectory, "nul.txt"), "a\x00b")

	document, collectError := commands.ContentSerializer{RuleSet: stubMatcher{}}.Collect(rootDirectory, rootPrefix)
	if collectError != nil {
		testingHandle.Fatalf("Collect error: %v", collectError)
	}
	expected := []types.ContentRecord{{RelativePath: rootPrefix + "/nul.txt", Content: "a\x00b"}}
	if len(document.Records) != 1 || document.Records[0] != expected[0] {
		testingHandle.Fatalf("expected %+v, got %+v", expected, document.Records)
	}
}

// TestContentSerializerFollowsDirectoryLinks verifies symbolic links to directories are traversed.
func TestContentSerializerFollowsDirectoryLinks(testingHandle *testing.T) {
	targetDirectory := testingHandle.TempDir()
	writeFile(testingHandle, filepath.Join(targetDirectory, "linked.txt"), "linked")
	rootDirectory := testingHandle.TempDir()
	if linkError := os.Symlink(targetDirectory, filepath.Join(rootDirectory, "link")); linkError != nil {
		testingHandle.Skipf("symlinks unavailable: %v", linkError)
	}

	document, collectError := commands.ContentSerializer{RuleSet: stubMatcher{}}.Collect(rootDirectory, rootPrefix)
	if collectError != nil {
		testingHandle.Fatalf("Collect error: %v", collectError)
	}
	if len(document.Records) != 1 || document.Records[0].RelativePath != rootPrefix+"/link/linked.txt" {
		testingHandle.Fatalf("unexpected records %+v", document.Records)
	}
	tree, renderError := commands.TreeRenderer{RuleSet: stubMatcher{}}.Render(rootDirectory, "")
	if renderError != nil {
		testingHandle.Fatalf("Render error: %v", renderError)
	}
	if tree != "|\n-link/\n  |\n  -linked.txt\n" {
		testingHandle.Fatalf("unexpected tree %q", tree)
	}
}

// TestContentSerializerUnreadableDirectory verifies a directory listing failure aborts the walk.
func TestContentSerializerUnreadableDirectory(testingHandle *testing.T) {
	if os.Geteuid() == 0 {
		testingHandle.Skip("permission bits are not enforced for root")
	}
	rootDirectory := buildSampleTree(testingHandle)
	lockedDirectory := filepath.Join(rootDirectory, nestedDirName)
	if chmodError := os.Chmod(lockedDirectory, 0o000); chmodError != nil {
		testingHandle.Fatalf("chmod: %v", chmodError)
	}
	testingHandle.Cleanup(func() { _ = os.Chmod(lockedDirectory, 0o755) })

	_, collectError := commands.ContentSerializer{RuleSet: stubMatcher{}}.Collect(rootDirectory, rootPrefix)
	if !errors.Is(collectError, types.ErrScan) {
		testingHandle.Fatalf("expected scan error, got %v", collectError)
	}
	_, renderError := commands.TreeRenderer{RuleSet: stubMatcher{}}.Render(rootDirectory, "")
	if !errors.Is(renderError, types.ErrScan) {
		testingHandle.Fatalf("expected scan error from tree, got %v", renderError)
	}
}

// TestTraversalsFilterIdentically verifies every tree file except binary extensions has a content record.
func TestTraversalsFilterIdentically(testingHandle *testing.T) {
	rootDirectory := buildSampleTree(testingHandle)
	writeFile(testingHandle, filepath.Join(rootDirectory, "dist", "bundle.js"), "x")
	writeFile(testingHandle, filepath.Join(rootDirectory, "deep", "er", "notes.md"), "notes")
	writeFile(testingHandle, filepath.Join(rootDirectory, "deep", "trace.log"), "trace")
	writeFile(testingHandle, filepath.Join(rootDirectory, "deep", "logo.GIF"), "GIF89a")

	ruleSet := config.NewIgnoreRuleSet(utils.BuiltInIgnoreRules, []string{"*.log"})
	tree, renderError := commands.TreeRenderer{RuleSet: ruleSet}.Render(rootDirectory, "")
	if renderError != nil {
		testingHandle.Fatalf("Render error: %v", renderError)
	}
	document, collectError := commands.ContentSerializer{RuleSet: ruleSet}.Collect(rootDirectory, rootPrefix)
	if collectError != nil {
		testingHandle.Fatalf("Collect error: %v", collectError)
	}

	treeFiles := map[string]struct{}{}
	var directoryStack []string
	for _, line := range strings.Split(strings.TrimSuffix(tree, "\n"), "\n") {
		trimmed := strings.TrimLeft(line, " ")
		if trimmed == "|" {
			continue
		}
		depth := (len(line) - len(trimmed)) / 2
		directoryStack = directoryStack[:depth]
		name := strings.TrimPrefix(trimmed, "-")
		if strings.HasSuffix(name, "/") {
			directoryStack = append(directoryStack, strings.TrimSuffix(name, "/"))
			continue
		}
		if utils.HasBinaryExtension(name) {
			continue
		}
		treeFiles[strings.Join(append([]string{rootPrefix}, append(directoryStack, name)...), "/")] = struct{}{}
	}

	contentFiles := map[string]struct{}{}
	for _, record := range document.Records {
		contentFiles[record.RelativePath] = struct{}{}
	}
	if len(treeFiles) != len(contentFiles) {
		testingHandle.Fatalf("tree files %v differ from content files %v", treeFiles, contentFiles)
	}
	for relativePath := range treeFiles {
		if _, found := contentFiles[relativePath]; !found {
			testingHandle.Fatalf("tree file %s missing from content %v", relativePath, contentFiles)
		}
	}
	for _, excluded := range []string{"dist", "trace.log"} {
		if strings.Contains(tree, excluded) {
			testingHandle.Fatalf("ignored item %s appeared in the tree", excluded)
		}
	}
}
