// Package config loads ignore rules and application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/codecontext/internal/utils"
)

const (
	commentPrefix   = "#"
	directorySuffix = "/"

	errorReadIgnoreFileFormat = "reading %s: %w"
)

// IgnoreOptions controls which sources contribute to an IgnoreRuleSet.
type IgnoreOptions struct {
	// UseGitignore reads utils.GitIgnoreFileName at the root when true.
	UseGitignore bool
	// ExtraRules are appended after the built-in and parsed rules.
	ExtraRules []string
}

// IgnoreRuleSet is the immutable, deduplicated rule list shared by both traversals.
type IgnoreRuleSet struct {
	rules []string
}

// NewIgnoreRuleSet deduplicates the provided rules into a rule set.
func NewIgnoreRuleSet(rules ...[]string) IgnoreRuleSet {
	var combined []string
	for _, ruleGroup := range rules {
		combined = append(combined, ruleGroup...)
	}
	return IgnoreRuleSet{rules: utils.DeduplicatePatterns(combined)}
}

// Matches reports whether an item with the given name is excluded.
func (ruleSet IgnoreRuleSet) Matches(itemName string) bool {
	return utils.ShouldIgnoreName(itemName, ruleSet.rules)
}

// Rules returns a copy of the rules in insertion order.
func (ruleSet IgnoreRuleSet) Rules() []string {
	return append([]string(nil), ruleSet.rules...)
}

// ParseIgnoreRules converts ignore file text into rules. Lines are trimmed, blank lines and
// "#" comments are dropped, and a single trailing "/" is stripped from each rule.
func ParseIgnoreRules(fileText string) []string {
	var rules []string
	for _, rawLine := range strings.Split(fileText, "\n") {
		trimmedLine := strings.TrimSpace(rawLine)
		if trimmedLine == utils.EmptyString || strings.HasPrefix(trimmedLine, commentPrefix) {
			continue
		}
		rule := strings.TrimSuffix(trimmedLine, directorySuffix)
		if rule == utils.EmptyString {
			continue
		}
		rules = append(rules, rule)
	}
	return rules
}

// LoadIgnoreFileRules reads and parses an ignore file. A missing file yields no rules.
//
// #nosec G304
func LoadIgnoreFileRules(ignoreFilePath string) ([]string, error) {
	fileBytes, readError := os.ReadFile(ignoreFilePath)
	if readError != nil {
		if os.IsNotExist(readError) {
			return nil, nil
		}
		return nil, fmt.Errorf(errorReadIgnoreFileFormat, ignoreFilePath, readError)
	}
	return ParseIgnoreRules(string(fileBytes)), nil
}

// BuildIgnoreRuleSet merges utils.BuiltInIgnoreRules with the root ignore file and the extra rules.
func BuildIgnoreRuleSet(rootDirectoryPath string, options IgnoreOptions) (IgnoreRuleSet, error) {
	var parsedRules []string
	if options.UseGitignore {
		loadedRules, loadError := LoadIgnoreFileRules(filepath.Join(rootDirectoryPath, utils.GitIgnoreFileName))
		if loadError != nil {
			return IgnoreRuleSet{}, loadError
		}
		parsedRules = loadedRules
	}

	var extraRules []string
	for _, rule := range options.ExtraRules {
		trimmedRule := strings.TrimSuffix(strings.TrimSpace(rule), directorySuffix)
		if trimmedRule != utils.EmptyString {
			extraRules = append(extraRules, trimmedRule)
		}
	}

	return NewIgnoreRuleSet(utils.BuiltInIgnoreRules, parsedRules, extraRules), nil
}
