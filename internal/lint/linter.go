package lint

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/projectsol/solclient/internal/config"
	"github.com/projectsol/solclient/internal/foundation/errors"
)

// Linter checks writeups for content the renderer would display incorrectly.
type Linter struct {
	cfg   *Config
	rules []Rule
}

// NewLinter creates a new linter with the given configuration.
func NewLinter(cfg *Config) *Linter {
	if cfg == nil {
		cfg = &Config{Format: "text"}
	}
	placeholder := cfg.HostPlaceholder
	if placeholder == "" {
		placeholder = config.DefaultHostPlaceholder
	}

	return &Linter{
		cfg: cfg,
		rules: []Rule{
			&UnsupportedSyntaxRule{},
			&UnclosedFenceRule{},
			&HeadingSpaceRule{},
			&PlaceholderRule{Placeholder: placeholder},
		},
	}
}

// LintPath lints all writeups in the given path (file or directory).
func (l *Linter) LintPath(path string) (*Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "cannot read lint target").
			WithContext("path", path).
			Build()
	}

	result := &Result{
		Issues: []Issue{},
	}

	if info.IsDir() {
		err = l.lintDirectory(path, result)
	} else {
		err = l.lintFile(path, result)
		result.FilesTotal = 1
	}

	return result, err
}

// LintContent lints an in-memory writeup, such as a challenge fetched from the platform.
func (l *Linter) LintContent(name string, content []byte) (*Result, error) {
	result := &Result{Issues: []Issue{}, FilesTotal: 1}
	if err := l.apply(name, content, result); err != nil {
		return nil, err
	}
	return result, nil
}

// lintDirectory recursively lints all writeups in a directory.
func (l *Linter) lintDirectory(dirPath string, result *Result) error {
	return filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Skip hidden directories and files
		if strings.HasPrefix(d.Name(), ".") && path != dirPath {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() || !IsWriteupFile(path) {
			return nil
		}

		result.FilesTotal++
		return l.lintFile(path, result)
	})
}

// lintFile reads a single file and applies all applicable rules.
func (l *Linter) lintFile(filePath string, result *Result) error {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "cannot read writeup").
			WithContext("file", filePath).
			Build()
	}
	return l.apply(filePath, content, result)
}

func (l *Linter) apply(filePath string, content []byte, result *Result) error {
	for _, rule := range l.rules {
		if !rule.AppliesTo(filePath) {
			continue
		}

		issues, err := rule.Check(filePath, content)
		if err != nil {
			return err
		}

		for _, issue := range issues {
			// Skip info and warnings in quiet mode
			if l.cfg.Quiet && issue.Severity != SeverityError {
				continue
			}
			result.Issues = append(result.Issues, issue)
		}
	}

	return nil
}
