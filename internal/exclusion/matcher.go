// Package exclusion decides whether bare directory and file names are excluded from an export.
package exclusion

import (
	"strings"

	"github.com/gobwas/glob"
	"go.uber.org/zap"

	"github.com/temirov/sanity/internal/utils"
)

// globMetaCharacters marks a pattern that is compiled as a glob instead of compared verbatim.
const globMetaCharacters = "*?[{"

// Matcher reports exclusion of bare names, never paths.
type Matcher interface {
	IsExcludedDir(name string) bool
	IsExcludedFile(name string) bool
}

// Options configures NewNameMatcher.
type Options struct {
	ExcludeDirs  []string
	ExcludeFiles []string
	// ExactMatch compares every pattern by string equality, wildcards included.
	ExactMatch bool
	Logger     *zap.Logger
}

// NameMatcher matches names against exact entries and compiled glob patterns.
type NameMatcher struct {
	directories patternSet
	files       patternSet
}

type patternSet struct {
	exact map[string]struct{}
	globs []glob.Glob
}

// NewNameMatcher builds a matcher. Every pattern matches its own literal name; glob
// patterns additionally match by wildcard unless ExactMatch is set.
func NewNameMatcher(options Options) *NameMatcher {
	logger := utils.LoggerOrNop(options.Logger)
	return &NameMatcher{
		directories: newPatternSet(options.ExcludeDirs, options.ExactMatch, logger),
		files:       newPatternSet(options.ExcludeFiles, options.ExactMatch, logger),
	}
}

// IsExcludedDir reports whether a directory name is excluded.
func (matcher *NameMatcher) IsExcludedDir(name string) bool {
	return matcher.directories.matches(name)
}

// IsExcludedFile reports whether a file name is excluded.
func (matcher *NameMatcher) IsExcludedFile(name string) bool {
	return matcher.files.matches(name)
}

func newPatternSet(patterns []string, exactMatch bool, logger *zap.Logger) patternSet {
	set := patternSet{exact: make(map[string]struct{}, len(patterns))}
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		// A name equal to the pattern itself is always excluded, e.g. "[id].tsx".
		set.exact[pattern] = struct{}{}
		if exactMatch || !IsGlobPattern(pattern) {
			continue
		}
		compiled, compileErr := glob.Compile(pattern)
		if compileErr != nil {
			logger.Warn("invalid exclusion pattern, matching it literally", zap.String("pattern", pattern), zap.Error(compileErr))
			continue
		}
		set.globs = append(set.globs, compiled)
	}
	return set
}

func (set patternSet) matches(name string) bool {
	if _, found := set.exact[name]; found {
		return true
	}
	for _, compiled := range set.globs {
		if compiled.Match(name) {
			return true
		}
	}
	return false
}

// IsGlobPattern reports whether pattern contains glob metacharacters.
func IsGlobPattern(pattern string) bool {
	return strings.ContainsAny(pattern, globMetaCharacters)
}

var _ Matcher = (*NameMatcher)(nil)
