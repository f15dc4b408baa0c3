// Package resolver expands glob patterns into the concrete files to watch.
//
// Patterns use doublestar syntax, so "**" crosses directory boundaries.
// Relative patterns are resolved against a root directory and the results
// keep that relative form, "test/fixtures/*.txt" yields
// "test/fixtures/test.txt" when the root is the working directory.
//
// Example usage:
//
//	r := resolver.New("", logger.Default())
//	files, err := r.Resolve([]string{"public/**/*.css", "*.html"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if len(files) == 0 {
//	    fmt.Println("nothing to watch")
//	}
package resolver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/0xmhha/filewatch/pkg/logger"
)

// Resolver turns patterns into a list of existing files.
//
// An empty result with a nil error means nothing matched; an error means
// the patterns could not be resolved at all.
type Resolver interface {
	Resolve(patterns []string) ([]string, error)
}

// Glob resolves doublestar patterns on the local filesystem.
type Glob struct {
	root string
	log  logger.Logger
}

// New creates a Glob resolver. An empty root means the working directory
// and a nil logger discards diagnostics.
func New(root string, log logger.Logger) *Glob {
	if root == "" {
		root = "."
	}
	if log == nil {
		log = logger.Noop()
	}
	return &Glob{root: root, log: log}
}

// Root returns the directory relative patterns resolve against.
func (g *Glob) Root() string {
	return g.root
}

// Resolve returns every regular file matched by any pattern, without
// duplicates, ordered by pattern and then lexically within a pattern.
func (g *Glob) Resolve(patterns []string) ([]string, error) {
	info, err := os.Stat(g.root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableRoot, g.root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrUnreadableRoot, g.root)
	}

	seen := make(map[string]struct{})
	files := make([]string, 0, len(patterns))

	for _, pattern := range patterns {
		matches, err := g.resolveOne(pattern)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}

	g.log.Debug("patterns resolved",
		"patterns", patterns,
		"root", g.root,
		"matches", len(files))

	return files, nil
}

// ResolveStrict is Resolve, but reports an empty result as ErrNoMatches.
func (g *Glob) ResolveStrict(patterns []string) ([]string, error) {
	files, err := g.Resolve(patterns)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoMatches
	}
	return files, nil
}

func (g *Glob) resolveOne(pattern string) ([]string, error) {
	full := g.absolutePattern(pattern)
	if !doublestar.ValidatePattern(full) {
		return nil, fmt.Errorf("%w: %q", ErrBadPattern, pattern)
	}

	base, rest := doublestar.SplitPattern(full)
	baseDir := filepath.FromSlash(base)

	if _, err := os.Stat(baseDir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// A pattern into a directory that does not exist yet matches nothing.
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableRoot, baseDir, err)
	}

	matches, err := doublestar.Glob(os.DirFS(baseDir), rest,
		doublestar.WithFilesOnly(),
		doublestar.WithFailOnIOErrors())
	if err != nil {
		if errors.Is(err, doublestar.ErrBadPattern) {
			return nil, fmt.Errorf("%w: %q", ErrBadPattern, pattern)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableRoot, baseDir, err)
	}

	sort.Strings(matches)
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = filepath.Join(baseDir, filepath.FromSlash(m))
	}
	return out, nil
}

// absolutePattern anchors a relative pattern at the root and returns it in
// slash form. The result is relative when the root is.
func (g *Glob) absolutePattern(pattern string) string {
	p := filepath.FromSlash(pattern)
	if !filepath.IsAbs(p) {
		p = filepath.Join(g.root, p)
	}
	return filepath.ToSlash(filepath.Clean(p))
}

// Match reports whether path is matched by any of patterns.
func (g *Glob) Match(patterns []string, path string) bool {
	name := filepath.ToSlash(filepath.Clean(path))
	for _, pattern := range patterns {
		ok, err := doublestar.Match(g.absolutePattern(pattern), name)
		if err == nil && ok {
			return true
		}
	}
	return false
}

// Root is a directory new matching files can appear in.
type Root struct {
	Dir string

	// Recursive is set when the pattern can match below Dir's immediate
	// children.
	Recursive bool
}

// Roots returns the static directory prefix of every pattern, deduplicated.
func (g *Glob) Roots(patterns []string) []Root {
	index := make(map[string]int)
	roots := make([]Root, 0, len(patterns))
	for _, pattern := range patterns {
		base, rest := doublestar.SplitPattern(g.absolutePattern(pattern))
		root := Root{
			Dir:       filepath.FromSlash(base),
			Recursive: strings.Contains(rest, "/") || strings.Contains(rest, "**"),
		}
		if i, dup := index[root.Dir]; dup {
			roots[i].Recursive = roots[i].Recursive || root.Recursive
			continue
		}
		index[root.Dir] = len(roots)
		roots = append(roots, root)
	}
	return roots
}
