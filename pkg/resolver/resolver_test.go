package resolver

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xmhha/filewatch/pkg/logger"
)

func TestResolveRelativeLiteralPatterns(t *testing.T) {
	r := New("", logger.Noop())

	files, err := r.Resolve([]string{"testdata/fixtures/test.txt", "testdata/fixtures/test2.txt"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join("testdata", "fixtures", "test.txt"),
		filepath.Join("testdata", "fixtures", "test2.txt"),
	}, files)
}

func TestResolveGlobs(t *testing.T) {
	r := New("", logger.Noop())

	tests := []struct {
		name     string
		patterns []string
		want     []string
	}{
		{
			name:     "single star",
			patterns: []string{"testdata/fixtures/*.txt"},
			want: []string{
				filepath.Join("testdata", "fixtures", "test.txt"),
				filepath.Join("testdata", "fixtures", "test2.txt"),
			},
		},
		{
			name:     "double star crosses directories",
			patterns: []string{"testdata/**/*.css"},
			want: []string{
				filepath.Join("testdata", "fixtures", "nested", "deep", "print.css"),
				filepath.Join("testdata", "fixtures", "nested", "site.css"),
			},
		},
		{
			name:     "overlapping patterns are deduplicated in pattern order",
			patterns: []string{"testdata/fixtures/test2.txt", "testdata/fixtures/*.txt"},
			want: []string{
				filepath.Join("testdata", "fixtures", "test2.txt"),
				filepath.Join("testdata", "fixtures", "test.txt"),
			},
		},
		{
			name:     "directories are not files",
			patterns: []string{"testdata/fixtures/*"},
			want: []string{
				filepath.Join("testdata", "fixtures", "test.txt"),
				filepath.Join("testdata", "fixtures", "test2.txt"),
			},
		},
		{
			name:     "nothing matches",
			patterns: []string{"*.rb"},
			want:     []string{},
		},
		{
			name:     "missing base directory matches nothing",
			patterns: []string{"testdata/absent/*.txt"},
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files, err := r.Resolve(tt.patterns)
			require.NoError(t, err)
			assert.Equal(t, tt.want, files)
		})
	}
}

func TestResolveAgainstRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.html"), []byte("<html>"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "app.js"), []byte("1"), 0600))

	r := New(root, logger.Noop())
	assert.Equal(t, root, r.Root())

	files, err := r.Resolve([]string{"*.html"})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "index.html")}, files)

	abs, err := r.Resolve([]string{filepath.Join(root, "*.js")})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "app.js")}, abs)
}

func TestResolveErrors(t *testing.T) {
	missing := New(filepath.Join(t.TempDir(), "gone"), logger.Noop())
	_, err := missing.Resolve([]string{"*.txt"})
	assert.True(t, errors.Is(err, ErrUnreadableRoot), "got %v", err)

	file := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0600))
	_, err = New(file, logger.Noop()).Resolve([]string{"*"})
	assert.True(t, errors.Is(err, ErrUnreadableRoot), "got %v", err)

	_, err = New("", logger.Noop()).Resolve([]string{"testdata/[unclosed"})
	assert.True(t, errors.Is(err, ErrBadPattern), "got %v", err)
}

func TestResolveStrict(t *testing.T) {
	r := New("", logger.Noop())

	_, err := r.ResolveStrict([]string{"*.rb"})
	assert.True(t, errors.Is(err, ErrNoMatches))

	files, err := r.ResolveStrict([]string{"testdata/fixtures/test.txt"})
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestMatch(t *testing.T) {
	r := New("", logger.Noop())
	patterns := []string{"testdata/fixtures/*.txt", "public/**/*.css"}

	assert.True(t, r.Match(patterns, filepath.Join("testdata", "fixtures", "new.txt")))
	assert.True(t, r.Match(patterns, "./testdata/fixtures/new.txt"))
	assert.True(t, r.Match(patterns, filepath.Join("public", "a", "b", "x.css")))
	assert.False(t, r.Match(patterns, filepath.Join("testdata", "fixtures", "new.md")))
	assert.False(t, r.Match(patterns, filepath.Join("testdata", "other", "new.txt")))
}

func TestRoots(t *testing.T) {
	r := New("", logger.Noop())

	roots := r.Roots([]string{
		"testdata/fixtures/*.txt",
		"testdata/fixtures/test2.txt",
		"public/**/*.css",
		"*.rb",
	})

	assert.Equal(t, []Root{
		{Dir: filepath.Join("testdata", "fixtures")},
		{Dir: "public", Recursive: true},
		{Dir: "."},
	}, roots)
}
