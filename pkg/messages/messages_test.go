package messages

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWatchingWithPaths(t *testing.T) {
	got := Default.Watching("test/fixtures/test.txt", "test/fixtures/test2.txt")
	assert.Equal(t, "Watching files...\n  test/fixtures/test.txt\n  test/fixtures/test2.txt", got)
}

func TestWatchingWithoutPaths(t *testing.T) {
	none := Default.Watching()
	assert.Equal(t, watchingNone, none)
	assert.NotContains(t, none, watchingHeader)
}
