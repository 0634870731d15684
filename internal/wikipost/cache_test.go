package wikipost

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestCache_PutThenGet(t *testing.T) {
	c := NewCache(t.TempDir(), DefaultRetention)
	c.now = fixedClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	require.NoError(t, c.Put("wiki", []byte("<html>hello</html>")))

	data, ok, err := c.Get("wiki")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "<html>hello</html>", string(data))
}

func TestCache_FileNameEmbedsExpiry(t *testing.T) {
	dir := t.TempDir()
	c := NewCache(dir, DefaultRetention)
	c.now = fixedClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	require.NoError(t, c.Put("wiki", []byte("x")))

	_, err := os.Stat(filepath.Join(dir, "wiki-2026-03-08.html"))
	assert.NoError(t, err)
}

func TestCache_ExpiredFileDeleted(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, "wiki-2026-02-20.html")
	require.NoError(t, os.WriteFile(stale, []byte("stale"), 0o644))

	c := NewCache(dir, DefaultRetention)
	c.now = fixedClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	_, ok, err := c.Get("wiki")
	require.NoError(t, err)
	assert.False(t, ok)

	_, statErr := os.Stat(stale)
	assert.True(t, os.IsNotExist(statErr), "expired file removed")
}

func TestCache_ExpiryDateIsInclusive(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wiki-2026-03-01.html"), []byte("today"), 0o644))

	c := NewCache(dir, DefaultRetention)
	c.now = fixedClock(time.Date(2026, 3, 1, 23, 0, 0, 0, time.UTC))

	data, ok, err := c.Get("wiki")
	require.NoError(t, err)
	require.True(t, ok, "a file expiring today is still valid")
	assert.Equal(t, "today", string(data))
}

func TestCache_IgnoresOtherPrefixes(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other-2099-01-01.html"), []byte("x"), 0o644))

	c := NewCache(dir, DefaultRetention)

	_, ok, err := c.Get("wiki")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_MissingDirIsMiss(t *testing.T) {
	c := NewCache(filepath.Join(t.TempDir(), "nope"), DefaultRetention)

	_, ok, err := c.Get("wiki")
	require.NoError(t, err)
	assert.False(t, ok)
}
