package store

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- ReadDocument / WriteDocument ---

func TestWriteAndReadDocumentWithFrontmatter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.md")

	doc := &Document{
		Frontmatter: map[string]any{
			"session": "review-1700000000000",
			"model":   "gpt-5-pro",
		},
		Body: "# Response\n\nLGTM\n",
	}

	require.NoError(t, WriteDocument(path, doc))

	got, err := ReadDocument(path)
	require.NoError(t, err)

	assert.Equal(t, "review-1700000000000", GetString(got.Frontmatter, "session"))
	assert.Equal(t, "gpt-5-pro", GetString(got.Frontmatter, "model"))
	assert.Contains(t, got.Body, "LGTM")
}

func TestReadDocumentPlainMarkdown(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prompt.md")
	require.NoError(t, os.WriteFile(path, []byte("Review this code.\n"), 0644))

	got, err := ReadDocument(path)
	require.NoError(t, err)

	assert.Empty(t, got.Frontmatter)
	assert.Equal(t, "Review this code.\n", got.Body)
}

func TestReadDocumentNonExistent(t *testing.T) {
	_, err := ReadDocument("/nonexistent/path/file.md")
	assert.Error(t, err)
}

// --- WriteFile / ReadText ---

func TestWriteFileCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a", "b", "c.txt")

	require.NoError(t, WriteFile(path, []byte("nested")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "nested", string(data))
}

func TestWriteFileReplacesAndLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "metadata.json")

	require.NoError(t, WriteFile(path, []byte(`{"status":"running"}`)))
	require.NoError(t, WriteFile(path, []byte(`{"status":"completed"}`)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"status":"completed"}`, string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "metadata.json", entries[0].Name())
}

func TestReadTextTrims(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "response_id.txt")
	require.NoError(t, os.WriteFile(path, []byte("  resp_123\n"), 0644))

	got, err := ReadText(path)
	require.NoError(t, err)
	assert.Equal(t, "resp_123", got)
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "exists.txt")
	require.NoError(t, os.WriteFile(path, []byte("hi"), 0644))

	assert.True(t, Exists(path))
	assert.False(t, Exists(filepath.Join(dir, "missing.txt")))
}

// --- WithLock ---

func TestWithLockConcurrentAccess(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "concurrent")

	var counter int64
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := WithLock(path, 10*time.Second, func() error {
				val := atomic.LoadInt64(&counter)
				time.Sleep(time.Millisecond)
				atomic.StoreInt64(&counter, val+1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}

	wg.Wait()
	assert.Equal(t, int64(10), atomic.LoadInt64(&counter))
}

func TestWithLockTimeout(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "timeouttest")

	locked := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = WithLock(path, 10*time.Second, func() error {
			close(locked)
			<-release
			return nil
		})
	}()

	<-locked

	err := WithLock(path, 200*time.Millisecond, func() error {
		t.Error("callback should not have been called")
		return nil
	})
	assert.Error(t, err)

	close(release)
	<-done
}

// --- Frontmatter helpers ---

func TestGetString(t *testing.T) {
	fm := map[string]any{"slug": "review", "count": 42}
	assert.Equal(t, "review", GetString(fm, "slug"))
	assert.Equal(t, "", GetString(fm, "missing"))
	assert.Equal(t, "", GetString(fm, "count"))
}

func TestGetStringSlice(t *testing.T) {
	fm := map[string]any{
		"files": []any{"a.go", 1, "b.go"},
		"one":   "c.go",
		"num":   3,
	}
	assert.Equal(t, []string{"a.go", "b.go"}, GetStringSlice(fm, "files"))
	assert.Equal(t, []string{"c.go"}, GetStringSlice(fm, "one"))
	assert.Nil(t, GetStringSlice(fm, "num"))
	assert.Nil(t, GetStringSlice(fm, "missing"))
}

func TestFormatTime(t *testing.T) {
	ts := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, "2025-06-15T10:30:00Z", FormatTime(ts))
}
