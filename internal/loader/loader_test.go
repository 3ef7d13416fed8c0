package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "exam.txt", "一、次の文章を読みなさい。")

	l := New([]string{dir})
	loaded, err := l.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "一、次の文章を読みなさい。", loaded.Text)
	// Path is symlink-resolved, which matters on platforms where TempDir
	// itself sits behind a link.
	resolved, err := filepath.EvalSymlinks(path)
	require.NoError(t, err)
	assert.Equal(t, resolved, loaded.Path)
	assert.Len(t, loaded.ContentHash, 64)
}

func TestLoadRefusesSymlinkEscape(t *testing.T) {
	approved := t.TempDir()
	elsewhere := t.TempDir()
	target := writeFile(t, elsewhere, "exam.txt", "text")
	link := filepath.Join(approved, "exam.txt")
	require.NoError(t, os.Symlink(target, link))

	l := New([]string{approved})
	_, err := l.Load(link)
	assert.ErrorIs(t, err, ErrSecurity)
}

func TestLoadRefusesOutsideRoots(t *testing.T) {
	approved := t.TempDir()
	elsewhere := t.TempDir()
	path := writeFile(t, elsewhere, "exam.txt", "text")

	l := New([]string{approved})
	_, err := l.Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSecurity)
	assert.NotContains(t, err.Error(), elsewhere, "error messages must not leak paths")
}

func TestLoadRefusesTraversal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "exam.txt", "text")

	l := New([]string{filepath.Join(dir, "sub")})
	_, err := l.Load(filepath.Join(dir, "sub", "..", "exam.txt"))
	assert.ErrorIs(t, err, ErrSecurity)
}

func TestLoadRefusesEverythingWithNoRoots(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "exam.txt", "text")

	l := New(nil)
	_, err := l.Load(path)
	assert.ErrorIs(t, err, ErrSecurity)
}

func TestLoadEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "empty.txt", "")

	l := New([]string{dir})
	_, err := l.Load(path)
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestLoadNonUTF8(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "binary.txt")
	require.NoError(t, os.WriteFile(path, []byte{0xff, 0xfe, 0x00, 0x41}, 0o644))

	l := New([]string{dir})
	_, err := l.Load(path)
	assert.ErrorIs(t, err, ErrNotText)
}

func TestLoadCachesUnchangedFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "exam.txt", "最初の内容です。")

	l := New([]string{dir})
	first, err := l.Load(path)
	require.NoError(t, err)
	again, err := l.Load(path)
	require.NoError(t, err)
	assert.Same(t, first, again)

	// A rewritten file must not be served from the cache.
	writeFile(t, dir, "exam.txt", "書き直した内容です。")
	changed, err := l.Load(path)
	require.NoError(t, err)
	assert.NotEqual(t, first.ContentHash, changed.ContentHash)
	assert.Equal(t, "書き直した内容です。", changed.Text)
}

func TestLoadHints(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "exam.txt", "text")
	writeFile(t, dir, "kokugo.yaml", "school: 開成中学校\nyear: 2024\n")

	l := New([]string{dir})
	meta, err := l.LoadHints(input)
	require.NoError(t, err)
	assert.Equal(t, "開成中学校", meta.School)
	assert.Equal(t, 2024, meta.Year)
	assert.Equal(t, input, meta.SourcePath)
}

func TestLoadHintsMissingFile(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "exam.txt", "text")

	l := New([]string{dir})
	meta, err := l.LoadHints(input)
	require.NoError(t, err)
	assert.Equal(t, "", meta.School)
	assert.Equal(t, 0, meta.Year)
	assert.Equal(t, input, meta.SourcePath)
}

func TestLoadHintsMalformed(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "exam.txt", "text")
	writeFile(t, dir, "kokugo.yaml", "school: [unclosed\n")

	l := New([]string{dir})
	_, err := l.LoadHints(input)
	require.Error(t, err)

	var lerr *LoadError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, "LoadHints", lerr.Op)
}
