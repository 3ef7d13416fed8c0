// Package loader reads exam text files on behalf of the analysis pipeline.
// It is a collaborator, not part of the core: it enforces that every path
// lies under a caller-approved directory set, rejects traversal attempts
// before the core is ever invoked, and keeps an in-process read-through
// cache keyed by path and content hash.
package loader

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"kokugo/internal/logger"
)

// Loaded is one successfully read input text.
type Loaded struct {
	// Text is the file content, guaranteed valid UTF-8.
	Text string

	// Path is the cleaned absolute path the text came from.
	Path string

	// ContentHash is the hex SHA-256 of the raw bytes, usable as a cache and
	// store key.
	ContentHash string
}

// Loader reads text files under an approved directory set.
type Loader struct {
	roots []string
	log   zerolog.Logger

	mu    sync.Mutex
	cache map[string]*Loaded // keyed by absolute path
}

// New creates a loader approving the given root directories. With no roots,
// every path is refused; callers must opt directories in explicitly.
func New(roots []string) *Loader {
	cleaned := make([]string, 0, len(roots))
	for _, r := range roots {
		abs, err := filepath.Abs(r)
		if err != nil {
			continue
		}
		if resolved, err := filepath.EvalSymlinks(abs); err == nil {
			abs = resolved
		}
		cleaned = append(cleaned, filepath.Clean(abs))
	}
	return &Loader{
		roots: cleaned,
		log:   logger.WithComponent("loader"),
		cache: make(map[string]*Loaded),
	}
}

// Load reads the file at path, enforcing the directory policy first. Repeat
// loads of an unchanged file are served from the cache.
func (l *Loader) Load(path string) (*Loaded, error) {
	const op = "Load"

	abs, err := l.approve(path)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(abs)
	if err != nil {
		return nil, &LoadError{Op: op, Err: err}
	}
	if len(raw) == 0 {
		return nil, &LoadError{Op: op, Err: ErrEmptyFile}
	}
	if !utf8.Valid(raw) {
		return nil, &LoadError{Op: op, Err: ErrNotText}
	}

	sum := sha256.Sum256(raw)
	hash := hex.EncodeToString(sum[:])

	l.mu.Lock()
	defer l.mu.Unlock()
	if hit, ok := l.cache[abs]; ok && hit.ContentHash == hash {
		l.log.Debug().Str("path", abs).Msg("Cache hit")
		return hit, nil
	}

	loaded := &Loaded{Text: string(raw), Path: abs, ContentHash: hash}
	l.cache[abs] = loaded
	l.log.Debug().
		Str("path", abs).
		Int("bytes", len(raw)).
		Msg("File loaded")
	return loaded, nil
}

// approve resolves path and checks it against the approved roots. Traversal
// attempts (../ escapes, symlinks pointing outside the approved set) fail
// with ErrSecurity. The check runs on the symlink-resolved path, so a link
// placed inside a root cannot reach files outside it.
func (l *Loader) approve(path string) (string, error) {
	const op = "approve"

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", &LoadError{Op: op, Err: err}
	}
	abs = filepath.Clean(abs)
	// Nonexistent paths resolve lexically and fail at ReadFile instead.
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}

	for _, root := range l.roots {
		rel, err := filepath.Rel(root, abs)
		if err != nil {
			continue
		}
		if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		return abs, nil
	}

	l.log.Warn().Str("path", path).Msg("Path refused by directory policy")
	return "", &LoadError{Op: op, Err: ErrSecurity}
}
