package loader

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"kokugo/pkg/models"
)

// hintsFileName is looked for next to each input file. School-specific
// knowledge enters through this metadata bag, never through forked control
// flow in the pipeline.
const hintsFileName = "kokugo.yaml"

// Hints is the optional per-directory metadata file. All fields override
// detection.
type Hints struct {
	School string `yaml:"school"`
	Year   int    `yaml:"year"`
}

// LoadHints reads the hints file from the directory containing path, if one
// exists, and returns the metadata bag for the input. A missing hints file
// is not an error; a malformed one is.
func (l *Loader) LoadHints(path string) (models.Metadata, error) {
	const op = "LoadHints"
	meta := models.Metadata{SourcePath: path}

	dir := filepath.Dir(path)
	if _, err := l.approve(dir); err != nil {
		return meta, err
	}

	raw, err := os.ReadFile(filepath.Join(dir, hintsFileName))
	if errors.Is(err, fs.ErrNotExist) {
		return meta, nil
	}
	if err != nil {
		return meta, &LoadError{Op: op, Err: err}
	}

	var h Hints
	if err := yaml.Unmarshal(raw, &h); err != nil {
		return meta, &LoadError{Op: op, Err: err, Details: "malformed hints file"}
	}

	meta.School = h.School
	meta.Year = h.Year
	l.log.Debug().
		Str("dir", dir).
		Str("school", h.School).
		Int("year", h.Year).
		Msg("Hints loaded")
	return meta, nil
}
