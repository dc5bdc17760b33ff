package sheets

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/agentstation/gradesync/internal/matcher"
	"github.com/agentstation/gradesync/pkg/errors"
)

// Discover returns the most recently modified file under dir matching the
// doublestar pattern (for example "*_Grades-*.csv" or "**/*.xlsx"). Ties on
// modification time go to the lexically greater path, which for dated export
// names is the later export.
func Discover(dir, pattern string) (string, error) {
	if _, err := matcher.Compile(matcher.Glob, pattern, matcher.Options{}); err != nil {
		return "", errors.NewValidationError("pattern", pattern, err.Error())
	}

	fsys := os.DirFS(dir)
	matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
	if err != nil {
		return "", errors.WrapIO("glob", dir, err)
	}

	var (
		best    string
		bestMod int64
	)
	for _, m := range matches {
		info, err := fs.Stat(fsys, m)
		if err != nil {
			continue
		}
		if _, err := FormatFromPath(m); err != nil {
			continue
		}
		mod := info.ModTime().UnixNano()
		if best == "" || mod > bestMod || (mod == bestMod && m > best) {
			best, bestMod = m, mod
		}
	}

	if best == "" {
		return "", errors.NewNotFoundError("gradebook matching "+pattern+" in", dir)
	}
	return filepath.Join(dir, filepath.FromSlash(best)), nil
}
