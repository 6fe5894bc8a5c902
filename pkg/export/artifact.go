// Package export writes the per-commit artifacts and summary of a tracked
// file's history.
package export

import (
	"fmt"
	"path"
	"time"

	"github.com/Sumatoshi-tech/filetrail/pkg/gitlib"
)

// dirPrefix starts every derived output directory name.
const dirPrefix = "history_"

// Sanitize replaces every byte outside [A-Za-z0-9._-] with an underscore, so
// the result is safe as a filename on common filesystems.
func Sanitize(name string) string {
	out := []byte(name)

	for i, b := range out {
		switch {
		case b >= 'a' && b <= 'z':
		case b >= 'A' && b <= 'Z':
		case b >= '0' && b <= '9':
		case b == '.' || b == '_' || b == '-':
		default:
			out[i] = '_'
		}
	}

	return string(out)
}

// ArtifactBase builds the shared stem of a revision's artifact filenames:
// the author timestamp, the full commit hash and the sanitized basename of
// the resolved path. The stem is deterministic across runs.
func ArtifactBase(when time.Time, hash gitlib.Hash, filePath string) string {
	return fmt.Sprintf("%d_%s_%s", when.Unix(), hash, Sanitize(path.Base(filePath)))
}

// DirFor derives the default output directory name from the tracked path.
func DirFor(tracked string) string {
	return dirPrefix + Sanitize(tracked)
}
