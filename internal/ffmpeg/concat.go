package ffmpeg

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"splice/internal/xerrors"
)

// WriteConcatList writes a concat-demuxer list file into dir and returns its
// path. One line per input, `file '<absolute forward-slash path>'`, single
// quotes escaped for the demuxer. The filename embeds a fresh UUID so
// concurrent jobs sharing a working directory never collide.
func WriteConcatList(dir string, inputs []string) (string, error) {
	if len(inputs) == 0 {
		return "", xerrors.Wrap(xerrors.ErrBuild, "build", "concat list", "no inputs", nil)
	}
	if strings.TrimSpace(dir) == "" {
		return "", xerrors.Wrap(xerrors.ErrBuild, "build", "concat list", "working directory required", nil)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", xerrors.Wrap(xerrors.ErrBuild, "build", "concat list", "create working directory", err)
	}

	var builder strings.Builder
	for _, input := range inputs {
		abs, err := filepath.Abs(input)
		if err != nil {
			return "", xerrors.Wrap(xerrors.ErrBuild, "build", "concat list", input, err)
		}
		builder.WriteString("file '")
		builder.WriteString(escapeConcatPath(filepath.ToSlash(abs)))
		builder.WriteString("'\n")
	}

	path := filepath.Join(dir, fmt.Sprintf("concat-%s.txt", uuid.NewString()))
	if err := os.WriteFile(path, []byte(builder.String()), 0o644); err != nil {
		return "", xerrors.Wrap(xerrors.ErrBuild, "build", "concat list", "write list file", err)
	}
	return path, nil
}

// escapeConcatPath escapes single quotes for the concat demuxer's quoted
// file directive: the quote closes, an escaped quote follows, and the quote
// reopens.
func escapeConcatPath(path string) string {
	return strings.ReplaceAll(path, "'", `'\''`)
}

// RemoveConcatList deletes a concat list file, tolerating a missing file.
// Cleanup is best-effort on every terminal path, so callers log the returned
// error instead of failing the merge over it.
func RemoveConcatList(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
