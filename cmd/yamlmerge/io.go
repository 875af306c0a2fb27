package yamlmerge

import (
	"io"
	"os"
	"strings"

	"github.com/arthur-debert/yamlmerge/pkg/errors"
	"github.com/spf13/cobra"
)

// stdinPath names standard input on the command line.
const stdinPath = "-"

// readInput returns the content of path, or of standard input for "-".
// With allowMissing a file that does not exist reads as empty.
func readInput(cmd *cobra.Command, path string, allowMissing bool) (string, error) {
	if path == stdinPath {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrFileAccess, MsgErrReadInput, "standard input")
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if allowMissing {
				return "", nil
			}
			return "", errors.Wrapf(err, errors.ErrFileNotFound, MsgErrReadInput, path).
				WithDetail("path", path)
		}
		return "", errors.Wrapf(err, errors.ErrFileAccess, MsgErrReadInput, path).
			WithDetail("path", path)
	}
	return string(data), nil
}

// writeOutput replaces path with content, keeping the permissions of an
// existing file.
func writeOutput(path, content string) error {
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, MsgErrWriteOutput, path).
			WithDetail("path", path)
	}
	return nil
}

// withNewline gives non-empty text exactly the trailing newline merge
// results carry, so unchanged documents compare equal.
func withNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
