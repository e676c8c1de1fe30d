// Package history appends executed commands to a plain-text log file so
// a finished engagement can be replayed or written up from the log.
// History is strictly best-effort: a full disk or read-only home
// directory must never break the CLI itself.
package history

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Path returns the history file location,
// <user config dir>/nihil/history.log.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine user config directory: %w", err)
	}
	return filepath.Join(dir, "nihil", "history.log"), nil
}

// Append records one invocation as a single "nihil <args>" line, ready
// to copy back into a terminal. The file and its directory are created
// on first use.
func Append(argv []string) error {
	path, err := Path()
	if err != nil {
		return err
	}
	return AppendTo(path, argv)
}

// AppendTo appends the invocation line to the given file.
func AppendTo(path string, argv []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	line := "nihil " + strings.Join(argv, " ") + "\n"
	_, err = f.WriteString(line)
	return err
}
