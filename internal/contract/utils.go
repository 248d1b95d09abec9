package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mitchellh/go-homedir"
)

// Series visibility labels.
const (
	EnabledValue  = "Shown"
	DisabledValue = "Hidden"
)

// Color variables for console output.
var (
	EnabledColor  = color.New(color.FgGreen, color.Bold)
	DisabledColor = color.New(color.FgHiBlack)
)

// GetPlainLabel returns the visibility label used for CSV, JSON and plain tables.
func GetPlainLabel(enabled bool) string {
	if enabled {
		return EnabledValue
	}
	return DisabledValue
}

// GetColorLabel returns a colored visibility label for console output (table).
func GetColorLabel(enabled bool) string {
	if enabled {
		return EnabledColor.Sprint(EnabledValue)
	}
	return DisabledColor.Sprint(DisabledValue)
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It returns os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// GetStateDBFilePath returns the path to the SQLite DB file for view state storage.
func GetStateDBFilePath() string {
	homeDir, err := homedir.Dir()
	if err != nil {
		return ".chartscope_state.db"
	}
	return filepath.Join(homeDir, ".chartscope_state.db")
}

// GetSnapshotDBFilePath returns the path to the SQLite DB file for snapshot storage.
func GetSnapshotDBFilePath() string {
	homeDir, err := homedir.Dir()
	if err != nil {
		return ".chartscope_snapshots.db"
	}
	return filepath.Join(homeDir, ".chartscope_snapshots.db")
}

// TruncateName truncates a name to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there's room for the "..." and at least one character.
func TruncateName(name string, maxWidth int) string {
	runes := []rune(name)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return name
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// ExpandPath resolves a leading "~" to the home directory.
func ExpandPath(path string) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("failed to expand %q: %w", path, err)
	}
	return expanded, nil
}
