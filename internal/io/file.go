package ioutils

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// maxFileNameRunes bounds sanitized names so "<name>.mp3" stays well under
// common file system limits.
const maxFileNameRunes = 200

var invalidChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

// SanitizeFileName removes or replaces characters that are invalid in file names.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars 0x00-0x1f) → underscore
//   - Leading and trailing dots and spaces → removed
//   - Result truncated to 200 characters
//
// The result must stay stable across releases: it decides which files count
// as already downloaded.
//
// Example:
//
//	SanitizeFileName("AC/DC - Thunderstruck") // Returns "AC_DC - Thunderstruck"
//	SanitizeFileName(" .hidden. ")            // Returns "hidden"
func SanitizeFileName(name string) string {
	name = invalidChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, ". ")

	if r := []rune(name); len(r) > maxFileNameRunes {
		name = string(r[:maxFileNameRunes])
	}

	return name
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}

// FileReady reports whether path is a non-empty regular file and returns
// its size. Zero-length leftovers of interrupted writes do not count.
func FileReady(path string) (int64, bool) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() || info.Size() == 0 {
		return 0, false
	}
	return info.Size(), true
}

// WriteLines writes one entry per line, creating parent directories as needed.
func WriteLines(path string, lines []string) error {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}

	content := strings.Join(lines, "\n")
	if len(lines) > 0 {
		content += "\n"
	}

	return os.WriteFile(path, []byte(content), 0o644)
}
