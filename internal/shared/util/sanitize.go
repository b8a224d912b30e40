package util

import (
	"errors"
	"path"
	"strings"
	"unicode"
)

// MaxFileNameLen bounds the sanitized name, extension included.
const MaxFileNameLen = 120

var ErrInvalidFileName = errors.New("invalid file name")

// SanitizeFileName flattens an uploaded file name into a single safe path
// segment. Separators and control characters become underscores; names
// containing ".." are rejected. Long names are cut, keeping the extension.
func SanitizeFileName(name string) (string, error) {
	s := strings.TrimSpace(name)
	if s == "" || strings.Contains(s, "..") {
		return "", ErrInvalidFileName
	}
	s = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || unicode.IsControl(r) {
			return '_'
		}
		return r
	}, s)
	if len(s) > MaxFileNameLen {
		ext := path.Ext(s)
		if len(ext) >= MaxFileNameLen {
			ext = ""
		}
		s = strings.ToValidUTF8(s[:MaxFileNameLen-len(ext)], "") + ext
	}
	return s, nil
}
