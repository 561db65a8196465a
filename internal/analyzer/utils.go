package analyzer

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// DefaultEncodingHints are tried in order when a file is not valid UTF-8
var DefaultEncodingHints = []string{"utf-8", "euc-kr"}

// ReadFile reads a file as text. Valid UTF-8 is returned as is; otherwise
// the encodings named in hints ("euc-kr", "windows-1252", "shift_jis", ...)
// are tried in order and the first clean decoding wins.
func ReadFile(path string, hints []string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return BytesToString(raw, hints)
}

// BytesToString decodes data using the first encoding hint that yields
// valid UTF-8. Data that no hint can decode is returned as is with an error.
func BytesToString(data []byte, hints []string) (string, error) {
	data = trimBOM(data)
	if utf8.Valid(data) {
		return string(data), nil
	}

	if len(hints) == 0 {
		hints = DefaultEncodingHints
	}
	for _, name := range hints {
		enc, err := lookupEncoding(name)
		if err != nil || enc == nil {
			continue
		}
		decoded, _, err := transform.Bytes(enc.NewDecoder(), data)
		if err == nil && utf8.Valid(decoded) && !strings.ContainsRune(string(decoded), utf8.RuneError) {
			return string(decoded), nil
		}
	}
	return string(data), fmt.Errorf("encoding detection failed (tried %s)", strings.Join(hints, ", "))
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "utf-8", "utf8":
		// already ruled out by utf8.Valid
		return nil, nil
	case "ms949", "cp949":
		name = "euc-kr"
	}
	return htmlindex.Get(name)
}

func trimBOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return data[3:]
	}
	return data
}

// IsRouteFile reports whether path looks like a route definition file
func IsRouteFile(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml")
}
