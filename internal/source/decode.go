package source

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadFile reads path and decodes it with Decode. Errors never contain the
// path: they end up in exported documents next to the unit's display name.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", withoutPath(err))
	}
	text, err := Decode(data)
	if err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	return text, nil
}

// withoutPath reduces a *fs.PathError to "op: cause".
func withoutPath(err error) error {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return fmt.Errorf("%s: %w", pe.Op, pe.Err)
	}
	return err
}

// Decode interprets data as UTF-8, falling back to ISO-8859-1 when it is
// not valid UTF-8. Data containing NUL bytes is rejected as binary.
func Decode(data []byte) (string, error) {
	if bytes.IndexByte(data, 0) >= 0 {
		return "", ErrBinary
	}
	if utf8.Valid(data) {
		return string(bytes.TrimPrefix(data, utf8BOM)), nil
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("latin-1 fallback: %w", err)
	}
	return string(out), nil
}
