// Package encoding provides text decoding for scenery and aircraft object files.
package encoding

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Default is the charset used when none is configured.
const Default = "utf-8"

// ErrUnsupportedEncoding is returned for a charset name Lookup does not know.
var ErrUnsupportedEncoding = errors.New("unsupported encoding")

// Lookup returns the decoder family for a charset name.
// Invalid UTF-8 input is replaced rather than rejected, so legacy files
// with stray bytes in comments still parse.
func Lookup(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return unicode.UTF8, nil
	case "latin1", "latin-1", "iso-8859-1":
		return charmap.ISO8859_1, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, name)
	}
}

// NewReader wraps r so that it yields UTF-8 text decoded from the named charset.
func NewReader(r io.Reader, name string) (io.Reader, error) {
	enc, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}
