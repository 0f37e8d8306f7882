package encoding

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"", false},
		{"UTF-8", false},
		{"latin1", false},
		{"iso-8859-1", false},
		{"windows-1252", false},
		{"ebcdic", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Lookup(tt.name)
			if (err != nil) != tt.wantErr {
				t.Errorf("Lookup(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrUnsupportedEncoding) {
				t.Errorf("Lookup(%q) error = %v, want ErrUnsupportedEncoding", tt.name, err)
			}
		})
	}
}

func TestNewReaderLatin1(t *testing.T) {
	// "# caf\xe9" in ISO-8859-1.
	r, err := NewReader(strings.NewReader("# caf\xe9\n"), "latin1")
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != "# café\n" {
		t.Errorf("got %q, want %q", got, "# café\n")
	}
}

func TestNewReaderReplacesInvalidUTF8(t *testing.T) {
	r, err := NewReader(strings.NewReader("VT 1\xff 2\n"), "utf-8")
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !strings.HasPrefix(string(got), "VT 1") || strings.Contains(string(got), "\xff") {
		t.Errorf("invalid byte not replaced: %q", got)
	}
}
