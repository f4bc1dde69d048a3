package project

import (
	"errors"
	"strings"
	"testing"

	"github.com/workdeck/workdeck/internal/workspace"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"My Project!!", "my-project"},
		{"hello", "hello"},
		{"Hello World", "hello-world"},
		{"  spaced   out  ", "spaced-out"},
		{`angle<brackets>and|pipes`, "anglebracketsandpipes"},
		{`slash/back\slash`, "slashbackslash"},
		{"under_score-kept", "under_score-kept"},
		{"MiXeD CaSe 123", "mixed-case-123"},
		{"trailing---hyphens---", "trailing-hyphens"},
		{"tabs\tand\nnewlines", "tabs-and-newlines"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := SanitizeName(tt.raw)
			if err != nil {
				t.Fatalf("SanitizeName(%q): %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("SanitizeName(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestSanitizeNameRejected(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"symbols only", "!!!???"},
		{"reserved con", "con"},
		{"reserved con uppercase", "CON"},
		{"reserved with punctuation", "C/O/N"},
		{"reserved nul", "nul"},
		{"reserved com port", "COM5"},
		{"reserved printer", "lpt9"},
		{"too long", strings.Repeat("a", MaxNameLength+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := SanitizeName(tt.raw); !errors.Is(err, workspace.ErrInvalidName) {
				t.Errorf("SanitizeName(%q) err = %v, want ErrInvalidName", tt.raw, err)
			}
		})
	}
}

func TestSanitizeNameLengthBoundary(t *testing.T) {
	exact := strings.Repeat("a", MaxNameLength)
	got, err := SanitizeName(exact)
	if err != nil {
		t.Fatalf("name at limit rejected: %v", err)
	}
	if got != exact {
		t.Errorf("got %q", got)
	}
}
