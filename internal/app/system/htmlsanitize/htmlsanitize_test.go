package htmlsanitize_test

import (
	"testing"

	"github.com/dalemusser/studyvault/internal/app/system/htmlsanitize"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "Unit 1 Notes", "Unit 1 Notes"},
		{"ampersand", "DSA & Algorithms", "DSA & Algorithms"},
		{"script", "Notes<script>alert('x')</script>", "Notes"},
		{"tags", "<b>Bold</b> title", "Bold title"},
		{"whitespace", "  two   spaces \n newline ", "two spaces newline"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := htmlsanitize.PlainText(tt.in); got != tt.want {
				t.Errorf("PlainText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsPlainText(t *testing.T) {
	if !htmlsanitize.IsPlainText("") {
		t.Error("expected empty string to be plain text")
	}
	if !htmlsanitize.IsPlainText("Hello, World!") {
		t.Error("expected string without tags to be plain text")
	}
	if htmlsanitize.IsPlainText("<p>Hello</p>") {
		t.Error("expected string with tags to NOT be plain text")
	}
}
