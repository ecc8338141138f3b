package infrastructure

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShellEscape(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain", input: "/usr/bin/yt-dlp", expected: "/usr/bin/yt-dlp"},
		{name: "empty", input: "", expected: "''"},
		{name: "spaces", input: "My Video.mp4", expected: "'My Video.mp4'"},
		{name: "dollar", input: "a$b", expected: "'a$b'"},
		{name: "glob", input: "*.mp4", expected: "'*.mp4'"},
		{name: "single quote", input: "it's", expected: `'it'"'"'s'`},
		{name: "template", input: "%(title).70s.%(ext)s", expected: "'%(title).70s.%(ext)s'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ShellEscape(tt.input))
		})
	}
}

func TestShellEscapeCommand(t *testing.T) {
	got := ShellEscapeCommand("yt-dlp", "-o", "%(title)s.%(ext)s", "https://example.com/v?id=1&x=2")
	assert.Equal(t, `yt-dlp -o '%(title)s.%(ext)s' 'https://example.com/v?id=1&x=2'`, got)
}
