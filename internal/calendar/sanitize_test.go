package calendar

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeDescription(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   string
	}{
		{
			"plain text",
			"hello",
			"hello",
		},
		{
			"div unwrapped",
			"<div>hello</div>",
			"hello",
		},
		{
			"inline formatting kept",
			"<p>a <strong>b</strong> <em>c</em></p>",
			"<p>a<strong>b</strong><em>c</em></p>",
		},
		{
			"newlines stripped",
			"<p>line one\nline two</p>",
			"<p>line oneline two</p>",
		},
		{
			"whitespace-only elements dropped",
			"<p>  </p><p>kept</p>",
			"<p>kept</p>",
		},
		{
			"link keeps only href",
			`<a href="https://zoom.us/j/1" target="_blank" onclick="x()">join</a>`,
			`<a href="https://zoom.us/j/1">join</a>`,
		},
		{
			"script discarded with content",
			`<p>safe</p><script>alert("x")</script>`,
			"<p>safe</p>",
		},
		{
			"nested divs unwrapped",
			"<div><div><p>deep</p></div></div>",
			"<p>deep</p>",
		},
		{
			"text escaped",
			"<p>a &lt; b</p>",
			"<p>a &lt; b</p>",
		},
		{
			"empty input",
			"",
			"",
		},
		{
			"only whitespace",
			"  \n  ",
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, SanitizeDescription(tt.markup))
		})
	}
}
