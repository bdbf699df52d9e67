package server

import "testing"

func TestStripHTML(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain", "hello world", "hello world"},
		{"tags", "<p>Hello <strong>world</strong></p>", "Hello world"},
		{"entities", "<p>Bulls &amp; bears</p>", "Bulls & bears"},
		{"script dropped", "<p>Visible</p><script>var x = 1;</script>", "Visible"},
		{"style dropped", "<style>p{color:red}</style><p>Text</p>", "Text"},
		{"whitespace collapsed", "<p>a</p>\n\n  <p>b</p>", "a b"},
		{"unclosed tag", "<p>Partial <em>text", "Partial text"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := stripHTML(tc.input); got != tc.want {
				t.Errorf("stripHTML(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestTruncateText(t *testing.T) {
	cases := []struct {
		name      string
		input     string
		maxLength int
		want      string
	}{
		{"short enough", "hello", 10, "hello"},
		{"zero max", "hello", 0, ""},
		{"word boundary", "the quick brown fox jumps", 18, "the quick..."},
		{"tiny max", "abcdef", 3, "..."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := truncateText(tc.input, tc.maxLength); got != tc.want {
				t.Errorf("truncateText(%q, %d) = %q, want %q", tc.input, tc.maxLength, got, tc.want)
			}
		})
	}
}

func TestExcerptText(t *testing.T) {
	got := excerptText("<p>The <em>quick</em> brown fox jumps over the lazy dog</p>", 25)
	want := "The quick brown fox..."
	if got != want {
		t.Errorf("excerptText = %q, want %q", got, want)
	}
}
