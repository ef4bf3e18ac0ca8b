package harvest

import "testing"

func TestNormalizeDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2024/9/29(月) 16:35", "2024/09/29 16:35"},
		{"2024/09/29 16:35", "2024/09/29 16:35"},
		{"2024/1/2(火) 09:05", "2024/01/02 09:05"},
		{"  2025/12/1(水) 00:00  ", "2025/12/01 00:00"},
	}
	for _, tc := range cases {
		if got := NormalizeDate(tc.in); got != tc.want {
			t.Errorf("NormalizeDate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeDateUnparsable(t *testing.T) {
	// Unparsable strings pass through unchanged rather than raising.
	cases := []string{
		"somewhere last week",
		"2024-09-29T16:35:00Z",
		"",
	}
	for _, in := range cases {
		if got := NormalizeDate(in); got != in {
			t.Errorf("NormalizeDate(%q) = %q, want passthrough", in, got)
		}
	}
}
