package mpbody

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"crlf kept", "a\r\nb", "a\r\nb"},
		{"lfcr collapsed", "a\n\rb", "a\r\nb"},
		{"bare cr", "a\rb", "a\r\nb"},
		{"bare lf", "a\nb", "a\r\nb"},
		{"repeated cr", "a\r\r b", "a\r\n\r\n b"},
		{"repeated lf", "a\n\nb", "a\r\n\r\nb"},
		{"blank line", "a\r\n\r\nb", "a\r\n\r\nb"},
		{"trailing break", "a\n", "a\r\n"},
		{"no breaks", "plain", "plain"},
		{"empty", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.input, ""); got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"a\r\nb\r\n\r\nc",
		"x\ny\rz\n\r",
		"\r\r\r\n\n\n",
		"héllo\nwörld",
	}
	for _, in := range inputs {
		once := Normalize(in, CRLF)
		if twice := Normalize(once, CRLF); twice != once {
			t.Fatalf("not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestNormalizeCustomMarker(t *testing.T) {
	if got := Normalize("a\r\nb\rc", "\n"); got != "a\nb\nc" {
		t.Fatalf("unexpected output %q", got)
	}
}
