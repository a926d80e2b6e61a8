package docpipe

import "testing"

func TestTextFromContent(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "show text",
			content: "BT\n/F1 12 Tf\n(Hello) Tj\nET",
			want:    "Hello",
		},
		{
			name:    "positioning separates runs",
			content: "(Hello) Tj\n10 0 Td\n(World) Tj",
			want:    "Hello World",
		},
		{
			name:    "TJ array concatenates",
			content: "[(He) -250 (llo)] TJ",
			want:    "Hello",
		},
		{
			name:    "next-line show starts a new line",
			content: "(first) Tj\n(second) '",
			want:    "first second",
		},
		{
			name:    "T* starts a new line",
			content: "(a) Tj\nT*\n(b) Tj",
			want:    "a b",
		},
		{
			name:    "octal escapes",
			content: `(\101\102\103) Tj`,
			want:    "ABC",
		},
		{
			name:    "non-text operators ignored",
			content: "q\n1 0 0 1 0 0 cm\n0.5 g\n(kept) Tj\nQ",
			want:    "kept",
		},
		{
			name:    "empty stream",
			content: "",
			want:    "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := textFromContent([]byte(tc.content)); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDecodeLiteral(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{`plain`, "plain"},
		{`line\nbreak`, "line\nbreak"},
		{`tab\there`, "tab\there"},
		{`back\\slash`, `back\slash`},
		{`\101\102`, "AB"},
		{`\12`, "\n"},          // short octal
		{`\0601`, "01"},        // three digits max, then literal
		{`\q`, "q"},            // unknown escape drops the backslash
		{`trailing\`, `trailing\`},
	}

	for _, tc := range cases {
		if got := decodeLiteral([]byte(tc.raw)); got != tc.want {
			t.Errorf("decodeLiteral(%q): got %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestNormalizeText(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  hello   world \n", "hello world"},
		{"a\t\t\nb", "a b"},
		{"", ""},
		{"   ", ""},
		{"a\x01\x02b", "ab"}, // control bytes from bad font decoding
	}

	for _, tc := range cases {
		if got := normalizeText(tc.in); got != tc.want {
			t.Errorf("normalizeText(%q): got %q, want %q", tc.in, got, tc.want)
		}
	}
}
