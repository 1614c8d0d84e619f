package sanitizer

import "testing"

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "trim spaces",
			input: "  Juan  ",
			want:  "Juan",
		},
		{
			name:  "multiple spaces between words",
			input: "Maria    Clara",
			want:  "Maria Clara",
		},
		{
			name:  "tabs and newlines",
			input: "Dela\t\nCruz",
			want:  "Dela Cruz",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   \t\n  ",
			want:  "",
		},
		{
			name:  "preserve accents and punctuation",
			input: " José O'Neil-Santos ",
			want:  "José O'Neil-Santos",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeName(tt.input); got != tt.want {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Traveller@Example.COM "); got != "traveller@example.com" {
		t.Errorf("NormalizeEmail() = %q", got)
	}
}

func TestNormalizeSearch(t *testing.T) {
	if got := NormalizeSearch("  Boracay   ISLAND "); got != "boracay island" {
		t.Errorf("NormalizeSearch() = %q", got)
	}
}

func TestLeadingInt(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"2", 2},
		{" 3 ", 3},
		{"2 adults", 2},
		{"12abc", 12},
		{"", 0},
		{"two", 0},
		{"abc12", 0},
		{"-1", -1},
		{"+4", 4},
		{"0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := LeadingInt(tt.input); got != tt.want {
				t.Errorf("LeadingInt(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}
