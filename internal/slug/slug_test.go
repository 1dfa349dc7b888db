package slug

import "testing"

// TestGenerate covers the kinds of business and category names the
// directory turns into URLs.
func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "simple business name", input: "Bayou City Electric", want: "bayou-city-electric"},
		{name: "ampersand", input: "Concrete & Masonry", want: "concrete-masonry"},
		{name: "apostrophe", input: "Joe's Plumbing", want: "joes-plumbing"},
		{name: "punctuation", input: "A/C Pros, LLC.", want: "ac-pros-llc"},
		{name: "digits kept", input: "24/7 Locksmith", want: "247-locksmith"},
		{name: "accents folded", input: "Peña Roofing", want: "pena-roofing"},
		{name: "accented capitals", input: "ÉLITE Remodeling", want: "elite-remodeling"},
		{name: "tabs and newlines", input: "Gulf\tCoast\nPools", want: "gulf-coast-pools"},
		{name: "surrounding spaces", input: "  Lone Star Roofing  ", want: "lone-star-roofing"},
		{name: "repeated spaces", input: "Gulf   Coast", want: "gulf-coast"},
		{name: "existing hyphens", input: "Pre-Owned -- Doors", want: "pre-owned-doors"},
		{name: "leading and trailing hyphens", input: "-Handyman-", want: "handyman"},
		{name: "only symbols", input: "!!!", want: ""},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Generate(tt.input); got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestGenerateIdempotent verifies that a slug passed back through Generate
// is unchanged.
func TestGenerateIdempotent(t *testing.T) {
	for _, s := range []string{"bayou-city-electric", "hvac", "real-estate-services", "a-1"} {
		if got := Generate(s); got != s {
			t.Errorf("Generate(%q) = %q, want unchanged", s, got)
		}
	}
}

func TestUnique(t *testing.T) {
	tests := []struct {
		name  string
		base  string
		taken []string
		want  string
	}{
		{name: "free", base: "acme", taken: nil, want: "acme"},
		{name: "unrelated taken", base: "acme", taken: []string{"acme-roofing"}, want: "acme"},
		{name: "base taken", base: "acme", taken: []string{"acme"}, want: "acme-2"},
		{name: "gap filled", base: "acme", taken: []string{"acme", "acme-3"}, want: "acme-2"},
		{name: "sequence", base: "acme", taken: []string{"acme", "acme-2", "acme-3"}, want: "acme-4"},
		{name: "empty base uses fallback", base: "", taken: nil, want: "contractor"},
		{name: "fallback taken", base: "", taken: []string{"contractor"}, want: "contractor-2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Unique(tt.base, "contractor", tt.taken); got != tt.want {
				t.Errorf("Unique(%q, %v) = %q, want %q", tt.base, tt.taken, got, tt.want)
			}
		})
	}
}
