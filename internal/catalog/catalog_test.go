package catalog

import (
	"strings"
	"testing"
)

func TestEmbeddedCatalog(t *testing.T) {
	if got := len(Categories()); got != 32 {
		t.Errorf("categories: got %d, want 32", got)
	}
	if got := len(Areas()); got != 20 {
		t.Errorf("areas: got %d, want 20", got)
	}
	if got := len(Styles()); got != 4 {
		t.Errorf("styles: got %d, want 4", got)
	}
	if got := len(HeroLayouts()); got != 3 {
		t.Errorf("hero layouts: got %d, want 3", got)
	}
	if got := len(Fonts()); got != 5 {
		t.Errorf("fonts: got %d, want 5", got)
	}
}

func TestTrade(t *testing.T) {
	tests := []struct {
		slug      string
		wantOK    bool
		primary   string
		secondary string
		accent    string
		name      string
	}{
		{"electrical", true, "#eab308", "#ca8a04", "#1e3a8a", "Electrician Pro"},
		{"general-contractors", true, "#1e40af", "#1e3a8a", "#3b82f6", "General Pro"},
		{"insurance-services", true, "#0f766e", "#115e59", "#5eead4", "Insurance Pro"},
		{"underwater-basket-weaving", false, "", "", "", ""},
		{"", false, "", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			got, ok := Trade(tt.slug)
			if ok != tt.wantOK {
				t.Fatalf("ok: got %v, want %v", ok, tt.wantOK)
			}
			if got.Primary != tt.primary || got.Secondary != tt.secondary || got.Accent != tt.accent {
				t.Errorf("colours: got (%s, %s, %s), want (%s, %s, %s)",
					got.Primary, got.Secondary, got.Accent, tt.primary, tt.secondary, tt.accent)
			}
			if got.Name != tt.name {
				t.Errorf("name: got %q, want %q", got.Name, tt.name)
			}
		})
	}
}

func TestCategoryBySlug(t *testing.T) {
	c, ok := CategoryBySlug("concrete-masonry")
	if !ok {
		t.Fatal("expected concrete-masonry to exist")
	}
	if c.Name != "Concrete & Masonry" {
		t.Errorf("name: got %q", c.Name)
	}
	if c.Icon != "Layers" {
		t.Errorf("icon: got %q", c.Icon)
	}

	if _, ok := CategoryBySlug("nope"); ok {
		t.Error("unknown slug should not be found")
	}
}

func TestIsArea(t *testing.T) {
	if !IsArea("Katy") {
		t.Error("Katy should be a known area")
	}
	if IsArea("katy") {
		t.Error("area match is case-sensitive")
	}
	if IsArea("Dallas") {
		t.Error("Dallas is not a Houston area")
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	cats := Categories()
	cats[0].Name = "mutated"
	if Categories()[0].Name == "mutated" {
		t.Error("Categories must not expose the shared slice")
	}

	areas := Areas()
	areas[0] = "mutated"
	if Areas()[0] == "mutated" {
		t.Error("Areas must not expose the shared slice")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name: "valid",
			doc: `
categories:
  - {name: Plumbing, slug: plumbing}
trades:
  plumbing: {primary: "#2563eb", secondary: "#1d4ed8", accent: "#60a5fa", name: Plumber Pro}
`,
		},
		{
			name: "missing trade",
			doc: `
categories:
  - {name: Plumbing, slug: plumbing}
`,
			wantErr: "no trade theme",
		},
		{
			name: "missing colour",
			doc: `
categories:
  - {name: Plumbing, slug: plumbing}
trades:
  plumbing: {primary: "#2563eb", secondary: "#1d4ed8"}
`,
			wantErr: "all three colours",
		},
		{
			name: "duplicate slug",
			doc: `
categories:
  - {name: Plumbing, slug: plumbing}
  - {name: Plumbers, slug: plumbing}
trades:
  plumbing: {primary: "#2563eb", secondary: "#1d4ed8", accent: "#60a5fa"}
`,
			wantErr: "duplicate slug",
		},
		{
			name:    "malformed yaml",
			doc:     "categories: [",
			wantErr: "decode catalog",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error: got %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}
