package slug

import "testing"

// TestMake tests slug normalization of raw tag text.
func TestMake(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "simple word", raw: "music", want: "music"},
		{name: "uppercase folds", raw: "Music", want: "music"},
		{name: "spaces become dashes", raw: "home made", want: "home-made"},
		{name: "surrounding whitespace dropped", raw: "  home made  ", want: "home-made"},
		{name: "punctuation collapses", raw: "rock & roll!!", want: "rock-roll"},
		{name: "underscores become dashes", raw: "lo_fi", want: "lo-fi"},
		{name: "repeated separators collapse", raw: "a --- b", want: "a-b"},
		{name: "digits survive", raw: "Top 10", want: "top-10"},
		{name: "accents fold to ascii", raw: "Café Olé", want: "cafe-ole"},
		{name: "empty input", raw: "", want: ""},
		{name: "whitespace only", raw: "   ", want: ""},
		{name: "symbols only", raw: "★★★", want: ""},
		{name: "leading and trailing punctuation trimmed", raw: "#trending#", want: "trending"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Make(tt.raw); got != tt.want {
				t.Errorf("Make(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

// TestMakeCanonicalizes verifies that differently written tags collapse
// to one slug.
func TestMakeCanonicalizes(t *testing.T) {
	t.Parallel()

	variants := []string{"Home Made", "home made", "  HOME MADE ", "home-made", "home_made"}
	want := "home-made"
	for _, v := range variants {
		if got := Make(v); got != want {
			t.Errorf("Make(%q) = %q, want %q", v, got, want)
		}
	}
}

// TestHumanize tests display-form derivation from slugs.
func TestHumanize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		slug string
		want string
	}{
		{name: "single word", slug: "music", want: "Music"},
		{name: "dashes become spaces", slug: "home-made", want: "Home made"},
		{name: "underscores become spaces", slug: "lo_fi", want: "Lo fi"},
		{name: "digits keep their place", slug: "top-10", want: "Top 10"},
		{name: "empty slug", slug: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Humanize(tt.slug); got != tt.want {
				t.Errorf("Humanize(%q) = %q, want %q", tt.slug, got, tt.want)
			}
		})
	}
}
