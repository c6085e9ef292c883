package util

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Visiting Takayama", "visiting-takayama"},
		{"Café   &  Crème", "cafe-creme"},
		{"君の名は", "jun-noming-ha"},
		{"--already-sluggy--", "already-sluggy"},
		{"", ""},
	}

	for _, tt := range tests {
		got := Slugify(tt.in)
		if tt.in == "君の名は" {
			// Romanization output depends on the unidecode table; only
			// require a non-empty valid slug for CJK input.
			if got == "" || !IsValidSlug(got) {
				t.Errorf("Slugify(%q) = %q, want non-empty valid slug", tt.in, got)
			}
			continue
		}
		if got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsValidSlug(t *testing.T) {
	valid := []string{"a", "abc-123", "takayama"}
	invalid := []string{"", "UPPER", "with space", "ünicode"}

	for _, s := range valid {
		if !IsValidSlug(s) {
			t.Errorf("IsValidSlug(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsValidSlug(s) {
			t.Errorf("IsValidSlug(%q) = true, want false", s)
		}
	}
}
