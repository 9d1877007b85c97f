package validation

import "testing"

func TestValidateGroupSlug(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		slug string
		ok   bool
	}{
		{name: "valid with number", slug: "cats-2", ok: true},
		{name: "valid plain", slug: "travel", ok: true},
		{name: "minimum length", slug: "go", ok: true},
		{name: "too short", slug: "g", ok: false},
		{name: "uppercase", slug: "Travel", ok: false},
		{name: "underscore", slug: "pc_gaming", ok: false},
		{name: "space", slug: "pc gaming", ok: false},
		{name: "leading hyphen", slug: "-cats", ok: false},
		{name: "trailing hyphen", slug: "cats-", ok: false},
		{name: "reserved admin", slug: "admin", ok: false},
		{name: "reserved posts", slug: "posts", ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateGroupSlug(tc.slug)
			if tc.ok && err != nil {
				t.Fatalf("expected valid slug, got error: %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatalf("expected invalid slug, got nil error")
			}
		})
	}
}
