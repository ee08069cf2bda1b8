package utils

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Red T-Shirt!", "red-t-shirt"},
		{"Summer Collection", "summer-collection"},
		{"  Spaced   Out  ", "spaced-out"},
		{"UPPER", "upper"},
		{"100% Cotton (Organic)", "100-cotton-organic"},
		{"---dashes---", "dashes"},
		{"", ""},
	}

	for _, c := range cases {
		if got := Slugify(c.in); got != c.want {
			t.Errorf("Slugify(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	inputs := []string{"Red T-Shirt!", "Summer Collection", "a b c", "already-a-slug"}

	for _, in := range inputs {
		once := Slugify(in)
		if twice := Slugify(once); twice != once {
			t.Errorf("Slugify not idempotent: Slugify(%q) = %q, Slugify(%q) = %q", in, once, once, twice)
		}
	}
}
