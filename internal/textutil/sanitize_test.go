package textutil

import "testing"

func TestSanitizeFileName(t *testing.T) {
	cases := map[string]string{
		"  logo.svg ":   "logo.svg",
		"a/b:c*d":       "a-b-c-d",
		`what?"<now>"|`: "whatnow",
		"":              "",
		"plain-name_01": "plain-name_01",
	}
	for in, want := range cases {
		if got := SanitizeFileName(in); got != want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestOptimizedName(t *testing.T) {
	cases := []struct {
		path string
		ext  string
		want string
	}{
		{"/tmp/art/logo.svg", "gif", "logo_optimized.gif"},
		{"spinner.anim.svg", ".png", "spinner.anim_optimized.png"},
		{"noext", "jpg", "noext_optimized.jpg"},
		{".hidden", "svg", ".hidden_optimized.svg"},
		{"", "gif", "image_optimized.gif"},
		{"what?.svg", "gif", "what_optimized.gif"},
	}
	for _, tc := range cases {
		if got := OptimizedName(tc.path, tc.ext); got != tc.want {
			t.Errorf("OptimizedName(%q, %q) = %q, want %q", tc.path, tc.ext, got, tc.want)
		}
	}
}
