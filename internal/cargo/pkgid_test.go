package cargo

import "testing"

func TestParseVersion(t *testing.T) {
	cases := []struct {
		name  string
		pkgid string
		want  string
	}{
		{"path form", "path/to/crate#1.2.3", "1.2.3"},
		{"registry form with crate name", "registry+https://github.com/rust-lang/crates.io-index#crate:1.2.3", "1.2.3"},
		{"file url form", "path+file:///home/user/ndarray#0.15.6", "0.15.6"},
		{"trailing newline", "path/to/crate#1.2.3\n", "1.2.3"},
		{"pre-release suffix", "path/to/crate#1.0.0-alpha.1", "1.0.0-alpha.1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseVersion(tc.pkgid)
			if err != nil {
				t.Fatalf("ParseVersion(%q) failed: %v", tc.pkgid, err)
			}
			if got != tc.want {
				t.Fatalf("ParseVersion(%q) = %q, want %q", tc.pkgid, got, tc.want)
			}
		})
	}
}

func TestParseVersionRejectsMalformedOutput(t *testing.T) {
	cases := []struct {
		name  string
		pkgid string
	}{
		{"empty", ""},
		{"whitespace only", "  \n"},
		{"no version suffix", "registry+https://example.com/index#crate"},
		{"garbage suffix", "path/to/crate#not-a-version"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseVersion(tc.pkgid); err == nil {
				t.Fatalf("ParseVersion(%q) expected error, got none", tc.pkgid)
			}
		})
	}
}
