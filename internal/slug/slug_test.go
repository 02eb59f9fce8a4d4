package slug

import (
	"regexp"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"feature-auth", "feature-auth"},
		{"Feature Auth!!", "feature-auth"},
		{"Fix Bug #123", "fix-bug-123"},
		{"  --leading and trailing--  ", "leading-and-trailing"},
		{"a___b...c", "a-b-c"},
		{"UPPER", "upper"},
		{"feat/login", "feat-login"},
		{"café au lait", "caf-au-lait"},
		{"!!!", ""},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

var canonical = regexp.MustCompile(`^([a-z0-9]+(-[a-z0-9]+)*)?$`)

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"Feature Auth!!", "Fix Bug #123", "--x--", "a  b\tc\nd", "ÄÖÜ 42", "9000", "-", "x-y-z",
	}

	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize(Normalize(%q)) = %q, want %q", in, twice, once)
		}
		if !canonical.MatchString(once) {
			t.Errorf("Normalize(%q) = %q is not canonical", in, once)
		}
	}
}

func TestValid(t *testing.T) {
	if !Valid("fix-bug-123") {
		t.Error("Valid(fix-bug-123) = false")
	}
	for _, in := range []string{"", "Fix", "a--b", "-a", "a b"} {
		if Valid(in) {
			t.Errorf("Valid(%q) = true", in)
		}
	}
}
