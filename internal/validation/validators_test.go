package validation

import "testing"

func TestValidateIdeaType(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{"CustomCode", "Challenge", "Tournament"} {
		if err := ValidateIdeaType(valid); err != nil {
			t.Errorf("ValidateIdeaType(%q) = %v, want nil", valid, err)
		}
	}
	for _, invalid := range []string{"", "customcode", "challenge", "Mod", "Other"} {
		if err := ValidateIdeaType(invalid); err == nil {
			t.Errorf("ValidateIdeaType(%q) = nil, want error", invalid)
		}
	}
}

func TestValidateURL(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"http://example.com/run",
		"https://twitch.tv/videos/123456",
	} {
		if err := ValidateURL(valid); err != nil {
			t.Errorf("ValidateURL(%q) = %v, want nil", valid, err)
		}
	}
	for _, invalid := range []string{
		"",
		"not a url",
		"ftp://example.com/file",
		"javascript:alert(1)",
		"//missing-scheme.com",
	} {
		if err := ValidateURL(invalid); err == nil {
			t.Errorf("ValidateURL(%q) = nil, want error", invalid)
		}
	}
}

func TestSanitizeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"  hello  ", "hello"},
		{"line1\nline2", "line1\nline2"},
		{"tab\there", "tab\there"},
		{"null\x00byte", "nullbyte"},
		{"bell\x07char", "bellchar"},
	}
	for _, tt := range tests {
		if got := SanitizeText(tt.in); got != tt.want {
			t.Errorf("SanitizeText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
