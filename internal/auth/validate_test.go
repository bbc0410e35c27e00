package auth

import "testing"

func TestNormalizeSecret(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"sk-or-v1-abc", "sk-or-v1-abc"},
		{"  sk-or-v1-abc  ", "sk-or-v1-abc"},
		{"sk-or\x00-v1\x7f-abc\r\n", "sk-or-v1-abc"},
		{"\t\n", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeSecret(tt.in); got != tt.want {
			t.Errorf("NormalizeSecret(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidPin(t *testing.T) {
	tests := []struct {
		pin  string
		want bool
	}{
		{"1234", true},
		{"0000", true},
		{"123", false},
		{"12345", false},
		{"12a4", false},
		{"", false},
		{"١٢٣٤", false},
	}
	for _, tt := range tests {
		if got := ValidPin(tt.pin); got != tt.want {
			t.Errorf("ValidPin(%q) = %v, want %v", tt.pin, got, tt.want)
		}
	}
}

func TestDigitsOnly(t *testing.T) {
	if got := DigitsOnly("1a2 b3-4"); got != "1234" {
		t.Errorf("DigitsOnly = %q, want 1234", got)
	}
	if got := DigitsOnly("abc"); got != "" {
		t.Errorf("DigitsOnly = %q, want empty", got)
	}
}
