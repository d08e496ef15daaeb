package errors

import (
	"strings"
	"testing"
)

func TestValidatePrompt(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty", "", false},
		{"simple", "a smiling astronaut", false},
		{"multiline", "a cat\nwith a hat", false},
		{"tab", "a cat\twith a hat", false},

		{"too long", strings.Repeat("a", 1001), true},
		{"null byte", "cat\x00", true},
		{"control char", "cat\x07", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePrompt(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePrompt(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPrompt) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidPrompt)
			}
		})
	}
}

func TestValidateCategory(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty", "", false},
		{"simple", "People", false},
		{"with space", "Cool Things", false},

		{"blank", "   ", true},
		{"slash", "Avatars/People", true},
		{"too long", strings.Repeat("x", 65), true},
		{"control", "Peo\x01ple", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCategory(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCategory(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateStyleKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "5b7d1dc59fc08920e75e163ac9cd6954bb21cdf6", false},

		{"empty", "", true},
		{"short", "5b7d1dc5", true},
		{"uppercase", "5B7D1DC59FC08920E75E163AC9CD6954BB21CDF6", true},
		{"non hex", "zb7d1dc59fc08920e75e163ac9cd6954bb21cdf6", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStyleKey(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStyleKey(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateCount(t *testing.T) {
	for _, n := range []int{1, 5, 120} {
		if err := ValidateCount(n); err != nil {
			t.Errorf("ValidateCount(%d) = %v", n, err)
		}
	}
	for _, n := range []int{0, -1} {
		if err := ValidateCount(n); err == nil {
			t.Errorf("ValidateCount(%d) should fail", n)
		}
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://api.openai.com/v1/images/generations", false},
		{"http", "http://127.0.0.1:8080", false},

		{"empty", "", true},
		{"ftp", "ftp://example.com", true},
		{"file", "file:///etc/passwd", true},
		{"no scheme", "example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
