package errors

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	maxPromptLength   = 1000
	maxCategoryLength = 64
)

// ValidatePrompt validates a custom avatar prompt.
// An empty prompt is valid: it means no custom prompt was requested.
//
// Rules:
//   - Maximum length of 1000 characters
//   - No control characters other than newline and tab
func ValidatePrompt(prompt string) error {
	if prompt == "" {
		return nil
	}
	if len(prompt) > maxPromptLength {
		return New(ErrCodeInvalidPrompt, "prompt too long (max %d characters)", maxPromptLength)
	}
	for _, r := range prompt {
		if r == '\n' || r == '\t' {
			continue
		}
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPrompt, "prompt contains invalid control characters")
		}
	}
	return nil
}

// ValidateCategory validates a category filter. Categories are matched as
// substrings of slash-delimited style names, so they must not contain a slash.
// An empty category is valid and disables filtering.
func ValidateCategory(category string) error {
	if category == "" {
		return nil
	}
	if len(category) > maxCategoryLength {
		return New(ErrCodeInvalidCategory, "category too long (max %d characters)", maxCategoryLength)
	}
	if strings.TrimSpace(category) == "" {
		return New(ErrCodeInvalidCategory, "category cannot be blank")
	}
	if strings.Contains(category, "/") {
		return New(ErrCodeInvalidCategory, "category cannot contain '/'")
	}
	for _, r := range category {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidCategory, "category contains invalid control characters")
		}
	}
	return nil
}

// styleKeyRegex matches library style keys (40 lowercase hex characters).
var styleKeyRegex = regexp.MustCompile(`^[0-9a-f]{40}$`)

// ValidateStyleKey validates a remote style key.
func ValidateStyleKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidInput, "style key cannot be empty")
	}
	if !styleKeyRegex.MatchString(key) {
		return New(ErrCodeInvalidInput, "invalid style key: %q", key)
	}
	return nil
}

// ValidateCount validates a requested avatar count.
func ValidateCount(n int) error {
	if n < 1 {
		return New(ErrCodeInvalidInput, "count must be at least 1, got %d", n)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}
	return nil
}
