package middleware

import (
	"fmt"
	"strings"
)

// Input validation and sanitization utilities

// MaxImagePayloadBytes caps the accepted base64 payload (about 12MB decoded).
const MaxImagePayloadBytes = 16 * 1024 * 1024

// ValidateImagePayload checks an inbound image string before it reaches the
// pipeline. Decodability is not checked here: the preprocessor degrades to
// passthrough on undecodable input, so only size and gross shape are gated.
func ValidateImagePayload(image string) error {
	if strings.TrimSpace(image) == "" {
		return fmt.Errorf("image cannot be empty")
	}
	if len(image) > MaxImagePayloadBytes {
		return fmt.Errorf("image payload exceeds %d bytes", MaxImagePayloadBytes)
	}
	if strings.HasPrefix(image, "data:") && !strings.Contains(image, ";base64,") {
		return fmt.Errorf("data URL must carry a base64 payload")
	}
	return nil
}

// ValidateLabel bounds the free-text label attached to a timeline entry
func ValidateLabel(label string) error {
	if len(label) > 255 {
		return fmt.Errorf("label exceeds 255 characters")
	}
	return nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

// ValidateLimit validates pagination limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20 // default
	}
	if limit > 100 {
		return 100 // max limit
	}
	return limit
}
