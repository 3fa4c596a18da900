package validation

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/rushboard/challenge-api/internal/models"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	// Register custom validators for enums
	if err := Validate.RegisterValidation("idea_type", validateIdeaType); err != nil {
		panic(fmt.Sprintf("failed to register idea_type validator: %v", err))
	}
}

// validateIdeaType validates that a string is a valid IdeaType enum value
func validateIdeaType(fl validator.FieldLevel) bool {
	switch models.IdeaType(fl.Field().String()) {
	case models.IdeaTypeCustomCode, models.IdeaTypeChallenge, models.IdeaTypeTournament:
		return true
	default:
		return false
	}
}

// SanitizeText sanitizes text input by trimming whitespace and removing control characters
func SanitizeText(text string) string {
	text = strings.TrimSpace(text)

	// Remove control characters except newline and tab
	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}

// ValidateIdeaType validates an IdeaType string value
func ValidateIdeaType(value string) error {
	switch models.IdeaType(value) {
	case models.IdeaTypeCustomCode, models.IdeaTypeChallenge, models.IdeaTypeTournament:
		return nil
	default:
		return fmt.Errorf("invalid idea type: %s (must be 'CustomCode', 'Challenge', or 'Tournament')", value)
	}
}

// ValidateURL checks that a string parses as an absolute http or https URL.
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid URL: %s", raw)
	}
	return nil
}
