package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrPlaceholder is returned when a secret still holds a template value.
var ErrPlaceholder = errors.New("secret looks like a placeholder")

// placeholders are the sample values shipped in example configuration files.
var placeholders = map[string]struct{}{
	"your_openrouter_api_key": {},
	"your_gemini_api_key":     {},
	"your_api_key":            {},
	"your-api-key":            {},
	"<api-key>":               {},
	"changeme":                {},
}

// Source describes how to load a secret value.
type Source struct {
	// Name is used in error messages to give more context about the secret.
	Name string
	// Value is an inline secret value provided via configuration, flags or
	// environment.
	Value string
	// File points to a file containing the secret value. When set it takes
	// precedence over Value.
	File string
}

// Load returns the resolved secret value from the provided source. When File is
// set it takes precedence over Value. The returned secret is always trimmed. An
// error is returned when neither File nor Value contain a usable secret. A
// placeholder secret is returned together with an error wrapping
// ErrPlaceholder so callers may decide to continue.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	file := strings.TrimSpace(src.File)
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}
		src.Value = string(data)
		src.File = file
	}

	secret := strings.TrimSpace(src.Value)
	if secret == "" {
		if src.File != "" {
			return "", fmt.Errorf("%s file %q is empty", name, src.File)
		}
		return "", fmt.Errorf("%s is not configured", name)
	}

	if IsPlaceholder(secret) {
		return secret, fmt.Errorf("%s: %w", name, ErrPlaceholder)
	}

	return secret, nil
}

// IsPlaceholder reports whether value looks like a sample value copied from
// documentation rather than a real credential.
func IsPlaceholder(value string) bool {
	_, ok := placeholders[strings.ToLower(strings.TrimSpace(value))]
	return ok
}
