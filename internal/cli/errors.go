package cli

import "errors"

// API key environment variables.
const (
	EnvGoogleAPIKey = "GOOGLE_API_KEY"
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
)

// CLI-specific sentinel errors.
// These are validation/usage errors that don't belong to domain packages.

var (
	// ErrAPIKeyMissing indicates the provider's API key environment variable
	// is not set.
	ErrAPIKeyMissing = errors.New("API key environment variable not set")

	// ErrUnsupportedProvider indicates an unknown synthesis provider name.
	ErrUnsupportedProvider = errors.New("unsupported provider (use 'google' or 'openai')")

	// ErrFileNotFound indicates the specified input file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrOutputExists indicates the output file already exists.
	ErrOutputExists = errors.New("output file already exists")

	// ErrInvalidSpeed indicates a speaking rate outside the accepted range.
	ErrInvalidSpeed = errors.New("speed must be between 0.25 and 4.0")
)
