package types

import "time"

// Config carries the converter options recognized by the renderer and the
// fetch layer. The zero value is not useful; start from DefaultConfig.
type Config struct {
	// SeparateChildPage renders every descended child page into its own
	// output unit keyed by the block id, leaving a reference link in the
	// parent document.
	SeparateChildPage bool

	// ConvertImagesToBase64 downloads image bytes and inlines them as
	// data-URI references instead of plain URLs.
	ConvertImagesToBase64 bool

	// ParseChildPages enables descending into child pages and child
	// databases at all. When disabled a child page becomes a reference
	// link with no content.
	ParseChildPages bool

	// APIRetryAttempts bounds how many times a transient fetch failure is
	// retried before it becomes terminal.
	APIRetryAttempts int

	// APIRateLimitDelay seeds the exponential backoff between retries.
	APIRateLimitDelay time.Duration

	// MaxConcurrentRequests bounds how many child-fetch operations may be
	// in flight at once, across all resolve calls on one converter.
	MaxConcurrentRequests int

	// FrontMatter prepends a YAML front matter header to every exported
	// output unit.
	FrontMatter bool
}

func DefaultConfig() Config {
	return Config{
		SeparateChildPage:     false,
		ConvertImagesToBase64: false,
		ParseChildPages:       true,
		APIRetryAttempts:      3,
		APIRateLimitDelay:     500 * time.Millisecond,
		MaxConcurrentRequests: 5,
	}
}
