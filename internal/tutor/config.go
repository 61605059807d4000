package tutor

// Config holds code review settings.
type Config struct {
	MaxTokens   int
	Temperature float64

	// Code and output longer than these are clipped before sending.
	MaxCodeChars   int
	MaxOutputChars int
}

// DefaultConfig returns sensible defaults for code review.
func DefaultConfig() Config {
	return Config{
		MaxTokens:      600,
		Temperature:    0.3,
		MaxCodeChars:   4000,
		MaxOutputChars: 1500,
	}
}
