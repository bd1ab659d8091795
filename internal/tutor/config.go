package tutor

// Config holds generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64

	// MaxWrongAnswers caps how many past answers go into the prompt.
	MaxWrongAnswers int
}

// DefaultConfig returns the settings used by the CLI.
func DefaultConfig() Config {
	return Config{
		MaxTokens:       400,
		Temperature:     0.3,
		MaxWrongAnswers: 5,
	}
}
