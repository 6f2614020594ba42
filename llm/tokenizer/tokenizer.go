package tokenizer

// Counter is the token counting interface.
type Counter interface {
	// CountTokens returns the token count for the given text.
	CountTokens(text string) (int, error)

	// Name returns the counter's name.
	Name() string
}

// ForModel returns a counter suited to the given model identifier. Hosted
// model families get a tiktoken stand-in encoding; anything unknown falls
// back to the character-ratio estimator.
func ForModel(model string) Counter {
	if enc, ok := encodingForModel(model); ok {
		return NewTiktokenCounter(enc)
	}
	return NewEstimatorCounter()
}

// encodingForModel maps model identifier prefixes to a tiktoken encoding.
func encodingForModel(model string) (string, bool) {
	prefixes := []string{
		"us.anthropic.", "anthropic.",
		"us.amazon.", "amazon.",
		"meta.", "mistral.",
	}
	for _, p := range prefixes {
		if len(model) >= len(p) && model[:len(p)] == p {
			return "cl100k_base", true
		}
	}
	return "", false
}
