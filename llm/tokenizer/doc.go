// Package tokenizer provides approximate token counting for prompt text,
// used to log an estimated prompt size when the remote endpoint omits
// usage counters. Counts are estimates: the hosted models do not publish
// their tokenizers, so a tiktoken encoding is used as a stand-in with a
// character-ratio estimator as last resort.
package tokenizer
