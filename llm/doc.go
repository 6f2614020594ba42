// Package llm defines the core types shared by the inference adapter:
// conversation messages with typed text/image parts, system prompts,
// usage counters, and the classified error model.
//
// Errors fall into three families the caller can branch on without
// enumerating codes:
//
//   - validation: a local precondition was violated before any network
//     call (IsValidation)
//   - provider: the remote endpoint rejected the request or reported a
//     recognized service failure (IsProvider)
//   - unexpected: transport faults and malformed response shapes
//     (IsUnexpected)
package llm
