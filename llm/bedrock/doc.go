// Package bedrock implements the inference adapter for the Bedrock
// runtime: it translates typed requests into the service's JSON wire
// payloads, invokes the endpoint over HTTP, and decodes responses into
// typed results with classified errors.
//
// Five task variants are supported:
//
//   - GenerateImage: TEXT_IMAGE invocation against the image model
//   - EditImage: IMAGE_VARIATION invocation combining a reference image
//     with a change prompt
//   - CaptionImage: vision-capable message invocation returning a caption
//   - Converse: conversational endpoint used by the text task layer
//   - Embed: text embedding invocation used by the retrieval layer
//
// Local invariants the remote service does not re-validate (image size and
// format, parameter ranges, the model allow-list) are enforced before any
// network I/O. Calls are synchronous and never retried; a failed call is
// reported once as a classified *llm.Error.
package bedrock
