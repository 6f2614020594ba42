// Package image provides the encoded-image model used by the inference
// adapter: format detection, size/format validation, and lossless
// base64 round-tripping. Images are opaque container payloads (PNG/JPEG);
// the package never decodes pixels and never performs network I/O.
package image
