package image

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"github.com/UrikGon/gen-ai-workshop/llm"
)

// Format identifies a supported image container format.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
)

// MediaType returns the MIME type for the format.
func (f Format) MediaType() string { return "image/" + string(f) }

// DefaultMaxBytes is the default upload ceiling (5 MiB).
const DefaultMaxBytes = 5 * 1024 * 1024

// Limits bounds what Validate accepts.
type Limits struct {
	MaxBytes int64 `json:"max_bytes" yaml:"max_bytes"`
}

// DefaultLimits returns the standard 5 MiB limit.
func DefaultLimits() Limits {
	return Limits{MaxBytes: DefaultMaxBytes}
}

// EncodedImage is an image payload in a supported container format.
type EncodedImage struct {
	Data   []byte
	Format Format
}

// Base64 returns the standard base64 encoding of the image bytes.
func (img *EncodedImage) Base64() string {
	return base64.StdEncoding.EncodeToString(img.Data)
}

// MediaType returns the MIME type of the image.
func (img *EncodedImage) MediaType() string { return img.Format.MediaType() }

// Size returns the raw payload size in bytes.
func (img *EncodedImage) Size() int64 { return int64(len(img.Data)) }

var (
	pngMagic  = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
)

// DetectFormat sniffs the container format from the leading magic bytes.
func DetectFormat(raw []byte) (Format, error) {
	switch {
	case bytes.HasPrefix(raw, pngMagic):
		return FormatPNG, nil
	case bytes.HasPrefix(raw, jpegMagic):
		return FormatJPEG, nil
	default:
		return "", &llm.Error{
			Code:    llm.ErrValidation,
			Message: "unsupported image format: expected PNG or JPEG",
		}
	}
}

// Validate enforces the size and format invariants on raw image bytes and
// returns the typed image. Size is checked before format so oversized
// payloads are rejected regardless of content. Pure local check.
func Validate(raw []byte, limits Limits) (*EncodedImage, error) {
	if len(raw) == 0 {
		return nil, &llm.Error{
			Code:    llm.ErrValidation,
			Message: "image is empty",
		}
	}
	if limits.MaxBytes <= 0 {
		limits.MaxBytes = DefaultMaxBytes
	}
	if int64(len(raw)) > limits.MaxBytes {
		return nil, &llm.Error{
			Code: llm.ErrValidation,
			Message: fmt.Sprintf("image size %d exceeds %d byte limit",
				len(raw), limits.MaxBytes),
		}
	}
	format, err := DetectFormat(raw)
	if err != nil {
		return nil, err
	}
	return &EncodedImage{Data: raw, Format: format}, nil
}

// FromBase64 decodes a base64 string into an EncodedImage of the given
// format. Decoding the result of Base64 reproduces the original bytes
// exactly.
func FromBase64(s string, format Format) (*EncodedImage, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, &llm.Error{
			Code:    llm.ErrValidation,
			Message: fmt.Sprintf("invalid base64 image data: %v", err),
		}
	}
	return &EncodedImage{Data: data, Format: format}, nil
}
