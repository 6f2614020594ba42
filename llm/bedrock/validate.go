package bedrock

import (
	"github.com/UrikGon/gen-ai-workshop/llm/image"
)

// ValidateImage enforces the configured size and format invariants on raw
// image bytes before any encoding or transmission. Pure local check,
// never a network call. Rejections are counted when a collector is
// attached.
func (c *Client) ValidateImage(raw []byte) (*image.EncodedImage, error) {
	img, err := image.Validate(raw, c.cfg.ImageLimits)
	if err != nil {
		if c.collector != nil {
			c.collector.RecordImageRejected(rejectionReason(raw, c.cfg.ImageLimits))
		}
		return nil, err
	}
	return img, nil
}

func rejectionReason(raw []byte, limits image.Limits) string {
	maxBytes := limits.MaxBytes
	if maxBytes <= 0 {
		maxBytes = image.DefaultMaxBytes
	}
	switch {
	case len(raw) == 0:
		return "empty"
	case int64(len(raw)) > maxBytes:
		return "oversized"
	default:
		return "format"
	}
}
