package bedrock

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/UrikGon/gen-ai-workshop/llm"
	"github.com/UrikGon/gen-ai-workshop/llm/image"
)

// DefaultCaption is returned when the vision model's response carries no
// text content.
const DefaultCaption = "No description available"

const (
	captionPrompt    = "Provide a caption for this image"
	anthropicVersion = "bedrock-2023-05-31"
	captionMaxTokens = 4096
)

// Wire shapes for the vision model's message invocation.

type visionImageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type visionContentBlock struct {
	Type   string             `json:"type"`
	Text   string             `json:"text,omitempty"`
	Source *visionImageSource `json:"source,omitempty"`
}

type visionMessage struct {
	Role    string               `json:"role"`
	Content []visionContentBlock `json:"content"`
}

type visionRequest struct {
	AnthropicVersion string          `json:"anthropic_version"`
	MaxTokens        int             `json:"max_tokens"`
	Messages         []visionMessage `json:"messages"`
}

type visionResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// CaptionImage asks the vision model to describe the image and returns the
// first text segment of its reply, or DefaultCaption when the reply has no
// text content. The image must already have passed validation.
func (c *Client) CaptionImage(ctx context.Context, img *image.EncodedImage) (string, error) {
	start := time.Now()

	if img == nil || len(img.Data) == 0 {
		return "", &llm.Error{
			Code:     llm.ErrValidation,
			Message:  "image is required",
			Provider: providerName,
		}
	}

	payload := visionRequest{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        captionMaxTokens,
		Messages: []visionMessage{{
			Role: string(llm.RoleUser),
			Content: []visionContentBlock{
				{
					Type: "image",
					Source: &visionImageSource{
						Type:      "base64",
						MediaType: img.MediaType(),
						Data:      img.Base64(),
					},
				},
				{Type: "text", Text: captionPrompt},
			},
		}},
	}

	c.logger.Info("captioning image",
		zap.String("request_id", newRequestID()),
		zap.String("model", c.cfg.VisionModel),
		zap.String("media_type", img.MediaType()),
		zap.Int64("image_bytes", img.Size()))
	if c.collector != nil {
		c.collector.RecordImageBytes("caption_image", "sent", img.Size())
	}

	var resp visionResponse
	err := c.invoke(ctx, c.cfg.VisionModel, "invoke", payload, &resp)
	c.observe("caption_image", c.cfg.VisionModel, start, err)
	if err != nil {
		return "", err
	}

	for _, block := range resp.Content {
		if block.Text != "" {
			return block.Text, nil
		}
	}
	return DefaultCaption, nil
}
