package bedrock

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/UrikGon/gen-ai-workshop/llm"
	"github.com/UrikGon/gen-ai-workshop/llm/image"
)

// DefaultGuidanceScale is used when a request leaves the scale unset.
const DefaultGuidanceScale = 8.0

// Task types accepted by the image model's invoke endpoint.
const (
	taskTextImage      = "TEXT_IMAGE"
	taskImageVariation = "IMAGE_VARIATION"
)

// GenerateImageRequest describes a text-to-image generation.
type GenerateImageRequest struct {
	// Prompt is the generation prompt. An empty prompt is passed through;
	// warning the user about it is the presentation layer's job.
	Prompt string

	// Height and Width must be a member of AllowedSizes.
	Height int
	Width  int

	// GuidanceScale is clamped to [MinGuidanceScale, MaxGuidanceScale].
	// Zero means DefaultGuidanceScale.
	GuidanceScale float64

	// Seed, when set, makes generation reproducible.
	Seed *int64
}

// Wire shapes for the image model. Field names and nesting are the
// service's fixed contract.

type textToImageParams struct {
	Text string `json:"text"`
}

type imageVariationParams struct {
	Text               string   `json:"text"`
	Images             []string `json:"images"`
	SimilarityStrength float64  `json:"similarityStrength"`
}

type imageGenerationConfig struct {
	NumberOfImages int     `json:"numberOfImages"`
	Height         int     `json:"height"`
	Width          int     `json:"width"`
	CFGScale       float64 `json:"cfgScale"`
	Seed           *int64  `json:"seed,omitempty"`
}

type imageTaskRequest struct {
	TaskType              string                `json:"taskType"`
	TextToImageParams     *textToImageParams    `json:"textToImageParams,omitempty"`
	ImageVariationParams  *imageVariationParams `json:"imageVariationParams,omitempty"`
	ImageGenerationConfig imageGenerationConfig `json:"imageGenerationConfig"`
}

type imageTaskResponse struct {
	Images []string `json:"images"`
	Error  string   `json:"error,omitempty"`
}

// GenerateImage generates one image from a text prompt and returns it
// decoded. Dimensions outside the allowed size set fail with a validation
// error before any network call.
func (c *Client) GenerateImage(ctx context.Context, req GenerateImageRequest) (*image.EncodedImage, error) {
	start := time.Now()

	if !sizeAllowed(req.Height, req.Width) {
		return nil, &llm.Error{
			Code: llm.ErrValidation,
			Message: fmt.Sprintf("dimensions %dx%d not in the allowed size set",
				req.Height, req.Width),
			Provider: providerName,
		}
	}

	scale := req.GuidanceScale
	if scale == 0 {
		scale = DefaultGuidanceScale
	}
	scale = clampGuidance(scale)

	payload := imageTaskRequest{
		TaskType:          taskTextImage,
		TextToImageParams: &textToImageParams{Text: req.Prompt},
		ImageGenerationConfig: imageGenerationConfig{
			NumberOfImages: 1,
			Height:         req.Height,
			Width:          req.Width,
			CFGScale:       scale,
			Seed:           req.Seed,
		},
	}

	c.logger.Info("generating image",
		zap.String("request_id", newRequestID()),
		zap.String("model", c.cfg.ImageModel),
		zap.Int("height", req.Height),
		zap.Int("width", req.Width),
		zap.Float64("cfg_scale", scale))

	img, err := c.invokeImageTask(ctx, payload, "generate_image")
	c.observe("generate_image", c.cfg.ImageModel, start, err)
	return img, err
}

// EditImage produces a variation of the reference image steered by the
// change prompt. similarityStrength must lie in
// [MinSimilarityStrength, MaxSimilarityStrength]; out-of-range values fail
// before any network call.
func (c *Client) EditImage(ctx context.Context, ref *image.EncodedImage, changePrompt string, similarityStrength float64) (*image.EncodedImage, error) {
	start := time.Now()

	if ref == nil || len(ref.Data) == 0 {
		return nil, &llm.Error{
			Code:     llm.ErrValidation,
			Message:  "reference image is required",
			Provider: providerName,
		}
	}
	if similarityStrength < MinSimilarityStrength || similarityStrength > MaxSimilarityStrength {
		return nil, &llm.Error{
			Code: llm.ErrValidation,
			Message: fmt.Sprintf("similarity strength %.2f outside [%.1f, %.1f]",
				similarityStrength, MinSimilarityStrength, MaxSimilarityStrength),
			Provider: providerName,
		}
	}

	payload := imageTaskRequest{
		TaskType: taskImageVariation,
		ImageVariationParams: &imageVariationParams{
			Text:               changePrompt,
			Images:             []string{ref.Base64()},
			SimilarityStrength: similarityStrength,
		},
		ImageGenerationConfig: imageGenerationConfig{
			NumberOfImages: 1,
			Height:         512,
			Width:          512,
			CFGScale:       DefaultGuidanceScale,
		},
	}

	c.logger.Info("generating image variation",
		zap.String("request_id", newRequestID()),
		zap.String("model", c.cfg.ImageModel),
		zap.Float64("similarity_strength", similarityStrength),
		zap.Int64("reference_bytes", ref.Size()))
	if c.collector != nil {
		c.collector.RecordImageBytes("edit_image", "sent", ref.Size())
	}

	img, err := c.invokeImageTask(ctx, payload, "edit_image")
	c.observe("edit_image", c.cfg.ImageModel, start, err)
	return img, err
}

// invokeImageTask sends an image task payload and decodes the first image
// of the result list.
func (c *Client) invokeImageTask(ctx context.Context, payload imageTaskRequest, task string) (*image.EncodedImage, error) {
	var resp imageTaskResponse
	if err := c.invoke(ctx, c.cfg.ImageModel, "invoke", payload, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, &llm.Error{
			Code:     llm.ErrInvalidRequest,
			Message:  resp.Error,
			Provider: providerName,
		}
	}
	if len(resp.Images) == 0 {
		return nil, &llm.Error{
			Code:     llm.ErrMalformedResponse,
			Message:  "response contains no images",
			Provider: providerName,
		}
	}

	data, err := base64.StdEncoding.DecodeString(resp.Images[0])
	if err != nil {
		return nil, &llm.Error{
			Code:     llm.ErrMalformedResponse,
			Message:  fmt.Sprintf("response image is not valid base64: %v", err),
			Provider: providerName,
		}
	}
	format, err := image.DetectFormat(data)
	if err != nil {
		return nil, &llm.Error{
			Code:     llm.ErrMalformedResponse,
			Message:  "response image has an unrecognized format",
			Provider: providerName,
		}
	}

	img := &image.EncodedImage{Data: data, Format: format}
	if c.collector != nil {
		c.collector.RecordImageBytes(task, "received", img.Size())
	}
	return img, nil
}
