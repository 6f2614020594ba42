package bedrock

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/UrikGon/gen-ai-workshop/llm/image"
)

const (
	// DefaultRegion selects the endpoint when no region is configured.
	DefaultRegion = "us-east-1"

	// DefaultImageModel handles TEXT_IMAGE and IMAGE_VARIATION tasks.
	DefaultImageModel = "amazon.nova-canvas-v1:0"

	// DefaultVisionModel handles image captioning.
	DefaultVisionModel = "us.anthropic.claude-3-5-sonnet-20241022-v2:0"

	// DefaultEmbedModel converts text into embedding vectors.
	DefaultEmbedModel = "amazon.titan-embed-text-v1"

	// DefaultTemperature is the fixed inference temperature for Converse.
	DefaultTemperature = 0.5
)

// Guidance scale bounds accepted by the image model. Out-of-range values
// are clamped, not rejected.
const (
	MinGuidanceScale = 1.0
	MaxGuidanceScale = 10.0
)

// Similarity strength bounds for image variation. Out-of-range values are
// rejected before any network call.
const (
	MinSimilarityStrength = 0.2
	MaxSimilarityStrength = 1.0
)

// Config configures the adapter client.
type Config struct {
	// Region selects the regional endpoint. Defaults to DefaultRegion.
	Region string `json:"region" yaml:"region"`

	// BaseURL overrides the endpoint derived from Region. Mainly for tests.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// ImageModel is the model id for generation and variation tasks.
	ImageModel string `json:"image_model,omitempty" yaml:"image_model,omitempty"`

	// VisionModel is the model id for captioning.
	VisionModel string `json:"vision_model,omitempty" yaml:"vision_model,omitempty"`

	// EmbedModel is the model id for text embeddings.
	EmbedModel string `json:"embed_model,omitempty" yaml:"embed_model,omitempty"`

	// Timeout is the HTTP client timeout. Defaults to 120s.
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`

	// ImageLimits bounds reference images accepted by EditImage and
	// CaptionImage.
	ImageLimits image.Limits `json:"image_limits,omitempty" yaml:"image_limits,omitempty"`
}

// DefaultConfig returns the standard adapter configuration.
func DefaultConfig() Config {
	return Config{
		Region:      DefaultRegion,
		ImageModel:  DefaultImageModel,
		VisionModel: DefaultVisionModel,
		EmbedModel:  DefaultEmbedModel,
		Timeout:     120 * time.Second,
		ImageLimits: image.DefaultLimits(),
	}
}

// UnmarshalYAML decodes durations from strings ("30s") and merges set
// fields over whatever the receiver already holds, so YAML overrides
// defaults without wiping them.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Region      string       `yaml:"region"`
		BaseURL     string       `yaml:"base_url"`
		ImageModel  string       `yaml:"image_model"`
		VisionModel string       `yaml:"vision_model"`
		EmbedModel  string       `yaml:"embed_model"`
		Timeout     string       `yaml:"timeout"`
		ImageLimits image.Limits `yaml:"image_limits"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.Region != "" {
		c.Region = raw.Region
	}
	if raw.BaseURL != "" {
		c.BaseURL = raw.BaseURL
	}
	if raw.ImageModel != "" {
		c.ImageModel = raw.ImageModel
	}
	if raw.VisionModel != "" {
		c.VisionModel = raw.VisionModel
	}
	if raw.EmbedModel != "" {
		c.EmbedModel = raw.EmbedModel
	}
	if raw.Timeout != "" {
		d, err := time.ParseDuration(raw.Timeout)
		if err != nil {
			return fmt.Errorf("parse timeout: %w", err)
		}
		c.Timeout = d
	}
	if raw.ImageLimits.MaxBytes != 0 {
		c.ImageLimits.MaxBytes = raw.ImageLimits.MaxBytes
	}
	return nil
}

// Endpoint returns the effective base URL.
func (c Config) Endpoint() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	region := c.Region
	if region == "" {
		region = DefaultRegion
	}
	return fmt.Sprintf("https://bedrock-runtime.%s.amazonaws.com", region)
}

// supportedModels is the fixed allow-list for Converse. Model ids outside
// this set fail before any network call.
var supportedModels = map[string]struct{}{
	"us.anthropic.claude-3-5-sonnet-20241022-v2:0": {},
	"us.anthropic.claude-3-5-haiku-20241022-v1:0":  {},
	"meta.llama3-1-70b-instruct-v1:0":              {},
	"meta.llama3-1-405b-instruct-v1:0":             {},
	"meta.llama3-1-8b-instruct-v1:0":               {},
	"mistral.mistral-large-2402-v1:0":              {},
	"us.amazon.nova-pro-v1:0":                      {},
	"us.amazon.nova-lite-v1:0":                     {},
	"us.amazon.nova-micro-v1:0":                    {},
}

// SupportedModels returns the conversational model allow-list.
func SupportedModels() []string {
	out := make([]string, 0, len(supportedModels))
	for id := range supportedModels {
		out = append(out, id)
	}
	return out
}

// ModelSupported reports whether the model id is in the allow-list.
func ModelSupported(modelID string) bool {
	_, ok := supportedModels[modelID]
	return ok
}

// allowedSizes is the discrete set of output dimensions the image model
// accepts, as {height, width} pairs.
var allowedSizes = [][2]int{
	{512, 512},
	{768, 768},
	{1024, 1024},
	{2048, 2048},
	{1024, 2048},
	{2048, 1024},
}

// AllowedSizes returns the accepted {height, width} pairs.
func AllowedSizes() [][2]int {
	out := make([][2]int, len(allowedSizes))
	copy(out, allowedSizes)
	return out
}

func sizeAllowed(height, width int) bool {
	for _, s := range allowedSizes {
		if s[0] == height && s[1] == width {
			return true
		}
	}
	return false
}

func clampGuidance(scale float64) float64 {
	if scale < MinGuidanceScale {
		return MinGuidanceScale
	}
	if scale > MaxGuidanceScale {
		return MaxGuidanceScale
	}
	return scale
}
