package bedrock

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/UrikGon/gen-ai-workshop/llm"
)

// Wire shapes for the embedding model invocation.

type embedRequest struct {
	InputText string `json:"inputText"`
}

type embedResponse struct {
	Embedding           []float64 `json:"embedding"`
	InputTextTokenCount int       `json:"inputTextTokenCount"`
}

// Embed converts text into an embedding vector using the configured
// embedding model. Empty text is rejected before any network call.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	start := time.Now()

	if text == "" {
		return nil, &llm.Error{
			Code:     llm.ErrValidation,
			Message:  "embedding input must not be empty",
			Provider: providerName,
		}
	}

	c.logger.Info("embedding text",
		zap.String("request_id", newRequestID()),
		zap.String("model", c.cfg.EmbedModel),
		zap.Int("input_chars", len(text)))

	var resp embedResponse
	err := c.invoke(ctx, c.cfg.EmbedModel, "invoke", embedRequest{InputText: text}, &resp)
	c.observe("embed", c.cfg.EmbedModel, start, err)
	if err != nil {
		return nil, err
	}

	if len(resp.Embedding) == 0 {
		return nil, &llm.Error{
			Code:       llm.ErrMalformedResponse,
			Message:    "embedding response contains no vector",
			HTTPStatus: http.StatusBadGateway,
			Provider:   providerName,
		}
	}

	if resp.InputTextTokenCount > 0 && c.collector != nil {
		c.collector.RecordTokens(c.cfg.EmbedModel, resp.InputTextTokenCount, 0)
	}
	return resp.Embedding, nil
}

// EmbedAll embeds each text in order. It stops at the first failure,
// returning the error with the index of the offending text.
func (c *Client) EmbedAll(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, 0, len(texts))
	for i, text := range texts {
		vec, err := c.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embed text %d: %w", i, err)
		}
		out = append(out, vec)
	}
	return out, nil
}
