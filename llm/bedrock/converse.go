package bedrock

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/UrikGon/gen-ai-workshop/llm"
	"github.com/UrikGon/gen-ai-workshop/llm/tokenizer"
)

// Wire shapes for the conversational endpoint.

type converseContentBlock struct {
	Text  string              `json:"text,omitempty"`
	Image *converseImageBlock `json:"image,omitempty"`
}

type converseImageBlock struct {
	Format string `json:"format"`
	Source struct {
		Bytes string `json:"bytes"`
	} `json:"source"`
}

type converseMessage struct {
	Role    string                 `json:"role"`
	Content []converseContentBlock `json:"content"`
}

type converseRequest struct {
	Messages        []converseMessage  `json:"messages"`
	System          []llm.SystemPrompt `json:"system,omitempty"`
	InferenceConfig struct {
		Temperature float64 `json:"temperature"`
	} `json:"inferenceConfig"`
}

type converseResponse struct {
	Output struct {
		Message struct {
			Role    string `json:"role"`
			Content []struct {
				Text string `json:"text"`
			} `json:"content"`
		} `json:"message"`
	} `json:"output"`
	StopReason string `json:"stopReason"`
	Usage      struct {
		InputTokens  int `json:"inputTokens"`
		OutputTokens int `json:"outputTokens"`
		TotalTokens  int `json:"totalTokens"`
	} `json:"usage"`
}

// Converse sends messages to a conversational model and returns the first
// text segment of the generated reply, or "" when the reply carries no
// text. The model id must be in the allow-list; unknown ids fail before
// any network call. Temperature is fixed at DefaultTemperature.
func (c *Client) Converse(ctx context.Context, modelID string, system []llm.SystemPrompt, messages []llm.Message) (string, error) {
	start := time.Now()

	if !ModelSupported(modelID) {
		return "", &llm.Error{
			Code:     llm.ErrInvalidModel,
			Message:  fmt.Sprintf("invalid model ID: %s", modelID),
			Provider: providerName,
		}
	}

	payload := converseRequest{
		Messages: convertMessages(messages),
		System:   system,
	}
	payload.InferenceConfig.Temperature = DefaultTemperature

	c.logger.Info("generating message",
		zap.String("request_id", newRequestID()),
		zap.String("model", modelID))

	var resp converseResponse
	err := c.invoke(ctx, modelID, "converse", payload, &resp)
	c.observe("converse", modelID, start, err)
	if err != nil {
		return "", err
	}

	c.logUsage(modelID, system, messages, resp)

	if len(resp.Output.Message.Content) == 0 {
		return "", nil
	}
	return resp.Output.Message.Content[0].Text, nil
}

// logUsage reports the endpoint's token counters, falling back to a local
// estimate when the response omits them.
func (c *Client) logUsage(modelID string, system []llm.SystemPrompt, messages []llm.Message, resp converseResponse) {
	usage := llm.Usage{
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
		TotalTokens:  resp.Usage.TotalTokens,
	}

	if usage.TotalTokens == 0 && usage.InputTokens == 0 {
		counter := tokenizer.ForModel(modelID)
		if n, err := counter.CountTokens(promptText(system, messages)); err == nil {
			c.logger.Info("usage missing from response, estimated prompt tokens",
				zap.String("model", modelID),
				zap.String("counter", counter.Name()),
				zap.Int("estimated_input_tokens", n))
		}
		return
	}

	c.logger.Info("token usage",
		zap.String("model", modelID),
		zap.Int("input_tokens", usage.InputTokens),
		zap.Int("output_tokens", usage.OutputTokens),
		zap.Int("total_tokens", usage.TotalTokens),
		zap.String("stop_reason", resp.StopReason))
	if c.collector != nil {
		c.collector.RecordTokens(modelID, usage.InputTokens, usage.OutputTokens)
	}
}

// convertMessages translates typed messages into the endpoint's content
// block shape.
func convertMessages(messages []llm.Message) []converseMessage {
	out := make([]converseMessage, 0, len(messages))
	for _, m := range messages {
		cm := converseMessage{Role: string(m.Role)}
		for _, part := range m.Content {
			switch part.Type {
			case llm.ContentPartText:
				cm.Content = append(cm.Content, converseContentBlock{Text: part.Text})
			case llm.ContentPartImage:
				block := &converseImageBlock{
					Format: strings.TrimPrefix(part.MediaType, "image/"),
				}
				block.Source.Bytes = part.Data
				cm.Content = append(cm.Content, converseContentBlock{Image: block})
			}
		}
		out = append(out, cm)
	}
	return out
}

// promptText flattens system prompts and message text for estimation.
func promptText(system []llm.SystemPrompt, messages []llm.Message) string {
	var sb strings.Builder
	for _, s := range system {
		sb.WriteString(s.Text)
		sb.WriteByte('\n')
	}
	for _, m := range messages {
		for _, part := range m.Content {
			if part.Type == llm.ContentPartText {
				sb.WriteString(part.Text)
				sb.WriteByte('\n')
			}
		}
	}
	return sb.String()
}
