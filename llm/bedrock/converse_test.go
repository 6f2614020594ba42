package bedrock

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/UrikGon/gen-ai-workshop/llm"
)

const converseOKBody = `{
	"output": {"message": {"role": "assistant", "content": [{"text": "short summary"}]}},
	"stopReason": "end_turn",
	"usage": {"inputTokens": 25, "outputTokens": 12, "totalTokens": 37}
}`

func newConverseStub(t *testing.T, body string, captured *converseRequest, gotPath *string) *Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if gotPath != nil {
			*gotPath = r.URL.Path
		}
		if captured != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return New(Config{BaseURL: server.URL}, zap.NewNop())
}

func TestConverse_ReturnsFirstTextSegment(t *testing.T) {
	var captured converseRequest
	var gotPath string
	c := newConverseStub(t, converseOKBody, &captured, &gotPath)

	system := []llm.SystemPrompt{{Text: "You are a helpful AI"}}
	messages := []llm.Message{llm.UserText("Summarize this")}

	text, err := c.Converse(context.Background(), "us.amazon.nova-pro-v1:0", system, messages)
	require.NoError(t, err)
	assert.Equal(t, "short summary", text)

	assert.Equal(t, "/model/us.amazon.nova-pro-v1:0/converse", gotPath)
	assert.Equal(t, 0.5, captured.InferenceConfig.Temperature)
	require.Len(t, captured.System, 1)
	assert.Equal(t, "You are a helpful AI", captured.System[0].Text)
	require.Len(t, captured.Messages, 1)
	assert.Equal(t, "user", captured.Messages[0].Role)
	require.Len(t, captured.Messages[0].Content, 1)
	assert.Equal(t, "Summarize this", captured.Messages[0].Content[0].Text)
}

func TestConverse_UnknownModelFailsBeforeNetwork(t *testing.T) {
	var called bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()
	c := New(Config{BaseURL: server.URL}, zap.NewNop())

	_, err := c.Converse(context.Background(), "acme.totally-new-model-v9", nil,
		[]llm.Message{llm.UserText("hi")})
	require.Error(t, err)
	assert.True(t, llm.IsValidation(err))
	assert.False(t, called, "endpoint must not be called for an unknown model")

	le, _ := llm.AsError(err)
	assert.Equal(t, llm.ErrInvalidModel, le.Code)
}

func TestConverse_EmptyContentReturnsEmptyString(t *testing.T) {
	c := newConverseStub(t, `{"output":{"message":{"content":[]}},"stopReason":"end_turn"}`, nil, nil)

	text, err := c.Converse(context.Background(), "us.amazon.nova-lite-v1:0", nil,
		[]llm.Message{llm.UserText("hi")})
	require.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestConverse_UnexpectedShapeReturnsEmptyString(t *testing.T) {
	// Valid JSON, but none of the expected fields.
	c := newConverseStub(t, `{"something":"else"}`, nil, nil)

	text, err := c.Converse(context.Background(), "us.amazon.nova-lite-v1:0", nil,
		[]llm.Message{llm.UserText("hi")})
	require.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestConverse_ImagePartOnWire(t *testing.T) {
	var captured converseRequest
	c := newConverseStub(t, converseOKBody, &captured, nil)

	msg := llm.Message{
		Role: llm.RoleUser,
		Content: []llm.ContentPart{
			llm.NewImagePart("aGVsbG8=", "image/png"),
			llm.NewTextPart("what is this?"),
		},
	}
	_, err := c.Converse(context.Background(), "us.anthropic.claude-3-5-sonnet-20241022-v2:0", nil,
		[]llm.Message{msg})
	require.NoError(t, err)

	require.Len(t, captured.Messages, 1)
	require.Len(t, captured.Messages[0].Content, 2)

	imgBlock := captured.Messages[0].Content[0].Image
	require.NotNil(t, imgBlock)
	assert.Equal(t, "png", imgBlock.Format)
	assert.Equal(t, "aGVsbG8=", imgBlock.Source.Bytes)
	assert.Equal(t, "what is this?", captured.Messages[0].Content[1].Text)
}

func TestConverse_ProviderErrorSurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"message":"throttled"}`))
	}))
	defer server.Close()
	c := New(Config{BaseURL: server.URL}, zap.NewNop())

	_, err := c.Converse(context.Background(), "us.amazon.nova-pro-v1:0", nil,
		[]llm.Message{llm.UserText("hi")})
	require.Error(t, err)

	le, ok := llm.AsError(err)
	require.True(t, ok)
	assert.Equal(t, llm.ErrThrottled, le.Code)
	assert.Equal(t, "throttled", le.Message)
}

func TestPromptText(t *testing.T) {
	system := []llm.SystemPrompt{{Text: "sys"}}
	messages := []llm.Message{
		llm.UserText("one"),
		{Role: llm.RoleUser, Content: []llm.ContentPart{llm.NewImagePart("data", "image/png")}},
	}
	assert.Equal(t, "sys\none\n", promptText(system, messages))
}
