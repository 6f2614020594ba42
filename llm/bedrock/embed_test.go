package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/UrikGon/gen-ai-workshop/llm"
)

func TestEmbed(t *testing.T) {
	var gotPath string
	var captured embedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(`{"embedding":[0.1,-0.25,0.5],"inputTextTokenCount":7}`))
	}))
	defer server.Close()

	sink := &fakeSink{}
	c := New(Config{BaseURL: server.URL}, zap.NewNop()).WithCollector(sink)

	vec, err := c.Embed(context.Background(), "Your dog is so cute.")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, -0.25, 0.5}, vec)

	assert.Equal(t, "/model/amazon.titan-embed-text-v1/invoke", gotPath)
	assert.Equal(t, "Your dog is so cute.", captured.InputText)
	assert.Equal(t, []string{"embed/amazon.titan-embed-text-v1/ok"}, sink.requests)
	assert.Equal(t, []int{7, 0}, sink.tokens)
}

func TestEmbed_EmptyTextFailsBeforeNetwork(t *testing.T) {
	var called bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()
	c := New(Config{BaseURL: server.URL}, zap.NewNop())

	_, err := c.Embed(context.Background(), "")
	require.Error(t, err)
	assert.True(t, llm.IsValidation(err))
	assert.False(t, called, "endpoint must not be called for empty input")
}

func TestEmbed_EmptyVectorIsMalformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"embedding":[],"inputTextTokenCount":0}`))
	}))
	defer server.Close()
	c := New(Config{BaseURL: server.URL}, zap.NewNop())

	_, err := c.Embed(context.Background(), "hi")
	require.Error(t, err)
	le, ok := llm.AsError(err)
	require.True(t, ok)
	assert.Equal(t, llm.ErrMalformedResponse, le.Code)
}

func TestEmbed_Throttled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"message":"slow down"}`))
	}))
	defer server.Close()
	c := New(Config{BaseURL: server.URL}, zap.NewNop())

	_, err := c.Embed(context.Background(), "hi")
	require.Error(t, err)
	le, ok := llm.AsError(err)
	require.True(t, ok)
	assert.Equal(t, llm.ErrThrottled, le.Code)
	assert.True(t, le.Retryable)
}

func TestEmbedAll(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprintf(w, `{"embedding":[%d],"inputTextTokenCount":1}`, calls)
	}))
	defer server.Close()
	c := New(Config{BaseURL: server.URL}, zap.NewNop())

	vecs, err := c.EmbedAll(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, vecs, 3)
	assert.Equal(t, []float64{1}, vecs[0])
	assert.Equal(t, []float64{3}, vecs[2])
}

func TestEmbedAll_StopsAtFirstFailure(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 2 {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"message":"boom"}`))
			return
		}
		w.Write([]byte(`{"embedding":[1],"inputTextTokenCount":1}`))
	}))
	defer server.Close()
	c := New(Config{BaseURL: server.URL}, zap.NewNop())

	_, err := c.EmbedAll(context.Background(), []string{"a", "b", "c"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embed text 1")
	assert.Equal(t, 2, calls, "must stop after the failing text")
}

func TestEmbed_CustomModel(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"embedding":[1],"inputTextTokenCount":1}`))
	}))
	defer server.Close()
	c := New(Config{BaseURL: server.URL, EmbedModel: "amazon.titan-embed-text-v2:0"}, zap.NewNop())

	_, err := c.Embed(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "/model/amazon.titan-embed-text-v2:0/invoke", gotPath)
}
