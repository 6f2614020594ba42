package bedrock

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/UrikGon/gen-ai-workshop/llm"
	"github.com/UrikGon/gen-ai-workshop/llm/image"
)

// fakeSink records metric calls for assertions.
type fakeSink struct {
	requests []string // "task/model/status"
	tokens   []int
	rejected []string
	imageObs int
}

func (f *fakeSink) RecordRequest(task, model, status string, _ time.Duration) {
	f.requests = append(f.requests, task+"/"+model+"/"+status)
}
func (f *fakeSink) RecordTokens(_ string, input, output int) {
	f.tokens = append(f.tokens, input, output)
}
func (f *fakeSink) RecordImageRejected(reason string)     { f.rejected = append(f.rejected, reason) }
func (f *fakeSink) RecordImageBytes(_, _ string, _ int64) { f.imageObs++ }

func TestValidateImage_Accepts(t *testing.T) {
	c := New(Config{}, zap.NewNop())

	img, err := c.ValidateImage(fixturePNG)
	require.NoError(t, err)
	assert.Equal(t, image.FormatPNG, img.Format)
}

func TestValidateImage_RejectionsCounted(t *testing.T) {
	sink := &fakeSink{}
	c := New(Config{ImageLimits: image.Limits{MaxBytes: 8}}, zap.NewNop()).
		WithCollector(sink)

	_, err := c.ValidateImage(fixturePNG) // 14 bytes, over the 8 byte limit
	require.Error(t, err)
	assert.True(t, llm.IsValidation(err))

	_, err = c.ValidateImage([]byte("GIF89a"))
	require.Error(t, err)

	_, err = c.ValidateImage(nil)
	require.Error(t, err)

	assert.Equal(t, []string{"oversized", "format", "empty"}, sink.rejected)
}

func TestRejectionReason(t *testing.T) {
	limits := image.Limits{MaxBytes: 8}
	assert.Equal(t, "empty", rejectionReason(nil, limits))
	assert.Equal(t, "oversized", rejectionReason(fixturePNG, limits))
	assert.Equal(t, "format", rejectionReason([]byte("GIF"), limits))
	// zero limit falls back to the default ceiling
	assert.Equal(t, "format", rejectionReason([]byte("GIF"), image.Limits{}))
}

func TestConverse_RecordsMetrics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(converseOKBody))
	}))
	defer server.Close()

	sink := &fakeSink{}
	c := New(Config{BaseURL: server.URL}, zap.NewNop()).WithCollector(sink)

	_, err := c.Converse(context.Background(), "us.amazon.nova-pro-v1:0", nil,
		[]llm.Message{llm.UserText("hi")})
	require.NoError(t, err)

	assert.Equal(t, []string{"converse/us.amazon.nova-pro-v1:0/ok"}, sink.requests)
	assert.Equal(t, []int{25, 12}, sink.tokens)
}

func TestGenerateImage_RecordsMetrics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(imageTaskResponse{
			Images: []string{base64.StdEncoding.EncodeToString(fixturePNG)},
		})
	}))
	defer server.Close()

	sink := &fakeSink{}
	c := New(Config{BaseURL: server.URL}, zap.NewNop()).WithCollector(sink)

	_, err := c.GenerateImage(context.Background(), GenerateImageRequest{
		Prompt: "x", Height: 512, Width: 512,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"generate_image/amazon.nova-canvas-v1:0/ok"}, sink.requests)
	assert.Equal(t, 1, sink.imageObs) // received image observed
}

func TestEditImage_FailureRecordedAsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"message":"down"}`))
	}))
	defer server.Close()

	sink := &fakeSink{}
	c := New(Config{BaseURL: server.URL}, zap.NewNop()).WithCollector(sink)

	ref := &image.EncodedImage{Data: fixturePNG, Format: image.FormatPNG}
	_, err := c.EditImage(context.Background(), ref, "bluer", 0.7)
	require.Error(t, err)
	assert.Equal(t, []string{"edit_image/amazon.nova-canvas-v1:0/error"}, sink.requests)
}
