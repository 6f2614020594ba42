package bedrock

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/UrikGon/gen-ai-workshop/internal/metrics"
	"github.com/UrikGon/gen-ai-workshop/internal/tlsutil"
	"github.com/UrikGon/gen-ai-workshop/llm"
)

// MetricsSink receives adapter call metrics. *metrics.Collector satisfies
// it; tests substitute fakes.
type MetricsSink interface {
	RecordRequest(task, model, status string, duration time.Duration)
	RecordTokens(model string, inputTokens, outputTokens int)
	RecordImageRejected(reason string)
	RecordImageBytes(task, direction string, size int64)
}

var _ MetricsSink = (*metrics.Collector)(nil)

// Client is the inference adapter. It holds no per-request state and is
// safe to share: the configuration and HTTP client are read-only after
// construction.
type Client struct {
	cfg       Config
	client    *http.Client
	logger    *zap.Logger
	collector MetricsSink
}

// New creates an adapter client. A nil logger is replaced with a no-op
// logger.
func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = DefaultImageModel
	}
	if cfg.VisionModel == "" {
		cfg.VisionModel = DefaultVisionModel
	}
	if cfg.EmbedModel == "" {
		cfg.EmbedModel = DefaultEmbedModel
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		cfg:    cfg,
		client: tlsutil.SecureHTTPClient(timeout),
		logger: logger,
	}
}

// WithCollector attaches a metrics collector and returns the client.
func (c *Client) WithCollector(collector MetricsSink) *Client {
	c.collector = collector
	return c
}

// Name returns the provider name.
func (c *Client) Name() string { return providerName }

var (
	defaultClient *Client
	defaultOnce   sync.Once
)

// Default returns the process-wide client, lazily built from
// DefaultConfig on first use and reused thereafter. Creation is
// side-effect-free, so callers may also construct their own clients
// freely with New.
func Default() *Client {
	defaultOnce.Do(func() {
		defaultClient = New(DefaultConfig(), nil)
	})
	return defaultClient
}

// invoke posts the payload to the model's action endpoint ("invoke" or
// "converse") and decodes the response body into out. Failures come back
// classified: transport faults and undecodable bodies as the unexpected
// family, HTTP errors mapped by status.
func (c *Client) invoke(ctx context.Context, modelID, action string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &llm.Error{
			Code:     llm.ErrUnexpected,
			Message:  fmt.Sprintf("marshal request: %v", err),
			Provider: providerName,
		}
	}

	endpoint := fmt.Sprintf("%s/model/%s/%s",
		c.cfg.Endpoint(), url.PathEscape(modelID), action)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return &llm.Error{
			Code:     llm.ErrUnexpected,
			Message:  fmt.Sprintf("create request: %v", err),
			Provider: providerName,
		}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return &llm.Error{
			Code:       llm.ErrUnexpected,
			Message:    err.Error(),
			HTTPStatus: http.StatusBadGateway,
			Retryable:  true,
			Provider:   providerName,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg := readErrorMessage(resp.Body)
		return classifyHTTPError(resp.StatusCode, msg)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &llm.Error{
			Code:       llm.ErrMalformedResponse,
			Message:    fmt.Sprintf("decode response: %v", err),
			HTTPStatus: http.StatusBadGateway,
			Provider:   providerName,
		}
	}
	return nil
}

// observe records the outcome of one adapter call in logs and metrics.
func (c *Client) observe(task, model string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	if c.collector != nil {
		c.collector.RecordRequest(task, model, status, time.Since(start))
	}
	if err != nil {
		c.logger.Warn("inference request failed",
			zap.String("task", task),
			zap.String("model", model),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
	}
}

// newRequestID tags one adapter call in logs.
func newRequestID() string { return uuid.NewString() }
