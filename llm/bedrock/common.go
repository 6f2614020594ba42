package bedrock

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/UrikGon/gen-ai-workshop/llm"
)

const providerName = "bedrock"

// classifyHTTPError maps an HTTP status to an llm.Error with the proper
// retryable marking. Retryable is advisory only: the adapter itself never
// retries.
func classifyHTTPError(status int, msg string) *llm.Error {
	switch status {
	case http.StatusUnauthorized:
		return &llm.Error{
			Code:       llm.ErrUnauthorized,
			Message:    msg,
			HTTPStatus: status,
			Provider:   providerName,
		}
	case http.StatusForbidden:
		return &llm.Error{
			Code:       llm.ErrForbidden,
			Message:    msg,
			HTTPStatus: status,
			Provider:   providerName,
		}
	case http.StatusTooManyRequests:
		return &llm.Error{
			Code:       llm.ErrThrottled,
			Message:    msg,
			HTTPStatus: status,
			Retryable:  true,
			Provider:   providerName,
		}
	case http.StatusBadRequest:
		msgLower := strings.ToLower(msg)
		if strings.Contains(msgLower, "quota") ||
			strings.Contains(msgLower, "credit") ||
			strings.Contains(msgLower, "limit") {
			return &llm.Error{
				Code:       llm.ErrQuotaExceeded,
				Message:    msg,
				HTTPStatus: status,
				Provider:   providerName,
			}
		}
		return &llm.Error{
			Code:       llm.ErrInvalidRequest,
			Message:    msg,
			HTTPStatus: status,
			Provider:   providerName,
		}
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return &llm.Error{
			Code:       llm.ErrUpstreamError,
			Message:    msg,
			HTTPStatus: status,
			Retryable:  true,
			Provider:   providerName,
		}
	case 529: // model overloaded
		return &llm.Error{
			Code:       llm.ErrModelOverloaded,
			Message:    msg,
			HTTPStatus: status,
			Retryable:  true,
			Provider:   providerName,
		}
	default:
		return &llm.Error{
			Code:       llm.ErrUpstreamError,
			Message:    msg,
			HTTPStatus: status,
			Retryable:  status >= 500,
			Provider:   providerName,
		}
	}
}

// readErrorMessage extracts the error message from a failed response body,
// falling back to the raw text when it is not the service's JSON error
// shape.
func readErrorMessage(body io.Reader) string {
	data, err := io.ReadAll(body)
	if err != nil {
		return "failed to read error response"
	}

	var errResp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &errResp); err == nil && errResp.Message != "" {
		return errResp.Message
	}
	return string(data)
}
