package llm

import "errors"

// ErrorCode classifies adapter failures for HTTP-status alignment,
// retryability marking, and caller-side branching.
type ErrorCode string

const (
	// Validation family: detected locally, before any network call.
	ErrValidation   ErrorCode = "GENAI_VALIDATION"    // size/format/range precondition violated
	ErrInvalidModel ErrorCode = "GENAI_INVALID_MODEL" // model id not in the allow-list

	// Provider family: the remote endpoint rejected or failed the request.
	ErrInvalidRequest  ErrorCode = "GENAI_INVALID_REQUEST"  // malformed request per the provider
	ErrUnauthorized    ErrorCode = "GENAI_UNAUTHORIZED"     // missing or invalid credentials
	ErrForbidden       ErrorCode = "GENAI_FORBIDDEN"        // permission or content policy refusal
	ErrThrottled       ErrorCode = "GENAI_THROTTLED"        // upstream rate limiting
	ErrQuotaExceeded   ErrorCode = "GENAI_QUOTA_EXCEEDED"   // account quota exhausted
	ErrModelOverloaded ErrorCode = "GENAI_MODEL_OVERLOADED" // model capacity exhausted
	ErrUpstreamError   ErrorCode = "GENAI_UPSTREAM_ERROR"   // upstream 5xx

	// Unexpected family: transport faults and undecodable responses.
	ErrUnexpected        ErrorCode = "GENAI_UNEXPECTED"
	ErrMalformedResponse ErrorCode = "GENAI_MALFORMED_RESPONSE"
)

type Error struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	HTTPStatus int       `json:"http_status,omitempty"`
	Retryable  bool      `json:"retryable"`
	Provider   string    `json:"provider,omitempty"`
}

func (e *Error) Error() string { return e.Message }

// AsError unwraps err into *Error if it is one.
func AsError(err error) (*Error, bool) {
	var le *Error
	if errors.As(err, &le) {
		return le, true
	}
	return nil, false
}

// IsValidation reports whether err is a local precondition failure.
func IsValidation(err error) bool {
	le, ok := AsError(err)
	return ok && (le.Code == ErrValidation || le.Code == ErrInvalidModel)
}

// IsProvider reports whether err is a recognized remote-service failure.
func IsProvider(err error) bool {
	le, ok := AsError(err)
	if !ok {
		return false
	}
	switch le.Code {
	case ErrInvalidRequest, ErrUnauthorized, ErrForbidden, ErrThrottled,
		ErrQuotaExceeded, ErrModelOverloaded, ErrUpstreamError:
		return true
	}
	return false
}

// IsUnexpected reports whether err is a transport fault or a response the
// adapter could not decode.
func IsUnexpected(err error) bool {
	le, ok := AsError(err)
	return ok && (le.Code == ErrUnexpected || le.Code == ErrMalformedResponse)
}
