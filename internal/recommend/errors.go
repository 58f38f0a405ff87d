package recommend

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUpstream     = errors.New("upstream model failure")
)

const (
	ErrorCodeInvalidJSON      = "invalid_json"
	ErrorCodeInvalidInput     = "invalid_input"
	ErrorCodeUpstream         = "upstream_error"
	ErrorCodeLLMNotConfigured = "llm_not_configured"
	ErrorCodeInternal         = "internal_error"
)
