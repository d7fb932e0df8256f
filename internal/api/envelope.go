package api

import (
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// envelopeVersion is bumped when the envelope structure itself changes.
// Clients check it before interpreting the rest of the response.
const envelopeVersion = 1

// Envelope is the uniform wrapper around every response body. Success
// responses carry data; error responses carry either a bare error string or a
// coded error with message and details.
type Envelope struct {
	V       int    `json:"v" doc:"Envelope version"`
	Success bool   `json:"success" doc:"Whether the request succeeded"`
	Data    any    `json:"data,omitzero" doc:"Response payload on success"`
	Error   string `json:"error,omitzero" doc:"Error message on simple failures"`
	Code    string `json:"code,omitzero" doc:"Machine-readable error code"`
	Message string `json:"message,omitzero" doc:"Human-readable error message"`
	Details any    `json:"details,omitzero" doc:"Additional error details"`
}

// EnvelopeTransformer wraps every outgoing body in the response envelope.
// Registered as a huma transformer, so handlers return plain payloads.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	if apiErr, ok := v.(*APIError); ok {
		env := &Envelope{V: envelopeVersion}
		if apiErr.Code == "" && apiErr.Details == nil {
			env.Error = apiErr.Message
		} else {
			env.Code = apiErr.Code
			env.Message = apiErr.Message
			env.Details = apiErr.Details
		}
		return env, nil
	}

	return &Envelope{
		V:       envelopeVersion,
		Success: strings.HasPrefix(status, "2"),
		Data:    v,
	}, nil
}
