package api

import (
	"encoding/json/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// roundTrip marshals the transformer output and decodes it as a loose map so
// assertions see exactly what a client would.
func roundTrip(t *testing.T, status string, v any) map[string]any {
	t.Helper()

	result, err := EnvelopeTransformer(nil, status, v)
	require.NoError(t, err)

	raw, err := json.Marshal(result)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestEnvelopeTransformer_Success(t *testing.T) {
	out := roundTrip(t, "200", map[string]string{"id": "abc"})

	assert.Equal(t, float64(envelopeVersion), out["v"])
	assert.Equal(t, true, out["success"])
	assert.Contains(t, out, "data")
	assert.NotContains(t, out, "error")
}

func TestEnvelopeTransformer_SuccessNilData(t *testing.T) {
	out := roundTrip(t, "204", nil)

	assert.Equal(t, true, out["success"])
	assert.NotContains(t, out, "data")
}

func TestEnvelopeTransformer_SimpleError(t *testing.T) {
	out := roundTrip(t, "404", &APIError{Message: "Resource not found"})

	assert.Equal(t, false, out["success"])
	assert.Equal(t, "Resource not found", out["error"])
	assert.NotContains(t, out, "data")
}

func TestEnvelopeTransformer_CodedError(t *testing.T) {
	out := roundTrip(t, "409", &APIError{Code: "CONFLICT", Message: "Entity already exists"})

	assert.Equal(t, false, out["success"])
	assert.Equal(t, "CONFLICT", out["code"])
	assert.Equal(t, "Entity already exists", out["message"])
}

// The version field is named exactly "v". Clients key off it, so a rename to
// "version" would break them silently.
func TestEnvelopeTransformer_VersionFieldName(t *testing.T) {
	out := roundTrip(t, "200", nil)

	assert.Contains(t, out, "v")
	assert.NotContains(t, out, "version")
}
