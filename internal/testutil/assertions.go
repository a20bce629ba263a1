package testutil

import (
	"io"
	"net/http"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ErrorBody matches the API failure envelope
type ErrorBody struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors"`
}

// AssertStatusCode verifies the HTTP response status code
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	assert.Equal(t, expected, resp.StatusCode, "unexpected status code")
}

// AssertJSONResponse decodes JSON response into v
func AssertJSONResponse(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	err = json.Unmarshal(body, v)
	require.NoError(t, err, "failed to unmarshal response: %s", string(body))
}

// DecodeData decodes a success envelope and returns its data
func DecodeData[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var env Envelope[T]
	AssertJSONResponse(t, resp, &env)
	assert.True(t, env.Success, "expected a success envelope")
	assert.Equal(t, resp.StatusCode, env.StatusCode, "envelope status mismatch")
	return env.Data
}

// AssertErrorResponse verifies the failure envelope with expected status and message
func AssertErrorResponse(t *testing.T, resp *http.Response, expectedStatus int, expectedMessage string) {
	t.Helper()

	assert.Equal(t, expectedStatus, resp.StatusCode, "unexpected status code")

	var body ErrorBody
	AssertJSONResponse(t, resp, &body)
	assert.Equal(t, expectedStatus, body.StatusCode, "envelope status mismatch")
	assert.False(t, body.Success)
	assert.Contains(t, body.Message, expectedMessage, "error message mismatch")
}

// AssertNoCredentials fails when a raw body carries password or token fields
func AssertNoCredentials(t *testing.T, body []byte) {
	t.Helper()

	for _, key := range []string{`"password"`, `"passwordHash"`, `"refreshToken"`} {
		assert.NotContains(t, string(body), key, "response leaks %s", key)
	}
}
