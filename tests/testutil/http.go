package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// HTTPTestCase represents a test case for HTTP handler testing.
type HTTPTestCase struct {
	Name           string
	Method         string
	Path           string
	Body           any
	Headers        map[string]string
	ExpectedStatus int
	ExpectedBody   map[string]any
	Setup          func(t *testing.T, tc *TestContext)
	Validate       func(t *testing.T, tc *TestContext)
}

// RunHTTPTestCases runs each case as a subtest.
func RunHTTPTestCases(t *testing.T, handler gin.HandlerFunc, cases []HTTPTestCase) {
	t.Helper()

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			RunHTTPTestCase(t, handler, tc)
		})
	}
}

// RunHTTPTestCase calls handler directly with the request described by tc.
func RunHTTPTestCase(t *testing.T, handler gin.HandlerFunc, tc HTTPTestCase) {
	t.Helper()

	method := tc.Method
	if method == "" {
		method = http.MethodGet
	}
	path := tc.Path
	if path == "" {
		path = "/"
	}

	var body io.Reader
	if tc.Body != nil {
		body = ToJSONReader(t, tc.Body)
	}
	req := httptest.NewRequest(method, path, body)
	if tc.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range tc.Headers {
		req.Header.Set(k, v)
	}

	testCtx := NewTestContextWithRequest(t, req)
	if tc.Setup != nil {
		tc.Setup(t, testCtx)
	}

	handler(testCtx.Context)

	if tc.ExpectedStatus != 0 {
		assert.Equal(t, tc.ExpectedStatus, testCtx.Recorder.Code, "Unexpected status code")
	}
	if tc.ExpectedBody != nil {
		actual := JSONResponse(t, testCtx)
		for key, expected := range tc.ExpectedBody {
			assert.Equal(t, expected, actual[key], "Unexpected value for key: %s", key)
		}
	}
	if tc.Validate != nil {
		tc.Validate(t, testCtx)
	}
}

// JSONResponse parses the response body as a JSON object.
func JSONResponse(t *testing.T, tc *TestContext) map[string]any {
	t.Helper()
	return JSONResponseAs[map[string]any](t, tc)
}

// JSONResponseAs parses the response body into T.
func JSONResponseAs[T any](t *testing.T, tc *TestContext) T {
	t.Helper()

	var result T
	require.NoError(t, json.Unmarshal(tc.ResponseBody(), &result), "Failed to parse JSON response")
	return result
}

// AssertSuccessResponse asserts the body is a successful envelope.
func AssertSuccessResponse(t *testing.T, tc *TestContext) {
	t.Helper()

	resp := JSONResponse(t, tc)
	assert.Equal(t, true, resp["success"], "Expected success to be true")
	assert.Nil(t, resp["error"], "Expected no error")
}

// AssertErrorResponse asserts the body is an error envelope carrying expectedCode.
func AssertErrorResponse(t *testing.T, tc *TestContext, expectedCode string) {
	t.Helper()

	resp := JSONResponse(t, tc)
	assert.Equal(t, false, resp["success"], "Expected success to be false")

	errMap, ok := resp["error"].(map[string]any)
	require.True(t, ok, "Expected error object in response")
	assert.Equal(t, expectedCode, errMap["code"], "Unexpected error code")
}

// ToJSONReader marshals v into a reader.
func ToJSONReader(t *testing.T, v any) io.Reader {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err, "Failed to marshal JSON")
	return bytes.NewReader(data)
}
