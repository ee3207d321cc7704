package got

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func errorResponse(statusCode int, contentType, body string) *http.Response {
	header := make(http.Header)
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	return &http.Response{
		StatusCode: statusCode,
		Status:     http.StatusText(statusCode),
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestClassify_JSONBody(t *testing.T) {
	t.Parallel()

	resp := errorResponse(500, "application/json",
		`{"status":500,"error":"Internal Server Error"}`)

	respErr := classify(resp)

	assert.Equal(t, 500, respErr.StatusCode)
	assert.Equal(t, "Internal Server Error", respErr.StatusText)
	assert.Equal(t, "Internal Server Error", respErr.Error())
	assert.Equal(t, map[string]any{
		"status": float64(500),
		"error":  "Internal Server Error",
	}, respErr.Body)
}

func TestClassify_JSONContentTypeMatchIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	resp := errorResponse(400, "Application/JSON; charset=utf-8", `{"reason":"bad"}`)

	respErr := classify(resp)

	assert.Equal(t, map[string]any{"reason": "bad"}, respErr.Body)
}

func TestClassify_PlainTextBody(t *testing.T) {
	t.Parallel()

	resp := errorResponse(401, "text/plain", "Unauthorized")

	respErr := classify(resp)

	assert.Equal(t, 401, respErr.StatusCode)
	assert.Equal(t, "Unauthorized", respErr.StatusText)
	assert.Equal(t, "Unauthorized", respErr.Body)
}

func TestClassify_TextThatParsesAsJSON(t *testing.T) {
	t.Parallel()

	// Unlabeled bodies still get a parse attempt before the raw-text
	// fallback.
	resp := errorResponse(422, "text/plain", `{"field":"name"}`)

	respErr := classify(resp)

	assert.Equal(t, map[string]any{"field": "name"}, respErr.Body)
}

func TestClassify_MalformedJSONBodyDegrades(t *testing.T) {
	t.Parallel()

	resp := errorResponse(502, "application/json", `{"broken":`)

	respErr := classify(resp)

	// Labeled JSON that does not parse leaves the body unset rather
	// than raising a secondary error.
	assert.Equal(t, 502, respErr.StatusCode)
	assert.Nil(t, respErr.Body)
}

func TestClassify_EmptyBody(t *testing.T) {
	t.Parallel()

	resp := errorResponse(404, "", "")

	respErr := classify(resp)

	assert.Equal(t, 404, respErr.StatusCode)
	assert.Equal(t, "Not Found", respErr.StatusText)
	assert.Nil(t, respErr.Body)
}

func TestClassify_DrainsAndClosesBody(t *testing.T) {
	t.Parallel()

	body := &trackingBody{Reader: strings.NewReader("server exploded in a non-JSON way")}
	resp := &http.Response{
		StatusCode: 500,
		Status:     "500 Internal Server Error",
		Header:     make(http.Header),
		Body:       body,
	}

	_ = classify(resp)

	assert.True(t, body.exhausted, "body must be read to exhaustion")
	assert.True(t, body.closed, "body must be closed")
}

func TestReasonPhrase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status string
		code   int
		want   string
	}{
		{
			name:   "given_full_status_line,_then_phrase_extracted",
			status: "404 Not Found",
			code:   404,
			want:   "Not Found",
		},
		{
			name:   "given_empty_status,_then_canonical_text",
			status: "",
			code:   503,
			want:   "Service Unavailable",
		},
		{
			name:   "given_status_without_code_prefix,_then_canonical_text",
			status: "Teapot",
			code:   418,
			want:   "I'm a teapot",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resp := &http.Response{StatusCode: tt.code, Status: tt.status}
			assert.Equal(t, tt.want, reasonPhrase(resp))
		})
	}
}

// trackingBody records whether it was fully read and closed.
type trackingBody struct {
	Reader    io.Reader
	exhausted bool
	closed    bool
}

func (b *trackingBody) Read(p []byte) (int, error) {
	n, err := b.Reader.Read(p)
	if err == io.EOF {
		b.exhausted = true
	}
	return n, err
}

func (b *trackingBody) Close() error {
	b.closed = true
	return nil
}

func TestDrainAndClose(t *testing.T) {
	t.Parallel()

	body := &trackingBody{Reader: strings.NewReader("leftovers")}
	resp := &http.Response{Body: body}

	drainAndClose(resp)

	require.True(t, body.exhausted)
	require.True(t, body.closed)

	// Nil-safe.
	drainAndClose(nil)
	drainAndClose(&http.Response{})
}
