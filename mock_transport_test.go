package got

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockTransport_StubOrder(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport().
		StubPath("/users", 200, `[]`).
		StubPath("/users", 500, `never reached`).
		StubResponse(404, `fallback`)
	client := New(WithMockTransport(mock))

	// First matching stub wins.
	resp, err := client.Request("").
		Endpoint("http://example.invalid/users").
		Get(context.Background())
	require.NoError(t, err)
	body, err := resp.String()
	require.NoError(t, err)
	assert.Equal(t, `[]`, body)

	// Unmatched paths fall through to the default stub.
	_, err = client.Request("").
		Endpoint("http://example.invalid/missing").
		Get(context.Background())
	respErr, ok := AsResponseError(err)
	require.True(t, ok)
	assert.Equal(t, 404, respErr.StatusCode)
}

func TestMockTransport_NoStubFails(t *testing.T) {
	t.Parallel()

	client := New(WithMockTransport(NewMockTransport()))

	_, err := client.Request("").
		Endpoint("http://example.invalid/data").
		Get(context.Background())

	require.Error(t, err)
	assert.ErrorContains(t, err, "no stub found")
}

func TestMockTransport_RecordsRequestsAndBodies(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport().StubJSON(200, `{}`)
	client := New(WithMockTransport(mock))

	_, err := client.Request("").
		Endpoint("http://example.invalid/a").
		Body("first").
		Post(context.Background())
	require.NoError(t, err)

	_, err = client.Request("").
		Endpoint("http://example.invalid/b").
		Body("second").
		Post(context.Background())
	require.NoError(t, err)

	require.Equal(t, 2, mock.RequestCount())
	assert.Equal(t, "/a", mock.Requests()[0].URL.Path)
	assert.Equal(t, "/b", mock.Requests()[1].URL.Path)
	assert.Equal(t, "first", string(mock.Bodies()[0]))
	assert.Equal(t, "second", string(mock.Bodies()[1]))
	assert.Equal(t, "/b", mock.LastRequest().URL.Path)
}

func TestMockTransport_StubFuncError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	mock := NewMockTransport().
		StubFuncError(func(req *http.Request) bool {
			return req.URL.Path == "/broken"
		}, boom).
		StubJSON(200, `{}`)
	client := New(WithMockTransport(mock))

	_, err := client.Request("").
		Endpoint("http://example.invalid/broken").
		Get(context.Background())
	assert.ErrorIs(t, err, boom)

	_, err = client.Request("").
		Endpoint("http://example.invalid/fine").
		Get(context.Background())
	assert.NoError(t, err)
}

func TestMockTransport_RedirectChain(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport().
		StubRedirect("/start", "/data", 302).
		StubPathJSON("/data", 200, `{"ok":true}`)
	client := New(WithMockTransport(mock))

	var out map[string]any
	resp, err := client.Request("op").
		Endpoint("http://example.invalid/start").
		Body(map[string]any{"value": 1}).
		Decode(&out).
		Post(context.Background())

	require.NoError(t, err)
	assert.True(t, resp.IsSuccess())
	assert.Equal(t, map[string]any{"ok": true}, out)

	// Both hops carry the original method and body.
	require.Equal(t, 2, mock.RequestCount())
	for i, req := range mock.Requests() {
		assert.Equal(t, http.MethodPost, req.Method, "hop %d", i)
		assert.JSONEq(t, `{"value":1}`, string(mock.Bodies()[i]), "hop %d", i)
	}
}

func TestMockTransport_Reset(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport().StubJSON(200, `{}`)
	client := New(WithMockTransport(mock))

	_, err := client.Request("").
		Endpoint("http://example.invalid/data").
		Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, mock.RequestCount())

	mock.Reset()

	assert.Equal(t, 0, mock.RequestCount())
	assert.Nil(t, mock.LastRequest())

	_, err = client.Request("").
		Endpoint("http://example.invalid/data").
		Get(context.Background())
	assert.ErrorContains(t, err, "no stub found")
}
