package got

import (
	"context"
	"net/http"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGQL_PayloadShape(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport().StubJSON(200, `{"data":{"user":{"id":"u1"}}}`)
	client := New(WithMockTransport(mock))

	var out map[string]any
	resp, err := client.GQL(context.Background(), GQLRequest{
		Query:         `query GetUser($id: ID!) { user(id: $id) { id } }`,
		Variables:     map[string]any{"id": "u1"},
		OperationName: "GetUser",
		Endpoint:      "http://example.invalid/graphql",
		Name:          "GetUser",
		Result:        &out,
	})

	require.NoError(t, err)
	assert.True(t, resp.IsSuccess())
	assert.Equal(t, map[string]any{
		"data": map[string]any{"user": map[string]any{"id": "u1"}},
	}, out)

	req := mock.LastRequest()
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))

	var payload map[string]any
	require.NoError(t, json.Unmarshal(mock.Bodies()[0], &payload))
	assert.Equal(t, `query GetUser($id: ID!) { user(id: $id) { id } }`, payload["query"])
	assert.Equal(t, map[string]any{"id": "u1"}, payload["variables"])
	assert.Equal(t, "GetUser", payload["operationName"])
}

func TestGQL_OmitsEmptyVariablesAndOperationName(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport().StubJSON(200, `{"data":null}`)
	client := New(WithMockTransport(mock))

	_, err := client.GQL(context.Background(), GQLRequest{
		Query:    `{ viewer { login } }`,
		Endpoint: "http://example.invalid/graphql",
	})
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(mock.Bodies()[0], &payload))
	assert.Contains(t, payload, "query")
	assert.NotContains(t, payload, "variables")
	assert.NotContains(t, payload, "operationName")
}

func TestGQL_ContentTypeIsForced(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport().StubJSON(200, `{"data":null}`)
	client := New(WithMockTransport(mock))

	header := make(http.Header)
	header.Set("Content-Type", "text/plain")
	header.Set("Authorization", "Bearer token")

	_, err := client.GQL(context.Background(), GQLRequest{
		Query:    `{ viewer { login } }`,
		Endpoint: "http://example.invalid/graphql",
		Header:   header,
	})
	require.NoError(t, err)

	req := mock.LastRequest()
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.Equal(t, "Bearer token", req.Header.Get("Authorization"))
}

func TestGQL_MissingQuery(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport().StubJSON(200, `{"data":null}`)
	client := New(WithMockTransport(mock))

	_, err := client.GQL(context.Background(), GQLRequest{
		Endpoint: "http://example.invalid/graphql",
	})

	assert.ErrorIs(t, err, ErrMissingQuery)
	assert.Equal(t, 0, mock.RequestCount())
}

func TestGQL_NonSuccessClassified(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport().StubJSON(500, `{"errors":[{"message":"boom"}]}`)
	client := New(WithMockTransport(mock))

	_, err := client.GQL(context.Background(), GQLRequest{
		Query:    `{ viewer { login } }`,
		Endpoint: "http://example.invalid/graphql",
	})

	respErr, ok := AsResponseError(err)
	require.True(t, ok)
	assert.Equal(t, 500, respErr.StatusCode)
	assert.Equal(t, map[string]any{
		"errors": []any{map[string]any{"message": "boom"}},
	}, respErr.Body)
}
