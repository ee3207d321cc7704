package got

import (
	"context"
	"net/http"

	json "github.com/goccy/go-json"
)

// GQLRequest describes a GraphQL-shaped call. The query, variables,
// and operation name are serialized as the standard GraphQL JSON
// envelope and POSTed to the endpoint.
type GQLRequest struct {
	// Query is the GraphQL source document. Required.
	Query string

	// Variables holds the operation's variable values.
	Variables map[string]any

	// OperationName selects the operation when Query contains several.
	OperationName string

	// Endpoint is the absolute GraphQL endpoint URL. Required.
	Endpoint string

	// Name is the logical request name for supersession.
	Name string

	// Header holds extra request headers. Content-Type is always
	// forced to application/json.
	Header http.Header

	// OnlyResponse, IgnoreAbort, and MaxRedirects behave as on
	// Descriptor.
	OnlyResponse bool
	IgnoreAbort  bool
	MaxRedirects int

	// Result, when non-nil, receives the decoded response body.
	Result any
}

type gqlPayload struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
	OperationName string         `json:"operationName,omitempty"`
}

// GQL executes a GraphQL call.
//
//	var out struct {
//	    Data struct{ Viewer struct{ Login string } }
//	}
//	_, err := client.GQL(ctx, got.GQLRequest{
//	    Query:    `query { viewer { login } }`,
//	    Endpoint: "https://api.example.com/graphql",
//	    Name:     "Viewer",
//	    Result:   &out,
//	})
func (c *Client) GQL(ctx context.Context, req GQLRequest) (*Response, error) {
	if req.Query == "" {
		return nil, ErrMissingQuery
	}

	body, err := json.Marshal(gqlPayload{
		Query:         req.Query,
		Variables:     req.Variables,
		OperationName: req.OperationName,
	})
	if err != nil {
		return nil, err
	}

	header := cloneHeader(req.Header)
	header.Set("Content-Type", "application/json")

	return c.Do(ctx, &Descriptor{
		Endpoint:     req.Endpoint,
		Name:         req.Name,
		Method:       http.MethodPost,
		Header:       header,
		Body:         body,
		OnlyResponse: req.OnlyResponse,
		IgnoreAbort:  req.IgnoreAbort,
		MaxRedirects: req.MaxRedirects,
		Result:       req.Result,
	})
}
