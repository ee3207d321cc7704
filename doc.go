// Package got provides a request-orchestration layer on top of the
// standard HTTP client: automatic supersession of same-named in-flight
// requests, method-preserving redirect following bounded by a hop
// budget, and uniform classification of non-success responses into
// structured errors.
//
// # Features
//
//   - Named requests: issuing a new request under a name cancels the
//     previous in-flight one (last writer wins)
//   - POST redirects re-issued with the original method and body,
//     bounded by a per-request hop budget (default 5)
//   - Non-success responses raised as *ResponseError with status,
//     reason phrase, and best-effort parsed body
//   - GraphQL and REST shape builders over the same executor
//   - Coalescing of identical concurrent GET/HEAD requests
//   - OpenTelemetry tracing and metrics, zerolog debug logging
//
// # Quick Start
//
//	client := got.New(
//	    got.WithBaseURL("https://api.example.com"),
//	    got.WithServiceName("checkout"),
//	)
//
//	var out map[string]any
//	resp, err := client.Request("SaveCart").
//	    Path("/carts").
//	    Body(cart).
//	    Decode(&out).
//	    Post(ctx)
//
// Two calls issued under the same name race deliberately: the earlier
// one is cancelled and its caller receives an error satisfying
// got.IsSuperseded. Requests without a name are independent.
//
// # Error Handling
//
// Non-success responses never come back as a *Response; they are
// raised as *ResponseError carrying the parsed body:
//
//	resp, err := client.Request("GetUser").Get(ctx, "/users/42")
//	var respErr *got.ResponseError
//	if errors.As(err, &respErr) {
//	    log.Printf("%d %s: %v", respErr.StatusCode, respErr.StatusText, respErr.Body)
//	}
//
// Transport failures and cancellations pass through unchanged, so the
// two failure families stay distinguishable.
//
// # Redirects
//
// Transports demote POST to GET when following 301/302 automatically.
// POST requests therefore stop at each redirect and are re-issued by
// the executor with the original method, body, and headers, consuming
// one hop of budget per re-issue. An exhausted budget raises the
// synthetic *ResponseError 429 ERR_TOO_MANY_REDIRECTS. All other
// methods use the transport's own redirect handling.
//
// # GraphQL and REST Calls
//
//	_, err := client.GQL(ctx, got.GQLRequest{
//	    Query:    `query { viewer { login } }`,
//	    Endpoint: "https://api.example.com/graphql",
//	    Name:     "Viewer",
//	    Result:   &out,
//	})
//
//	_, err = client.REST(ctx, got.RESTRequest{
//	    Data:     map[string]any{"key": "value"},
//	    Endpoint: "https://api.example.com/data",
//	    Method:   "GET", // data goes to the query string
//	})
//
// # Testing
//
// MockTransport stubs responses, redirect chains, and errors without a
// network:
//
//	mock := got.NewMockTransport().
//	    StubRedirect("/redirect", "/data", 302).
//	    StubPathJSON("/data", 200, `{"ok":true}`)
//	client := got.New(got.WithMockTransport(mock))
package got
