package got

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	json "github.com/goccy/go-json"
)

// RequestBuilder provides a fluent API for constructing requests.
//
// Create a RequestBuilder using Client.Request(). The name passed to
// Request is the logical request name: issuing a new request under the
// same name cancels the previous in-flight one.
//
//	var out map[string]any
//	resp, err := client.Request("SaveUser").
//	    Path("/users").
//	    Body(user).
//	    Decode(&out).
//	    Post(ctx)
type RequestBuilder struct {
	client       *Client
	name         string
	endpoint     string
	path         string
	queryParams  url.Values
	headers      http.Header
	body         []byte
	bodyErr      error
	contentType  string
	result       any
	onlyResponse bool
	ignoreAbort  bool
	coalesce     bool
	maxRedirects int
	hints        *TransportHints
}

// Endpoint sets the absolute target URL, bypassing the client's base
// URL.
func (rb *RequestBuilder) Endpoint(endpoint string) *RequestBuilder {
	rb.endpoint = endpoint
	return rb
}

// Path sets the request path, appended to the client's base URL.
func (rb *RequestBuilder) Path(path string) *RequestBuilder {
	rb.path = path
	return rb
}

// Query adds a single query parameter.
func (rb *RequestBuilder) Query(key, value string) *RequestBuilder {
	if rb.queryParams == nil {
		rb.queryParams = make(url.Values)
	}
	rb.queryParams.Set(key, value)
	return rb
}

// Queries adds multiple query parameters.
func (rb *RequestBuilder) Queries(params map[string]string) *RequestBuilder {
	if rb.queryParams == nil {
		rb.queryParams = make(url.Values)
	}
	for k, v := range params {
		rb.queryParams.Set(k, v)
	}
	return rb
}

// Header sets a single request header.
func (rb *RequestBuilder) Header(key, value string) *RequestBuilder {
	rb.headers.Set(key, value)
	return rb
}

// Headers sets multiple request headers.
func (rb *RequestBuilder) Headers(headers map[string]string) *RequestBuilder {
	for k, v := range headers {
		rb.headers.Set(k, v)
	}
	return rb
}

// Body sets the request body with automatic content type detection.
//
// Encoding rules:
//   - string: raw text (Content-Type: text/plain)
//   - []byte: raw bytes (Content-Type: application/octet-stream)
//   - url.Values: form encoded (Content-Type: application/x-www-form-urlencoded)
//   - anything else: JSON (Content-Type: application/json)
//
// The body is captured as bytes so redirect hops can replay it.
func (rb *RequestBuilder) Body(v any) *RequestBuilder {
	if v == nil {
		return rb
	}

	switch body := v.(type) {
	case string:
		rb.body = []byte(body)
		rb.contentType = "text/plain; charset=utf-8"
	case []byte:
		rb.body = body
		rb.contentType = "application/octet-stream"
	case url.Values:
		rb.body = []byte(body.Encode())
		rb.contentType = "application/x-www-form-urlencoded"
	default:
		data, err := json.Marshal(v)
		if err != nil {
			rb.bodyErr = err
			return rb
		}
		rb.body = data
		rb.contentType = "application/json"
	}
	return rb
}

// BodyJSON explicitly encodes the body as JSON.
func (rb *RequestBuilder) BodyJSON(v any) *RequestBuilder {
	if v == nil {
		return rb
	}
	data, err := json.Marshal(v)
	if err != nil {
		rb.bodyErr = err
		return rb
	}
	rb.body = data
	rb.contentType = "application/json"
	return rb
}

// Decode sets the target for automatic response body decoding on
// success responses.
func (rb *RequestBuilder) Decode(v any) *RequestBuilder {
	rb.result = v
	return rb
}

// OnlyResponse leaves the response body unread so it can be streamed.
// By default the body is read and cached before the call returns.
func (rb *RequestBuilder) OnlyResponse() *RequestBuilder {
	rb.onlyResponse = true
	return rb
}

// IgnoreAbort skips supersession for this call even though a name was
// given: the call neither cancels nor registers an in-flight slot.
func (rb *RequestBuilder) IgnoreAbort() *RequestBuilder {
	rb.ignoreAbort = true
	return rb
}

// Coalesce shares one in-flight call among identical concurrent
// GET/HEAD requests on this client. Ignored for unsafe methods.
func (rb *RequestBuilder) Coalesce() *RequestBuilder {
	rb.coalesce = true
	return rb
}

// MaxRedirects overrides the client's redirect hop budget for this
// call.
func (rb *RequestBuilder) MaxRedirects(max int) *RequestBuilder {
	rb.maxRedirects = max
	return rb
}

// Hints overrides the fetch-style transport hints for this call.
func (rb *RequestBuilder) Hints(hints TransportHints) *RequestBuilder {
	rb.hints = &hints
	return rb
}

// Get executes a GET request.
func (rb *RequestBuilder) Get(ctx context.Context, path ...string) (*Response, error) {
	if len(path) > 0 {
		rb.path = path[0]
	}
	return rb.execute(ctx, http.MethodGet)
}

// Post executes a POST request.
func (rb *RequestBuilder) Post(ctx context.Context, path ...string) (*Response, error) {
	if len(path) > 0 {
		rb.path = path[0]
	}
	return rb.execute(ctx, http.MethodPost)
}

// Put executes a PUT request.
func (rb *RequestBuilder) Put(ctx context.Context, path ...string) (*Response, error) {
	if len(path) > 0 {
		rb.path = path[0]
	}
	return rb.execute(ctx, http.MethodPut)
}

// Patch executes a PATCH request.
func (rb *RequestBuilder) Patch(ctx context.Context, path ...string) (*Response, error) {
	if len(path) > 0 {
		rb.path = path[0]
	}
	return rb.execute(ctx, http.MethodPatch)
}

// Delete executes a DELETE request.
func (rb *RequestBuilder) Delete(ctx context.Context, path ...string) (*Response, error) {
	if len(path) > 0 {
		rb.path = path[0]
	}
	return rb.execute(ctx, http.MethodDelete)
}

// Head executes a HEAD request.
func (rb *RequestBuilder) Head(ctx context.Context, path ...string) (*Response, error) {
	if len(path) > 0 {
		rb.path = path[0]
	}
	return rb.execute(ctx, http.MethodHead)
}

// Do executes the request with an explicit method. An empty method
// selects the POST default.
func (rb *RequestBuilder) Do(ctx context.Context, method string) (*Response, error) {
	return rb.execute(ctx, method)
}

// execute compiles the builder into a Descriptor and delegates to the
// client.
func (rb *RequestBuilder) execute(ctx context.Context, method string) (*Response, error) {
	if rb.bodyErr != nil {
		return nil, rb.bodyErr
	}

	endpoint, err := rb.buildURL()
	if err != nil {
		return nil, err
	}

	headers := rb.headers.Clone()
	if headers == nil {
		headers = make(http.Header)
	}
	if rb.contentType != "" && headers.Get("Content-Type") == "" {
		headers.Set("Content-Type", rb.contentType)
	}

	return rb.client.Do(ctx, &Descriptor{
		Endpoint:     endpoint,
		Name:         rb.name,
		Method:       method,
		Header:       headers,
		Body:         rb.body,
		Hints:        rb.hints,
		OnlyResponse: rb.onlyResponse,
		IgnoreAbort:  rb.ignoreAbort,
		Coalesce:     rb.coalesce,
		MaxRedirects: rb.maxRedirects,
		Result:       rb.result,
	})
}

// buildURL constructs the full URL from endpoint or base URL + path,
// plus query params.
func (rb *RequestBuilder) buildURL() (string, error) {
	fullURL := rb.endpoint
	if fullURL == "" {
		if rb.client.baseURL != "" {
			fullURL = strings.TrimSuffix(rb.client.baseURL, "/") + "/" + strings.TrimPrefix(rb.path, "/")
		} else {
			fullURL = rb.path
		}
	}
	if fullURL == "" {
		return "", ErrMissingEndpoint
	}

	if len(rb.queryParams) > 0 {
		u, err := url.Parse(fullURL)
		if err != nil {
			return "", err
		}
		q := u.Query()
		for k, vs := range rb.queryParams {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
		fullURL = u.String()
	}

	return fullURL, nil
}
