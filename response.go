package got

import (
	"io"
	"net/http"

	json "github.com/goccy/go-json"
)

// Response wraps http.Response with cached body reading and JSON
// decoding helpers.
//
// Unless OnlyResponse was requested, the executor reads and caches the
// body before returning, so Bytes, String, JSON, and Decode all
// operate on the cache and can be called any number of times.
//
// Example:
//
//	var out map[string]any
//	resp, err := client.Request("SaveItem").
//	    Endpoint("https://api.example.com/items").
//	    Body(item).
//	    Decode(&out).
//	    Post(ctx)
type Response struct {
	// Response embeds the standard http.Response.
	// All http.Response fields and methods are accessible directly.
	*http.Response

	// body is the cached response body, populated on first read.
	body []byte

	// bodyRead tracks whether the body stream has been consumed.
	bodyRead bool
}

func newResponse(resp *http.Response) *Response {
	return &Response{Response: resp}
}

// Bytes returns the response body, reading and caching it on first
// access.
func (r *Response) Bytes() ([]byte, error) {
	if r.bodyRead {
		return r.body, nil
	}

	defer r.Response.Body.Close()
	body, err := io.ReadAll(r.Response.Body)
	if err != nil {
		return nil, err
	}

	r.body = body
	r.bodyRead = true
	return r.body, nil
}

// String returns the response body as a string.
func (r *Response) String() (string, error) {
	body, err := r.Bytes()
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// JSON decodes the response body into a generic value.
func (r *Response) JSON() (any, error) {
	var v any
	if err := r.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// Decode unmarshals the response body into v. An empty body leaves v
// untouched.
func (r *Response) Decode(v any) error {
	body, err := r.Bytes()
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, v)
}

// IsSuccess returns true if the response status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsError returns true if the response status code is 4xx or 5xx.
func (r *Response) IsError() bool {
	return r.StatusCode >= 400
}

// clone returns a shallow copy sharing the cached body. Used to hand
// each coalesced waiter its own wrapper.
func (r *Response) clone() *Response {
	cp := *r
	return &cp
}
