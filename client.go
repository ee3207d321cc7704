package got

import (
	"net/http"

	"golang.org/x/sync/singleflight"
)

// Client orchestrates outbound HTTP requests: same-named in-flight
// requests are superseded, POST redirects are re-issued with the
// original method and body under a bounded hop budget, and non-success
// responses are raised as *ResponseError.
//
// Create a Client using New():
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
type Client struct {
	// follow sends with the transport's automatic redirect handling.
	follow *http.Client

	// manual stops at the first redirect so the executor can re-issue
	// POST requests itself, preserving method and body.
	manual *http.Client

	// config holds all client configuration.
	config *internalConfig

	// baseURL is prepended to builder paths.
	baseURL string

	// pending tracks one cancellation slot per logical request name.
	pending *coordinator

	// budget tracks redirect hops per logical request.
	budget *redirectBudget

	// flight coalesces identical concurrent safe-method requests.
	flight singleflight.Group
}

// New creates a Client with the documented defaults: method POST,
// redirect budget of 5 hops, transport hints mode=cors,
// credentials=include, redirect=follow,
// referrer-policy=no-referrer-when-downgrade.
//
// Supersession and redirect state is owned by the returned instance;
// independent clients never cancel each other's requests.
func New(opts ...Option) *Client {
	cfg := newConfig(opts...)

	transport := cfg.Transport
	if cfg.MockTransport != nil {
		transport = cfg.MockTransport
	}
	if transport == nil {
		transport = http.DefaultTransport
	}

	follow := cfg.HTTPClient
	if follow == nil {
		follow = &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		}
	} else if cfg.MockTransport != nil {
		follow.Transport = cfg.MockTransport
	}

	manual := &http.Client{
		Transport: follow.Transport,
		Timeout:   follow.Timeout,
		Jar:       follow.Jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &Client{
		follow:  follow,
		manual:  manual,
		config:  cfg,
		baseURL: cfg.BaseURL,
		pending: newCoordinator(cfg.Logger, cfg.Debug),
		budget:  newRedirectBudget(),
	}
}

// HTTP returns the underlying auto-follow *http.Client for advanced
// use cases, such as passing it to libraries expecting *http.Client.
// Requests issued through it bypass supersession, redirect re-issue,
// and error classification.
func (c *Client) HTTP() *http.Client {
	return c.follow
}

// Request creates a RequestBuilder under the given logical request
// name. Issuing a new request under a name cancels any request still
// in flight under it; the empty name opts out of supersession.
func (c *Client) Request(name string) *RequestBuilder {
	return &RequestBuilder{
		client:  c,
		name:    name,
		headers: make(http.Header),
	}
}
