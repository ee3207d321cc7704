package got

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Descriptor is a fully specified outbound request. The fluent builder
// and the GQL/REST shape builders all compile down to one of these;
// use it directly when constructing requests programmatically.
type Descriptor struct {
	// Endpoint is the absolute target URL. Required.
	Endpoint string

	// Name is the logical request name used for supersession and the
	// shared redirect budget. Empty means no deduplication.
	Name string

	// Method defaults to POST.
	Method string

	// Header holds the request headers, merged over the client's
	// default headers.
	Header http.Header

	// Body is the request payload. It must be replayable, so it is a
	// byte slice rather than a reader: redirect hops re-send it.
	Body []byte

	// Hints are fetch-style transport options passed through unchanged.
	// Nil selects the documented defaults.
	Hints *TransportHints

	// OnlyResponse leaves the response body unread for streaming
	// consumers. By default the body is read and cached before Do
	// returns.
	OnlyResponse bool

	// IgnoreAbort skips supersession for this call even when Name is
	// set.
	IgnoreAbort bool

	// Coalesce shares one in-flight call among identical concurrent
	// GET/HEAD requests.
	Coalesce bool

	// MaxRedirects bounds the POST redirect re-issue budget.
	// Non-positive selects the client default.
	MaxRedirects int

	// Result, when non-nil, receives the decoded JSON body of a
	// success response.
	Result any
}

// applyDefaults layers the client configuration under the per-call
// values. Precedence, lowest to highest: package defaults, client
// options, descriptor fields.
func (d *Descriptor) applyDefaults(cfg *internalConfig) {
	if d.Method == "" {
		d.Method = DefaultMethod
	}
	if d.MaxRedirects <= 0 {
		d.MaxRedirects = cfg.MaxRedirects
	}
	if d.Hints == nil {
		hints := defaultHints()
		d.Hints = &hints
	}

	merged := make(http.Header, len(cfg.DefaultHeaders)+len(d.Header))
	for k, vs := range cfg.DefaultHeaders {
		for _, v := range vs {
			merged.Add(k, v)
		}
	}
	for k, vs := range d.Header {
		merged[http.CanonicalHeaderKey(k)] = vs
	}
	d.Header = merged
}

// Do executes the descriptor: acquire the supersession slot, send,
// follow POST redirects within budget, classify non-success responses.
// Slot and budget state is released on every exit path.
//
// Errors: *ResponseError for non-success responses and the exhausted
// redirect budget; an error wrapping ErrSuperseded when a same-named
// successor cancelled this call; transport errors unchanged otherwise.
func (c *Client) Do(ctx context.Context, d *Descriptor) (*Response, error) {
	if d == nil || d.Endpoint == "" {
		return nil, ErrMissingEndpoint
	}
	d.applyDefaults(c.config)

	if d.Coalesce && isSafeMethod(d.Method) {
		return c.coalesced(ctx, d)
	}
	return c.do(ctx, d)
}

func (c *Client) do(ctx context.Context, d *Descriptor) (*Response, error) {
	cfg := c.config

	attrs := append(cfg.baseAttributes(),
		attribute.String("http.request.method", d.Method),
		attribute.String("got.request.name", d.Name),
	)

	ctx, span := cfg.tracer.Start(ctx, spanName(d), trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	var sl *pendingSlot
	if !d.IgnoreAbort {
		ctx, sl = c.pending.acquire(ctx, d.Name)
	}

	// Unnamed requests never share a hop counter.
	budgetKey := d.Name
	if budgetKey == "" {
		budgetKey = uuid.NewString()
	}

	defer func() {
		c.pending.release(d.Name, sl)
		c.budget.forget(budgetKey)
	}()

	cfg.metrics.recordActiveRequestStart(ctx, attrs)
	defer cfg.metrics.recordActiveRequestEnd(ctx, attrs)

	start := time.Now()
	defer func() {
		cfg.metrics.recordRequestDuration(ctx, time.Since(start), attrs)
	}()

	endpoint := d.Endpoint
	for {
		resp, err := c.send(ctx, d, endpoint)
		if err != nil {
			err = asSupersessionError(ctx, err)
			if IsSuperseded(err) {
				cfg.metrics.recordSuperseded(ctx, attrs)
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}

		if shouldReissue(resp, d.Method) {
			hop, ok := c.budget.nextHop(budgetKey, d.MaxRedirects)
			if !ok {
				drainAndClose(resp)
				cfg.metrics.recordRedirectExhausted(ctx, attrs)
				respErr := errTooManyRedirects()
				span.SetStatus(codes.Error, respErr.Error())
				return nil, respErr
			}

			location, locErr := redirectLocation(resp)
			drainAndClose(resp)
			if locErr != nil {
				span.RecordError(locErr)
				span.SetStatus(codes.Error, locErr.Error())
				return nil, locErr
			}

			cfg.metrics.recordRedirectHop(ctx, attrs, hop)
			span.AddEvent("http.redirect", trace.WithAttributes(
				attribute.Int("redirect.hop", hop),
				attribute.String("redirect.location", location),
			))
			if cfg.Debug {
				logRedirect(cfg.Logger, d.Name, hop, location)
			}

			endpoint = location
			continue
		}

		span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			respErr := classify(resp)
			cfg.metrics.recordResponseError(ctx, attrs, respErr.StatusCode)
			span.SetStatus(codes.Error, respErr.Error())
			return nil, respErr
		}

		r := newResponse(resp)
		if !d.OnlyResponse {
			if _, err := r.Bytes(); err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return nil, err
			}
			if d.Result != nil {
				if err := r.Decode(d.Result); err != nil {
					return r, err
				}
			}
		}
		return r, nil
	}
}

// send issues one attempt. POST goes through the redirect-manual
// client so the executor sees each 3xx itself; everything else keeps
// the transport's automatic redirect handling.
func (c *Client) send(ctx context.Context, d *Descriptor, endpoint string) (*http.Response, error) {
	ctx = withHints(ctx, *d.Hints)

	var body io.Reader
	if len(d.Body) > 0 {
		body = bytes.NewReader(d.Body)
	}

	req, err := http.NewRequestWithContext(ctx, d.Method, endpoint, body)
	if err != nil {
		return nil, err
	}
	for k, vs := range d.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	if c.config.Debug {
		logRequest(c.config.Logger, req, d.Name)
	}

	httpClient := c.follow
	if strings.EqualFold(d.Method, http.MethodPost) {
		httpClient = c.manual
	}

	start := time.Now()
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if c.config.Debug {
		logResponse(c.config.Logger, resp, time.Since(start), d.Name)
	}
	return resp, nil
}

// asSupersessionError maps a transport abort caused by a same-named
// successor onto ErrSuperseded. Every other transport error passes
// through unchanged.
func asSupersessionError(ctx context.Context, err error) error {
	if errors.Is(context.Cause(ctx), ErrSuperseded) {
		return fmt.Errorf("%w: %w", ErrSuperseded, err)
	}
	return err
}

func spanName(d *Descriptor) string {
	if d.Name != "" {
		return "HTTP " + d.Method + " " + d.Name
	}
	return "HTTP " + d.Method
}

// cloneHeader returns a nil-safe copy of h.
func cloneHeader(h http.Header) http.Header {
	if h == nil {
		return make(http.Header)
	}
	return h.Clone()
}
