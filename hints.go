package got

import "context"

// TransportHints carries fetch-style transport options (CORS mode,
// credential inclusion, redirect and referrer policies). The
// orchestration layer does not interpret them: they are attached to
// the outgoing request's context unchanged, for hint-aware
// RoundTrippers such as browser bridges or proxy transports. The
// standard library transport ignores them.
type TransportHints struct {
	Mode           string
	Credentials    string
	Redirect       string
	ReferrerPolicy string
}

// defaultHints returns the documented transport defaults applied when
// a request specifies none.
func defaultHints() TransportHints {
	return TransportHints{
		Mode:           "cors",
		Credentials:    "include",
		Redirect:       "follow",
		ReferrerPolicy: "no-referrer-when-downgrade",
	}
}

type hintsContextKey struct{}

func withHints(ctx context.Context, hints TransportHints) context.Context {
	return context.WithValue(ctx, hintsContextKey{}, hints)
}

// HintsFromContext returns the transport hints attached to an outgoing
// request's context. Custom transports use this to honor the hints the
// caller supplied.
//
//	func (t *bridgeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
//	    if hints, ok := got.HintsFromContext(req.Context()); ok {
//	        // forward hints.Credentials, hints.Mode, ...
//	    }
//	    ...
//	}
func HintsFromContext(ctx context.Context) (TransportHints, bool) {
	hints, ok := ctx.Value(hintsContextKey{}).(TransportHints)
	return hints, ok
}
