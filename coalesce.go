package got

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

// isSafeMethod reports whether method is side-effect free and eligible
// for coalescing.
func isSafeMethod(method string) bool {
	return strings.EqualFold(method, http.MethodGet) ||
		strings.EqualFold(method, http.MethodHead)
}

// coalesced shares one in-flight call among identical concurrent
// requests. The singleflight group is owned by the client, so
// coalescing never crosses client instances.
func (c *Client) coalesced(ctx context.Context, d *Descriptor) (*Response, error) {
	key := coalesceKey(d.Method, d.Endpoint, d.Body)

	v, err, _ := c.flight.Do(key, func() (any, error) {
		// The owner caches the body so every waiter can read it
		// independently.
		owner := *d
		owner.OnlyResponse = false
		owner.Result = nil
		return c.do(ctx, &owner)
	})
	if err != nil {
		return nil, err
	}

	resp := v.(*Response).clone()
	if d.Result != nil {
		if err := resp.Decode(d.Result); err != nil {
			return resp, err
		}
	}
	return resp, nil
}

// coalesceKey derives a stable identity for a request:
// SHA256(method | normalized URL | sorted query params | body hash).
func coalesceKey(method, rawURL string, body []byte) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return hashKey(method + "|" + rawURL + "|" + string(body))
	}

	params := u.Query()
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(method)
	sb.WriteString("|")
	sb.WriteString(u.Scheme)
	sb.WriteString("://")
	sb.WriteString(u.Host)
	sb.WriteString(u.Path)
	for _, k := range keys {
		values := append([]string(nil), params[k]...)
		sort.Strings(values)
		for _, v := range values {
			sb.WriteString("|")
			sb.WriteString(k)
			sb.WriteString("=")
			sb.WriteString(v)
		}
	}
	if len(body) > 0 {
		sum := sha256.Sum256(body)
		sb.WriteString("|")
		sb.WriteString(hex.EncodeToString(sum[:]))
	}

	return hashKey(sb.String())
}

func hashKey(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
