package got

import (
	"net/http"
	"strings"
	"sync"
)

// isRedirectStatus reports whether code is a 3xx the executor may
// re-issue manually.
func isRedirectStatus(code int) bool {
	switch code {
	case http.StatusMovedPermanently,
		http.StatusFound,
		http.StatusSeeOther,
		http.StatusTemporaryRedirect,
		http.StatusPermanentRedirect:
		return true
	}
	return false
}

// shouldReissue reports whether resp is a redirect that must be
// re-issued by the executor to preserve the original method and body.
//
// Only POST qualifies: transports demote POST to GET when following
// 301/302 automatically, so POST requests are sent through a
// redirect-manual client and each hop is re-issued here with the
// original method, body, and headers. Every other method rides the
// transport's own automatic redirect handling and never reaches this
// check with a 3xx in hand.
func shouldReissue(resp *http.Response, method string) bool {
	if !strings.EqualFold(method, http.MethodPost) {
		return false
	}
	return isRedirectStatus(resp.StatusCode) && resp.Header.Get("Location") != ""
}

// redirectLocation resolves the Location header against the URL of the
// request that produced resp.
func redirectLocation(resp *http.Response) (string, error) {
	loc, err := resp.Location()
	if err != nil {
		return "", err
	}
	return loc.String(), nil
}

// redirectBudget counts redirect hops consumed per logical request.
// Counters are created lazily, grow monotonically within a chain, and
// are removed when the chain terminates.
type redirectBudget struct {
	mu   sync.Mutex
	hops map[string]int
}

func newRedirectBudget() *redirectBudget {
	return &redirectBudget{hops: make(map[string]int)}
}

// nextHop consumes one hop for key. It returns the new hop index, or
// false when the budget is already spent.
func (b *redirectBudget) nextHop(key string, max int) (int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := b.hops[key]
	if n >= max {
		return n, false
	}
	n++
	b.hops[key] = n
	return n, true
}

// forget drops the counter for key. Safe to call when absent.
func (b *redirectBudget) forget(key string) {
	b.mu.Lock()
	delete(b.hops, key)
	b.mu.Unlock()
}

// size returns the number of live hop counters.
func (b *redirectBudget) size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.hops)
}
