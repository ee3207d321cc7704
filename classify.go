package got

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// classify turns a non-success response into a *ResponseError.
//
// The body is always read to exhaustion and closed, even when it is
// not JSON, so the underlying connection is never left half-read. A
// body that fails to parse degrades to raw text (or nil when labeled
// JSON) rather than raising a secondary error.
func classify(resp *http.Response) *ResponseError {
	respErr := &ResponseError{
		StatusCode: resp.StatusCode,
		StatusText: reasonPhrase(resp),
	}

	if resp.Body == nil {
		return respErr
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil || len(raw) == 0 {
		return respErr
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err == nil {
		respErr.Body = parsed
		return respErr
	}

	// Bodies labeled application/json that do not parse stay nil;
	// anything else falls back to the raw text.
	if !isJSONContent(resp.Header.Get("Content-Type")) {
		respErr.Body = string(raw)
	}
	return respErr
}

// reasonPhrase extracts the reason phrase from the status line,
// falling back to the canonical text for the code.
func reasonPhrase(resp *http.Response) string {
	text := strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)+" ")
	if text != "" && text != resp.Status {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

// isJSONContent matches application/json case-insensitively anywhere
// in the content type, including parameters and vendor suffixes.
func isJSONContent(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "application/json")
}

// drainAndClose discards any unread body and closes it so the
// connection can be reused.
func drainAndClose(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
