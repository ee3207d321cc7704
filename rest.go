package got

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	json "github.com/goccy/go-json"
)

// RESTRequest describes a data-shaped call. For GET and HEAD the data
// object is appended to the endpoint as query-string parameters (a
// data object is never sent as a GET/HEAD body); for every other
// method it is serialized as the JSON body unless an explicit Body was
// supplied.
type RESTRequest struct {
	// Data holds the payload key/values.
	Data map[string]any

	// Endpoint is the absolute target URL. Required.
	Endpoint string

	// Name is the logical request name for supersession.
	Name string

	// Method defaults to POST.
	Method string

	// Header holds extra request headers.
	Header http.Header

	// Body, when set, wins over the serialization of Data.
	Body []byte

	// PlainContentType skips forcing Content-Type: application/json.
	PlainContentType bool

	// OnlyResponse, IgnoreAbort, and MaxRedirects behave as on
	// Descriptor.
	OnlyResponse bool
	IgnoreAbort  bool
	MaxRedirects int

	// Result, when non-nil, receives the decoded response body.
	Result any
}

// REST executes a data-shaped call.
//
//	var out map[string]any
//	_, err := client.REST(ctx, got.RESTRequest{
//	    Data:     map[string]any{"value": "30030030030"},
//	    Endpoint: "https://api.example.com/data",
//	    Name:     "SaveValue",
//	    Result:   &out,
//	})
func (c *Client) REST(ctx context.Context, req RESTRequest) (*Response, error) {
	method := req.Method
	if method == "" {
		method = DefaultMethod
	}

	header := cloneHeader(req.Header)
	if !req.PlainContentType {
		header.Set("Content-Type", "application/json")
	}

	endpoint := req.Endpoint
	body := req.Body

	if isSafeMethod(method) {
		body = nil
		if len(req.Data) > 0 {
			var err error
			endpoint, err = appendQuery(endpoint, req.Data)
			if err != nil {
				return nil, err
			}
		}
	} else if len(body) == 0 && req.Data != nil {
		var err error
		body, err = json.Marshal(req.Data)
		if err != nil {
			return nil, err
		}
	}

	return c.Do(ctx, &Descriptor{
		Endpoint:     endpoint,
		Name:         req.Name,
		Method:       method,
		Header:       header,
		Body:         body,
		OnlyResponse: req.OnlyResponse,
		IgnoreAbort:  req.IgnoreAbort,
		MaxRedirects: req.MaxRedirects,
		Result:       req.Result,
	})
}

// appendQuery merges every key/value of data into the endpoint's query
// string.
func appendQuery(endpoint string, data map[string]any) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", err
	}
	q := u.Query()
	for k, v := range data {
		q.Set(k, fmt.Sprint(v))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
