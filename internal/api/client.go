// Package api is the HTTP client for the ShapeBuilder REST backend.
//
// All authenticated calls attach the opaque bearer token obtained at
// login; the client never validates it. Responses with a non-2xx status
// carry a JSON body with an "error" string, which is surfaced verbatim
// to the caller; anything unparsable falls back to a generic message.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// genericErrMsg is shown when the server gives no usable error body.
const genericErrMsg = "request failed"

// Error is a failed backend call.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("server error (HTTP %d): %s", e.StatusCode, e.Message)
}

// Client talks to one ShapeBuilder backend.
type Client struct {
	BaseURL string // e.g. "http://localhost:8080", no trailing slash
	Token   string // bearer token; empty until login

	// HTTPClient is used for all requests. nil means http.DefaultClient.
	// No timeout is configured by default; a hung request hangs the call.
	HTTPClient *http.Client
}

// NewClient returns a client for the backend at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{BaseURL: strings.TrimRight(baseURL, "/")}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

// do makes one request. in (if non-nil) is sent as the JSON body;
// out (if non-nil) receives the decoded JSON response.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out interface{}) error {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body *bytes.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("internal error: marshaling request: %w", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("internal error: constructing HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("making HTTP request to %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding JSON response from %s: %w", path, err)
		}
	}
	return nil
}

// decodeError extracts the server's error message from a non-2xx
// response, falling back to a generic one.
func decodeError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	msg := genericErrMsg
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		msg = body.Error
	}
	return &Error{StatusCode: resp.StatusCode, Message: msg}
}

func idQuery(id int64) url.Values {
	return url.Values{"id": []string{fmt.Sprint(id)}}
}
