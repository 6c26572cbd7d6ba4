// Package fetch wraps the HTTP client behind the narrow Transport interface
// the virtual filesystem consumes. The production implementation streams
// response bodies so large downloads never buffer in memory.
package fetch

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/imroc/req/v3"

	"github.com/htls/htls/internal/version"
)

// Response is the slice of an HTTP response the filesystem layer cares
// about. Body may be nil and Header values may be absent or garbage; the
// caller has to degrade gracefully on both.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       io.ReadCloser
}

// ContentLength returns the declared body size, or -1 when the header is
// absent or not numeric.
func (r *Response) ContentLength() int64 {
	if r.Header == nil {
		return -1
	}
	raw := r.Header.Get("Content-Length")
	if raw == "" {
		return -1
	}
	var n int64
	for _, c := range raw {
		if c < '0' || c > '9' {
			return -1
		}
		n = n*10 + int64(c-'0')
	}
	return n
}

// Transport fetches remote pages and file bytes.
type Transport interface {
	Get(ctx context.Context, url string) (*Response, error)
}

// Client is the req-backed Transport used by the real tool.
type Client struct {
	http *req.Client
}

// New builds a Client. Retries apply to the request itself, before the
// body starts streaming; they are not a resume mechanism.
func New(timeout time.Duration) *Client {
	c := req.C().
		SetUserAgent(version.UserAgent()).
		SetTimeout(timeout).
		SetCommonRetryCount(3).
		SetCommonRetryBackoffInterval(1*time.Second, 5*time.Second).
		DisableAutoReadResponse()

	return &Client{http: c}
}

func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	resp, err := c.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, err
	}

	out := &Response{StatusCode: resp.GetStatusCode()}
	if resp.Response != nil {
		out.Header = resp.Header
		out.Body = resp.Body
	}
	return out, nil
}
