package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"skim/backend/internal/config"
	"skim/backend/internal/urlutil"
)

// DefaultTimeout bounds every outbound request. The reader must never let a
// hanging remote host block a caller indefinitely.
const DefaultTimeout = 20 * time.Second

// maxBodySize caps how much of a remote response we are willing to read.
const maxBodySize = 10 << 20

type Kind string

const (
	// KindNetwork marks transport-level failures: DNS, refused connections,
	// timeouts.
	KindNetwork Kind = "network"
	// KindHTTP marks responses that arrived but carried a non-2xx status.
	KindHTTP Kind = "http"
	// KindInvalidURL marks input that is not an absolute http(s) URL.
	KindInvalidURL Kind = "invalid_url"
)

// Error is a fetch failure, distinct from any parse failure downstream.
type Error struct {
	Kind   Kind
	Status int
	URL    string
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindHTTP:
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.Status)
	case KindInvalidURL:
		return fmt.Sprintf("fetch %s: invalid url", e.URL)
	default:
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Payload is a successfully retrieved response body.
type Payload struct {
	Body       []byte
	StatusCode int
}

// Client retrieves raw feed and article bytes. It always presents the same
// identity header; there is no user-agent spoofing anywhere in the reader.
type Client struct {
	httpClient *http.Client
	userAgent  string
	accept     string
}

// NewClient returns a fetch client. Pass nil to use a default client with a
// bounded timeout; tests inject their own.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		httpClient: httpClient,
		userAgent:  config.DefaultUserAgent,
		accept:     config.FeedAccept,
	}
}

// Fetch retrieves rawURL and returns its body. Non-2xx responses and
// transport failures come back as *Error with distinct kinds.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*Payload, error) {
	if !urlutil.IsValidHTTPURL(rawURL) {
		return nil, &Error{Kind: KindInvalidURL, URL: rawURL}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &Error{Kind: KindInvalidURL, URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", c.accept)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &Error{Kind: KindHTTP, Status: resp.StatusCode, URL: rawURL}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &Error{Kind: KindNetwork, URL: rawURL, Err: err}
	}

	return &Payload{Body: body, StatusCode: resp.StatusCode}, nil
}
