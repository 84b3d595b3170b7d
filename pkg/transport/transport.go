package transport

import "context"

// Transport is the read side of an HTTP client as seen by the API clients
type Transport interface {
	Get(ctx context.Context, url string) ([]byte, error)
	GetJSON(ctx context.Context, url string, out any) error
}

var _ Transport = (*Client)(nil)
