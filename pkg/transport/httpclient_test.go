package transport

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Round int `json:"round"`
}

func newTestClient(t *testing.T, opts Options) *Client {
	t.Helper()
	c, err := NewClient(opts)
	require.NoError(t, err)
	return c
}

func TestGetJSONPlain(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"round":12}`))
	}))
	defer srv.Close()

	var p payload
	err := newTestClient(t, Options{}).GetJSON(context.Background(), srv.URL, &p)
	require.NoError(t, err)
	assert.Equal(t, 12, p.Round)
}

func TestGetDecodesGzip(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	zw.Write([]byte(`{"round":3}`))
	zw.Close()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		w.Write(buf.Bytes())
	}))
	defer srv.Close()

	var p payload
	require.NoError(t, newTestClient(t, Options{}).GetJSON(context.Background(), srv.URL, &p))
	assert.Equal(t, 3, p.Round)
}

func TestGetDecodesBrotli(t *testing.T) {
	var buf bytes.Buffer
	bw := brotli.NewWriter(&buf)
	bw.Write([]byte(`{"round":38}`))
	bw.Close()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("Accept-Encoding"), "br")
		w.Header().Set("Content-Encoding", "br")
		w.Write(buf.Bytes())
	}))
	defer srv.Close()

	var p payload
	require.NoError(t, newTestClient(t, Options{}).GetJSON(context.Background(), srv.URL, &p))
	assert.Equal(t, 38, p.Round)
}

func TestHeadersAreSent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sofabet-test", r.Header.Get("User-Agent"))
		assert.Equal(t, "https://www.sofascore.com/", r.Header.Get("Referer"))
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient(t, Options{Headers: map[string]string{
		"user-agent": "sofabet-test",
		"Referer":    "https://www.sofascore.com/",
	}})
	_, err := c.Get(context.Background(), srv.URL)
	require.NoError(t, err)
}

func TestStatusErrorCarriesHTMLTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`<html><head><title>Access denied</title></head><body>blocked</body></html>`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, Options{}).Get(context.Background(), srv.URL+"/x")
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusForbidden, se.StatusCode)
	assert.Equal(t, "Access denied", se.Detail)
	assert.Equal(t, srv.URL+"/x", se.URL)
	assert.False(t, IsNotFound(err))
}

func TestStatusErrorFromJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":{"code":404,"message":"Not Found"}}`))
	}))
	defer srv.Close()

	var p payload
	err := newTestClient(t, Options{}).GetJSON(context.Background(), srv.URL, &p)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "Not Found", se.Detail)
}

func TestGetJSONDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	var p payload
	err := newTestClient(t, Options{}).GetJSON(context.Background(), srv.URL, &p)
	require.Error(t, err)
	var se *StatusError
	assert.False(t, errors.As(err, &se))
}

func TestGetHonoursTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, Options{Timeout: 20 * time.Millisecond}).Get(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestGetHonoursCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestClient(t, Options{}).Get(ctx, srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInvalidProxy(t *testing.T) {
	_, err := NewClient(Options{ProxyURL: "://nope"})
	assert.Error(t, err)
}

func TestMissingCABundleIsNotFatal(t *testing.T) {
	_, err := NewClient(Options{CABundlePath: "/does/not/exist.pem"})
	assert.NoError(t, err)
}
