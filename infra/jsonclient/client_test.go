package jsonclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"deskwise.io/infra/assert"
	"deskwise.io/infra/jsonclient"
)

type echoResponse struct {
	Path          string `json:"path"`
	Authorization string `json:"authorization"`
	SDKVersion    string `json:"sdk_version"`
}

func newEchoServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(echoResponse{
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			SDKVersion:    r.Header.Get("X-Deskwisesdk-Version"),
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGetDecodesResponse(t *testing.T) {
	ctx := context.Background()
	srv := newEchoServer(t)

	c := jsonclient.New(srv.URL)
	var resp echoResponse
	assert.NoErr(t, c.Get(ctx, "/api/v2/ping", &resp))
	assert.Equal(t, resp.Path, "/api/v2/ping")
}

func TestBasicAuthHeader(t *testing.T) {
	ctx := context.Background()
	srv := newEchoServer(t)

	c := jsonclient.New(srv.URL, jsonclient.BasicAuth("apikey123", "X"))
	var resp echoResponse
	assert.NoErr(t, c.Get(ctx, "/", &resp))
	// base64("apikey123:X")
	assert.Equal(t, resp.Authorization, "Basic YXBpa2V5MTIzOlg=")
}

func TestHeaderOption(t *testing.T) {
	ctx := context.Background()
	srv := newEchoServer(t)

	c := jsonclient.New(srv.URL, jsonclient.Header("X-Deskwisesdk-Version", "1.2.0"))
	var resp echoResponse
	assert.NoErr(t, c.Get(ctx, "/", &resp))
	assert.Equal(t, resp.SDKVersion, "1.2.0")
}

func TestErrorStatusCode(t *testing.T) {
	ctx := context.Background()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)

	c := jsonclient.New(srv.URL)
	err := c.Get(ctx, "/", &struct{}{}, jsonclient.StopLogging())
	assert.NotNil(t, err, assert.Must())
	assert.Equal(t, jsonclient.GetHTTPStatusCode(err), http.StatusForbidden)
}

func TestGetHTTPStatusCodeOnForeignError(t *testing.T) {
	assert.Equal(t, jsonclient.GetHTTPStatusCode(context.Canceled), -1)
}

func TestRequestTimeout(t *testing.T) {
	ctx := context.Background()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	c := jsonclient.New(srv.URL, jsonclient.RequestTimeout(50*time.Millisecond))
	err := c.Get(ctx, "/", &struct{}{}, jsonclient.StopLogging())
	assert.NotNil(t, err)
}
