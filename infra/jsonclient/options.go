package jsonclient

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-http-utils/headers"

	"deskwise.io/infra/oidc"
)

// HeaderFunc is a callback that's invoked on every request to generate a header
// This is useful when the header should change per-request based on the context
// used for that request.
// Note that returning a blank key indicates "no header to add this request"
type HeaderFunc func(context.Context) (key string, value string)

// DecodeFunc is a callback used with the CustomDecoder option to control deserializing
// the response from an HTTP request. Instead of automatically deserializing into the
// response object provided to the method (which must be nil instead), this method is invoked.
type DecodeFunc func(ctx context.Context, body io.ReadCloser) error

type options struct {
	headers          http.Header
	cookies          []http.Cookie
	unmarshalOnError bool
	stopLogging      bool

	// Required for automatic token refresh
	tokenSource oidc.TokenSource

	// allows runtime updating of headers eg. to pass along a request ID on a per-request basis
	perRequestHeaders []HeaderFunc

	decodeFunc DecodeFunc

	// requestTimeout bounds each individual request; a hung upstream call
	// otherwise stalls a whole resolution chain with no way to abort
	requestTimeout time.Duration
}

func (o *options) clone() *options {
	cloned := *o
	cloned.headers = o.headers.Clone()
	copy(cloned.cookies, o.cookies)
	return &cloned
}

// Option makes jsonclient extensible
type Option interface {
	apply(*options)
}

type optFunc func(*options)

func (o optFunc) apply(opts *options) {
	o(opts)
}

// Header allows you to add arbitrary headers to jsonclient requests
func Header(k, v string) Option {
	return optFunc(func(opts *options) {
		opts.headers.Set(k, v)
	})
}

// BasicAuth sets an Authorization header from a username & password pair.
// ITSM deployments that use API keys pass the key as the username with
// a fixed "X" password.
func BasicAuth(username, password string) Option {
	auth := base64.StdEncoding.EncodeToString([]byte(fmt.Sprintf("%s:%s", username, password)))
	return Header(headers.Authorization, fmt.Sprintf("Basic %s", auth))
}

// PerRequestHeader registers a callback invoked on every request to generate a header
func PerRequestHeader(f HeaderFunc) Option {
	return optFunc(func(opts *options) {
		opts.perRequestHeaders = append(opts.perRequestHeaders, f)
	})
}

// Cookie allows you to add cookies to jsonclient requests
func Cookie(cookie http.Cookie) Option {
	return optFunc(func(opts *options) {
		opts.cookies = append(opts.cookies, cookie)
	})
}

// UnmarshalOnError causes the response struct to be deserialized if a HTTP 400+ code is returned.
// The default behavior is to not deserialize and to return an error.
func UnmarshalOnError() Option {
	return optFunc(func(opts *options) {
		opts.unmarshalOnError = true
	})
}

// StopLogging causes the client not to log failures
func StopLogging() Option {
	return optFunc(func(opts *options) {
		opts.stopLogging = true
	})
}

// CustomDecoder allows callers to handle the response body themselves
func CustomDecoder(d DecodeFunc) Option {
	return optFunc(func(opts *options) {
		opts.decodeFunc = d
	})
}

// TokenSource adds an oidc.TokenSource so the client can mint or refresh its
// bearer token via the Client Credentials Flow
func TokenSource(ts oidc.TokenSource) Option {
	return optFunc(func(opts *options) {
		opts.tokenSource = ts
	})
}

// ClientCredentialsTokenSource configures a client credentials token source from its parts
func ClientCredentialsTokenSource(tokenURL, clientID, clientSecret string, customAudiences []string) Option {
	return TokenSource(oidc.ClientCredentialsTokenSource{
		TokenURL:        tokenURL,
		ClientID:        clientID,
		ClientSecret:    clientSecret,
		CustomAudiences: customAudiences,
	})
}

// RequestTimeout bounds each request made by the client; zero means no bound
func RequestTimeout(d time.Duration) Option {
	return optFunc(func(opts *options) {
		opts.requestTimeout = d
	})
}
