package httpclient

import (
	"net/http"
	"net/url"
)

type options struct {
	maxBodySize int64
	requestURI  *url.URL
	method      string
	hasRequest  bool
}

// Option configures how a ResponseError is built.
type Option func(o *options)

// WithMaxBodySize sets the number of body bytes to buffer. Non-positive values
// buffer nothing and mark the body as truncated.
func WithMaxBodySize(n int64) Option {
	return func(o *options) {
		o.maxBodySize = n
	}
}

// WithRequest records the method and URL of the request that produced the
// response.
func WithRequest(req *http.Request) Option {
	return func(o *options) {
		if req == nil {
			return
		}
		o.hasRequest = true
		o.method = req.Method
		if req.URL != nil {
			u := *req.URL
			o.requestURI = &u
		}
	}
}

// WithRequestURI records the URI of the originating request.
func WithRequestURI(u *url.URL) Option {
	return func(o *options) {
		o.hasRequest = true
		if u == nil {
			o.requestURI = nil
			return
		}
		cp := *u
		o.requestURI = &cp
	}
}

// WithRequestMethod records the method of the originating request.
func WithRequestMethod(method string) Option {
	return func(o *options) {
		o.hasRequest = true
		o.method = method
	}
}

func newOptions(opts []Option) *options {
	o := &options{maxBodySize: DefaultMaxBodySize}
	for _, fn := range opts {
		fn(o)
	}
	return o
}
