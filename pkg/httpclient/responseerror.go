package httpclient

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap/zapcore"
)

var _ error = &ResponseError{}

var _ zapcore.ObjectMarshaler = &ResponseError{}

const (
	msgUnexpected     = "Unexpected response from HTTP call"
	msgDecodeFailed   = "Unable to decode error message as UTF-8 String"
	msgNoBody         = "No HTTP body on response"
	msgTruncatedFmt   = "Body was larger than %d, so it was truncated"
	msgRequestURIFmt  = "Request URI: %s"
	msgRequestMethFmt = "Request Method: %s"
	msgStatusFmt      = "Status: %s"
	msgHeadersFmt     = "ResponseHeaders: %s"
)

// DecodeError reports a captured body that is not valid UTF-8.
type DecodeError struct {
	Offset int // byte offset of the first invalid sequence
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid UTF-8 sequence at byte offset %d", e.Offset)
}

// ResponseError describes an HTTP response that the caller did not expect,
// typically a non-2xx status. It holds a bounded copy of the body and is
// never modified after construction.
type ResponseError struct {
	statusCode  int
	status      string
	header      http.Header
	body        Body
	maxBodySize int64
	requestURI  *url.URL
	method      string

	redactedURI *url.URL
	text        string
	hasText     bool
	decodeErr   *DecodeError
	primary     string
	secondary   []string
}

// NewResponseError captures up to the configured cap of resp.Body and builds
// the error from it. The body is closed but not drained. When no request
// option is given the request metadata is taken from resp.Request. A body
// read failure is returned unchanged.
func NewResponseError(resp *http.Response, opts ...Option) (*ResponseError, error) {
	o := newOptions(opts)
	if !o.hasRequest && resp.Request != nil {
		WithRequest(resp.Request)(o)
	}

	body, err := Capture(resp.Body, o.maxBodySize)
	if resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}

	return newResponseError(resp.StatusCode, resp.Status, resp.Header, body, o), nil
}

// ExpectSuccess returns nil for a 2xx response. Otherwise it returns the
// *ResponseError built from resp, or the body read error.
func ExpectSuccess(resp *http.Response, opts ...Option) error {
	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	respErr, err := NewResponseError(resp, opts...)
	if err != nil {
		return err
	}
	return respErr
}

func newResponseError(code int, status string, header http.Header, body Body, o *options) *ResponseError {
	if status == "" {
		status = strings.TrimSpace(fmt.Sprintf("%d %s", code, http.StatusText(code)))
	}

	e := &ResponseError{
		statusCode:  code,
		status:      status,
		header:      header.Clone(),
		body:        body,
		maxBodySize: o.maxBodySize,
		requestURI:  o.requestURI,
		method:      o.method,
		redactedURI: RedactURI(o.requestURI),
	}
	if e.header == nil {
		e.header = http.Header{}
	}

	e.text, e.hasText, e.decodeErr = decodeBody(body)
	e.primary = e.primaryMessage()
	e.secondary = e.secondaryMessages()

	return e
}

func decodeBody(body Body) (string, bool, *DecodeError) {
	if body.Kind() == BodyEmpty {
		return "", false, nil
	}

	data := body.data
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			return "", false, &DecodeError{Offset: i}
		}
		i += size
	}
	return string(data), true, nil
}

func (e *ResponseError) primaryMessage() string {
	if e.requestURI != nil && e.requestURI.Hostname() != "" {
		return msgUnexpected + " to " + e.requestURI.Hostname()
	}
	return msgUnexpected
}

func (e *ResponseError) secondaryMessages() []string {
	msgs := make([]string, 0, 6)
	if e.redactedURI != nil {
		msgs = append(msgs, fmt.Sprintf(msgRequestURIFmt, e.redactedURI.String()))
	}
	if e.method != "" {
		msgs = append(msgs, fmt.Sprintf(msgRequestMethFmt, e.method))
	}
	msgs = append(msgs,
		fmt.Sprintf(msgStatusFmt, e.status),
		fmt.Sprintf(msgHeadersFmt, renderHeader(e.header)),
	)

	switch {
	case e.decodeErr != nil:
		msgs = append(msgs, msgDecodeFailed)
	case !e.hasText:
		msgs = append(msgs, msgNoBody)
	default:
		msgs = append(msgs, e.text)
	}

	if e.body.Truncated() {
		msgs = append(msgs, fmt.Sprintf(msgTruncatedFmt, e.maxBodySize))
	}
	return msgs
}

// renderHeader formats h in canonical key order as Headers(K: v1, v2; K2: v).
func renderHeader(h http.Header) string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(h[k], ", "))
	}
	return "Headers(" + strings.Join(parts, "; ") + ")"
}

func (e *ResponseError) Error() string {
	var b strings.Builder
	b.WriteString(e.primary)
	for _, msg := range e.secondary {
		b.WriteString("\n")
		b.WriteString(msg)
	}
	return b.String()
}

// Unwrap returns the body decode failure, if any.
func (e *ResponseError) Unwrap() error {
	if e.decodeErr == nil {
		return nil
	}
	return e.decodeErr
}

// Causes returns the decode failure as the only element, or nothing.
func (e *ResponseError) Causes() []error {
	if e.decodeErr == nil {
		return nil
	}
	return []error{e.decodeErr}
}

// PrimaryMessage is the one-line summary of the error.
func (e *ResponseError) PrimaryMessage() string { return e.primary }

// SecondaryMessages returns the diagnostic lines in display order.
func (e *ResponseError) SecondaryMessages() []string {
	out := make([]string, len(e.secondary))
	copy(out, e.secondary)
	return out
}

func (e *ResponseError) StatusCode() int {
	return e.statusCode
}

// Status is the status line, e.g. "404 Not Found".
func (e *ResponseError) Status() string {
	return e.status
}

// Header returns a copy of the response headers as received.
func (e *ResponseError) Header() http.Header {
	return e.header.Clone()
}

func (e *ResponseError) Body() Body {
	return e.body
}

// MaxBodySize is the cap that was used to capture the body.
func (e *ResponseError) MaxBodySize() int64 {
	return e.maxBodySize
}

// RequestMethod returns the originating request method, or "" if unknown.
func (e *ResponseError) RequestMethod() string {
	return e.method
}

// RequestURI returns a copy of the originating request URI, or nil.
func (e *ResponseError) RequestURI() *url.URL {
	if e.requestURI == nil {
		return nil
	}
	u := *e.requestURI
	return &u
}

// RedactedRequestURI returns the request URI with query values redacted, or
// nil when no request URI is known.
func (e *ResponseError) RedactedRequestURI() *url.URL {
	if e.redactedURI == nil {
		return nil
	}
	u := *e.redactedURI
	return &u
}

// Text returns the body decoded as UTF-8. ok is false for an empty body or
// one that failed to decode.
func (e *ResponseError) Text() (text string, ok bool) {
	return e.text, e.hasText
}

// MarshalLogObject logs the error without the raw request URI.
func (e *ResponseError) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt("status_code", e.statusCode)
	enc.AddString("status", e.status)
	if e.redactedURI != nil {
		enc.AddString("request_uri", e.redactedURI.String())
	}
	if e.method != "" {
		enc.AddString("request_method", e.method)
	}
	enc.AddString("body_kind", e.body.Kind().String())
	enc.AddInt("body_bytes", e.body.Len())
	enc.AddInt64("max_body_size", e.maxBodySize)
	if e.decodeErr != nil {
		enc.AddString("decode_error", e.decodeErr.Error())
	}
	return enc.AddArray("messages", zapcore.ArrayMarshalerFunc(func(arr zapcore.ArrayEncoder) error {
		for _, msg := range e.secondary {
			arr.AppendString(msg)
		}
		return nil
	}))
}
