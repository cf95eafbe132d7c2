package httpclient

import "fmt"

var _ error = &HttpRequestError{}

// HttpRequestError is returned when a request could not be sent or no
// response was received. URL is already redacted.
type HttpRequestError struct {
	BaseError error
	Method    string
	URL       string
}

func (e *HttpRequestError) Error() string {
	return fmt.Sprintf("HTTP %s request to %s failed: %s", e.Method, e.URL, e.BaseError.Error())
}

func (e *HttpRequestError) Unwrap() error {
	return e.BaseError
}
