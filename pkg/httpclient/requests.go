package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

type HttpRequest struct {
	Client  *http.Client // HTTP client to execute requests
	Logger  *zap.SugaredLogger
	Method  string
	URL     string // Full URL including scheme, host, and path
	Headers map[string]string

	// MaxErrorBodySize caps how much of a non-2xx body is buffered. Zero
	// selects DefaultMaxBodySize.
	MaxErrorBodySize int64
}

// Exec executes the HTTP request and returns the response or an error.
// Non-2xx responses are returned as *ResponseError with a bounded copy of the
// body. Failures before a response arrives are returned as *HttpRequestError.
func (r *HttpRequest) Exec(ctx context.Context, body any, queryParams map[string]string) (*http.Response, error) {
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}

	redactedURL := redactString(r.URL)
	slogger := logger.With(
		"url", redactedURL,
		"method", r.Method,
	)

	var requestBody io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			newErr := &HttpRequestError{err, r.Method, redactedURL}
			slogger.Errorw("Failed to marshal request body", "error", newErr)
			return nil, newErr
		}
		requestBody = bytes.NewReader(bodyBytes)
	}

	// Create the HTTP Request
	request, err := http.NewRequestWithContext(ctx, r.Method, r.URL, requestBody)
	if err != nil {
		newErr := &HttpRequestError{err, r.Method, redactedURL}
		slogger.Errorw("Failed to create HTTP request", "error", newErr.Error())
		return nil, newErr
	}

	// Set the Request Headers
	for key, value := range r.Headers {
		request.Header.Set(key, value)
	}

	// Add Query Parameters if any
	if len(queryParams) > 0 {
		query := request.URL.Query()
		for key, value := range queryParams {
			query.Set(key, value)
		}
		request.URL.RawQuery = query.Encode()
		redactedURL = RedactURI(request.URL).String()
		slogger = logger.With("url", redactedURL, "method", r.Method)
	}

	response, err := client.Do(request)
	if err != nil {
		// *url.Error embeds the full request URL in its message.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = redactedURL
		}
		newErr := &HttpRequestError{err, r.Method, redactedURL}
		slogger.Errorw("Failed to make HTTP request", "error", newErr.Error())
		return nil, newErr
	}

	maxBodySize := r.MaxErrorBodySize
	if maxBodySize == 0 {
		maxBodySize = DefaultMaxBodySize
	}

	// Handle any non-2xx HTTP status codes
	if err := ExpectSuccess(response, WithRequest(request), WithMaxBodySize(maxBodySize)); err != nil {
		slogger.Debugw("Non-2xx HTTP response", "status_code", response.StatusCode)

		var respErr *ResponseError
		if !errors.As(err, &respErr) {
			newErr := &HttpRequestError{err, r.Method, redactedURL}
			slogger.Errorw("Failed to read error response", "error", newErr.Error())
			return nil, newErr
		}

		slogger.Errorw(respErr.PrimaryMessage(), "response_error", respErr)
		return nil, respErr
	}

	return response, nil
}
