package clientmodels

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sindrilabs/respfail/pkg/httpclient"
	"go.uber.org/zap"
)

var _ error = &ClientError{}

type ErrorContext struct {
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Type    string   `json:"type"`
	Details []string `json:"details,omitempty"`
}

type ClientError struct {
	BaseError  error
	StatusCode int
	Context    *ErrorContext `json:"context"`
}

func (e *ClientError) Error() string {
	return e.BaseError.Error()
}

func (e *ClientError) Unwrap() error {
	return e.BaseError
}

func (e *ClientError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Error *ErrorContext `json:"error"`
	}{
		Error: e.Context,
	})
}

// NewClientError converts err into a ClientError and logs it once. A
// *httpclient.ResponseError keeps the upstream status; a failed request maps
// to 502; anything else maps to 500.
func NewClientError(err error, logger *zap.SugaredLogger) *ClientError {
	if err == nil {
		panic("NewClientError called with nil error")
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	clientErr := &ClientError{
		BaseError: err,
		Context:   &ErrorContext{},
	}

	var respErr *httpclient.ResponseError
	var reqErr *httpclient.HttpRequestError
	switch {
	case errors.As(err, &respErr):
		clientErr.StatusCode = respErr.StatusCode()
		clientErr.Context.Message = respErr.PrimaryMessage()
		clientErr.Context.Details = respErr.SecondaryMessages()
	case errors.As(err, &reqErr):
		clientErr.StatusCode = http.StatusBadGateway
		clientErr.Context.Message = reqErr.Error()
	default:
		clientErr.StatusCode = http.StatusInternalServerError
		clientErr.Context.Message = http.StatusText(clientErr.StatusCode)
	}
	clientErr.Context.Code = clientErr.StatusCode
	clientErr.Context.Type = http.StatusText(clientErr.StatusCode)

	if respErr != nil {
		logger.Errorw(respErr.PrimaryMessage(), "response_error", respErr)
	} else {
		logger.Errorw(err.Error(), "client_error", clientErr.Context)
	}

	return clientErr
}
