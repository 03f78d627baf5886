package zaptec

import (
	"errors"
	"fmt"
)

var (
	ErrParameterMissing     = errors.New("required parameter is missing")
	ErrAuthorizationFailed  = errors.New("authorization failed")
	ErrUnknownCommand       = errors.New("unknown command")
	ErrUnknownObservation   = errors.New("unknown observation id")
	ErrUnknownOperationMode = errors.New("unknown operation mode")
	ErrUnknownNetworkType   = errors.New("unknown network type")
	ErrUnknownDeviceType    = errors.New("unknown device type")
	ErrMissingField         = errors.New("missing field")
)

// RequestFailedError is returned for any non-2xx API response that is not
// handled by the token refresh path. Body holds the raw response for caller
// inspection and may be empty.
type RequestFailedError struct {
	StatusCode int
	Body       []byte
}

func (e *RequestFailedError) Error() string {
	return fmt.Sprintf("request returned status %d", e.StatusCode)
}
