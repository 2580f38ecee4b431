package server

import (
	"net/http"

	"github.com/YuminosukeSato/sfhousing/pkg/log"
)

// statusFor maps a render failure to an HTTP status and its log error code.
func statusFor(err error) (int, string) {
	code := log.ErrorCode(err)
	switch code {
	case log.ErrorNoValidData:
		return http.StatusNotFound, code
	case log.ErrorDataUnavailable:
		return http.StatusServiceUnavailable, code
	case log.ErrorInsufficientData, log.ErrorInvalidInput:
		return http.StatusUnprocessableEntity, code
	default:
		return http.StatusInternalServerError, log.ErrorInternal
	}
}
