package response

import (
	"net/http"

	"github.com/propfolio/metering/pkg/apperr"
)

type APIResponseCode int

const (
	APIResponseCodeOK          APIResponseCode = 0
	APIResponseCodeBadRequest  APIResponseCode = 40000
	APIResponseCodeNotFound    APIResponseCode = 40400
	APIResponseCodeConflict    APIResponseCode = 40900
	APIResponseCodeError       APIResponseCode = 50000
	APIResponseCodeUnavailable APIResponseCode = 50300
)

var codeToMsg = map[APIResponseCode]string{
	APIResponseCodeOK:          "ok",
	APIResponseCodeBadRequest:  "bad request",
	APIResponseCodeNotFound:    "not found",
	APIResponseCodeConflict:    "conflict",
	APIResponseCodeError:       "unexpected error",
	APIResponseCodeUnavailable: "temporarily unavailable",
}

// APIResponse is the generic response envelope used by HTTP APIs.
// Use OKT / ErrorT helpers to construct instances.
type APIResponse[T any] struct {
	Code    APIResponseCode `json:"code"`
	Message string          `json:"message"`
	Reason  string          `json:"reason,omitempty"`
	Data    T               `json:"data"`
}

// OKT returns a successful response with data.
func OKT[T any](data T) *APIResponse[T] {
	return &APIResponse[T]{Code: APIResponseCodeOK, Message: codeToMsg[APIResponseCodeOK], Data: data}
}

// ErrorT returns an error response with message and optional data.
func ErrorT[T any](code APIResponseCode, data T) *APIResponse[T] {
	return &APIResponse[T]{Code: code, Message: codeToMsg[code], Data: data}
}

// FromError maps a coded service error to an HTTP status and envelope.
func FromError(err error) (int, *APIResponse[any]) {
	code := apperr.CodeOf(err)
	resp := &APIResponse[any]{Reason: apperr.ReasonOf(err)}
	switch code {
	case apperr.CodeValidation:
		resp.Code = APIResponseCodeBadRequest
		resp.Message = err.Error()
		return http.StatusBadRequest, resp
	case apperr.CodeNotFound:
		resp.Code = APIResponseCodeNotFound
		resp.Message = err.Error()
		return http.StatusNotFound, resp
	case apperr.CodeConflict:
		resp.Code = APIResponseCodeConflict
		resp.Message = err.Error()
		return http.StatusConflict, resp
	case apperr.CodeTransient:
		resp.Code = APIResponseCodeUnavailable
		resp.Message = codeToMsg[APIResponseCodeUnavailable]
		return http.StatusServiceUnavailable, resp
	default:
		resp.Code = APIResponseCodeError
		resp.Message = codeToMsg[APIResponseCodeError]
		return http.StatusInternalServerError, resp
	}
}
