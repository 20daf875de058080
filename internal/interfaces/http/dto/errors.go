package dto

import (
	"net/http"
	"strings"
)

// General error codes
const (
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeNotFound   = "NOT_FOUND"
	ErrCodeConflict   = "CONFLICT"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes not listed fall through to the prefix rules in GetHTTPStatus.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeNotFound:   http.StatusNotFound,
	ErrCodeConflict:   http.StatusConflict,

	"ALREADY_EXISTS":           http.StatusConflict,
	"DUPLICATE_CODE":           http.StatusConflict,
	"DUPLICATE_NAME":           http.StatusConflict,
	"DUPLICATE_ITEM":           http.StatusConflict,
	"DUPLICATE_INVOICE_NUMBER": http.StatusConflict,
	"DUPLICATE_SERIAL":         http.StatusConflict,
	"MASTER_IN_USE":            http.StatusConflict,
	"ACCOUNT_IN_USE":           http.StatusConflict,
	"ALREADY_ACTIVE":           http.StatusConflict,
	"ALREADY_INACTIVE":         http.StatusConflict,

	"ITEM_NOT_FOUND": http.StatusNotFound,

	"ITEM_NOT_AVAILABLE": http.StatusUnprocessableEntity,
	"INVALID_STATE":      http.StatusUnprocessableEntity,

	// A failed rollback leaves the store inconsistent; surface it loudly.
	"COMPENSATION_FAILED": http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for a domain error code.
// Validation-style codes (INVALID_*) map to 400; anything unknown is a 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
