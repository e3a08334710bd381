package dto

import "net/http"

// Transport-level error codes
const (
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeInvalidJSON     = "INVALID_JSON"
	ErrCodeMissingTenant   = "MISSING_TENANT"
	ErrCodeInvalidTenant   = "INVALID_TENANT"
	ErrCodeInvalidSign     = "INVALID_SIGNATURE"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
)

// domainErrorStatus maps domain error codes to HTTP statuses. Codes
// absent from the map answer 422: the request was well formed but a
// business rule refused it.
var domainErrorStatus = map[string]int{
	// malformed or invalid input
	"BAD_REQUEST":           http.StatusBadRequest,
	"INVALID_JSON":          http.StatusBadRequest,
	"INVALID_INPUT":         http.StatusBadRequest,
	"INVALID_CHANNEL":       http.StatusBadRequest,
	"INVALID_STATUS":        http.StatusBadRequest,
	"INVALID_ITEM":          http.StatusBadRequest,
	"INVALID_ITEM_NAME":     http.StatusBadRequest,
	"INVALID_PRICE":         http.StatusBadRequest,
	"INVALID_QUANTITY":      http.StatusBadRequest,
	"INVALID_TABLE_NUMBER":  http.StatusBadRequest,
	"INVALID_CUSTOMER_NAME": http.StatusBadRequest,
	"INVALID_PLAN_TIER":     http.StatusBadRequest,
	"INVALID_PERIOD":        http.StatusBadRequest,
	"INVALID_EVENT":         http.StatusBadRequest,
	"INVALID_ORDER":         http.StatusBadRequest,
	"INVALID_DISTANCE":      http.StatusBadRequest,
	"INVALID_FEE":           http.StatusBadRequest,
	"INVALID_MINIMUM_ORDER": http.StatusBadRequest,
	"INVALID_COORDINATES":   http.StatusBadRequest,
	"EMPTY_ORDER":           http.StatusBadRequest,

	// auth and access
	"MISSING_TENANT":       http.StatusUnauthorized,
	"INVALID_TENANT":       http.StatusUnauthorized,
	"INVALID_SIGNATURE":    http.StatusUnauthorized,
	"FORBIDDEN":            http.StatusForbidden,
	"MODULE_NOT_AVAILABLE": http.StatusForbidden,

	// resources
	"NOT_FOUND":           http.StatusNotFound,
	"MENU_ITEM_NOT_FOUND": http.StatusNotFound,
	"ALREADY_EXISTS":      http.StatusConflict,
	"TABLE_EXISTS":        http.StatusConflict,

	// state machines and concurrent writes
	"INVALID_STATE":        http.StatusConflict,
	"INVALID_TRANSITION":   http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,

	// the free allowance ran out: payment required to proceed
	"LIMIT_REACHED": http.StatusPaymentRequired,

	// business rules
	"NOT_COVERED":           http.StatusUnprocessableEntity,
	"MINIMUM_ORDER_NOT_MET": http.StatusUnprocessableEntity,
	"ITEM_UNAVAILABLE":      http.StatusUnprocessableEntity,
	"INVALID_TABLE":         http.StatusUnprocessableEntity,
	"SAME_TIER":             http.StatusUnprocessableEntity,

	// transport
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
}

// GetHTTPStatus returns the HTTP status for a domain error code
func GetHTTPStatus(code string) int {
	if status, ok := domainErrorStatus[code]; ok {
		return status
	}
	return http.StatusUnprocessableEntity
}
