package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Marketplace Business Logic (MKT) ----

func ErrPriceMustBeAboveZero() *AppError {
	return New("MKT_001", "Listing price must be above zero", http.StatusBadRequest)
}

func ErrAlreadyListed(nftAddress string, tokenID uint64) *AppError {
	return New("MKT_002",
		fmt.Sprintf("Token %d of %s is already listed", tokenID, nftAddress),
		http.StatusConflict)
}

func ErrNotListed(nftAddress string, tokenID uint64) *AppError {
	return New("MKT_003",
		fmt.Sprintf("Token %d of %s is not listed", tokenID, nftAddress),
		http.StatusNotFound)
}

func ErrNotOwner() *AppError {
	return New("MKT_004", "Caller does not own this token or listing", http.StatusForbidden)
}

func ErrNotApprovedForMarketplace() *AppError {
	return New("MKT_005", "Marketplace is not approved to transfer this token", http.StatusForbidden)
}

func ErrPriceNotMet(nftAddress string, tokenID uint64, price int64) *AppError {
	return New("MKT_006",
		fmt.Sprintf("Payment below listed price %d for token %d of %s", price, tokenID, nftAddress),
		http.StatusPaymentRequired)
}

func ErrNoProceeds() *AppError {
	return New("MKT_007", "No proceeds available for withdrawal", http.StatusBadRequest)
}

func ErrTransferFailed(err error) *AppError {
	return Wrap("MKT_008", "External transfer was rejected", http.StatusBadGateway, err)
}

// ---- Security & Request Authentication (SEC) ----

func ErrInvalidAccessKey() *AppError {
	return New("SEC_001", "Invalid access key", http.StatusUnauthorized)
}

func ErrInvalidSignature() *AppError {
	return New("SEC_002", "Invalid signature", http.StatusUnauthorized)
}

func ErrTimestampExpired() *AppError {
	return New("SEC_003", "Request timestamp expired", http.StatusForbidden)
}

func ErrNonceUsed() *AppError {
	return New("SEC_004", "Nonce has already been used", http.StatusForbidden)
}

// ---- Accounts (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrUsernameExists() *AppError {
	return New("AUTH_002", "Username already exists", http.StatusConflict)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_003", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrAccountSuspended() *AppError {
	return New("AUTH_004", "Account is suspended", http.StatusForbidden)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a request validation error.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}
