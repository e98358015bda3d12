package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// ErrorKind classifies failures for the HTTP boundary.
type ErrorKind string

const (
	KindValidation      ErrorKind = "validation"
	KindUnauthenticated ErrorKind = "unauthenticated"
	KindForbidden       ErrorKind = "forbidden"
	KindNotFound        ErrorKind = "not_found"
	KindConflict        ErrorKind = "conflict"
	KindInternal        ErrorKind = "internal"
)

const mysqlDuplicateEntry = 1062

// AppError is an error that knows which HTTP status it maps to.
type AppError struct {
	Kind    ErrorKind
	Message string
	Fields  []string
	Cause   error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Status returns the HTTP status for the error kind.
func (e *AppError) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func NewValidationError(message string, fields ...string) *AppError {
	return &AppError{Kind: KindValidation, Message: message, Fields: fields}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

func NewConflictError(message string, cause error) *AppError {
	return &AppError{Kind: KindConflict, Message: message, Cause: cause}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{Kind: KindForbidden, Message: message}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{Kind: KindInternal, Message: message, Cause: cause}
}

// IsDuplicateKey reports whether err is a unique-constraint violation from the store.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

// RespondError converts err into the standard error response. Anything that is not an
// AppError, and every internal AppError, is reported with a generic message and attached
// to the context so the request logger records the cause.
func RespondError(c *gin.Context, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "Record not found")
			return
		}
		_ = c.Error(err)
		InternalServerError(c, "Internal server error")
		return
	}

	if appErr.Kind == KindInternal || appErr.Cause != nil {
		_ = c.Error(err)
	}
	if appErr.Kind == KindInternal {
		InternalServerError(c, appErr.Message)
		return
	}
	Error(c, appErr.Status(), appErr.Message, appErr.Fields...)
}

// StoreError maps a raw gorm error to an AppError, using message for the 500 case.
func StoreError(err error, message string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NewNotFoundError("Record not found")
	case IsDuplicateKey(err):
		return NewConflictError("Record already exists", err)
	default:
		return NewInternalError(message, err)
	}
}
