package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation      ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound        ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized    ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden       ErrorType = "FORBIDDEN"
	ErrorTypeConflict        ErrorType = "CONFLICT"
	ErrorTypeTooManyRequests ErrorType = "TOO_MANY_REQUESTS"
	ErrorTypeRender          ErrorType = "RENDER_ERROR"
	ErrorTypeInternal        ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeRequired         ErrorCode = "REQUIRED"
	ErrCodeTooLong          ErrorCode = "TOO_LONG"
	ErrCodeInvalidEmail     ErrorCode = "INVALID_EMAIL"
	ErrCodeInvalidDate      ErrorCode = "INVALID_DATE"
	ErrCodeInvalidDateTime  ErrorCode = "INVALID_DATETIME"
	ErrCodeInvalidChoice    ErrorCode = "INVALID_CHOICE"
	ErrCodeNotUnique        ErrorCode = "NOT_UNIQUE"
	ErrCodeInvalidReference ErrorCode = "INVALID_REFERENCE"
	ErrCodeInvalidBody      ErrorCode = "INVALID_BODY"
	ErrCodeInvalidID        ErrorCode = "INVALID_ID"

	ErrCodeEmployeeNotFound     ErrorCode = "EMPLOYEE_NOT_FOUND"
	ErrCodeAttendanceNotFound   ErrorCode = "ATTENDANCE_NOT_FOUND"
	ErrCodeLeaveRequestNotFound ErrorCode = "LEAVE_REQUEST_NOT_FOUND"
	ErrCodeUserNotFound         ErrorCode = "USER_NOT_FOUND"
	ErrCodeDeviceNotFound       ErrorCode = "DEVICE_NOT_FOUND"
	ErrCodeNoRecords            ErrorCode = "NO_RECORDS"
	ErrCodeAlreadyClockedOut    ErrorCode = "ALREADY_CLOCKED_OUT"

	ErrCodeInvalidCredentials    ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeUserInactive          ErrorCode = "USER_INACTIVE"
	ErrCodeInvalidToken          ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired          ErrorCode = "TOKEN_EXPIRED"
	ErrCodeInvalidOrExpiredToken ErrorCode = "INVALID_OR_EXPIRED_TOKEN"
	ErrCodeMissingToken          ErrorCode = "MISSING_TOKEN"
	ErrCodeInsufficientRole      ErrorCode = "INSUFFICIENT_ROLE"
	ErrCodeTooManyAttempts       ErrorCode = "TOO_MANY_ATTEMPTS"

	ErrCodeNoDataToPlot     ErrorCode = "NO_DATA_TO_PLOT"
	ErrCodeInvalidChartData ErrorCode = "INVALID_CHART_DATA"
	ErrCodeRenderFailed     ErrorCode = "RENDER_FAILED"
	ErrCodeArchiveDisabled  ErrorCode = "ARCHIVE_DISABLED"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {

			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok {
			if len(validationErrors.Errors) == 1 {
				return validationErrors.Errors[0].Message
			} else if len(validationErrors.Errors) > 1 {
				messages := make([]string, len(validationErrors.Errors))
				for i, err := range validationErrors.Errors {
					messages[i] = err.Message
				}
				return strings.Join(messages, "; ")
			}
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewTooManyRequestsError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeTooManyRequests,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusTooManyRequests,
	}
}

func NewRenderError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeRender,
		Code:       ErrCodeRenderFailed,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// NewNoRecordsError is returned by list endpoints when the table is empty.
func NewNoRecordsError(resource string) *AppError {
	return NewNotFoundError(fmt.Sprintf("No %s found", resource), ErrCodeNoRecords)
}

// MergeValidationErrors folds field errors from several validation passes
// into one response. Non-validation errors are returned as is.
func MergeValidationErrors(errs ...error) error {
	var merged []ValidationError
	for _, err := range errs {
		if err == nil {
			continue
		}
		appErr, ok := IsAppError(err)
		if !ok || appErr.Type != ErrorTypeValidation {
			return err
		}
		if details, ok := appErr.Details.(ValidationErrors); ok {
			merged = append(merged, details.Errors...)
			continue
		}
		merged = append(merged, ValidationError{Message: appErr.Message, Code: string(appErr.Code)})
	}
	if len(merged) == 0 {
		return nil
	}
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details:    ValidationErrors{Errors: merged},
	}
}

var (
	ErrInvalidCredentials    = NewUnauthorizedError("No active account found with the given credentials", ErrCodeInvalidCredentials)
	ErrUserInactive          = NewForbiddenError("User account is inactive", ErrCodeUserInactive)
	ErrInvalidToken          = NewUnauthorizedError("Token is invalid or expired", ErrCodeInvalidToken)
	ErrMissingToken          = NewUnauthorizedError("Authentication credentials were not provided", ErrCodeMissingToken)
	ErrInsufficientRole      = NewForbiddenError("You do not have permission to perform this action", ErrCodeInsufficientRole)
	ErrInvalidOrExpiredReset = NewValidationError("Invalid token or token has expired.", ErrCodeInvalidOrExpiredToken)
	ErrTooManyAttempts       = NewTooManyRequestsError("Too many login attempts, try again later", ErrCodeTooManyAttempts)
	ErrDeviceNotFound        = NewNotFoundError("Device not found", ErrCodeDeviceNotFound)
	ErrUserNotFound          = NewNotFoundError("User not found", ErrCodeUserNotFound)
	ErrEmployeeNotFound      = NewNotFoundError("Employee not found", ErrCodeEmployeeNotFound)
	ErrAttendanceNotFound    = NewNotFoundError("Attendance log not found", ErrCodeAttendanceNotFound)
	ErrLeaveRequestNotFound  = NewNotFoundError("Leave request not found", ErrCodeLeaveRequestNotFound)
	ErrNoDataToPlot          = NewValidationError("No data to plot", ErrCodeNoDataToPlot)
	ErrInvalidChartData      = NewValidationError("Invalid data for pie chart", ErrCodeInvalidChartData)
	ErrArchiveDisabled       = NewValidationError("Report archive is not configured", ErrCodeArchiveDisabled)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
