package errors

import (
	"errors"
	"fmt"
)

// ErrorCode định nghĩa mã lỗi
type ErrorCode string

const (
	// Auth errors
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeInvalidToken ErrorCode = "INVALID_TOKEN"
	ErrCodeMissingToken ErrorCode = "MISSING_TOKEN"

	// Validation errors
	ErrCodeValidation      ErrorCode = "VALIDATION_ERROR"
	ErrCodeRequiredField   ErrorCode = "REQUIRED_FIELD"
	ErrCodeInvalidFormat   ErrorCode = "INVALID_FORMAT"
	ErrCodeInvalidDuration ErrorCode = "INVALID_DURATION"

	// Order / payment errors
	ErrCodeInvalidState ErrorCode = "INVALID_STATE"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeTransient    ErrorCode = "TRANSIENT_ERROR"
)

// AppError định nghĩa lỗi của ứng dụng
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
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

// NewAppError tạo một AppError mới
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// GetAppError lấy AppError từ error
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// CodeOf trả về mã lỗi của error, rỗng nếu không phải AppError
func CodeOf(err error) ErrorCode {
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Code
	}
	return ""
}

// IsAuthError kiểm tra lỗi xác thực (token thiếu, sai hoặc hết hạn).
// Backend trả mã lỗi có cấu trúc nên không cần so khớp chuỗi message.
func IsAuthError(err error) bool {
	switch CodeOf(err) {
	case ErrCodeUnauthorized, ErrCodeInvalidToken, ErrCodeMissingToken:
		return true
	}
	return false
}

// IsTransient kiểm tra lỗi tạm thời (mạng, 5xx), có thể thử lại ở tick sau
func IsTransient(err error) bool {
	return CodeOf(err) == ErrCodeTransient
}

// IsNotFound kiểm tra lỗi không tìm thấy
func IsNotFound(err error) bool {
	return CodeOf(err) == ErrCodeNotFound
}

// IsInvalidState kiểm tra lỗi thao tác sai trạng thái
func IsInvalidState(err error) bool {
	return CodeOf(err) == ErrCodeInvalidState
}

// IsValidation kiểm tra lỗi dữ liệu đầu vào
func IsValidation(err error) bool {
	switch CodeOf(err) {
	case ErrCodeValidation, ErrCodeRequiredField, ErrCodeInvalidFormat, ErrCodeInvalidDuration:
		return true
	}
	return false
}

var (
	// Order errors
	ErrOrderNotFound  = errors.New("order not found")
	ErrOrderCancelled = errors.New("order already cancelled")
	ErrOrderCompleted = errors.New("order already completed")

	// Session errors
	ErrSessionExpired  = errors.New("payment session expired")
	ErrConfirmInFlight = errors.New("confirm request already in flight")
	ErrCancelInFlight  = errors.New("cancel request already in flight")
	ErrNoActiveSession = errors.New("no active payment session")
)
