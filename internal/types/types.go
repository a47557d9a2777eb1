// Package types defines core data types and errors shared across the
// grade stamping application.
package types

// SupervisorInfo holds the exam staff names printed on the first page of
// every stamped document. It is collected once per run and shared
// read-only across all documents.
type SupervisorInfo struct {
	Supervisor1 string `json:"supervisor1"`
	Supervisor2 string `json:"supervisor2"`
	Grader1     string `json:"grader1"`
	Grader2     string `json:"grader2"`
}

// DefaultSupervisorInfo returns the staff names used when running with
// --default-info instead of interactive prompts.
func DefaultSupervisorInfo() SupervisorInfo {
	return SupervisorInfo{
		Supervisor1: "Cán bộ coi thi 1",
		Supervisor2: "Cán bộ coi thi 2",
		Grader1:     "Giảng viên chấm thi 1",
		Grader2:     "Giảng viên chấm thi 2",
	}
}

// ErrorCode identifies a class of failure for logging and tests.
type ErrorCode string

const (
	ErrSourceNotFound     ErrorCode = "SOURCE_NOT_FOUND"
	ErrMissingColumns     ErrorCode = "MISSING_COLUMNS"
	ErrNoCategoriesFound  ErrorCode = "NO_CATEGORIES_FOUND"
	ErrNoSpreadsheetFound ErrorCode = "NO_SPREADSHEET_FOUND"
	ErrAnchorNotFound     ErrorCode = "ANCHOR_NOT_FOUND"
	ErrNoStudentsFound    ErrorCode = "NO_STUDENTS_FOUND"
	ErrWrite              ErrorCode = "WRITE_ERROR"
	ErrClassificationRead ErrorCode = "CLASSIFICATION_READ_ERROR"
	ErrRender             ErrorCode = "RENDER_ERROR"
	ErrConfig             ErrorCode = "CONFIG_ERROR"
	ErrInternal           ErrorCode = "INTERNAL_ERROR"
)

// AppError is the application error type carrying a machine-readable code
// alongside a human-readable message.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
	Cause   error     `json:"-"`
}

// Error implements the error interface for AppError
func (e *AppError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

// Unwrap returns the underlying cause of the error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new AppError with the given code, message, and optional cause
func NewAppError(code ErrorCode, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewAppErrorWithDetails creates a new AppError with details
func NewAppErrorWithDetails(code ErrorCode, message, details string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
		Cause:   cause,
	}
}

// HasCode reports whether err is an *AppError carrying the given code
// anywhere in its chain.
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		if appErr, ok := err.(*AppError); ok && appErr.Code == code {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
