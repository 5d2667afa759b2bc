// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"influencer-matching/internal/matching"
	"influencer-matching/internal/models"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidMatchRequest       ErrorCode = "INVALID_MATCH_REQUEST"
	ErrCodeInputSchemaViolation      ErrorCode = "INPUT_SCHEMA_VIOLATION"
	ErrCodeProfileNotFound           ErrorCode = "PROFILE_NOT_FOUND"
	ErrCodeProfileIntegrityViolation ErrorCode = "PROFILE_INTEGRITY_VIOLATION"
	ErrCodeProfileStoreQueryFailed   ErrorCode = "PROFILE_STORE_QUERY_FAILED"
	ErrCodeProfileStoreTimeout       ErrorCode = "PROFILE_STORE_TIMEOUT"
	ErrCodeInternal                  ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// WithMetadata attaches a key/value pair and returns the same error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewInvalidMatchRequestError creates a non-retryable request error.
func NewInvalidMatchRequestError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidMatchRequest,
		Message:   "Invalid match request",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInputSchemaViolationError creates a non-retryable job variable error.
func NewInputSchemaViolationError(taskType string, violations []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInputSchemaViolation,
		Message:   "Job variables do not match the task input schema",
		Details:   fmt.Sprintf("taskType: %s, violations: %s", taskType, strings.Join(violations, "; ")),
		Retryable: false,
		Metadata:  map[string]interface{}{"violations": violations},
		Timestamp: time.Now().UTC(),
	}
}

// NewProfileNotFoundError creates a non-retryable lookup error.
func NewProfileNotFoundError(kind, id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProfileNotFound,
		Message:   fmt.Sprintf("%s profile not found", kind),
		Details:   fmt.Sprintf("id: %s", id),
		Retryable: false,
		Metadata:  map[string]interface{}{"profileKind": kind, "profileId": id},
		Timestamp: time.Now().UTC(),
	}
}

// NewProfileIntegrityError creates a non-retryable data integrity error.
func NewProfileIntegrityError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeProfileIntegrityViolation,
		Message:   "Profile is marked complete but misses required data",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewProfileStoreQueryFailedError creates a retryable store error.
func NewProfileStoreQueryFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeProfileStoreQueryFailed,
		Message:   "Profile store query failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewProfileStoreTimeoutError creates a retryable timeout error.
func NewProfileStoreTimeoutError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeProfileStoreTimeout,
		Message:   "Profile store query timeout",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// FromError classifies package sentinel errors into a StandardError.
// Unknown errors become INTERNAL_ERROR.
func FromError(err error) *StandardError {
	if err == nil {
		return nil
	}

	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}

	var integrityErr *models.IntegrityError
	switch {
	case stderrors.Is(err, matching.ErrInvalidOptions):
		return NewInvalidMatchRequestError(err.Error())
	case stderrors.As(err, &integrityErr):
		return NewProfileIntegrityError(err).
			WithMetadata("profileKind", integrityErr.Kind).
			WithMetadata("profileId", integrityErr.ProfileID).
			WithMetadata("field", integrityErr.Field)
	case stderrors.Is(err, models.ErrProfileIntegrity):
		return NewProfileIntegrityError(err)
	case stderrors.Is(err, models.ErrProfileNotFound):
		return &StandardError{
			Code:      ErrCodeProfileNotFound,
			Message:   "Profile not found",
			Details:   err.Error(),
			Timestamp: time.Now().UTC(),
		}
	case stderrors.Is(err, context.DeadlineExceeded):
		return NewProfileStoreTimeoutError(err)
	case stderrors.Is(err, matching.ErrStoreQuery):
		return NewProfileStoreQueryFailedError(err)
	}
	return NewInternalError(err)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to the BPMN error codes modelled in the workflow.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInvalidMatchRequest:       "INVALID_MATCH_REQUEST",
	ErrCodeInputSchemaViolation:      "INVALID_MATCH_REQUEST",
	ErrCodeProfileNotFound:           "PROFILE_NOT_FOUND",
	ErrCodeProfileIntegrityViolation: "PROFILE_INTEGRITY_VIOLATION",
	ErrCodeProfileStoreQueryFailed:   "PROFILE_STORE_QUERY_FAILED",
	ErrCodeProfileStoreTimeout:       "PROFILE_STORE_TIMEOUT",
	ErrCodeInternal:                  "INTERNAL_ERROR",
}

// GetRetryCount returns the retry budget the workflow engine gets for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeProfileStoreQueryFailed:
		return 3
	case ErrCodeProfileStoreTimeout:
		return 2
	default:
		return 0 // Business errors: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "PROFILE_STORE"):
		return "STORAGE"
	case strings.HasPrefix(codeStr, "PROFILE"):
		return "DATA"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "SCHEMA"):
		return "VALIDATION"
	default:
		return "INTERNAL"
	}
}
