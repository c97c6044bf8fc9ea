// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Configuration errors: the caller supplied a mapping or selection the engine cannot honour.
const (
	ErrCodeMissingColumn          ErrorCode = "MISSING_COLUMN"
	ErrCodeInvalidColumnMapping   ErrorCode = "INVALID_COLUMN_MAPPING"
	ErrCodeInvalidMetricSelection ErrorCode = "INVALID_METRIC_SELECTION"
	ErrCodeInvalidKeywordTable    ErrorCode = "INVALID_KEYWORD_TABLE"
)

// Input errors: the job variables or the uploaded roster are unusable.
const (
	ErrCodeInvalidInput    ErrorCode = "INVALID_INPUT"
	ErrCodeMalformedRoster ErrorCode = "MALFORMED_ROSTER"
)

// Delivery errors.
const (
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
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
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// AsStandardError unwraps err to a *StandardError when one is present in its chain.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// HasCode reports whether err carries a StandardError with the given code.
func HasCode(err error, code ErrorCode) bool {
	stdErr, ok := AsStandardError(err)
	return ok && stdErr.Code == code
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

// NewMissingColumnError reports a mapped role whose header is absent from the upload.
func NewMissingColumnError(role, column string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingColumn,
		Message:   fmt.Sprintf("Column for role '%s' not found in upload", role),
		Details:   fmt.Sprintf("role: %s, column: %q", role, column),
		Retryable: false,
		Metadata:  map[string]interface{}{"role": role, "column": column},
		Timestamp: time.Now().UTC(),
	}
}

// NewUnmappedRoleError reports a required role that the mapping leaves empty.
func NewUnmappedRoleError(role string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingColumn,
		Message:   fmt.Sprintf("Role '%s' is required but not mapped", role),
		Details:   fmt.Sprintf("role: %s", role),
		Retryable: false,
		Metadata:  map[string]interface{}{"role": role},
		Timestamp: time.Now().UTC(),
	}
}

func NewInvalidColumnMappingError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidColumnMapping,
		Message:   "Column mapping is invalid",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewInvalidMetricSelectionError(stage, metric string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidMetricSelection,
		Message:   "Metric is not available for the selected stage",
		Details:   fmt.Sprintf("stage: %s, metric: %s", stage, metric),
		Retryable: false,
		Metadata:  map[string]interface{}{"stage": stage, "metric": metric},
		Timestamp: time.Now().UTC(),
	}
}

func NewInvalidKeywordTableError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidKeywordTable,
		Message:   "Flag keyword table is invalid",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewInvalidInputError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidInput,
		Message:   "Job input validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMalformedRosterError reports an upload that cannot be read as tabular data.
func NewMalformedRosterError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMalformedRoster,
		Message:   "Roster upload could not be parsed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   fmt.Sprintf("Failed to deliver %s notification", channel),
		Details:   err.Error(),
		Retryable: true,
		Metadata:  map[string]interface{}{"channel": channel},
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to the BPMN error codes caught by boundary events.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeMissingColumn:          "MISSING_COLUMN",
	ErrCodeInvalidColumnMapping:   "INVALID_COLUMN_MAPPING",
	ErrCodeInvalidMetricSelection: "INVALID_METRIC_SELECTION",
	ErrCodeInvalidKeywordTable:    "INVALID_CONFIGURATION",
	ErrCodeInvalidInput:           "INVALID_INPUT",
	ErrCodeMalformedRoster:        "MALFORMED_ROSTER",
	ErrCodeNotificationSendFailed: "NOTIFICATION_SEND_FAILED",
}

// GetRetryCount returns the recommended retry count for a code. Analyses are
// pure functions of their input, so only delivery failures are worth retrying.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeNotificationSendFailed:
		return 3
	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError.
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

// GetErrorCategory groups codes for logging and dashboards.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "COLUMN") || strings.Contains(codeStr, "METRIC") || strings.Contains(codeStr, "KEYWORD"):
		return "CONFIGURATION"
	case strings.Contains(codeStr, "ROSTER"):
		return "UPLOAD"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
