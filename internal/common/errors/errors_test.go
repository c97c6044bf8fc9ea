// internal/common/errors/errors_test.go
package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToBPMNError(t *testing.T) {
	tests := []struct {
		name      string
		err       *StandardError
		code      string
		retries   int
		retryable bool
	}{
		{"missing column", NewMissingColumnError("last_name", "姓"), "MISSING_COLUMN", 0, false},
		{"keyword table", NewInvalidKeywordTableError("unknown flag"), "INVALID_CONFIGURATION", 0, false},
		{"malformed roster", NewMalformedRosterError(stderrors.New("empty file")), "MALFORMED_ROSTER", 0, false},
		{"notification", NewNotificationSendFailedError("email", stderrors.New("throttled")), "NOTIFICATION_SEND_FAILED", 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bpmnErr := ConvertToBPMNError(tt.err)
			assert.Equal(t, tt.code, bpmnErr.Code)
			assert.Equal(t, tt.retries, bpmnErr.Retries)
			assert.Equal(t, tt.retryable, bpmnErr.Retryable)

			vars := bpmnErr.ToErrorVariables()
			assert.Equal(t, string(tt.err.Code), vars["originalErrorCode"])
			assert.Equal(t, tt.code, vars["errorCode"])
		})
	}
}

func TestConvertToBPMNError_CarriesMetadata(t *testing.T) {
	bpmnErr := ConvertToBPMNError(NewInvalidMetricSelectionError("first_interview", "offer_rate"))

	vars := bpmnErr.ToErrorVariables()
	assert.Equal(t, "first_interview", vars["stage"])
	assert.Equal(t, "offer_rate", vars["metric"])
}

func TestConvertToBPMNError_NonRetryableHasNoRetries(t *testing.T) {
	stdErr := NewNotificationSendFailedError("sms", stderrors.New("opted out"))
	stdErr.Retryable = false

	assert.Zero(t, ConvertToBPMNError(stdErr).Retries)
}

func TestHasCode_Wrapped(t *testing.T) {
	err := fmt.Errorf("prepare roster: %w", NewUnmappedRoleError("last_name"))

	assert.True(t, HasCode(err, ErrCodeMissingColumn))
	assert.False(t, HasCode(err, ErrCodeInvalidInput))
	assert.False(t, HasCode(stderrors.New("plain"), ErrCodeMissingColumn))
}

func TestNormalize(t *testing.T) {
	stdErr := NewInvalidInputError("stage: required")
	assert.Same(t, stdErr, Normalize(fmt.Errorf("wrapped: %w", stdErr)))

	plain := Normalize(stderrors.New("boom"))
	require.NotNil(t, plain)
	assert.Equal(t, ErrorCode("INTERNAL_ERROR"), plain.Code)
	assert.Equal(t, "boom", plain.Details)
	assert.False(t, plain.Retryable)
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "CONFIGURATION", GetErrorCategory(ErrCodeInvalidColumnMapping))
	assert.Equal(t, "CONFIGURATION", GetErrorCategory(ErrCodeInvalidKeywordTable))
	assert.Equal(t, "UPLOAD", GetErrorCategory(ErrCodeMalformedRoster))
	assert.Equal(t, "NOTIFICATION", GetErrorCategory(ErrCodeNotificationSendFailed))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInvalidInput))
	assert.Equal(t, "OTHER", GetErrorCategory("INTERNAL_ERROR"))
}
