// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"recruit-analytics/internal/common/errors"
	"recruit-analytics/internal/common/validation"
	cfm "recruit-analytics/internal/workers/analytics/compute-funnel-metric"
	dfa "recruit-analytics/internal/workers/analytics/detect-followup-alerts"
	scm "recruit-analytics/internal/workers/analytics/suggest-column-mapping"
	sad "recruit-analytics/internal/workers/communication/send-alert-digest"
)

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	err = json.Unmarshal(data, &reg)
	return &reg, err
}

// SaveRegistry writes reg as indented JSON, creating the directory if needed.
func SaveRegistry(reg *ActivityRegistry, path string) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}

// Find returns the activity bound to taskType.
func (r *ActivityRegistry) Find(taskType string) (Activity, bool) {
	for _, a := range r.Activities {
		if a.TaskType == taskType {
			return a, true
		}
	}
	return Activity{}, false
}

// Validate checks required fields, ID naming and uniqueness of IDs and task types.
func (r *ActivityRegistry) Validate() error {
	if len(r.Activities) == 0 {
		return fmt.Errorf("registry contains no activities")
	}

	ids := make(map[string]bool)
	taskTypes := make(map[string]bool)
	for _, activity := range r.Activities {
		if activity.ID == "" {
			return fmt.Errorf("activity missing required field: ID")
		}
		if ids[activity.ID] {
			return fmt.Errorf("duplicate activity ID: %s", activity.ID)
		}
		ids[activity.ID] = true

		if err := validation.ValidateActivityNaming(activity.ID); err != nil {
			return fmt.Errorf("activity %s: %w", activity.ID, err)
		}
		if activity.DisplayName == "" {
			return fmt.Errorf("activity %s missing required field: DisplayName", activity.ID)
		}
		if activity.TaskType == "" {
			return fmt.Errorf("activity %s missing required field: TaskType", activity.ID)
		}
		if taskTypes[activity.TaskType] {
			return fmt.Errorf("duplicate task type: %s", activity.TaskType)
		}
		taskTypes[activity.TaskType] = true
		if activity.Category == "" {
			return fmt.Errorf("activity %s missing required field: Category", activity.ID)
		}
	}
	return nil
}

// Default describes the activities implemented in this repository.
func Default() *ActivityRegistry {
	analysisErrors := codes(
		errors.ErrCodeInvalidInput,
		errors.ErrCodeMalformedRoster,
		errors.ErrCodeMissingColumn,
		errors.ErrCodeInvalidColumnMapping,
		errors.ErrCodeInvalidKeywordTable,
	)

	return &ActivityRegistry{
		Version:     "1.0.0",
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
		Activities: []Activity{
			{
				ID:                   "analytics.funnel.compute",
				DisplayName:          "Compute Funnel Metric",
				Description:          "Computes one conversion metric of the hiring funnel from a roster export",
				Category:             "analytics",
				Version:              "1.0.0",
				TaskType:             cfm.TaskType,
				ImplementationStatus: StatusCompleted,
				InputSchema:          schemaMap(cfm.GetInputSchema()),
				OutputSchema:         schemaMap(cfm.GetOutputSchema()),
				ErrorCodes:           append(analysisErrors, string(errors.ErrCodeInvalidMetricSelection)),
				Timeout:              "30s",
				Retries:              0,
				Workflows:            []string{RecruitingWorkflow},
				Tags:                 []string{"analytics", "funnel"},
			},
			{
				ID:                   "analytics.alerts.detect",
				DisplayName:          "Detect Follow-up Alerts",
				Description:          "Lists candidates needing follow-up as of a point in time",
				Category:             "analytics",
				Version:              "1.0.0",
				TaskType:             dfa.TaskType,
				ImplementationStatus: StatusCompleted,
				InputSchema:          schemaMap(dfa.GetInputSchema()),
				OutputSchema:         schemaMap(dfa.GetOutputSchema()),
				ErrorCodes:           analysisErrors,
				Timeout:              "30s",
				Retries:              0,
				Workflows:            []string{RecruitingWorkflow},
				Tags:                 []string{"analytics", "alerts"},
			},
			{
				ID:                   "analytics.mapping.suggest",
				DisplayName:          "Suggest Column Mapping",
				Description:          "Guesses the column mapping of a roster export from its headers",
				Category:             "analytics",
				Version:              "1.0.0",
				TaskType:             scm.TaskType,
				ImplementationStatus: StatusCompleted,
				InputSchema:          schemaMap(scm.GetInputSchema()),
				OutputSchema:         schemaMap(scm.GetOutputSchema()),
				ErrorCodes:           codes(errors.ErrCodeInvalidInput, errors.ErrCodeMalformedRoster),
				Timeout:              "10s",
				Retries:              0,
				Workflows:            []string{RecruitingWorkflow},
				Tags:                 []string{"analytics", "mapping"},
			},
			{
				ID:                   "communication.digest.send",
				DisplayName:          "Send Alert Digest",
				Description:          "Emails the follow-up digest and texts a one-line summary",
				Category:             "communication",
				Version:              "1.0.0",
				TaskType:             sad.TaskType,
				ImplementationStatus: StatusCompleted,
				InputSchema:          schemaMap(sad.GetInputSchema()),
				OutputSchema:         schemaMap(sad.GetOutputSchema()),
				ErrorCodes:           codes(errors.ErrCodeInvalidInput, errors.ErrCodeNotificationSendFailed),
				Timeout:              "30s",
				Retries:              errors.GetRetryCount(errors.ErrCodeNotificationSendFailed),
				Workflows:            []string{RecruitingWorkflow},
				Tags:                 []string{"notification", "email", "sms"},
			},
		},
	}
}

func codes(cs ...errors.ErrorCode) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = string(c)
	}
	return out
}

// schemaMap converts a typed schema to the generic form stored in the registry file.
func schemaMap(schema validation.JSONSchema) map[string]interface{} {
	data, err := json.Marshal(schema)
	if err != nil {
		return map[string]interface{}{}
	}
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return map[string]interface{}{}
	}
	return out
}
