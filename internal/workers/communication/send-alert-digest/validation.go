// internal/workers/communication/send-alert-digest/validation.go
package sendalertdigest

import "recruit-analytics/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"runId", "alerts"},
		Properties: map[string]validation.Property{
			"runId": {
				Type:        "string",
				Description: "Run ID of the alert detection being reported",
				MinLength:   validation.Int(1),
			},
			"asOf": {
				Type:        "string",
				Description: "Evaluation time of the alert detection",
			},
			"alerts": {
				Type: "array",
				Items: &validation.Property{
					Type:     "object",
					Required: []string{"rule", "label", "count"},
					Properties: map[string]validation.Property{
						"rule":    {Type: "string"},
						"label":   {Type: "string"},
						"count":   {Type: "integer", Minimum: validation.Float(0)},
						"skipped": {Type: "boolean"},
						"entries": {Type: "array"},
					},
				},
			},
			"recipients": {
				Type:  "array",
				Items: &validation.Property{Type: "string"},
			},
			"phoneNumbers": {
				Type:  "array",
				Items: &validation.Property{Type: "string", Pattern: `^\+[1-9]\d{7,14}$`},
			},
		},
	}
}

func GetOutputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"notificationId", "status", "sentAt"},
		Properties: map[string]validation.Property{
			"notificationId": {Type: "string"},
			"status": {
				Type: "string",
				Enum: []string{StatusSent, StatusFailed, StatusDisabled, StatusSkipped, StatusDuplicate},
			},
			"sentAt":      {Type: "string"},
			"totalAlerts": {Type: "integer"},
			"emailsSent":  {Type: "integer"},
			"smsSent":     {Type: "integer"},
		},
	}
}
