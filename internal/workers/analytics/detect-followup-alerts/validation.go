// internal/workers/analytics/detect-followup-alerts/validation.go
package detectfollowupalerts

import "recruit-analytics/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"rosterCsv": {
				Type:        "string",
				Description: "Roster export as CSV text",
			},
			"rosterBase64": {
				Type:        "string",
				Description: "Roster export as base64 encoded bytes",
			},
			"columnMapping": {
				Type:        "object",
				Description: "Per-job column bindings layered over the configured mapping",
			},
			"referenceYear": {
				Type:    "integer",
				Minimum: validation.Float(1900),
				Maximum: validation.Float(9998),
			},
			"asOf": {
				Type:        "string",
				Description: "Evaluation time, RFC3339 or YYYY-MM-DD",
				Pattern:     `^\d{4}-\d{2}-\d{2}`,
			},
		},
	}
}

func GetOutputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"runId", "asOf", "alerts", "totalFlagged"},
		Properties: map[string]validation.Property{
			"runId": {Type: "string"},
			"asOf":  {Type: "string"},
			"alerts": {
				Type: "array",
				Items: &validation.Property{
					Type:     "object",
					Required: []string{"rule", "label", "count", "entries"},
					Properties: map[string]validation.Property{
						"rule":    {Type: "string"},
						"label":   {Type: "string"},
						"count":   {Type: "integer", Minimum: validation.Float(0)},
						"skipped": {Type: "boolean"},
						"entries": {Type: "array"},
					},
				},
			},
			"totalFlagged": {Type: "integer", Minimum: validation.Float(0)},
		},
	}
}
