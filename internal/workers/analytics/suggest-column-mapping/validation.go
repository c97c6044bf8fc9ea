// internal/workers/analytics/suggest-column-mapping/validation.go
package suggestcolumnmapping

import "recruit-analytics/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"rosterCsv":    {Type: "string"},
			"rosterBase64": {Type: "string"},
			"headers": {
				Type:        "array",
				Description: "Header row of the upload, when the file itself is not passed",
				Items:       &validation.Property{Type: "string"},
			},
		},
	}
}

func GetOutputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"columnMapping", "unresolvedRoles", "complete"},
		Properties: map[string]validation.Property{
			"columnMapping":   {Type: "object"},
			"unresolvedRoles": {Type: "array", Items: &validation.Property{Type: "string"}},
			"complete":        {Type: "boolean"},
			"headers":         {Type: "array", Items: &validation.Property{Type: "string"}},
		},
	}
}
