// internal/workers/analytics/compute-funnel-metric/validation.go
package computefunnelmetric

import (
	"recruit-analytics/internal/analytics"
	"recruit-analytics/internal/common/config"
	"recruit-analytics/internal/common/validation"
	"recruit-analytics/internal/models"
)

func GetInputSchema() validation.JSONSchema {
	stages := make([]string, 0, len(models.Stages))
	for _, s := range models.Stages {
		stages = append(stages, string(s))
	}
	metrics := make([]string, 0, len(models.MetricLabels))
	for _, stage := range models.Stages {
		for _, m := range analytics.MetricOptions(stage) {
			metrics = appendUnique(metrics, string(m))
		}
	}

	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"stage", "metric"},
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
			"stage": {
				Type: "string",
				Enum: stages,
			},
			"metric": {
				Type: "string",
				Enum: metrics,
			},
			"referenceYear": {
				Type:    "integer",
				Minimum: validation.Float(1900),
				Maximum: validation.Float(9998),
			},
			"reservationDenominator": {
				Type: "string",
				Enum: []string{config.ReservationDenominatorReserved, config.ReservationDenominatorAll},
			},
		},
	}
}

func GetOutputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"runId", "label", "numerator", "denominator", "display", "sufficient"},
		Properties: map[string]validation.Property{
			"runId":       {Type: "string"},
			"label":       {Type: "string"},
			"numerator":   {Type: "integer", Minimum: validation.Float(0)},
			"denominator": {Type: "integer", Minimum: validation.Float(0)},
			"display":     {Type: "string"},
			"sufficient":  {Type: "boolean"},
			"rows":        {Type: "integer"},
			"droppedRows": {Type: "integer"},
		},
	}
}

func appendUnique(list []string, v string) []string {
	for _, s := range list {
		if s == v {
			return list
		}
	}
	return append(list, v)
}
