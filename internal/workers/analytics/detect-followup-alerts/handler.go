// internal/workers/analytics/detect-followup-alerts/handler.go
package detectfollowupalerts

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"recruit-analytics/internal/analytics"
	"recruit-analytics/internal/common/errors"
	"recruit-analytics/internal/common/logger"
	"recruit-analytics/internal/common/metrics"
	"recruit-analytics/internal/common/observability"
	"recruit-analytics/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	TaskType = "detect-followup-alerts"
)

type Handler struct {
	config       *Config
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
	now          func() time.Time
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		logger:       log,
		errorHandler: errors.NewErrorHandler(log),
		now:          time.Now,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	timer := metrics.StartJob(TaskType)
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := parseInput(job.Variables)
	if err != nil {
		stdErr := h.errorHandler.HandleJobError(ctx, client, job, err)
		timer.Done(string(stdErr.Code))
		return
	}

	output, err := h.execute(ctx, input)
	if err != nil {
		stdErr := h.errorHandler.HandleJobError(ctx, client, job, err)
		timer.Done(string(stdErr.Code))
		return
	}

	h.completeJob(ctx, client, job, output)
	timer.Done("")
}

func parseInput(variables string) (*Input, error) {
	result, err := validation.Validate([]byte(variables), GetInputSchema())
	if err != nil {
		return nil, errors.NewInvalidInputError(err.Error())
	}
	if !result.Valid {
		return nil, errors.NewInvalidInputError(strings.Join(result.GetErrorMessages(), "; "))
	}

	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, errors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err))
	}
	if input.Empty() {
		return nil, errors.NewInvalidInputError("one of rosterCsv or rosterBase64 is required")
	}
	return &input, nil
}

// resolveAsOf returns the evaluation time. The clock is read only when the
// job does not pin one.
func (h *Handler) resolveAsOf(asOf string) (time.Time, error) {
	if asOf == "" {
		return h.now(), nil
	}
	if t, err := time.Parse(time.RFC3339, asOf); err == nil {
		return t, nil
	}
	if t, err := time.Parse(asOfDateLayout, asOf); err == nil {
		return t, nil
	}
	return time.Time{}, errors.NewInvalidInputError(fmt.Sprintf("asOf %q is neither RFC3339 nor YYYY-MM-DD", asOf))
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	_, span := observability.StartSpan(ctx, "analytics.alerts.detect")
	defer span.End()

	output, err := h.detect(input)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("alerts.flagged", output.TotalFlagged))
	return output, nil
}

func (h *Handler) detect(input *Input) (*Output, error) {
	now, err := h.resolveAsOf(input.AsOf)
	if err != nil {
		return nil, err
	}

	analyzer, err := analytics.NewAnalyzer(h.config.Analytics.WithOverrides(input.ReferenceYear, ""), h.logger)
	if err != nil {
		return nil, err
	}

	table, err := input.Table()
	if err != nil {
		return nil, err
	}

	roster, err := analyzer.Prepare(table, input.ColumnMapping)
	if err != nil {
		return nil, err
	}
	metrics.AnalyticsRosterRows.WithLabelValues(TaskType).Observe(float64(roster.Stats.Kept))

	alerts := roster.Alerts(now)
	flagged := make(map[int]bool)
	for _, alert := range alerts {
		metrics.AnalyticsAlertsRaised.WithLabelValues(string(alert.Rule)).Set(float64(alert.Count))
		for _, entry := range alert.Entries {
			flagged[entry.Row] = true
		}
	}

	h.logger.Info("follow-up alerts detected", map[string]interface{}{
		"asOf":         now.Format(time.RFC3339),
		"candidates":   roster.Stats.Kept,
		"totalFlagged": len(flagged),
	})

	return &Output{
		RunID:        uuid.New().String(),
		AsOf:         now.Format(time.RFC3339),
		Alerts:       alerts,
		TotalFlagged: len(flagged),
		Rows:         roster.Stats.Rows,
		DroppedRows:  roster.Stats.Dropped,
		Warnings:     table.Warnings,
	}, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

