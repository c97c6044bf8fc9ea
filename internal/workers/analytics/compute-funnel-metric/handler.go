// internal/workers/analytics/compute-funnel-metric/handler.go
package computefunnelmetric

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"recruit-analytics/internal/analytics"
	"recruit-analytics/internal/common/errors"
	"recruit-analytics/internal/common/logger"
	"recruit-analytics/internal/common/metrics"
	"recruit-analytics/internal/common/observability"
	"recruit-analytics/internal/common/validation"
	"recruit-analytics/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	TaskType = "compute-funnel-metric"
)

type Handler struct {
	config       *Config
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		logger:       log,
		errorHandler: errors.NewErrorHandler(log),
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

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	_, span := observability.StartSpan(ctx, "analytics.funnel.compute",
		attribute.String("stage", string(input.Stage)),
		attribute.String("metric", string(input.Metric)),
	)
	defer span.End()

	output, err := h.compute(input)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return output, nil
}

func (h *Handler) compute(input *Input) (*Output, error) {
	opts := h.config.Analytics.WithOverrides(input.ReferenceYear, input.ReservationDenominator)
	analyzer, err := analytics.NewAnalyzer(opts, h.logger)
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

	sel := models.Selection{Stage: input.Stage, Metric: input.Metric}
	result, err := roster.Metric(sel)
	if err != nil {
		return nil, err
	}

	h.logger.Info("funnel metric computed", map[string]interface{}{
		"stage":       string(sel.Stage),
		"metric":      string(sel.Metric),
		"numerator":   result.Numerator,
		"denominator": result.Denominator,
		"display":     result.Display(),
	})

	return &Output{
		RunID:       uuid.New().String(),
		Stage:       sel.Stage,
		Metric:      sel.Metric,
		Label:       result.Label,
		Numerator:   result.Numerator,
		Denominator: result.Denominator,
		Percentage:  result.Percentage,
		Display:     result.Display(),
		Sufficient:  result.Sufficient(),
		Rows:        roster.Stats.Rows,
		DroppedRows: roster.Stats.Dropped,
		Warnings:    table.Warnings,
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
