// internal/workers/analytics/suggest-column-mapping/handler.go
package suggestcolumnmapping

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"recruit-analytics/internal/analytics"
	"recruit-analytics/internal/common/errors"
	"recruit-analytics/internal/common/logger"
	"recruit-analytics/internal/common/metrics"
	"recruit-analytics/internal/common/validation"
	"recruit-analytics/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "suggest-column-mapping"
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
	if input.Empty() && len(input.Headers) == 0 {
		return nil, errors.NewInvalidInputError("one of rosterCsv, rosterBase64 or headers is required")
	}
	return &input, nil
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	headers := input.Headers
	if !input.Empty() {
		table, err := input.Table()
		if err != nil {
			return nil, err
		}
		headers = table.Headers
	}

	mapping, unresolved := analytics.SuggestMapping(headers)
	if unresolved == nil {
		unresolved = []models.Role{}
	}

	h.logger.Info("column mapping suggested", map[string]interface{}{
		"headers":    len(headers),
		"unresolved": len(unresolved),
	})

	return &Output{
		ColumnMapping:   mapping,
		UnresolvedRoles: unresolved,
		Complete:        len(unresolved) == 0,
		Headers:         headers,
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
