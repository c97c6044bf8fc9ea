// internal/workers/communication/send-alert-digest/handler.go
package sendalertdigest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"recruit-analytics/internal/common/aws"
	"recruit-analytics/internal/common/cache"
	"recruit-analytics/internal/common/errors"
	"recruit-analytics/internal/common/logger"
	"recruit-analytics/internal/common/metrics"
	"recruit-analytics/internal/common/observability"
	"recruit-analytics/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

const (
	TaskType = "send-alert-digest"
)

// DeliveryGuard records which runs already had their digest delivered.
type DeliveryGuard interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

type Handler struct {
	config       *Config
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
	email        aws.EmailSender
	sms          aws.SMSSender
	guard        DeliveryGuard
}

// NewHandler builds SES and SNS clients for the configured region, and a
// Redis delivery guard when de-duplication is enabled.
func NewHandler(config *Config, log logger.Logger) (*Handler, error) {
	ctx := context.Background()

	sesClient, err := aws.NewSESClient(ctx, config.AWSRegion)
	if err != nil {
		return nil, err
	}
	snsClient, err := aws.NewSNSClient(ctx, config.AWSRegion)
	if err != nil {
		return nil, err
	}
	h := NewHandlerWithClients(config, log, sesClient, snsClient)
	if config.DedupEnabled {
		h.guard = cache.NewRedis(config.Redis)
	}
	return h, nil
}

// WithGuard sets the delivery guard.
func (h *Handler) WithGuard(guard DeliveryGuard) *Handler {
	h.guard = guard
	return h
}

// Close releases the delivery guard's connection when it holds one.
func (h *Handler) Close() error {
	if closer, ok := h.guard.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func NewHandlerWithClients(config *Config, log logger.Logger, email aws.EmailSender, sms aws.SMSSender) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		logger:       log,
		errorHandler: errors.NewErrorHandler(log),
		email:        email,
		sms:          sms,
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
	return &input, nil
}

// execute delivers the digest. A failure before anything was delivered is
// returned as a retryable error; once one message is out the job completes
// with StatusFailed so a retry cannot send duplicates.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	ctx, span := observability.StartSpan(ctx, "notifications.digest.send",
		attribute.String("run_id", input.RunID),
	)
	defer span.End()

	recipients := input.Recipients
	if len(recipients) == 0 {
		recipients = h.config.Recipients
	}
	for _, r := range recipients {
		if !validation.ValidateEmail(r) {
			return nil, errors.NewInvalidInputError(fmt.Sprintf("invalid recipient address %q", r))
		}
	}
	phones := input.PhoneNumbers
	if len(phones) == 0 {
		phones = h.config.PhoneNumbers
	}
	for _, p := range phones {
		if !validation.ValidatePhone(p) {
			return nil, errors.NewInvalidInputError(fmt.Sprintf("invalid phone number %q", p))
		}
	}

	count := total(input.Alerts)
	output := &Output{
		NotificationID: uuid.New().String(),
		SentAt:         time.Now().UTC().Format(time.RFC3339),
		TotalAlerts:    count,
	}

	if !h.config.EmailEnabled && !h.config.SMSEnabled {
		output.Status = StatusDisabled
		return output, nil
	}
	if count == 0 {
		h.logger.Info("no follow-ups to report", map[string]interface{}{"runId": input.RunID})
		output.Status = StatusSkipped
		return output, nil
	}

	emailOut := h.config.EmailEnabled && len(recipients) > 0
	smsOut := h.config.SMSEnabled && len(phones) > 0
	if !emailOut && !smsOut {
		output.Status = StatusDisabled
		return output, nil
	}

	claimed, duplicate := h.claim(ctx, input.RunID)
	if duplicate {
		output.Status = StatusDuplicate
		return output, nil
	}

	if emailOut {
		msg := aws.TextEmail(h.config.FromEmail, recipients, renderSubject(input, count), renderBody(input))
		if _, err := h.email.SendEmail(ctx, msg); err != nil {
			metrics.NotificationsSent.WithLabelValues(ChannelEmail, StatusFailed).Inc()
			h.logger.Error("email send failed", map[string]interface{}{
				"error":      err,
				"recipients": len(recipients),
			})
			h.release(claimed, input.RunID)
			return nil, errors.NewNotificationSendFailedError(ChannelEmail, err)
		}
		metrics.NotificationsSent.WithLabelValues(ChannelEmail, StatusSent).Inc()
		output.EmailsSent = len(recipients)
	}

	if smsOut {
		summary := renderSummary(input, count)
		for _, phone := range phones {
			if _, err := h.sms.Publish(ctx, aws.TextSMS(phone, summary, h.config.SenderID)); err != nil {
				metrics.NotificationsSent.WithLabelValues(ChannelSMS, StatusFailed).Inc()
				h.logger.Error("SMS send failed", map[string]interface{}{
					"error": err,
					"phone": phone,
				})
				if output.EmailsSent+output.SMSSent == 0 {
					h.release(claimed, input.RunID)
					return nil, errors.NewNotificationSendFailedError(ChannelSMS, err)
				}
				output.Status = StatusFailed
				return output, nil
			}
			metrics.NotificationsSent.WithLabelValues(ChannelSMS, StatusSent).Inc()
			output.SMSSent++
		}
	}

	output.Status = StatusSent

	h.logger.Info("alert digest delivered", map[string]interface{}{
		"runId":      input.RunID,
		"status":     output.Status,
		"emailsSent": output.EmailsSent,
		"smsSent":    output.SMSSent,
	})
	return output, nil
}

// claim takes the run's delivery key. A guard that cannot be reached does
// not block delivery.
func (h *Handler) claim(ctx context.Context, runID string) (claimed, duplicate bool) {
	if h.guard == nil {
		return false, false
	}
	ok, err := h.guard.Claim(ctx, digestKey(runID), h.config.DedupTTL)
	if err != nil {
		h.logger.Warn("delivery guard unavailable, sending without it", map[string]interface{}{
			"error": err,
			"runId": runID,
		})
		return false, false
	}
	if !ok {
		h.logger.Info("digest already delivered for run", map[string]interface{}{"runId": runID})
		return false, true
	}
	return true, false
}

// release gives the key back after a failure that delivered nothing, so the
// retried job can send.
func (h *Handler) release(claimed bool, runID string) {
	if !claimed {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := h.guard.Release(ctx, digestKey(runID)); err != nil {
		h.logger.Warn("failed to release delivery key", map[string]interface{}{
			"error": err,
			"runId": runID,
		})
	}
}

func digestKey(runID string) string {
	return "recruit-analytics:digest:" + runID
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
