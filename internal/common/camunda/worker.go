// internal/common/camunda/worker.go
package camunda

import (
	"fmt"
	"time"

	"recruit-analytics/internal/common/config"
	"recruit-analytics/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// JobHandler is implemented by every worker package. Handlers complete or
// fail the job themselves.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job)
}

type CamundaWorker struct {
	worker   worker.JobWorker
	logger   logger.Logger
	taskType string
}

// NewWorker opens a job worker for taskType. A panicking handler is logged
// and the job is left to time out so the broker can hand it out again.
func NewWorker(client zbc.Client, taskType string, cfg config.WorkerConfig, handler JobHandler, log logger.Logger) *CamundaWorker {
	log = log.WithFields(map[string]interface{}{"taskType": taskType})

	builder := client.NewJobWorker().
		JobType(taskType).
		Handler(func(jc worker.JobClient, job entities.Job) {
			defer func() {
				if r := recover(); r != nil {
					log.Error("handler panicked", map[string]interface{}{
						"jobKey": job.Key,
						"panic":  fmt.Sprint(r),
					})
				}
			}()
			handler.Handle(jc, job)
		}).
		Name(taskType)

	if cfg.MaxJobsActive > 0 {
		builder = builder.MaxJobsActive(cfg.MaxJobsActive)
	}
	if cfg.Timeout > 0 {
		builder = builder.Timeout(time.Duration(cfg.Timeout) * time.Millisecond)
	}

	return &CamundaWorker{
		worker:   builder.Open(),
		logger:   log,
		taskType: taskType,
	}
}

func (w *CamundaWorker) TaskType() string {
	return w.taskType
}

func (w *CamundaWorker) Start() {
	w.logger.Info("worker started", nil)
}

// Stop closes the job worker and waits for in-flight jobs. The shared broker
// client is closed by its owner.
func (w *CamundaWorker) Stop() {
	w.logger.Info("stopping worker", nil)
	w.worker.Close()
	w.worker.AwaitClose()
}
