// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"influencer-matching/internal/common/config"
	"influencer-matching/internal/common/errors"
	"influencer-matching/internal/common/logger"
	"influencer-matching/internal/common/metrics"
	"influencer-matching/internal/common/observability"
)

const (
	defaultJobTimeout = 30 * time.Second
	maxReportWindow   = 5 * time.Second
)

// HandlerTimeout is the processing deadline for a job activated with
// jobTimeout. The remainder of the activation window is reserved for
// completing or failing the job before the broker may hand it out again.
func HandlerTimeout(jobTimeout time.Duration) time.Duration {
	if jobTimeout <= 0 {
		jobTimeout = defaultJobTimeout
	}
	window := jobTimeout / 5
	if window > maxReportWindow {
		window = maxReportWindow
	}
	return jobTimeout - window
}

// ProcessFunc turns raw job variables into the job's output variables.
type ProcessFunc func(ctx context.Context, variables string) (interface{}, error)

// JobRunner is the shared job lifecycle of the workers: timeout, metrics,
// completion on success and error classification on failure.
type JobRunner struct {
	taskType      string
	timeout       time.Duration
	reportTimeout time.Duration
	errHandler    *errors.ErrorHandler
	obs           *observability.Observability
	logger        logger.Logger
}

// NewJobRunner takes the job activation timeout the worker registers with
// the broker and maxRetries as the cap on retryable failures.
func NewJobRunner(taskType string, jobTimeout time.Duration, maxRetries int, obs *observability.Observability, log logger.Logger) *JobRunner {
	if jobTimeout <= 0 {
		jobTimeout = defaultJobTimeout
	}
	timeout := HandlerTimeout(jobTimeout)
	return &JobRunner{
		taskType:      taskType,
		timeout:       timeout,
		reportTimeout: jobTimeout - timeout,
		errHandler:    errors.NewErrorHandler(log, maxRetries),
		obs:           obs,
		logger:        log,
	}
}

// Run processes one activated job and reports the outcome to the broker.
func (r *JobRunner) Run(client worker.JobClient, job entities.Job, process ProcessFunc) {
	start := time.Now()
	log := r.logger.WithFields(map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})
	log.Info("processing job", nil)

	metrics.WorkerJobsActive.WithLabelValues(r.taskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(r.taskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	output, err := process(ctx, job.Variables)
	elapsed := time.Since(start)
	metrics.WorkerJobDuration.WithLabelValues(r.taskType).Observe(elapsed.Seconds())

	if err != nil {
		stdErr := errors.FromError(err)
		metrics.WorkerJobsFailed.WithLabelValues(r.taskType, string(stdErr.Code)).Inc()
		r.obs.RecordJobProcessed(ctx, r.taskType, "failed")
		r.obs.RecordJobDuration(ctx, r.taskType, elapsed, "failed")
		reportCtx, cancelReport := context.WithTimeout(context.Background(), r.reportTimeout)
		defer cancelReport()
		r.errHandler.HandleJobError(reportCtx, client, job, err)
		return
	}

	// The broker re-activates the job after its timeout if completion is lost.
	if err := CompleteJob(client, job, output, r.reportTimeout); err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(r.taskType, "COMPLETE_FAILED").Inc()
		log.Error("failed to complete job", map[string]interface{}{"error": err.Error()})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(r.taskType).Inc()
	r.obs.RecordJobProcessed(ctx, r.taskType, "completed")
	r.obs.RecordJobDuration(ctx, r.taskType, elapsed, "completed")
	log.Info("job completed", map[string]interface{}{"durationMs": elapsed.Milliseconds()})
}

// CompleteJob completes the job with output as its variables.
func CompleteJob(client worker.JobClient, job entities.Job, output interface{}, timeout time.Duration) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		return fmt.Errorf("create complete job command: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if _, err := cmd.Send(ctx); err != nil {
		return fmt.Errorf("send complete job command: %w", err)
	}
	return nil
}

// StartWorker opens a job worker for taskType. Disabled workers return nil.
func StartWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handler worker.JobHandler, log logger.Logger) worker.JobWorker {
	if !wcfg.Enabled {
		log.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return nil
	}

	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(handler).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()

	log.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
	return jobWorker
}
