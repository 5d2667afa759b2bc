// internal/common/errors/handler.go
package errors

import (
	"context"
	"encoding/json"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// ErrorHandler fails or throws a job depending on the error classification.
type ErrorHandler struct {
	logger     Logger
	maxRetries int
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

// NewErrorHandler caps every code's retry budget at maxRetries. A
// non-positive maxRetries keeps the per-code budgets.
func NewErrorHandler(logger Logger, maxRetries int) *ErrorHandler {
	return &ErrorHandler{logger: logger, maxRetries: maxRetries}
}

// HandleJobError reports err to the broker. Retryable codes fail the job so
// the workflow engine can retry it; everything else is thrown as a BPMN error.
func (h *ErrorHandler) HandleJobError(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	stdErr := FromError(err)
	bpmnErr := ConvertToBPMNError(stdErr)
	bpmnErr.Retries = RetryBudget(bpmnErr.Retries, h.maxRetries)

	h.logError(job, stdErr, bpmnErr)

	if bpmnErr.Retries > 0 && job.Retries > 0 {
		h.failJobWithRetries(ctx, client, job, bpmnErr)
		return
	}
	h.throwBPMNError(ctx, client, job, bpmnErr)
}

// RetryBudget caps a code's retry budget at the worker's maxRetries.
func RetryBudget(budget, maxRetries int) int {
	if maxRetries > 0 && maxRetries < budget {
		return maxRetries
	}
	return budget
}

// RetriesFor returns the retry count to report on a failed job: the smaller
// of the code's budget and what the broker has left, minus this attempt.
func RetriesFor(job entities.Job, maxRetries int) int32 {
	remaining := job.Retries - 1
	if remaining < 0 {
		remaining = 0
	}
	if int32(maxRetries) < remaining {
		return int32(maxRetries)
	}
	return remaining
}

func (h *ErrorHandler) failJobWithRetries(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError) {
	cmd := client.NewFailJobCommand().
		JobKey(job.Key).
		Retries(RetriesFor(job, bpmnErr.Retries)).
		ErrorMessage(bpmnErr.Message)

	if varsJSON, err := json.Marshal(bpmnErr.ToErrorVariables()); err == nil {
		if withVars, err := cmd.VariablesFromString(string(varsJSON)); err == nil {
			_, _ = withVars.Send(ctx)
			return
		}
	}
	_, _ = cmd.Send(ctx)
}

func (h *ErrorHandler) throwBPMNError(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError) {
	cmd := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(bpmnErr.Code).
		ErrorMessage(bpmnErr.Message)

	if varsJSON, err := json.Marshal(bpmnErr.ToErrorVariables()); err == nil {
		if withVars, err := cmd.VariablesFromString(string(varsJSON)); err == nil {
			_, _ = withVars.Send(ctx)
			return
		}
	}
	_, _ = cmd.Send(ctx)
}

func (h *ErrorHandler) logError(job entities.Job, stdErr *StandardError, bpmnErr *BPMNError) {
	h.logger.Error("Job failed", map[string]interface{}{
		"jobKey":           job.Key,
		"jobType":          job.Type,
		"errorCode":        string(stdErr.Code),
		"bpmnErrorCode":    bpmnErr.Code,
		"message":          bpmnErr.Message,
		"details":          stdErr.Details,
		"retryable":        stdErr.Retryable,
		"retries":          bpmnErr.Retries,
		"errorCategory":    GetErrorCategory(stdErr.Code),
		"workflowInstance": job.ProcessInstanceKey,
	})
}
