// internal/workers/essays/analyze-essay/handler.go
package analyzeessay

import (
	"context"
	stderrors "errors"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"collegeequity-workers/internal/common/camunda"
	"collegeequity-workers/internal/common/errors"
	"collegeequity-workers/internal/common/logger"
	"collegeequity-workers/internal/common/metrics"
	"collegeequity-workers/internal/essays"
)

const (
	TaskType = "analyze-essay"
)

type Handler struct {
	config     *Config
	analyzer   *essays.Analyzer
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		analyzer:   essays.New(config.Analyzer),
		errHandler: errors.NewErrorHandler(log),
		logger:     log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	tracker := metrics.StartJob(TaskType)
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := camunda.DecodeVariables(job, &input); err != nil {
		h.errHandler.HandleJobError(ctx, client, job, err)
		tracker.Done(camunda.ErrorCode(err))
		return
	}

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.errHandler.HandleJobError(ctx, client, job, err)
		tracker.Done(camunda.ErrorCode(err))
		return
	}

	if err := camunda.CompleteJob(ctx, client, job, output, h.logger); err != nil {
		tracker.Done("COMPLETE_FAILED")
		return
	}
	tracker.Done("")
}

// Execute analyzes the essay. Essays below the minimum word count fail with ANALYSIS_PRECONDITION_VIOLATION.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	feedback, err := h.analyzer.AnalyzeContext(ctx, input.Essay)
	if err != nil {
		if stderrors.Is(err, essays.ErrPreconditionViolation) {
			return nil, errors.NewAnalysisPreconditionError(essays.CountWords(input.Essay), h.analyzer.Options().MinWords)
		}
		return nil, errors.NewInternalError(err)
	}

	variant := string(h.analyzer.Options().Variant)
	metrics.EssayScore.WithLabelValues(variant).Observe(float64(feedback.OverallScore))

	h.logger.Info("essay analyzed", map[string]interface{}{
		"userId":       input.UserID,
		"wordCount":    feedback.WordCount,
		"overallScore": feedback.OverallScore,
		"strengths":    len(feedback.Strengths),
		"improvements": len(feedback.Improvements),
	})

	return &Output{Feedback: feedback, Variant: variant}, nil
}
