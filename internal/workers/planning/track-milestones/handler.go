// internal/workers/planning/track-milestones/handler.go
package trackmilestones

import (
	"context"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"collegeequity-workers/internal/common/camunda"
	"collegeequity-workers/internal/common/errors"
	"collegeequity-workers/internal/common/logger"
	"collegeequity-workers/internal/common/metrics"
	"collegeequity-workers/internal/models"
	"collegeequity-workers/pkg/catalog"
)

const (
	TaskType = "track-milestones"
)

type Handler struct {
	config     *Config
	catalog    *catalog.Catalog
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, cat *catalog.Catalog, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		catalog:    cat,
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

// Execute applies the requested toggles and summarizes progress.
func (h *Handler) Execute(_ context.Context, input *Input) (*Output, error) {
	milestones := h.timeline(input.Milestones)

	for _, title := range input.Toggle {
		if !toggle(milestones, title) {
			return nil, errors.NewValidationFailedError("unknown milestone: " + title)
		}
	}

	sum := catalog.Summarize(milestones)

	h.logger.Debug("milestones summarized", map[string]interface{}{
		"userId":    input.UserID,
		"total":     sum.Total,
		"completed": sum.Completed,
		"progress":  sum.Progress,
	})

	return &Output{
		Milestones: milestones,
		Total:      sum.Total,
		Completed:  sum.Completed,
		Progress:   sum.Progress,
		Next:       sum.Next,
	}, nil
}

// timeline returns a private copy so toggles never touch the caller's or the catalog's slice.
func (h *Handler) timeline(given []models.Milestone) []models.Milestone {
	src := given
	if len(src) == 0 {
		src = h.catalog.Milestones
	}
	if len(src) == 0 {
		src = catalog.DefaultMilestones()
	}
	return append([]models.Milestone(nil), src...)
}

func toggle(milestones []models.Milestone, title string) bool {
	for i := range milestones {
		if strings.EqualFold(milestones[i].Title, strings.TrimSpace(title)) {
			milestones[i].Completed = !milestones[i].Completed
			return true
		}
	}
	return false
}
