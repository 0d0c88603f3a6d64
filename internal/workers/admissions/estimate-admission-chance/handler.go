// internal/workers/admissions/estimate-admission-chance/handler.go
package estimateadmissionchance

import (
	"context"
	stderrors "errors"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"collegeequity-workers/internal/admissions"
	"collegeequity-workers/internal/common/camunda"
	"collegeequity-workers/internal/common/errors"
	"collegeequity-workers/internal/common/logger"
	"collegeequity-workers/internal/common/metrics"
	"collegeequity-workers/internal/models"
	"collegeequity-workers/internal/repository"
	"collegeequity-workers/pkg/catalog"
)

const (
	TaskType = "estimate-admission-chance"
)

// ProfileLoader fetches a stored student profile.
type ProfileLoader interface {
	Load(ctx context.Context, userID string) (*models.StudentProfile, error)
}

type Handler struct {
	config     *Config
	estimator  *admissions.Estimator
	catalog    *catalog.Catalog
	profiles   ProfileLoader
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

// NewHandler builds the handler. profiles may be nil, in which case every job must carry an inline profile.
func NewHandler(config *Config, cat *catalog.Catalog, profiles ProfileLoader, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		estimator:  admissions.New(config.Variant),
		catalog:    cat,
		profiles:   profiles,
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

// Execute estimates the admission chance described by input.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if res := inputValidator.Validate(input); !res.Valid {
		return nil, errors.NewValidationFailedError(res.Error())
	}

	institution, err := h.resolveInstitution(input)
	if err != nil {
		return nil, err
	}

	profile, err := h.resolveProfile(ctx, input)
	if err != nil {
		return nil, err
	}

	est, err := h.estimator.Estimate(*profile, *institution)
	if err != nil {
		return nil, mapEstimateError(institution.Name, err)
	}

	variant := string(h.estimator.Variant())
	metrics.AdmissionChance.WithLabelValues(variant, est.Tier).Observe(est.Chance)

	h.logger.Info("admission chance estimated", map[string]interface{}{
		"userId":      input.UserID,
		"institution": est.Institution,
		"chance":      est.Chance,
		"tier":        est.Tier,
		"capped":      est.Capped,
	})

	return &Output{
		Institution: est.Institution,
		Chance:      est.Chance,
		Variant:     variant,
		Explanation: est,
	}, nil
}

func (h *Handler) resolveInstitution(input *Input) (*models.InstitutionRecord, error) {
	if input.Institution != nil {
		return input.Institution, nil
	}
	if input.InstitutionName == "" {
		return nil, errors.NewValidationFailedError("institution or institutionName is required")
	}
	u, ok := h.catalog.University(input.InstitutionName)
	if !ok {
		return nil, errors.NewInstitutionNotFoundError(input.InstitutionName)
	}
	return &u, nil
}

func (h *Handler) resolveProfile(ctx context.Context, input *Input) (*models.StudentProfile, error) {
	if input.Profile != nil {
		return input.Profile, nil
	}
	if h.profiles == nil {
		return nil, errors.NewValidationFailedError("profile is required when no profile store is configured")
	}

	profile, err := h.profiles.Load(ctx, input.UserID)
	if stderrors.Is(err, repository.ErrNotFound) {
		return nil, errors.NewUserNotFoundError(input.UserID)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("load profile", err)
	}
	return profile, nil
}

func mapEstimateError(institution string, err error) error {
	switch {
	case stderrors.Is(err, admissions.ErrInvalidProfile):
		return errors.NewInvalidProfileError(err.Error())
	case stderrors.Is(err, admissions.ErrInvalidInstitutionData):
		return errors.NewInvalidInstitutionDataError(institution, err.Error())
	default:
		return errors.NewInternalError(err)
	}
}
