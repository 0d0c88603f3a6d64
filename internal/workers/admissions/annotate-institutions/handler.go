// internal/workers/admissions/annotate-institutions/handler.go
package annotateinstitutions

import (
	"context"
	stderrors "errors"
	"strings"

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
	TaskType = "annotate-institutions"
)

type ProfileLoader interface {
	Load(ctx context.Context, userID string) (*models.StudentProfile, error)
}

type Handler struct {
	config     *Config
	estimator  *admissions.Estimator
	catalog    *catalog.Catalog
	profiles   ProfileLoader
	search     repository.UniversitySearcher
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

// NewHandler builds the handler. profiles and search may be nil; without search, name matching
// is a case-insensitive substring match over the catalog.
func NewHandler(config *Config, cat *catalog.Catalog, profiles ProfileLoader, search repository.UniversitySearcher, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		estimator:  admissions.New(config.Variant),
		catalog:    cat,
		profiles:   profiles,
		search:     search,
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

// Execute filters the catalog and estimates the student's chance at every remaining university.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	profile, err := h.resolveProfile(ctx, input)
	if err != nil {
		return nil, err
	}

	universities, source := h.filter(ctx, input)

	out := &Output{
		Universities: make([]AnnotatedUniversity, 0, len(universities)),
		SearchSource: source,
	}
	for _, u := range universities {
		est, err := h.estimator.Estimate(*profile, u)
		if err != nil {
			if stderrors.Is(err, admissions.ErrInvalidProfile) {
				return nil, errors.NewInvalidProfileError(err.Error())
			}
			return nil, errors.NewInvalidInstitutionDataError(u.Name, err.Error())
		}
		out.Universities = append(out.Universities, AnnotatedUniversity{
			InstitutionRecord: u,
			Chance:            est.Chance,
			Tier:              est.Tier,
		})
	}
	out.Count = len(out.Universities)

	h.logger.Info("institutions annotated", map[string]interface{}{
		"userId": input.UserID,
		"region": input.Region,
		"type":   input.Type,
		"search": input.Search,
		"source": source,
		"count":  out.Count,
	})
	return out, nil
}

// filter applies region and type on the catalog, then the search term, through Elasticsearch when available.
func (h *Handler) filter(ctx context.Context, input *Input) ([]models.InstitutionRecord, string) {
	term := strings.TrimSpace(input.Search)
	if term == "" || h.search == nil {
		return h.catalog.FilterUniversities(catalog.UniversityFilter{
			Region: input.Region,
			Type:   input.Type,
			Search: term,
		}), SourceCatalog
	}

	names, err := h.search.SearchNames(ctx, term, h.config.SearchSize)
	if err != nil {
		h.logger.Warn("university search failed, falling back to catalog", map[string]interface{}{
			"search": term,
			"error":  err.Error(),
		})
		return h.catalog.FilterUniversities(catalog.UniversityFilter{
			Region: input.Region,
			Type:   input.Type,
			Search: term,
		}), SourceCatalog
	}

	matched := make(map[string]bool, len(names))
	for _, n := range names {
		matched[n] = true
	}

	candidates := h.catalog.FilterUniversities(catalog.UniversityFilter{Region: input.Region, Type: input.Type})
	out := make([]models.InstitutionRecord, 0, len(candidates))
	for _, u := range candidates {
		if matched[u.Name] {
			out = append(out, u)
		}
	}
	return out, SourceElasticsearch
}

func (h *Handler) resolveProfile(ctx context.Context, input *Input) (*models.StudentProfile, error) {
	if input.Profile != nil {
		return input.Profile, nil
	}
	if input.UserID == "" || h.profiles == nil {
		return nil, errors.NewValidationFailedError("profile or userId is required")
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
