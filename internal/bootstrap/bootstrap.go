// internal/bootstrap/bootstrap.go
// Package bootstrap connects the backing services and builds the task handlers
// shared by the worker manager and the API server.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"collegeequity-workers/internal/admissions"
	"collegeequity-workers/internal/api"
	"collegeequity-workers/internal/common/aws"
	"collegeequity-workers/internal/common/camunda"
	"collegeequity-workers/internal/common/config"
	"collegeequity-workers/internal/common/database"
	"collegeequity-workers/internal/common/logger"
	"collegeequity-workers/internal/essays"
	"collegeequity-workers/internal/repository"
	annotateinstitutions "collegeequity-workers/internal/workers/admissions/annotate-institutions"
	estimateadmissionchance "collegeequity-workers/internal/workers/admissions/estimate-admission-chance"
	authlogin "collegeequity-workers/internal/workers/auth/auth-login"
	authlogout "collegeequity-workers/internal/workers/auth/auth-logout"
	authregister "collegeequity-workers/internal/workers/auth/auth-register"
	sendreminder "collegeequity-workers/internal/workers/communication/send-reminder"
	analyzeessay "collegeequity-workers/internal/workers/essays/analyze-essay"
	trackmilestones "collegeequity-workers/internal/workers/planning/track-milestones"
	matchscholarships "collegeequity-workers/internal/workers/scholarships/match-scholarships"
	togglesaveditem "collegeequity-workers/internal/workers/student/toggle-saved-item"
	updateprofile "collegeequity-workers/internal/workers/student/update-profile"
	"collegeequity-workers/pkg/catalog"
)

const profileCacheTTL = 10 * time.Minute

// Services holds the backing service clients. Search is nil when Elasticsearch is not configured.
type Services struct {
	Postgres *database.PostgresClient
	Redis    *database.RedisClient
	Search   *database.ElasticsearchClient
}

// ConnectServices connects to PostgreSQL, Redis and, when configured, Elasticsearch,
// retrying each until it answers. The schema and search index are created if missing.
func ConnectServices(ctx context.Context, cfg *config.Config, log logger.Logger) (*Services, error) {
	svc := &Services{}

	err := camunda.RetryAny(ctx, camunda.DefaultRetryConfig, log, "postgres connection", func(ctx context.Context) error {
		pg, err := database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		if err := pg.Ping(ctx); err != nil {
			pg.Close()
			return err
		}
		svc.Postgres = pg
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := database.EnsureSchema(ctx, svc.Postgres.DB); err != nil {
		svc.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	log.Info("postgres connected", nil)

	err = camunda.RetryAny(ctx, camunda.DefaultRetryConfig, log, "redis connection", func(ctx context.Context) error {
		rdb, err := database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		if err := rdb.Ping(ctx); err != nil {
			rdb.Close()
			return err
		}
		svc.Redis = rdb
		return nil
	})
	if err != nil {
		svc.Close()
		return nil, err
	}
	log.Info("redis connected", nil)

	if !cfg.Database.Elasticsearch.Enabled() {
		log.Info("elasticsearch not configured, university search uses the catalog", nil)
		return svc, nil
	}

	es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	if err != nil {
		svc.Close()
		return nil, err
	}
	err = camunda.RetryAny(ctx, camunda.DefaultRetryConfig, log, "elasticsearch connection", es.Ping)
	if err == nil {
		err = es.EnsureIndex(ctx, cfg.Database.Elasticsearch.Index)
	}
	if err != nil {
		// Search is optional; the annotate handler falls back to the catalog.
		log.Warn("elasticsearch unavailable, continuing without search", map[string]interface{}{"error": err.Error()})
		return svc, nil
	}
	svc.Search = es
	log.Info("elasticsearch connected", nil)
	return svc, nil
}

// Check pings every connected service and reports the failures by name.
func (s *Services) Check(ctx context.Context) map[string]string {
	failures := map[string]string{}
	if s.Postgres != nil {
		if err := s.Postgres.Ping(ctx); err != nil {
			failures["postgres"] = err.Error()
		}
	}
	if s.Redis != nil {
		if err := s.Redis.Ping(ctx); err != nil {
			failures["redis"] = err.Error()
		}
	}
	if s.Search != nil {
		if err := s.Search.Ping(ctx); err != nil {
			failures["elasticsearch"] = err.Error()
		}
	}
	return failures
}

func (s *Services) Close() {
	if s.Postgres != nil {
		s.Postgres.Close()
	}
	if s.Redis != nil {
		s.Redis.Close()
	}
}

// Stores are the repositories built on top of Services.
type Stores struct {
	Users    repository.UserRepository
	Sessions repository.SessionRepository
	Profiles *repository.ProfileStore
	Search   repository.UniversitySearcher
}

func NewStores(svc *Services, cfg *config.Config, log logger.Logger) *Stores {
	users := repository.NewPostgresUserRepository(svc.Postgres.DB)
	st := &Stores{
		Users:    users,
		Sessions: repository.NewRedisSessionStore(svc.Redis.Client, cfg.Auth.SessionTTLDuration()),
		Profiles: repository.NewProfileStore(users, repository.NewRedisProfileCache(svc.Redis.Client, profileCacheTTL), log),
	}
	if svc.Search != nil {
		st.Search = repository.NewElasticsearchUniversities(svc.Search.Client, cfg.Database.Elasticsearch.Index)
	}
	return st
}

// Handlers holds one handler per task type. Reminder is nil when every notification channel is disabled.
type Handlers struct {
	Estimate     *estimateadmissionchance.Handler
	Universities *annotateinstitutions.Handler
	Essay        *analyzeessay.Handler
	Scholarships *matchscholarships.Handler
	Milestones   *trackmilestones.Handler
	Register     *authregister.Handler
	Login        *authlogin.Handler
	Logout       *authlogout.Handler
	Profile      *updateprofile.Handler
	Saved        *togglesaveditem.Handler
	Reminder     *sendreminder.Handler
}

// BuildHandlers configures every handler from cfg. sender may be nil, which disables reminders.
func BuildHandlers(cfg *config.Config, cat *catalog.Catalog, st *Stores, sender sendreminder.Sender, log logger.Logger) (*Handlers, error) {
	variant, err := admissions.ParseVariant(cfg.Admissions.Variant)
	if err != nil {
		return nil, err
	}
	essayOpts, err := EssayOptions(cfg.Essays)
	if err != nil {
		return nil, err
	}

	estimateCfg := estimateadmissionchance.LoadConfig()
	estimateCfg.Variant = variant
	estimateCfg.Timeout = timeoutFor(cfg, estimateadmissionchance.TaskType, estimateCfg.Timeout)

	annotateCfg := annotateinstitutions.LoadConfig()
	annotateCfg.Variant = variant
	annotateCfg.Timeout = timeoutFor(cfg, annotateinstitutions.TaskType, annotateCfg.Timeout)

	essayCfg := analyzeessay.LoadConfig()
	essayCfg.Analyzer = essayOpts
	essayCfg.Timeout = timeoutFor(cfg, analyzeessay.TaskType, essayCfg.Timeout)

	scholarshipCfg := matchscholarships.LoadConfig()
	scholarshipCfg.Timeout = timeoutFor(cfg, matchscholarships.TaskType, scholarshipCfg.Timeout)

	milestoneCfg := trackmilestones.LoadConfig()
	milestoneCfg.Timeout = timeoutFor(cfg, trackmilestones.TaskType, milestoneCfg.Timeout)

	registerCfg := authregister.LoadConfig()
	registerCfg.BcryptCost = cfg.Auth.BcryptCost
	registerCfg.MinPasswordLength = cfg.Auth.MinPasswordLength
	registerCfg.Timeout = timeoutFor(cfg, authregister.TaskType, registerCfg.Timeout)
	register, err := authregister.NewHandler(registerCfg, st.Users, st.Sessions, log)
	if err != nil {
		return nil, fmt.Errorf("auth-register: %w", err)
	}

	loginCfg := authlogin.LoadConfig()
	loginCfg.BcryptCost = cfg.Auth.BcryptCost
	loginCfg.Timeout = timeoutFor(cfg, authlogin.TaskType, loginCfg.Timeout)

	logoutCfg := authlogout.LoadConfig()
	logoutCfg.Timeout = timeoutFor(cfg, authlogout.TaskType, logoutCfg.Timeout)

	profileCfg := updateprofile.LoadConfig()
	profileCfg.Timeout = timeoutFor(cfg, updateprofile.TaskType, profileCfg.Timeout)

	savedCfg := togglesaveditem.LoadConfig()
	savedCfg.Timeout = timeoutFor(cfg, togglesaveditem.TaskType, savedCfg.Timeout)

	h := &Handlers{
		Estimate:     estimateadmissionchance.NewHandler(estimateCfg, cat, st.Profiles, log),
		Universities: annotateinstitutions.NewHandler(annotateCfg, cat, st.Profiles, st.Search, log),
		Essay:        analyzeessay.NewHandler(essayCfg, log),
		Scholarships: matchscholarships.NewHandler(scholarshipCfg, cat, st.Profiles, log),
		Milestones:   trackmilestones.NewHandler(milestoneCfg, cat, log),
		Register:     register,
		Login:        authlogin.NewHandler(loginCfg, st.Users, st.Sessions, log),
		Logout:       authlogout.NewHandler(logoutCfg, st.Sessions, log),
		Profile:      updateprofile.NewHandler(profileCfg, st.Profiles, log),
		Saved:        togglesaveditem.NewHandler(savedCfg, cat, st.Users, log),
	}

	if sender != nil {
		reminderCfg := sendreminder.LoadConfig()
		reminderCfg.EmailEnabled = cfg.Notifications.Email.Enabled
		reminderCfg.SMSEnabled = cfg.Notifications.SMS.Enabled
		reminderCfg.Timeout = timeoutFor(cfg, sendreminder.TaskType, reminderCfg.Timeout)
		h.Reminder = sendreminder.NewHandler(reminderCfg, cat, sender, st.Users, log)
	}
	return h, nil
}

// API returns the handlers exposed over HTTP.
func (h *Handlers) API() api.Handlers {
	return api.Handlers{
		Estimate:     h.Estimate,
		Universities: h.Universities,
		Essay:        h.Essay,
		Scholarships: h.Scholarships,
		Milestones:   h.Milestones,
		Register:     h.Register,
		Login:        h.Login,
		Logout:       h.Logout,
		Profile:      h.Profile,
		Saved:        h.Saved,
	}
}

// NewSender builds the SES/SNS notifier, or returns nil when both channels are off.
func NewSender(ctx context.Context, cfg config.NotificationConfig) (sendreminder.Sender, error) {
	if !cfg.Email.Enabled && !cfg.SMS.Enabled {
		return nil, nil
	}
	n, err := aws.NewNotifier(ctx, cfg.AWS.Region, cfg.Email.FromEmail, cfg.SMS.SenderID)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// EssayOptions maps the essays config section onto analyzer options.
func EssayOptions(cfg config.EssaysConfig) (essays.Options, error) {
	variant, err := essays.ParseVariant(cfg.Variant)
	if err != nil {
		return essays.Options{}, err
	}
	mode, err := essays.ParseScoreMode(cfg.ScoreMode)
	if err != nil {
		return essays.Options{}, err
	}
	return essays.Options{
		Variant:        variant,
		ScoreMode:      mode,
		MinWords:       cfg.MinWords,
		MaxSuggestions: cfg.MaxSuggestions,
		Latency:        config.GetDuration(cfg.SimulatedLatency),
	}, nil
}

// timeoutFor uses the worker's configured timeout, falling back to the handler default.
func timeoutFor(cfg *config.Config, taskType string, def time.Duration) time.Duration {
	if w, ok := cfg.Workers[taskType]; ok && w.Timeout > 0 {
		return config.GetDuration(w.Timeout)
	}
	return def
}
