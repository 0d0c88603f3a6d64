// internal/api/server.go
// Package api is the HTTP gateway the browser UI talks to. Every route runs the same
// handler the corresponding Zeebe worker runs.
package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"collegeequity-workers/internal/common/config"
	"collegeequity-workers/internal/common/logger"
	"collegeequity-workers/internal/repository"
	annotateinstitutions "collegeequity-workers/internal/workers/admissions/annotate-institutions"
	estimateadmissionchance "collegeequity-workers/internal/workers/admissions/estimate-admission-chance"
	authlogin "collegeequity-workers/internal/workers/auth/auth-login"
	authlogout "collegeequity-workers/internal/workers/auth/auth-logout"
	authregister "collegeequity-workers/internal/workers/auth/auth-register"
	analyzeessay "collegeequity-workers/internal/workers/essays/analyze-essay"
	trackmilestones "collegeequity-workers/internal/workers/planning/track-milestones"
	matchscholarships "collegeequity-workers/internal/workers/scholarships/match-scholarships"
	togglesaveditem "collegeequity-workers/internal/workers/student/toggle-saved-item"
	updateprofile "collegeequity-workers/internal/workers/student/update-profile"
)

// Handlers are the task handlers behind the routes. A nil handler disables its route.
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
}

type Server struct {
	handlers       Handlers
	sessions       repository.SessionRepository
	allowedOrigins []string
	requestTimeout time.Duration
	logger         logger.Logger
}

// NewServer builds the gateway. sessions may be nil, which disables login and the authenticated routes.
func NewServer(handlers Handlers, sessions repository.SessionRepository, cfg config.APIConfig, log logger.Logger) *Server {
	return &Server{
		handlers:       handlers,
		sessions:       sessions,
		allowedOrigins: cfg.AllowedOrigins,
		requestTimeout: time.Duration(cfg.RequestTimeout) * time.Millisecond,
		logger:         log.WithFields(map[string]interface{}{"component": "api"}),
	}
}

// Router wires the middleware chain and the routes.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger(), s.timeout())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(s.allowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = s.allowedOrigins
	}
	router.Use(cors.New(corsCfg))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	v1 := router.Group("/api/v1")
	public := v1.Group("", s.optionalSession())
	{
		s.route(public, http.MethodPost, "/admissions/estimate", s.handlers.Estimate != nil, s.estimate)
		s.route(public, http.MethodGet, "/universities", s.handlers.Universities != nil, s.listUniversities)
		s.route(public, http.MethodPost, "/universities", s.handlers.Universities != nil, s.searchUniversities)
		s.route(public, http.MethodPost, "/essays/analyze", s.handlers.Essay != nil, s.analyzeEssay)
		s.route(public, http.MethodPost, "/scholarships/match", s.handlers.Scholarships != nil, s.matchScholarships)
		s.route(public, http.MethodGet, "/milestones", s.handlers.Milestones != nil, s.milestones)
		s.route(public, http.MethodPost, "/milestones", s.handlers.Milestones != nil, s.milestones)
		s.route(public, http.MethodPost, "/auth/register", s.handlers.Register != nil, s.register)
		s.route(public, http.MethodPost, "/auth/login", s.handlers.Login != nil && s.sessions != nil, s.login)
	}

	if s.sessions != nil {
		private := v1.Group("", s.requireSession())
		s.route(private, http.MethodPost, "/auth/logout", s.handlers.Logout != nil, s.logout)
		s.route(private, http.MethodPut, "/profile", s.handlers.Profile != nil, s.updateProfile)
		s.route(private, http.MethodPost, "/saved", s.handlers.Saved != nil, s.toggleSaved)
	}

	return router
}

func (s *Server) route(g *gin.RouterGroup, method, path string, enabled bool, h gin.HandlerFunc) {
	if !enabled {
		return
	}
	g.Handle(method, path, h)
}
