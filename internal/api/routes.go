// internal/api/routes.go
package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"collegeequity-workers/internal/models"
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

// Request bodies never choose whose stored data is read: the userId always comes from the session.

func (s *Server) estimate(c *gin.Context) {
	var in estimateadmissionchance.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		s.badRequest(c, err)
		return
	}
	in.UserID = currentUserID(c)

	out, err := s.handlers.Estimate.Execute(c.Request.Context(), &in)
	s.respond(c, out, err)
}

func (s *Server) listUniversities(c *gin.Context) {
	in := annotateinstitutions.Input{
		UserID: currentUserID(c),
		Region: c.Query("region"),
		Type:   c.Query("type"),
		Search: c.Query("search"),
	}
	withDefaultProfile(&in)
	out, err := s.handlers.Universities.Execute(c.Request.Context(), &in)
	s.respond(c, out, err)
}

func (s *Server) searchUniversities(c *gin.Context) {
	var in annotateinstitutions.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		s.badRequest(c, err)
		return
	}
	in.UserID = currentUserID(c)
	withDefaultProfile(&in)

	out, err := s.handlers.Universities.Execute(c.Request.Context(), &in)
	s.respond(c, out, err)
}

// withDefaultProfile lets anonymous visitors browse with the starter profile.
func withDefaultProfile(in *annotateinstitutions.Input) {
	if in.UserID == "" && in.Profile == nil {
		p := models.DefaultStudentProfile()
		in.Profile = &p
	}
}

func (s *Server) analyzeEssay(c *gin.Context) {
	var in analyzeessay.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		s.badRequest(c, err)
		return
	}
	in.UserID = currentUserID(c)

	out, err := s.handlers.Essay.Execute(c.Request.Context(), &in)
	s.respond(c, out, err)
}

func (s *Server) matchScholarships(c *gin.Context) {
	var in matchscholarships.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		s.badRequest(c, err)
		return
	}
	in.UserID = currentUserID(c)

	out, err := s.handlers.Scholarships.Execute(c.Request.Context(), &in)
	s.respond(c, out, err)
}

func (s *Server) milestones(c *gin.Context) {
	var in trackmilestones.Input
	if c.Request.Method == http.MethodPost {
		if err := c.ShouldBindJSON(&in); err != nil {
			s.badRequest(c, err)
			return
		}
	} else if toggle := c.Query("toggle"); toggle != "" {
		in.Toggle = strings.Split(toggle, ",")
	}
	in.UserID = currentUserID(c)

	out, err := s.handlers.Milestones.Execute(c.Request.Context(), &in)
	s.respond(c, out, err)
}

func (s *Server) register(c *gin.Context) {
	var in authregister.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		s.badRequest(c, err)
		return
	}

	out, err := s.handlers.Register.Execute(c.Request.Context(), &in)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (s *Server) login(c *gin.Context) {
	var in authlogin.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		s.badRequest(c, err)
		return
	}

	out, err := s.handlers.Login.Execute(c.Request.Context(), &in)
	s.respond(c, out, err)
}

func (s *Server) logout(c *gin.Context) {
	var body struct {
		LogoutAll bool `json:"logoutAll"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			s.badRequest(c, err)
			return
		}
	}

	sess := currentSession(c)
	in := authlogout.Input{
		UserID:    sess.UserID,
		SessionID: sess.ID,
		LogoutAll: body.LogoutAll,
		Reason:    "user_initiated",
	}
	out, err := s.handlers.Logout.Execute(c.Request.Context(), &in)
	s.respond(c, out, err)
}

func (s *Server) updateProfile(c *gin.Context) {
	var patch map[string]interface{}
	if err := c.ShouldBindJSON(&patch); err != nil {
		s.badRequest(c, err)
		return
	}

	in := updateprofile.Input{UserID: currentUserID(c), Profile: patch}
	out, err := s.handlers.Profile.Execute(c.Request.Context(), &in)
	s.respond(c, out, err)
}

func (s *Server) toggleSaved(c *gin.Context) {
	var in togglesaveditem.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		s.badRequest(c, err)
		return
	}
	in.UserID = currentUserID(c)

	out, err := s.handlers.Saved.Execute(c.Request.Context(), &in)
	s.respond(c, out, err)
}

func (s *Server) respond(c *gin.Context, out interface{}, err error) {
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
