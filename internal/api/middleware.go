// internal/api/middleware.go
package api

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"collegeequity-workers/internal/common/errors"
	"collegeequity-workers/internal/models"
	"collegeequity-workers/internal/repository"
)

const sessionKey = "session"

// requestLogger logs one line per request.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("http request", map[string]interface{}{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		})
	}
}

// timeout bounds the request context.
func (s *Server) timeout() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.requestTimeout <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), s.requestTimeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// requireSession rejects requests without a live session.
func (s *Server) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			s.writeError(c, errors.NewSessionNotFoundError(""))
			return
		}
		sess, err := s.sessions.GetSession(c.Request.Context(), token)
		if stderrors.Is(err, repository.ErrNotFound) {
			s.writeError(c, errors.NewSessionNotFoundError(token))
			return
		}
		if err != nil {
			s.writeError(c, errors.NewCacheUnavailableError(err))
			return
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

// optionalSession attaches the session when a valid token is present and ignores it otherwise.
func (s *Server) optionalSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" && s.sessions != nil {
			if sess, err := s.sessions.GetSession(c.Request.Context(), token); err == nil {
				c.Set(sessionKey, sess)
			}
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func currentSession(c *gin.Context) *models.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*models.Session)
	return sess
}

// currentUserID is the signed-in user, or "" for anonymous requests.
func currentUserID(c *gin.Context) string {
	if sess := currentSession(c); sess != nil {
		return sess.UserID
	}
	return ""
}
