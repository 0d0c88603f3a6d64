// internal/api/server_test.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"collegeequity-workers/internal/common/config"
	"collegeequity-workers/internal/common/errors"
	"collegeequity-workers/internal/common/logger"
	"collegeequity-workers/internal/models"
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
	"collegeequity-workers/pkg/catalog"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// memoryUsers is an in-process UserRepository.
type memoryUsers struct {
	mu    sync.Mutex
	users map[string]*models.User // by id
	saved map[string][]models.SavedItem
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: map[string]*models.User{}, saved: map[string][]models.SavedItem{}}
}

func (m *memoryUsers) CreateUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memoryUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memoryUsers) GetUserByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memoryUsers) GetProfile(ctx context.Context, userID string) (*models.StudentProfile, error) {
	u, err := m.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &u.Profile, nil
}

func (m *memoryUsers) UpdateProfile(_ context.Context, userID string, p models.StudentProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.Profile = p
	return nil
}

func (m *memoryUsers) ListSavedItems(_ context.Context, userID string) ([]models.SavedItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.SavedItem{}, m.saved[userID]...), nil
}

func (m *memoryUsers) ToggleSavedItem(_ context.Context, userID string, kind models.ItemKind, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := m.saved[userID]
	for i, it := range items {
		if it.Kind == kind && it.Name == name {
			m.saved[userID] = append(items[:i], items[i+1:]...)
			return false, nil
		}
	}
	m.saved[userID] = append(items, models.SavedItem{Kind: kind, Name: name, SavedAt: time.Now()})
	return true, nil
}

type testEnv struct {
	router *gin.Engine
	users  *memoryUsers
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := logger.NewTestLogger(t)
	cat := catalog.Default()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	users := newMemoryUsers()
	sessions := repository.NewRedisSessionStore(rdb, time.Hour)
	profiles := repository.NewProfileStore(users, nil, log)

	regCfg := authregister.LoadConfig()
	regCfg.BcryptCost = bcrypt.MinCost
	register, err := authregister.NewHandler(regCfg, users, sessions, log)
	require.NoError(t, err)
	loginCfg := authlogin.LoadConfig()
	loginCfg.BcryptCost = bcrypt.MinCost

	handlers := Handlers{
		Estimate:     estimateadmissionchance.NewHandler(estimateadmissionchance.LoadConfig(), cat, profiles, log),
		Universities: annotateinstitutions.NewHandler(annotateinstitutions.LoadConfig(), cat, profiles, nil, log),
		Essay:        analyzeessay.NewHandler(analyzeessay.LoadConfig(), log),
		Scholarships: matchscholarships.NewHandler(matchscholarships.LoadConfig(), cat, profiles, log),
		Milestones:   trackmilestones.NewHandler(trackmilestones.LoadConfig(), cat, log),
		Register:     register,
		Login:        authlogin.NewHandler(loginCfg, users, sessions, log),
		Logout:       authlogout.NewHandler(authlogout.LoadConfig(), sessions, log),
		Profile:      updateprofile.NewHandler(updateprofile.LoadConfig(), profiles, log),
		Saved:        togglesaveditem.NewHandler(togglesaveditem.LoadConfig(), cat, users, log),
	}

	cfg := config.APIConfig{AllowedOrigins: []string{"http://localhost:3000"}, RequestTimeout: 5000}
	return &testEnv{router: NewServer(handlers, sessions, cfg, log).Router(), users: users}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	body := decode(t, w)
	e, ok := body["error"].(map[string]interface{})
	require.True(t, ok, w.Body.String())
	return e["code"].(string)
}

func TestPublicRoutes(t *testing.T) {
	env := newTestEnv(t)
	strong := map[string]interface{}{"gpa": 96, "sat": 1530, "activities": 5, "essays": 3, "country": "USA"}

	t.Run("health", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/health", nil, "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("estimate", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/admissions/estimate",
			map[string]interface{}{"profile": strong, "institutionName": "Harvard University"}, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, 13.1, decode(t, w)["chance"])
	})

	t.Run("anonymous listing uses starter profile", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/v1/universities?type=Top+10", nil, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, 2.0, decode(t, w)["count"])
	})

	t.Run("scholarships", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/scholarships/match",
			map[string]interface{}{"country": "Canada", "category": "Academic Excellence"}, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 3.0, decode(t, w)["count"])
	})

	t.Run("milestones", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/v1/milestones?toggle=Standardized+Test+Preparation", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 33.3, decode(t, w)["progress"])
	})
}

func TestErrorResponses(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name       string
		method     string
		path       string
		body       interface{}
		wantStatus int
		wantCode   errors.ErrorCode
	}{
		{
			name:       "unknown institution",
			method:     http.MethodPost,
			path:       "/api/v1/admissions/estimate",
			body:       map[string]interface{}{"profile": map[string]interface{}{"gpa": 90, "sat": 1400}, "institutionName": "Hogwarts"},
			wantStatus: http.StatusBadRequest,
			wantCode:   errors.ErrCodeInstitutionNotFound,
		},
		{
			name:       "out-of-domain profile",
			method:     http.MethodPost,
			path:       "/api/v1/admissions/estimate",
			body:       map[string]interface{}{"profile": map[string]interface{}{"gpa": 90, "sat": 2400}, "institutionName": "MIT"},
			wantStatus: http.StatusBadRequest,
			wantCode:   errors.ErrCodeInvalidProfile,
		},
		{
			name:       "essay too short",
			method:     http.MethodPost,
			path:       "/api/v1/essays/analyze",
			body:       map[string]interface{}{"essay": "Too short to judge."},
			wantStatus: http.StatusBadRequest,
			wantCode:   errors.ErrCodeAnalysisPreconditionViolation,
		},
		{
			name:       "malformed body",
			method:     http.MethodPost,
			path:       "/api/v1/scholarships/match",
			body:       "not an object",
			wantStatus: http.StatusBadRequest,
			wantCode:   errors.ErrCodeValidationFailed,
		},
		{
			name:       "profile requires a session",
			method:     http.MethodPut,
			path:       "/api/v1/profile",
			body:       map[string]interface{}{"gpa": 90},
			wantStatus: http.StatusUnauthorized,
			wantCode:   errors.ErrCodeSessionNotFound,
		},
		{
			name:       "wrong credentials",
			method:     http.MethodPost,
			path:       "/api/v1/auth/login",
			body:       map[string]interface{}{"email": "nobody@example.com", "password": "whatever1"},
			wantStatus: http.StatusUnauthorized,
			wantCode:   errors.ErrCodeInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, tt.method, tt.path, tt.body, "")
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			assert.Equal(t, string(tt.wantCode), errorCode(t, w))
		})
	}
}

func TestAccountFlow(t *testing.T) {
	env := newTestEnv(t)
	creds := map[string]interface{}{"email": "Maya@Example.com", "password": "first-gen-2025"}

	w := env.do(t, http.MethodPost, "/api/v1/auth/register", creds, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	user := decode(t, w)["user"].(map[string]interface{})
	assert.Equal(t, "maya", user["name"])
	assert.NotContains(t, user, "passwordHash")

	w = env.do(t, http.MethodPost, "/api/v1/auth/register", creds, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, string(errors.ErrCodeDuplicateUser), errorCode(t, w))

	w = env.do(t, http.MethodPost, "/api/v1/auth/login", creds, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token := decode(t, w)["session"].(map[string]interface{})["id"].(string)

	w = env.do(t, http.MethodPut, "/api/v1/profile", map[string]interface{}{"gpa": 97, "sat": 1540, "firstGen": true}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// the stored profile now drives the estimate
	w = env.do(t, http.MethodPost, "/api/v1/admissions/estimate", map[string]interface{}{"institutionName": "MIT"}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	explanation := decode(t, w)["explanation"].(map[string]interface{})
	assert.Equal(t, "competitive", explanation["tier"])

	w = env.do(t, http.MethodPost, "/api/v1/saved", map[string]interface{}{"kind": "university", "name": "MIT"}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, decode(t, w)["saved"])

	w = env.do(t, http.MethodPost, "/api/v1/auth/logout", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 1.0, decode(t, w)["sessionsInvalidated"])

	w = env.do(t, http.MethodPost, "/api/v1/saved", map[string]interface{}{"kind": "university", "name": "MIT"}, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoutesWithoutSessionStore(t *testing.T) {
	log := logger.NewTestLogger(t)
	users := newMemoryUsers()
	loginCfg := authlogin.LoadConfig()
	loginCfg.BcryptCost = bcrypt.MinCost
	handlers := Handlers{
		Milestones: trackmilestones.NewHandler(trackmilestones.LoadConfig(), catalog.Default(), log),
		Login:      authlogin.NewHandler(loginCfg, users, nil, log),
		Logout:     authlogout.NewHandler(authlogout.LoadConfig(), nil, log),
	}
	env := &testEnv{router: NewServer(handlers, nil, config.APIConfig{RequestTimeout: 5000}, log).Router(), users: users}

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		want   int
	}{
		{"public route served", http.MethodGet, "/api/v1/milestones", nil, http.StatusOK},
		{"login not registered", http.MethodPost, "/api/v1/auth/login", map[string]string{"email": "a@b.co", "password": "correct horse"}, http.StatusNotFound},
		{"logout not registered", http.MethodPost, "/api/v1/auth/logout", nil, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var w *httptest.ResponseRecorder
			require.NotPanics(t, func() { w = env.do(t, tt.method, tt.path, tt.body, "") })
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestCORS(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/essays/analyze", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, StatusFor(errors.ErrCodeQueryExecutionFailed))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(errors.ErrCodeInternal))
	assert.Equal(t, http.StatusBadRequest, StatusFor(errors.ErrCodeUserNotFound))
}
