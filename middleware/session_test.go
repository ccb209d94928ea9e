package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"main/config"
	"main/model"
	"main/repository"
	"main/utils"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testCfg() config.SessionConfig {
	return config.SessionConfig{
		Secret:     "test-secret",
		Duration:   time.Hour,
		CookieName: "session_id",
		SameSite:   http.SameSiteLaxMode,
	}
}

func newAuthedRouter(sessionRepo repository.SessionRepository, cfg config.SessionConfig) *gin.Engine {
	router := gin.New()
	router.Use(SessionMiddleware(sessionRepo, cfg))
	router.GET("/protected", RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString(ContextUserID)})
	})
	return router
}

func storeSession(t *testing.T, repo repository.SessionRepository, session *model.Session) {
	t.Helper()
	if err := repo.CreateSession(context.Background(), session); err != nil {
		t.Fatalf("failed to store session: %v", err)
	}
}

func activeSession(userID string) *model.Session {
	now := time.Now()
	return &model.Session{
		SessionID:      utils.GenerateID(),
		UserID:         userID,
		CreatedAt:      now,
		ExpiresAt:      now.Add(time.Hour),
		LastActivityAt: now,
		IsActive:       true,
	}
}

func requestWithCookie(router *gin.Engine, cookieValue string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if cookieValue != "" {
		req.AddCookie(&http.Cookie{Name: "session_id", Value: cookieValue})
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSessionMiddlewareValidCookie(t *testing.T) {
	cfg := testCfg()
	repo := repository.NewMemorySessionRepo()
	router := newAuthedRouter(repo, cfg)

	session := activeSession("user-1")
	storeSession(t, repo, session)

	w := requestWithCookie(router, utils.SignSessionID(session.SessionID, cfg.Secret))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSessionMiddlewareRejects(t *testing.T) {
	cfg := testCfg()
	repo := repository.NewMemorySessionRepo()
	router := newAuthedRouter(repo, cfg)

	valid := activeSession("user-1")
	storeSession(t, repo, valid)

	expired := activeSession("user-2")
	expired.ExpiresAt = time.Now().Add(-time.Minute)
	storeSession(t, repo, expired)

	revoked := activeSession("user-3")
	revoked.IsActive = false
	storeSession(t, repo, revoked)

	tests := []struct {
		name   string
		cookie string
	}{
		{"no cookie", ""},
		{"unsigned session id", valid.SessionID},
		{"tampered signature", valid.SessionID + ".forged"},
		{"signed with wrong secret", utils.SignSessionID(valid.SessionID, "other-secret")},
		{"unknown session", utils.SignSessionID("missing-session", cfg.Secret)},
		{"expired session", utils.SignSessionID(expired.SessionID, cfg.Secret)},
		{"revoked session", utils.SignSessionID(revoked.SessionID, cfg.Secret)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := requestWithCookie(router, tt.cookie)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestSessionMiddlewareTouchesActivity(t *testing.T) {
	cfg := testCfg()
	repo := repository.NewMemorySessionRepo()
	router := newAuthedRouter(repo, cfg)

	session := activeSession("user-1")
	session.LastActivityAt = time.Now().Add(-time.Minute)
	storeSession(t, repo, session)
	before := session.LastActivityAt

	w := requestWithCookie(router, utils.SignSessionID(session.SessionID, cfg.Secret))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	stored, err := repo.GetSession(context.Background(), session.SessionID)
	if err != nil {
		t.Fatalf("failed to reload session: %v", err)
	}
	if !stored.LastActivityAt.After(before) {
		t.Error("last activity timestamp was not advanced")
	}
}
