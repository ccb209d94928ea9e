package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"main/config"
	"main/middleware"
	"main/repository"
	"main/usecase"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testSessionConfig() config.SessionConfig {
	return config.SessionConfig{
		Secret:     "test-secret",
		Duration:   time.Hour,
		CookieName: "session_id",
		Secure:     false,
		SameSite:   http.SameSiteLaxMode,
	}
}

type testEnv struct {
	router      *gin.Engine
	userRepo    *repository.MemoryUserRepo
	notesRepo   *repository.MemoryNoteRepo
	sessionRepo *repository.MemorySessionRepo
}

// newTestEnv wires the full route surface against in-memory
// repositories, mirroring the production router.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	userRepo := repository.NewMemoryUserRepo()
	notesRepo := repository.NewMemoryNoteRepo()
	sessionRepo := repository.NewMemorySessionRepo()

	userService := &usecase.UserService{UsersRepo: userRepo}
	noteService := &usecase.NoteService{NotesRepo: notesRepo}

	sessionCfg := testSessionConfig()

	authHandler := NewAuthHandler(userService, sessionRepo, sessionCfg)
	notesHandler := NewNotesHandler(noteService)
	sessionHandler := NewSessionHandler(sessionRepo, sessionCfg)
	profileHandler := NewProfileHandler(userRepo)

	router := gin.New()
	router.Use(middleware.SessionMiddleware(sessionRepo, sessionCfg))

	auth := router.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", middleware.RequireAuth(), authHandler.Logout)
	}

	notes := router.Group("/notes")
	notes.Use(middleware.RequireAuth())
	{
		notes.POST("", notesHandler.CreateNote)
		notes.GET("", notesHandler.GetNotes)
		notes.GET("/:id", notesHandler.GetNote)
		notes.PUT("/:id", notesHandler.UpdateNote)
		notes.DELETE("/:id", notesHandler.DeleteNote)
	}

	sessions := router.Group("/sessions")
	sessions.Use(middleware.RequireAuth())
	{
		sessions.GET("/active", sessionHandler.GetActiveSessions)
		sessions.POST("/logout-all", sessionHandler.LogoutAll)
	}

	user := router.Group("/user")
	user.Use(middleware.RequireAuth())
	{
		user.GET("/profile", profileHandler.GetProfile)
	}

	return &testEnv{
		router:      router,
		userRepo:    userRepo,
		notesRepo:   notesRepo,
		sessionRepo: sessionRepo,
	}
}

func (env *testEnv) do(t *testing.T, method, path string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

// register creates a user through the HTTP surface.
func (env *testEnv) register(t *testing.T, email, password string) {
	t.Helper()

	w := env.do(t, http.MethodPost, "/auth/register", gin.H{
		"email":     email,
		"password":  password,
		"firstName": "Test",
		"lastName":  "User",
	}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("register returned %d: %s", w.Code, w.Body.String())
	}
}

// login authenticates and returns the issued session cookie.
func (env *testEnv) login(t *testing.T, email, password string) *http.Cookie {
	t.Helper()

	w := env.do(t, http.MethodPost, "/auth/login", gin.H{
		"email":    email,
		"password": password,
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login returned %d: %s", w.Code, w.Body.String())
	}

	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "session_id" && cookie.Value != "" {
			return cookie
		}
	}
	t.Fatal("login did not issue a session cookie")
	return nil
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	mustUnmarshal(t, w.Body.Bytes(), &body)
	return body
}

func mustUnmarshal(t *testing.T, data []byte, v interface{}) {
	t.Helper()

	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("failed to decode response %q: %v", data, err)
	}
}
