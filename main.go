package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"main/config"
	"main/handler"
	"main/middleware"
	"main/repository"
	"main/services"
	"main/usecase"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const maxRequestSize = 1 << 20 // 1 MiB

func init() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil && os.Getenv("GO_ENV") != "test" {
		log.Printf("No .env file loaded: %v", err)
	}

	// Check required environment variables
	requiredEnvVars := []string{
		"DB_HOST",
		"DB_PORT",
		"DB_USERNAME",
		"DB_PASSWORD",
		"DB_NAME",
		"SESSION_SECRET",
		"FRONTEND_URL",
		"PORT",
	}

	for _, envVar := range requiredEnvVars {
		if os.Getenv(envVar) == "" && os.Getenv("GO_ENV") != "test" {
			log.Fatalf("Required environment variable %s is not set", envVar)
		}
	}
}

func setupRouter(cfg *config.Config, db *sql.DB) *gin.Engine {
	router := gin.New()

	// Initialize repositories
	userRepo := repository.NewPostgresUserRepo(db)
	notesRepo := repository.NewPostgresNoteRepo(db)
	sessionRepo := repository.NewPostgresSessionRepo(db)

	// Initialize services
	userService := &usecase.UserService{UsersRepo: userRepo}
	noteService := &usecase.NoteService{NotesRepo: notesRepo}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(userService, sessionRepo, cfg.Session)
	notesHandler := handler.NewNotesHandler(noteService)
	sessionHandler := handler.NewSessionHandler(sessionRepo, cfg.Session)
	profileHandler := handler.NewProfileHandler(userRepo)
	statsHandler := handler.NewStatsHandler(userRepo, notesRepo, sessionRepo)
	twoFactorHandler := handler.NewTwoFactorHandler(userRepo, "notes-api")
	healthHandler := handler.NewHealthHandler(db)

	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.RequestTracingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestSizeLimiter(maxRequestSize))
	router.Use(middleware.CORSMiddleware(cfg.Server.FrontendURL))
	router.Use(middleware.SessionMiddleware(sessionRepo, cfg.Session))

	// Public routes
	router.GET("/health", healthHandler.GetHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := router.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", middleware.RequireAuth(), authHandler.Logout)
	}

	// Protected routes
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
		user.GET("/stats", statsHandler.GetUserStats)

		twofa := user.Group("/2fa")
		{
			twofa.POST("/generate", twoFactorHandler.GenerateSecret)
			twofa.POST("/enable", twoFactorHandler.Enable)
			twofa.POST("/disable", twoFactorHandler.Disable)
		}
	}

	return router
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := repository.OpenPostgres(cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := repository.RunMigrations(context.Background(), db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Session cache is optional; the sessions table is authoritative.
	if cfg.Redis.URL != "" {
		cache, err := services.NewSessionCache(cfg.Redis.URL)
		if err != nil {
			log.Printf("Warning: session cache disabled: %v", err)
		} else {
			services.GlobalSessionCache = cache
			defer cache.Close()
		}
	}

	router := setupRouter(cfg, db)

	serverAddr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server starting on %s", serverAddr)
	if err := router.Run(serverAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
