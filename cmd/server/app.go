package main

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/diewo77/medicine-recommendation/auth"
	"github.com/diewo77/medicine-recommendation/internal/config"
	"github.com/diewo77/medicine-recommendation/internal/handlers"
	"github.com/diewo77/medicine-recommendation/internal/knowledge"
	"github.com/diewo77/medicine-recommendation/internal/logger"
	"github.com/diewo77/medicine-recommendation/internal/predict"
	"github.com/diewo77/medicine-recommendation/internal/repository"
	"github.com/diewo77/medicine-recommendation/internal/services"
	"github.com/diewo77/medicine-recommendation/internal/storage"
)

// Deps are the long-lived collaborators built in main and shared by every request.
type Deps struct {
	Config     *config.Config
	DB         *gorm.DB
	Sessions   auth.Store
	Files      storage.Storage
	Classifier predict.Classifier
	Tables     *knowledge.Tables
	Knowledge  *knowledge.Base
}

// App is the main application handler that sets up all routes.
type App struct {
	engine  *gin.Engine
	cfg     *config.Config
	cookies *auth.Cookies

	accounts *services.AccountService
	auth     *handlers.AuthHandler
	profile  *handlers.ProfileHandler
	predict  *handlers.PredictHandler
	uploads  *handlers.UploadsHandler
	health   *handlers.HealthHandler
	sessions auth.Store
}

// NewApp creates a new application with all routes configured.
func NewApp(d Deps) *App {
	repo := repository.New(d.DB)
	cookies := &auth.Cookies{
		Name:   d.Config.Session.CookieName,
		Secret: d.Config.Session.Secret,
		MaxAge: time.Duration(d.Config.Session.TTL) * time.Second,
		Secure: d.Config.Session.Secure,
	}
	accounts := services.NewAccountService(repo, d.Sessions, d.Files, d.Config.Storage.MaxAvatarBytes)
	predictions := predict.NewService(
		predict.NewEncoder(d.Tables),
		predict.NewAdapter(d.Classifier, d.Tables),
		d.Knowledge,
		repo,
	)

	app := &App{
		engine:   gin.New(),
		cfg:      d.Config,
		cookies:  cookies,
		accounts: accounts,
		sessions: d.Sessions,
		auth:     handlers.NewAuthHandler(accounts, cookies),
		profile:  handlers.NewProfileHandler(accounts, cookies),
		predict:  handlers.NewPredictHandler(predictions, d.Tables),
		uploads:  handlers.NewUploadsHandler(d.Files),
		health:   handlers.NewHealthHandler(repo),
	}
	app.setupRoutes()
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.engine.ServeHTTP(w, r)
}

func (a *App) setupRoutes() {
	r := a.engine
	r.Use(
		logger.Middleware(),
		logger.Recovery(),
		limitBodySize(a.cfg.Server.MaxBodyBytes),
		cors.New(cors.Config{
			AllowOrigins:     a.cfg.Server.Origins(),
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
	)

	// Public routes
	r.GET("/healthz", a.health.Live)
	r.GET("/readyz", a.health.Ready)
	r.GET("/symptoms", a.predict.Symptoms)
	r.GET("/uploads/:filename", a.uploads.Serve)
	r.POST("/auth/register", a.auth.Register)
	r.POST("/auth/login", a.auth.Login)

	// Authenticated routes
	protected := r.Group("/", auth.RequireAuth(a.sessions, a.cookies, a.accounts.UserExists))
	protected.POST("/auth/logout", a.auth.Logout)
	protected.GET("/profile", a.profile.Get)
	protected.PUT("/profile/update", a.profile.Update)
	protected.POST("/profile/avatar", a.profile.UploadAvatar)
	protected.DELETE("/profile", a.profile.Delete)
	protected.POST("/predict", a.predict.Predict)
	protected.GET("/prediction-history", a.predict.History)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "not_found"})
	})
}

func limitBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
