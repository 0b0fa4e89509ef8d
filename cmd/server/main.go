package main

import (
	"blogicum/internal/auth"
	"blogicum/internal/cache"
	"blogicum/internal/config"
	"blogicum/internal/data"
	"blogicum/internal/handler"
	"blogicum/internal/logger"
	"blogicum/internal/media"
	"blogicum/internal/middleware"
	"blogicum/internal/ratelimit"
	"blogicum/internal/service"
	"blogicum/internal/storage"
	"blogicum/internal/view"
	"blogicum/web"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/mysqlstore"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/jmoiron/sqlx"
)

func main() {
	// --- Configuration Loading ---
	cfg, err := config.LoadConfig()
	if err != nil {
		// Use fmt.Printf here because the logger is not yet initialized.
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger Initialization ---
	log := logger.New(cfg.Log, os.Stdout)

	// --- Database Initialization and Migration ---
	log.Info("Connecting to the database...")
	db, err := data.NewDB(cfg.DB)
	if err != nil {
		log.Fatal(err, "Failed to connect to database")
	}
	defer db.Close()
	log.Info("Database connection successful.")

	log.Info("Applying database migrations...")
	if err := data.ApplyMigrations(db, cfg.DB.Driver); err != nil {
		log.Fatal(err, "Failed to apply migrations")
	}
	log.Info("Migrations applied successfully.")

	// --- Session Management Setup ---
	sessionManager := scs.New()
	sessionManager.Store = sessionStore(db, cfg)
	sessionManager.Lifetime = time.Duration(cfg.Session.Lifetime) * time.Hour
	sessionManager.Cookie.Persist = true
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode
	sessionManager.Cookie.Secure = cfg.Server.TLS.Enabled

	// --- Authentication and Authorization Setup ---
	log.Info("Initializing authentication and authorization...")
	var authenticator *auth.Authenticator
	if cfg.OIDC.Enabled() {
		authenticator, err = auth.NewAuthenticator(context.Background(), &cfg.OIDC)
		if err != nil {
			log.Fatal(err, "Failed to initialize authenticator")
		}
	} else {
		log.Info("OIDC issuer not configured, only password login is available.")
	}
	enforcer, err := auth.NewEnforcer(cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err, "Failed to initialize enforcer")
	}
	auth.SeedDefaultPolicies(enforcer, log.Named("auth"))
	log.Info("Auth components initialized and policies seeded.")

	// --- View Template Initialization ---
	log.Info("Initializing view templates...")
	viewService, err := view.New(web.TemplateFS)
	if err != nil {
		log.Fatal(err, "Failed to initialize view templates")
	}
	log.Info("View templates initialized.")

	// --- Cache Initialization ---
	log.Info("Initializing SQLite cache...")
	lookupCache, err := cache.New(cfg.Cache)
	if err != nil {
		log.Fatal(err, "Failed to initialize cache")
	}
	defer lookupCache.Close()
	log.Info("Cache initialized.")

	// --- Image Storage ---
	imageStore, err := storage.New(context.Background(), cfg.Storage)
	if err != nil {
		log.Fatal(err, "Failed to initialize image storage")
	}

	// --- Dependency Injection and Handler Initialization ---
	// Initialize the application layers, injecting dependencies from top to bottom.
	userRepository := data.NewUserRepository(db)
	categoryRepository := data.NewCategoryRepository(db)
	locationRepository := data.NewLocationRepository(db)
	postRepository := data.NewSQLPostRepository(db)
	commentRepository := data.NewCommentRepository(db)

	renderer := service.NewRenderer()
	catalogService := service.NewCatalogService(categoryRepository, locationRepository, lookupCache, cfg.Cache.TTL)
	userService := service.NewUserService(userRepository)
	commentService := service.NewCommentService(commentRepository, postRepository, renderer, time.Now)
	postService := service.NewPostService(service.PostServiceConfig{
		Posts:      postRepository,
		Users:      userRepository,
		Categories: categoryRepository,
		Locations:  locationRepository,
		Catalog:    catalogService,
		Storage:    imageStore,
		Limits: media.Limits{
			MaxBytes:  cfg.Storage.MaxUploadBytes,
			MaxWidth:  cfg.Storage.MaxWidth,
			MaxHeight: cfg.Storage.MaxHeight,
		},
		Renderer: renderer,
		Logger:   log.Named("posts"),
		PageSize: cfg.Blog.PageSize,
		Clock:    time.Now,
	})

	httpLog := log.Named("http")
	postHandler := handler.NewPostHandler(postService, commentService, catalogService, viewService, httpLog, cfg.Storage.MaxUploadBytes)
	handlers := handler.Handlers{
		Posts:    postHandler,
		Comments: handler.NewCommentHandler(commentService, postHandler, viewService, httpLog),
		Profiles: handler.NewProfileHandler(userService, viewService),
		Auth:     handler.NewAuthHandler(userService, sessionManager, authenticator, viewService, log.Named("auth")),
		Seo:      handler.NewSeoHandler(postService, cfg.Server.BaseURL),
	}

	limiter := ratelimit.New(cfg.RateLimit.Every, cfg.RateLimit.Burst, cfg.RateLimit.Expire)
	errorPage := middleware.Error(httpLog, viewService)
	middlewares := handler.Middlewares{
		Session:      sessionManager.LoadAndSave,
		CSRF:         middleware.CSRF(sessionManager, cfg.Server.CSRF, errorPage),
		RateLimit:    middleware.RateLimit(limiter),
		Authenticate: middleware.Authenticate(sessionManager, userService, log.Named("auth")),
		Authorize:    middleware.Authorizer(enforcer),
		Logger:       middleware.RequestLogger(httpLog),
		Error:        errorPage,
	}

	staticFS, err := web.Static()
	if err != nil {
		log.Fatal(err, "Failed to open static assets")
	}
	assets := handler.Assets{Static: staticFS}
	if cfg.Storage.Driver == "" || cfg.Storage.Driver == "local" {
		assets.Media = os.DirFS(cfg.Storage.UploadDir)
	}

	// --- Router Setup ---
	// The router is the central hub that directs incoming requests to the correct handlers.
	router := handler.NewRouter(handlers, middlewares, assets)

	// --- Server Initialization and Graceful Shutdown ---
	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if cfg.Server.TLS.Enabled {
			log.Info(fmt.Sprintf("Starting HTTPS server on %s", server.Addr))
			if err := server.ListenAndServeTLS(cfg.Server.TLS.CertFile, cfg.Server.TLS.KeyFile); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal(err, "Could not start HTTPS server")
			}
		} else {
			log.Info(fmt.Sprintf("Starting HTTP server on %s", server.Addr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal(err, "Could not start HTTP server")
			}
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Warn("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal(err, "Server forced to shutdown")
	}
	log.Info("Server exiting")
}

// sessionStore keeps sessions in the application database.
func sessionStore(db *sqlx.DB, cfg *config.Config) scs.Store {
	if cfg.DB.Driver == "mysql" {
		return mysqlstore.NewWithCleanupInterval(db.DB, cfg.Session.CleanupInterval)
	}
	return sqlite3store.NewWithCleanupInterval(db.DB, cfg.Session.CleanupInterval)
}
