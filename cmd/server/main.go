package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/google"

	"versequest/internal/audio"
	"versequest/internal/config"
	"versequest/internal/database"
	"versequest/internal/handlers"
	"versequest/internal/logger"
	"versequest/internal/metrics"
	"versequest/internal/repository"
	"versequest/internal/security"
	"versequest/internal/service"
	"versequest/internal/verseapi"
	"versequest/migrations"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Environment, cfg.Debug)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatal("failed to initialize database", "error", err)
	}
	defer db.Close()
	log.Info("database connection established", "type", cfg.DatabaseType)

	applied, err := db.RunMigrations(migrations.Source(cfg.MigrationsPath))
	if err != nil {
		log.Fatal("failed to run migrations", "error", err)
	}
	log.Info("migrations completed", "applied", len(applied))

	tiers, err := config.LoadTiers(cfg.TiersPath)
	if err != nil {
		log.Fatal("failed to load tier table", "error", err)
	}

	m := metrics.New()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	verseRepo := repository.NewVerseRepository(db)
	practiceRepo := repository.NewPracticeRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// Initialize services
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	emailService, err := service.NewEmailService(ctx, cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, log)
	if err != nil {
		log.Fatal("failed to initialize email service", "error", err)
	}

	authService := service.NewAuthService(userRepo, cfg.SessionDuration, log)
	verseClient := verseapi.NewClient(cfg.VerseAPIURL, cfg.VerseTranslation)
	verseService := service.NewVerseService(verseRepo, verseClient, verseClient.Translation(), m, log)
	practiceService := service.NewPracticeService(db, verseRepo, practiceRepo, settingsRepo, tiers, cfg.MaskInterval, emailService, m, log)
	progressService := service.NewProgressService(progressRepo, practiceRepo, tiers)
	backupService := service.NewBackupService(db, log)

	if added, err := verseService.SeedDefaultVerses(); err != nil {
		log.Warn("failed to seed default verses", "error", err)
	} else if added > 0 {
		log.Info("default verses seeded", "count", added)
	}

	if cfg.AudioEnabled {
		verseService.SetAudioGenerator(audio.NewTTSService(filepath.Join(cfg.StaticFilesPath, "audio"), cfg.AudioTTSURL))
		go func() {
			generated, err := verseService.GenerateMissingAudio(ctx)
			if err != nil {
				log.Warn("failed to generate missing audio", "error", err)
				return
			}
			log.Info("verse audio generated", "count", generated)
		}()
	}

	signer := security.NewSigner(cfg.CSRFSecret)
	limiter := security.NewRateLimiter(cfg.RateLimitPerMin)

	router := &handlers.Router{
		Middleware: handlers.NewMiddleware(authService, signer, limiter, log),
		Auth:       handlers.NewAuthHandler(authService, signer, emailService, oauthProviders(cfg), cfg.OAuthRedirectBaseURL, log),
		Verses:     handlers.NewVerseHandler(verseService, practiceService, log),
		Progress:   handlers.NewProgressHandler(progressService, log),
		Admin:      handlers.NewAdminHandler(practiceService, verseService, backupService, userRepo, log),
		Metrics:    m,
		Log:        log,
		StaticPath: cfg.StaticFilesPath,
	}

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go cleanupLoop(ctx, authService, limiter, log)

	go func() {
		log.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}

func oauthProviders(cfg *config.Config) map[string]handlers.OAuthProvider {
	return map[string]handlers.OAuthProvider{
		"google": {
			Name:  "google",
			Label: "Google",
			Config: &oauth2.Config{
				ClientID:     cfg.GoogleClientID,
				ClientSecret: cfg.GoogleClientSecret,
				Endpoint:     google.Endpoint,
				Scopes:       []string{"openid", "email", "profile"},
			},
			UserInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
		},
		"facebook": {
			Name:  "facebook",
			Label: "Facebook",
			Config: &oauth2.Config{
				ClientID:     cfg.FacebookClientID,
				ClientSecret: cfg.FacebookClientSecret,
				Endpoint:     facebook.Endpoint,
				Scopes:       []string{"email", "public_profile"},
			},
			UserInfoURL: "https://graph.facebook.com/me?fields=id,name,email",
		},
		"apple": {
			Name:  "apple",
			Label: "Apple",
			Config: &oauth2.Config{
				ClientID:     cfg.AppleClientID,
				ClientSecret: cfg.AppleClientSecret,
				Endpoint: oauth2.Endpoint{
					AuthURL:  "https://appleid.apple.com/auth/authorize",
					TokenURL: "https://appleid.apple.com/auth/token",
				},
				Scopes: []string{"name", "email"},
			},
			AuthParams: map[string]string{
				"response_mode": "query",
			},
		},
	}
}

// cleanupLoop periodically removes expired sessions and idle rate-limit buckets
func cleanupLoop(ctx context.Context, authService *service.AuthService, limiter *security.RateLimiter, log *logger.Logger) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		removed, err := authService.CleanupExpiredSessions()
		if err != nil {
			log.Error("failed to clean up expired sessions", "error", err)
		} else {
			log.Info("expired sessions cleaned up", "count", removed)
		}
		log.Debug("rate limiter pruned", "visitors", limiter.Cleanup())
	}
}
