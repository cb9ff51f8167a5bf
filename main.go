package main

import (
	"context"
	"database/sql"
	"log"
	"net"
	"net/http"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver for database/sql (migrations)
	"go.uber.org/zap"

	"github.com/finalspaces/finalspaces-engine/pkg/audit"
	"github.com/finalspaces/finalspaces-engine/pkg/auth"
	"github.com/finalspaces/finalspaces-engine/pkg/config"
	"github.com/finalspaces/finalspaces-engine/pkg/database"
	"github.com/finalspaces/finalspaces-engine/pkg/geocode"
	"github.com/finalspaces/finalspaces-engine/pkg/handlers"
	"github.com/finalspaces/finalspaces-engine/pkg/llm"
	"github.com/finalspaces/finalspaces-engine/pkg/logging"
	"github.com/finalspaces/finalspaces-engine/pkg/mail"
	"github.com/finalspaces/finalspaces-engine/pkg/middleware"
	"github.com/finalspaces/finalspaces-engine/pkg/placid"
	"github.com/finalspaces/finalspaces-engine/pkg/repositories"
	"github.com/finalspaces/finalspaces-engine/pkg/requestcache"
	"github.com/finalspaces/finalspaces-engine/pkg/services"
	"github.com/finalspaces/finalspaces-engine/pkg/storage"
	"github.com/finalspaces/finalspaces-engine/pkg/viewcache"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.NewLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("base_url", cfg.BaseURL),
		zap.Bool("auth_verification", cfg.Auth.EnableVerification),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.URL())),
		zap.String("redis", cfg.Redis.Addr),
	)

	ctx := context.Background()

	// Database pool and migrations
	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.URL(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	sqlDB, err := sql.Open("pgx", cfg.Database.URL())
	if err != nil {
		logger.Fatal("Failed to open migration connection", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, cfg.Database.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	sqlDB.Close()

	// Redis-backed view cache. Absent Redis degrades to uncached views.
	var views *viewcache.Cache
	redisClient, err := database.NewRedisClient(&database.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		logger.Warn("Redis unavailable, view cache disabled", zap.Error(err))
	} else if redisClient != nil {
		views = viewcache.New(redisClient, logger)
		defer redisClient.Close()
	}

	// Authentication
	jwksClient, err := auth.NewJWKSClient(&auth.JWKSConfig{
		EnableVerification: cfg.Auth.EnableVerification,
		Issuer:             cfg.Auth.Issuer,
		JWKSURL:            cfg.Auth.JWKSURL,
	})
	if err != nil {
		logger.Fatal("Failed to create JWKS client", zap.Error(err))
	}
	defer jwksClient.Close()

	auth.InitSessionStore(cfg.SessionSecret, cfg.Env != "local")

	authService := auth.NewAuthService(jwksClient, logger)
	auditor := audit.NewSecurityAuditor(logger)
	authMiddleware := auth.NewMiddleware(authService, auditor, logger)

	// Text-generation providers. Each is optional; Generate reports a
	// configuration error when none is available.
	var generators []llm.Generator
	if cfg.OpenAI.APIKey != "" {
		openaiClient, err := llm.NewOpenAIClient(&llm.OpenAIConfig{
			APIKey:  cfg.OpenAI.APIKey,
			BaseURL: cfg.OpenAI.BaseURL,
			Model:   cfg.OpenAI.Model,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to create OpenAI client", zap.Error(err))
		}
		generators = append(generators, openaiClient)
	} else {
		logger.Warn("OPENAI_API_KEY not set, OpenAI generation disabled")
	}
	if cfg.Anthropic.APIKey != "" {
		anthropicClient, err := llm.NewAnthropicClient(&llm.AnthropicConfig{
			APIKey: cfg.Anthropic.APIKey,
			Model:  cfg.Anthropic.Model,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to create Anthropic client", zap.Error(err))
		}
		generators = append(generators, anthropicClient)
	} else {
		logger.Warn("ANTHROPIC_API_KEY not set, Claude generation disabled")
	}

	// Image composition collaborator
	var composer placid.Client
	if cfg.Placid.APIKey != "" {
		composer, err = placid.NewClient(&placid.Config{
			BaseURL:    cfg.Placid.BaseURL,
			APIKey:     cfg.Placid.APIKey,
			TemplateID: cfg.Placid.TemplateID,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to create composition client", zap.Error(err))
		}
	} else {
		requireLocal(cfg, logger, "PLACID_API_KEY")
		logger.Warn("PLACID_API_KEY not set, using mock composition client")
		composer = &placid.MockClient{}
	}

	// Geocoding collaborator
	geocoder, err := geocode.NewClient(&geocode.Config{
		BaseURL:   cfg.Geocode.BaseURL,
		UserAgent: cfg.Geocode.UserAgent,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create geocoding client", zap.Error(err))
	}

	// Mail collaborators
	var sender mail.Sender
	if cfg.Mail.ResendAPIKey != "" {
		sender, err = mail.NewResendClient(mail.ResendConfig{
			APIKey:    cfg.Mail.ResendAPIKey,
			FromEmail: cfg.Mail.EmailFrom,
			ToEmail:   cfg.Mail.EmailTo,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to create mail sender", zap.Error(err))
		}
	} else {
		requireLocal(cfg, logger, "RESEND_API_KEY")
		logger.Warn("RESEND_API_KEY not set, using mock mail sender")
		sender = &mail.MockSender{}
	}

	var subscriber mail.Subscriber
	if cfg.Mail.MailchimpAPIKey != "" {
		var mcBaseURL string
		if cfg.Mail.MailchimpServer != "" {
			mcBaseURL = "https://" + cfg.Mail.MailchimpServer + ".api.mailchimp.com/3.0"
		}
		subscriber, err = mail.NewMailchimpClient(mail.MailchimpConfig{
			BaseURL:    mcBaseURL,
			APIKey:     cfg.Mail.MailchimpAPIKey,
			AudienceID: cfg.Mail.MailchimpListID,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to create waitlist subscriber", zap.Error(err))
		}
	} else {
		requireLocal(cfg, logger, "MAILCHIMP_API_KEY")
		logger.Warn("MAILCHIMP_API_KEY not set, using mock subscriber")
		subscriber = &mail.MockSubscriber{}
	}

	// Upload object store
	var store storage.ObjectStore
	if cfg.Storage.AccessKey != "" {
		store, err = storage.NewMinioStore(
			cfg.Storage.Endpoint,
			cfg.Storage.AccessKey,
			cfg.Storage.SecretKey,
			cfg.Storage.Bucket,
			cfg.Storage.UseSSL,
		)
		if err != nil {
			logger.Fatal("Failed to create object store", zap.Error(err))
		}
	} else {
		requireLocal(cfg, logger, "STORAGE_ACCESS_KEY")
		logger.Warn("STORAGE_ACCESS_KEY not set, using mock object store")
		store = &storage.MockObjectStore{}
	}

	// Repositories
	entryRepo := repositories.NewDeceasedRepository(db)
	obituaryRepo := repositories.NewObituaryRepository(db)
	draftRepo := repositories.NewObituaryDraftRepository(db)
	imageRepo := repositories.NewGeneratedImageRepository(db)
	quoteRepo := repositories.NewSavedQuoteRepository(db)
	uploadRepo := repositories.NewUserUploadRepository(db)

	// Services
	entryService := services.NewEntryService(entryRepo, views, logger)
	obituaryService := services.NewObituaryService(obituaryRepo, draftRepo, entryRepo, generators, logger)
	imageService := services.NewImageService(imageRepo, entryRepo, composer, logger)
	quoteService := services.NewQuoteService(quoteRepo, views, logger)
	uploadService := services.NewUploadService(uploadRepo, store, views, logger)
	mailService := services.NewMailService(sender, subscriber, logger)
	dashboardService := services.NewDashboardService(entryService, uploadService, obituaryRepo, imageRepo, logger)

	mux := http.NewServeMux()

	// Register handlers
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewAuthHandler(authService, cfg, logger).RegisterRoutes(mux)
	handlers.NewEntryHandler(entryService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewObituaryHandler(obituaryService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewImageHandler(imageService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewQuoteHandler(quoteService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewUploadHandler(uploadService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewDashboardHandler(dashboardService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewGeocodeHandler(geocoder, logger).RegisterRoutes(mux)
	handlers.NewMailHandler(mailService, logger).RegisterRoutes(mux)

	// Serve the built frontend
	fs := http.FileServer(http.Dir("./ui/dist"))
	mux.Handle("/", fs)

	handler := middleware.RequestLogger(logger)(requestcache.Middleware(mux))

	addr := net.JoinHostPort(cfg.BindAddr, cfg.Port)
	logger.Info("Starting finalspaces-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version),
	)
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

// requireLocal aborts startup when a collaborator credential is missing
// outside local environments. Local runs fall back to mocks so the app
// boots without the full credential set.
func requireLocal(cfg *config.Config, logger *zap.Logger, key string) {
	if cfg.Env != "local" {
		logger.Fatal("Missing required credential", zap.String("env_var", key))
	}
}
