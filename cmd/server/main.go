package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Stewz00/go-student-portal/internal/captcha"
	"github.com/Stewz00/go-student-portal/internal/config"
	"github.com/Stewz00/go-student-portal/internal/database"
	"github.com/Stewz00/go-student-portal/internal/handler"
	"github.com/Stewz00/go-student-portal/internal/interfaces"
	"github.com/Stewz00/go-student-portal/internal/logger"
	"github.com/Stewz00/go-student-portal/internal/repository"
	"github.com/Stewz00/go-student-portal/internal/server"
	"github.com/Stewz00/go-student-portal/internal/service"
	"github.com/Stewz00/go-student-portal/internal/session"
	"github.com/Stewz00/go-student-portal/internal/storage"
	"github.com/Stewz00/go-student-portal/web"
)

const janitorInterval = 10 * time.Minute

type sessionStore interface {
	interfaces.SessionStore
	session.Purger
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logs, err := logger.New("student-portal", cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logs.Sync()

	if err := run(cfg, logs); err != nil {
		logs.Fatalw("server stopped", "error", err)
	}
	logs.Info("server exited properly")
}

func run(cfg *config.Config, logs *zap.SugaredLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var db *database.DB
	if cfg.NeedsPostgres() {
		var err error
		db, err = database.New(ctx, cfg.DbURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		if err := db.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	var users interfaces.UserRepository
	switch cfg.UserStore {
	case config.StoreMongo:
		m, err := database.NewMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return fmt.Errorf("failed to connect to mongo: %w", err)
		}
		defer m.Close(context.Background())

		users, err = repository.NewMongoUserRepository(ctx, m)
		if err != nil {
			return fmt.Errorf("failed to prepare users collection: %w", err)
		}
	default:
		users = repository.NewUserRepository(db)
	}

	var sessions sessionStore
	switch cfg.SessionStore {
	case config.StorePostgres:
		sessions = repository.NewSessionRepository(db, cfg.SessionTTL)
	default:
		sessions = session.NewMemoryStore(cfg.SessionTTL)
	}
	go session.RunJanitor(ctx, sessions, janitorInterval, logs)

	var (
		blobs     interfaces.BlobStore
		uploadDir string
	)
	switch cfg.UploadBackend {
	case config.UploadS3:
		s3Store, err := storage.NewS3Store(ctx, cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to configure s3: %w", err)
		}
		blobs = s3Store
	default:
		local, err := storage.NewLocalStore(cfg.UploadDir)
		if err != nil {
			return err
		}
		blobs = local
		uploadDir = local.Dir()
	}

	// Initialize services and handlers
	authService, err := service.NewAuthService(users, sessions, cfg.BcryptCost)
	if err != nil {
		return err
	}
	captchaService := service.NewCaptchaService(sessions, captcha.NewGenerator(cfg.CaptchaLength))
	profileService := service.NewProfileService(users, sessions, blobs)

	cookies := session.NewCookieCodec(cfg.SessionSecret, cfg.CookieSecure, cfg.SessionTTL)

	router := server.NewRouter(server.Deps{
		Logger:             logs,
		Sessions:           sessions,
		Cookies:            cookies,
		Auth:               handler.NewAuthHandler(authService, captchaService, cookies, logs),
		Profile:            handler.NewProfileHandler(profileService, cfg.UploadMaxBytes, logs),
		Pages:              handler.NewPageHandler(web.Pages()),
		Static:             web.Static(),
		UploadDir:          uploadDir,
		RateLimit:          cfg.RateLimit,
		AuthRateLimit:      cfg.AuthRateLimit,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	logs.Infow("stores ready",
		"users", cfg.UserStore,
		"sessions", cfg.SessionStore,
		"uploads", cfg.UploadBackend,
	)
	return server.New(cfg.Port, router, logs).Run(ctx)
}
