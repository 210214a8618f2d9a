package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-matcher/internal/analyses"
	"resume-matcher/internal/analysis"
	googleauth "resume-matcher/internal/auth"
	"resume-matcher/internal/extract"
	"resume-matcher/internal/jobs"
	"resume-matcher/internal/llm"
	"resume-matcher/internal/llm/gemini"
	openai "resume-matcher/internal/llm/openai"
	"resume-matcher/internal/queue"
	"resume-matcher/internal/resumes"
	"resume-matcher/internal/services/health"
	"resume-matcher/internal/shared/auth"
	"resume-matcher/internal/shared/config"
	"resume-matcher/internal/shared/server"
	"resume-matcher/internal/shared/server/middleware"
	"resume-matcher/internal/shared/storage/db"
	"resume-matcher/internal/shared/storage/object"
	localstore "resume-matcher/internal/shared/storage/object/local"
	s3store "resume-matcher/internal/shared/storage/object/s3"
	"resume-matcher/internal/shared/telemetry"
	"resume-matcher/internal/users"
)

// App holds shared dependencies.
type App struct {
	Config   config.Config
	Router   *gin.Engine
	DB       *sql.DB
	Store    object.ObjectStore
	Events   queue.Publisher
	Pipeline *analysis.Pipeline
	Tokens   *auth.TokenIssuer

	UsersService    *users.Service
	ResumesService  *resumes.Service
	JobsService     *jobs.Service
	AnalysesService *analyses.Service
	HealthService   *health.Service
}

// Options overrides parts of the dependency graph, mostly for tests.
type Options struct {
	// Generator replaces the configured model provider.
	Generator llm.Generator
	// Events replaces the configured events backend.
	Events queue.Publisher
	// DBOptions sizes the connection pool. Zero means db.DefaultServerOptions.
	DBOptions db.Options
}

// Build prepares shared dependencies and wires routes.
func Build(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}

	sqlDB, err := buildDB(ctx, cfg, opts.DBOptions)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	events := opts.Events
	if events == nil {
		if events, err = buildEvents(ctx, cfg); err != nil {
			return nil, err
		}
	}

	generator := opts.Generator
	if generator == nil {
		if generator, err = BuildGenerator(ctx, cfg); err != nil {
			if !isDevLike(cfg.Env) {
				return nil, err
			}
			telemetry.Warn("bootstrap.model_unconfigured", map[string]any{"provider": cfg.LLMProvider, "error": err})
			generator = unavailableGenerator(cfg.LLMProvider, err)
		}
	}

	tokens, err := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiration)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:   cfg,
		DB:       sqlDB,
		Store:    store,
		Events:   events,
		Pipeline: analysis.NewPipeline(extract.New(), generator, telemetry.L()),
		Tokens:   tokens,
	}
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          cfg,
		Tokens:          tokens,
		Health:          app.HealthService,
		UserHandler:     users.NewHandler(app.UsersService),
		ResumeHandler:   resumes.NewHandler(app.ResumesService),
		JobHandler:      jobs.NewHandler(app.JobsService),
		AnalysisHandler: analyses.NewHandler(app.AnalysesService),
		GoogleAuth:      buildGoogleAuth(cfg, app.UsersService),
		RateLimiter:     middleware.NewRateLimiter(nil),
	})

	return app, nil
}

// Close releases the database pool and the events connection.
func (a *App) Close() error {
	var errs []error
	if closer, ok := a.Events.(io.Closer); ok {
		errs = append(errs, closer.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}

func buildServices(app *App) {
	var (
		userRepo     users.Repo
		resumeRepo   resumes.Repo
		jobRepo      jobs.Repo
		analysisRepo analyses.Repo
	)
	if app.DB != nil {
		userRepo = &users.PGRepo{DB: app.DB}
		resumeRepo = &resumes.PGRepo{DB: app.DB}
		jobRepo = &jobs.PGRepo{DB: app.DB}
		analysisRepo = &analyses.PGRepo{DB: app.DB}
		app.HealthService = health.NewService(app.DB)
	} else {
		userRepo = users.NewMemoryRepo()
		resumeRepo = resumes.NewMemoryRepo()
		jobRepo = jobs.NewMemoryRepo()
		analysisRepo = analyses.NewMemoryRepo()
		app.HealthService = health.NewService(nil)
	}

	app.ResumesService = &resumes.Service{Store: app.Store, Repo: resumeRepo, Parser: app.Pipeline}
	app.JobsService = &jobs.Service{Repo: jobRepo, Parser: app.Pipeline}
	app.AnalysesService = &analyses.Service{
		Repo:     analysisRepo,
		Resumes:  app.ResumesService,
		Jobs:     app.JobsService,
		Comparer: app.Pipeline,
		Events:   app.Events,
	}
	// Analyses go first so no row references a removed resume or job.
	app.UsersService = users.NewService(
		userRepo,
		auth.NewPasswordHasher(app.Config.BcryptCost),
		app.Tokens,
		app.AnalysesService,
		app.ResumesService,
		app.JobsService,
	)
}

func buildGoogleAuth(cfg config.Config, sessions googleauth.SessionIssuer) *googleauth.GoogleService {
	if strings.TrimSpace(cfg.GoogleClientID) == "" {
		return nil
	}
	return googleauth.NewGoogleService(googleauth.GoogleConfig{
		ClientID:      cfg.GoogleClientID,
		ClientSecret:  cfg.GoogleClientSecret,
		RedirectURL:   cfg.GoogleRedirectURL,
		UIRedirectURL: cfg.UIRedirectURL,
	}, sessions)
}

func buildDB(ctx context.Context, cfg config.Config, pool db.Options) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if pool == (db.Options{}) {
		pool = db.DefaultServerOptions()
	}
	sqlDB, err := db.GetSingleton(ctx, cfg.DatabaseURL, db.OptionsFromEnv(pool))
	if err == nil {
		err = db.RunMigrations(ctx, sqlDB)
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": "database unavailable", "error": err})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, s3store.Options{
			Region:   cfg.AWSRegion,
			Bucket:   cfg.S3Bucket,
			Prefix:   cfg.S3Prefix,
			KMSKeyID: cfg.SSEKMSKeyID,
			Endpoint: cfg.S3Endpoint,
		})
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildEvents(ctx context.Context, cfg config.Config) (queue.Publisher, error) {
	switch cfg.EventsBackend {
	case "sqs":
		return queue.NewSQSPublisher(ctx, cfg.SQSQueueURL, cfg.AWSRegion)
	case "amqp":
		return queue.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	default:
		return queue.NoopPublisher{}, nil
	}
}

// BuildGenerator returns the configured generative model client.
func BuildGenerator(ctx context.Context, cfg config.Config) (llm.Generator, error) {
	switch cfg.LLMProvider {
	case "openai":
		return openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel, cfg.LLMTimeout, telemetry.L())
	default:
		return gemini.NewClient(ctx, gemini.Options{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.LLMModel,
			Timeout: cfg.LLMTimeout,
			Logger:  telemetry.L(),
		})
	}
}

// unavailableGenerator fails every call as Unavailable so the pipeline serves its fallbacks.
func unavailableGenerator(provider string, cause error) llm.Generator {
	return llm.GeneratorFunc(func(context.Context, string) (string, error) {
		return "", llm.NewError(provider, http.StatusServiceUnavailable, cause)
	})
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
