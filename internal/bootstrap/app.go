package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Gamepig/coach-rocks-ai-sub001/internal/clients"
	"github.com/Gamepig/coach-rocks-ai-sub001/internal/llm"
	"github.com/Gamepig/coach-rocks-ai-sub001/internal/llm/anthropic"
	"github.com/Gamepig/coach-rocks-ai-sub001/internal/llm/openai"
	"github.com/Gamepig/coach-rocks-ai-sub001/internal/meetings"
	"github.com/Gamepig/coach-rocks-ai-sub001/internal/queue"
	"github.com/Gamepig/coach-rocks-ai-sub001/internal/shared/config"
	"github.com/Gamepig/coach-rocks-ai-sub001/internal/shared/storage/db"
	"github.com/Gamepig/coach-rocks-ai-sub001/internal/shared/telemetry"
)

// App holds shared dependencies wired from configuration. Both binaries
// build one; cmd/api additionally attaches a router, cmd/worker a consumer.
type App struct {
	Config    config.Config
	DB        *sql.DB
	Queue     queue.Client
	NATS      *queue.NATSClient
	Repo      meetings.Repo
	Directory clients.Directory
	Service   *meetings.Service
	Handler   *meetings.Handler
}

// Options tweak Build per binary.
type Options struct {
	// Worker mode skips the inline queue fallback: a worker only consumes.
	Worker    bool
	DBOptions db.Options
}

// Build prepares shared dependencies without starting any listener.
func Build(cfg config.Config, opts Options) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	app := &App{Config: cfg}

	sqlDB, err := buildDB(ctx, cfg, opts)
	if err != nil {
		return nil, err
	}
	app.DB = sqlDB

	if sqlDB != nil {
		app.Repo = &meetings.PGRepo{DB: sqlDB}
		app.Directory = &clients.PGDirectory{DB: sqlDB}
	} else {
		app.Repo = meetings.NewMemoryRepo()
		app.Directory = clients.NewMemoryDirectory()
	}

	orchestrator, err := buildOrchestrator(cfg)
	if err != nil {
		return nil, err
	}

	limiter := meetings.NewSubmitLimiter(cfg.SubmitInterval, time.Now)
	filters := meetings.FilterConfig{
		MinDurationMinutes: cfg.MinDurationMinutes,
		MaxDurationMinutes: cfg.MaxDurationMinutes,
		MinParticipants:    cfg.MinParticipants,
		MaxParticipants:    cfg.MaxParticipants,
	}

	svc := meetings.NewService(app.Repo, &meetings.Resolver{Directory: app.Directory},
		limiter, filters, nil, orchestrator, meetings.LogNotifier{})

	queueClient, natsClient, err := buildQueue(cfg, svc, opts)
	if err != nil {
		return nil, err
	}
	app.Queue = queueClient
	app.NATS = natsClient
	svc.Queue = queueClient

	app.Service = svc
	app.Handler = meetings.NewHandler(svc)
	return app, nil
}

// Close releases held connections.
func (a *App) Close() {
	if a.NATS != nil {
		a.NATS.Close()
	}
	if a.DB != nil {
		_ = a.DB.Close()
	}
}

func buildDB(ctx context.Context, cfg config.Config, opts Options) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	dbOpts := opts.DBOptions
	if dbOpts == (db.Options{}) {
		if opts.Worker {
			dbOpts = db.DefaultWorkerOptions()
		} else {
			dbOpts = db.DefaultServerOptions()
		}
	}
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(dbOpts))
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": "database connect failed", "error": err.Error()})
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildOrchestrator(cfg config.Config) (*llm.Orchestrator, error) {
	var providers []llm.Provider

	if strings.TrimSpace(cfg.OpenAIAPIKey) != "" {
		client, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.ProviderTimeout)
		if err != nil {
			return nil, fmt.Errorf("openai client: %w", err)
		}
		providers = append(providers, llm.WithBreaker(client))
	}
	if strings.TrimSpace(cfg.AnthropicAPIKey) != "" {
		client, err := anthropic.NewClient(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.ProviderTimeout)
		if err != nil {
			return nil, fmt.Errorf("anthropic client: %w", err)
		}
		providers = append(providers, llm.WithBreaker(client))
	}
	if len(providers) == 0 {
		return nil, fmt.Errorf("no inference provider configured: set OPENAI_API_KEY or ANTHROPIC_API_KEY")
	}

	return llm.NewOrchestrator(providers, cfg.SummaryMaxTokens)
}

func buildQueue(cfg config.Config, svc *meetings.Service, opts Options) (queue.Client, *queue.NATSClient, error) {
	if cfg.QueueBackend == "nats" {
		natsClient, err := queue.NewNATSClient(cfg.NATSURL, cfg.NATSSubject, queue.NATSOptions{})
		if err != nil {
			return nil, nil, fmt.Errorf("connect nats: %w", err)
		}
		return natsClient, natsClient, nil
	}
	if opts.Worker {
		return nil, nil, fmt.Errorf("worker requires QUEUE_BACKEND=nats")
	}
	inline := queue.NewInlineDispatcher(func(ctx context.Context, msg queue.Message) {
		svc.ExecuteAnalysis(ctx, meetings.Job{
			MeetingID:     msg.MeetingID,
			CorrelationID: msg.CorrelationID,
			Transcript:    msg.Transcript,
			UserEmail:     msg.UserEmail,
		})
	})
	return inline, nil, nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
