package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"stackmaster-quiz-service/internal/app"
	"stackmaster-quiz-service/internal/config"
	"stackmaster-quiz-service/internal/domain"
	"stackmaster-quiz-service/internal/infra/memory"
	pginfra "stackmaster-quiz-service/internal/infra/postgres"
	redisinfra "stackmaster-quiz-service/internal/infra/redis"
	"stackmaster-quiz-service/internal/llm"
	"stackmaster-quiz-service/internal/quizgen"
	transport "stackmaster-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	transientTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.CatalogLoader = memory.NewStaticCatalogLoader(sampleCatalog())
	if pool != nil {
		loader = pginfra.NewCatalogLoader(pool)
	}
	catalogTTL := config.TTLDuration(cfg.Catalog.TTL, 10*time.Minute)
	catalog := memory.NewCatalog(loader, catalogTTL)

	var results app.ResultStore = memory.NewResultStore()
	switch {
	case pool != nil:
		results = pginfra.NewResultStore(pool)
	case redisClient != nil:
		results = redisinfra.NewResultStore(redisClient)
	}

	var transient app.TransientResults = memory.NewTransientResults()
	if redisClient != nil {
		transient = redisinfra.NewTransientResults(redisClient, transientTTL)
	}

	provider, err := llm.NewProvider(cfg.LLMConfig())
	if err != nil {
		return err
	}
	generator := quizgen.NewGenerator(provider, quizgen.DefaultConfig())
	evaluator := quizgen.NewEvaluator(provider, quizgen.DefaultConfig())

	service := app.NewQuizService(catalog, results, transient, generator)
	auth := transport.NewAuthenticator(cfg.Auth.JWTSecret)
	apiHandler := transport.NewAPIHandler(service, evaluator, auth)
	wsHandler := transport.NewWSHandler(service, auth)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	apiHandler.Register(mux)
	mux.HandleFunc("/ws/attempt", wsHandler.ServeAttempt)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleCatalog is the built-in quiz list used when no Postgres catalog is
// configured.
func sampleCatalog() []domain.QuizDefinition {
	return []domain.QuizDefinition{
		{ID: "1", Title: "Modern JavaScript Fundamentals", Description: "Core language features every JavaScript developer should know.", QuestionCount: 10, TimeLimitMinutes: 15},
		{ID: "2", Title: "React.js Core Concepts", Description: "Components, hooks, and state management in React.", QuestionCount: 8, TimeLimitMinutes: 10},
		{ID: "4", Title: "Calculus I Basics", Description: "Limits, derivatives, and introductory integration.", QuestionCount: 5, TimeLimitMinutes: 8},
		{ID: "5", Title: "Introduction to Psychology", Description: "Foundational theories and concepts in psychology.", QuestionCount: 5, TimeLimitMinutes: 7},
		{ID: "7", Title: "Basic HTML", Description: "Structure, elements, and semantics of HTML documents.", QuestionCount: 5, TimeLimitMinutes: 5},
		{ID: "8", Title: "CSS Fundamentals", Description: "Selectors, the box model, and core styling concepts.", QuestionCount: 5, TimeLimitMinutes: 7},
		{ID: "9", Title: "Bootstrap Basics", Description: "Layout and components with the Bootstrap framework.", QuestionCount: 5, TimeLimitMinutes: 7},
		{ID: "10", Title: "CSS Grid Layout", Description: "Two-dimensional layout with CSS Grid.", QuestionCount: 5, TimeLimitMinutes: 8},
		{ID: "11", Title: "Python Programming", Description: "Syntax, data structures, and idiomatic Python.", QuestionCount: 10, TimeLimitMinutes: 15},
		{ID: "12", Title: "Tailwind CSS", Description: "Utility-first styling with Tailwind.", QuestionCount: 8, TimeLimitMinutes: 10},
		{ID: "13", Title: "MySQL Basics", Description: "Queries, joins, and schema design in MySQL.", QuestionCount: 10, TimeLimitMinutes: 12},
	}
}
