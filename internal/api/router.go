package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/riverlabs/nexus/internal/api/handlers"
	mw "github.com/riverlabs/nexus/internal/api/middleware"
	"github.com/riverlabs/nexus/internal/cache"
	"github.com/riverlabs/nexus/internal/config"
	"github.com/riverlabs/nexus/internal/domain"
	"github.com/riverlabs/nexus/internal/embedding"
	"github.com/riverlabs/nexus/internal/oracle"
	"github.com/riverlabs/nexus/internal/service"
	"github.com/riverlabs/nexus/internal/store"
)

// App wires stores, clients, and services into the HTTP router.
type App struct {
	Router   *chi.Mux
	Episodic *service.EpisodicService
	oracle   *oracle.OllamaClient
}

func NewApp(db *pgxpool.Pool, rdb *redis.Client, logger *zap.Logger) *App {
	// Stores
	beliefStore := store.NewBeliefStore(db)
	memoryIndex := store.NewMemoryIndexStore(db)
	metricsStore := store.NewMetricsStore(db)
	analysisStore := store.NewAnalysisStore(db)
	messageStore := store.NewMessageStore(db)
	analysisCache := cache.NewAnalysisCache(rdb, logger)

	// External clients
	oracleClient := oracle.NewOllamaClient(config.OllamaURL(), config.OllamaModel(), config.OracleRPS())
	embedClient := embedding.NewOllamaClient(config.OllamaURL(), config.OllamaEmbedModel(), config.EmbeddingDim())

	// Services
	beliefSvc := service.NewBeliefService(beliefStore, oracleClient, logger)
	episodicSvc := service.NewEpisodicService(memoryIndex, embedClient, logger)
	consciousnessSvc := service.NewConsciousnessService(metricsStore, logger)
	perspectiveSvc := service.NewPerspectiveService(oracleClient, analysisCache, analysisStore, logger)
	engine := service.NewEngine(beliefSvc, episodicSvc, consciousnessSvc, perspectiveSvc, oracleClient, logger)

	// Handlers
	chatHandler := handlers.NewChatHandler(engine, messageStore, logger)
	analyzeHandler := handlers.NewAnalyzeHandler(engine)
	beliefHandler := handlers.NewBeliefHandler(engine)
	consciousnessHandler := handlers.NewConsciousnessHandler(engine)

	r := chi.NewRouter()

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst()))

	r.Get("/health", healthHandler(db, oracleClient))

	r.Route("/v1", func(r chi.Router) {
		r.Post("/chat", chatHandler.Process)
		r.Post("/analyze", analyzeHandler.Analyze)
		r.Get("/beliefs/{userID}", beliefHandler.List)
		r.Get("/consciousness/{userID}", consciousnessHandler.Get)
	})

	return &App{
		Router:   r,
		Episodic: episodicSvc,
		oracle:   oracleClient,
	}
}

func healthHandler(db *pgxpool.Pool, oracleClient *oracle.OllamaClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
			return
		}

		// Oracle reachability is reported, not required: the store layer is
		// what makes the service healthy enough to accept traffic.
		oracleStatus := "ok"
		if err := oracleClient.Health(r.Context()); err != nil {
			oracleStatus = "unreachable"
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok", "oracle": oracleStatus})
	}
}

// Ensure stores and clients satisfy interfaces at compile time.
var (
	_ domain.BeliefStore     = (*store.BeliefStore)(nil)
	_ domain.MemoryIndex     = (*store.MemoryIndexStore)(nil)
	_ domain.MetricsStore    = (*store.MetricsStore)(nil)
	_ domain.AnalysisStore   = (*store.AnalysisStore)(nil)
	_ domain.MessageStore    = (*store.MessageStore)(nil)
	_ domain.AnalysisCache   = (*cache.AnalysisCache)(nil)
	_ domain.OracleClient    = (*oracle.OllamaClient)(nil)
	_ domain.OracleClient    = (*oracle.MockClient)(nil)
	_ domain.EmbeddingClient = (*embedding.OllamaClient)(nil)
	_ domain.EmbeddingClient = (*embedding.MockClient)(nil)
)
