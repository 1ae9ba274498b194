package rest

import (
	"log/slog"
	"net/http"
	"os"
	"strings"

	"killtest/internal/cache"
	"killtest/internal/metrics"
	"killtest/internal/repository"
	"killtest/internal/service"
	"killtest/internal/transport/rest/handler"
	"killtest/internal/transport/rest/middleware"
	"killtest/internal/transport/ws"

	"github.com/gorilla/mux"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService       *service.AuthService
	AssessmentService *service.AssessmentService
	AnalyzerService   *service.AnalyzerService
	Results           repository.ResultRepo // optional
	Tally             cache.VerdictTally    // optional
	Metrics           *metrics.Metrics      // optional
	WSHub             *ws.Hub
	AllowedOrigins    []string
	Logger            *slog.Logger
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	questionHandler := handler.NewQuestionHandler()
	analyzeHandler := handler.NewAnalyzeHandler(c.AnalyzerService)
	sessionHandler := handler.NewSessionHandler(c.AssessmentService)
	importHandler := handler.NewImportHandler()
	resultHandler := handler.NewResultHandler(c.AssessmentService, c.Results, c.Tally)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.AssessmentService, c.Logger)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware(c.AllowedOrigins))
	r.Use(middleware.Instrument(c.Metrics, c.Logger))

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/questions", questionHandler.List).Methods("GET", "OPTIONS")
	v1.HandleFunc("/questions/{questionId}", questionHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/analyze", analyzeHandler.Analyze).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions", sessionHandler.Create).Methods("POST", "OPTIONS")
	v1.HandleFunc("/import/validate", importHandler.Validate).Methods("POST", "OPTIONS")
	v1.HandleFunc("/import/template", importHandler.Template).Methods("GET", "OPTIONS")
	v1.HandleFunc("/results", resultHandler.Recent).Methods("GET", "OPTIONS")
	v1.HandleFunc("/results/stats", resultHandler.Stats).Methods("GET", "OPTIONS")
	v1.HandleFunc("/results/{id}", resultHandler.Get).Methods("GET", "OPTIONS")

	// WebSocket routes (public with token in query param)
	v1.HandleFunc("/ws/sessions/{id}", wsHandler.SessionWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	r.Handle("/metrics", c.Metrics.Handler()).Methods("GET")

	// Session routes (require a token for that session)
	sessionRoutes := v1.PathPrefix("/sessions/{id}").Subrouter()
	sessionRoutes.Use(authMW.RequireSession)

	sessionRoutes.HandleFunc("", sessionHandler.Get).Methods("GET", "OPTIONS")
	sessionRoutes.HandleFunc("/start", sessionHandler.Start).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/begin", sessionHandler.Begin).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/next", sessionHandler.Next).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/prev", sessionHandler.Prev).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/answers/{questionId}", sessionHandler.SetAnswer).Methods("PUT", "OPTIONS")
	sessionRoutes.HandleFunc("/language", sessionHandler.SetLanguage).Methods("PUT", "OPTIONS")
	sessionRoutes.HandleFunc("/submit", sessionHandler.Submit).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/import", sessionHandler.Import).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/reset", sessionHandler.Reset).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/result", sessionHandler.Result).Methods("GET", "OPTIONS")
	sessionRoutes.HandleFunc("/summary", sessionHandler.Summary).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(origins []string) mux.MiddlewareFunc {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[strings.TrimSpace(o)] = true
	}
	wildcard := len(allowed) == 0 || allowed["*"]

	allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
	if allowedMethods == "" {
		allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
	}

	allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
	if allowedHeaders == "" {
		allowedHeaders = "Content-Type, Authorization, Accept-Language"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if wildcard {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			} else if origin := r.Header.Get("Origin"); allowed[origin] {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
			w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
