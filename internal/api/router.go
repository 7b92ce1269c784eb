package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/pulse/backend/internal/api/handlers"
	"github.com/wonny/pulse/backend/pkg/logger"
)

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(
	breadthHandler *handlers.BreadthHandler,
	dataHandler *handlers.DataHandler,
	historyHandler *handlers.HistoryHandler,
	universeHandler *handlers.UniverseHandler,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// API v1
	api := r.PathPrefix("/api").Subrouter()

	// Breadth endpoints
	api.HandleFunc("/breadth/{universe}", breadthHandler.GetBreadth).Methods("GET")

	// Hard data endpoints
	api.HandleFunc("/data/build", dataHandler.Build).Methods("POST")
	api.HandleFunc("/data/status", dataHandler.GetStatus).Methods("GET")

	// History endpoints
	api.HandleFunc("/history/{universe}", historyHandler.GetSeries).Methods("GET")
	api.HandleFunc("/history/{universe}/latest", historyHandler.GetLatest).Methods("GET")

	// Universe endpoints
	api.HandleFunc("/universes", universeHandler.List).Methods("GET")
	api.HandleFunc("/universes/{name}", universeHandler.Get).Methods("GET")
	api.HandleFunc("/universes/{name}/refresh", universeHandler.Refresh).Methods("POST")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "pulse-api",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Call next handler
			next.ServeHTTP(w, r)

			// Log request
			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
