package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	delivery "authform/internal/delivery/http"
)

// formCounter reports how many forms are open
type formCounter interface {
	Len() int
}

// newOpsRouter serves operational endpoints on the ops port
func newOpsRouter(health delivery.HealthChecker, forms formCounter) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(10 * time.Second))

	r.Get("/health", handleHealth(health))
	r.Get("/forms", handleForms(forms))

	return r
}

func handleHealth(health delivery.HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status, code := "healthy", http.StatusOK
		if health != nil {
			if err := health(ctx); err != nil {
				status, code = "unhealthy", http.StatusServiceUnavailable
			}
		}

		writeJSON(w, code, map[string]string{
			"status":    status,
			"service":   "authform-ops",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func handleForms(forms formCounter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]int{"open_forms": forms.Len()})
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
