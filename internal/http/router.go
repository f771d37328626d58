// Package httpapi assembles the HTTP surface: middleware chain, wizard
// and back-office routes, health and metrics endpoints.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	onbhandler "relomate/internal/onboarding/handler"
	pricinghandler "relomate/internal/pricing/handler"
	"relomate/pkg/platform/httputil"
	adminmw "relomate/pkg/platform/middleware/admin"
	authmw "relomate/pkg/platform/middleware/auth"
	"relomate/pkg/platform/middleware/metadata"
)

// HealthCheck reports whether one backing dependency is reachable.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Deps carries everything the router needs. All handler fields are
// required; health checks are optional.
type Deps struct {
	Logger          *slog.Logger
	TokenValidator  authmw.TokenValidator
	AdminTokenHash  string
	Onboarding      *onbhandler.Handler
	OnboardingAdmin *onbhandler.AdminHandler
	Pricing         *pricinghandler.Handler
	HealthChecks    []HealthCheck
}

// NewRouter wires the full route tree.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(metadata.Middleware)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", healthHandler(deps.HealthChecks))
	r.Handle("/metrics", promhttp.Handler())

	// Wizard routes: authenticated portal users.
	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireUser(deps.TokenValidator, deps.Logger))
		deps.Onboarding.Register(r)
		deps.Pricing.Register(r)
	})

	// Back-office routes.
	r.Route("/admin", func(r chi.Router) {
		r.Use(adminmw.RequireAdminToken(deps.AdminTokenHash, deps.Logger))
		deps.OnboardingAdmin.Register(r)
		deps.Pricing.RegisterAdmin(r)
	})

	return r
}

func healthHandler(checks []HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		status := http.StatusOK
		body := map[string]string{"status": "ok"}
		for _, hc := range checks {
			if err := hc.Check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
				body[hc.Name] = err.Error()
			} else {
				body[hc.Name] = "ok"
			}
		}
		httputil.WriteJSON(w, status, body)
	}
}
