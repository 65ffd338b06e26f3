package app

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"councild/pkg/api"
	"councild/pkg/config"
	"councild/pkg/convo"
	"councild/pkg/msglog"
	"councild/pkg/seats"
	"councild/pkg/telemetry"
)

// buildHandler assembles the full HTTP handler: the /api surface plus
// the operational endpoints, wrapped in request logging/metrics, rate
// limiting and permissive CORS.
func buildHandler(cfg *config.Config, reg *seats.Registry, dir *convo.Directory, log *msglog.Log) http.Handler {
	mux := http.NewServeMux()

	a := api.New(cfg.Security.Secret, reg, dir, log)
	mux.Handle("/api/", a.Router())

	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/docs/", httpSwagger.Handler(httpSwagger.URL("/openapi.yaml")))
	mux.Handle("/openapi.yaml", http.FileServer(http.Dir("./docs")))

	limited := api.RateLimit(cfg.Security.RateLimit.RPS, cfg.Security.RateLimit.Burst)(mux)
	return telemetry.Middleware(api.CORS(limited))
}
