package routing

import (
	"net/http"
	"time"

	"github.com/didip/tollbooth/v6"
	"github.com/didip/tollbooth/v6/limiter"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"

	"github.com/skierstats/skier-stats/config"
	"github.com/skierstats/skier-stats/endpoints"
	"github.com/skierstats/skier-stats/endpoints/decorators"
	"github.com/skierstats/skier-stats/lookup"
	"github.com/skierstats/skier-stats/metrics"
	"github.com/skierstats/skier-stats/version"
)

// NewPublicHandler serves the statistics routes behind CORS and, when
// enabled, rate limiting.
func NewPublicHandler(cfg config.Configuration, service *lookup.Service, routes *lookup.RouteTable, appMetrics *metrics.Metrics) http.Handler {
	router := httprouter.New()
	router.HandleMethodNotAllowed = true
	router.MethodNotAllowed = http.HandlerFunc(endpoints.MethodNotAllowed)

	router.GET("/", endpoints.NewIndexHandler(cfg.Routes.IndexResponse))
	router.GET("/status", endpoints.Status)
	router.GET("/version", endpoints.NewVersionEndpoint(version.Ver, version.Rev))

	lookupHandler := decorators.MonitorHttp(endpoints.NewLookupHandler(service), appMetrics)
	for _, prefix := range routes.Prefixes() {
		router.GET(prefix+"/*path", lookupHandler)
	}

	handler := handleCors(&loggingMiddleware{handler: router})
	handler = handleRateLimiting(handler, cfg.RateLimiting)
	return handler
}

func handleCors(handler http.Handler) http.Handler {
	coresCfg := cors.New(cors.Options{AllowCredentials: true, AllowOriginFunc: func(origin string) bool {
		return true
	}})
	return coresCfg.Handler(handler)
}

func handleRateLimiting(next http.Handler, cfg config.RateLimiting) http.Handler {
	if !cfg.Enabled {
		return next
	}

	limit := tollbooth.NewLimiter(float64(cfg.MaxRequestsPerSecond), &limiter.ExpirableOptions{
		DefaultExpirationTTL: 1 * time.Hour,
	})
	limit.SetIPLookups([]string{"X-Forwarded-For", "X-Real-IP", "RemoteAddr"})
	limit.SetMessage(`{ "error": "rate limit" }`)
	limit.SetMessageContentType("application/json")

	return tollbooth.LimitHandler(limit, next)
}
