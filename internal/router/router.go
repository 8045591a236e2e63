package router

import (
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/logger"
	"github.com/gin-contrib/pprof"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/comptaflow/console/internal/console"
)

// This is set at build time via -ldflags.
var version = "0.0.0"

// Router builds the console's HTTP engine. The returned teardown must be
// called on shutdown, it unregisters the Prometheus metrics.
func Router(registry *console.Registry) (*gin.Engine, func(), error) {
	// Set up the router and middlewares
	r := gin.New()

	// Don’t process X-Forwarded-For header as we do not do anything with
	// client IPs
	r.ForwardedByClientIP = false

	// Send a HTTP 405 (Method not allowed) for all paths where there is
	// a handler, but not for the specific method used
	r.HandleMethodNotAllowed = true

	r.Use(gin.Recovery())
	r.Use(requestid.New())
	r.Use(logger.SetLogger(
		logger.WithDefaultLevel(zerolog.InfoLevel),
		logger.WithClientErrorLevel(zerolog.InfoLevel),
		logger.WithServerErrorLevel(zerolog.ErrorLevel),
		logger.WithLogger(func(c *gin.Context, out io.Writer, latency time.Duration) zerolog.Logger {
			return log.Logger.With().
				Str("request-id", requestid.Get(c)).
				Dur("latency", latency).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Int("status", c.Writer.Status()).
				Int("size", c.Writer.Size()).
				Str("user-agent", c.Request.UserAgent()).
				Logger()
		})))

	if err := registerPrometheusMetrics(); err != nil {
		return nil, nil, err
	}
	teardown := func() {
		unregisterPrometheusMetrics()
	}
	r.Use(MetricsMiddleware())

	// CORS settings
	allowOrigins, ok := os.LookupEnv("CORS_ALLOW_ORIGINS")
	if ok {
		log.Debug().Str("allowOrigins", allowOrigins).Msg("CORS")

		r.Use(cors.New(cors.Config{
			AllowOriginFunc:  originAllowed(strings.Fields(allowOrigins)),
			AllowMethods:     []string{"OPTIONS", "GET", "POST", "PUT", "PATCH", "DELETE"},
			AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type"},
			AllowCredentials: true,
		}))
	}

	// pprof performance profiles, only in debug mode
	if gin.IsDebugging() {
		pprof.Register(r)
	}

	// Disable the gin debug route printing as it clutters logs (and test logs)
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, numHandlers int) {}

	// Don’t trust any proxy. We do not process any client IPs,
	// therefore we don’t need to trust anyone here.
	_ = r.SetTrustedProxies([]string{})

	/*
	 *  Route setup
	 */
	r.GET("", GetRoot)
	r.GET("/version", GetVersion)
	r.GET("/healthz", GetHealthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := r.Group("/auth", registry.Middleware())
	console.RegisterAuthRoutes(auth)

	pages := r.Group("/console", registry.Middleware())
	console.RegisterJournalRoutes(pages.Group("/journals"))
	console.RegisterMoveRoutes(pages.Group("/moves"))
	console.RegisterTaxRateRoutes(pages.Group("/taxes"))
	console.RegisterFiscalPositionRoutes(pages.Group("/fiscal-positions"))

	log.Info().Msg("console startup complete")

	return r, teardown, nil
}

type RootResponse struct {
	Links RootLinks `json:"links"`
}

type RootLinks struct {
	Version         string `json:"version" example:"/version"`
	Healthz         string `json:"healthz" example:"/healthz"`
	Auth            string `json:"auth" example:"/auth"`
	Journals        string `json:"journals" example:"/console/journals"`
	Moves           string `json:"moves" example:"/console/moves"`
	Taxes           string `json:"taxes" example:"/console/taxes"`
	FiscalPositions string `json:"fiscalPositions" example:"/console/fiscal-positions"`
}

// GetRoot is the entrypoint of the console API, listing all endpoints.
func GetRoot(c *gin.Context) {
	c.JSON(http.StatusOK, RootResponse{
		Links: RootLinks{
			Version:         "/version",
			Healthz:         "/healthz",
			Auth:            "/auth",
			Journals:        "/console/journals",
			Moves:           "/console/moves",
			Taxes:           "/console/taxes",
			FiscalPositions: "/console/fiscal-positions",
		},
	})
}

type VersionResponse struct {
	Data VersionObject `json:"data"`
}
type VersionObject struct {
	Version string `json:"version" example:"1.1.0"`
}

// GetVersion returns the software version of the console.
func GetVersion(c *gin.Context) {
	c.JSON(http.StatusOK, VersionResponse{
		Data: VersionObject{
			Version: version,
		},
	})
}

// GetHealthz returns an empty response when the console is able to serve
// requests.
func GetHealthz(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
