package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/andrescamacho/voyage-estimator/internal/adapters/metrics"
	"github.com/andrescamacho/voyage-estimator/internal/adapters/persistence"
	"github.com/andrescamacho/voyage-estimator/internal/application/common"
	appEstimate "github.com/andrescamacho/voyage-estimator/internal/application/estimate"
	"github.com/andrescamacho/voyage-estimator/internal/domain/routing"
)

// Deps are the collaborators the API dispatches to. Without a Mediator and a
// Generator only /health, metrics and /getPortDistance are served.
type Deps struct {
	Mediator    common.Mediator
	Generator   *appEstimate.Generator
	Sessions    *appEstimate.SessionRegistry
	Distances   routing.DistanceClient
	SessionLogs persistence.SessionLogRepository
	Logger      common.Logger

	// EnableMetrics mounts the Prometheus registry at MetricsPath
	EnableMetrics bool
	MetricsPath   string
}

// Timeouts of the underlying http.Server
type Timeouts struct {
	Read     time.Duration
	Write    time.Duration
	Idle     time.Duration
	Shutdown time.Duration
}

// Server is the REST surface of the estimator
type Server struct {
	deps     Deps
	engine   *gin.Engine
	validate *validator.Validate
	timeouts Timeouts
	srv      *http.Server
}

// NewServer builds the router. Callers pick the gin mode beforehand.
func NewServer(deps Deps, timeouts Timeouts) *Server {
	if deps.Logger == nil {
		deps.Logger = common.LoggerFromContext(context.Background())
	}
	if deps.MetricsPath == "" {
		deps.MetricsPath = "/metrics"
	}
	if deps.Sessions == nil {
		deps.Sessions = appEstimate.NewSessionRegistry()
	}
	if timeouts.Read == 0 {
		timeouts.Read = 15 * time.Second
	}
	if timeouts.Write == 0 {
		timeouts.Write = 60 * time.Second
	}
	if timeouts.Idle == 0 {
		timeouts.Idle = 120 * time.Second
	}
	if timeouts.Shutdown == 0 {
		timeouts.Shutdown = 10 * time.Second
	}

	s := &Server{
		deps:     deps,
		validate: validator.New(),
		timeouts: timeouts,
	}
	s.engine = s.routes()
	return s
}

// Handler exposes the router, mainly for httptest
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.deps.Logger), cors())

	r.GET("/health", s.health)
	if s.deps.EnableMetrics {
		r.GET(s.deps.MetricsPath, gin.WrapH(promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})))
	}
	if s.deps.Distances != nil {
		r.POST("/getPortDistance", s.getPortDistance)
	}

	if s.deps.Mediator == nil || s.deps.Generator == nil {
		return r
	}

	api := r.Group("/api/v1")
	api.POST("/analysis", s.analyze)

	estimates := api.Group("/estimates")
	estimates.GET("", s.listEstimates)
	estimates.POST("", s.saveEstimate)
	estimates.GET("/:id", s.getEstimate)
	estimates.PUT("/:id", s.saveEstimate)
	estimates.POST("/:id/voyage", s.generateVoyage)
	estimates.GET("/:id/export", s.exportEstimate)

	sessions := api.Group("/sessions")
	sessions.POST("", s.createSession)
	sessions.GET("/:id", s.getSession)
	sessions.DELETE("/:id", s.closeSession)
	sessions.GET("/:id/logs", s.sessionLogs)
	sessions.POST("/:id/port-calls", s.addPortCall)
	sessions.DELETE("/:id/port-calls/:legId", s.removePortCall)
	sessions.PATCH("/:id/port-calls/:index", s.updateField)
	sessions.POST("/:id/port-calls/move", s.movePortCall)
	sessions.PUT("/:id/load-ports", s.setLoadPorts)
	sessions.PUT("/:id/discharge-ports", s.setDischargePorts)
	sessions.POST("/:id/routing/switch", s.switchRoutingPoint)
	sessions.POST("/:id/routing/add", s.addRoutingPoint)
	sessions.PUT("/:id/speeds", s.updateSpeeds)
	sessions.POST("/:id/resolve", s.resolveDistances)

	return r
}

func (s *Server) health(c *gin.Context) {
	success(c, gin.H{
		"status":   "ok",
		"sessions": s.deps.Sessions.Len(),
	})
}

// Start serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context, addr string) error {
	s.srv = &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  s.timeouts.Read,
		WriteTimeout: s.timeouts.Write,
		IdleTimeout:  s.timeouts.Idle,
	}

	errCh := make(chan error, 1)
	go func() {
		s.deps.Logger.Log("INFO", "http server listening", map[string]interface{}{"addr": addr})
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.timeouts.Shutdown)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	s.deps.Logger.Log("INFO", "http server stopped", nil)
	return nil
}

// bind decodes the JSON body into dst and validates it
func (s *Server) bind(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		fail(c, http.StatusBadRequest, "malformed request body", err.Error())
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		writeError(c, err)
		return false
	}
	return true
}
