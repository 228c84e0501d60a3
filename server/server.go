// Package server exposes the content pipeline over HTTP. Handlers are
// thin adapters: validation failures map to 422, degraded runs still
// return 200 with their recorded errors, and only a failed write stage
// turns a pipeline response into a 500.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/MehanazMI/tea-stall-bench/pipeline/archive"
	contractx "github.com/MehanazMI/tea-stall-bench/pipeline/contract"
	"github.com/MehanazMI/tea-stall-bench/pipeline/director"
	logx "github.com/MehanazMI/tea-stall-bench/pkg/logger"
)

type Config struct {
	Host string `default:"0.0.0.0"`
	Port int    `default:"8000"`
}

type Server struct {
	echo      *echo.Echo
	director  *director.Director
	writer    contractx.Writer
	publisher contractx.Publisher
	runs      *archive.Store

	logger zerolog.Logger
	config Config
}

// New wires the HTTP surface. The archive store may be nil, which
// disables run persistence and the /runs endpoints.
func New(
	d *director.Director,
	writer contractx.Writer,
	publisher contractx.Publisher,
	runs *archive.Store,
	conf Config,
) (*Server, error) {
	if d == nil {
		return nil, errors.New("director is required")
	}
	if writer == nil {
		return nil, errors.New("writer is required")
	}
	if publisher == nil {
		return nil, errors.New("publisher is required")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	s := &Server{
		echo:      e,
		director:  d,
		writer:    writer,
		publisher: publisher,
		runs:      runs,
		logger:    logx.With("server"),
		config:    conf,
	}

	e.Use(s.requestLogger)
	s.registerRoutes()

	return s, nil
}

func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)

		s.logger.Info().
			Str("method", c.Request().Method).
			Str("uri", c.Request().RequestURI).
			Int("status", c.Response().Status).
			Dur("duration", time.Since(start)).
			Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
			Msg("http request")

		return err
	}
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)

	v1 := s.echo.Group("/api/v1")
	v1.POST("/pipeline", s.handlePipeline)
	v1.POST("/generate", s.handleGenerate)
	v1.POST("/publish", s.handlePublish)
	v1.POST("/generate-and-publish", s.handleGenerateAndPublish)
	v1.GET("/styles", s.handleStyles)
	v1.GET("/channels", s.handleChannels)
	v1.GET("/runs", s.handleRuns)
	v1.GET("/runs/:trace_id", s.handleRunByTraceID)
}

// Start runs the server until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info().Str("addr", addr).Msg("starting http server")
	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down http server")
	return s.echo.Shutdown(ctx)
}

// httpError maps domain errors onto HTTP status codes. Validation
// failures are the caller's fault; everything else is a server-side 500.
func httpError(err error) *echo.HTTPError {
	if errors.Is(err, contractx.ErrValidation) {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
