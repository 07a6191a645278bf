// Package server wires the echo instance: API routes, view shells and
// request logging.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/oivmap/oivmap/internal/profile"
	"github.com/oivmap/oivmap/server/frontend"
	"github.com/oivmap/oivmap/server/internal/observability"
	apiv1 "github.com/oivmap/oivmap/server/router/api/v1"
	"github.com/oivmap/oivmap/server/service/graph"
	"github.com/oivmap/oivmap/store"
)

type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer *echo.Echo
	apiV1      *apiv1.APIV1Service
}

func NewServer(ctx context.Context, profile *profile.Profile, store *store.Store) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(requestLogger())

	loader := graph.NewLoader(profile.DatasetPath)
	// Fail fast on a malformed dataset instead of serving blank views.
	if _, err := loader.Get(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to load dataset")
	}

	s := &Server{
		Profile:    profile,
		Store:      store,
		echoServer: e,
		apiV1:      apiv1.NewAPIV1Service(profile, store, loader),
	}
	s.apiV1.RegisterRoutes(e)
	frontend.RegisterRoutes(e)

	return s, nil
}

func (s *Server) Start(context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	slog.Info("server started", slog.String("addr", addr), slog.String("mode", s.Profile.Mode))
	if err := s.echoServer.Start(addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server", slog.Any("error", err))
	}
	if err := s.Store.Close(); err != nil {
		slog.Error("failed to close store", slog.Any("error", err))
	}
	slog.Info("server stopped")
}

// Echo exposes the underlying echo instance for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echoServer
}

func requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			reqCtx := observability.NewRequestContext(slog.Default(), 0)
			req := c.Request()
			c.SetRequest(req.WithContext(observability.WithRequestContext(req.Context(), reqCtx)))

			err := next(c)

			reqCtx.Info("request",
				slog.String("method", req.Method),
				slog.String("path", req.URL.Path),
				slog.Int("status", c.Response().Status),
				slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()))
			return err
		}
	}
}
