package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"MarketPredictor/internal/coordinator"
	"MarketPredictor/internal/recorder"
)

// Server exposes the dashboard API over HTTP.
type Server struct {
	echo  *echo.Echo
	coord *coordinator.Coordinator
	rec   recorder.Recorder
	addr  string
}

// NewServer wires the API routes onto a fresh echo instance.
func NewServer(coord *coordinator.Coordinator, rec recorder.Recorder, addr string) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{echo: e, coord: coord, rec: rec, addr: addr}

	e.GET("/healthz", s.health)
	g := e.Group("/api")
	g.GET("/status", s.status)
	g.GET("/progress", s.progress)
	g.GET("/predictions", s.predictions)
	g.GET("/predictions/recent", s.recentPredictions)
	g.POST("/run", s.triggerRun)

	return s
}

// Start begins serving in a background goroutine.
func (s *Server) Start() {
	go func() {
		log.Printf("[INFO] API server listening on %s", s.addr)
		if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[ERROR] API server: %v", err)
		}
	}()
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Echo returns the underlying echo instance, used by tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) status(c echo.Context) error {
	return c.JSON(http.StatusOK, s.coord.Status())
}

func (s *Server) progress(c echo.Context) error {
	return c.JSON(http.StatusOK, s.coord.Progress())
}

func (s *Server) predictions(c echo.Context) error {
	res := s.coord.LastResult()
	if res == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "no data yet"})
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) recentPredictions(c echo.Context) error {
	hours := 24
	if raw := c.QueryParam("hours"); raw != "" {
		h, err := strconv.Atoi(raw)
		if err != nil || h <= 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "hours must be a positive integer"})
		}
		hours = h
	}

	rows, err := s.rec.RecentPredictions(hours)
	if err != nil {
		log.Printf("[ERROR] query recent predictions: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "history query failed"})
	}
	return c.JSON(http.StatusOK, map[string]any{"hours": hours, "predictions": rows})
}

func (s *Server) triggerRun(c echo.Context) error {
	if err := s.coord.RunAsync(context.Background()); err != nil {
		if errors.Is(err, coordinator.ErrRunInFlight) {
			return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusAccepted, map[string]string{"status": "run started"})
}
