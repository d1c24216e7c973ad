// Package server exposes a running simulation over HTTP. A single driver
// goroutine ticks the simulation; handlers read and mutate it under the same
// lock, so the simulation itself stays single-threaded.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/ChicagoDave/episim/pkg/disease"
	"github.com/ChicagoDave/episim/pkg/plot"
	"github.com/ChicagoDave/episim/pkg/scene"
	"github.com/ChicagoDave/episim/pkg/sim"
)

// maxStep caps the frames a single step request may advance.
const maxStep = 60 * 60 * 24

// Server serves one simulation.
type Server struct {
	mu        sync.Mutex
	sim       *sim.Simulation
	frameTime float64
	port      int
	logger    *log.Logger
}

// New creates a server for run, advancing it by frameTime seconds per tick.
func New(run *sim.Simulation, frameTime float64, port int, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if frameTime <= 0 {
		frameTime = 1 / disease.FrameRate
	}
	return &Server{
		sim:       run,
		frameTime: frameTime,
		port:      port,
		logger:    logger,
	}
}

// Router returns the HTTP routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/", s.handleIndex)
	api := r.Group("/api")
	api.GET("/snapshot", s.handleSnapshot)
	api.GET("/counts", s.handleCounts)
	api.GET("/metrics", s.handleMetrics)
	api.GET("/chart.png", s.handleChart)
	api.GET("/validation", s.handleValidation)
	api.GET("/parameters", s.handleGetParameters)
	api.PUT("/parameters", s.handlePutParameters)
	api.PUT("/hour-length", s.handleHourLength)
	api.POST("/step", s.handleStep)
	return r
}

// Drive ticks the simulation once per frame until ctx is done.
func (s *Server) Drive(ctx context.Context) {
	ticker := time.NewTicker(time.Duration(s.frameTime * float64(time.Second)))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			s.sim.Tick(s.frameTime)
			s.mu.Unlock()
		}
	}
}

// Start runs the driver and the HTTP server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: s.Router(),
	}

	go s.Drive(ctx)
	go func() {
		<-ctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("episim server starting", "addr", "http://localhost"+srv.Addr, "run", s.sim.RunID.String())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(`<!DOCTYPE html>
<html><head><title>episim</title></head>
<body style="margin:0;background:#111;color:#fff;font-family:system-ui;display:flex;align-items:center;justify-content:center;height:100vh">
<div style="text-align:center">
<h1>episim</h1>
<p><img src="/api/chart.png" alt="population chart"></p>
<p>JSON: <a href="/api/snapshot">snapshot</a> · <a href="/api/counts">counts</a> · <a href="/api/metrics">metrics</a></p>
</div>
</body></html>`))
}

func (s *Server) handleSnapshot(c *gin.Context) {
	s.mu.Lock()
	snap := scene.Assemble(s.sim)
	s.mu.Unlock()
	c.JSON(http.StatusOK, snap)
}

func (s *Server) handleCounts(c *gin.Context) {
	s.mu.Lock()
	st := s.sim.Status()
	s.mu.Unlock()
	c.JSON(http.StatusOK, st)
}

func (s *Server) handleMetrics(c *gin.Context) {
	s.mu.Lock()
	w := s.sim.Window()
	m := scene.Metrics{Width: w.Width(), Full: w.Full(), Columns: w.Columns(), Labels: w.Labels()}
	s.mu.Unlock()
	c.JSON(http.StatusOK, m)
}

func (s *Server) handleChart(c *gin.Context) {
	s.mu.Lock()
	data := plot.FromWindow(s.sim.Window())
	s.mu.Unlock()

	var buf bytes.Buffer
	if err := plot.RenderPNG(&buf, data, plot.DefaultOptions()); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, plot.ErrNotEnoughData) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func (s *Server) handleValidation(c *gin.Context) {
	s.mu.Lock()
	snap := scene.Assemble(s.sim)
	s.mu.Unlock()
	c.JSON(http.StatusOK, scene.ValidateSnapshot(snap))
}

func (s *Server) handleGetParameters(c *gin.Context) {
	s.mu.Lock()
	p := s.sim.Parameters()
	s.mu.Unlock()
	c.JSON(http.StatusOK, p)
}

func (s *Server) handlePutParameters(c *gin.Context) {
	var p disease.Parameters
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	err := s.sim.ApplyParameters(p)
	s.mu.Unlock()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}

type hourLengthRequest struct {
	Seconds float64 `json:"seconds"`
}

func (s *Server) handleHourLength(c *gin.Context) {
	var req hourLengthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	err := s.sim.SetHourLength(req.Seconds)
	s.mu.Unlock()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, req)
}

// handleStep advances the simulation by ?frames=n ticks (default 1).
func (s *Server) handleStep(c *gin.Context) {
	n, err := strconv.Atoi(c.DefaultQuery("frames", "1"))
	if err != nil || n < 1 || n > maxStep {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("frames must be an integer in 1..%d", maxStep)})
		return
	}

	s.mu.Lock()
	for i := 0; i < n; i++ {
		s.sim.Tick(s.frameTime)
	}
	st := s.sim.Status()
	s.mu.Unlock()
	c.JSON(http.StatusOK, st)
}
