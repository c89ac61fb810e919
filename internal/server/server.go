// Package server exposes a remote.Backend over HTTP so other glowup instances can sync
// through it, and pushes a change feed to websocket subscribers.
package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"

	"github.com/julianstephens/glowup/internal/constants"
	"github.com/julianstephens/glowup/internal/logger"
	"github.com/julianstephens/glowup/internal/remote"
)

type EventType string

const (
	EventHello EventType = "hello"
	EventSaved EventType = "saved"
)

// Event is pushed to every subscriber
type Event struct {
	Type      EventType `json:"type"`
	Key       string    `json:"key,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Config struct {
	Addr string
	// Token, when set, is required as a bearer token (or ?token= on the subscribe route)
	Token string
	Debug bool
}

type Server struct {
	backend remote.Backend
	cfg     Config
	router  *gin.Engine

	clients   map[*websocket.Conn]struct{}
	clientsMu sync.RWMutex
	broadcast chan Event

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(backend remote.Backend, cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = constants.DefaultServerAddr
	}
	if !cfg.Debug && gin.Mode() == gin.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		backend:   backend,
		cfg:       cfg,
		clients:   make(map[*websocket.Conn]struct{}),
		broadcast: make(chan Event, 100),
		ctx:       ctx,
		cancel:    cancel,
	}
	s.router = s.routes()

	s.wg.Add(1)
	go s.broadcastLoop()
	return s
}

func (s *Server) routes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	api := router.Group("/api/v1")
	api.GET("/ping", s.handlePing)
	api.GET("/subscribe", s.authorize(true), s.handleSubscribe)

	authed := api.Group("", s.authorize(false))
	{
		authed.POST("/save", s.handleSave)
		authed.GET("/load", s.handleLoad)
	}
	return router
}

// Handler returns the router, for tests and embedding
func (s *Server) Handler() http.Handler { return s.router }

// Run serves on the configured address until ctx is done, then shuts down.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	httpServer := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("sync server listening", "addr", ln.Addr().String())
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.Close()
		return err
	case <-ctx.Done():
	}

	s.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	return nil
}

// Close disconnects subscribers and stops the broadcast loop
func (s *Server) Close() {
	s.cancel()
	s.clientsMu.Lock()
	for conn := range s.clients {
		_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
		delete(s.clients, conn)
	}
	s.clientsMu.Unlock()
	s.wg.Wait()
}

// ClientCount returns the number of connected subscribers
func (s *Server) ClientCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func (s *Server) authorize(allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.cfg.Token == "" {
			c.Next()
			return
		}
		got := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if got == "" && allowQuery {
			got = c.Query("token")
		}
		if subtle.ConstantTimeCompare([]byte(got), []byte(s.cfg.Token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

func (s *Server) handlePing(c *gin.Context) {
	if err := s.backend.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "clients": s.ClientCount()})
}

func (s *Server) handleSave(c *gin.Context) {
	var req remote.SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request data", "details": err.Error()})
		return
	}
	if req.Key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "key is required"})
		return
	}
	if !json.Valid([]byte(req.Value)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "value must be a JSON document"})
		return
	}

	if err := s.backend.Save(c.Request.Context(), req.Key, req.Value); err != nil {
		logger.Error("failed to save", "key", req.Key, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save", "details": err.Error()})
		return
	}
	s.Broadcast(Event{Type: EventSaved, Key: req.Key, UpdatedAt: time.Now().UTC()})
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) handleLoad(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "key is required"})
		return
	}
	rec, err := s.backend.Load(c.Request.Context(), key)
	if errors.Is(err, remote.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if err != nil {
		logger.Error("failed to load", "key", key, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rec)
}
