package httpserver

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tinytelemetry/retrylist/internal/model"
	"github.com/tinytelemetry/retrylist/internal/status"
	"go.uber.org/zap"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 500
)

// StateReader exposes the latest screen snapshot.
type StateReader interface {
	Snapshot() status.Snapshot
}

// Triggerer injects gestures into the running screen.
type Triggerer interface {
	ManualRetry()
	PullToRefresh()
}

// Deps groups what the API reads from and writes to.
type Deps struct {
	State     StateReader
	Items     model.ItemsReader
	History   model.AttemptReader
	Triggerer Triggerer
	Metrics   http.Handler
	Logger    *zap.Logger
}

// Server is the optional control API.
type Server struct {
	addr      string
	deps      Deps
	logger    *zap.Logger
	server    *http.Server
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
}

// NewServer creates an API server bound to addr once started.
func NewServer(addr string, deps Deps) *Server {
	if addr == "" {
		addr = "127.0.0.1:3000"
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:   addr,
		deps:   deps,
		logger: logger.Named("api"),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Handler builds the gin engine with every route registered.
func (s *Server) Handler() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/state", s.handleState)
	api.GET("/items", s.handleItems)
	api.GET("/history", s.handleHistory)
	api.GET("/history/summary", s.handleSummary)
	api.POST("/retry", s.handleRetry)
	api.POST("/refresh", s.handleRefresh)

	if s.deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(s.deps.Metrics))
	}
	return r
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)

	s.server = &http.Server{
		Handler:           s.Handler(),
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.addr = listener.Addr().String()
	s.startTime = time.Now()

	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.logger.Error("api server stopped", zap.Error(err))
		}
	}()
	s.logger.Info("api listening", zap.String("addr", s.addr))
	return nil
}

// Addr returns the bound address, useful when started on port 0.
func (s *Server) Addr() string {
	return s.addr
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(s.startTime).String(),
	})
}

func (s *Server) handleState(c *gin.Context) {
	if s.deps.State == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "state not available"})
		return
	}
	c.JSON(http.StatusOK, s.deps.State.Snapshot())
}

func (s *Server) handleItems(c *gin.Context) {
	if s.deps.Items == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "items not available"})
		return
	}
	items := s.deps.Items.CurrentItems()
	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

type attemptJSON struct {
	ID         string    `json:"id"`
	Seq        uint64    `json:"seq"`
	Trigger    string    `json:"trigger"`
	Initial    bool      `json:"initial"`
	Outcome    string    `json:"outcome"`
	ItemCount  int       `json:"item_count"`
	Message    string    `json:"message,omitempty"`
	Superseded bool      `json:"superseded"`
	StartedAt  time.Time `json:"started_at"`
	DurationMS int64     `json:"duration_ms"`
}

func (s *Server) handleHistory(c *gin.Context) {
	if s.deps.History == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history not available"})
		return
	}

	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	attempts, err := s.deps.History.RecentAttempts(limit)
	if err != nil {
		s.logger.Warn("history query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read history"})
		return
	}

	out := make([]attemptJSON, 0, len(attempts))
	for _, a := range attempts {
		out = append(out, attemptJSON{
			ID:         a.ID.String(),
			Seq:        a.Seq,
			Trigger:    a.Trigger.String(),
			Initial:    a.Initial,
			Outcome:    a.Outcome.String(),
			ItemCount:  a.ItemCount,
			Message:    a.Message,
			Superseded: a.Superseded,
			StartedAt:  a.StartedAt,
			DurationMS: a.Duration().Milliseconds(),
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"attempts": out,
		"count":    len(out),
	})
}

func (s *Server) handleSummary(c *gin.Context) {
	if s.deps.History == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history not available"})
		return
	}
	sum, err := s.deps.History.OutcomeSummary()
	if err != nil {
		s.logger.Warn("summary query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read summary"})
		return
	}
	c.JSON(http.StatusOK, sum)
}

func (s *Server) handleRetry(c *gin.Context) {
	s.trigger(c, model.ManualRetry)
}

func (s *Server) handleRefresh(c *gin.Context) {
	s.trigger(c, model.PullToRefresh)
}

func (s *Server) trigger(c *gin.Context, kind model.TriggerKind) {
	if s.deps.Triggerer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "screen not running"})
		return
	}
	switch kind {
	case model.PullToRefresh:
		s.deps.Triggerer.PullToRefresh()
	default:
		s.deps.Triggerer.ManualRetry()
	}
	s.logger.Debug("trigger injected", zap.Stringer("trigger", kind))
	c.JSON(http.StatusAccepted, gin.H{"accepted": kind.String()})
}
