package web

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/vitos/crypto_backtest/internal/domain"
	"github.com/vitos/crypto_backtest/internal/usecase"
	"go.uber.org/zap"
)

// Server exposes the backtester as a JSON API. Completed runs are held in
// memory for the lifetime of the process, keyed by run id; nothing is
// persisted across restarts.
type Server struct {
	router  *http.ServeMux
	server  *http.Server
	history *usecase.HistoryService
	logger  *zap.Logger

	mu   sync.RWMutex
	runs map[uuid.UUID]*domain.BacktestResult
}

func NewServer(port int, history *usecase.HistoryService, logger *zap.Logger) *Server {
	s := &Server{
		router:  http.NewServeMux(),
		history: history,
		logger:  logger,
		runs:    make(map[uuid.UUID]*domain.BacktestResult),
	}
	s.routes()
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.router,
	}
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("POST /backtests", s.handleRunBacktest)
	s.router.HandleFunc("GET /backtests/{id}", s.handleGetBacktest)
	s.router.HandleFunc("GET /strategies", s.handleListStrategies)
	s.router.HandleFunc("GET /health", s.handleHealth)
}

func (s *Server) Start() error {
	s.logger.Info("Starting web server", zap.String("addr", s.server.Addr))
	err := s.server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) storeRun(result *domain.BacktestResult) uuid.UUID {
	id := uuid.New()
	s.mu.Lock()
	s.runs[id] = result
	s.mu.Unlock()
	return id
}

func (s *Server) getRun(id uuid.UUID) (*domain.BacktestResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.runs[id]
	return result, ok
}
