package api

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"StockPulse/internal/collector"
	"StockPulse/internal/model"

	"go.uber.org/zap"
)

const maxPortfolioSymbols = 20

// Service is what the HTTP layer needs from the analyzer.
type Service interface {
	FetchSnapshot(ctx context.Context, symbol string) (*model.Snapshot, error)
	Analyze(ctx context.Context, symbol string) (*model.AnalysisResult, error)
	News(ctx context.Context, symbol string) []model.NewsItem
	Respond(ctx context.Context, message, stockContext string) string
	Portfolio(ctx context.Context, symbols []string) *model.PortfolioReport
	Trending(ctx context.Context) []*model.Snapshot
	ListReferenceSymbols() []string
}

// Server is the JSON HTTP API.
type Server struct {
	httpServer *http.Server
	svc        Service
	logger     *zap.Logger
	now        func() time.Time
}

// NewServer creates a server bound to addr.
func NewServer(addr string, svc Service, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{svc: svc, logger: logger, now: time.Now}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/stock/{symbol}", s.handleStock)
	mux.HandleFunc("GET /api/analyze/{symbol}", s.handleAnalyze)
	mux.HandleFunc("GET /api/news/{symbol}", s.handleNews)
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("POST /api/portfolio", s.handlePortfolio)
	mux.HandleFunc("GET /api/trending", s.handleTrending)
	mux.HandleFunc("GET /api/symbols", s.handleSymbols)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.withCORS(s.withLogging(mux)),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

// Start begins serving HTTP requests in the background.
func (s *Server) Start(_ context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	s.logger.Info("api server listening", zap.String("addr", s.httpServer.Addr))
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server stopped", zap.Error(err))
		}
	}()
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("http request",
			zap.String("method", r.Method), zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(start)))
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("encode response failed", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// writeFetchError reports an upstream failure. The request itself was valid,
// so the status stays 200 and the body carries the guidance text.
func (s *Server) writeFetchError(w http.ResponseWriter, err error) {
	status := http.StatusOK
	if collector.IsInvalidSymbol(err) {
		status = http.StatusBadRequest
	}
	s.writeError(w, status, collector.UserMessage(err))
}

func (s *Server) symbol(w http.ResponseWriter, r *http.Request) (string, bool) {
	sym, err := collector.NormalizeSymbol(r.PathValue("symbol"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, collector.UserMessage(err))
		return "", false
	}
	return sym, true
}

// GET /api/stock/{symbol}
func (s *Server) handleStock(w http.ResponseWriter, r *http.Request) {
	sym, ok := s.symbol(w, r)
	if !ok {
		return
	}
	snap, err := s.svc.FetchSnapshot(r.Context(), sym)
	if err != nil {
		s.writeFetchError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

// GET /api/analyze/{symbol}
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	sym, ok := s.symbol(w, r)
	if !ok {
		return
	}
	res, err := s.svc.Analyze(r.Context(), sym)
	if err != nil {
		s.writeFetchError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

// GET /api/news/{symbol}
func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	sym, ok := s.symbol(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, s.svc.News(r.Context(), sym))
}

type chatRequest struct {
	Message      string `json:"message"`
	StockContext string `json:"stock_context"`
}

type chatResponse struct {
	Response  string `json:"response"`
	Timestamp string `json:"timestamp"`
}

// POST /api/chat
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.writeError(w, http.StatusBadRequest, "Please provide a message")
		return
	}
	reply := s.svc.Respond(r.Context(), req.Message, req.StockContext)
	s.writeJSON(w, http.StatusOK, chatResponse{
		Response:  reply,
		Timestamp: s.now().Format(time.RFC3339),
	})
}

type portfolioRequest struct {
	Symbols []string `json:"symbols"`
}

// POST /api/portfolio
func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	var req portfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "No data provided")
		return
	}
	if len(req.Symbols) == 0 {
		s.writeError(w, http.StatusBadRequest, "No symbols provided")
		return
	}
	if len(req.Symbols) > maxPortfolioSymbols {
		s.writeError(w, http.StatusBadRequest, "Too many symbols, at most 20 per portfolio")
		return
	}
	symbols := make([]string, 0, len(req.Symbols))
	for _, raw := range req.Symbols {
		sym, err := collector.NormalizeSymbol(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, collector.UserMessage(err)+": "+raw)
			return
		}
		symbols = append(symbols, sym)
	}
	s.writeJSON(w, http.StatusOK, s.svc.Portfolio(r.Context(), symbols))
}

// GET /api/trending
func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.svc.Trending(r.Context()))
}

// GET /api/symbols
func (s *Server) handleSymbols(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string][]string{"symbols": s.svc.ListReferenceSymbols()})
}

// GET /healthz
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
