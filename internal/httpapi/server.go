package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/tanpawarit/chative-shop-assistant/agent/catalog"
	contractx "github.com/tanpawarit/chative-shop-assistant/agent/contract"
	metricsx "github.com/tanpawarit/chative-shop-assistant/pkg/metrics"
)

// Assistant is the query service behind the HTTP surface.
type Assistant interface {
	Handle(ctx context.Context, req contractx.QueryRequest) (contractx.QueryResult, error)
	History(ctx context.Context, sessionID string, limit int) ([]contractx.Turn, error)
	ClearHistory(ctx context.Context, sessionID string) error
	Catalog(ctx context.Context) contractx.Catalog
}

type Server struct {
	cfg       Config
	assistant Assistant
	metrics   *metricsx.Metrics
	upgrader  websocket.Upgrader
}

func New(cfg Config, assistant Assistant, metrics *metricsx.Metrics) *Server {
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 10
	}
	s := &Server{
		cfg:       cfg,
		assistant: assistant,
		metrics:   metrics,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(withCORS(s.cfg.AllowedOrigins))
	r.Use(s.countRequests)

	r.Get("/health", s.handleHealth)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}

	r.Post("/query", s.handleQuery)
	r.Get("/ws", s.handleWS)

	r.Route("/conversation/{session_id}", func(r chi.Router) {
		r.Get("/", s.handleGetConversation)
		r.Delete("/", s.handleDeleteConversation)
	})

	r.Route("/items", func(r chi.Router) {
		r.Get("/", s.handleListItems)
		r.Post("/search", s.handleSearchItems)
		r.Get("/{item_id}", s.handleGetItem)
	})

	return r
}

// ListenAndServe blocks until ctx is cancelled, then drains in-flight
// requests for up to ShutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Router(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.cfg.Addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	log.Info().Msg("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, healthResponse{
		Status:  "healthy",
		Message: "Items Sales AI Agent is running",
	})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req contractx.QueryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	res, err := s.assistant.Handle(r.Context(), req)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (s *Server) handleGetConversation(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")
	turns, err := s.assistant.History(r.Context(), sessionID, s.cfg.HistoryLimit)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	if turns == nil {
		turns = []contractx.Turn{}
	}
	respondJSON(w, http.StatusOK, conversationResponse{SessionID: sessionID, History: turns})
}

func (s *Server) handleDeleteConversation(w http.ResponseWriter, r *http.Request) {
	if err := s.assistant.ClearHistory(r.Context(), chi.URLParam(r, "session_id")); err != nil {
		s.respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	items := s.assistant.Catalog(r.Context()).All()
	if items == nil {
		items = []contractx.Item{}
	}
	respondJSON(w, http.StatusOK, itemsResponse{Items: items})
}

func (s *Server) handleSearchItems(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	opts := contractx.SearchOptions{
		Query:    strings.TrimSpace(req.SearchQuery),
		MinPrice: req.MinPrice,
		MaxPrice: req.MaxPrice,
	}
	if raw := strings.TrimSpace(req.SortBy); raw != "" {
		field, ok := catalog.ParseSortField(raw)
		if !ok {
			respondError(w, http.StatusBadRequest, "invalid_sort_by", fmt.Sprintf("unsupported sort_by %q", raw))
			return
		}
		opts.SortBy = field
	}

	items := s.assistant.Catalog(r.Context()).Search(opts)
	if items == nil {
		items = []contractx.Item{}
	}
	respondJSON(w, http.StatusOK, searchResponse{Items: items, Count: len(items)})
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "item_id")
	item, ok := s.assistant.Catalog(r.Context()).GetByID(itemID)
	if !ok {
		respondJSON(w, http.StatusNotFound, map[string]string{
			"error": fmt.Sprintf("Item with ID %s not found", itemID),
		})
		return
	}
	respondJSON(w, http.StatusOK, itemResponse{Item: item})
}

func (s *Server) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, contractx.ErrValidation):
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, contractx.ErrSessionStore):
		log.Error().Err(err).Msg("session store failure")
		respondError(w, http.StatusInternalServerError, "session_store_unavailable", "conversation history is unavailable")
	default:
		log.Error().Err(err).Msg("query failed")
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) countRequests(next http.Handler) http.Handler {
	if s.metrics == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.metrics.HTTPRequests.WithLabelValues(route, fmt.Sprint(status)).Inc()
	})
}

const maxBodyBytes = 1 << 20

var errEmptyBody = errors.New("empty body")

func decodeJSON(r *http.Request, out any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	defer r.Body.Close()
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(out); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "eof") {
			return errEmptyBody
		}
		return err
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}

func decodeFrame(data []byte, out any) error {
	if len(strings.TrimSpace(string(data))) == 0 {
		return errEmptyBody
	}
	return json.Unmarshal(data, out)
}
