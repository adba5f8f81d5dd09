package mcp

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/raindrop-contrib/raindrop-mcp/internal/logger"
)

const maxHTTPBodySize = 1 << 20

// RunHTTP serves the streamable HTTP transport: single JSON-RPC
// requests over POST, no batching, no SSE streaming.
func (s *Server) RunHTTP(ctx context.Context) error {
	router := chi.NewRouter()
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	router.Route(s.cfg.HTTPPath, func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Use(s.requireAllowedOrigin)
		r.Post("/", s.handleHTTPPost)
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusMethodNotAllowed)
		})
		r.Delete("/", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusMethodNotAllowed)
		})
	})

	httpServer := &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	s.logger.Info("http transport listening",
		logger.String("addr", s.cfg.HTTPAddr),
		logger.String("path", s.cfg.HTTPPath))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
		<-errCh
		return nil
	case err := <-errCh:
		return err
	}
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.isHTTPAuthorized(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireAllowedOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.isOriginAllowed(r) {
			http.Error(w, "forbidden origin", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHTTPPost(w http.ResponseWriter, r *http.Request) {
	if !acceptsRPCResponse(r.Header.Get("Accept")) {
		http.Error(w, "not acceptable", http.StatusNotAcceptable)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxHTTPBodySize))
	if err != nil {
		http.Error(w, "read request body", http.StatusBadRequest)
		return
	}
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		writeHTTPRPCResponse(w, rpcResponse{JSONRPC: "2.0", Error: &rpcError{Code: -32700, Message: "parse error"}})
		return
	}
	if strings.HasPrefix(trimmed, "[") {
		writeHTTPRPCResponse(w, rpcResponse{JSONRPC: "2.0", Error: &rpcError{Code: -32600, Message: "batch requests are not supported"}})
		return
	}

	var req rpcRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeHTTPRPCResponse(w, rpcResponse{JSONRPC: "2.0", Error: &rpcError{Code: -32700, Message: "parse error"}})
		return
	}

	if req.Method == "" {
		// A client may POST back a response to a server-initiated
		// request; acknowledge and drop it.
		var raw map[string]any
		if err := json.Unmarshal(body, &raw); err == nil {
			if _, ok := raw["result"]; ok {
				w.WriteHeader(http.StatusAccepted)
				return
			}
			if _, ok := raw["error"]; ok {
				w.WriteHeader(http.StatusAccepted)
				return
			}
		}
		writeHTTPRPCResponse(w, rpcResponse{JSONRPC: "2.0", ID: req.ID, Error: &rpcError{Code: -32600, Message: "invalid request"}})
		return
	}

	if !req.hasID() {
		s.handleNotification(req)
		w.WriteHeader(http.StatusAccepted)
		return
	}

	writeHTTPRPCResponse(w, s.dispatch(r.Context(), req))
}

func writeHTTPRPCResponse(w http.ResponseWriter, resp rpcResponse) {
	w.Header().Set("Content-Type", "application/json")
	payload, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "encode response", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

func acceptsRPCResponse(accept string) bool {
	accept = strings.ToLower(strings.TrimSpace(accept))
	if accept == "" {
		return true
	}
	if strings.Contains(accept, "*/*") {
		return true
	}
	if strings.Contains(accept, "application/json") {
		return true
	}
	if strings.Contains(accept, "text/event-stream") {
		return true
	}
	return false
}

func (s *Server) isHTTPAuthorized(r *http.Request) bool {
	expected := s.cfg.HTTPAuthToken
	if expected == "" {
		return true
	}
	provided, ok := bearerToken(r.Header.Get("Authorization"))
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) == 1
}

func (s *Server) isOriginAllowed(r *http.Request) bool {
	origin := strings.TrimSpace(r.Header.Get("Origin"))
	if origin == "" {
		return true
	}
	if len(s.cfg.AllowedOrigins) == 0 {
		return false
	}
	for _, allowed := range s.cfg.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(origin, allowed) {
			return true
		}
	}
	return false
}

func bearerToken(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}
