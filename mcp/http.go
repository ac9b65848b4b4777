package mcp

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/loopwork-ai/codesight/jsonrpc"
)

// HTTPTransport serves the same JSON-RPC request/response pairs as the
// stdio transport over a stateless HTTP endpoint: one request per POST,
// no session state between calls.
type HTTPTransport struct {
	handler jsonrpc.Handler
	router  *chi.Mux
	path    string
	token   string
	logger  *slog.Logger
}

// HTTPOption configures an HTTPTransport
type HTTPOption func(*HTTPTransport)

// WithPath sets the endpoint path (default /mcp)
func WithPath(path string) HTTPOption {
	return func(t *HTTPTransport) {
		t.path = path
	}
}

// WithBearerToken requires callers to present the given bearer token
func WithBearerToken(token string) HTTPOption {
	return func(t *HTTPTransport) {
		t.token = token
	}
}

// WithHTTPLogger sets the transport's logger
func WithHTTPLogger(logger *slog.Logger) HTTPOption {
	return func(t *HTTPTransport) {
		t.logger = logger
	}
}

// NewHTTPTransport creates an HTTP transport around the given handler.
func NewHTTPTransport(handler jsonrpc.Handler, opts ...HTTPOption) *HTTPTransport {
	t := &HTTPTransport{
		handler: handler,
		router:  chi.NewRouter(),
		path:    "/mcp",
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}

	t.router.Use(middleware.RequestID)
	t.router.Use(middleware.RealIP)
	t.router.Use(middleware.Recoverer)
	t.router.Use(middleware.Timeout(60 * time.Second))

	t.router.Get("/health", t.handleHealth)

	t.router.Route(t.path, func(r chi.Router) {
		if t.token != "" {
			r.Use(t.auth)
		}
		r.Post("/", t.handleRPC)
	})

	return t
}

// Router exposes the root HTTP handler for the transport.
func (t *HTTPTransport) Router() http.Handler { return t.router }

func (t *HTTPTransport) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+t.token {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (t *HTTPTransport) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (t *HTTPTransport) handleRPC(w http.ResponseWriter, r *http.Request) {
	var request jsonrpc.Request
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		// Parse errors are answered in-band, like the stdio transport
		t.writeResponse(w, jsonrpc.NewResponse(nil, nil, jsonrpc.NewError(jsonrpc.ErrParse, err)))
		return
	}

	response := t.handler.Handle(r.Context(), request)
	if request.IsNotification() {
		w.WriteHeader(http.StatusAccepted)
		return
	}
	t.writeResponse(w, response)
}

func (t *HTTPTransport) writeResponse(w http.ResponseWriter, response jsonrpc.Response) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		t.logger.Error("error encoding response", "error", err)
	}
}
