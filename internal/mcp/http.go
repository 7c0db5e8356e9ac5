package mcp

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewRouter mounts the MCP streamable HTTP handler on a chi router with a
// health endpoint. The SDK handler runs in stateless mode; session
// continuity is handled by the Mcp-Session-Id header middleware so multiple
// clients can talk to the same server process.
func NewRouter(s *Server) http.Handler {
	streamHandler := mcp.NewStreamableHTTPHandler(
		func(r *http.Request) *mcp.Server {
			return s.server
		},
		&mcp.StreamableHTTPOptions{
			Stateless: true,
		},
	)

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(sessionHeader)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/mcp", streamHandler)

	return r
}

// sessionHeader ensures every request carries an Mcp-Session-Id and echoes
// it back so the client can reuse it on subsequent requests.
func sessionHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.Header.Get("Mcp-Session-Id")
		if sessionID == "" {
			sessionID = uuid.New().String()
			r.Header.Set("Mcp-Session-Id", sessionID)
		}
		w.Header().Set("Mcp-Session-Id", sessionID)
		next.ServeHTTP(w, r)
	})
}
