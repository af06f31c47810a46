package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/biowatch/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

// Paths served by RunHTTP.
const (
	EndpointPath = "/mcp"
	HealthPath   = "/healthz"
)

// shutdownTimeout bounds how long RunHTTP waits for open requests on exit.
const shutdownTimeout = 5 * time.Second

const instructions = `biowatch keeps a chunked corpus of watched documents.
Use "retrieve" to find relevant chunks, "stats" to see what is tracked,
and the biowatch://changes resources or "change_history" to see what changed.`

// Server exposes the corpus and change feed over MCP.
type Server struct {
	ports  *Ports
	server *mcp.Server
}

// NewServer registers every tool and resource the ports can back.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{
		ports: ports,
		server: mcp.NewServer(
			&mcp.Implementation{Name: "biowatch", Version: Version},
			&mcp.ServerOptions{Instructions: instructions},
		),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Run serves over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	logger.Debug("MCP server running on stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves the streamable HTTP transport on addr until ctx is cancelled.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(sctx); err != nil {
			logger.Warn("MCP server shutdown: %v", err)
		}
	}()

	logger.Info("MCP server listening on %s", addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Handler returns the HTTP routes: the MCP endpoint and a health check.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(EndpointPath, mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil))
	mux.HandleFunc(HealthPath, s.handleHealth)
	return mux
}

type healthResponse struct {
	Status string `json:"status"`
	State  string `json:"state,omitempty"`
	Cycles int    `json:"cycles"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := healthResponse{Status: "ok"}
	if s.ports.Watcher != nil {
		st := s.ports.Watcher.Status()
		resp.State = string(st.State)
		resp.Cycles = st.Cycles
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
