// ABOUTME: Gateway orchestrator that runs the HTTP API and persona watcher.
// ABOUTME: Manages server lifecycle, shutdown, and persona reload propagation.

package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/2389/chat-relay/internal/assets"
	"github.com/2389/chat-relay/internal/config"
	"github.com/2389/chat-relay/internal/persona"
	"github.com/2389/chat-relay/internal/session"
)

// chatService is the session manager surface the HTTP handlers need.
// It allows injecting a fake in tests.
type chatService interface {
	SendMessage(ctx context.Context, userID, text string) *session.Reply
	ResetThread(userID string)
	UpdatePersona(ctx context.Context)
}

// Gateway coordinates the HTTP server, chat session manager, and persona
// loader for the relay service.
type Gateway struct {
	config     *config.Config
	chat       chatService
	personas   *persona.Loader
	httpServer *http.Server
	logger     *slog.Logger
}

// New creates a gateway serving the chat API for the given session manager.
// The persona loader may be nil when hot reload is disabled.
func New(cfg *config.Config, chat chatService, personas *persona.Loader, logger *slog.Logger) *Gateway {
	g := &Gateway{
		config:   cfg,
		chat:     chat,
		personas: personas,
		logger:   logger,
	}

	g.httpServer = &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           g.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return g
}

// routes builds the HTTP mux: the JSON API under /api/ and the embedded
// web UI at the root.
func (g *Gateway) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/chat", g.handleChat)
	mux.HandleFunc("/api/thread/", g.handleResetThread)
	mux.HandleFunc("/api/health", g.handleHealth)
	mux.Handle("/", assets.FileServer())

	return corsMiddleware(mux)
}

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails. The persona watcher runs alongside and pushes instruction
// changes to the assistant.
func (g *Gateway) Run(ctx context.Context) error {
	if g.personas != nil {
		g.personas.OnReload(func() {
			g.chat.UpdatePersona(context.Background())
		})
		go g.personas.Watch(ctx)
	}

	ln, err := net.Listen("tcp", g.config.Server.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", g.config.Server.HTTPAddr, err)
	}

	g.logger.Info("HTTP server listening", "addr", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		if err := g.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var serverErr error
	select {
	case <-ctx.Done():
		g.logger.Info("shutdown signal received")
	case serverErr = <-errCh:
		g.logger.Error("HTTP server failed", "error", serverErr)
	}

	shutdownErr := g.gracefulShutdown()
	if serverErr != nil {
		return serverErr
	}
	return shutdownErr
}

// gracefulShutdown drains in-flight requests with a fresh context.
// Uses context.Background() intentionally since the run context is already
// canceled by the time we get here.
func (g *Gateway) gracefulShutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return g.Shutdown(ctx)
}

// Shutdown stops the HTTP server, waiting for in-flight requests up to the
// context deadline.
func (g *Gateway) Shutdown(ctx context.Context) error {
	g.logger.Info("shutting down gateway")
	if err := g.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down HTTP server: %w", err)
	}
	return nil
}
