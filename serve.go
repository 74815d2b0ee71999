package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/mcp-training/giftrun/api"
	"github.com/wricardo/mcp-training/giftrun/game/service"
	"github.com/wricardo/mcp-training/giftrun/transport/mcp"
	"github.com/wricardo/mcp-training/giftrun/transport/websocket"
)

const shutdownTimeout = 10 * time.Second

func serveFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{Name: "ngrok", Usage: "expose the server through an ngrok tunnel"},
		&cli.StringFlag{Name: "ngrok-auth", Usage: "ngrok auth token (or NGROK_AUTHTOKEN)"},
		&cli.StringFlag{Name: "ngrok-domain", Usage: "custom ngrok domain (or NGROK_DOMAIN)"},
	}
}

// newHandler builds the API router with the hub and the /mcp endpoint mounted
func newHandler(game service.GameService, hub *websocket.Hub, baseURL string, logger *log.Logger) http.Handler {
	mcpClient := mcp.NewClient(baseURL)
	return api.NewServer(game, hub,
		api.WithLogger(logger),
		api.WithMCP(mcpClient.HTTPHandler()),
	)
}

// runServe starts the HTTP server and, when enabled, an ngrok tunnel.
func runServe(ctx context.Context, cmd *cli.Command) error {
	settings, err := settingsFor(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, settings.Debug)
	logger.Info("starting", "app", AppName, "version", Version, "addr", settings.Addr)

	svc, err := initializeServices(settings, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	hub := websocket.NewHub(logger.WithPrefix("ws"))
	go hub.Run(ctx)
	go svc.sessions.RunSweeper(ctx, settings.SessionTTL, settings.SweepInterval, logger)

	handler := newHandler(svc.game, hub, "http://"+settings.Addr, logger)
	httpServer := &http.Server{
		Addr:         settings.Addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	errs := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("HTTP server listening",
			"api", "http://"+settings.Addr+"/api",
			"ws", "ws://"+settings.Addr+"/ws?session=<id>",
			"mcp", "http://"+settings.Addr+"/mcp",
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	if settings.NgrokEnabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			serveNgrok(ctx, settings, handler, logger.WithPrefix("ngrok"))
		}()
	}

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err = <-errs:
		logger.Error("server stopped", "err", err)
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if serr := httpServer.Shutdown(shutdownCtx); serr != nil {
		logger.Warn("HTTP server shutdown error", "err", serr)
	}

	wg.Wait()
	logger.Info("server stopped")
	return err
}

// serveNgrok serves handler through an ngrok tunnel until ctx is cancelled
func serveNgrok(ctx context.Context, settings Settings, handler http.Handler, logger *log.Logger) {
	if settings.NgrokAuthtoken == "" {
		logger.Warn("ngrok enabled but no auth token provided (use --ngrok-auth or NGROK_AUTHTOKEN)")
		return
	}

	var tunnel ngrokConfig.Tunnel
	if settings.NgrokDomain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(settings.NgrokDomain))
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(settings.NgrokAuthtoken))
	if err != nil {
		logger.Error("failed to start tunnel", "err", err)
		return
	}
	logger.Info("tunnel established", "url", tun.URL())

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			logger.Warn("failed to close tunnel", "err", err)
		}
	}()

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		logger.Error("tunnel server error", "err", err)
	}
	logger.Info("tunnel closed")
}

// apiAvailable reports whether a Gift Run server answers at baseURL
func apiAvailable(ctx context.Context, baseURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/healthz", nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// runMCP serves MCP over stdio. It reuses a server already listening on the
// configured address, otherwise it starts an internal one on a loopback port.
func runMCP(ctx context.Context, cmd *cli.Command) error {
	settings, err := settingsFor(cmd)
	if err != nil {
		return err
	}
	// stdout carries the MCP stream
	logger := newLogger(os.Stderr, settings.Debug)

	baseURL := "http://" + settings.Addr
	if apiAvailable(ctx, baseURL) {
		logger.Info("using external API server", "url", baseURL)
	} else {
		svc, err := initializeServices(settings, logger)
		if err != nil {
			return err
		}
		defer svc.Close()

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}
		baseURL = "http://" + listener.Addr().String()

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		hub := websocket.NewHub(logger.WithPrefix("ws"))
		go hub.Run(ctx)
		go svc.sessions.RunSweeper(ctx, settings.SessionTTL, settings.SweepInterval, logger)

		internal := &http.Server{Handler: newHandler(svc.game, hub, baseURL, logger)}
		go func() {
			if err := internal.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("internal HTTP server error", "err", err)
			}
		}()
		defer internal.Close()

		logger.Info("started internal API server", "url", baseURL)
	}

	return server.ServeStdio(mcp.NewClient(baseURL).GetMCPServer())
}
