// Command minesweeper starts the Minesweeper board server.
//
// It supports four commands:
//  1. "server" (default) – runs the HTTP server exposing the REST API, WebSocket
//     viewers, Prometheus metrics and an /mcp HTTP endpoint
//  2. "stdio-mcp" – runs an MCP stdio server and spins up an internal HTTP API
//     if none is available
//  3. "autoplay" – plays games against a running server until one is won
//  4. "validate" – checks the preset files in the config directory
//
// Flags control host/port, config directory, logging, session expiry and
// optional ngrok tunneling for easy external access during development.
// Every flag can also be set through the environment or a .env file.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/mcp-training/minesweeper/api"
	"github.com/wricardo/mcp-training/minesweeper/autoplay"
	"github.com/wricardo/mcp-training/minesweeper/game/config"
	"github.com/wricardo/mcp-training/minesweeper/game/service"
	"github.com/wricardo/mcp-training/minesweeper/game/session"
	"github.com/wricardo/mcp-training/minesweeper/metrics"
	"github.com/wricardo/mcp-training/minesweeper/transport/mcp"
	"github.com/wricardo/mcp-training/minesweeper/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Minesweeper Server"
)

// Defaults shared by the flags and the tests
const (
	defaultPort            = 8080
	defaultHost            = "localhost"
	defaultConfigDir       = "configs"
	defaultSessionTTL      = 24 * time.Hour
	defaultCleanupInterval = time.Hour
)

// services bundles everything a transport needs
type services struct {
	game    service.GameService
	hub     *websocket.Hub
	metrics *metrics.Recorder
	logger  *logrus.Logger
}

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logrus.WithError(err).Warn("error loading .env file")
	}

	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		logrus.WithError(err).Fatal("minesweeper exited")
	}
}

// newCommand builds the command line
func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "minesweeper",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Value:   defaultPort,
				Usage:   "HTTP server port",
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "host",
				Value:   defaultHost,
				Usage:   "HTTP server host",
				Sources: cli.EnvVars("HOST"),
			},
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   defaultConfigDir,
				Usage:   "Directory containing board presets",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Enable debug logging",
				Sources: cli.EnvVars("DEBUG"),
			},
			&cli.BoolFlag{
				Name:    "log-json",
				Usage:   "Log in JSON format",
				Sources: cli.EnvVars("LOG_JSON"),
			},
			&cli.DurationFlag{
				Name:    "session-ttl",
				Value:   defaultSessionTTL,
				Usage:   "Remove sessions idle for longer than this",
				Sources: cli.EnvVars("SESSION_TTL"),
			},
			&cli.DurationFlag{
				Name:    "cleanup-interval",
				Value:   defaultCleanupInterval,
				Usage:   "How often idle sessions are looked for",
				Sources: cli.EnvVars("CLEANUP_INTERVAL"),
			},
			&cli.BoolFlag{
				Name:    "ngrok",
				Usage:   "Enable ngrok tunnel",
				Sources: cli.EnvVars("NGROK_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "ngrok-auth",
				Usage:   "Ngrok auth token",
				Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
			},
			&cli.StringFlag{
				Name:    "ngrok-domain",
				Usage:   "Custom ngrok domain (optional)",
				Sources: cli.EnvVars("NGROK_DOMAIN"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			configureLogger(logrus.StandardLogger(), cmd.Bool("debug"), cmd.Bool("log-json"))
			return ctx, nil
		},
		Action: runServer,
		Commands: []*cli.Command{
			{
				Name:    "server",
				Aliases: []string{"http"},
				Usage:   "Run HTTP server with API, WebSocket, metrics and MCP endpoint",
				Action:  runServer,
			},
			{
				Name:    "stdio-mcp",
				Aliases: []string{"mcp-stdio", "mcp"},
				Usage:   "Run MCP stdio server with internal HTTP server",
				Action:  runStdioMCP,
			},
			{
				Name:  "autoplay",
				Usage: "Play games against a running server until one is won",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "Game server URL"},
					&cli.StringFlag{Name: "preset", Usage: "Preset for the new session (server default if empty)"},
					&cli.StringFlag{Name: "session", Usage: "Resume playing an existing session by ID"},
					&cli.IntFlag{Name: "max-attempts", Value: 100, Usage: "Games to try before giving up"},
					&cli.IntFlag{Name: "max-moves", Value: 0, Usage: "Moves per game (0 = no limit)"},
					&cli.DurationFlag{Name: "delay", Usage: "Delay between moves"},
					&cli.IntFlag{Name: "seed", Usage: "Seed for guesses (0 = random)"},
				},
				Action: runAutoplay,
			},
			{
				Name:  "validate",
				Usage: "Validate the preset files in the config directory",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return validatePresets(cmd.Root().Writer, cmd.String("config-dir"))
				},
			},
		},
	}
}

// configureLogger applies the level and formatter flags
func configureLogger(logger *logrus.Logger, debug, jsonFormat bool) {
	if debug {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	if jsonFormat {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

// initializeServices wires the preset and session managers, the WebSocket hub,
// metrics and the game service.
func initializeServices(configDir string, logger *logrus.Logger) (*services, error) {
	configManager, err := config.NewManager(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	hub := websocket.NewHubWithLogger(logger.WithField("component", "websocket"))
	recorder := metrics.New()

	sessionManager := session.NewManagerWithLogger(logger.WithField("component", "session"))
	gameService := service.NewGameService(sessionManager, configManager,
		service.WithBroadcaster(hub),
		service.WithRecorder(recorder),
		service.WithLogger(logger.WithField("component", "service")),
	)

	return &services{
		game:    gameService,
		hub:     hub,
		metrics: recorder,
		logger:  logger,
	}, nil
}

// newHandler combines the REST API and the /mcp endpoint
func newHandler(svc *services, mcpClient *mcp.Client) http.Handler {
	apiServer := api.NewServer(svc.game, svc.hub,
		api.WithMetrics(svc.metrics.Handler()),
		api.WithLogger(svc.logger.WithField("component", "api")),
	)
	if mcpClient != nil {
		apiServer.Router().Handle("/mcp", mcpClient.HTTPHandler())
	}
	return apiServer
}

// runServer starts the HTTP server with REST API, WebSocket hub, metrics and
// an /mcp endpoint. If ngrok is enabled it also provisions a public tunnel.
func runServer(ctx context.Context, cmd *cli.Command) error {
	logger := logrus.StandardLogger()
	logger.WithField("version", Version).Infof("starting %s", AppName)

	svc, err := initializeServices(cmd.String("config-dir"), logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go svc.hub.Run(ctx)
	go service.RunJanitor(ctx, svc.game, cmd.Duration("cleanup-interval"), cmd.Duration("session-ttl"),
		logger.WithField("component", "janitor"))

	addr := net.JoinHostPort(cmd.String("host"), fmt.Sprint(cmd.Int("port")))
	handler := newHandler(svc, mcp.NewClient("http://"+addr))

	httpServer := &http.Server{
		Addr:        addr,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// WebSocket viewers hold the connection open; the pumps set their own deadlines
		IdleTimeout: 60 * time.Second,
	}

	var wg sync.WaitGroup
	serverErr := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		logger.WithFields(logrus.Fields{
			"rest":      fmt.Sprintf("http://%s/api", addr),
			"websocket": fmt.Sprintf("ws://%s/ws?session=<session_id>", addr),
			"mcp":       fmt.Sprintf("http://%s/mcp", addr),
			"metrics":   fmt.Sprintf("http://%s/metrics", addr),
		}).Infof("HTTP server listening on %s", addr)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
			stop()
		}
	}()

	if cmd.Bool("ngrok") {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrok(ctx, cmd, handler, logger)
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("HTTP server shutdown error")
	}

	wg.Wait()
	logger.Info("server stopped")

	select {
	case err := <-serverErr:
		return fmt.Errorf("HTTP server failed: %w", err)
	default:
		return nil
	}
}

// runNgrok serves handler through an ngrok tunnel until ctx is done
func runNgrok(ctx context.Context, cmd *cli.Command, handler http.Handler, logger *logrus.Logger) {
	authToken := cmd.String("ngrok-auth")
	if authToken == "" {
		logger.Warn("ngrok enabled but no auth token provided (use --ngrok-auth or NGROK_AUTHTOKEN)")
		return
	}

	var tunnel ngrokConfig.Tunnel
	if domain := cmd.String("ngrok-domain"); domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		logger.WithField("domain", domain).Info("using custom ngrok domain")
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		logger.WithError(err).Error("failed to start ngrok tunnel")
		return
	}

	ngrokURL := tun.URL()
	logger.WithFields(logrus.Fields{
		"rest":      ngrokURL + "/api",
		"websocket": ngrokURL + "/ws?session=<session_id>",
		"mcp":       ngrokURL + "/mcp",
	}).Infof("ngrok tunnel established: %s", ngrokURL)

	tunnelServer := &http.Server{Handler: handler}
	go func() {
		<-ctx.Done()
		tunnelServer.Close()
	}()

	if err := tunnelServer.Serve(tun); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("ngrok server error")
	}
	logger.Info("ngrok tunnel closed")
}

// runStdioMCP runs an MCP stdio server. It reuses an API already listening on
// host:port; otherwise it starts an internal HTTP API on a random loopback
// port and targets that.
func runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	logger := logrus.StandardLogger()

	externalURL := "http://" + net.JoinHostPort(cmd.String("host"), fmt.Sprint(cmd.Int("port")))
	baseURL, err := findExternalAPI(externalURL, logger)
	if err != nil {
		svc, err := initializeServices(cmd.String("config-dir"), logger)
		if err != nil {
			return err
		}

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		go svc.hub.Run(ctx)
		go service.RunJanitor(ctx, svc.game, cmd.Duration("cleanup-interval"), cmd.Duration("session-ttl"), logger)

		internal := &http.Server{Handler: newHandler(svc, nil)}
		go func() {
			if err := internal.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.WithError(err).Error("internal HTTP server error")
			}
		}()
		defer internal.Close()

		baseURL = "http://" + listener.Addr().String()
		logger.WithField("addr", listener.Addr().String()).Info("started internal HTTP server for MCP stdio")
	}

	mcpClient := mcp.NewClient(baseURL)
	logger.WithField("api", baseURL).Info("MCP stdio server ready")

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

// findExternalAPI returns baseURL if a Minesweeper API answers there
func findExternalAPI(baseURL string, logger logrus.FieldLogger) (string, error) {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/healthz")
	if err != nil {
		logger.WithField("url", baseURL).Debug("no external API server found")
		return "", err
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("external API answered %d", resp.StatusCode)
	}
	logger.WithField("url", baseURL).Info("external API server found, using it for MCP")
	return baseURL, nil
}

// runAutoplay plays against the server at --url and fails if no game is won
func runAutoplay(ctx context.Context, cmd *cli.Command) error {
	logger := logrus.StandardLogger()

	seed := uint64(cmd.Int("seed"))
	if seed == 0 {
		seed = rand.Uint64()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.WithField("url", cmd.String("url")).Info("connecting to game server")
	player := autoplay.NewPlayer(autoplay.NewClient(cmd.String("url")), autoplay.Options{
		Preset:      cmd.String("preset"),
		SessionID:   cmd.String("session"),
		MaxAttempts: int(cmd.Int("max-attempts")),
		MaxMoves:    int(cmd.Int("max-moves")),
		Seed:        seed,
		Delay:       cmd.Duration("delay"),
	}, logger)

	result, err := player.Play(ctx)
	if err != nil {
		return err
	}

	fields := logrus.Fields{
		"session":  result.SessionID,
		"attempts": result.Attempts,
		"moves":    result.Moves,
		"guesses":  result.Guesses,
		"seed":     seed,
	}
	if !result.Won {
		logger.WithFields(fields).Warn("no game won")
		return fmt.Errorf("failed to win after %d attempts", result.Attempts)
	}
	logger.WithFields(fields).Info("game won")
	return nil
}

// validatePresets prints a report for every preset and fails if any is invalid
func validatePresets(w io.Writer, configDir string) error {
	results, err := config.ValidateDir(configDir)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return fmt.Errorf("no presets found in %s", configDir)
	}

	allValid := true
	for _, result := range results {
		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, note := range result.Notes {
				fmt.Fprintln(w, "  "+note)
			}
			continue
		}

		allValid = false
		fmt.Fprintln(w, "❌ INVALID")
		for _, e := range result.Errors {
			fmt.Fprintln(w, "  ❌ "+e)
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if !allValid {
		fmt.Fprintln(w, "❌ Some configurations have errors")
		return errors.New("invalid presets found")
	}
	fmt.Fprintln(w, "✅ All configurations are valid!")
	return nil
}
