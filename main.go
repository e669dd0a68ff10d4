package main

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/smazurov/movcat/cmd"
	"github.com/smazurov/movcat/internal/api"
	"github.com/smazurov/movcat/internal/config"
	"github.com/smazurov/movcat/internal/events"
	"github.com/smazurov/movcat/internal/logging"
	"github.com/smazurov/movcat/internal/metrics"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"config.toml"`

	// Server settings
	Port string `help:"Port to listen on" short:"p" default:":8090" toml:"server.port" env:"SERVER_PORT"`

	// Auth settings
	AuthUsername string `help:"Basic auth username" default:"admin" toml:"auth.username" env:"AUTH_USERNAME"`
	AuthPassword string `help:"Basic auth password" default:"password" toml:"auth.password" env:"AUTH_PASSWORD"`

	// FFmpeg settings
	FfmpegPath      string `help:"Path to the ffmpeg binary" default:"" toml:"ffmpeg.path" env:"FFMPEG_PATH"`
	FfmpegExtraArgs string `help:"Extra ffmpeg arguments, comma separated" default:"" toml:"ffmpeg.extra_args" env:"FFMPEG_EXTRA_ARGS"`

	// Logging settings
	LoggingLevel   string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat  string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingAPI     string `help:"API logging level" default:"info" toml:"logging.api" env:"LOGGING_API"`
	LoggingHTTP    string `help:"HTTP request logging level" default:"info" toml:"logging.http" env:"LOGGING_HTTP"`
	LoggingFfmpeg  string `help:"FFmpeg output logging level" default:"info" toml:"logging.ffmpeg" env:"LOGGING_FFMPEG"`
	LoggingUpdater string `help:"Updater logging level" default:"info" toml:"logging.updater" env:"LOGGING_UPDATER"`
}

func main() {
	var cli humacli.CLI
	cli = humacli.New(func(hooks humacli.Hooks, opts *Options) {
		// Load configuration automatically
		if loadErr := config.Load(opts, cli.Root()); loadErr != nil {
			slog.Warn("Failed to load config", "error", loadErr)
		}

		// Initialize logging system
		logging.Initialize(logging.Config{
			Level:  opts.LoggingLevel,
			Format: opts.LoggingFormat,
			Modules: map[string]string{
				"api":     opts.LoggingAPI,
				"http":    opts.LoggingHTTP,
				"ffmpeg":  opts.LoggingFfmpeg,
				"updater": opts.LoggingUpdater,
			},
		})

		logger := logging.GetLogger("main")

		// Create event bus and wire metrics to it
		eventBus := events.New()
		unwireMetrics := metrics.WireBus(eventBus)

		server := api.NewServer(&api.Options{
			AuthUsername:      opts.AuthUsername,
			AuthPassword:      opts.AuthPassword,
			FfmpegPath:        opts.FfmpegPath,
			FfmpegExtraArgs:   splitArgs(opts.FfmpegExtraArgs),
			EventBus:          eventBus,
			PrometheusHandler: promhttp.Handler(),
		})

		// Reload logging levels when the config file changes
		watcher := config.NewWatcher(
			opts.Config,
			func(path string) (logging.Config, error) {
				return config.LoadLoggingConfig(path), nil
			},
			logger,
		)
		watcher.OnReload(func(cfg logging.Config) {
			logger.Info("Config changed, reloading logging levels")
			logging.Reconfigure(cfg)
		})

		hooks.OnStart(func() {
			if startErr := watcher.Start(); startErr != nil {
				logger.Warn("Failed to start config watcher, hot-reload disabled", "error", startErr)
			}

			logger.Info("Starting HTTP server", "port", opts.Port)
			if startErr := server.Start(opts.Port); startErr != nil && !errors.Is(startErr, http.ErrServerClosed) {
				logger.Error("Failed to start HTTP server", "error", startErr)
			}
		})

		hooks.OnStop(func() {
			logger.Info("Shutting down server")
			if stopErr := server.Stop(); stopErr != nil {
				logger.Error("Error stopping HTTP server", "error", stopErr)
			}
			if stopErr := watcher.Stop(); stopErr != nil {
				logger.Error("Error stopping config watcher", "error", stopErr)
			}
			unwireMetrics()
		})
	})

	cli.Root().Use = "movcat"
	cli.Root().AddCommand(cmd.CreateInspectCmd())
	cli.Root().AddCommand(cmd.CreateJoinCmd())
	cli.Root().AddCommand(cmd.CreateUpdateCmd())

	cli.Run()
}

// splitArgs turns a comma separated flag value into an argument list.
func splitArgs(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
