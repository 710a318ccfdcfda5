package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/jadwal-sholat/internal/api"
	"github.com/smokyabdulrahman/jadwal-sholat/internal/cache"
	"github.com/smokyabdulrahman/jadwal-sholat/internal/logging"
	"github.com/smokyabdulrahman/jadwal-sholat/internal/server"
)

var (
	flagEnvFile string
	flagAddr    string
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the prayer-times HTTP server",
		Long: "Serve GET /api/prayer-times (a cached proxy to the Al Adhan API),\n" +
			"GET /api/prayer-times/estimate and GET /api/healthz.\n\n" +
			"Settings come from the environment, optionally seeded from a .env file:\n" +
			"SERVER_ADDRESS, REDIS_ADDRESS, REDIS_USERNAME, REDIS_PASSWORD, UPSTREAM_URL, GIN_MODE, LOG_LEVEL.",
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	cmd.Flags().StringVar(&flagEnvFile, "env-file", ".env", "Environment file to load if present")
	cmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (overrides SERVER_ADDRESS)")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(flagEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", flagEnvFile, err)
	}
	env := server.LoadEnvironment()
	if flagAddr != "" {
		env.ServerAddress = flagAddr
	}
	gin.SetMode(env.GinMode)

	raw := os.Getenv("LOG_LEVEL")
	if flagWasSet(cmd.Flags(), cmd.Root().PersistentFlags(), "log-level") {
		raw = FlagLogLevel
	} else if raw == "" && loadedConfig != nil {
		raw = loadedConfig.LogLevel
	}
	level, err := logging.ParseLevel(raw, zerolog.InfoLevel)
	if err != nil {
		return err
	}
	logger := logging.New(os.Stderr, level, false)

	upstream := api.NewClient()
	if env.UpstreamURL != "" {
		upstream.BaseURL = env.UpstreamURL
	}

	var store cache.Store
	if env.RedisAddress != "" {
		rs := cache.NewRedisStore(cache.NewRedisClient(env.RedisAddress, env.RedisUsername, env.RedisPassword), cache.DefaultRedisTTL)
		if err := rs.Ping(cmd.Context()); err != nil {
			logger.Warn().Err(err).Str("addr", env.RedisAddress).Msg("redis unreachable at startup")
		}
		store = rs
	}

	ctx, stop := signal.NotifyContext(logger.WithContext(cmd.Context()), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(upstream, store, logger)
	if err := srv.Run(ctx, env.ServerAddress); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
