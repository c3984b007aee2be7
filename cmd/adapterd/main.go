package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"adapterd/internal/config"
	"adapterd/internal/httpapi"
	"adapterd/internal/manager"
	"adapterd/internal/registry"
	"adapterd/internal/runtime"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "adapterd",
		Short: "adapterd serves a base language model with switchable task adapters",
	}
	root.AddCommand(newServeCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}
}

func newServeCmd() *cobra.Command {
	var (
		cfgPath     string
		addr        string
		adaptersDir string
		baseModel   string
		logLevel    string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the inference router",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cfgPath)
			if err != nil {
				return err
			}
			// Flags win over file; env fills remaining gaps.
			if addr != "" {
				cfg.Addr = addr
			} else if v := os.Getenv("ADAPTERD_ADDR"); v != "" && cfg.Addr == "" {
				cfg.Addr = v
			}
			if adaptersDir != "" {
				cfg.AdaptersDir = adaptersDir
			}
			if baseModel != "" {
				cfg.BaseModelPath = baseModel
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			return serve(cfg.Normalized())
		},
	}
	cmd.Flags().StringVar(&cfgPath, "config", "", "config file (.yaml/.json/.toml)")
	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address, e.g. :8080")
	cmd.Flags().StringVar(&adaptersDir, "adapters-dir", "", "directory with adapter subdirectories")
	cmd.Flags().StringVar(&baseModel, "base-model", "", "path to the base model weights")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "zerolog level (debug, info, warn, error)")
	return cmd
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Config{}, nil
	}
	return config.Load(path)
}

func serve(cfg config.Config) error {
	logger := newLogger(cfg.LogLevel)

	reg, err := registry.Discover(cfg.AdaptersDir, logger)
	if err != nil {
		logger.Error().Err(err).Msg("adapter discovery failed")
		return manager.ErrConfiguration(err.Error())
	}
	if reg.Empty() {
		logger.Warn().Msg("no adapters discovered; serving base-model modes only")
	}

	rt, err := runtime.NewLlama(cfg.BaseModelPath, cfg.LlamaCtx, cfg.LlamaThreads)
	if err != nil {
		logger.Error().Err(err).Msg("base model load failed")
		return manager.ErrConfiguration(err.Error())
	}

	mgr := manager.NewWithConfig(manager.ManagerConfig{
		Runtime:       rt,
		Registry:      reg,
		MaxQueueDepth: cfg.MaxQueueDepth,
		MaxWait:       cfg.GateWait(),
		GenTimeout:    cfg.GenTimeout(),
		Params: runtime.Params{
			MaxNewTokens: cfg.MaxNewTokens,
			Temperature:  cfg.Temperature,
			TopP:         cfg.TopP,
		},
		Logger: logger,
	})
	defer mgr.Close()

	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpapi.SetBaseContext(baseCtx)
	httpapi.SetLogger(logger)
	httpapi.SetCORSOptions(cfg.CORSEnabled, cfg.CORSOrigins)

	srv := &http.Server{Addr: cfg.Addr, Handler: httpapi.NewMux(mgr)}
	go func() {
		logger.Info().Str("addr", cfg.Addr).Str("adapters_dir", cfg.AdaptersDir).Msg("adapterd listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	cancelBase()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown error")
	}
	return nil
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}
