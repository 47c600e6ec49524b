package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/audioscribe/audioscribe/api"
	"github.com/audioscribe/audioscribe/config"
	"github.com/audioscribe/audioscribe/jobs"
	"github.com/audioscribe/audioscribe/logger"
	"github.com/audioscribe/audioscribe/media"
	"github.com/audioscribe/audioscribe/pipeline"
	"github.com/audioscribe/audioscribe/server"
	"github.com/audioscribe/audioscribe/transcription"
	"github.com/audioscribe/audioscribe/transcription/openai"
	"github.com/audioscribe/audioscribe/util"
)

const serviceName = "audioscribe"

// appConfig is the full service configuration, loaded from config.yml, .env,
// and the process environment.
type appConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server        server.Config       `yaml:"server" mapstructure:"server"`
	Pipeline      pipeline.Config     `yaml:"pipeline" mapstructure:"pipeline"`
	Media         media.Config        `yaml:"media" mapstructure:"media"`
	Transcription transcriptionConfig `yaml:"transcription" mapstructure:"transcription"`
	API           api.Config          `yaml:"api" mapstructure:"api"`
}

type transcriptionConfig struct {
	// Provider selects the transcription backend by registry name.
	Provider string        `yaml:"provider" mapstructure:"provider"`
	OpenAI   openai.Config `yaml:"openai" mapstructure:"openai"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

func run() error {
	var cfg appConfig
	if err := config.LoadConfig(serviceName, &cfg); err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.ApplyDefaults()
	cfg.Server.ApplyDefaults()
	if cfg.Transcription.Provider == "" {
		cfg.Transcription.Provider = openai.ProviderName
	}
	if cfg.Transcription.OpenAI.APIKey == "" {
		cfg.Transcription.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.Server.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger.Init(cfg.Logging)
	log := logger.GetGlobalLogger()
	log.Info("Starting service", map[string]interface{}{
		"service":     cfg.Name,
		"version":     cfg.Version,
		"environment": cfg.Environment,
	})

	engine, err := media.NewEngine(cfg.Media, log)
	if err != nil {
		return fmt.Errorf("media engine: %w", err)
	}

	openaiProvider, err := openai.New(cfg.Transcription.OpenAI)
	if err != nil {
		return fmt.Errorf("openai provider: %w", err)
	}
	providers := transcription.NewRegistry()
	providers.Register(openaiProvider)

	provider, err := providers.Get(cfg.Transcription.Provider)
	if err != nil {
		return fmt.Errorf("select provider: %w", err)
	}
	if provider.Available() {
		log.Info("Transcription provider ready", map[string]interface{}{
			"provider": provider.Name(),
			"api_key":  util.MaskSecret(cfg.Transcription.OpenAI.APIKey, 5),
		})
	} else {
		log.Warn("Transcription provider is not configured; jobs will fail until a key is set", map[string]interface{}{
			"provider": provider.Name(),
		})
	}

	store := jobs.NewStore()
	tasks := jobs.NewRegistry()
	runner, err := pipeline.NewRunner(cfg.Pipeline, engine, provider, store, tasks, log)
	if err != nil {
		return fmt.Errorf("pipeline runner: %w", err)
	}

	srv := server.New(cfg.Server, log)
	srv.ApplyMiddleware()
	srv.RegisterDefaultEndpoints(cfg.Name, func(ctx context.Context) map[string]any {
		return map[string]any{
			"provider":           provider.Name(),
			"provider_available": provider.Available(),
			"running_jobs":       len(tasks.Running()),
		}
	})

	handlers := api.NewHandlers(cfg.API, runner, log)
	handlers.Register(srv.GinEngine())

	ctx := context.Background()
	if err := srv.Start(ctx); err != nil {
		return err
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("Shutdown signal received", map[string]interface{}{
		"signal": sig.String(),
	})

	// In-flight jobs are fire-and-forget; only the HTTP listener is drained.
	return srv.Stop(ctx)
}
