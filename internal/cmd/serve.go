package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/veraxsec/mailguard/pkg/ai"
	"github.com/veraxsec/mailguard/pkg/config"
	"github.com/veraxsec/mailguard/pkg/detect"
	"github.com/veraxsec/mailguard/pkg/detect/recognizer"
	"github.com/veraxsec/mailguard/pkg/detect/rules"
	"github.com/veraxsec/mailguard/pkg/detect/secrets"
	"github.com/veraxsec/mailguard/pkg/logging"
	"github.com/veraxsec/mailguard/pkg/scan"
	"github.com/veraxsec/mailguard/pkg/server"
)

var listenOverride string

func NewServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the mailguard HTTP API",
		Run:   Serve,
	}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "", "Configuration file path")
	serveCmd.Flags().StringVarP(&listenOverride, "listen", "l", "", "Listen address override")
	serveCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")

	return serveCmd
}

func Serve(cmd *cobra.Command, args []string) {
	logging.SetLogLevel(verbose)

	// JSON logs in serve mode, the console writer is for interactive runs.
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	if listenOverride != "" {
		cfg.Listen = listenOverride
	}

	srv := server.New(cfg, buildPipelineFromConfig(cfg))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go logging.ShortcutListener()

	if err := srv.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

// buildPipeline loads configuration and assembles the analysis pipeline for
// CLI use.
func buildPipeline(path string) *scan.Pipeline {
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	return buildPipelineFromConfig(cfg)
}

func buildPipelineFromConfig(cfg config.Config) *scan.Pipeline {
	var opts []detect.Option

	if cfg.Rules.PackURL != "" && cfg.Rules.PackPath != "" {
		if err := rules.DownloadPack(cfg.Rules.PackURL, cfg.Rules.PackPath); err != nil {
			log.Fatal().Err(err).Str("url", cfg.Rules.PackURL).Msg("Failed downloading rule pack")
		}
	}
	if cfg.Rules.PackPath != "" {
		extra, err := rules.LoadPack(cfg.Rules.PackPath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed loading rule pack")
		}
		opts = append(opts, detect.WithRules(extra))
	}

	if cfg.NER.SidecarURL != "" {
		opts = append(opts, detect.WithRecognizer(recognizer.NewSidecar(cfg.NER.SidecarURL, cfg.NER.Timeout.Duration())))
	}

	if cfg.Secrets.Enabled {
		opts = append(opts, detect.WithSecretScanner(secrets.NewEngine(cfg.Secrets.Verify)))
	}

	var analyzer scan.AIAnalyzer
	if cfg.AI.Enabled {
		analyzer = ai.NewClient(ai.Config{
			BaseURL: cfg.AI.BaseURL,
			APIKey:  cfg.AI.APIKey,
			Model:   cfg.AI.Model,
			Timeout: cfg.AI.Timeout.Duration(),
		})
		log.Debug().Str("baseUrl", cfg.AI.BaseURL).Str("model", cfg.AI.Model).Dur("timeout", cfg.AI.Timeout.Duration()).Msg("AI analysis enabled")
	}

	return scan.NewPipeline(detect.New(opts...), analyzer)
}
