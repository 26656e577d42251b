package cmd

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Version information - set via ldflags during build
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "mailguard",
	Short: "Scan outgoing emails and attachments for sensitive data before sending",
	Long:  "Mailguard analyzes outgoing email text and attached documents for credentials, financial identifiers and personal information, and reports a risk verdict with optional masking and PDF export.",
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate(`{{.Version}}
`)
	rootCmd.AddCommand(NewScanCmd())
	rootCmd.AddCommand(NewServeCmd())

	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}
