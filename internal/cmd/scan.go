package cmd

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/veraxsec/mailguard/pkg/logging"
	"github.com/veraxsec/mailguard/pkg/mask"
	"github.com/veraxsec/mailguard/pkg/report"
	"github.com/veraxsec/mailguard/pkg/risk"
	"github.com/veraxsec/mailguard/pkg/scan"
)

var (
	configPath  string
	attachments []string
	verbose     bool
	showMasked  bool
	pdfPath     string
)

func NewScanCmd() *cobra.Command {
	scanCmd := &cobra.Command{
		Use:   "scan [file]",
		Short: "Scan an email text (file or stdin) for sensitive data",
		Args:  cobra.MaximumNArgs(1),
		Run:   Scan,
	}

	scanCmd.Flags().StringVarP(&configPath, "config", "c", "", "Configuration file path")
	scanCmd.Flags().StringArrayVarP(&attachments, "attachment", "a", nil, "Attachment file to scan alongside the text (repeatable)")
	scanCmd.Flags().BoolVar(&showMasked, "masked", false, "Print the anonymized text after scanning")
	scanCmd.Flags().StringVar(&pdfPath, "pdf", "", "Write a PDF report to the given path")
	scanCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")

	return scanCmd
}

func Scan(cmd *cobra.Command, args []string) {
	logging.SetLogLevel(verbose)

	body := readBody(args)

	loaded := make([]scan.Attachment, 0, len(attachments))
	for _, path := range attachments {
		content, err := os.ReadFile(path)
		if err != nil {
			log.Fatal().Err(err).Str("file", path).Msg("Cannot read attachment")
		}
		loaded = append(loaded, scan.Attachment{Filename: path, Content: content})
	}

	pipeline := buildPipeline(configPath)
	text := scan.Flatten(body, loaded)

	result := pipeline.Analyze(context.Background(), text)
	for _, entity := range scan.Dedup(result.Entities) {
		event := logging.Finding().
			Str("label", entity.Label).
			Str("severity", string(entity.Severity)).
			Str("value", entity.Text).
			Str("source", entity.Source)
		if entity.Reason != "" {
			event = event.Str("reason", entity.Reason)
		}
		event.Msg("FINDING")
	}

	log.Info().Int("count", result.Count).Str("riskLevel", result.RiskLevel).Str("summary", result.RiskSummary).Msg("Analysis complete")

	if showMasked {
		_, _ = os.Stdout.WriteString(mask.Mask(text, result.Entities) + "\n")
	}

	if pdfPath != "" {
		pdf, err := report.Generate(text, result.Entities)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed rendering PDF report")
		}
		if err := os.WriteFile(pdfPath, pdf, 0o600); err != nil {
			log.Fatal().Err(err).Str("path", pdfPath).Msg("Failed writing PDF report")
		}
		log.Info().Str("path", pdfPath).Msg("PDF report written")
	}

	if result.RiskLevel == risk.VerdictCritical {
		os.Exit(2)
	}
}

func readBody(args []string) string {
	if len(args) == 1 {
		content, err := os.ReadFile(args[0])
		if err != nil {
			log.Fatal().Err(err).Str("file", args[0]).Msg("Cannot read input file")
		}
		return string(content)
	}

	content, err := io.ReadAll(os.Stdin)
	if err != nil {
		log.Fatal().Err(err).Msg("Cannot read stdin")
	}
	return string(content)
}
