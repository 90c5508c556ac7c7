package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ArpithaPrakash/mission-ready-in-20/pkg/draw"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const version = "0.1.0"

var (
	// Global flags
	verbose    bool
	configPath string

	// Per-command flags
	dataPath     string
	templatePath string
	outputPath   string
	pdfPath      string

	logger *zap.Logger
	cfg    *draw.Config
)

var rootCmd = &cobra.Command{
	Use:   "mr20",
	Short: "mission-ready-in-20 - DD Form 2977 assembly engine",
	Long: `mr20 fills DD Form 2977 (Deliberate Risk Assessment Worksheet)
templates from a JSON record.

The fill command populates the fillable PDF's XFA datasets packet; the
draft command populates the DOCX draft's grid table and can hand the
result to LibreOffice for final PDF conversion.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = draw.ConfigFromEnvironment()
		if configPath != "" {
			if err := cfg.LoadConfigFile(configPath); err != nil {
				return err
			}
		}
		if verbose {
			cfg.LogLevel = "debug"
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		zc := zap.NewProductionConfig()
		level, err := zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("failed to parse log level: %w", err)
		}
		zc.Level = zap.NewAtomicLevelAt(level)
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var fillCmd = &cobra.Command{
	Use:   "fill",
	Short: "Fill the fillable PDF template's XFA datasets packet",
	RunE: func(cmd *cobra.Command, args []string) error {
		rec, err := loadRecordArg()
		if err != nil {
			return err
		}

		opts := draw.FillOptions{TemplatePath: templatePath, OutputPath: outputPath}
		if err := draw.FillXFA(rec, opts, logger); err != nil {
			return err
		}
		logger.Info("form assembled", zap.String("output", outputPath))
		return nil
	},
}

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Fill the DOCX draft template, optionally converting to PDF",
	RunE: func(cmd *cobra.Command, args []string) error {
		rec, err := loadRecordArg()
		if err != nil {
			return err
		}

		opts := draw.FillOptions{TemplatePath: templatePath, OutputPath: outputPath}
		if err := draw.FillDraft(rec, opts, logger); err != nil {
			return err
		}
		logger.Info("draft assembled", zap.String("output", outputPath))

		if pdfPath == "" {
			return nil
		}

		conv, err := draw.NewConverter(cfg, logger)
		if err != nil {
			return degradeConversion(err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ConvertTimeout)
		defer cancel()
		if err := conv.ConvertToPDF(ctx, outputPath, pdfPath); err != nil {
			return degradeConversion(err)
		}
		logger.Info("draft converted", zap.String("output", pdfPath))
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("mr20 version %s\n", version)
	},
}

// loadRecordArg reads the JSON record named by --data; "-" means stdin.
func loadRecordArg() (*draw.Record, error) {
	if dataPath == "-" {
		return draw.DecodeRecord(os.Stdin)
	}
	return draw.LoadRecord(dataPath)
}

// degradeConversion downgrades a converter failure to a warning. The
// filled DOCX already exists, so the run still produced a usable result.
func degradeConversion(err error) error {
	if draw.IsConversionError(err) {
		logger.Warn("PDF conversion failed, keeping the DOCX result",
			zap.Error(err))
		return nil
	}
	return err
}

func addFillFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&dataPath, "data", "d", "", "JSON record to fill from, or - for stdin (required)")
	cmd.Flags().StringVarP(&templatePath, "template", "t", "", "Template asset to fill (required)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output path (required)")
	cmd.MarkFlagRequired("data")
	cmd.MarkFlagRequired("template")
	cmd.MarkFlagRequired("output")
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (or set MR20_* env)")

	addFillFlags(fillCmd)
	addFillFlags(draftCmd)
	draftCmd.Flags().StringVar(&pdfPath, "pdf", "", "Also convert the filled draft to a PDF at this path")

	rootCmd.AddCommand(fillCmd)
	rootCmd.AddCommand(draftCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
