package main

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/rohankatakam/codeinsight/internal/config"
	"github.com/rohankatakam/codeinsight/internal/errors"
	"github.com/rohankatakam/codeinsight/internal/logging"
	"github.com/rohankatakam/codeinsight/internal/output"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"

	cfgFile      string
	verbose      bool
	formatFlag   string
	outputFormat output.Format
	logger       *logrus.Logger
	cfg          *config.Config
)

func main() {
	err := rootCmd.Execute()
	logging.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var e *errors.Error
		if verbose && stderrors.As(err, &e) {
			fmt.Fprint(os.Stderr, e.DetailedString())
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "codeinsight",
	Short: "CodeInsight - heuristic structure and pattern analysis for source code",
	Long: `CodeInsight scans source text for declarations, task launches and
concurrency idioms, derives design patterns and complexity, and compares
analyses across languages, locally or against a peer CodeInsight service.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logrus.New()
		logger.SetOutput(os.Stderr)
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		} else {
			logger.SetLevel(logrus.InfoLevel)
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			logger.WithError(err).Warn("Failed to load config, using defaults")
			cfg = config.Default()
		}

		outputFormat, err = output.ParseFormat(formatFlag)
		if err != nil {
			return err
		}

		return initLogging(cmd)
	},
}

// initLogging sets up the structured logger the internal packages use. Only
// serve logs at the configured level; one-shot commands keep stderr quiet
// unless --verbose is set.
func initLogging(cmd *cobra.Command) error {
	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}
	if cmd.Name() != "serve" && level < logging.WARN {
		level = logging.WARN
	}
	if verbose {
		level = logging.DEBUG
	}

	return logging.Initialize(logging.Config{
		Level:      level,
		OutputFile: cfg.Logging.File,
		JSONFormat: cfg.Logging.JSON,
		Output:     os.Stderr,
	})
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .codeinsight/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "auto", "output format: auto, text, json or yaml")

	rootCmd.SetVersionTemplate(`CodeInsight {{.Version}}
Build time: ` + BuildTime + `
Git commit: ` + GitCommit + `
`)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(patternsCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(configCmd)
}

// render writes v to stdout in the selected format
func render(v interface{}) error {
	return output.Write(os.Stdout, outputFormat, v)
}
