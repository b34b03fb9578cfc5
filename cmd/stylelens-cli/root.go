package main

import (
	"fmt"
	"io"
	"strings"

	"stylelens/internal/analyzer"
	"stylelens/internal/keywords"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app carries the flags and the pipeline shared by every subcommand
type app struct {
	tablesFile string
	jsonOut    bool
	verbose    bool
	noColor    bool

	pipeline *analyzer.Pipeline
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "stylelens-cli",
		Short: "Gender-aware fashion product term extraction",
		Long: `stylelens-cli detects the gender a shopping utterance is about, extracts
product terms from stylist text and filters them into search queries.

Text is read from the arguments, or from stdin when none are given.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.noColor {
				color.NoColor = true
			}

			tables, err := keywords.Load(a.tablesFile)
			if err != nil {
				return err
			}

			level := zerolog.WarnLevel
			if a.verbose {
				level = zerolog.DebugLevel
			}
			logger := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).
				Level(level).With().Timestamp().Logger()

			a.pipeline = analyzer.New(tables, analyzer.Options{}, nil, logger)
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&a.tablesFile, "tables", "t", "", "keyword tables YAML file (defaults to the built-in tables)")
	root.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "print JSON instead of text")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging on stderr")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newDetectCmd(a),
		newExtractCmd(a),
		newAnalyzeCmd(a),
		newRunCmd(a),
	)
	return root
}

// input joins args, or reads stdin when there are none
func input(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("no input text")
	}
	return text, nil
}
