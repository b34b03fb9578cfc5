package main

import (
	"fmt"
	"os"
	"strings"

	"stylelens/internal/analyzer"
	"stylelens/internal/model"

	"github.com/spf13/cobra"
)

func newDetectCmd(a *app) *cobra.Command {
	var search bool

	cmd := &cobra.Command{
		Use:   "detect [text...]",
		Short: "Classify text as male, female or unisex",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := input(cmd, args)
			if err != nil {
				return err
			}

			ctx := model.ContextFreeText
			if search {
				ctx = model.ContextSearchQuery
			}
			verdict := a.pipeline.Detect(text, ctx)

			if a.jsonOut {
				return printJSON(cmd.OutOrStdout(), verdict)
			}
			printVerdict(cmd.OutOrStdout(), verdict)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&search, "search", "s", false, "use the stricter search-query threshold")
	return cmd
}

func newExtractCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "extract [text...]",
		Short: "List candidate products mentioned in stylist text",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := input(cmd, args)
			if err != nil {
				return err
			}

			verdict := a.pipeline.Detect(text, model.ContextFreeText)
			candidates := a.pipeline.Extract(text, verdict)

			if a.jsonOut {
				return printJSON(cmd.OutOrStdout(), candidates)
			}
			printVerdict(cmd.OutOrStdout(), verdict)
			printCandidates(cmd.OutOrStdout(), candidates)
			return nil
		},
	}
}

func newAnalyzeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [utterance...]",
		Short: "Show how specifically an utterance names a product",
		RunE: func(cmd *cobra.Command, args []string) error {
			utterance, err := input(cmd, args)
			if err != nil {
				return err
			}

			analysis := a.pipeline.Analyze(utterance)

			if a.jsonOut {
				return printJSON(cmd.OutOrStdout(), analysis)
			}
			printAnalysis(cmd.OutOrStdout(), analysis)
			return nil
		},
	}
}

func newRunCmd(a *app) *cobra.Command {
	var (
		utterance string
		textFile  string
		search    bool
	)

	cmd := &cobra.Command{
		Use:   "run [text...]",
		Short: "Run the full pipeline and print filtered terms with their queries",
		Long: `run detects gender from the utterance, extracts products from the stylist
text and prints the terms that survive filtering, each with its search queries.

The stylist text comes from --text-file, the arguments or stdin. With none of
them the utterance itself is used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var text string
			switch {
			case textFile != "":
				data, err := os.ReadFile(textFile)
				if err != nil {
					return fmt.Errorf("read text file: %w", err)
				}
				text = string(data)
			case len(args) > 0:
				text = strings.Join(args, " ")
			}
			if strings.TrimSpace(utterance) == "" && strings.TrimSpace(text) == "" {
				return fmt.Errorf("--utterance or stylist text is required")
			}

			ctx := model.ContextFreeText
			if search {
				ctx = model.ContextSearchQuery
			}
			result := a.pipeline.Run(analyzer.Input{
				Utterance: utterance,
				Text:      text,
				Context:   ctx,
			})

			if a.jsonOut {
				return printJSON(cmd.OutOrStdout(), result)
			}
			printResult(cmd.OutOrStdout(), result, a.verbose)
			return nil
		},
	}
	cmd.Flags().StringVarP(&utterance, "utterance", "u", "", "what the shopper asked for")
	cmd.Flags().StringVarP(&textFile, "text-file", "f", "", "file holding the stylist text")
	cmd.Flags().BoolVarP(&search, "search", "s", false, "use the stricter search-query threshold")
	return cmd
}
