package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"stylelens/internal/model"
	"stylelens/internal/utils"

	"github.com/fatih/color"
)

var (
	headingColor = color.New(color.FgCyan, color.Bold)
	dimColor     = color.New(color.Faint)
	rejectColor  = color.New(color.FgRed)
)

func polarityColor(p model.Polarity) *color.Color {
	switch p {
	case model.PolarityMale:
		return color.New(color.FgBlue, color.Bold)
	case model.PolarityFemale:
		return color.New(color.FgMagenta, color.Bold)
	default:
		return color.New(color.FgYellow, color.Bold)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printVerdict(w io.Writer, v model.GenderVerdict) {
	fmt.Fprintf(w, "Gender: %s  (male %d, female %d, unisex %d, threshold %d)\n",
		polarityColor(v.Polarity).Sprint(v.Polarity),
		v.Scores.Male, v.Scores.Female, v.Scores.Unisex, v.Threshold)
	if len(v.Matched) > 0 {
		dimColor.Fprintf(w, "Matched: %s\n", strings.Join(v.Matched, ", "))
	}
}

func printCandidates(w io.Writer, candidates []model.CandidateProduct) {
	headingColor.Fprintf(w, "\nCandidates (%d)\n", len(candidates))
	table(w, []string{"NAME", "CATEGORY", "CONFIDENCE", "PASS"}, func(add func(...string)) {
		for _, c := range candidates {
			add(c.RawName, string(c.Category), strconv.Itoa(c.Confidence), string(c.Pass))
		}
	})
}

func printAnalysis(w io.Writer, a model.SpecificityAnalysis) {
	headingColor.Fprintln(w, "Specificity")
	fmt.Fprintf(w, "Intent:     %s\n", a.UserIntent)
	if a.SpecificProductName != "" {
		fmt.Fprintf(w, "Product:    %s\n", utils.TitleCase(a.SpecificProductName))
	}
	fmt.Fprintf(w, "Category:   %s\n", a.ExactCategory)
	fmt.Fprintf(w, "Precision:  %d\n", a.SearchPrecision)
	for attr, value := range sortedAttributes(a.Attributes) {
		fmt.Fprintf(w, "  %-9s %s\n", attr+":", value)
	}
	if len(a.MandatoryKeywords) > 0 {
		fmt.Fprintf(w, "Must have:  %s\n", strings.Join(a.MandatoryKeywords, ", "))
	}
	if len(a.ExcludeKeywords) > 0 {
		fmt.Fprintf(w, "Exclude:    %s\n", strings.Join(a.ExcludeKeywords, ", "))
	}
}

func printResult(w io.Writer, r *model.PipelineResult, verbose bool) {
	printVerdict(w, r.Verdict)
	if r.Analysis != nil {
		fmt.Fprintln(w)
		printAnalysis(w, *r.Analysis)
	}

	headingColor.Fprintf(w, "\nTerms (%d, confidence %d)\n", len(r.Terms), r.AnalysisConfidence)
	for _, t := range r.Terms {
		fmt.Fprintf(w, "%s  %s\n", polarityColor(t.Gender).Sprint(t.Name), dimColor.Sprintf("[%s, %d]", t.Category, t.Confidence))
		for _, q := range t.SearchQueries {
			fmt.Fprintf(w, "    %s\n", q)
		}
	}

	if len(r.Rejections) > 0 {
		headingColor.Fprintf(w, "\nRejected (%d)\n", len(r.Rejections))
		if verbose {
			for _, rej := range r.Rejections {
				rejectColor.Fprintf(w, "  %s", rej.Name)
				fmt.Fprintf(w, "  %s %s\n", rej.Reason, rej.Term)
			}
		}
	}
}

// sortedAttributes yields the set attributes in a fixed order
func sortedAttributes(a model.Attributes) func(yield func(string, string) bool) {
	return func(yield func(string, string) bool) {
		m := a.AsMap()
		for _, k := range []string{"color", "material", "style", "fit", "pattern", "occasion", "brand"} {
			if v, ok := m[k]; ok {
				if !yield(k, v) {
					return
				}
			}
		}
	}
}

func table(w io.Writer, headers []string, rows func(add func(...string))) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	rows(func(cols ...string) {
		fmt.Fprintln(tw, strings.Join(cols, "\t"))
	})
	_ = tw.Flush()
}
