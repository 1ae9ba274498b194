package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"killtest/internal/config"
	"killtest/internal/importer"
	"killtest/internal/model"
	"killtest/internal/presenter"
	"killtest/internal/service"
	"killtest/internal/verdict"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var toneColors = map[string]*color.Color{
	"green":  color.New(color.FgGreen, color.Bold),
	"yellow": color.New(color.FgYellow, color.Bold),
	"red":    color.New(color.FgRed, color.Bold),
	"orange": color.New(color.FgHiYellow, color.Bold),
}

type evaluateOptions struct {
	lang    model.Language
	format  importer.Format
	asJSON  bool
	enrich  func(context.Context, model.AnswerSet, model.Language) service.Enrichment
}

func evaluateCmd(configPath *string) *cobra.Command {
	var (
		file   string
		lang   string
		format string
		asJSON bool
		useAI  bool
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Score an idea document and print the verdict",
		Long: `Reads a bulk-import document (JSON or YAML) and prints the verdict,
scores and compounding story. With --ai the upstream model is asked for a
second opinion and its verdict replaces the rule-based one.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}

			opts := evaluateOptions{
				lang:   model.ParseLanguage(lang),
				format: importer.Format(format),
				asJSON: asJSON,
			}
			if useAI {
				cfg, err := config.Load(*configPath)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				analyzer := service.NewAnalyzerService(&cfg.AI, nil, newLogger(cfg.Log))
				opts.enrich = analyzer.Enrich
			}
			return evaluate(cmd.Context(), cmd.OutOrStdout(), data, opts)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", "Document path, - for stdin")
	cmd.Flags().StringVar(&lang, "lang", "en", "Output language (en, es)")
	cmd.Flags().StringVar(&format, "format", "", "Document format (json, yaml); detected when empty")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full result view as JSON")
	cmd.Flags().BoolVar(&useAI, "ai", false, "Ask the upstream model for a second opinion")

	return cmd
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return data, nil
}

func evaluate(ctx context.Context, w io.Writer, data []byte, opts evaluateOptions) error {
	format := opts.format
	if format == "" {
		format = importer.DetectFormat(data)
	}

	doc, err := importer.Parse(data, format)
	if err != nil {
		var verr *importer.ValidationError
		if errors.As(err, &verr) {
			return errors.New(verr.Message(opts.lang))
		}
		return err
	}

	answers := importer.ToAnswers(doc)
	result := verdict.Compute(answers)
	if opts.enrich != nil {
		if ctx == nil {
			ctx = context.Background()
		}
		// an unavailable second opinion leaves the rule-based result as is
		if e := opts.enrich(ctx, answers, opts.lang); e.OK() {
			result = verdict.Merge(result, *e.Analysis)
		}
	}

	if opts.asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(presenter.Build(result, answers, opts.lang, false))
	}

	headline := presenter.Headline(result.Verdict, opts.lang)
	c, ok := toneColors[presenter.VerdictColor[result.Verdict]]
	if !ok {
		c = color.New(color.Bold)
	}
	c.Fprintf(w, "%s %s\n", headline.Emoji, headline.Title)
	if ai := result.AIAnalysis; ai != nil {
		fmt.Fprintf(w, "confidence %.0f%%: %s\n", ai.Confidence, ai.Rationale)
	}
	fmt.Fprintln(w)
	fmt.Fprint(w, presenter.Summary(result, answers, opts.lang))
	return nil
}
