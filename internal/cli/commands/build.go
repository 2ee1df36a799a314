package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/japaniel/vocabbuilder/internal/cli/config"
	"github.com/japaniel/vocabbuilder/pkg/db"
	"github.com/japaniel/vocabbuilder/pkg/nlp"
	"github.com/japaniel/vocabbuilder/pkg/translate"
	"github.com/japaniel/vocabbuilder/pkg/translate/libre"
	"github.com/japaniel/vocabbuilder/pkg/vocab"
)

// NewBuildCommand creates the build command.
func NewBuildCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a vocabulary file from a text",
		Long: `Extract the lemmas of the input text, remove excluded words and write each
remaining lemma with its translation to the output file, sorted and split into
sections by first letter.`,
		Example: `  # Translate with a dict.cc dictionary
  vocabbuilder build -i chapter1.txt -e known.txt

  # Prefer the dictionary, fall back to a LibreTranslate server
  vocabbuilder build -i chapter1.txt -m coalesce --argos-url http://localhost:5000

  # Japanese text with the in-process analyzer and JMdict
  vocabbuilder build -i story.txt --from ja --nlp-engine kagome -d jmdict-eng-common.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd)
		},
	}

	f := cmd.Flags()
	f.StringP("input", "i", "", "Input text, markdown or HTML file")
	f.StringP("output", "o", config.DefaultOutput, "Output vocabulary file")
	f.StringP("exclude", "e", "", "Word list of lemmas to leave out")
	f.Bool("organize-excludes", false, "Rewrite the exclusion list sorted before reading it")
	f.IntP("number", "n", config.DefaultNumber, "Maximum number of translations per dictionary word")
	f.StringSliceP("dictionary", "d", []string{config.DefaultDictionary}, "Dictionary file, repeatable")
	f.StringP("method", "m", config.DefaultMethod, "Translation method (dictcc|argos|coalesce|append)")
	f.StringSlice("order", vocab.DefaultOrder, "Source order for coalesce and append")
	f.String("from", config.DefaultFrom, "Source language")
	f.String("to", config.DefaultTo, "Target language")
	f.StringSlice("pos", nil, "Parts of speech to keep (default NOUN,VERB,ADJ,ADV)")
	f.String("nlp-engine", config.DefaultNLPEngine, "Tokenizer (spacy|kagome)")
	f.String("nlp-url", config.DefaultNLPURL, "spaCy parse service URL")
	f.String("nlp-model", config.DefaultNLPModel, "spaCy model name")
	f.String("argos-url", config.DefaultArgosURL, "LibreTranslate server URL")
	f.String("argos-api-key", "", "LibreTranslate API key")
	f.String("cache", "", "SQLite file caching machine translations and recording runs")
	f.Int("workers", 0, "Workers building translation sources (default number of CPUs)")

	_ = cmd.RegisterFlagCompletionFunc("method", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"dictcc", "argos", "coalesce", "append"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("nlp-engine", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{nlp.EngineSpacy, nlp.EngineKagome}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runBuild(cmd *cobra.Command) error {
	cfg, err := getConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	ctx := cmd.Context()
	logger := config.GetLogger(ctx)

	engine, err := nlp.New(cfg.NLPOptions(), logger)
	if err != nil {
		return err
	}
	deps := vocab.Deps{
		Engine: engine,
		Argos:  argosFactory(cfg, logger),
		Logger: logger,
	}

	var cache *db.TranslationCache
	if cfg.Cache != "" {
		conn, err := db.Open(cfg.Cache)
		if err != nil {
			return err
		}
		defer conn.Close()

		cache = db.NewTranslationCache(conn, logger)
		defer func() {
			if err := cache.Close(); err != nil {
				logger.Error("close translation cache", slog.String("error", err.Error()))
			}
		}()
		deps.Cache = cache
		deps.Runs = db.RunStore{DB: conn}
	}

	res, err := vocab.NewBuilder(cfg.ToOptions(), deps).Run(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Wrote %s\n", cfg.Output)
	_, _ = fmt.Fprintf(out, "  run:          %s\n", res.RunID)
	if res.Title != "" {
		_, _ = fmt.Fprintf(out, "  title:        %s\n", res.Title)
	}
	_, _ = fmt.Fprintf(out, "  lemmas:       %d\n", res.Lemmas)
	_, _ = fmt.Fprintf(out, "  excluded:     %d\n", res.Excluded)
	_, _ = fmt.Fprintf(out, "  translated:   %d\n", res.Translated)
	_, _ = fmt.Fprintf(out, "  untranslated: %d\n", res.Untranslated)
	if cache != nil {
		hits, misses := cache.Stats()
		_, _ = fmt.Fprintf(out, "  cache:        %d hits, %d misses\n", hits, misses)
	}
	return nil
}

// argosFactory connects to the LibreTranslate server and checks that it
// serves the language pair.
func argosFactory(cfg *config.Config, logger *slog.Logger) vocab.SourceFactory {
	return func(ctx context.Context) (translate.Source, error) {
		var opts []libre.Option
		if cfg.Argos.APIKey != "" {
			opts = append(opts, libre.WithAPIKey(cfg.Argos.APIKey))
		}
		client := libre.NewClient(cfg.Argos.URL, cfg.From, cfg.To, logger, opts...)
		if err := client.Install(ctx); err != nil {
			return nil, err
		}
		return client, nil
	}
}
