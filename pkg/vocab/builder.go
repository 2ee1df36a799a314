package vocab

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/japaniel/vocabbuilder/pkg/db"
	"github.com/japaniel/vocabbuilder/pkg/document"
	"github.com/japaniel/vocabbuilder/pkg/lemma"
	"github.com/japaniel/vocabbuilder/pkg/nlp"
	"github.com/japaniel/vocabbuilder/pkg/stopwatch"
	"github.com/japaniel/vocabbuilder/pkg/translate"
)

// RunLog records builds. db.RunStore implements it.
type RunLog interface {
	CreateRun(ctx context.Context, input, output, method string) (string, error)
	FinishRun(ctx context.Context, run db.Run, runErr error) error
}

// Deps are the collaborators of a Builder. Engine is required; Argos is
// required by methods that use the argos source. Cache and Runs are optional.
type Deps struct {
	Engine nlp.Engine
	Argos  SourceFactory
	Cache  translate.Cache
	Runs   RunLog
	Logger *slog.Logger
}

// Result summarizes a build.
type Result struct {
	RunID        string
	Lemmas       int
	Excluded     int
	Translated   int
	Untranslated int
	// Title is the article title of an HTML input, empty for plain text.
	Title string
	// Lines is the written file content, headers included.
	Lines []string
}

// Builder runs the vocabulary pipeline.
type Builder struct {
	opts Options
	deps Deps
	log  *slog.Logger
}

// NewBuilder creates a builder. Workers defaults to the number of CPUs.
func NewBuilder(opts Options, deps Deps) *Builder {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{opts: opts, deps: deps, log: logger.With("component", "vocab")}
}

// Run validates the options, builds the translation sources while the lemmas
// are extracted, translates every lemma and writes the output file.
func (b *Builder) Run(ctx context.Context) (res *Result, err error) {
	if err := b.opts.Validate(); err != nil {
		return nil, err
	}
	if b.deps.Engine == nil {
		return nil, fmt.Errorf("%w: no nlp engine", ErrInvalidOptions)
	}

	res = &Result{}
	if b.deps.Runs != nil {
		id, cerr := b.deps.Runs.CreateRun(ctx, b.opts.Input, b.opts.Output, string(b.opts.Method))
		if cerr != nil {
			return nil, fmt.Errorf("record run: %w", cerr)
		}
		res.RunID = id
		defer func() {
			run := db.Run{
				ID:           id,
				Lemmas:       res.Lemmas,
				Excluded:     res.Excluded,
				Translated:   res.Translated,
				Untranslated: res.Untranslated,
			}
			// the run context may already be canceled
			if ferr := b.deps.Runs.FinishRun(context.WithoutCancel(ctx), run, err); ferr != nil {
				b.log.Error("finish run", slog.String("run", id), slog.String("error", ferr.Error()))
			}
		}()
	} else {
		res.RunID = uuid.NewString()
	}
	log := b.log.With("run", res.RunID)

	sw := stopwatch.Start(log, "build vocabulary")
	defer sw.Stop()

	jobs := b.sourceJobs()
	var (
		built  []translate.Source
		lemmas lemma.Set
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		built, err = b.construct(gctx, jobs)
		return err
	})
	g.Go(func() error {
		var err error
		lemmas, res.Excluded, res.Title, err = b.extract(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return res, err
	}
	res.Lemmas = len(lemmas)

	src := b.compose(jobs, built)

	lines := make([]string, 0, len(lemmas))
	for _, l := range lemmas.Sorted() {
		tr, ok, err := src.Translate(ctx, l)
		if err != nil {
			return res, fmt.Errorf("translate %q: %w", l, err)
		}
		if ok && tr != "" {
			res.Translated++
		} else {
			res.Untranslated++
		}
		lines = append(lines, FormatLine(l, tr))
	}

	res.Lines = Section(lines)
	if err := WriteLines(b.opts.Output, res.Lines); err != nil {
		return res, fmt.Errorf("write %s: %w", b.opts.Output, err)
	}

	log.InfoContext(ctx, "vocabulary written",
		slog.String("output", b.opts.Output),
		slog.Int("lemmas", res.Lemmas),
		slog.Int("translated", res.Translated),
		slog.Int("untranslated", res.Untranslated),
	)
	return res, nil
}

// extract returns the lemmas of the input minus the exclusion set, how many
// lemmas were excluded and the document title.
func (b *Builder) extract(ctx context.Context) (lemma.Set, int, string, error) {
	sw := stopwatch.Start(b.log, "extraction of "+b.opts.Input)
	defer sw.Stop()

	excludes, err := b.loadExcludes()
	if err != nil {
		return nil, 0, "", err
	}

	doc, err := document.Read(b.opts.Input)
	if err != nil {
		return nil, 0, "", fmt.Errorf("read input: %w", err)
	}
	if doc.Title != "" {
		b.log.InfoContext(ctx, "article extracted", slog.String("title", doc.Title))
	}

	norm := lemma.ForLanguage(b.opts.From, b.opts.POS)
	lemmas := make(lemma.Set)
	for _, line := range doc.Lines() {
		tokens, err := b.deps.Engine.Tokenize(ctx, line)
		if err != nil {
			return nil, 0, "", fmt.Errorf("tokenize: %w", err)
		}
		lemmas.Merge(norm.Normalize(tokens))
	}
	b.log.InfoContext(ctx, "lemmas found", slog.String("input", b.opts.Input), slog.Int("count", len(lemmas)))

	before := len(lemmas)
	lemmas.Remove(excludes)
	excluded := before - len(lemmas)
	if len(excludes) > 0 {
		b.log.InfoContext(ctx, "lemmas after exclusion", slog.Int("count", len(lemmas)), slog.Int("excluded", excluded))
	}
	return lemmas, excluded, doc.Title, nil
}

func (b *Builder) loadExcludes() (lemma.Set, error) {
	if b.opts.Exclude == "" {
		return make(lemma.Set), nil
	}
	var (
		words lemma.Set
		err   error
	)
	if b.opts.OrganizeExcludes {
		words, err = OrganizeWordList(b.opts.Exclude)
	} else {
		words, err = ReadWordSet(b.opts.Exclude)
	}
	if err != nil {
		return nil, fmt.Errorf("read exclusions: %w", err)
	}
	b.log.Info("excluded lemmas loaded", slog.String("path", b.opts.Exclude), slog.Int("count", len(words)))
	return words, nil
}

// IsUsageError reports whether err comes from invalid options or missing
// files rather than from the work itself.
func IsUsageError(err error) bool {
	return errors.Is(err, ErrInvalidOptions) || errors.Is(err, ErrFileNotFound)
}
