package vocab

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/japaniel/vocabbuilder/pkg/dictionary"
	"github.com/japaniel/vocabbuilder/pkg/stopwatch"
	"github.com/japaniel/vocabbuilder/pkg/translate"
)

// SourceFactory builds a translation source. Factories run on the worker
// pool and must not share mutable state.
type SourceFactory func(ctx context.Context) (translate.Source, error)

var errNoArgos = errors.New("argos source not configured")

type sourceJob struct {
	kind  string
	name  string
	build SourceFactory
}

// sourceJobs returns one construction job per source the method needs.
func (b *Builder) sourceJobs() []sourceJob {
	var jobs []sourceJob
	for _, kind := range b.opts.order() {
		switch kind {
		case SourceDictCC:
			for _, path := range b.opts.Dictionaries {
				jobs = append(jobs, sourceJob{
					kind:  SourceDictCC,
					name:  filepath.Base(path),
					build: b.dictionaryFactory(path),
				})
			}
		case SourceArgos:
			jobs = append(jobs, sourceJob{kind: SourceArgos, name: SourceArgos, build: b.argosFactory()})
		}
	}
	return jobs
}

func (b *Builder) dictionaryFactory(path string) SourceFactory {
	return func(ctx context.Context) (translate.Source, error) {
		sw := stopwatch.Start(b.log, "load dictionary "+path)
		defer sw.Stop()

		d, err := dictionary.Load(ctx, path, dictionary.Options{Limit: b.opts.Number})
		if err != nil {
			return nil, err
		}
		b.log.InfoContext(ctx, "dictionary loaded", slog.String("path", path), slog.Int("words", d.Len()))
		return d, nil
	}
}

func (b *Builder) argosFactory() SourceFactory {
	return func(ctx context.Context) (translate.Source, error) {
		if b.deps.Argos == nil {
			return nil, errNoArgos
		}
		src, err := b.deps.Argos(ctx)
		if err != nil {
			return nil, err
		}
		if b.deps.Cache != nil {
			src = translate.Cached(fmt.Sprintf("argos:%s-%s", b.opts.From, b.opts.To), src, b.deps.Cache)
		}
		return src, nil
	}
}

// construct runs the jobs on a worker pool and returns their sources in job
// order.
func (b *Builder) construct(ctx context.Context, jobs []sourceJob) ([]translate.Source, error) {
	built := make([]translate.Source, len(jobs))
	pool := NewWorkerPool(b.opts.Workers, len(jobs))
	pool.Start(ctx)

	for i, job := range jobs {
		err := pool.SubmitCtx(ctx, func(ctx context.Context) error {
			src, err := job.build(ctx)
			if err != nil {
				return fmt.Errorf("build source %s: %w", job.name, err)
			}
			built[i] = translate.Named{Name: job.name, Source: src}
			return nil
		})
		if err != nil {
			pool.Close()
			return nil, err
		}
	}
	pool.Close()

	if err := pool.Err(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return built, nil
}

// compose combines the built sources according to the method.
func (b *Builder) compose(jobs []sourceJob, built []translate.Source) translate.Source {
	var dicts []translate.Source
	var argos translate.Source
	for i, job := range jobs {
		switch job.kind {
		case SourceDictCC:
			dicts = append(dicts, built[i])
		case SourceArgos:
			argos = built[i]
		}
	}

	byKind := func(kind string) translate.Source {
		if kind == SourceArgos {
			return argos
		}
		if len(dicts) == 1 {
			return dicts[0]
		}
		return translate.Named{Name: SourceDictCC, Source: translate.Coalesce(dicts...)}
	}

	order := b.opts.order()
	switch b.opts.Method {
	case MethodCoalesce, MethodAppend:
		sources := make([]translate.Source, 0, len(order))
		for _, kind := range order {
			sources = append(sources, byKind(kind))
		}
		if b.opts.Method == MethodAppend {
			return translate.Append(translate.DefaultSeparator, sources...)
		}
		return translate.Coalesce(sources...)
	default:
		return byKind(order[0])
	}
}
