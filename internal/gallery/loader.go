package gallery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/JaimeStill/portfolio/internal/locale"
	"golang.org/x/sync/errgroup"
)

// DefaultProbeTimeout applies when the configured timeout is not positive.
const DefaultProbeTimeout = 10 * time.Second

const fallbackLoadError = "failed to load images"

// Request describes one collection to load.
type Request struct {
	URLs          []string
	Language      locale.Language
	PriorityCount int
	CacheBust     bool
}

// Loader resolves URL lists into image collections in two phases.
type Loader struct {
	prober     Prober
	optimizer  *Optimizer
	translator locale.Translator
	logger     *slog.Logger
	timeout    time.Duration
	limit      int
	now        func() time.Time
}

// NewLoader creates a loader from a finalized gallery configuration.
func NewLoader(cfg *Config, prober Prober, translator locale.Translator, logger *slog.Logger) *Loader {
	timeout := cfg.ProbeTimeoutDuration()
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &Loader{
		prober:     prober,
		optimizer:  NewOptimizer(cfg.CDNHosts, cfg.Variants, translator),
		translator: translator,
		logger:     logger.With("system", "gallery"),
		timeout:    timeout,
		limit:      cfg.MaxConcurrent,
		now:        time.Now,
	}
}

// Load starts loading req in the background and returns its collection.
// The priority subset is published first, then the remainder. Cancelling
// ctx ends the load with a batch error.
func (l *Loader) Load(ctx context.Context, req Request) *Collection {
	ctx, cancel := context.WithCancel(ctx)
	c := newCollection(cancel)
	go l.run(ctx, c, req)
	return c
}

func (l *Loader) run(ctx context.Context, c *Collection, req Request) {
	defer c.finish()

	lang := req.Language
	if !lang.Valid() {
		lang = locale.DefaultLanguage
	}

	priority, remainder := Partition(req.URLs, req.PriorityCount)

	items, err := l.phase(ctx, priority, 0, req.CacheBust, lang)
	if err != nil {
		l.logger.Warn("priority phase failed", "error", err, "count", len(priority))
		c.update(func(s *LoadState) {
			s.Loading = false
			s.LazyLoading = false
			s.Error = l.failure(lang)
		})
		return
	}
	c.update(func(s *LoadState) {
		s.Grid = append(s.Grid, items...)
		s.Solo = append(s.Solo, items...)
		s.Loading = false
	})

	items, err = l.phase(ctx, remainder, len(priority), req.CacheBust, lang)
	if err != nil {
		l.logger.Warn("remainder phase failed", "error", err, "count", len(remainder))
		c.update(func(s *LoadState) {
			s.LazyLoading = false
			s.Error = l.failure(lang)
		})
		return
	}
	c.update(func(s *LoadState) {
		s.Grid = append(s.Grid, items...)
		s.Solo = append(s.Solo, items...)
		s.LazyLoading = false
	})

	l.logger.Debug("collection loaded", "requested", len(req.URLs), "loaded", len(c.State().Grid))
}

// phase probes urls concurrently and returns the survivors in input order.
// offset is the position of urls[0] in the full request.
func (l *Loader) phase(ctx context.Context, urls []string, offset int, cacheBust bool, lang locale.Language) ([]ImageItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBatchFailed, err)
	}

	results := make([]*ImageItem, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	if l.limit > 0 {
		g.SetLimit(l.limit)
	}

	for i, raw := range urls {
		index := offset + i
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%w: panic resolving %s: %v", ErrBatchFailed, raw, r)
				}
			}()

			item, resolveErr := l.resolve(gctx, raw, index, cacheBust, lang)
			if resolveErr != nil {
				if errors.Is(resolveErr, ErrBatchFailed) {
					return resolveErr
				}
				l.logger.Debug("image dropped", "url", raw, "index", index, "error", resolveErr)
				return nil
			}
			results[i] = &item
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBatchFailed, err)
	}

	items := make([]ImageItem, 0, len(urls))
	for _, item := range results {
		if item != nil {
			items = append(items, *item)
		}
	}
	return items, nil
}

func (l *Loader) resolve(ctx context.Context, raw string, index int, cacheBust bool, lang locale.Language) (ImageItem, error) {
	if !ValidateURL(raw) {
		return ImageItem{}, fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}

	src := raw
	if cacheBust {
		src = CacheBust(raw, index, l.now())
	}
	item := l.optimizer.Apply(NewImageItem(src, index), index, lang)

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	probe, err := l.prober.Probe(ctx, item.URL)
	if err != nil {
		return ImageItem{}, err
	}
	if probe.Width > 0 && probe.Height > 0 {
		item = item.WithDimensions(probe.Width, probe.Height)
	}
	return item, nil
}

func (l *Loader) failure(lang locale.Language) string {
	if l.translator == nil {
		return fallbackLoadError
	}
	return l.translator.Translate(lang, locale.MsgGalleryLoadFailed, nil)
}
