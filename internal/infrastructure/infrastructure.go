// Package infrastructure provides core service initialization for application startup.
// It assembles the shared dependencies (logging, storage, messages, analytics)
// that the site modules require.
package infrastructure

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/portfolio/internal/analytics"
	"github.com/JaimeStill/portfolio/internal/config"
	"github.com/JaimeStill/portfolio/internal/locale"
	"github.com/JaimeStill/portfolio/pkg/lifecycle"
	"github.com/JaimeStill/portfolio/pkg/logging"
	"github.com/JaimeStill/portfolio/pkg/storage"
	"github.com/go-resty/resty/v2"
)

// Infrastructure holds the core systems required by all site modules.
type Infrastructure struct {
	Lifecycle  *lifecycle.Coordinator
	Logger     *slog.Logger
	Storage    storage.System
	Translator *locale.Catalog
	Analytics  *analytics.Dispatcher
	HTTP       *resty.Client

	analyticsCfg *analytics.Config
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	return NewWithLogger(cfg, logging.New(&cfg.Logging))
}

// NewWithLogger is New with an explicit logger.
func NewWithLogger(cfg *config.Config, logger *slog.Logger) (*Infrastructure, error) {
	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	translator, err := locale.NewCatalog()
	if err != nil {
		return nil, fmt.Errorf("locale init failed: %w", err)
	}

	client := resty.New().
		SetHeader("User-Agent", "portfolio/"+cfg.Version).
		SetLogger(restyLogger{logger.With("system", "http")})

	return &Infrastructure{
		Lifecycle:    lifecycle.New(),
		Logger:       logger,
		Storage:      store,
		Translator:   translator,
		Analytics:    analytics.NewDispatcher(cfg.Analytics.QueueSize, logger),
		HTTP:         client,
		analyticsCfg: &cfg.Analytics,
	}, nil
}

// Start initializes all infrastructure systems and registers them with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}

	i.Analytics.Start(i.Lifecycle)
	events := i.Logger.With("system", "events")
	err := i.Analytics.Subscribe(analytics.SinkFunc(func(_ context.Context, e analytics.Event) error {
		events.Debug("event", "type", e.Type, "path", e.Path, "label", e.Label)
		return nil
	}))
	if err != nil {
		return fmt.Errorf("analytics start failed: %w", err)
	}

	if i.analyticsCfg.Enabled {
		collector := analytics.NewCollector(i.analyticsCfg, nil)
		if err := i.Analytics.Subscribe(collector); err != nil {
			return fmt.Errorf("analytics start failed: %w", err)
		}
		i.Logger.Info("analytics collector subscribed", "endpoint", i.analyticsCfg.Endpoint)
	}
	return nil
}

// restyLogger routes resty's printf-style logging into slog.
type restyLogger struct {
	logger *slog.Logger
}

func (l restyLogger) Errorf(format string, v ...any) {
	l.logger.Error(fmt.Sprintf(format, v...))
}

func (l restyLogger) Warnf(format string, v ...any) {
	l.logger.Warn(fmt.Sprintf(format, v...))
}

func (l restyLogger) Debugf(format string, v ...any) {
	l.logger.Debug(fmt.Sprintf(format, v...))
}
