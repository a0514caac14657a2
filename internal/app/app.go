package app

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/testpilot/internal/common"
	"github.com/ternarybob/testpilot/internal/interfaces"
	"github.com/ternarybob/testpilot/internal/services/analysis"
	"github.com/ternarybob/testpilot/internal/services/dashboard"
	"github.com/ternarybob/testpilot/internal/services/llm"
	"github.com/ternarybob/testpilot/internal/services/stories"
	"github.com/ternarybob/testpilot/internal/services/synthesis"
	"github.com/ternarybob/testpilot/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	// Completion boundary (audited when enabled)
	Completion   interfaces.CompletionService
	AuditStorage interfaces.AuditStorage

	// Domain services
	Stories   *stories.Store
	Analysis  *analysis.Service
	Synthesis *synthesis.Service
	Renderer  *dashboard.Renderer
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := app.initCompletion(); err != nil {
		return nil, fmt.Errorf("failed to initialize completion service: %w", err)
	}

	app.initServices()

	logger.Debug().
		Str("stories_dir", cfg.Stories.Dir).
		Bool("audit", cfg.Audit.Enabled).
		Msg("Application initialized")

	return app, nil
}

// initCompletion builds the provider factory and, when auditing is enabled,
// wraps it so every call is recorded in Badger.
func (a *App) initCompletion() error {
	factory := llm.NewProviderFactory(a.Config, a.Logger)
	a.Completion = factory

	if !a.Config.Audit.Enabled {
		return nil
	}

	if err := a.openAuditStorage(); err != nil {
		return err
	}

	audited := llm.NewAuditedService(factory, a.AuditStorage, a.Config.Audit.LogPrompts, a.Logger)
	a.Completion = audited

	a.Logger.Info().
		Str("path", a.Config.Audit.Path).
		Str("run_id", audited.RunID()).
		Msg("Completion audit enabled")

	return nil
}

// openAuditStorage opens the audit database once; later calls reuse it
func (a *App) openAuditStorage() error {
	if a.AuditStorage != nil {
		return nil
	}

	db, err := badger.NewBadgerDB(a.Logger, a.Config.Audit.Path)
	if err != nil {
		return fmt.Errorf("failed to open audit database: %w", err)
	}
	a.AuditStorage = badger.NewAuditStorage(db, a.Logger)
	return nil
}

// initServices wires the domain services onto the completion boundary
func (a *App) initServices() {
	a.Stories = stories.NewStore(a.Config.Stories.Dir, a.Config.Stories.Extension, a.Logger)
	a.Analysis = analysis.NewService(a.Completion, a.Stories, &a.Config.Analysis, a.Logger)
	a.Synthesis = synthesis.NewService(a.Completion, &a.Config.Generate, a.Logger)
	a.Renderer = dashboard.NewRenderer(&a.Config.HTML, a.Logger)
}

// Close releases provider clients and the audit database
func (a *App) Close() error {
	if a.Completion != nil {
		if err := a.Completion.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close completion service")
		}
	}

	if a.AuditStorage != nil {
		if err := a.AuditStorage.Close(); err != nil {
			return fmt.Errorf("failed to close audit storage: %w", err)
		}
	}

	return nil
}
