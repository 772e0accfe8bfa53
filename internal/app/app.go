package app

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/aurabank/aura/internal/authflow"
	"github.com/aurabank/aura/internal/config"
	"github.com/aurabank/aura/internal/constants"
	"github.com/aurabank/aura/internal/logging"
	"github.com/aurabank/aura/internal/remote"
	"github.com/aurabank/aura/internal/session"
	"github.com/aurabank/aura/internal/stepup"
	"github.com/aurabank/aura/internal/store"
	"github.com/aurabank/aura/internal/utils"
)

type App struct {
	Flow    *authflow.Controller
	Session *session.Context
	Store   store.Repository
	Config  *config.Config
	Logger  *zap.Logger
}

// NewApp initializes the store, session context, backend and flow
// controller, then returns the App entity with its cleanup function.
// Lifecycle is explicit: everything is injected here, nothing is ambient.
func NewApp(cfg *config.Config, migrationsFS fs.FS) (*App, func(), error) {
	appDir, err := getAppDataDir()
	if err != nil {
		return nil, nil, err
	}

	dbPath := cfg.Database.Path
	if dbPath == "" {
		dbPath = filepath.Join(appDir, "aura.db")
	}

	logPath := cfg.Logging.Path
	if logPath == "" {
		logPath = filepath.Join(appDir, "aura.log")
	}

	logger, err := logging.New(cfg.Logging.Level, logPath)
	if err != nil {
		return nil, nil, err
	}

	dbStore, err := store.NewStore(dbPath, migrationsFS)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	sessCtx := session.NewContext(dbStore)
	if err := sessCtx.Restore(); err != nil {
		return nil, nil, fmt.Errorf("failed to restore session: %w", err)
	}

	backend, err := buildBackend(cfg, dbStore, logger)
	if err != nil {
		return nil, nil, err
	}

	challenger := stepup.NewTerminalChallenger(dbStore)
	policies := authflow.Policies{
		Login:    cfg.StepUp.OnUnavailableLogin,
		Register: cfg.StepUp.OnUnavailableRegister,
		Transfer: cfg.StepUp.OnUnavailableTransfer,
	}

	flow := authflow.NewController(backend, challenger, sessCtx, policies, logger)

	cleanup := func() {
		_ = logger.Sync()
		if err := dbStore.Close(); err != nil {
			fmt.Printf("Error closing DB: %v\n", err)
		}
	}

	return &App{
		Flow:    flow,
		Session: sessCtx,
		Store:   dbStore,
		Config:  cfg,
		Logger:  logger,
	}, cleanup, nil
}

func buildBackend(cfg *config.Config, dbStore store.Repository, logger *zap.Logger) (authflow.Backend, error) {
	if cfg.Backend.Mode == constants.BackendLocal {
		opening, err := utils.ParseToCents(cfg.Local.OpeningBalance)
		if err != nil {
			return nil, fmt.Errorf("invalid local.opening_balance: %w", err)
		}
		return authflow.NewLocalBackend(dbStore, opening), nil
	}

	httpClient := remote.NewHTTPClient(cfg.Server.URL, cfg.CallTimeout(), logger)
	return authflow.NewRemoteBackend(remote.NewBreakerClient(httpClient, logger), dbStore), nil
}

func getAppDataDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("unable to determine user home directory: %w", err)
		}
		return filepath.Join(home, ".aura"), nil
	}

	return filepath.Join(configDir, "aura"), nil
}
