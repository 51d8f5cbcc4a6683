package backend

import (
	"context"
	"fmt"
	"strings"

	applog "txquery/internal/log"
	"txquery/internal/sources/google"
	"txquery/internal/sources/jsonfile"
	"txquery/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *applog.Logger
}

// NewFactory creates a new source factory
func NewFactory(logger *applog.Logger) Factory {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &DefaultFactory{
		logger: logger.WithComponent(applog.ComponentBackend),
	}
}

// CreateSource implements Factory.CreateSource
func (f *DefaultFactory) CreateSource(ctx context.Context, config Config) (*SourceResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case JSONSource:
		return f.createJSONSource(config)
	case SQLiteSource:
		return f.createSQLiteSource(config)
	case SheetsSource:
		return f.createSheetsSource(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported source type: %s", config.Type)
	}
}

func (f *DefaultFactory) createJSONSource(config Config) (*SourceResult, error) {
	src := jsonfile.NewSource(config.JSONPaths...)

	f.logger.Info("Initialized JSON source",
		applog.FieldPath, strings.Join(config.JSONPaths, ","))

	return &SourceResult{Source: src}, nil
}

func (f *DefaultFactory) createSQLiteSource(config Config) (*SourceResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.Info("Initialized SQLite source", applog.FieldPath, config.SQLiteDBPath)

	return &SourceResult{
		Source:  repo,
		Cleanup: repo.Close,
	}, nil
}

func (f *DefaultFactory) createSheetsSource(ctx context.Context, config Config) (*SourceResult, error) {
	cli, err := google.NewClient(ctx, google.Config{
		SpreadsheetID:   config.GoogleSpreadsheetID,
		Range:           config.GoogleSheetRange,
		CredentialsJSON: config.GoogleServiceAccountJSON,
		CredentialsFile: config.GoogleServiceAccountFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Initialized Google Sheets source", applog.FieldPath, config.GoogleSheetRange)

	return &SourceResult{Source: cli}, nil
}
