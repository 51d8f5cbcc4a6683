package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"txquery/internal/cli"
	"txquery/internal/config"
	applog "txquery/internal/log"
	"txquery/internal/sources"
	"txquery/internal/sources/jsonfile"
	"txquery/internal/storage"
)

func main() {
	cli.LoadEnvFile()

	dbPath := flag.String("db", "", "SQLite database path (overrides SQLITE_DB_PATH)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-db path] transactions.json [more.json ...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg := cli.LoadAndValidateConfig(func(c *config.Config) {
		if *dbPath != "" {
			c.SQLiteDBPath = *dbPath
		}
	})
	logger := cli.SetupLogger(cfg, applog.ComponentSeed)

	ctx, stop := cli.SignalContext()
	defer stop()

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	n, err := seed(ctx, jsonfile.NewSource(flag.Args()...), repo)
	if err != nil {
		logger.Error("Seeding failed",
			applog.FieldOperation, applog.OpImport,
			applog.FieldError, err)
		repo.Close()
		os.Exit(1)
	}

	total, err := repo.Count(ctx)
	if err != nil {
		logger.Warn("Counting stored transactions failed", applog.FieldError, err)
	}
	schema, err := storage.SchemaVersion(cfg.SQLiteDBPath)
	if err != nil {
		logger.Warn("Reading schema version failed", applog.FieldError, err)
	}
	logger.Info("Seeding complete",
		applog.FieldPath, cfg.SQLiteDBPath,
		applog.FieldRecords, n,
		"stored", total,
		applog.FieldSchema, schema)
}

// seed copies every record from src into dst, all or nothing.
func seed(ctx context.Context, src sources.RecordSource, dst sources.RecordImporter) (int, error) {
	records, err := src.Load(ctx)
	if err != nil {
		return 0, err
	}
	return dst.ImportRecords(ctx, records)
}
