package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"txquery/internal/amqp"
	"txquery/internal/backend"
	"txquery/internal/cli"
	"txquery/internal/config"
	applog "txquery/internal/log"
	"txquery/internal/query"
	"txquery/internal/report"
)

var errPublishDisabled = errors.New("-publish requires AMQP_URL")

type options struct {
	source  string
	paths   string
	dbPath  string
	sender  string
	clients string
	topN    int
	publish bool
}

func main() {
	cli.LoadEnvFile()

	var opts options
	flag.StringVar(&opts.source, "source", "", "Record source: json, sqlite or sheets (overrides TX_SOURCE)")
	flag.StringVar(&opts.paths, "path", "", "Comma separated JSON documents (overrides TX_JSON_PATHS)")
	flag.StringVar(&opts.dbPath, "db", "", "SQLite database path (overrides SQLITE_DB_PATH)")
	flag.StringVar(&opts.sender, "sender", report.DefaultSender, "Sender whose total is reported")
	flag.StringVar(&opts.clients, "clients", "", "Comma separated clients to check for open compliance issues")
	flag.IntVar(&opts.topN, "top", 0, "Size of the amount ranking (overrides REPORT_TOP_N)")
	flag.BoolVar(&opts.publish, "publish", false, "Publish the report over AMQP")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags]\n\nFlags:\n", os.Args[0])
		flag.PrintDefaults()
		fmt.Fprintf(flag.CommandLine.Output(), "\n%s", config.Usage())
	}
	flag.Parse()

	cfg := cli.LoadAndValidateConfig(opts.apply)
	logger := cli.SetupLogger(cfg, applog.ComponentApp)
	logger.Debug("Starting txquery",
		applog.FieldOperation, applog.OpStartup,
		applog.FieldSource, cfg.DataSource)

	ctx, stop := cli.SignalContext()
	defer stop()

	if err := run(applog.NewContext(ctx, logger), cfg, opts, os.Stdout); err != nil {
		logger.Error("txquery failed", applog.FieldError, err)
		stop()
		os.Exit(1)
	}
}

func (o options) apply(cfg *config.Config) {
	if o.source != "" {
		cfg.DataSource = o.source
	}
	if o.paths != "" {
		cfg.JSONPaths = splitList(o.paths)
	}
	if o.dbPath != "" {
		cfg.SQLiteDBPath = o.dbPath
	}
	if o.topN > 0 {
		cfg.ReportTopN = o.topN
	}
}

// run loads the snapshot, prints the report to out and publishes it when asked.
// Nothing is printed if loading fails.
func run(ctx context.Context, cfg *config.Config, opts options, out io.Writer) error {
	logger := applog.FromContext(ctx)
	if opts.publish && !cfg.PublishEnabled() {
		return errPublishDisabled
	}

	sourceCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	res, err := backend.NewFactory(logger).CreateSource(ctx, sourceCfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Close(); err != nil {
			logger.Warn("Closing source failed", applog.FieldError, err)
		}
	}()

	start := time.Now()
	records, err := res.Source.Load(ctx)
	if err != nil {
		return err
	}
	engine := query.NewEngine(records)

	fields := applog.NewFields().
		WithOperation(applog.OpLoad).
		WithSource(sourceCfg.Type.String(), "").
		WithSnapshot(engine.Len(), engine.DistinctTransactionCount())
	logger.InfoContext(ctx, "Transactions loaded",
		append(fields.ToSlice(), applog.FieldDuration, time.Since(start).Milliseconds())...)

	rep := report.Build(engine, report.Options{
		Sender:  opts.sender,
		Clients: splitList(opts.clients),
		TopN:    cfg.ReportTopN,
	})
	logger.WithComponent(applog.ComponentReport).InfoContext(ctx, "Report built",
		applog.FieldOperation, applog.OpQuery,
		applog.FieldSender, rep.Sender,
		applog.FieldTotalAmount, rep.TotalAmount.String())

	if err := rep.WriteText(out); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if !opts.publish {
		return nil
	}
	return publish(ctx, cfg, sourceCfg.Type.String(), rep)
}

func publish(ctx context.Context, cfg *config.Config, source string, rep report.Report) error {
	logger := applog.FromContext(ctx).WithComponent(applog.ComponentAMQP)

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return fmt.Errorf("connect AMQP: %w", err)
	}
	defer client.Close()

	if err := client.WithSource(source).PublishReport(ctx, rep); err != nil {
		return err
	}
	logger.InfoContext(ctx, "Report published",
		applog.FieldOperation, applog.OpPublish,
		applog.FieldExchange, cfg.AMQPExchange,
		applog.FieldQueue, cfg.AMQPQueue)
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
