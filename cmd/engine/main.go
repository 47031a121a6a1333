// Command engine replays a CSV transaction log into per-client account
// balances and writes the resulting snapshots as CSV.
//
// Usage:
//
//	engine [-output accounts.csv] [-serve :8080] transactions.csv
//
// Snapshots go to stdout unless -output names a file; logs go to stderr.
// Kafka publishing and Postgres persistence switch on through the
// environment (see internal/config).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/simaogato/tx-engine/internal/adapter/csvio"
	"github.com/simaogato/tx-engine/internal/adapter/events/kafka"
	"github.com/simaogato/tx-engine/internal/adapter/httpapi"
	"github.com/simaogato/tx-engine/internal/adapter/repository/postgres"
	"github.com/simaogato/tx-engine/internal/config"
	"github.com/simaogato/tx-engine/internal/domain"
	"github.com/simaogato/tx-engine/internal/usecase/ledger"
	"github.com/simaogato/tx-engine/internal/usecase/replay"
)

func main() {
	output := flag.String("output", "", "write account snapshots to this file instead of stdout")
	serve := flag.String("serve", "", "after the replay, serve the snapshot over HTTP on this address")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [-output file] [-serve addr] <transactions.csv>\n", os.Args[0])
		os.Exit(2)
	}
	inputPath := flag.Arg(0)

	cfg := config.Load()

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger, inputPath, *output, *serve); err != nil {
		logger.Error("run failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *zap.Logger, inputPath, outputPath, serveAddr string) error {
	ctx := context.Background()

	var events domain.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer publisher.Close()
		events = publisher
		logger.Info("dispute event publishing enabled", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	}

	input, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	defer input.Close()

	l := ledger.New(logger, events)

	processed, err := replay.Run(ctx, l, csvio.NewReader(input))
	if err != nil {
		return err
	}

	accounts := l.Snapshot()
	logger.Info("replay complete",
		zap.Int("records", processed),
		zap.Int("clients", len(accounts)))

	if err := writeAccounts(accounts, outputPath); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	// Persistence and serving come after the CSV output: the snapshot on
	// stdout is the run's primary contract.
	if cfg.DBConnStr != "" {
		if err := persistRun(ctx, cfg.DBConnStr, inputPath, processed, accounts); err != nil {
			logger.Error("failed to persist run", zap.Error(err))
		}
	}

	if serveAddr != "" {
		return serveSnapshot(l, logger, serveAddr)
	}
	return nil
}

func writeAccounts(accounts []domain.Account, outputPath string) error {
	out := os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	return csvio.NewWriter(out).WriteAccounts(accounts)
}

func persistRun(ctx context.Context, connStr, source string, processed int, accounts []domain.Account) error {
	db, err := postgres.NewDB(connStr)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		return err
	}

	run := domain.Run{
		ID:          uuid.New(),
		Source:      source,
		RecordCount: processed,
		ClientCount: len(accounts),
		CreatedAt:   time.Now().UTC(),
	}
	return postgres.NewSnapshotRepository(db).SaveRun(ctx, run, accounts)
}

// serveSnapshot blocks serving the read API until SIGINT or SIGTERM.
func serveSnapshot(l *ledger.Ledger, logger *zap.Logger, addr string) error {
	server := httpapi.NewServer(l, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Listen(addr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
		return server.Shutdown()
	}
}

func newLogger(level string) (*zap.Logger, error) {
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	// stdout carries the CSV snapshot, so all logging goes to stderr.
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parsed)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}
