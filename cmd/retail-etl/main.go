// Package main is the entry point for the retail transaction ETL tool.
// It ingests daily retail CSV files into a SQLite store, answers a fixed
// set of analytical questions against it, and can serve those answers over
// a read-only HTTP API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"github.com/aristath/retail-etl/internal/backup"
	"github.com/aristath/retail-etl/internal/config"
	"github.com/aristath/retail-etl/internal/database"
	"github.com/aristath/retail-etl/internal/etl"
	"github.com/aristath/retail-etl/internal/queries"
	"github.com/aristath/retail-etl/internal/report"
	"github.com/aristath/retail-etl/internal/scheduler"
	"github.com/aristath/retail-etl/internal/server"
	"github.com/aristath/retail-etl/pkg/logger"
)

// app holds shared dependencies passed to every command.
type app struct {
	cfg *config.Config
	log zerolog.Logger
}

// cli is the command tree
var cli struct {
	Ingest ingestCmd `cmd:"" help:"Ingest a daily retail CSV file into the store."`
	Report reportCmd `cmd:"" help:"Print the business report for the store."`
	Serve  serveCmd  `cmd:"" help:"Serve the read-only query API."`
	Backup backupCmd `cmd:"" help:"Upload the store file to S3."`
}

type ingestCmd struct {
	File string `arg:"" help:"Path to the source CSV file (retail_DD_MM_YYYY.csv)."`
	DB   string `help:"Override the store path from configuration."`
}

func (c *ingestCmd) Run(a *app) error {
	db, err := openStore(a, c.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	result, err := etl.NewPipeline(db.Conn(), a.log).Run(c.File)
	if err != nil {
		return err
	}

	a.log.Info().
		Str("date", result.TransactionDate).
		Int("loaded", result.Loaded).
		Int("duplicates", result.Duplicates).
		Msg("Ingestion finished")
	return nil
}

type reportCmd struct {
	Date    string `default:"2022-01-15" help:"Date to count transactions for (YYYY-MM-DD)."`
	Product string `default:"Amazon Echo Dot" help:"Product name for the balance history."`
	DB      string `help:"Override the store path from configuration."`
}

func (c *reportCmd) Run(a *app) error {
	db, err := openStore(a, c.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	runner, err := newRunner(a, db)
	if err != nil {
		return err
	}

	return report.Write(os.Stdout, runner, c.Date, c.Product)
}

type serveCmd struct {
	Port int    `help:"Override the HTTP port from configuration."`
	DB   string `help:"Override the store path from configuration."`
}

func (c *serveCmd) Run(a *app) error {
	db, err := openStore(a, c.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	runner, err := newRunner(a, db)
	if err != nil {
		return err
	}

	port := a.cfg.Port
	if c.Port != 0 {
		port = c.Port
	}

	srv := server.New(server.Config{
		Log:    a.log,
		DB:     db,
		Runner: runner,
		Port:   port,
	})

	sched := scheduler.New(a.log)
	if err := sched.AddJob("@hourly", scheduler.NewMaintenanceJob(db, a.log)); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		a.log.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

type backupCmd struct {
	DB string `help:"Override the store path from configuration."`
}

func (c *backupCmd) Run(a *app) error {
	dbPath := a.cfg.DBPath
	if c.DB != "" {
		dbPath = c.DB
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	uploader, err := backup.NewUploader(ctx, a.cfg.BackupBucket, a.cfg.BackupPrefix, a.log)
	if err != nil {
		return err
	}

	_, err = uploader.Upload(ctx, dbPath)
	return err
}

// openStore opens the SQLite store and applies the schema.
func openStore(a *app, override string) (*database.DB, error) {
	path := a.cfg.DBPath
	if override != "" {
		path = override
	}

	db, err := database.New(database.Config{
		Path:    path,
		Profile: database.ProfileLedger,
		Name:    "retail",
	})
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// newRunner builds the query runner from the configured catalog.
func newRunner(a *app, db *database.DB) (*queries.Runner, error) {
	catalog, err := queries.LoadCatalog(a.cfg.QueriesDir)
	if err != nil {
		return nil, err
	}
	return queries.NewRunner(db.Conn(), catalog, a.log), nil
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("retail-etl"),
		kong.Description("Daily retail transaction ETL and query service."))

	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New(logger.Config{Level: "info", Pretty: true})
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	ctx.FatalIfErrorf(ctx.Run(&app{cfg: cfg, log: log}))
}
