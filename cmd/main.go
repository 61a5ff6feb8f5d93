package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"bankdesk/internal/hasher"
	"bankdesk/internal/logger"
	"bankdesk/internal/migrations"
	"bankdesk/internal/repositories"
	"bankdesk/internal/services"
	"bankdesk/internal/tx"
	"bankdesk/internal/ui"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the application
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

func main() {
	printBuildInfo()
	configPath := parseFlags()

	dbPath, logLevel, logPath, err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(), dbPath, logLevel, logPath); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Starting bankdesk version %s, commit %s, build %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// parseConfig loads environment variables from a file and returns the
// database path, log level, and log file path.
func parseConfig(path string) (dbPath, logLevel, logPath string, err error) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}

	dbPath = getEnv("APP_DB_PATH", "bank.db")
	logLevel = getEnv("APP_LOG_LEVEL", "info")
	logPath = getEnv("APP_LOG_PATH", "bank.log")

	return dbPath, logLevel, logPath, nil
}

// run initializes the logger, opens the store, applies migrations, wires
// the services, and drives the interactive session until it ends.
func run(ctx context.Context, dbPath, logLevel, logPath string) error {
	// Initialize logger
	if err := logger.Initialize(logLevel, logPath); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Log.Sync()
	logger.Log.Infof("Logger initialized with level %s", logLevel)

	// Apply schema migrations
	if err := migrations.Up(dbPath); err != nil {
		return fmt.Errorf("cannot prepare the account database at %s: %w", dbPath, err)
	}

	// Open the store. Foreign keys keep every transaction tied to an account.
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)", dbPath)
	db, err := sqlx.ConnectContext(ctx, "sqlite", dsn)
	if err != nil {
		return fmt.Errorf("cannot open the account database at %s: %w", dbPath, err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("cannot open the account database at %s: %w", dbPath, err)
	}
	logger.Log.Infof("Store opened at %s", dbPath)

	// Initialize repositories
	accountReader := repositories.NewAccountReadRepository(db, tx.FromContext)
	accountWriter := repositories.NewAccountWriteRepository(db, tx.FromContext)
	txnWriter := repositories.NewTransactionWriteRepository(db, tx.FromContext)
	txnReader := repositories.NewTransactionReadRepository(db)

	// Initialize services
	accountService := services.NewAccountService(accountReader, accountWriter, hasher.New())
	transactionService := services.NewTransactionService(db, accountReader, accountWriter, txnWriter, txnReader)

	// Ctrl-C ends the interactive session cleanly
	ctxRun, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app := ui.New(accountService, transactionService, os.Stdin, os.Stdout)
	if err := app.Run(ctxRun); err != nil && err != context.Canceled {
		return err
	}

	logger.Log.Info("Session ended")
	return nil
}
