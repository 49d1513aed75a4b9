// Package main runs the ormchart MCP server over stdio (for local editor use).
// The same MCP server is mounted on the backend at /mcp when mcp_enabled is set.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/ormchart/internal/browse"
	"github.com/2beens/ormchart/internal/config"
	"github.com/2beens/ormchart/internal/db"
	"github.com/2beens/ormchart/internal/logging"
	ormmcp "github.com/2beens/ormchart/internal/mcp"
	"github.com/2beens/ormchart/internal/records"
	"github.com/2beens/ormchart/internal/source"
	"github.com/2beens/ormchart/internal/workout"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development | ddev | dockerdev]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// stdout carries the protocol, logs go to the file or stderr
	if cfg.LogsPath != "" {
		logging.Setup(logging.LoggerSetupParams{
			LogFileName: cfg.LogsPath,
			LogLevel:    cfg.LogLevel,
			Environment: cfg.Environment,
		})
	} else {
		log.SetOutput(os.Stderr)
		log.SetLevel(logging.GetLevel(cfg.LogLevel))
	}

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal(err)
	}
	firstWeekday, err := cfg.Weekday()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	sourceParams := source.ParamsFromConfig(cfg, loc)
	if cfg.Source == config.SourcePostgres {
		dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost: cfg.PostgresHost,
			DBPort: cfg.PostgresPort,
			DBName: cfg.PostgresDBName,
		})
		if err != nil {
			log.Fatalf("db pool: %v", err)
		}
		defer dbPool.Close()
		sourceParams.DBPool = dbPool
	}

	src, err := source.New(sourceParams)
	if err != nil {
		log.Fatalf("records source: %v", err)
	}

	manager := workout.NewManager(records.NewStore(loc), src, nil)
	if _, err := manager.Load(ctx); err != nil {
		log.Fatalf("load records: %v", err)
	}

	sessions := browse.NewMemorySessionStore(cfg.SessionTTL())
	browseService := browse.NewService(manager, sessions, loc, firstWeekday, nil)
	server := ormmcp.NewServer(manager, browseService, loc)

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Fatal(err)
	}
}
