package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"tesoura/cmd"
	"tesoura/internal/apiclient"
	"tesoura/internal/booking"
	"tesoura/internal/bookingcache"
	"tesoura/internal/db"
	"tesoura/internal/listing"
	"tesoura/internal/logging"
	"tesoura/internal/session"
	"tesoura/internal/shopadmin"
	"tesoura/internal/stubapi"
	"tesoura/internal/ui"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	config, err := cmd.ParseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if config.ShowVersion {
		fmt.Println("tesoura", version)
		return
	}

	logger, closeLog, err := logging.New(logging.Options{File: config.LogFile, Level: config.LogLevel})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()
	logger.Info("starting", zap.String("version", version), zap.Bool("demo", config.Demo))

	scope, err := booking.ParseScope(config.ConflictScope)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Demo mode serves the API from memory on a local port.
	if config.Demo {
		stub := stubapi.New(stubapi.Options{Logger: logger, Seed: true})
		addr, err := stub.Start(config.DemoAddr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to start demo API: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = stub.Shutdown(ctx)
		}()
		config.APIURL = "http://" + addr
		fmt.Fprintf(os.Stderr, "ℹ  Demo mode: log in as %s or %s (password %s)\n",
			stubapi.DemoCustomerEmail, stubapi.DemoAdminEmail, stubapi.DemoPassword)
	}

	termCaps := ui.DetectTerminalCapabilities()

	database, err := db.Open(config.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	client := apiclient.New(config.APIURL, apiclient.Options{
		Timeout:           config.RequestTimeout,
		RequestsPerSecond: config.RequestsPerSecond,
		Logger:            logger,
	})
	kv := db.KVStore{DB: database}

	scheduler, err := booking.New(booking.SQLStore{DB: database}, scope, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load local bookings: %v\n", err)
		os.Exit(1)
	}

	deps := ui.Deps{
		API:           client,
		Sessions:      session.NewManager(client, kv, logger),
		Listing:       listing.New(client, config.PageSize, logger),
		Bookings:      bookingcache.New(client, kv, logger),
		Shops:         shopadmin.New(client, logger),
		Scheduler:     scheduler,
		Prefs:         kv,
		ConfigDir:     config.ConfigDir,
		LookaheadRows: config.LookaheadRows,
		TermCaps:      termCaps,
		Logger:        logger,
		Version:       version,
	}

	p := tea.NewProgram(ui.New(deps), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error("app exited with error", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error running app: %v\n", err)
		os.Exit(1)
	}
}
