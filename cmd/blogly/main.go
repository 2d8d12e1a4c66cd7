// blogly serves the users, posts and tags web app.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/mickamy/blogly/internal/config"
	"github.com/mickamy/blogly/internal/database"
	"github.com/mickamy/blogly/internal/web"
)

var appVersion = "-unset-"

var (
	configPath  string
	listenAddr  string
	dbDriver    string
	dbDSN       string
	echoSQL     bool
	rollback    bool
	showVersion bool
)

func main() {
	config.AppVersion = appVersion

	flag.StringVar(&configPath, "config", "", "JSON config file (defaults apply when omitted)")
	flag.StringVar(&listenAddr, "listen", "", "web listen address, overrides the config (e.g. :5000)")
	flag.StringVar(&dbDriver, "driver", "", "database driver: sqlite3, postgres or mysql")
	flag.StringVar(&dbDSN, "dsn", "", "database DSN (sqlite3: file path)")
	flag.BoolVar(&echoSQL, "echo", false, "log every SQL statement")
	flag.BoolVar(&rollback, "rollback", false, "roll back the latest migration and exit")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Println("blogly", appVersion)
		return
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("[Web]: %v", err)
	}
	if listenAddr != "" {
		cfg.Web.ListenAddr = listenAddr
	}
	if dbDriver != "" {
		cfg.Database.Driver = dbDriver
	}
	if dbDSN != "" {
		cfg.Database.DSN = dbDSN
	}
	if echoSQL {
		cfg.Database.Echo = true
	}
	if rollback {
		cfg.Database.Migrate = false
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[Web]: invalid config: %v", err)
	}
	log.Printf("Starting blogly (version: %s) driver=%s", appVersion, cfg.Database.Driver)

	ctx := context.Background()
	conn, err := database.Open(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("[Web]: %v", err)
	}

	if rollback {
		err := conn.Rollback()
		if cerr := conn.Close(); cerr != nil {
			log.Printf("[Web]: close database: %v", cerr)
		}
		if err != nil {
			log.Fatalf("[Web]: %v", err)
		}
		return
	}

	server, err := web.NewServer(conn.DB, &cfg.Web, nil)
	if err != nil {
		log.Fatalf("[Web]: %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("[Web]: received %s, shutting down", sig)
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[Web]: server stopped: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Web.ShutdownTimeout.Duration)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[Web]: shutdown: %v", err)
	}
	if err := conn.Close(); err != nil {
		log.Printf("[Web]: close database: %v", err)
	}
	log.Printf("[Web]: bye")
}
