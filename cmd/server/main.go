// Package main is the entry point for the snippet vault server.
//
// The main package stays minimal — its job is to:
//  1. Read configuration from environment variables
//  2. Create the logger
//  3. Hand both to server.New and start the application
//
// All actual logic lives in imported packages (internal/server,
// internal/service, etc.). Notably, this is the ONLY place that reads the
// environment: everything downstream receives explicit config.
package main

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/sakif/snippet-vault/internal/server"
)

func main() {
	// Structured logging via slog. Text handler for human-readable dev
	// output; Debug level so every request line shows up.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	// PORT defaults to 8080.
	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	// DATA_FILE is where the JSON document lives. DB_PATH, if set, switches
	// the vault to the SQLite backend instead (same external behaviour).
	dataFile := "data/vault.json"
	if envData := os.Getenv("DATA_FILE"); envData != "" {
		dataFile = envData
	}
	dbPath := os.Getenv("DB_PATH")

	// ENCRYPTION_KEY is REQUIRED: base64 of 32 random bytes. Generate with:
	//
	//	ENCRYPTION_KEY=$(openssl rand -base64 32)
	//
	// A missing or malformed key is fatal HERE, at startup — never a
	// per-request error. Losing this key makes every stored snippet
	// permanently undecryptable, so treat it like the data itself.
	encryptionKey := os.Getenv("ENCRYPTION_KEY")
	if encryptionKey == "" {
		logger.Error("ENCRYPTION_KEY not set — refusing to start without an encryption key")
		os.Exit(1)
	}

	cfg := server.Config{
		Port:          port,
		DataFile:      dataFile,
		DBPath:        dbPath,
		EncryptionKey: encryptionKey,
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		// Covers the malformed-key case: crypto.New rejects anything that
		// isn't valid base64 of exactly 32 bytes.
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until the server is shut down (Ctrl+C or SIGTERM).
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
