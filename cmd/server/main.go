// Package main is the entry point for the job-portal identity server.
//
// main stays minimal: read configuration from the environment, build the
// logger, hand both to the server package. All reading of env vars happens
// here — downstream packages take explicit config.
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Barun-Mishra-09/jobspot/internal/server"
	"github.com/Barun-Mishra-09/jobspot/internal/storage"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	dbPath := "data/jobspot.db"
	if envDB := os.Getenv("DB_PATH"); envDB != "" {
		dbPath = envDB
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", filepath.Dir(dbPath)),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// TOKEN_SECRET must be long random data, e.g.:
	//   TOKEN_SECRET=$(openssl rand -hex 32)
	tokenSecret := os.Getenv("TOKEN_SECRET")
	if tokenSecret == "" {
		logger.Error("TOKEN_SECRET not set, refusing to start without a signing secret")
		os.Exit(1)
	}

	cfg := server.Config{
		Port:        port,
		DBPath:      dbPath,
		Production:  os.Getenv("ENV") == "production",
		TokenSecret: tokenSecret,

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  googleRedirectURL(),

		Storage: storage.Config{
			Bucket:        envDefault("S3_BUCKET", "jobspot-media"),
			Region:        envDefault("S3_REGION", "us-east-1"),
			Endpoint:      os.Getenv("S3_ENDPOINT"),
			AccessKey:     os.Getenv("S3_ACCESS_KEY"),
			SecretKey:     os.Getenv("S3_SECRET_KEY"),
			PublicBaseURL: os.Getenv("S3_PUBLIC_BASE_URL"),
		},
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// googleRedirectURL defaults to "postmessage", the value Google expects for
// the SPA popup flow where the frontend obtains the code itself.
func googleRedirectURL() string {
	if v := os.Getenv("GOOGLE_REDIRECT_URI"); v != "" {
		return v
	}
	return "postmessage"
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
