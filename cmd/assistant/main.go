// Copyright (C) 2026 marcin-program
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Command assistant starts the sales assistant HTTP server.
//
// This is the main entry point for the containerized assistant service.
// It reads configuration from environment variables and starts the server.
//
// # Environment Variables
//
//   - ASSISTANT_PORT: HTTP server port (default: 12310)
//   - LLM_BACKEND_TYPE: LLM provider - ollama, openai, none (default: none)
//   - ASSISTANT_DATA_PATH: Badger data directory (default: ./data/assistant)
//   - ASSISTANT_CATALOG_SEED: optional YAML catalog seed file
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OpenTelemetry collector (default: assistant-otel-collector:4317)
//
// # Usage
//
//	# Build
//	go build -o assistant ./cmd/assistant
//
//	# Run
//	./assistant
package main

import (
	"log"
	"log/slog"
	"os"
	"strconv"

	"github.com/marcin-program/Inteligentny-Asystent-Sprzeda-y-AI-2026/services/assistant"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Build configuration from environment variables
	cfg := assistant.Config{
		Port:         getEnvInt("ASSISTANT_PORT", 12310),
		LLMBackend:   getEnvString("LLM_BACKEND_TYPE", "none"),
		DataPath:     getEnvString("ASSISTANT_DATA_PATH", "./data/assistant"),
		CatalogSeed:  os.Getenv("ASSISTANT_CATALOG_SEED"),
		OTelEndpoint: getEnvString("OTEL_EXPORTER_OTLP_ENDPOINT", "assistant-otel-collector:4317"),
	}

	slog.Info("Starting assistant",
		"port", cfg.Port,
		"llm_backend", cfg.LLMBackend,
		"data_path", cfg.DataPath,
	)

	svc, err := assistant.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create assistant: %v", err)
	}

	// Run the server (blocks until shutdown)
	if err := svc.Run(); err != nil {
		log.Fatalf("Assistant error: %v", err)
	}
}

// getEnvString returns the environment variable value or a default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable as int or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
