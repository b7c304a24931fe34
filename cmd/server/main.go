package main

import (
	"log"

	_ "taskapi/docs"
	"taskapi/internal/config"
	"taskapi/internal/logger"
	"taskapi/internal/server"
)

// @title           Task API
// @version         1.0
// @description     Tasks and the users they are assigned to, with JSON query parameters for listing.

// @host      localhost:8080
// @BasePath  /

// @schemes http
func main() {
	cfg := config.Load()

	logCfg := logger.DefaultConfig()
	logCfg.Level = cfg.LogLevel
	logCfg.Format = cfg.LogFormat
	logCfg.Output = cfg.LogOutput
	logCfg.FilePath = cfg.LogFile
	if err := logger.Init(logCfg); err != nil {
		log.Fatalf("❌ Logger initialization failed: %v", err)
	}

	s, err := server.Init(cfg)
	if err != nil {
		log.Fatalf("❌ Server initialization failed: %v", err)
	}

	s.Run()
}
