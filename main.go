package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/comptaflow/console/internal/console"
	"github.com/comptaflow/console/internal/router"
	"github.com/comptaflow/console/internal/session"
)

func main() {
	// gin uses debug as the default mode, we use release for
	// security reasons
	ginMode, ok := os.LookupEnv("GIN_MODE")
	if !ok {
		gin.SetMode("release")
	} else {
		gin.SetMode(ginMode)
	}

	// Log format can be explicitly set.
	// If it is not set, it defaults to human readable for development
	// and JSON for release
	logFormat, ok := os.LookupEnv("LOG_FORMAT")
	output := io.Writer(os.Stdout)
	if (!ok && gin.IsDebugging()) || (ok && logFormat == "human") {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()

	// The accounting backend all data comes from
	backendURL, ok := os.LookupEnv("BACKEND_URL")
	if !ok {
		log.Fatal().Msg("BACKEND_URL must be set to the accounting backend base URL")
	}

	// Create data directory
	dataDir, ok := os.LookupEnv("DATA_DIR")
	if !ok {
		dataDir = filepath.Join(".", "data")
	}
	err := os.MkdirAll(dataDir, os.ModePerm)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	// Open the durable session store
	store, err := session.OpenStore(filepath.Join(dataDir, "sessions.db"))
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	registry := console.NewRegistry(backendURL, store, log.Logger)

	r, teardown, err := router.Router(registry)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}
	defer teardown()

	if err := r.Run(); err != nil {
		log.Fatal().Msg(err.Error())
	}
}
