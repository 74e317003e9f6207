package main

import (
	"github.com/rs/zerolog/log"

	"github.com/weddingshare/weddingshare_server/internal"
	"github.com/weddingshare/weddingshare_server/internal/health"
	"github.com/weddingshare/weddingshare_server/internal/media"
	"github.com/weddingshare/weddingshare_server/internal/status"
)

const version = "1.0.0"

func main() {
	config, err := internal.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
		return
	}
	internal.SetupLogging(config.LogLevel, config.LogFormat, nil)

	backend, err := media.NewBackend(&config.Storage)
	if err != nil {
		log.Fatal().Err(err).Str("type", string(config.Storage.Type)).Msg("Error initializing media storage")
		return
	}
	log.Info().
		Str("type", string(config.Storage.Type)).
		Str("path", config.Storage.LocalPath).
		Msg("Media storage initialized")

	mediaService := media.NewService(backend, config.MaxUploadBytes)
	mediaEndpoints := media.NewEndpoints(mediaService)
	healthEndpoints := health.NewEndpoints(version)
	statusEndpoints := status.NewEndpoints(version, mediaService)

	requestHandler := internal.NewRequestHandler(config, mediaEndpoints, healthEndpoints, statusEndpoints)
	server := internal.NewServer(config, requestHandler)

	log.Info().Int("port", config.Port).Msg("Server is running")
	if err := server.ListenAndServe(config.Addr()); err != nil {
		log.Fatal().Err(err).Msg("Error starting server")
	}
}
