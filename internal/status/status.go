package status

import (
	"context"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp"

	"github.com/weddingshare/weddingshare_server/internal/media"
)

type StatsSource interface {
	Stats(ctx context.Context) (*media.StoreStats, error)
}

type StatusEndpoints struct {
	version string
	stats   StatsSource
}

func NewEndpoints(version string, stats StatsSource) *StatusEndpoints {
	return &StatusEndpoints{
		version: version,
		stats:   stats,
	}
}

type StatusResponse struct {
	Health  string            `json:"health"`
	Version string            `json:"version"`
	Media   *media.StoreStats `json:"media,omitempty"`
}

func (se *StatusEndpoints) Status(ctx *fasthttp.RequestCtx) {
	response := StatusResponse{
		Health:  "OK",
		Version: se.version,
	}

	stats, err := se.stats.Stats(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to collect media stats")
		response.Health = "DEGRADED"
	} else {
		response.Media = stats
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		ctx.Error("Internal Server Error", fasthttp.StatusInternalServerError)
		return
	}

	ctx.SetContentType("application/json")
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetBody(responseJSON)
}
