package health

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/valyala/fasthttp"
)

// HealthEndpoints answers liveness probes. It never touches the media store.
type HealthEndpoints struct {
	version   string
	startedAt time.Time
}

func NewEndpoints(version string) *HealthEndpoints {
	return &HealthEndpoints{
		version:   version,
		startedAt: time.Now(),
	}
}

type HealthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	UptimeSeconds int64  `json:"uptimeSeconds"`
}

func (h *HealthEndpoints) Health(ctx *fasthttp.RequestCtx) {
	response := HealthResponse{
		Status:        "ok",
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.startedAt).Seconds()),
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
