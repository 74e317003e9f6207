package internal

import (
	"strings"

	"github.com/valyala/fasthttp"

	"github.com/weddingshare/weddingshare_server/internal/health"
	"github.com/weddingshare/weddingshare_server/internal/media"
	"github.com/weddingshare/weddingshare_server/internal/metrics"
	"github.com/weddingshare/weddingshare_server/internal/middleware"
	"github.com/weddingshare/weddingshare_server/internal/status"
)

// multipartOverhead leaves room for boundaries and part headers on top of
// the largest accepted file.
const multipartOverhead = 1 << 20

func NewRequestHandler(config *Config, mediaEndpoints *media.Endpoints, healthEndpoints *health.HealthEndpoints, statusEndpoints *status.StatusEndpoints) fasthttp.RequestHandler {
	corsMiddleware := middleware.NewCORSMiddleware(config.AllowedOrigins)
	metricsHandler := metrics.Handler()

	handler := func(ctx *fasthttp.RequestCtx) {
		path := string(ctx.Path())

		switch {
		case path == "/health":
			healthEndpoints.Health(ctx)
		case path == "/status":
			statusEndpoints.Status(ctx)
		case path == "/metrics":
			metricsHandler(ctx)

		case path == "/api/media" || path == "/api/media/":
			switch {
			case ctx.IsGet() || ctx.IsHead():
				mediaEndpoints.List(ctx)
			case ctx.IsPost():
				mediaEndpoints.Upload(ctx)
			default:
				ctx.Error("Method Not Allowed", fasthttp.StatusMethodNotAllowed)
			}

		case strings.HasPrefix(path, media.URLPrefix):
			parts := strings.Split(strings.TrimPrefix(path, media.URLPrefix), "/")
			if !(ctx.IsGet() || ctx.IsHead()) {
				ctx.Error("Method Not Allowed", fasthttp.StatusMethodNotAllowed)
				return
			}
			switch {
			case len(parts) == 1:
				ctx.SetUserValue("mediaID", parts[0])
				mediaEndpoints.GetFile(ctx)
			case len(parts) == 2 && parts[1] == "thumb":
				ctx.SetUserValue("mediaID", parts[0])
				mediaEndpoints.GetThumbnail(ctx)
			default:
				ctx.Error("Not Found", fasthttp.StatusNotFound)
			}

		default:
			ctx.Error("Not Found", fasthttp.StatusNotFound)
		}
	}

	return metrics.Middleware(middleware.AccessLog(corsMiddleware.Handle(handler)))
}

func NewServer(config *Config, handler fasthttp.RequestHandler) *fasthttp.Server {
	return &fasthttp.Server{
		Handler:            handler,
		Name:               "weddingshare",
		MaxRequestBodySize: int(config.MaxUploadBytes) + multipartOverhead,
	}
}
