package middleware

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp"
)

const RequestIDHeader = "X-Request-ID"

// AccessLog tags every request with an id and writes one log line when it
// completes.
func AccessLog(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()

		requestID := string(ctx.Request.Header.Peek(RequestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx.SetUserValue("requestID", requestID)
		ctx.Response.Header.Set(RequestIDHeader, requestID)

		next(ctx)

		status := ctx.Response.StatusCode()
		var event *zerolog.Event
		switch {
		case status >= 500:
			event = log.Error()
		case status >= 400:
			event = log.Warn()
		default:
			event = log.Info()
		}
		event.
			Str("requestId", requestID).
			Str("method", string(ctx.Method())).
			Str("path", string(ctx.Path())).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Str("remote", ctx.RemoteIP().String()).
			Msg("Request handled")
	}
}
