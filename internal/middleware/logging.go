// Package middleware holds Connect interceptors shared by every service.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/groupledger/internal/metrics"
)

// LoggingInterceptor returns a Connect interceptor that logs every RPC call
// and records its duration in m. m may be nil.
// It logs the procedure name, duration, and any error codes/messages.
func LoggingInterceptor(m *metrics.Metrics) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			procedure := req.Spec().Procedure

			resp, err := next(ctx, req)

			elapsed := time.Since(start)
			duration := elapsed.Milliseconds()
			code := "ok"
			if err != nil {
				var connectErr *connect.Error
				if errors.As(err, &connectErr) {
					code = connectErr.Code().String()
					slog.Warn("RPC error",
						"procedure", procedure,
						"code", connectErr.Code(),
						"error", connectErr.Message(),
						"duration_ms", duration,
					)
				} else {
					code = connect.CodeUnknown.String()
					slog.Error("RPC error",
						"procedure", procedure,
						"error", err,
						"duration_ms", duration,
					)
				}
			} else {
				slog.Info("RPC ok",
					"procedure", procedure,
					"duration_ms", duration,
				)
			}
			m.ObserveRPC(procedure, code, elapsed.Seconds())

			return resp, err
		}
	}
}
