package middleware

import (
    "github.com/labstack/echo/v4"
    echomw "github.com/labstack/echo/v4/middleware"
    "go.uber.org/zap"
)

// RequestLogger writes one structured line per request. Errors are passed
// to the HTTP error handler first so the logged status is the one sent.
func RequestLogger(log *zap.Logger) echo.MiddlewareFunc {
    return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
        HandleError:   true,
        LogLatency:    true,
        LogMethod:     true,
        LogURI:        true,
        LogRoutePath:  true,
        LogStatus:     true,
        LogRemoteIP:   true,
        LogRequestID:  true,
        LogError:      true,
        LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
            fields := []zap.Field{
                zap.String("method", v.Method),
                zap.String("uri", v.URI),
                zap.String("route", v.RoutePath),
                zap.Int("status", v.Status),
                zap.Duration("latency", v.Latency),
                zap.String("remote_ip", v.RemoteIP),
                zap.String("request_id", v.RequestID),
            }
            switch {
            case v.Status >= 500:
                log.Error("request", append(fields, zap.Error(v.Error))...)
            case v.Status >= 400:
                log.Info("request", append(fields, zap.NamedError("reason", v.Error))...)
            default:
                log.Info("request", fields...)
            }
            return nil
        },
    })
}
