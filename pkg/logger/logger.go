// Package logger builds the service-wide zap logger and the request access
// log middleware.
package logger

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mentorlink/mentorlink-api/pkg/config"
	"github.com/mentorlink/mentorlink-api/pkg/middleware/requestid"
)

// New builds a logger from LOG_LEVEL and LOG_FORMAT. Production gets the
// sampled JSON config; everything else the development one. An unparsable
// level falls back to info rather than failing startup.
func New(cfg *config.Config) (*zap.Logger, error) {
	var base zap.Config
	if cfg.Env == config.EnvProduction {
		base = zap.NewProductionConfig()
	} else {
		base = zap.NewDevelopmentConfig()
	}

	switch cfg.Log.Format {
	case "console":
		base.Encoding = "console"
	default:
		base.Encoding = "json"
	}

	if cfg.Log.Level != "" {
		if err := base.Level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
			base.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		}
	}

	base.EncoderConfig.TimeKey = "timestamp"
	base.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return base.Build()
}

// GinMiddleware logs one line per completed request, carrying the request id
// assigned upstream so log lines correlate with API error envelopes.
func GinMiddleware(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		}
		if route := c.FullPath(); route != "" {
			fields = append(fields, zap.String("route", route))
		}
		if reqID := requestid.Value(c); reqID != "" {
			fields = append(fields, zap.String("request_id", reqID))
		}

		l.Info("http_request", fields...)
	}
}
