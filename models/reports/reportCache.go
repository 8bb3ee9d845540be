package reports

import (
	"context"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/vyaparlabs/gstbooks_backend/config"
)

var tracer trace.Tracer = otel.Tracer("gstbooks-reports")

const slowReportThreshold = 2 * time.Second

func reportCacheEnabled() bool {
	return os.Getenv("ENABLE_REPORT_CACHE") == "true"
}

// cachedReport wraps a report builder with a redis read-through cache and a
// slow-report log. The cache is opt-in; report data changes with every
// invoice, so the TTL is short.
func cachedReport[T any](ctx context.Context, key string, ttl time.Duration, build func(ctx context.Context) (*T, error)) (*T, error) {
	logger := config.GetLogger()

	if reportCacheEnabled() {
		var cached T
		found, err := config.GetRedisObject(key, &cached)
		if err != nil {
			logger.WithFields(logrus.Fields{
				"field": "cachedReport",
				"key":   key,
			}).Warn("report cache read failed: " + err.Error())
		} else if found {
			return &cached, nil
		}
	}

	spanCtx, span := tracer.Start(ctx, key)
	started := time.Now()
	result, err := build(spanCtx)
	span.End()
	if err != nil {
		return nil, err
	}
	if elapsed := time.Since(started); elapsed > slowReportThreshold {
		logger.WithFields(logrus.Fields{
			"field":   "cachedReport",
			"key":     key,
			"elapsed": elapsed.String(),
		}).Warn("slow report")
	}

	if reportCacheEnabled() {
		if err := config.SetRedisObject(key, result, ttl); err != nil {
			logger.WithFields(logrus.Fields{
				"field": "cachedReport",
				"key":   key,
			}).Warn("report cache write failed: " + err.Error())
		}
	}
	return result, nil
}
