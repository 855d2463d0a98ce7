package initializers

import (
	"context"

	"github.com/Kariqs/satshop-api/logger"
	"github.com/Kariqs/satshop-api/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	Metrics  *metrics.Metrics
	Registry *prometheus.Registry
)

func InitMetrics() {
	if !Config.Metrics.Enabled {
		return
	}

	Registry = prometheus.NewRegistry()
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := metrics.New("api")
	if err := m.Register(Registry); err != nil {
		logger.Warn(context.Background(), "failed to register metrics", "error", err)
		return
	}
	Metrics = m
}
