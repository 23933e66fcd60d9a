package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	benchmarkLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "performance_core_benchmark_lookups_total",
		Help: "Benchmark lookups by result source",
	}, []string{"source"})

	mappingValidationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "performance_core_mapping_validation_failures_total",
		Help: "Mapping saves rejected by validation",
	})

	webhookRowsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "performance_core_webhook_rows_ingested_total",
		Help: "Rows accepted through webhook data sources",
	})

	dataSourceSyncs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "performance_core_data_source_syncs_total",
		Help: "Data source syncs by kind and result",
	}, []string{"kind", "result"})

	oauthCallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "performance_core_oauth_callbacks_total",
		Help: "OAuth callbacks by platform and result",
	}, []string{"platform", "result"})
)
