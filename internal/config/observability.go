package config

import (
	"github.com/ferdian3456/devblog/internal/observability"
	"github.com/knadh/koanf/v2"
)

const defaultServiceName = "devblog"

func LoadObservabilityConfig(config *koanf.Koanf) observability.Config {
	observabilityConfig := observability.Config{
		OtelEndpoint: config.String("OTEL_EXPORTER_OTLP_ENDPOINT"),
		ServiceName:  config.String("OTEL_SERVICE_NAME"),
		Environment:  config.String("ENVIRONMENT"),
		OtelHeaders:  config.String("OTEL_EXPORTER_OTLP_HEADERS"),
		OtelInsecure: config.String("OTEL_EXPORTER_OTLP_INSECURE") != "false",
	}

	if observabilityConfig.ServiceName == "" {
		observabilityConfig.ServiceName = defaultServiceName
	}

	if observabilityConfig.Environment == "" {
		observabilityConfig.Environment = "development"
	}

	return observabilityConfig
}
