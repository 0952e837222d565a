package observability

import (
	"testing"

	"github.com/smallbiznis/taskora/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig(config.Config{
		AppName:      "taskora",
		AppVersion:   "0.1.0",
		Environment:  "development",
		OTLPEndpoint: "collector:4317",
	})

	assert.Equal(t, "taskora", cfg.ServiceName)
	assert.Equal(t, "collector:4317", cfg.OtelExporterEndpoint)
	assert.Equal(t, "grpc", cfg.OtelExporterProtocol)
	assert.InDelta(t, 0.1, cfg.OtelSamplingRatio, 1e-9)
	assert.True(t, cfg.Debug(), "development implies debug logging")
}

func TestTracesProtocolOverridesGenericProtocol(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_PROTOCOL", "http/protobuf")

	cfg := LoadConfig(config.Config{AppName: "taskora"})
	assert.Equal(t, "http", cfg.OtelExporterProtocol)
}

func TestNormalizeOTLPProtocol(t *testing.T) {
	cases := map[string]string{
		"grpc":          "grpc",
		"GRPC":          "grpc",
		"http":          "http",
		"http/protobuf": "http",
		"":              "grpc",
		"carrier111":    "grpc",
	}
	for raw, want := range cases {
		assert.Equal(t, want, normalizeOTLPProtocol(raw), "%q", raw)
	}
}

func TestSamplingRatioClamped(t *testing.T) {
	t.Setenv("OTEL_SAMPLING_RATIO", "7.5")
	assert.Equal(t, 1.0, samplingRatio())

	t.Setenv("OTEL_SAMPLING_RATIO", "-1")
	assert.Equal(t, 0.0, samplingRatio())

	t.Setenv("OTEL_SAMPLING_RATIO", "0.25")
	assert.Equal(t, 0.25, samplingRatio())
}
