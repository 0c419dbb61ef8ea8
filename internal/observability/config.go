package observability

type Config struct {
	ServiceName  string
	Environment  string
	OtelEndpoint string
	OtelHeaders  string
	OtelInsecure bool
}

func (cfg Config) Enabled() bool {
	return cfg.OtelEndpoint != ""
}
