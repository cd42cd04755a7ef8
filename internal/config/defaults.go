package config

const (
	DefaultConfigFile        = "stowpack.yaml"
	DefaultAddress           = "localhost"
	DefaultPort              = 8501
	DefaultFileWatcher       = WatcherFSNotify
	DefaultPollInterval      = "1s"
	DefaultStorePath         = "stowpack.db"
	DefaultRenderTimeout     = "60s"
	DefaultTelemetryInterval = "5m"
	DefaultLogLevel          = "info"
)

// DefaultConfig returns a Config with all default values applied.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Address:      DefaultAddress,
			Port:         DefaultPort,
			FileWatcher:  DefaultFileWatcher,
			PollInterval: DefaultPollInterval,
		},
		Store: StoreConfig{
			Path: DefaultStorePath,
		},
		Render: RenderConfig{
			Timeout: DefaultRenderTimeout,
		},
		Telemetry: TelemetryConfig{
			GatherUsageStats: true,
			Interval:         DefaultTelemetryInterval,
		},
		LogLevel: DefaultLogLevel,
	}
}
