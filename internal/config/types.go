package config

// Config holds brandkit's runtime settings.
type Config struct {
	DataDir         string `yaml:"data_dir" mapstructure:"data_dir" validate:"required"`
	Backend         string `yaml:"backend" mapstructure:"backend" validate:"oneof=file sqlite"`
	LogLevel        string `yaml:"log_level" mapstructure:"log_level" validate:"log_level"`
	LogFormat       string `yaml:"log_format" mapstructure:"log_format" validate:"oneof=console logfmt json"`
	ListenAddr      string `yaml:"listen_addr" mapstructure:"listen_addr" validate:"required,hostname_port"`
	DefaultProvider string `yaml:"default_provider" mapstructure:"default_provider" validate:"oneof=google bunny local system"`
}

// Defaults used when neither the file nor the environment set a value.
const (
	DefaultBackend    = "file"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "console"
	DefaultListenAddr = "127.0.0.1:8787"
	DefaultProvider   = "google"
	// EnvPrefix prefixes every environment override, e.g. BRANDKIT_DATA_DIR.
	EnvPrefix = "BRANDKIT"
)
