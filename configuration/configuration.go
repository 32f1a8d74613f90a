// Package configuration loads operator settings from environment
// variables and an optional config file.
package configuration

import (
	"encoding/json"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Environment variable and config file keys. Viper treats these
// case-insensitively so the same keys work in a YAML file.
const (
	EnvClusterName  = "CLUSTER_NAME"
	EnvNamespace    = "NAMESPACE"
	EnvDefaultTags  = "DEFAULT_TAGS"
	EnvAWSRegion    = "AWS_REGION"
	EnvGRPCPort     = "GRPC_PORT"
	EnvHTTPPort     = "HTTP_PORT"
	EnvLogLevel     = "LOG_LEVEL"
	EnvLogFile      = "LOG_FILE"
	EnvSweepEnabled = "ORPHAN_SWEEP_ENABLED"
	EnvSweepPeriod  = "ORPHAN_SWEEP_PERIOD"
)

const (
	DefaultGRPCPort    = 50051
	DefaultHTTPPort    = 8080
	DefaultSweepPeriod = 5 * time.Minute
)

// ErrClusterNameRequired is returned when CLUSTER_NAME is unset. Every
// address the operator allocates is tagged with the cluster name, and
// orphan cleanup filters on it, so running without one is unsafe.
var ErrClusterNameRequired = errors.New("CLUSTER_NAME must be set")

// Config holds everything the operator needs at startup.
type Config struct {
	// ClusterName tags allocated addresses and scopes orphan cleanup.
	ClusterName string `mapstructure:"cluster_name"`
	// Namespace restricts watches and cleanup to one namespace when set.
	Namespace string `mapstructure:"namespace"`
	// DefaultTags is a JSON object of extra tags applied to every
	// allocated address.
	DefaultTags map[string]string `mapstructure:"-"`
	// Region overrides the AWS SDK's own region resolution when set.
	Region string `mapstructure:"aws_region"`

	GRPCPort int `mapstructure:"grpc_port"`
	HTTPPort int `mapstructure:"http_port"`

	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`

	// SweepEnabled turns on the periodic orphan sweep.
	SweepEnabled bool          `mapstructure:"orphan_sweep_enabled"`
	SweepPeriod  time.Duration `mapstructure:"orphan_sweep_period"`
}

// Load reads configuration from the environment, layered under the
// optional config file at path. Environment variables win. When a config
// file is given, onChange (if non-nil) fires on every write to it; the
// operator uses this to log that a restart is needed.
func Load(path string, onChange func(fsnotify.Event)) (*Config, error) {
	v := viper.New()
	v.SetDefault("grpc_port", DefaultGRPCPort)
	v.SetDefault("http_port", DefaultHTTPPort)
	v.SetDefault("orphan_sweep_enabled", true)
	v.SetDefault("orphan_sweep_period", DefaultSweepPeriod)
	v.AutomaticEnv()

	// AutomaticEnv alone does not surface env-only keys through
	// Unmarshal, so bind each key explicitly.
	for _, key := range []string{
		EnvClusterName, EnvNamespace, EnvDefaultTags, EnvAWSRegion,
		EnvGRPCPort, EnvHTTPPort, EnvLogLevel, EnvLogFile,
		EnvSweepEnabled, EnvSweepPeriod,
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, errors.Wrapf(err, "binding %s", key)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "reading config file %q", path)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	tags, err := parseDefaultTags(v.GetString(EnvDefaultTags))
	if err != nil {
		return nil, err
	}
	cfg.DefaultTags = tags

	if cfg.ClusterName == "" {
		return nil, ErrClusterNameRequired
	}

	if path != "" && onChange != nil {
		v.OnConfigChange(onChange)
		v.WatchConfig()
	}

	return cfg, nil
}

func parseDefaultTags(raw string) (map[string]string, error) {
	if raw == "" {
		return nil, nil
	}
	tags := map[string]string{}
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, errors.Wrap(err, "parsing DEFAULT_TAGS as a JSON object")
	}
	return tags, nil
}
