package logconfig

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/logward/logward-go/pkg/logward"
)

// Environment variables recognized by FromEnv.
const (
	envLogLevel = "LOG_LEVEL"
	envJSONLogs = "JSON_LOGS"
	envLogPath  = "LOG_PATH"
)

// Config holds the environment-driven logging settings.
type Config struct {
	// Level is the minimum log level (LOG_LEVEL, default INFO).
	Level logward.Level

	// JSONLogs selects JSON output; "0" in JSON_LOGS selects console
	// output instead (default JSON).
	JSONLogs bool

	// FilePath, when non-empty (LOG_PATH), installs a rotating file sink.
	FilePath string
}

// FromEnv reads the logging configuration from the environment.
func FromEnv() (*Config, error) {
	v := viper.New()
	v.SetDefault("log_level", "INFO")
	v.SetDefault("json_logs", "1")

	for key, env := range map[string]string{
		"log_level": envLogLevel,
		"json_logs": envJSONLogs,
		"log_path":  envLogPath,
	} {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("logconfig: bind %s: %w", env, err)
		}
	}

	level, err := logward.ParseLevel(v.GetString("log_level"))
	if err != nil {
		return nil, fmt.Errorf("logconfig: %s: %w", envLogLevel, err)
	}

	return &Config{
		Level:    level,
		JSONLogs: v.GetString("json_logs") != "0",
		FilePath: v.GetString("log_path"),
	}, nil
}
