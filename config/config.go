package config

import (
	"fmt"
	"os"
	"time"

	"github.com/fansqz/go-debug-adapter/constants"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
	Debuggee DebuggeeConfig `yaml:"debuggee"`
	Timeouts TimeoutsConfig `yaml:"timeouts"`
}

// ServerConfig Addr为空时通过标准输入输出与控制端通信
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type DebuggeeConfig struct {
	DefaultPort int `yaml:"default_port"`
}

type TimeoutsConfig struct {
	// ConfigurationDone attach/launch等待configurationDone的最长时间
	ConfigurationDone time.Duration `yaml:"configuration_done"`
	// Disconnect 等待调试目标确认断开的最长时间，超时后强制结束
	Disconnect time.Duration `yaml:"disconnect"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: "",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "/var/godebugadapter.log",
		},
		Debuggee: DebuggeeConfig{
			DefaultPort: constants.DefaultPort,
		},
		Timeouts: TimeoutsConfig{
			ConfigurationDone: 1000 * time.Millisecond,
			Disconnect:        15000 * time.Millisecond,
		},
	}
}

// Load config from yml
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Debuggee.DefaultPort <= 0 || c.Debuggee.DefaultPort > 65535 {
		return fmt.Errorf("invalid debuggee.default_port: %d", c.Debuggee.DefaultPort)
	}
	if c.Timeouts.ConfigurationDone <= 0 || c.Timeouts.Disconnect <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	return nil
}
