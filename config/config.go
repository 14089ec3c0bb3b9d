// Package config loads the toolkit settings and the backend accounts.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/taisugar/toolkit/dailynecessities"
	"github.com/taisugar/toolkit/tscred"
)

// EnvPrefix prefixes environment overrides, e.g. TAISUGAR_TSCRED_BASE_URL.
const EnvPrefix = "TAISUGAR"

type Config struct {
	// Timeout bounds every backend request.
	Timeout         time.Duration `mapstructure:"timeout"`
	TemplateDir     string        `mapstructure:"template_dir"`
	OutputDir       string        `mapstructure:"output_dir"`
	CredentialsFile string        `mapstructure:"credentials_file"`

	DailyNecessities DailyNecessities `mapstructure:"daily_necessities"`
	TSCRED           TSCRED           `mapstructure:"tscred"`
	Server           Server           `mapstructure:"server"`
}

type DailyNecessities struct {
	BaseURL string `mapstructure:"base_url"`
	// Profile is the credentials section holding the account.
	Profile string `mapstructure:"profile"`
}

type TSCRED struct {
	BaseURL string `mapstructure:"base_url"`
	// OperationCenters are queried and merged into one purchase order.
	OperationCenters []string `mapstructure:"operation_centers"`
	DepartmentID     string   `mapstructure:"department_id"`
	DisplayMode      int      `mapstructure:"display_mode"`
}

type Server struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("timeout", 5*time.Second)
	v.SetDefault("template_dir", "templates")
	v.SetDefault("output_dir", ".")
	v.SetDefault("credentials_file", "credentials.ini")

	v.SetDefault("daily_necessities.base_url", dailynecessities.DefaultBaseURL)
	v.SetDefault("daily_necessities.profile", "daily_necessities")

	v.SetDefault("tscred.base_url", tscred.DefaultBaseURL)
	v.SetDefault("tscred.operation_centers", []string{})
	v.SetDefault("tscred.department_id", "")
	v.SetDefault("tscred.display_mode", int(tscred.ByStation))

	v.SetDefault("server.addr", "127.0.0.1:8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
}

// Load reads the YAML file at path over the defaults; an empty path uses the
// defaults alone. TAISUGAR_* environment variables override both.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
