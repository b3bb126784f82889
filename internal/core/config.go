package core

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config contains all of the configuration options available to the Tirta
// server components.
type Config struct {
	// Hostname or IP address on which the server will listen.
	Hostname string `mapstructure:"hostname"`
	// Full path to file to which logs will be written. Blank will write to stdout.
	LogFilePath string `mapstructure:"log_file_path"`
	// Minimum level of a log required to be written. Options: debug, info, warn, error
	LogLevel string `mapstructure:"log_level"`

	Web struct {
		// Port for the HTTP API consumed by the device and the dashboard.
		HTTPPort int `mapstructure:"http_port"`
	} `mapstructure:"web"`

	Database struct {
		// Storage engine, either "sqlite" or "postgres".
		Engine string `mapstructure:"engine"`
		// Path to the sqlite database file (sqlite engine only).
		Filename string `mapstructure:"filename"`
		// Hostname of the Postgres database instance.
		Host string `mapstructure:"host"`
		// Port on which the Postgres instance is accepting connections.
		Port int `mapstructure:"port"`
		// Name of the database in Postgres for tirta.
		Name string `mapstructure:"name"`
		// Username and password of a user with full RW privileges to ${name}.
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
		// Set to verify-full if the Postgres instance supports SSL.
		SSLMode string `mapstructure:"sslmode"`
	} `mapstructure:"database"`

	Device struct {
		// Pre-shared API key the field device must send in X-API-Key.
		APIKey string `mapstructure:"api_key"`
		// Height of the monitored tank in centimeters.
		TankHeightCM float64 `mapstructure:"tank_height_cm"`
		// Fraction of tank height at or below which the pump turns on in auto mode.
		AutoOnThreshold float64 `mapstructure:"auto_on_threshold"`
		// Fraction of tank height at or above which the pump turns off in auto mode.
		AutoOffThreshold float64 `mapstructure:"auto_off_threshold"`
	} `mapstructure:"device"`

	Auth struct {
		// Secret used to sign dashboard session tokens.
		JWTSecret string `mapstructure:"jwt_secret"`
		// Minutes a session token stays valid.
		TokenTTLMinutes int `mapstructure:"token_ttl_minutes"`
	} `mapstructure:"auth"`

	Debugging struct {
		// Enable extra info-providing mechanisms for the server.
		PprofEnabled bool `mapstructure:"pprof_enabled"`
		// Port on which a pprof server will be started if debug mode is enabled.
		PprofPort int `mapstructure:"pprof_port"`
		// Enable database-level query logging.
		DatabaseLoggingEnabled bool `mapstructure:"database_logging_enabled"`
	} `mapstructure:"debugging"`
}

const envVarPrefix = "TIRTA"

// LoadConfig initializes Viper with the contents of the config file under configPath.
func LoadConfig(configPath string) *Config {
	viper.AddConfigPath(configPath)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix(envVarPrefix)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if errors.Is(err, viper.ConfigFileNotFoundError{}) {
			fmt.Printf("error reading config file: no config file in path %s", configPath)
		} else {
			fmt.Printf("error reading config file: %v", err)
		}
		os.Exit(1)
	}

	// This allows us to set nested yaml config options through environment
	// variables. For example, database.host can be set using: <envVarPrefix>_DATABASE_HOST
	for _, k := range viper.AllKeys() {
		envVar := strings.ReplaceAll(strings.ToUpper(k), ".", "_")
		if err := viper.BindEnv(k, envVarPrefix+"_"+envVar); err != nil {
			fmt.Printf("error binding %s to %s", k, envVarPrefix+"_"+envVar)
			os.Exit(1)
		}
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		fmt.Printf("error unmarshaling config object: %v", err)
		os.Exit(1)
	}
	return config
}

// Validate checks the handful of options without usable defaults.
func (c *Config) Validate() error {
	if c.Device.APIKey == "" {
		return errors.New("device.api_key must be set")
	}
	if c.Device.TankHeightCM <= 0 {
		return errors.New("device.tank_height_cm must be positive")
	}
	on, off := c.Device.AutoOnThreshold, c.Device.AutoOffThreshold
	if on <= 0 || off > 1 || on >= off {
		return fmt.Errorf("auto thresholds must satisfy 0 < on < off <= 1, got on=%v off=%v", on, off)
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret must be set")
	}
	switch c.Database.Engine {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database engine %q", c.Database.Engine)
	}
	return nil
}

const databaseURITemplate = "host=%s port=%d dbname=%s user=%s password=%s sslmode=%s"

// DatabaseURL returns the data source string for the configured engine:
// the sqlite filename as-is, or a Postgres DSN generated from the
// database config values.
func (c *Config) DatabaseURL() string {
	if c.Database.Engine == "sqlite" {
		return c.Database.Filename
	}
	return fmt.Sprintf(
		databaseURITemplate,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.Username,
		c.Database.Password,
		c.Database.SSLMode,
	)
}

// WebAddress returns the listen address for the HTTP API.
func (c *Config) WebAddress() string {
	return fmt.Sprintf("%s:%d", c.Hostname, c.Web.HTTPPort)
}
