package app

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"

	"github.com/spf13/viper"
)

type Config struct {
	API struct {
		// BaseURL is the origin of the feedback backend.
		BaseURL string `validate:"required,http_url"`
		// TimeoutSeconds bounds each request round-trip.
		TimeoutSeconds int `validate:"required,min=1"`
	}
	Data struct {
		// Dir is the directory holding the client's local database.
		// The default is ~/.feedloop.
		Dir string `validate:"required"`
	}
	Log struct {
		Level string `validate:"required,oneof=debug info warn error"`
	}
	valid bool
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// DBFile is the path of the local SQLite database.
func (c *Config) DBFile() string {
	return filepath.Join(c.Data.Dir, "feedloop.db")
}

// LoadConfig loads the configuration from the config file and environment
// variables. Any invalid configuration will not be loaded, and the error
// will be caught in the validation step.
func LoadConfig() (*Config, error) {
	config := &Config{}
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	home, err := os.UserHomeDir()
	if err == nil {
		viper.AddConfigPath(filepath.Join(home, ".feedloop"))
	}

	viper.SetEnvPrefix("feedloop")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("api.baseurl", "http://localhost:8000")
	viper.SetDefault("api.timeoutseconds", 30)
	if home != "" {
		viper.SetDefault("data.dir", filepath.Join(home, ".feedloop"))
	} else {
		viper.SetDefault("data.dir", ".feedloop")
	}
	viper.SetDefault("log.level", "info")

	if err := viper.ReadInConfig(); err != nil {
		// running without a config file is normal; env and defaults apply
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := viper.Unmarshal(&config,
		viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToSliceHookFunc(",")),
		),
	); err != nil {
		// defer error to validation step
		return config, nil
	}
	return config, nil
}

func (c *Config) Validate() error {
	if c.valid {
		return nil
	}
	err := validate.Struct(c)
	if err != nil {
		return err
	}
	c.valid = true
	return nil
}

func FormatValidationErrors(err error) string {
	errors, ok := err.(validator.ValidationErrors)
	if !ok {
		return ""
	}
	trans, _ := uniTrans.GetTranslator("en")
	translated := errors.Translate(trans)

	var sb strings.Builder
	for v := range maps.Values(translated) {
		sb.WriteString(v)
		sb.WriteString("\n")
	}
	return sb.String()
}
