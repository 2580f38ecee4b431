// Package config loads sfhousing settings from defaults, an optional YAML
// file, a .env file and SFHOUSING_* environment variables, in that order of
// increasing precedence.
package config

import (
	"io/fs"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"github.com/YuminosukeSato/sfhousing/dataset"
	"github.com/YuminosukeSato/sfhousing/pkg/errors"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "SFHOUSING"

// ConfigPathEnv names the variable holding an optional YAML config path.
const ConfigPathEnv = "SFHOUSING_CONFIG"

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Data      DataConfig      `yaml:"data" envconfig:"DATA"`
	Output    OutputConfig    `yaml:"output" envconfig:"OUTPUT"`
	Selection SelectionConfig `yaml:"selection" envconfig:"SELECTION"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Addr            string        `yaml:"addr" split_words:"true" validate:"required"`
	ReadTimeout     time.Duration `yaml:"read_timeout" split_words:"true" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" split_words:"true" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" split_words:"true" validate:"gt=0"`
}

// DataConfig locates the six input CSV files.
type DataConfig struct {
	Dir          string `yaml:"dir" split_words:"true" validate:"required"`
	SalesSF      string `yaml:"sales_sf" split_words:"true" validate:"required"`
	PopulationSF string `yaml:"population_sf" split_words:"true" validate:"required"`
	Prices       string `yaml:"prices" split_words:"true" validate:"required"`
	Populations  string `yaml:"populations" split_words:"true" validate:"required"`
	Correlations string `yaml:"correlations" split_words:"true" validate:"required"`
	Construction string `yaml:"construction" split_words:"true" validate:"required"`
}

// Files returns the file names in the form the dataset loader takes.
func (d DataConfig) Files() dataset.Files {
	return dataset.Files{
		SalesSF:      d.SalesSF,
		PopulationSF: d.PopulationSF,
		Prices:       d.Prices,
		Populations:  d.Populations,
		Correlations: d.Correlations,
		Construction: d.Construction,
	}
}

// OutputConfig controls files written as a side effect of rendering.
type OutputConfig struct {
	Dir           string `yaml:"dir" split_words:"true" validate:"required"`
	WriteArtifact bool   `yaml:"write_artifact" split_words:"true"`
}

// SelectionConfig overrides the initial state/county selection. Empty
// values fall back to the selector's computed default.
type SelectionConfig struct {
	State  string `yaml:"state" split_words:"true"`
	County string `yaml:"county" split_words:"true"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" split_words:"true" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" split_words:"true" validate:"oneof=json console"`
}

// Default returns default configuration
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8501",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Data: DataConfig{
			Dir:          "data",
			SalesSF:      "salesf.csv",
			PopulationSF: "population.csv",
			Prices:       "sale_all.csv",
			Populations:  "pop_all.csv",
			Correlations: "corr.csv",
			Construction: "newcon.csv",
		},
		Output: OutputConfig{
			Dir:           ".",
			WriteArtifact: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads ./.env when present and then calls LoadFrom.
func Load() (*Config, error) {
	return LoadFrom(".env")
}

// LoadFrom loads configuration. envFile may be empty or missing; variables
// already present in the environment are never overridden by it.
func LoadFrom(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(err, "failed to load %s", envFile)
		}
	}

	cfg := Default()

	if path := os.Getenv(ConfigPathEnv); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return nil, errors.Wrap(err, "failed to load config from file")
		}
	}

	// Unset variables leave the file/default values in place.
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to load config from env")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.WithStack(err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Wrapf(err, "invalid YAML in %s", path)
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks required fields and enumerations.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return errors.NewValidationError(fe.Namespace(), "failed on '"+fe.Tag()+"' rule", fe.Value())
		}
		return errors.Wrap(err, "config validation failed")
	}
	return nil
}
