package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/dataprep-cli/internal/table"
)

// Global configuration structure.
type Global struct {
	// Output location for cleaned data, reports and run manifests.
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir" validate:"required"`
	// Session puts every run in its own <output_dir>/<run-id> directory.
	Session     bool   `mapstructure:"session" yaml:"session"`
	CleanedFile string `mapstructure:"cleaned_file" yaml:"cleaned_file" validate:"required,endswith=.csv"`
	Reports     bool   `mapstructure:"reports" yaml:"reports"`

	// Loader settings
	Delimiter     string   `mapstructure:"delimiter" yaml:"delimiter" validate:"omitempty,len=1"`
	SheetName     string   `mapstructure:"sheet_name" yaml:"sheet_name"`
	SheetIndex    int      `mapstructure:"sheet_index" yaml:"sheet_index" validate:"gte=0"`
	MissingTokens []string `mapstructure:"missing_tokens" yaml:"missing_tokens"`

	// Profiling
	SampleRows       int     `mapstructure:"sample_rows" yaml:"sample_rows" validate:"gte=0,lte=1000"`
	OutlierThreshold float64 `mapstructure:"outlier_threshold" yaml:"outlier_threshold" validate:"gt=0"`
	HistogramBins    int     `mapstructure:"histogram_bins" yaml:"histogram_bins" validate:"gte=1,lte=200"`

	// Logging and telemetry
	LogLevel    string `mapstructure:"log_level" yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat   string `mapstructure:"log_format" yaml:"log_format" validate:"oneof=text json"`
	TraceFile   string `mapstructure:"trace_file" yaml:"trace_file"`
	MetricsFile string `mapstructure:"metrics_file" yaml:"metrics_file"`
}

var validate = validator.New()

// Validate checks field constraints.
func (c *Global) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Dir returns ~/.dataprep, the default home of config.yaml.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".dataprep"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.dataprep/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (applied by the caller) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("DATAPREP")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("output_dir", ".")
	v.SetDefault("session", false)
	v.SetDefault("cleaned_file", "cleaned_data.csv")
	v.SetDefault("reports", true)
	v.SetDefault("delimiter", ",")
	v.SetDefault("sheet_name", "")
	v.SetDefault("sheet_index", 1)
	v.SetDefault("missing_tokens", table.DefaultMissingTokens)
	v.SetDefault("sample_rows", 5)
	v.SetDefault("outlier_threshold", 3.5)
	v.SetDefault("histogram_bins", 10)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("trace_file", "")
	v.SetDefault("metrics_file", "")

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Default returns the built-in configuration without reading files or env.
func Default() *Global {
	return &Global{
		OutputDir:        ".",
		CleanedFile:      "cleaned_data.csv",
		Reports:          true,
		Delimiter:        ",",
		SheetIndex:       1,
		MissingTokens:    append([]string(nil), table.DefaultMissingTokens...),
		SampleRows:       5,
		OutlierThreshold: 3.5,
		HistogramBins:    10,
		LogLevel:         "info",
		LogFormat:        "text",
	}
}
